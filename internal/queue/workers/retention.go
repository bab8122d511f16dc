package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/dkranz/leadgate/internal/contact"
	"github.com/dkranz/leadgate/internal/queue"
)

// RetentionWorker purges submissions past the retention window.
type RetentionWorker struct {
	store *contact.Store
}

func NewRetentionWorker(store *contact.Store) *RetentionWorker {
	return &RetentionWorker{store: store}
}

func (w *RetentionWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.RetentionPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	if payload.Days <= 0 {
		slog.Info("retention purge skipped, retention disabled")
		return nil
	}

	cutoff := time.Now().AddDate(0, 0, -payload.Days)
	purged, err := w.store.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("purge submissions: %w", err)
	}

	slog.Info("retention purge completed", "purged", purged, "cutoff", cutoff)
	return nil
}
