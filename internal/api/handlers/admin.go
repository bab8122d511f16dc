package handlers

import (
	"net/http"
	"strconv"

	"github.com/dkranz/leadgate/internal/contact"
	"github.com/dkranz/leadgate/internal/queue"
)

// PurgeEnqueuer hands retention purges off to the background worker.
type PurgeEnqueuer interface {
	EnqueueRetentionPurge(payload queue.RetentionPurgePayload) error
}

type AdminHandler struct {
	store         *contact.Store
	stats         *contact.Stats
	sinkNames     []string
	queue         PurgeEnqueuer
	retentionDays int
}

func NewAdminHandler(store *contact.Store, stats *contact.Stats, sinkNames []string, q PurgeEnqueuer, retentionDays int) *AdminHandler {
	return &AdminHandler{store: store, stats: stats, sinkNames: sinkNames, queue: q, retentionDays: retentionDays}
}

func (h *AdminHandler) Submissions(w http.ResponseWriter, r *http.Request) {
	var opts contact.ListOptions
	opts.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	opts.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	if opts.Limit <= 0 {
		opts.Limit = 50
	}

	subs, err := h.store.List(r.Context(), opts)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"submissions": subs, "count": len(subs)})
}

func (h *AdminHandler) IntakeStats(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.stats.Snapshot(r.Context(), h.sinkNames)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"stats": snapshot})
}

// TriggerRetentionPurge enqueues an on-demand purge instead of waiting for
// the nightly schedule.
func (h *AdminHandler) TriggerRetentionPurge(w http.ResponseWriter, r *http.Request) {
	if h.queue == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "queue not configured"})
		return
	}

	days := h.retentionDays
	if s := r.URL.Query().Get("days"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			days = n
		}
	}
	if days <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "retention days must be positive"})
		return
	}

	if err := h.queue.EnqueueRetentionPurge(queue.RetentionPurgePayload{Days: days}); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]interface{}{"status": "enqueued", "days": days})
}
