package contact

import (
	"context"
	"log/slog"

	"github.com/dkranz/leadgate/internal/cache"
)

// Stats keeps running intake counters in Redis. Everything here is best
// effort and read only by the admin surface; a nil Stats or an unreachable
// Redis never affects a submission.
type Stats struct {
	cache *cache.Cache
}

func NewStats(c *cache.Cache) *Stats {
	return &Stats{cache: c}
}

func (s *Stats) RecordRejected(ctx context.Context) {
	s.incr(ctx, "intake:rejected")
}

func (s *Stats) RecordOutcome(ctx context.Context, o Outcome, accepted bool) {
	if accepted {
		s.incr(ctx, "intake:accepted")
	} else {
		s.incr(ctx, "intake:failed")
	}
	for _, r := range o.Results {
		if !r.Attempted {
			continue
		}
		if r.Err == nil {
			s.incr(ctx, "intake:sink:"+r.Sink+":delivered")
		} else {
			s.incr(ctx, "intake:sink:"+r.Sink+":failed")
		}
	}
}

// Snapshot reads the counters back for the admin stats endpoint.
func (s *Stats) Snapshot(ctx context.Context, sinkNames []string) (map[string]int64, error) {
	if s == nil || s.cache == nil {
		return map[string]int64{}, nil
	}

	keys := []string{"intake:accepted", "intake:failed", "intake:rejected"}
	for _, name := range sinkNames {
		keys = append(keys, "intake:sink:"+name+":delivered", "intake:sink:"+name+":failed")
	}

	out := make(map[string]int64, len(keys))
	for _, key := range keys {
		n, err := s.cache.GetInt(ctx, key)
		if err != nil {
			return nil, err
		}
		out[key] = n
	}
	return out, nil
}

func (s *Stats) incr(ctx context.Context, key string) {
	if s == nil || s.cache == nil {
		return
	}
	if _, err := s.cache.Increment(ctx, key); err != nil {
		slog.Debug("intake counter update failed", "key", key, "error", err)
	}
}
