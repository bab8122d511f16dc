package contact

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Sink is one downstream delivery target for a submission. Unconfigured
// sinks are skipped; best-effort sinks are attempted but excluded from the
// delivery aggregate.
type Sink interface {
	Name() string
	Configured() bool
	BestEffort() bool
	Deliver(ctx context.Context, sub *Submission) error
}

type Result struct {
	Sink       string
	Attempted  bool
	BestEffort bool
	Err        error
}

func (r Result) Delivered() bool {
	return r.Attempted && r.Err == nil
}

// Outcome holds the per-sink results of one dispatch. The HTTP layer folds
// it down to a binary response, but the detail stays available here.
type Outcome struct {
	Results []Result
}

// Configured reports whether any sink was attempted at all. A submission
// with nothing configured has nothing to fail.
func (o Outcome) Configured() bool {
	for _, r := range o.Results {
		if r.Attempted {
			return true
		}
	}
	return false
}

// Delivered reports whether at least one non-best-effort sink succeeded.
func (o Outcome) Delivered() bool {
	for _, r := range o.Results {
		if !r.BestEffort && r.Delivered() {
			return true
		}
	}
	return false
}

// Pipeline fans one submission out to every configured sink concurrently.
// Sinks settle independently: a failure, panic, or slow call in one never
// cancels the others. Each delivery runs under its own timeout.
type Pipeline struct {
	sinks   []Sink
	timeout time.Duration
}

func NewPipeline(timeout time.Duration, sinks ...Sink) *Pipeline {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Pipeline{sinks: sinks, timeout: timeout}
}

// Dispatch blocks until every configured sink has settled and returns the
// per-sink results. Sink errors are logged here and folded into the Outcome,
// never propagated.
func (p *Pipeline) Dispatch(ctx context.Context, sub *Submission) Outcome {
	results := make([]Result, len(p.sinks))

	var wg sync.WaitGroup
	for i, s := range p.sinks {
		results[i] = Result{Sink: s.Name(), BestEffort: s.BestEffort()}
		if !s.Configured() {
			continue
		}
		results[i].Attempted = true

		wg.Add(1)
		go func(i int, s Sink) {
			defer wg.Done()

			dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
			defer cancel()

			if err := deliver(dctx, s, sub); err != nil {
				slog.Error("sink delivery failed", "sink", s.Name(), "submission_id", sub.ID, "error", err)
				results[i].Err = err
			}
		}(i, s)
	}
	wg.Wait()

	return Outcome{Results: results}
}

func deliver(ctx context.Context, s Sink, sub *Submission) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sink %s panicked: %v", s.Name(), r)
		}
	}()
	return s.Deliver(ctx, sub)
}
