package contact

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSink struct {
	name       string
	configured bool
	bestEffort bool
	err        error
	delay      time.Duration
	panics     bool
	calls      atomic.Int64
}

func (f *fakeSink) Name() string     { return f.name }
func (f *fakeSink) Configured() bool { return f.configured }
func (f *fakeSink) BestEffort() bool { return f.bestEffort }

func (f *fakeSink) Deliver(ctx context.Context, sub *Submission) error {
	f.calls.Add(1)
	if f.panics {
		panic("boom")
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.err
}

func testSubmission() *Submission {
	sub := &Submission{Name: "Ana", Email: "ana@example.com", Message: "hello"}
	sub.Normalize(time.Now())
	return sub
}

func TestDispatchNothingConfigured(t *testing.T) {
	s1 := &fakeSink{name: "database"}
	s2 := &fakeSink{name: "webhook"}
	p := NewPipeline(time.Second, s1, s2)

	o := p.Dispatch(context.Background(), testSubmission())

	if o.Configured() {
		t.Error("expected Configured() false with no configured sinks")
	}
	if o.Delivered() {
		t.Error("expected Delivered() false with no configured sinks")
	}
	if s1.calls.Load() != 0 || s2.calls.Load() != 0 {
		t.Error("unconfigured sinks must not be called")
	}
}

func TestDispatchSingleSuccess(t *testing.T) {
	ok := &fakeSink{name: "database", configured: true}
	p := NewPipeline(time.Second, ok, &fakeSink{name: "webhook"})

	o := p.Dispatch(context.Background(), testSubmission())

	if !o.Configured() || !o.Delivered() {
		t.Errorf("Configured=%v Delivered=%v, want true/true", o.Configured(), o.Delivered())
	}
}

func TestDispatchAllConfiguredFail(t *testing.T) {
	fail := errors.New("downstream down")
	s1 := &fakeSink{name: "database", configured: true, err: fail}
	s2 := &fakeSink{name: "webhook", configured: true, err: fail}
	p := NewPipeline(time.Second, s1, s2)

	o := p.Dispatch(context.Background(), testSubmission())

	if !o.Configured() {
		t.Error("expected Configured() true")
	}
	if o.Delivered() {
		t.Error("expected Delivered() false when every sink fails")
	}
	for _, r := range o.Results {
		if r.Attempted && !errors.Is(r.Err, fail) {
			t.Errorf("result %s: err = %v, want %v", r.Sink, r.Err, fail)
		}
	}
}

func TestDispatchBestEffortExcludedFromAggregate(t *testing.T) {
	// Only the best-effort sink succeeds; the aggregate still fails.
	s1 := &fakeSink{name: "email", configured: true, err: errors.New("bounce")}
	reply := &fakeSink{name: "auto_reply", configured: true, bestEffort: true}
	p := NewPipeline(time.Second, s1, reply)

	o := p.Dispatch(context.Background(), testSubmission())

	if o.Delivered() {
		t.Error("best-effort success must not count as delivery")
	}
	if reply.calls.Load() != 1 {
		t.Error("best-effort sink should still be attempted")
	}
}

func TestDispatchPanicFoldedIntoResult(t *testing.T) {
	bad := &fakeSink{name: "webhook", configured: true, panics: true}
	good := &fakeSink{name: "database", configured: true}
	p := NewPipeline(time.Second, bad, good)

	o := p.Dispatch(context.Background(), testSubmission())

	if !o.Delivered() {
		t.Error("a panicking sink must not take down the others")
	}
	var panicked bool
	for _, r := range o.Results {
		if r.Sink == "webhook" && r.Err != nil {
			panicked = true
		}
	}
	if !panicked {
		t.Error("expected the panic to surface as a sink error")
	}
}

func TestDispatchRunsConcurrently(t *testing.T) {
	const delay = 60 * time.Millisecond
	var sinks []Sink
	for _, name := range []string{"database", "webhook", "n8n", "email", "auto_reply"} {
		sinks = append(sinks, &fakeSink{name: name, configured: true, delay: delay})
	}
	p := NewPipeline(time.Second, sinks...)

	start := time.Now()
	o := p.Dispatch(context.Background(), testSubmission())
	elapsed := time.Since(start)

	if !o.Delivered() {
		t.Fatal("expected delivery")
	}
	// Settle time tracks the slowest sink, not the sum of all five.
	if elapsed >= 3*delay {
		t.Errorf("dispatch took %v, want roughly one sink delay (%v)", elapsed, delay)
	}
}

func TestDispatchPerSinkTimeout(t *testing.T) {
	slow := &fakeSink{name: "webhook", configured: true, delay: time.Second}
	fast := &fakeSink{name: "database", configured: true}
	p := NewPipeline(30*time.Millisecond, slow, fast)

	start := time.Now()
	o := p.Dispatch(context.Background(), testSubmission())
	elapsed := time.Since(start)

	if !o.Delivered() {
		t.Error("fast sink should still deliver")
	}
	if elapsed > 500*time.Millisecond {
		t.Errorf("timeout did not bound the slow sink: %v", elapsed)
	}
	for _, r := range o.Results {
		if r.Sink == "webhook" && !errors.Is(r.Err, context.DeadlineExceeded) {
			t.Errorf("slow sink err = %v, want deadline exceeded", r.Err)
		}
	}
}

func TestDispatchSurvivesCanceledRequestContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &fakeSink{name: "database", configured: true}
	p := NewPipeline(time.Second, s)

	o := p.Dispatch(ctx, testSubmission())
	if !o.Delivered() {
		t.Error("delivery must not inherit cancellation from the request context")
	}
}
