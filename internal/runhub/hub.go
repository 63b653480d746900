// Package runhub tracks in-flight trip-generation runs so HTTP callers can
// trigger a run and watch its progress over a separate connection.
package runhub

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"tripforge/internal/pipeline"
)

// completedRunRetention is how long a finished run stays watchable before
// its state is dropped.
const completedRunRetention = 30 * time.Second

// Run is one tracked pipeline execution.
type Run struct {
	ID string

	mu     sync.Mutex
	last   pipeline.Event
	subs   map[chan pipeline.Event]struct{}
	result *pipeline.Result
}

type Hub struct {
	ports  pipeline.Ports
	logger *log.Logger

	mu   sync.RWMutex
	runs map[string]*Run
}

func New(ports pipeline.Ports, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{ports: ports, logger: logger, runs: make(map[string]*Run)}
}

// Launch registers a run and starts the pipeline on its own goroutine. The
// run detaches from the request context; watchers attach separately, and an
// abandoned run is still allowed to finish its in-flight model call.
func (h *Hub) Launch(req pipeline.Request) *Run {
	id := ""
	if h.ports.NewID != nil {
		id = h.ports.NewID()
	}
	run := &Run{
		ID:   id,
		last: pipeline.Event{State: pipeline.StateIdle},
		subs: make(map[chan pipeline.Event]struct{}),
	}

	h.mu.Lock()
	h.runs[run.ID] = run
	h.mu.Unlock()

	orch := pipeline.New(h.ports, h.logger)
	orch.OnEvent = run.publish

	go func() {
		res, err := orch.Trigger(context.Background(), req)
		if err != nil {
			h.logger.Printf("runhub: run %s not started: %v", run.ID, err)
			h.scheduleCleanup(run.ID)
			return
		}
		run.mu.Lock()
		run.result = &res
		run.mu.Unlock()
		h.scheduleCleanup(run.ID)
	}()
	return run
}

// Get looks up a tracked run by id.
func (h *Hub) Get(runID string) (*Run, bool) {
	h.mu.RLock()
	run, ok := h.runs[strings.TrimSpace(runID)]
	h.mu.RUnlock()
	return run, ok
}

func (h *Hub) scheduleCleanup(runID string) {
	time.AfterFunc(completedRunRetention, func() {
		h.mu.Lock()
		delete(h.runs, runID)
		h.mu.Unlock()
	})
}

// publish fans an event out to every subscriber and remembers it for
// late joiners. A subscriber that cannot keep up misses intermediate
// events; the latest one is always replayed on attach.
func (r *Run) publish(ev pipeline.Event) {
	r.mu.Lock()
	r.last = ev
	for ch := range r.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	r.mu.Unlock()
}

// Subscribe attaches a watcher. The current state is replayed immediately so
// a watcher that connects after the run finished still sees the outcome.
func (r *Run) Subscribe() chan pipeline.Event {
	ch := make(chan pipeline.Event, 8)
	r.mu.Lock()
	r.subs[ch] = struct{}{}
	last := r.last
	r.mu.Unlock()
	ch <- last
	return ch
}

func (r *Run) Unsubscribe(ch chan pipeline.Event) {
	r.mu.Lock()
	delete(r.subs, ch)
	r.mu.Unlock()
}

// Result returns the terminal result once the run has finished.
func (r *Run) Result() (pipeline.Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.result == nil {
		return pipeline.Result{}, false
	}
	return *r.result, true
}
