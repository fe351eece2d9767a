// Package scheduler implements the simulator's single-threaded discrete-event
// core: a min-heap of timestamped events and a dispatch loop that advances a
// logical clock, with pre/post hooks around enqueue and dispatch.
package scheduler

import (
	"container/heap"

	"github.com/daglabs/powsim/internal/logger"
)

var log = logger.Get(logger.SubsystemScheduler)

// Phase names a point in the event lifecycle at which hooks run.
type Phase int

// Hook phases.
const (
	PhasePreEnqueue Phase = iota
	PhasePostEnqueue
	PhasePreRun
	PhasePostRun
)

// Hook is called at a registered phase. For PRE_ENQUEUE/POST_ENQUEUE it
// receives the event being enqueued; for PRE_RUN/POST_RUN it receives the
// event about to be (or having been) dispatched.
type Hook func(ev *Event)

// Scheduler owns the event queue and the logical clock. It has no concept of
// wall-clock time and performs no I/O of its own; every "wait" a component
// needs is expressed by enqueuing a future event.
type Scheduler struct {
	clock   float64
	queue   eventQueue
	hooks   map[Phase][]Hook
	stopped bool
	nextSeq int

	dispatched int
}

// New returns an empty Scheduler with its clock at zero.
func New() *Scheduler {
	return &Scheduler{
		queue: make(eventQueue, 0),
		hooks: make(map[Phase][]Hook),
	}
}

// Now returns the current logical clock value.
func (s *Scheduler) Now() float64 {
	return s.clock
}

// Dispatched returns the number of events executed so far.
func (s *Scheduler) Dispatched() int {
	return s.dispatched
}

// RegisterHook adds fn to run, in registration order, whenever phase occurs.
func (s *Scheduler) RegisterHook(phase Phase, fn Hook) {
	s.hooks[phase] = append(s.hooks[phase], fn)
}

func (s *Scheduler) runHooks(phase Phase, ev *Event) {
	for _, h := range s.hooks[phase] {
		h(ev)
	}
}

// Enqueue inserts ev into the queue, running PRE_ENQUEUE hooks before the
// insert and POST_ENQUEUE hooks after.
func (s *Scheduler) Enqueue(ev *Event) {
	s.runHooks(PhasePreEnqueue, ev)
	ev.seq = s.nextSeq
	s.nextSeq++
	heap.Push(&s.queue, ev)
	s.runHooks(PhasePostEnqueue, ev)
}

// Stop sets the stop flag. Events still in the heap stay there and are not
// executed; Run returns once Stop has been called and the current event's
// hooks have finished.
func (s *Scheduler) Stop() {
	s.stopped = true
}

// Stopped reports whether Stop has been called.
func (s *Scheduler) Stopped() bool {
	return s.stopped
}

// Run dispatches events in non-decreasing ActionableAt order until the queue
// empties or Stop is called. The clock is advanced to each event's
// ActionableAt immediately before that event's action runs.
func (s *Scheduler) Run() {
	for len(s.queue) > 0 && !s.stopped {
		ev := heap.Pop(&s.queue).(*Event)
		s.clock = ev.ActionableAt
		s.runHooks(PhasePreRun, ev)
		ev.Action()
		s.dispatched++
		s.runHooks(PhasePostRun, ev)
	}
	log.Debugf("scheduler stopped at clock=%.2f after %d events", s.clock, s.dispatched)
}
