// Package dharma implements the typed pub/sub event bus that carries
// notifications between the core's long-lived threads ("modules"). The bus
// is parameterized over the signal-id type and the payload sum type so a
// single implementation serves both the compositor's own vocabulary
// (internal/perceptron) and any test harness that wants a smaller one.
package dharma

import (
	"fmt"
	"sync"

	"github.com/darkelement/perceptia/internal/metrics"
)

// Event is what a Receiver observes: either a tagged Package (Terminate is
// false) or the control Terminate marker (Terminate is true, Id/Payload are
// zero values and must be ignored).
type Event[ID comparable, P any] struct {
	Terminate bool
	Id        ID
	Payload   P
}

// Receiver is a single subscriber's inbound queue. It is safe to read from
// Chan concurrently with Signaler.Emit, but a Receiver must not be shared
// across goroutines that both call Recv: exactly one goroutine owns the
// loop draining it.
type Receiver[ID comparable, P any] struct {
	ch chan Event[ID, P]
}

// Chan exposes the receiver's channel directly for use in a select alongside
// other event sources.
func (r *Receiver[ID, P]) Chan() <-chan Event[ID, P] {
	return r.ch
}

// Recv blocks until an event is available. ok is false if the receiver's
// channel was closed (which the Signaler never does on its own; present for
// callers that close a receiver explicitly during teardown).
func (r *Receiver[ID, P]) Recv() (Event[ID, P], bool) {
	ev, ok := <-r.ch
	return ev, ok
}

// Signaler is the process-shared typed event bus. All clones obtained via
// pointer sharing refer to one interior mutex-protected subscriber table;
// emit acquires the mutex briefly to look up the sender set and releases it
// before posting, so the mutex is never held across a channel send that
// could block.
type Signaler[ID comparable, P any] struct {
	mu          sync.Mutex
	queueDepth  int
	subscribers map[ID][]*Receiver[ID, P]
	control     []*Receiver[ID, P]
}

// New returns a Signaler whose per-receiver queues hold up to queueDepth
// pending events before the drop-oldest policy kicks in.
func New[ID comparable, P any](queueDepth int) *Signaler[ID, P] {
	if queueDepth < 1 {
		queueDepth = 1
	}
	return &Signaler[ID, P]{
		queueDepth:  queueDepth,
		subscribers: make(map[ID][]*Receiver[ID, P]),
	}
}

// NewReceiver allocates a receiver with the Signaler's configured queue
// depth. It is not yet subscribed to anything.
func (s *Signaler[ID, P]) NewReceiver() *Receiver[ID, P] {
	return &Receiver[ID, P]{ch: make(chan Event[ID, P], s.queueDepth)}
}

// Subscribe registers r for events tagged with id. Multiple receivers per id
// are allowed; delivery order to siblings is unspecified but each receiver
// sees emissions in emission order.
func (s *Signaler[ID, P]) Subscribe(id ID, r *Receiver[ID, P]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers[id] = append(s.subscribers[id], r)
}

// Register subscribes r to the control channel; it will receive Terminate
// when the Signaler is torn down.
func (s *Signaler[ID, P]) Register(r *Receiver[ID, P]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.control = append(s.control, r)
}

// Emit enqueues Package{id, payload} to every receiver currently subscribed
// to id. Never fails visibly: emitting to an id with no subscribers is a
// silent no-op, and a full receiver queue drops its oldest pending event to
// make room rather than blocking the publisher.
func (s *Signaler[ID, P]) Emit(id ID, payload P) {
	s.mu.Lock()
	recvs := s.subscribers[id]
	s.mu.Unlock()

	label := fmt.Sprint(id)
	metrics.RecordSignalEmitted(label)

	ev := Event[ID, P]{Id: id, Payload: payload}
	for _, r := range recvs {
		if !deliver(r.ch, ev) {
			metrics.RecordSignalDropped(label)
		}
	}
}

// Terminate enqueues Terminate to every control-registered receiver.
func (s *Signaler[ID, P]) Terminate() {
	s.mu.Lock()
	recvs := s.control
	s.mu.Unlock()

	var zeroID ID
	var zeroP P
	ev := Event[ID, P]{Terminate: true, Id: zeroID, Payload: zeroP}
	for _, r := range recvs {
		deliver(r.ch, ev)
	}
}

// deliver attempts a non-blocking send, dropping the oldest queued event and
// retrying once if the channel is full. Reports whether ev was ultimately
// enqueued.
func deliver[ID comparable, P any](ch chan Event[ID, P], ev Event[ID, P]) bool {
	select {
	case ch <- ev:
		return true
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- ev:
		return true
	default:
		// Another goroutine refilled the slot we just freed; the event is
		// dropped rather than retried further, per the documented
		// best-effort delivery policy.
		return false
	}
}
