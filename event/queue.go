package event

import (
	"sync/atomic"

	"github.com/lixenwraith/ropebridge/parameter"
)

// EventQueue is a lock-free MPSC ring buffer for rope events
// Thread-Safety:
//   - Push: Lock-free CAS, multiple producers OK
//   - Consume: Single consumer (System.Update)
//   - Published flags prevent reading partial writes
//
// Overflow: Oldest events overwritten when full, counted in Dropped
type EventQueue struct {
	events    [parameter.EventQueueSize]GameEvent
	published [parameter.EventQueueSize]atomic.Bool // True = slot fully written
	head      atomic.Uint64                         // Read index
	tail      atomic.Uint64                         // Write index
	dropped   atomic.Uint64                         // Events overwritten before consumption
}

// NewEventQueue creates an empty queue
func NewEventQueue() *EventQueue {
	return &EventQueue{}
}

// Push adds event using lock-free CAS with published flags pattern
// Safe for concurrent producers. O(1) amortized
func (eq *EventQueue) Push(ev GameEvent) {
	for {
		currentTail := eq.tail.Load()
		nextTail := currentTail + 1

		if !eq.tail.CompareAndSwap(currentTail, nextTail) {
			continue
		}

		idx := currentTail & parameter.EventBufferMask
		eq.events[idx] = ev
		eq.published[idx].Store(true) // MUST be after write

		// Advance head if overwriting unread events
		currentHead := eq.head.Load()
		if nextTail-currentHead > parameter.EventQueueSize {
			if eq.head.CompareAndSwap(currentHead, nextTail-parameter.EventQueueSize) {
				eq.dropped.Add(nextTail - parameter.EventQueueSize - currentHead)
			}
		}
		return
	}
}

// Consume returns all pending events in FIFO order and advances head
// Single-consumer design (System.Update). Checks published flags for safety
func (eq *EventQueue) Consume() []GameEvent {
	for {
		currentHead := eq.head.Load()
		currentTail := eq.tail.Load()

		if currentTail == currentHead {
			return nil
		}

		maxAvailable := currentTail - currentHead
		if maxAvailable > parameter.EventQueueSize {
			maxAvailable = parameter.EventQueueSize
			currentHead = currentTail - parameter.EventQueueSize
		}

		result := make([]GameEvent, 0, maxAvailable)
		for i := uint64(0); i < maxAvailable; i++ {
			idx := (currentHead + i) & parameter.EventBufferMask
			if !eq.published[idx].Load() {
				break // Writer incomplete
			}
			result = append(result, eq.events[idx])
			eq.published[idx].Store(false)
		}

		if eq.head.CompareAndSwap(currentHead, currentHead+uint64(len(result))) {
			if len(result) == 0 {
				return nil
			}
			return result
		}
	}
}

// Len returns approximate pending event count
func (eq *EventQueue) Len() int {
	head := eq.head.Load()
	tail := eq.tail.Load()
	if tail <= head {
		return 0
	}
	diff := int(tail - head)
	if diff > parameter.EventQueueSize {
		return parameter.EventQueueSize
	}
	return diff
}

// Dropped returns the number of events overwritten before they were consumed
func (eq *EventQueue) Dropped() uint64 {
	return eq.dropped.Load()
}
