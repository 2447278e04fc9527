package event

// Emit pushes a typed event, nil queue is a no-op so instruments can run without a system
func Emit(q *EventQueue, et EventType, payload any, frame int64) {
	if q == nil {
		return
	}
	q.Push(GameEvent{
		Type:    et,
		Payload: payload,
		Frame:   frame,
	})
}
