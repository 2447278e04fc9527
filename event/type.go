package event

// EventType represents the type of rope subsystem event
type EventType int

const (
	// EventInstrumentSpawned signals a validated instrument entered the world
	// Trigger: System.Spawn*
	// Consumer: observability, sandbox status | Payload: *InstrumentPayload
	EventInstrumentSpawned EventType = iota + 1

	// EventAnchorHit signals a grapple hook reached its anchor during flight
	// Trigger: GrappleRope ballistic phase, at most once per rope
	// Consumer: AudioDispatcher | Payload: *AnchorHitPayload
	EventAnchorHit

	// EventFrontAdvanced signals a paid bridge front deployed more slats
	// Trigger: PaidBridge update when a front tip crosses a joint
	// Consumer: AudioDispatcher (creak) | Payload: *FrontAdvancedPayload
	EventFrontAdvanced

	// EventInstrumentBuilt signals the one-way transition to Built
	// Trigger: Instrument completion predicate, path edge already registered
	// Consumer: AudioDispatcher (chime) | Payload: *InstrumentPayload
	EventInstrumentBuilt

	// EventRopeSevered signals a grapple frozen without registration after owner death
	// Trigger: GrappleRope.OwnerDied before completion
	// Consumer: sandbox status | Payload: *InstrumentPayload
	EventRopeSevered

	// EventInstrumentTerminated signals resources were released and any path edge removed
	// Trigger: Instrument.Terminate, System.Teardown
	// Consumer: observability | Payload: *InstrumentPayload
	EventInstrumentTerminated

	// EventPlacementRejected signals a placement request failed validation
	// Trigger: System.Spawn* on rejected placement
	// Consumer: targeting feedback | Payload: *PlacementRejectedPayload
	EventPlacementRejected
)

// GameEvent represents a single event with metadata
type GameEvent struct {
	Type    EventType
	Payload any
	Frame   int64 // Update count at emission
}

// String returns the registered name
func (et EventType) String() string {
	if name := GetEventName(et); name != "" {
		return name
	}
	return "EventUnknown"
}
