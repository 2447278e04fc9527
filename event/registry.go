package event

import (
	"reflect"
	"sync"
)

var (
	nameToType    = make(map[string]EventType)
	typeToName    = make(map[EventType]string)
	typeToPayload = make(map[EventType]reflect.Type)
	registryOnce  sync.Once
)

// RegisterType maps a string name to an EventType and its payload struct type
// payloadInstance should be a pointer to the payload struct (e.g., &AnchorHitPayload{})
// Pass nil if the event has no payload
func RegisterType(name string, et EventType, payloadInstance any) {
	nameToType[name] = et
	typeToName[et] = name
	if payloadInstance != nil {
		t := reflect.TypeOf(payloadInstance)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		typeToPayload[et] = t
	}
}

// GetEventType returns the EventType for a given name
func GetEventType(name string) (EventType, bool) {
	InitRegistry()
	et, ok := nameToType[name]
	return et, ok
}

// GetEventName returns the string name for an EventType
func GetEventName(et EventType) string {
	InitRegistry()
	return typeToName[et]
}

// NewPayloadStruct returns a new pointer to a zero-value payload struct for the event type
// Returns nil if no payload is registered
func NewPayloadStruct(et EventType) any {
	InitRegistry()
	t, ok := typeToPayload[et]
	if !ok {
		return nil
	}
	return reflect.New(t).Interface()
}

// InitRegistry populates the registry with all rope events, safe to call repeatedly
func InitRegistry() {
	registryOnce.Do(func() {
		RegisterType("EventInstrumentSpawned", EventInstrumentSpawned, &InstrumentPayload{})
		RegisterType("EventAnchorHit", EventAnchorHit, &AnchorHitPayload{})
		RegisterType("EventFrontAdvanced", EventFrontAdvanced, &FrontAdvancedPayload{})
		RegisterType("EventInstrumentBuilt", EventInstrumentBuilt, &InstrumentPayload{})
		RegisterType("EventRopeSevered", EventRopeSevered, &InstrumentPayload{})
		RegisterType("EventInstrumentTerminated", EventInstrumentTerminated, &InstrumentPayload{})
		RegisterType("EventPlacementRejected", EventPlacementRejected, &PlacementRejectedPayload{})
	})
}
