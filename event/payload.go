package event

import (
	"github.com/lixenwraith/ropebridge/vmath"
)

// InstrumentPayload identifies an instrument and where it sits
type InstrumentPayload struct {
	ID   string
	Kind string
	A    vmath.Vec2
	B    vmath.Vec2
	Path uint32 // Registered edge handle, 0 if none
}

// AnchorHitPayload carries the grapple hook contact
type AnchorHitPayload struct {
	ID     string
	Anchor vmath.Vec2
	Speed  float64 // Hook speed at contact, units/sec
}

// FrontAdvancedPayload reports a front's deployed slat count
type FrontAdvancedPayload struct {
	ID       string
	Front    int // 0 = A side, 1 = B side
	Slats    int
	Tip      vmath.Vec2
	Progress float64 // Combined build percentage
}

// PlacementRejectedPayload carries the failed request and reason code name
type PlacementRejectedPayload struct {
	Kind   string
	A      vmath.Vec2
	B      vmath.Vec2
	Reason string
}
