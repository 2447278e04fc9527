package parameter

import "time"

// Placement validation
const (
	// PlacementSampleCount is the number of points sampled along a target curve for terrain hit tests
	PlacementSampleCount = 32

	// PlacementSearchRadius is how far an endpoint may snap to a ledge or path edge
	PlacementSearchRadius = 48.0

	// PlacementEndpointClearance ignores terrain contacts this close to a snapped endpoint
	PlacementEndpointClearance = 4.0
)

// Bridge geometry
const (
	// BridgeSlatSpacing is the nominal distance between bridge joints
	BridgeSlatSpacing = 40.0
	BridgeMinSegments = 4
	BridgeMaxSegments = 48

	// BridgeSagFloat is midpoint sag as a fraction of horizontal span
	BridgeSagFloat = 0.08

	BridgeMinLength = 80.0
	BridgeMaxLength = 1600.0

	// BridgeMaxSlope is the largest accepted |dy/dx| between endpoints
	BridgeMaxSlope = 0.6
)

// Timed bridge
const (
	TimedBridgeBuildTime = 2 * time.Second
)

// Paid dual-front bridge
const (
	// PaidBridgeTotalBuildTime is the build duration at speed multiplier 1 with payment covered
	PaidBridgeTotalBuildTime = 6 * time.Second

	// PaidBridgeCostPerUnit is resource cost per world unit of straight-line length
	PaidBridgeCostPerUnit = 0.1

	// PaidBridgeMinCost keeps very short bridges from being free
	PaidBridgeMinCost = 10.0

	// PaidBridgeBuildRadius is how close a builder must stand to a front to progress it
	PaidBridgeBuildRadius = 120.0

	// PaidBridgeSplitBandMin/Max bound the random meeting joint as a fraction of segments
	PaidBridgeSplitBandMin = 0.35
	PaidBridgeSplitBandMax = 0.65
)

// Grapple rope
const (
	GrappleSegments   = 20
	GrappleSagFloat   = 0.05
	GrappleTravelTime = 600 * time.Millisecond
	GrappleArcHeight  = 60.0
	GrappleMaxLength  = 1400.0
	GrappleHookMargin = 2.0
)

// Ladder
const (
	LadderMaxLength = 600.0

	// LadderMaxLean is the largest accepted |dx/dy| between top and bottom
	LadderMaxLean = 0.25
)

// Visual pieces
const (
	// VisualSpringFPS is the fixed step the piece angle spring is tuned for
	VisualSpringFPS = 60

	// VisualSpringFrequency and VisualSpringDamping shape piece angle smoothing
	VisualSpringFrequency = 8.0
	VisualSpringDamping   = 0.8

	// LadderRungSpacing is the distance between drawn rungs
	LadderRungSpacing = 24.0
)
