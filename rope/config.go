package rope

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/lixenwraith/ropebridge/parameter"
	"github.com/lixenwraith/ropebridge/physics"
	"github.com/lixenwraith/ropebridge/vmath"
)

// ErrInvalidConfig is wrapped by every Config validation failure
var ErrInvalidConfig = errors.New("rope: invalid config")

// PlacementConfig bounds the shared validation pass
type PlacementConfig struct {
	SampleCount       int     // Points sampled along a target curve for terrain hit tests
	SearchRadius      float64 // Endpoint snap radius
	EndpointClearance float64 // Terrain contacts this close to a snapped endpoint are ignored
}

// BridgeConfig shapes both bridge variants
type BridgeConfig struct {
	SlatSpacing float64
	MinSegments int
	MaxSegments int
	Sag         float64
	MinLength   float64
	MaxLength   float64
	MaxSlope    float64
	BuildTime   time.Duration // TimedBridge
}

// PaidConfig drives the dual-front bridge economy
type PaidConfig struct {
	TotalBuildTime time.Duration
	CostPerUnit    float64
	MinCost        float64
	BuildRadius    float64
	SplitBandMin   float64
	SplitBandMax   float64
}

// GrappleConfig drives the thrown rope
type GrappleConfig struct {
	Segments   int
	Sag        float64
	TravelTime time.Duration
	ArcHeight  float64
	MaxLength  float64
	HookMargin float64
}

// LadderConfig bounds ladder validity
type LadderConfig struct {
	MaxLength   float64
	MaxLean     float64
	RungSpacing float64
}

// VisualConfig tunes piece smoothing
type VisualConfig struct {
	SpringFPS int
	Frequency float64
	Damping   float64
}

// Config aggregates every instrument tuning value
type Config struct {
	Up             vmath.Vec2
	ChainThickness float64
	Tuning         physics.ChainTuning
	Placement      PlacementConfig
	Bridge         BridgeConfig
	Paid           PaidConfig
	Grapple        GrappleConfig
	Ladder         LadderConfig
	Visual         VisualConfig
}

// DefaultConfig returns the parameter package defaults
func DefaultConfig() Config {
	return Config{
		Up:             vmath.Up,
		ChainThickness: parameter.ChainThickness,
		Tuning:         physics.DefaultChainTuning,
		Placement: PlacementConfig{
			SampleCount:       parameter.PlacementSampleCount,
			SearchRadius:      parameter.PlacementSearchRadius,
			EndpointClearance: parameter.PlacementEndpointClearance,
		},
		Bridge: BridgeConfig{
			SlatSpacing: parameter.BridgeSlatSpacing,
			MinSegments: parameter.BridgeMinSegments,
			MaxSegments: parameter.BridgeMaxSegments,
			Sag:         parameter.BridgeSagFloat,
			MinLength:   parameter.BridgeMinLength,
			MaxLength:   parameter.BridgeMaxLength,
			MaxSlope:    parameter.BridgeMaxSlope,
			BuildTime:   parameter.TimedBridgeBuildTime,
		},
		Paid: PaidConfig{
			TotalBuildTime: parameter.PaidBridgeTotalBuildTime,
			CostPerUnit:    parameter.PaidBridgeCostPerUnit,
			MinCost:        parameter.PaidBridgeMinCost,
			BuildRadius:    parameter.PaidBridgeBuildRadius,
			SplitBandMin:   parameter.PaidBridgeSplitBandMin,
			SplitBandMax:   parameter.PaidBridgeSplitBandMax,
		},
		Grapple: GrappleConfig{
			Segments:   parameter.GrappleSegments,
			Sag:        parameter.GrappleSagFloat,
			TravelTime: parameter.GrappleTravelTime,
			ArcHeight:  parameter.GrappleArcHeight,
			MaxLength:  parameter.GrappleMaxLength,
			HookMargin: parameter.GrappleHookMargin,
		},
		Ladder: LadderConfig{
			MaxLength:   parameter.LadderMaxLength,
			MaxLean:     parameter.LadderMaxLean,
			RungSpacing: parameter.LadderRungSpacing,
		},
		Visual: VisualConfig{
			SpringFPS: parameter.VisualSpringFPS,
			Frequency: parameter.VisualSpringFrequency,
			Damping:   parameter.VisualSpringDamping,
		},
	}
}

// Environment variables read by LoadConfigFromEnv
const (
	EnvBridgeBuildTime   = "ROPEBRIDGE_BRIDGE_BUILD_TIME"
	EnvBridgeMaxLength   = "ROPEBRIDGE_BRIDGE_MAX_LENGTH"
	EnvBridgeMaxSlope    = "ROPEBRIDGE_BRIDGE_MAX_SLOPE"
	EnvBridgeSag         = "ROPEBRIDGE_BRIDGE_SAG"
	EnvPaidBuildTime     = "ROPEBRIDGE_PAID_BUILD_TIME"
	EnvPaidCostPerUnit   = "ROPEBRIDGE_PAID_COST_PER_UNIT"
	EnvGrappleTravelTime = "ROPEBRIDGE_GRAPPLE_TRAVEL_TIME"
	EnvGrappleSegments   = "ROPEBRIDGE_GRAPPLE_SEGMENTS"
	EnvPlacementSamples  = "ROPEBRIDGE_PLACEMENT_SAMPLES"
	EnvSearchRadius      = "ROPEBRIDGE_SEARCH_RADIUS"
)

// LoadConfigFromEnv starts from DefaultConfig and applies ROPEBRIDGE_* overrides
// Unlike audio settings, a malformed value is an error rather than silently ignored
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{EnvBridgeBuildTime, &cfg.Bridge.BuildTime},
		{EnvPaidBuildTime, &cfg.Paid.TotalBuildTime},
		{EnvGrappleTravelTime, &cfg.Grapple.TravelTime},
	}
	for _, d := range durations {
		if v := os.Getenv(d.key); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return cfg, fmt.Errorf("rope: parse %s: %w", d.key, err)
			}
			*d.dst = parsed
		}
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{EnvBridgeMaxLength, &cfg.Bridge.MaxLength},
		{EnvBridgeMaxSlope, &cfg.Bridge.MaxSlope},
		{EnvBridgeSag, &cfg.Bridge.Sag},
		{EnvPaidCostPerUnit, &cfg.Paid.CostPerUnit},
		{EnvSearchRadius, &cfg.Placement.SearchRadius},
	}
	for _, f := range floats {
		if v := os.Getenv(f.key); v != "" {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return cfg, fmt.Errorf("rope: parse %s: %w", f.key, err)
			}
			*f.dst = parsed
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{EnvGrappleSegments, &cfg.Grapple.Segments},
		{EnvPlacementSamples, &cfg.Placement.SampleCount},
	}
	for _, i := range ints {
		if v := os.Getenv(i.key); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil {
				return cfg, fmt.Errorf("rope: parse %s: %w", i.key, err)
			}
			*i.dst = parsed
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports the first out-of-range value, wrapping ErrInvalidConfig
func (c Config) Validate() error {
	switch {
	case c.Up.LenSq() < vmath.Epsilon:
		return fmt.Errorf("%w: up direction is zero", ErrInvalidConfig)
	case c.ChainThickness <= 0:
		return fmt.Errorf("%w: chain thickness %v must be positive", ErrInvalidConfig, c.ChainThickness)
	case c.Tuning.Iterations < 1:
		return fmt.Errorf("%w: solver iterations %d must be at least 1", ErrInvalidConfig, c.Tuning.Iterations)
	case c.Placement.SampleCount < 2:
		return fmt.Errorf("%w: placement sample count %d must be at least 2", ErrInvalidConfig, c.Placement.SampleCount)
	case c.Placement.SearchRadius <= 0:
		return fmt.Errorf("%w: search radius %v must be positive", ErrInvalidConfig, c.Placement.SearchRadius)
	case c.Bridge.SlatSpacing <= 0:
		return fmt.Errorf("%w: slat spacing %v must be positive", ErrInvalidConfig, c.Bridge.SlatSpacing)
	case c.Bridge.MinSegments < 2 || c.Bridge.MaxSegments < c.Bridge.MinSegments:
		return fmt.Errorf("%w: bridge segments [%d, %d] must satisfy 2 <= min <= max", ErrInvalidConfig, c.Bridge.MinSegments, c.Bridge.MaxSegments)
	case c.Bridge.MinLength < 0 || c.Bridge.MaxLength <= c.Bridge.MinLength:
		return fmt.Errorf("%w: bridge length [%v, %v] is empty", ErrInvalidConfig, c.Bridge.MinLength, c.Bridge.MaxLength)
	case c.Bridge.MaxSlope < 0:
		return fmt.Errorf("%w: bridge max slope %v is negative", ErrInvalidConfig, c.Bridge.MaxSlope)
	case c.Bridge.BuildTime <= 0:
		return fmt.Errorf("%w: bridge build time %v must be positive", ErrInvalidConfig, c.Bridge.BuildTime)
	case c.Paid.TotalBuildTime <= 0:
		return fmt.Errorf("%w: paid build time %v must be positive", ErrInvalidConfig, c.Paid.TotalBuildTime)
	case c.Paid.CostPerUnit < 0 || c.Paid.MinCost <= 0:
		return fmt.Errorf("%w: paid cost per unit %v and min cost %v", ErrInvalidConfig, c.Paid.CostPerUnit, c.Paid.MinCost)
	case c.Paid.SplitBandMin <= 0 || c.Paid.SplitBandMax >= 1 || c.Paid.SplitBandMin > c.Paid.SplitBandMax:
		return fmt.Errorf("%w: split band [%v, %v] must lie inside (0, 1)", ErrInvalidConfig, c.Paid.SplitBandMin, c.Paid.SplitBandMax)
	case c.Grapple.Segments < 2:
		return fmt.Errorf("%w: grapple segments %d must be at least 2", ErrInvalidConfig, c.Grapple.Segments)
	case c.Grapple.TravelTime <= 0:
		return fmt.Errorf("%w: grapple travel time %v must be positive", ErrInvalidConfig, c.Grapple.TravelTime)
	case c.Ladder.RungSpacing <= 0:
		return fmt.Errorf("%w: rung spacing %v must be positive", ErrInvalidConfig, c.Ladder.RungSpacing)
	case c.Visual.SpringFPS <= 0:
		return fmt.Errorf("%w: visual spring fps %d must be positive", ErrInvalidConfig, c.Visual.SpringFPS)
	}
	return nil
}

// bridgeSegments picks a segment count from the nominal slat spacing
func (c Config) bridgeSegments(a, b vmath.Vec2) int {
	n := int(vmath.Dist(a, b)/c.Bridge.SlatSpacing + 0.5)
	if n < c.Bridge.MinSegments {
		n = c.Bridge.MinSegments
	}
	if n > c.Bridge.MaxSegments {
		n = c.Bridge.MaxSegments
	}
	return n
}

