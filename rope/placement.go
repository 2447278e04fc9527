package rope

import (
	"fmt"
	"math"

	"github.com/lixenwraith/ropebridge/navigation"
	"github.com/lixenwraith/ropebridge/vmath"
)

// Rejection is the reason a placement failed, RejectNone when valid
type Rejection uint8

const (
	RejectNone Rejection = iota
	RejectNoLedgeA
	RejectNoLedgeB
	RejectTooShort
	RejectTooLong
	RejectTooSteep
	RejectTerrainHit
	RejectNoAnchor
	RejectNoDest
	RejectNoLineOfSight
	rejectionCount
)

var rejectionNames = [rejectionCount]string{
	"none",
	"no_ledge_a",
	"no_ledge_b",
	"too_short",
	"too_long",
	"too_steep",
	"terrain_hit",
	"no_anchor",
	"no_dest",
	"no_line_of_sight",
}

func (r Rejection) String() string {
	if r < rejectionCount {
		return rejectionNames[r]
	}
	return fmt.Sprintf("rejection(%d)", uint8(r))
}

// Placement is a validated pair of snapped endpoints
// For a grapple A is the anchor and B the destination, for a ladder A is the top
type Placement struct {
	A, B             vmath.Vec2
	Source           vmath.Vec2 // Grapple thrower, zero otherwise
	NormalA, NormalB vmath.Vec2
	TagA, TagB       navigation.TerrainTag
	Valid            bool
}

// Validator runs geometric placement checks against terrain
// Pure: never mutates the world, the graph, or its inputs
type Validator struct {
	terrain TerrainQuery
	cfg     Config
}

// NewValidator binds a validator to terrain
func NewValidator(terrain TerrainQuery, cfg Config) *Validator {
	invariant(terrain != nil, "validator needs terrain")
	return &Validator{terrain: terrain, cfg: cfg}
}

// ValidateBridge snaps a and b to ledges and checks length, slope and the sagging span against terrain
func (v *Validator) ValidateBridge(a, b vmath.Vec2) (Placement, Rejection) {
	radius := v.cfg.Placement.SearchRadius
	ledgeA := v.terrain.FindLedge(a, radius)
	if ledgeA == nil {
		return Placement{}, RejectNoLedgeA
	}
	ledgeB := v.terrain.FindLedge(b, radius)
	if ledgeB == nil {
		return Placement{}, RejectNoLedgeB
	}
	pl := Placement{
		A:       ledgeA.Pos,
		B:       ledgeB.Pos,
		NormalA: ledgeA.Normal,
		NormalB: ledgeB.Normal,
		TagA:    ledgeA.Tag,
		TagB:    ledgeB.Tag,
	}

	bc := v.cfg.Bridge
	length := vmath.Dist(pl.A, pl.B)
	if length < bc.MinLength {
		return pl, RejectTooShort
	}
	if length > bc.MaxLength {
		return pl, RejectTooLong
	}

	up := v.cfg.Up.Normalize()
	span := pl.B.Sub(pl.A)
	vertical := math.Abs(span.Dot(up))
	horizontal := math.Abs(span.Cross(up))
	if horizontal < vmath.Epsilon || vertical/horizontal > bc.MaxSlope {
		return pl, RejectTooSteep
	}

	// Sampled along the sagging curve, the chord alone misses terrain under the dip
	curve := vmath.GenerateCurve(pl.A, pl.B, v.cfg.bridgeSegments(pl.A, pl.B), v.cfg.Up, bc.Sag)
	samples := vmath.Resample(curve, v.cfg.Placement.SampleCount)
	if v.pathBlocked(samples) {
		return pl, RejectTerrainHit
	}

	pl.Valid = true
	return pl, RejectNone
}

// ValidateGrapple snaps anchor to a ledge and dest to any walkable edge
func (v *Validator) ValidateGrapple(source, anchor, dest vmath.Vec2) (Placement, Rejection) {
	radius := v.cfg.Placement.SearchRadius
	hitAnchor := v.terrain.FindLedge(anchor, radius)
	if hitAnchor == nil {
		return Placement{}, RejectNoAnchor
	}
	hitDest := v.terrain.FindPathEdge(dest, radius, navigation.MaskWalkable)
	if hitDest == nil {
		return Placement{}, RejectNoDest
	}
	pl := Placement{
		A:       hitAnchor.Pos,
		B:       hitDest.Pos,
		Source:  source,
		NormalA: hitAnchor.Normal,
		NormalB: hitDest.Normal,
		TagA:    hitAnchor.Tag,
		TagB:    hitDest.Tag,
	}

	maxLen := v.cfg.Grapple.MaxLength
	if vmath.Dist(source, pl.A) > maxLen || vmath.Dist(pl.A, pl.B) > maxLen {
		return pl, RejectTooLong
	}
	if v.pathBlocked([]vmath.Vec2{source, pl.A}) {
		return pl, RejectNoLineOfSight
	}

	pl.Valid = true
	return pl, RejectNone
}

// ValidateLadder snaps top to a ledge and bottom to a walkable edge
// The returned placement always carries usable endpoints, the rejection only tints
func (v *Validator) ValidateLadder(top, bottom vmath.Vec2) (Placement, Rejection) {
	pl := Placement{A: top, B: bottom}
	radius := v.cfg.Placement.SearchRadius
	hitTop := v.terrain.FindLedge(top, radius)
	if hitTop == nil {
		return pl, RejectNoLedgeA
	}
	pl.A, pl.NormalA, pl.TagA = hitTop.Pos, hitTop.Normal, hitTop.Tag

	hitBottom := v.terrain.FindPathEdge(bottom, radius, navigation.MaskWalkable)
	if hitBottom == nil {
		return pl, RejectNoLedgeB
	}
	pl.B, pl.NormalB, pl.TagB = hitBottom.Pos, hitBottom.Normal, hitBottom.Tag

	lc := v.cfg.Ladder
	span := pl.B.Sub(pl.A)
	if span.Len() > lc.MaxLength {
		return pl, RejectTooLong
	}
	up := v.cfg.Up.Normalize()
	vertical := math.Abs(span.Dot(up))
	if vertical < vmath.Epsilon || math.Abs(span.Cross(up))/vertical > lc.MaxLean {
		return pl, RejectTooSteep
	}

	pl.Valid = true
	return pl, RejectNone
}

// pathBlocked casts every consecutive pair of points against terrain
// Each pair is cast from its inner end outward, and contacts within clearance of the
// polyline's own endpoints are ignored since those rest on the ledges they were snapped to
func (v *Validator) pathBlocked(points []vmath.Vec2) bool {
	n := len(points)
	if n < 2 {
		return false
	}
	first, last := points[0], points[n-1]
	clearance := v.cfg.Placement.EndpointClearance

	blocked := func(from, to vmath.Vec2) bool {
		hit := v.terrain.RayCastTerrain(from, to)
		if hit == nil {
			return false
		}
		return vmath.Dist(hit.Pos, first) > clearance && vmath.Dist(hit.Pos, last) > clearance
	}

	if n == 2 {
		mid := vmath.Midpoint(first, last)
		return blocked(mid, first) || blocked(mid, last)
	}
	for i := 1; i < n; i++ {
		from, to := points[i-1], points[i]
		if i == 1 {
			from, to = to, from
		}
		if blocked(from, to) {
			return true
		}
	}
	return false
}
