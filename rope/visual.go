package rope

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/lixenwraith/ropebridge/vmath"
)

// Tint is the render color class of a piece
type Tint uint8

const (
	TintNormal  Tint = iota
	TintPending      // Under construction, not yet walkable
	TintInvalid      // Placement failed validity, ladder only
)

// Piece is one rendered segment between adjacent chain points
type Piece struct {
	Index   int
	Pos     vmath.Vec2 // Segment center
	Angle   float64    // Smoothed orientation in radians
	Length  float64
	Visible bool
	Tint    Tint
}

// pieceArena holds pieces indexed by chain position
// Storage is rebuilt only when segment count changes, otherwise updated by value each frame
type pieceArena struct {
	spring harmonica.Spring
	pieces []Piece
	angVel []float64
}

func newPieceArena(cfg VisualConfig) *pieceArena {
	fps := cfg.SpringFPS
	if fps <= 0 {
		fps = 60
	}
	return &pieceArena{
		spring: harmonica.NewSpring(harmonica.FPS(fps), cfg.Frequency, cfg.Damping),
	}
}

// sync updates pieces from points, visible may be nil for all visible
func (a *pieceArena) sync(points []vmath.Vec2, visible func(i int) bool, tint Tint) {
	n := len(points) - 1
	if n < 1 {
		a.clear()
		return
	}

	fresh := len(a.pieces) != n
	if fresh {
		a.pieces = make([]Piece, n)
		a.angVel = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		p0, p1 := points[i], points[i+1]
		seg := p1.Sub(p0)
		target := seg.Angle()

		pc := &a.pieces[i]
		pc.Index = i
		pc.Pos = vmath.Midpoint(p0, p1)
		pc.Length = seg.Len()
		pc.Tint = tint
		pc.Visible = visible == nil || visible(i)

		if fresh {
			pc.Angle = target
			continue
		}
		// Approach the nearest equivalent of target so the spring never spins the long way round
		target = pc.Angle + wrapAngle(target-pc.Angle)
		pc.Angle, a.angVel[i] = a.spring.Update(pc.Angle, a.angVel[i], target)
	}
}

// settle snaps every angle to its segment direction, used when geometry freezes
func (a *pieceArena) settle(points []vmath.Vec2) {
	if len(points)-1 != len(a.pieces) {
		return
	}
	for i := range a.pieces {
		a.pieces[i].Angle = points[i+1].Sub(points[i]).Angle()
		a.angVel[i] = 0
	}
}

func (a *pieceArena) clear() {
	a.pieces = nil
	a.angVel = nil
}

func (a *pieceArena) snapshot() []Piece {
	if len(a.pieces) == 0 {
		return nil
	}
	out := make([]Piece, len(a.pieces))
	copy(out, a.pieces)
	return out
}

// wrapAngle maps x into [-pi, pi)
func wrapAngle(x float64) float64 {
	x = math.Mod(x+math.Pi, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}
	return x - math.Pi
}
