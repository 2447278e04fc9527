package vmath

import "math"

const (
	// CatenaryProfile is the steepness of the hyperbolic-cosine sag profile
	// Larger values flatten the middle and steepen the ends
	CatenaryProfile = 2.0

	// MinCatenarySpan is the horizontal span below which curves degrade to a straight line
	MinCatenarySpan = 1e-3
)

// catenaryNorm is cosh(a) - 1, the profile value at the midpoint
var catenaryNorm = math.Cosh(CatenaryProfile) - 1

// GenerateCurve returns segments+1 points approximating a chain hanging from start to end
// up is the world up direction, shape scales the midpoint sag as a fraction of horizontal span
// The first and last points are exactly start and end; segments < 1 yields the two endpoints
func GenerateCurve(start, end Vec2, segments int, up Vec2, shape float64) []Vec2 {
	if segments < 1 {
		segments = 1
	}
	points := make([]Vec2, segments+1)

	u := up.Normalize()
	if u == (Vec2{}) {
		u = Up
	}

	// Horizontal span is the chord component perpendicular to up
	chord := end.Sub(start)
	span := chord.Sub(u.Scale(chord.Dot(u))).Len()
	maxSag := shape * span
	curved := span >= MinCatenarySpan && maxSag != 0

	inv := 1.0 / float64(segments)
	for i := 1; i < segments; i++ {
		t := float64(i) * inv
		p := Lerp(start, end, t)
		if curved {
			p = p.Sub(u.Scale(maxSag * catenarySag(t)))
		}
		points[i] = p
	}

	points[0] = start
	points[segments] = end
	return points
}

// catenarySag returns normalized sag in [0, 1] at parameter t, 1 at t=0.5, 0 at the ends
func catenarySag(t float64) float64 {
	x := CatenaryProfile * (2*t - 1)
	return (math.Cosh(CatenaryProfile) - math.Cosh(x)) / catenaryNorm
}
