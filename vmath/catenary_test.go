package vmath

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCurveEndpointsExact(t *testing.T) {
	cases := []struct {
		name       string
		start, end Vec2
		segments   int
		shape      float64
	}{
		{"horizontal", V2(0, 0), V2(1000, 0), 16, 0.1},
		{"sloped", V2(-13.37, 42.1), V2(711.5, -90.25), 7, 0.25},
		{"vertical", V2(5, 5), V2(5, 500), 10, 0.3},
		{"single segment", V2(1, 2), V2(3, 4), 1, 0.5},
		{"degenerate count", V2(1, 2), V2(3, 4), 0, 0.5},
		{"coincident", V2(9, 9), V2(9, 9), 8, 0.2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pts := GenerateCurve(tc.start, tc.end, tc.segments, Up, tc.shape)
			require.GreaterOrEqual(t, len(pts), 2)
			if tc.segments >= 1 {
				require.Len(t, pts, tc.segments+1)
			}
			assert.Equal(t, tc.start, pts[0])
			assert.Equal(t, tc.end, pts[len(pts)-1])
			for i, p := range pts {
				assert.Truef(t, p.IsFinite(), "point %d not finite: %v", i, p)
			}
		})
	}
}

func TestGenerateCurveSwapSymmetry(t *testing.T) {
	a, b := V2(10, 20), V2(830, 140)
	const n = 24

	fwd := GenerateCurve(a, b, n, Up, 0.15)
	rev := GenerateCurve(b, a, n, Up, 0.15)
	require.Len(t, rev, len(fwd))

	for i := 1; i < n; i++ {
		assert.InDelta(t, fwd[i].X, rev[n-i].X, 1e-9)
		assert.InDelta(t, fwd[i].Y, rev[n-i].Y, 1e-9)
	}
}

func TestGenerateCurveSagsAgainstUp(t *testing.T) {
	pts := GenerateCurve(V2(0, 0), V2(1000, 0), 10, Up, 0.1)

	// Up is -Y so sag moves points toward +Y
	mid := pts[5]
	assert.InDelta(t, 100.0, mid.Y, 1e-9)
	for i := 1; i < 10; i++ {
		assert.Greater(t, pts[i].Y, 0.0)
		assert.LessOrEqual(t, pts[i].Y, mid.Y+1e-9)
	}
}

func TestGenerateCurveVerticalFallsBackToLine(t *testing.T) {
	pts := GenerateCurve(V2(3, 0), V2(3, 300), 6, Up, 0.4)
	for _, p := range pts {
		assert.InDelta(t, 3.0, p.X, 1e-12)
		assert.False(t, math.IsNaN(p.Y))
	}
}

func TestResampleKeepsEndpoints(t *testing.T) {
	curve := GenerateCurve(V2(0, 0), V2(400, 50), 12, Up, 0.2)
	samples := Resample(curve, 32)
	require.Len(t, samples, 32)
	assert.Equal(t, curve[0], samples[0])
	assert.Equal(t, curve[len(curve)-1], samples[31])

	// Evenly spaced by arc length
	total := PolylineLength(curve)
	step := total / 31
	for i := 1; i < 31; i++ {
		assert.InDelta(t, step, Dist(samples[i-1], samples[i]), step*0.05)
	}
}

func TestSegmentIntersect(t *testing.T) {
	hit, tt, ok := SegmentIntersect(V2(0, 0), V2(10, 0), V2(5, -5), V2(5, 5))
	require.True(t, ok)
	assert.InDelta(t, 0.5, tt, 1e-12)
	assert.Equal(t, V2(5, 0), hit)

	_, _, ok = SegmentIntersect(V2(0, 0), V2(10, 0), V2(0, 1), V2(10, 1))
	assert.False(t, ok)

	hit, _, ok = SegmentIntersect(V2(0, 0), V2(10, 0), V2(4, 0), V2(20, 0))
	require.True(t, ok)
	assert.Equal(t, V2(4, 0), hit)
}

func TestClosestPointOnSegment(t *testing.T) {
	assert.Equal(t, V2(3, 0), ClosestPointOnSegment(V2(3, 7), V2(0, 0), V2(10, 0)))
	assert.Equal(t, V2(10, 0), ClosestPointOnSegment(V2(30, 7), V2(0, 0), V2(10, 0)))
	assert.Equal(t, V2(0, 0), ClosestPointOnSegment(V2(1, 1), V2(0, 0), V2(0, 0)))
}
