package vmath

// PolylineLength returns the summed segment length of points
func PolylineLength(points []Vec2) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += Dist(points[i-1], points[i])
	}
	return total
}

// CumulativeLengths returns arc length at each vertex, first entry is 0
func CumulativeLengths(points []Vec2) []float64 {
	out := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		out[i] = out[i-1] + Dist(points[i-1], points[i])
	}
	return out
}

// PointAtLength walks the polyline and returns the point at arc length s
// s is clamped to [0, length]
func PointAtLength(points []Vec2, s float64) Vec2 {
	if len(points) == 0 {
		return Vec2{}
	}
	if s <= 0 {
		return points[0]
	}
	for i := 1; i < len(points); i++ {
		seg := Dist(points[i-1], points[i])
		if s <= seg {
			if seg < Epsilon {
				return points[i]
			}
			return Lerp(points[i-1], points[i], s/seg)
		}
		s -= seg
	}
	return points[len(points)-1]
}

// Resample returns n points evenly spaced by arc length along the polyline
// First and last points match the input endpoints exactly
func Resample(points []Vec2, n int) []Vec2 {
	if len(points) == 0 || n <= 0 {
		return nil
	}
	if n == 1 {
		return []Vec2{points[0]}
	}
	total := PolylineLength(points)
	out := make([]Vec2, n)
	step := total / float64(n-1)
	for i := 1; i < n-1; i++ {
		out[i] = PointAtLength(points, step*float64(i))
	}
	out[0] = points[0]
	out[n-1] = points[len(points)-1]
	return out
}

// Midpoints returns the centers of each adjacent pair
func Midpoints(points []Vec2) []Vec2 {
	if len(points) < 2 {
		return nil
	}
	out := make([]Vec2, len(points)-1)
	for i := 1; i < len(points); i++ {
		out[i-1] = Midpoint(points[i-1], points[i])
	}
	return out
}

// Reversed returns a reversed copy
func Reversed(points []Vec2) []Vec2 {
	out := make([]Vec2, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

// ArcPoint returns a parabolic arc position from a to b at s in [0, 1]
// height is the peak offset along up at s=0.5, s=0 and s=1 return a and b exactly
func ArcPoint(a, b Vec2, s, height float64, up Vec2) Vec2 {
	if s <= 0 {
		return a
	}
	if s >= 1 {
		return b
	}
	base := Lerp(a, b, s)
	return base.Add(up.Normalize().Scale(4 * height * s * (1 - s)))
}
