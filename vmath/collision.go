package vmath

// SegmentIntersect tests segment p1-p2 against q1-q2
// Returns intersection point and parameter t along p1-p2 in [0, 1]
// Collinear overlaps are reported at the first overlapping point along p
func SegmentIntersect(p1, p2, q1, q2 Vec2) (hit Vec2, t float64, ok bool) {
	r := p2.Sub(p1)
	s := q2.Sub(q1)
	denom := r.Cross(s)
	qp := q1.Sub(p1)

	if denom > -Epsilon && denom < Epsilon {
		// Parallel: only collinear segments can touch
		if qp.Cross(r) > Epsilon || qp.Cross(r) < -Epsilon {
			return Vec2{}, 0, false
		}
		rr := r.LenSq()
		if rr < Epsilon {
			// p is a point
			if ClosestPointOnSegment(p1, q1, q2).Near(p1, 1e-6) {
				return p1, 0, true
			}
			return Vec2{}, 0, false
		}
		t0 := qp.Dot(r) / rr
		t1 := q2.Sub(p1).Dot(r) / rr
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t1 < 0 || t0 > 1 {
			return Vec2{}, 0, false
		}
		if t0 < 0 {
			t0 = 0
		}
		return p1.Add(r.Scale(t0)), t0, true
	}

	t = qp.Cross(s) / denom
	u := qp.Cross(r) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Vec2{}, 0, false
	}
	return p1.Add(r.Scale(t)), t, true
}

// ClosestPointOnSegment projects p onto segment a-b, clamped to the segment
func ClosestPointOnSegment(p, a, b Vec2) Vec2 {
	ab := b.Sub(a)
	lenSq := ab.LenSq()
	if lenSq < Epsilon {
		return a
	}
	t := Clamp01(p.Sub(a).Dot(ab) / lenSq)
	return a.Add(ab.Scale(t))
}

// SegmentNormal returns the unit normal of a-b facing the Up side
// Vertical segments return the left-hand normal
func SegmentNormal(a, b Vec2) Vec2 {
	n := b.Sub(a).Perp().Normalize()
	if n.Dot(Up) < 0 {
		n = n.Scale(-1)
	}
	return n
}
