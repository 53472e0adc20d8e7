package impulse

import "math"

// Segment is a line segment thickened by a radius, i.e. a capsule.
type Segment struct {
	*Shape

	a, b, n    Vector
	ta, tb, tn Vector
	r          float64
}

func NewSegment(a, b Vector, r float64) *Shape {
	segment := &Segment{
		a: a,
		b: b,
		n: b.Sub(a).Perp().Normalize(),
		r: r,
	}
	segment.Shape = newShape(segment, SHAPE_SEGMENT)
	return segment.Shape
}

func (seg *Segment) CacheData(transform Transform) BB {
	seg.ta = transform.Point(seg.a)
	seg.tb = transform.Point(seg.b)
	seg.tn = transform.Vect(seg.n)

	var l, r, b, t float64

	if seg.ta.X < seg.tb.X {
		l = seg.ta.X
		r = seg.tb.X
	} else {
		l = seg.tb.X
		r = seg.ta.X
	}

	if seg.ta.Y < seg.tb.Y {
		b = seg.ta.Y
		t = seg.tb.Y
	} else {
		b = seg.tb.Y
		t = seg.ta.Y
	}

	rad := seg.r
	return BB{l - rad, b - rad, r + rad, t + rad}
}

func (seg *Segment) A() Vector  { return seg.a }
func (seg *Segment) B() Vector  { return seg.b }
func (seg *Segment) TA() Vector { return seg.ta }
func (seg *Segment) TB() Vector { return seg.tb }

func (seg *Segment) Radius() float64 {
	return seg.r
}

// SetEndpoints moves the endpoints. Call Body.ResetMassData afterwards.
func (seg *Segment) SetEndpoints(a, b Vector) {
	seg.a = a
	seg.b = b
	seg.n = b.Sub(a).Perp().Normalize()
}

func (seg *Segment) SetRadius(r float64) {
	seg.r = r
}

func (seg *Segment) Centroid() Vector {
	return seg.a.Lerp(seg.b, 0.5)
}

func (seg *Segment) Area() float64 {
	return AreaForSegment(seg.a, seg.b, seg.r)
}

func (seg *Segment) Inertia(mass float64) float64 {
	return MomentForSegment(mass, seg.a, seg.b, seg.r)
}

func (seg *Segment) PointQuery(p Vector) bool {
	closest := p.ClosestPointOnSegment(seg.ta, seg.tb)
	return closest.DistanceSq(p) < seg.r*seg.r
}

// distanceOnPlane is the signed distance of the closest endpoint to the plane, less the radius.
func (seg *Segment) distanceOnPlane(n Vector, d float64) float64 {
	a := seg.ta.Dot(n) - seg.r
	b := seg.tb.Dot(n) - seg.r
	return math.Min(a, b) - d
}

func (seg *Segment) FindVertexByPoint(p Vector, minDist float64) int {
	dsq := minDist * minDist
	if seg.ta.DistanceSq(p) < dsq {
		return 0
	}
	if seg.tb.DistanceSq(p) < dsq {
		return 1
	}
	return -1
}

func (seg *Segment) FindEdgeByPoint(p Vector, minDist float64) int {
	closest := p.ClosestPointOnSegment(seg.ta, seg.tb)
	reach := minDist + seg.r
	if closest.DistanceSq(p) < reach*reach {
		return 0
	}
	return -1
}

func (seg *Segment) SegmentQuery(a, b Vector, info *SegmentQueryInfo) bool {
	n := seg.tn
	d := seg.ta.Sub(a).Dot(n)
	r := seg.r

	var flippedN Vector
	if d > 0 {
		flippedN = n.Neg()
	} else {
		flippedN = n
	}
	segOffset := flippedN.Mult(r).Sub(a)

	// Make the endpoints relative to 'a' and move them by the thickness of the segment.
	segA := seg.ta.Add(segOffset)
	segB := seg.tb.Add(segOffset)
	delta := b.Sub(a)

	if delta.Cross(segA)*delta.Cross(segB) <= 0 {
		dOffset := d
		if d > 0 {
			dOffset -= r
		} else {
			dOffset += r
		}
		ad := -dOffset
		bd := delta.Dot(n) - dOffset

		if ad*bd < 0 {
			t := ad / (ad - bd)
			if t > info.Alpha {
				return false
			}

			info.Point = a.Lerp(b, t)
			info.Normal = flippedN
			info.Alpha = t
			return true
		}
	} else if r != 0 {
		hit := CircleSegmentQuery(seg.ta, seg.r, a, b, 0, info)
		if CircleSegmentQuery(seg.tb, seg.r, a, b, 0, info) {
			hit = true
		}
		return hit
	}
	return false
}
