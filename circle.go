package impulse

import "math"

type Circle struct {
	*Shape
	c, tc Vector
	r     float64
}

func NewCircle(radius float64, offset Vector) *Shape {
	circle := &Circle{
		c: offset,
		r: radius,
	}
	circle.Shape = newShape(circle, SHAPE_CIRCLE)
	return circle.Shape
}

func (circle *Circle) CacheData(transform Transform) BB {
	circle.tc = transform.Point(circle.c)
	return NewBBForCircle(circle.tc, circle.r)
}

func (circle *Circle) Radius() float64 {
	return circle.r
}

// SetRadius resizes the circle. Call Body.ResetMassData afterwards.
func (circle *Circle) SetRadius(r float64) {
	circle.r = r
}

func (circle *Circle) Offset() Vector {
	return circle.c
}

func (circle *Circle) TransformC() Vector {
	return circle.tc
}

func (circle *Circle) Centroid() Vector {
	return circle.c
}

func (circle *Circle) Area() float64 {
	return AreaForCircle(circle.r)
}

func (circle *Circle) Inertia(mass float64) float64 {
	return MomentForCircle(mass, circle.r, circle.c)
}

func (circle *Circle) PointQuery(p Vector) bool {
	return circle.tc.DistanceSq(p) < circle.r*circle.r
}

func (circle *Circle) FindVertexByPoint(p Vector, minDist float64) int {
	if circle.tc.DistanceSq(p) < minDist*minDist {
		return 0
	}
	return -1
}

func (circle *Circle) FindEdgeByPoint(p Vector, minDist float64) int {
	return -1
}

func (circle *Circle) SegmentQuery(a, b Vector, info *SegmentQueryInfo) bool {
	return CircleSegmentQuery(circle.tc, circle.r, a, b, 0, info)
}

func CircleSegmentQuery(center Vector, r1 float64, a, b Vector, r2 float64, info *SegmentQueryInfo) bool {
	da := a.Sub(center)
	db := b.Sub(center)
	rsum := r1 + r2

	qa := da.Dot(da) - 2*da.Dot(db) + db.Dot(db)
	qb := da.Dot(db) - da.Dot(da)
	det := qb*qb - qa*(da.Dot(da)-rsum*rsum)

	if det < 0 || qa == 0 {
		return false
	}

	t := (-qb - math.Sqrt(det)) / qa
	if 0 <= t && t <= 1 && t <= info.Alpha {
		n := da.Lerp(db, t).Normalize()

		info.Point = a.Lerp(b, t).Sub(n.Mult(r2))
		info.Normal = n
		info.Alpha = t
		return true
	}
	return false
}
