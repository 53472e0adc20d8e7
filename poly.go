package impulse

import "math"

type SplittingPlane struct {
	N Vector
	D float64
}

type PolyShape struct {
	*Shape

	verts  []Vector
	planes []SplittingPlane

	tverts  []Vector
	tplanes []SplittingPlane
}

// NewPolyShape builds a convex polygon from verts. Concave or clockwise input is reduced to its
// counter-clockwise convex hull.
func NewPolyShape(verts []Vector) *Shape {
	poly := &PolyShape{}
	poly.Shape = newShape(poly, SHAPE_POLY)
	poly.SetVerts(verts)
	return poly.Shape
}

func NewBox(w, h float64) *Shape {
	return NewBoxOffset(w, h, Vector{}, 0)
}

// NewBoxOffset builds a box centered at offset and rotated by angle in body space.
func NewBoxOffset(w, h float64, offset Vector, angle float64) *Shape {
	hw := w / 2.0
	hh := h / 2.0
	bb := BB{-hw, -hh, hw, hh}
	xf := NewTransformRigid(offset, angle)
	verts := []Vector{
		xf.Point(Vector{bb.L, bb.B}),
		xf.Point(Vector{bb.R, bb.B}),
		xf.Point(Vector{bb.R, bb.T}),
		xf.Point(Vector{bb.L, bb.T}),
	}
	return NewPolyShape(verts)
}

// SetVerts replaces the vertex ring. Call Body.ResetMassData afterwards.
func (poly *PolyShape) SetVerts(verts []Vector) {
	ring := make([]Vector, len(verts))
	copy(ring, verts)

	if !IsConvexCCW(ring) {
		ring = ring[:ConvexHull(ring, 0)]
		if len(verts) != len(ring) {
			logger.Debug("polygon reduced to its convex hull", "in", len(verts), "out", len(ring))
		}
	}

	count := len(ring)
	poly.verts = ring
	poly.planes = make([]SplittingPlane, count)
	poly.tverts = make([]Vector, count)
	poly.tplanes = make([]SplittingPlane, count)

	for i := 0; i < count; i++ {
		a := ring[i]
		b := ring[(i+1)%count]
		n := b.Sub(a).ReversePerp().Normalize()

		poly.planes[i] = SplittingPlane{N: n, D: n.Dot(a)}
	}
}

func (poly *PolyShape) Count() int {
	return len(poly.verts)
}

func (poly *PolyShape) Vert(i int) Vector {
	return poly.verts[i]
}

func (poly *PolyShape) TransformVert(i int) Vector {
	return poly.tverts[i]
}

func (poly *PolyShape) CacheData(transform Transform) BB {
	l := INFINITY
	r := -INFINITY
	b := INFINITY
	t := -INFINITY

	for i, src := range poly.verts {
		v := transform.Point(src)
		n := transform.Vect(poly.planes[i].N)

		poly.tverts[i] = v
		poly.tplanes[i] = SplittingPlane{N: n}

		l = math.Min(l, v.X)
		r = math.Max(r, v.X)
		b = math.Min(b, v.Y)
		t = math.Max(t, v.Y)
	}

	// offsets need every transformed vertex first
	for i := range poly.tplanes {
		poly.tplanes[i].D = poly.tplanes[i].N.Dot(poly.tverts[i])
	}

	return BB{l, b, r, t}
}

func (poly *PolyShape) Centroid() Vector {
	return CentroidForPoly(poly.verts)
}

func (poly *PolyShape) Area() float64 {
	return AreaForPoly(poly.verts)
}

func (poly *PolyShape) Inertia(mass float64) float64 {
	return MomentForPoly(mass, poly.verts)
}

func (poly *PolyShape) PointQuery(p Vector) bool {
	return poly.containPoint(p)
}

func (poly *PolyShape) containPoint(p Vector) bool {
	for _, plane := range poly.tplanes {
		if plane.N.Dot(p)-plane.D > 0 {
			return false
		}
	}
	return true
}

// containPointPartial ignores the planes facing away from n.
func (poly *PolyShape) containPointPartial(p, n Vector) bool {
	for _, plane := range poly.tplanes {
		if plane.N.Dot(n) < 0.0001 {
			continue
		}
		if plane.N.Dot(p)-plane.D > 0 {
			return false
		}
	}
	return true
}

// distanceOnPlane is the signed distance of the deepest vertex below the plane.
func (poly *PolyShape) distanceOnPlane(n Vector, d float64) float64 {
	min := INFINITY
	for _, v := range poly.tverts {
		min = math.Min(min, n.Dot(v))
	}
	return min - d
}

func (poly *PolyShape) FindVertexByPoint(p Vector, minDist float64) int {
	dsq := minDist * minDist
	for i, v := range poly.tverts {
		if v.DistanceSq(p) < dsq {
			return i
		}
	}
	return -1
}

func (poly *PolyShape) FindEdgeByPoint(p Vector, minDist float64) int {
	dsq := minDist * minDist
	count := len(poly.tverts)
	for i := 0; i < count; i++ {
		v1 := poly.tverts[i]
		v2 := poly.tverts[(i+1)%count]
		n := poly.tplanes[i].N

		dtv1 := v1.Cross(n)
		dtv2 := v2.Cross(n)
		dt := p.Cross(n)

		if dt > dtv1 {
			if v1.DistanceSq(p) < dsq {
				return i
			}
		} else if dt < dtv2 {
			if v2.DistanceSq(p) < dsq {
				return i
			}
		} else {
			dist := n.Dot(p) - n.Dot(v1)
			if dist*dist < dsq {
				return i
			}
		}
	}
	return -1
}

func (poly *PolyShape) SegmentQuery(a, b Vector, info *SegmentQueryInfo) bool {
	count := len(poly.tverts)
	hit := false

	for i := 0; i < count; i++ {
		n := poly.tplanes[i].N
		an := a.Dot(n)
		d := an - poly.tplanes[i].D
		if d < 0 {
			continue
		}

		bn := b.Dot(n)
		if an == bn {
			continue
		}
		t := d / (an - bn)
		if t < 0 || 1 < t || t > info.Alpha {
			continue
		}

		point := a.Lerp(b, t)
		dt := n.Cross(point)
		dtMin := n.Cross(poly.tverts[i])
		dtMax := n.Cross(poly.tverts[(i+1)%count])

		if dtMin <= dt && dt <= dtMax {
			info.Point = point
			info.Normal = n
			info.Alpha = t
			hit = true
		}
	}
	return hit
}
