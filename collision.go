package impulse

import "math"

// Contact is one point of a contact manifold. Normal points from the first shape to the second.
type Contact struct {
	Point  Vector
	Normal Vector
	// Depth is the signed separation, negative while the shapes overlap.
	Depth float64

	// feature id, used to match impulses between steps
	hash uint32

	r1, r2             Vector
	r1_local, r2_local Vector

	emn, emt float64
	bounce   float64

	lambda_n_acc float64
	lambda_t_acc float64
}

func (c *Contact) Hash() uint32 {
	return c.hash
}

// NormalImpulse is the accumulated normal impulse of the last step.
func (c *Contact) NormalImpulse() float64 {
	return c.lambda_n_acc
}

func (c *Contact) TangentImpulse() float64 {
	return c.lambda_t_acc
}

func featureID(side, index int) uint32 {
	return uint32(side)<<16 | uint32(index)
}

type collisionFunc func(a, b *Shape, contacts []Contact) []Contact

// indexed by [a.kind][b.kind] with a.kind <= b.kind
var collisionTable = [SHAPE_TYPE_NUM][SHAPE_TYPE_NUM]collisionFunc{
	SHAPE_CIRCLE:  {SHAPE_CIRCLE: circle2Circle, SHAPE_SEGMENT: circle2Segment, SHAPE_POLY: circle2Poly},
	SHAPE_SEGMENT: {SHAPE_SEGMENT: segment2Segment, SHAPE_POLY: segment2Poly},
	SHAPE_POLY:    {SHAPE_POLY: poly2Poly},
}

// Collide appends the contacts between a and b to contacts. Both shapes must have fresh world
// caches. Normals point from a to b whatever the argument order.
func Collide(a, b *Shape, contacts []Contact) []Contact {
	if a.kind <= b.kind {
		return collisionTable[a.kind][b.kind](a, b, contacts)
	}

	start := len(contacts)
	contacts = collisionTable[b.kind][a.kind](b, a, contacts)
	for i := start; i < len(contacts); i++ {
		contacts[i].Normal = contacts[i].Normal.Neg()
	}
	return contacts
}

func circle2Circle(a, b *Shape, contacts []Contact) []Contact {
	c1 := a.Class.(*Circle)
	c2 := b.Class.(*Circle)
	return circleContact(c1.tc, c1.r, c2.tc, c2.r, 0, contacts)
}

// circleContact treats both points as circle centers.
func circleContact(c1 Vector, r1 float64, c2 Vector, r2 float64, id uint32, contacts []Contact) []Contact {
	rmax := r1 + r2
	t := c2.Sub(c1)
	distsq := t.LengthSq()
	if distsq > rmax*rmax {
		return contacts
	}

	dist := math.Sqrt(distsq)

	// concentric circles have no meaningful direction
	p := c1
	n := Vector{}
	if dist != 0 {
		p = c1.MultAdd(t, 0.5+(r1-0.5*rmax)/dist)
		n = t.Mult(1 / dist)
	}

	return append(contacts, Contact{Point: p, Normal: n, Depth: dist - rmax, hash: id})
}

func circle2Segment(a, b *Shape, contacts []Contact) []Contact {
	circ := a.Class.(*Circle)
	seg := b.Class.(*Segment)

	rsum := circ.r + seg.r

	// normal distance from the segment's line
	dn := circ.tc.Dot(seg.tn) - seg.ta.Dot(seg.tn)
	dist := math.Abs(dn) - rsum
	if dist > 0 {
		return contacts
	}

	// tangential distance along the segment
	dt := circ.tc.Cross(seg.tn)
	dtMin := seg.ta.Cross(seg.tn)
	dtMax := seg.tb.Cross(seg.tn)

	if dt < dtMin {
		if dt < dtMin-rsum {
			return contacts
		}
		return circleContact(circ.tc, circ.r, seg.ta, seg.r, 0, contacts)
	} else if dt > dtMax {
		if dt > dtMax+rsum {
			return contacts
		}
		return circleContact(circ.tc, circ.r, seg.tb, seg.r, 0, contacts)
	}

	n := seg.tn
	if dn < 0 {
		n = n.Neg()
	}

	return append(contacts, Contact{
		Point:  circ.tc.MultAdd(n, -(circ.r + dist*0.5)),
		Normal: n.Neg(),
		Depth:  dist,
	})
}

func circle2Poly(a, b *Shape, contacts []Contact) []Contact {
	circ := a.Class.(*Circle)
	poly := b.Class.(*PolyShape)

	count := len(poly.tverts)
	if count == 0 {
		return contacts
	}

	minDist := -INFINITY
	minIdx := -1
	for i, plane := range poly.tplanes {
		dist := circ.tc.Dot(plane.N) - plane.D - circ.r
		if dist > 0 {
			return contacts
		}
		if dist > minDist {
			minDist = dist
			minIdx = i
		}
	}

	n := poly.tplanes[minIdx].N
	va := poly.tverts[minIdx]
	vb := poly.tverts[(minIdx+1)%count]
	dta := va.Cross(n)
	dtb := vb.Cross(n)
	dt := circ.tc.Cross(n)

	if dt > dta {
		return circleContact(circ.tc, circ.r, va, 0, featureID(1, minIdx), contacts)
	} else if dt < dtb {
		return circleContact(circ.tc, circ.r, vb, 0, featureID(1, (minIdx+1)%count), contacts)
	}

	return append(contacts, Contact{
		Point:  circ.tc.MultAdd(n, -(circ.r + minDist*0.5)),
		Normal: n.Neg(),
		Depth:  minDist,
	})
}

// segmentPointDistanceSq is the squared distance from p to the segment ab.
func segmentPointDistanceSq(p, a, b Vector) float64 {
	return p.ClosestPointOnSegment(a, b).DistanceSq(p)
}

// segmentParam projects p onto ab, clamped to [0, 1].
func segmentParam(p, a, b Vector) float64 {
	u := b.Sub(a)
	lsq := u.LengthSq()
	if lsq == 0 {
		return 0
	}
	return Clamp01(p.Sub(a).Dot(u) / lsq)
}

func segment2Segment(a, b *Shape, contacts []Contact) []Contact {
	seg1 := a.Class.(*Segment)
	seg2 := b.Class.(*Segment)

	d := [4]float64{
		segmentPointDistanceSq(seg1.ta, seg2.ta, seg2.tb),
		segmentPointDistanceSq(seg1.tb, seg2.ta, seg2.tb),
		segmentPointDistanceSq(seg2.ta, seg1.ta, seg1.tb),
		segmentPointDistanceSq(seg2.tb, seg1.ta, seg1.tb),
	}

	index := 0
	for i := 1; i < 4; i++ {
		if d[i] < d[index] {
			index = i
		}
	}

	var p1, p2 Vector
	switch index {
	case 0:
		p1 = seg1.ta
		p2 = seg2.ta.Lerp(seg2.tb, segmentParam(seg1.ta, seg2.ta, seg2.tb))
	case 1:
		p1 = seg1.tb
		p2 = seg2.ta.Lerp(seg2.tb, segmentParam(seg1.tb, seg2.ta, seg2.tb))
	case 2:
		p1 = seg1.ta.Lerp(seg1.tb, segmentParam(seg2.ta, seg1.ta, seg1.tb))
		p2 = seg2.ta
	case 3:
		p1 = seg1.ta.Lerp(seg1.tb, segmentParam(seg2.tb, seg1.ta, seg1.tb))
		p2 = seg2.tb
	}

	return circleContact(p1, seg1.r, p2, seg2.r, uint32(index), contacts)
}

func segment2Poly(a, b *Shape, contacts []Contact) []Contact {
	seg := a.Class.(*Segment)
	poly := b.Class.(*PolyShape)

	count := len(poly.tverts)
	if count == 0 {
		return contacts
	}

	segTD := seg.tn.Dot(seg.ta)
	segD1 := poly.distanceOnPlane(seg.tn, segTD) - seg.r
	if segD1 > 0 {
		return contacts
	}
	segD2 := poly.distanceOnPlane(seg.tn.Neg(), -segTD) - seg.r
	if segD2 > 0 {
		return contacts
	}

	polyD := -INFINITY
	polyI := -1
	for i, plane := range poly.tplanes {
		dist := seg.distanceOnPlane(plane.N, plane.D)
		if dist > 0 {
			return contacts
		}
		if dist > polyD {
			polyD = dist
			polyI = i
		}
	}

	start := len(contacts)

	polyN := poly.tplanes[polyI].N.Neg()
	va := seg.ta.MultAdd(polyN, seg.r)
	vb := seg.tb.MultAdd(polyN, seg.r)
	if poly.containPoint(va) {
		contacts = append(contacts, Contact{Point: va, Normal: polyN, Depth: polyD, hash: 0})
	}
	if poly.containPoint(vb) {
		contacts = append(contacts, Contact{Point: vb, Normal: polyN, Depth: polyD, hash: 1})
	}

	// floating point slack so a nearly parallel face still finds the points behind the segment
	polyD -= 0.1
	if segD1 >= polyD || segD2 >= polyD {
		if segD1 > segD2 {
			contacts = findPointsBehindSeg(seg, poly, segD1, 1, contacts)
		} else {
			contacts = findPointsBehindSeg(seg, poly, segD2, -1, contacts)
		}
	}

	if len(contacts) > start {
		return contacts
	}

	// nothing on the face, try the endpoints against the face corners
	ia := polyI
	ib := (polyI + 1) % count
	corners := [4]struct {
		p      Vector
		corner int
	}{{seg.ta, ia}, {seg.tb, ia}, {seg.ta, ib}, {seg.tb, ib}}
	for _, c := range corners {
		before := len(contacts)
		contacts = circleContact(c.p, seg.r, poly.tverts[c.corner], 0, featureID(1, c.corner), contacts)
		if len(contacts) > before {
			break
		}
	}
	return contacts
}

func findPointsBehindSeg(seg *Segment, poly *PolyShape, dist, coef float64, contacts []Contact) []Contact {
	dta := seg.tn.Cross(seg.ta)
	dtb := seg.tn.Cross(seg.tb)
	n := seg.tn.Mult(coef)
	limit := seg.tn.Dot(seg.ta)*coef + seg.r

	for i, v := range poly.tverts {
		if v.Dot(n) >= limit {
			continue
		}
		dt := seg.tn.Cross(v)
		if dta >= dt && dt >= dtb {
			contacts = append(contacts, Contact{Point: v, Normal: n, Depth: dist, hash: featureID(1, i)})
		}
	}
	return contacts
}

// findMSA finds the plane of least penetration of poly against planes. The index is -1 when a
// separating axis exists.
func findMSA(poly *PolyShape, planes []SplittingPlane) (float64, int) {
	minDist := -INFINITY
	minIndex := -1
	for i, plane := range planes {
		dist := poly.distanceOnPlane(plane.N, plane.D)
		if dist > 0 {
			return 0, -1
		}
		if dist > minDist {
			minDist = dist
			minIndex = i
		}
	}
	return minDist, minIndex
}

func poly2Poly(a, b *Shape, contacts []Contact) []Contact {
	poly1 := a.Class.(*PolyShape)
	poly2 := b.Class.(*PolyShape)

	if len(poly1.tplanes) == 0 || len(poly2.tplanes) == 0 {
		return contacts
	}

	dist1, index1 := findMSA(poly2, poly1.tplanes)
	if index1 == -1 {
		return contacts
	}
	dist2, index2 := findMSA(poly1, poly2.tplanes)
	if index2 == -1 {
		return contacts
	}

	if dist1 > dist2 {
		return findVerts(poly1, poly2, poly1.tplanes[index1].N, dist1, contacts)
	}
	return findVerts(poly1, poly2, poly2.tplanes[index2].N.Neg(), dist2, contacts)
}

func findVerts(poly1, poly2 *PolyShape, n Vector, dist float64, contacts []Contact) []Contact {
	start := len(contacts)

	for i, v := range poly1.tverts {
		if poly2.containPoint(v) {
			contacts = append(contacts, Contact{Point: v, Normal: n, Depth: dist, hash: featureID(0, i)})
		}
	}
	for i, v := range poly2.tverts {
		if poly1.containPoint(v) {
			contacts = append(contacts, Contact{Point: v, Normal: n, Depth: dist, hash: featureID(1, i)})
		}
	}

	if len(contacts) > start {
		return contacts
	}
	return findVertsFallback(poly1, poly2, n, dist, contacts)
}

// findVertsFallback only tests against the faces that point back at the other polygon.
func findVertsFallback(poly1, poly2 *PolyShape, n Vector, dist float64, contacts []Contact) []Contact {
	nn := n.Neg()
	for i, v := range poly1.tverts {
		if poly2.containPointPartial(v, nn) {
			contacts = append(contacts, Contact{Point: v, Normal: n, Depth: dist, hash: featureID(0, i)})
		}
	}
	for i, v := range poly2.tverts {
		if poly1.containPointPartial(v, n) {
			contacts = append(contacts, Contact{Point: v, Normal: n, Depth: dist, hash: featureID(1, i)})
		}
	}
	return contacts
}
