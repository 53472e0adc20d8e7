package impulse

// Point queries return the match that follows ref in space order, wrapping around to the first
// match. Passing nil (or a ref that no longer matches) returns the first match, so repeated calls
// with the previous result cycle through everything stacked under one point.

type shapeRef struct {
	body  *Body
	shape *Shape
}

func (space *Space) shapeRefs() []shapeRef {
	var refs []shapeRef
	for _, body := range space.Bodies() {
		for _, shape := range body.shapeList {
			refs = append(refs, shapeRef{body, shape})
		}
	}
	return refs
}

// cycle returns the first item matching after ref, or the first match overall.
func cycle[T comparable](items []T, ref T, match func(T) bool) (T, bool) {
	var zero, first T
	hasFirst := false
	passed := ref == zero

	for _, item := range items {
		if !match(item) {
			continue
		}
		if passed {
			return item, true
		}
		if !hasFirst {
			first = item
			hasFirst = true
		}
		if item == ref {
			passed = true
		}
	}
	return first, hasFirst
}

func (space *Space) cycleShapes(ref *Shape, match func(*Shape) bool) (shapeRef, bool) {
	refs := space.shapeRefs()
	var start shapeRef
	for _, r := range refs {
		if r.shape == ref {
			start = r
			break
		}
	}
	return cycle(refs, start, func(r shapeRef) bool {
		return match(r.shape)
	})
}

// FindShapeByPoint returns a shape containing p, or nil.
func (space *Space) FindShapeByPoint(p Vector, ref *Shape) *Shape {
	found, ok := space.cycleShapes(ref, func(shape *Shape) bool {
		return shape.bb.ContainsVect(p) && shape.PointQuery(p)
	})
	if !ok {
		return nil
	}
	return found.shape
}

// FindBodyByPoint returns a body with a shape containing p, or nil.
func (space *Space) FindBodyByPoint(p Vector, ref *Body) *Body {
	body, ok := cycle(space.Bodies(), ref, func(body *Body) bool {
		if !body.bounds.ContainsVect(p) {
			return false
		}
		for _, shape := range body.shapeList {
			if shape.PointQuery(p) {
				return true
			}
		}
		return false
	})
	if !ok {
		return nil
	}
	return body
}

// FindVertexByPoint returns a shape with a vertex within minDist of p and that vertex's index,
// or nil and -1.
func (space *Space) FindVertexByPoint(p Vector, minDist float64, ref *Shape) (*Shape, int) {
	found, ok := space.cycleShapes(ref, func(shape *Shape) bool {
		return shape.FindVertexByPoint(p, minDist) >= 0
	})
	if !ok {
		return nil, -1
	}
	return found.shape, found.shape.FindVertexByPoint(p, minDist)
}

// FindEdgeByPoint returns a shape with an edge within minDist of p and that edge's index,
// or nil and -1.
func (space *Space) FindEdgeByPoint(p Vector, minDist float64, ref *Shape) (*Shape, int) {
	found, ok := space.cycleShapes(ref, func(shape *Shape) bool {
		return shape.FindEdgeByPoint(p, minDist) >= 0
	})
	if !ok {
		return nil, -1
	}
	return found.shape, found.shape.FindEdgeByPoint(p, minDist)
}

// FindJointByPoint returns a joint with either anchor within minDist of p, or nil.
func (space *Space) FindJointByPoint(p Vector, minDist float64, ref *Joint) *Joint {
	minDistSq := minDist * minDist
	joint, ok := cycle(space.Joints(), ref, func(joint *Joint) bool {
		a, b := joint.Anchors()
		return a.DistanceSq(p) <= minDistSq || b.DistanceSq(p) <= minDistSq
	})
	if !ok {
		return nil
	}
	return joint
}

// BodyOf returns the body owning shape, or nil.
func (space *Space) BodyOf(shape *Shape) *Body {
	for _, r := range space.shapeRefs() {
		if r.shape == shape {
			return r.body
		}
	}
	return nil
}

type RayCastInfo struct {
	SegmentQueryInfo
	Body *Body
}

// RayCast returns the first shape hit along the segment a->b.
func (space *Space) RayCast(a, b Vector) (RayCastInfo, bool) {
	best := RayCastInfo{SegmentQueryInfo: SegmentQueryInfo{Point: b, Alpha: 1}}
	hit := false

	for _, body := range space.Bodies() {
		if body.bounds.SegmentQuery(a, b) > best.Alpha {
			continue
		}
		for _, shape := range body.shapeList {
			info, ok := shape.SegmentQuery(a, b)
			if !ok || info.Alpha > best.Alpha || (hit && info.Alpha == best.Alpha) {
				continue
			}
			best = RayCastInfo{SegmentQueryInfo: info, Body: body}
			hit = true
		}
	}
	return best, hit
}

// BBQuery calls f for every shape whose bounds touch bb.
func (space *Space) BBQuery(bb BB, f func(body *Body, shape *Shape)) {
	for _, body := range space.Bodies() {
		if !body.bounds.Intersects(bb) {
			continue
		}
		for _, shape := range body.shapeList {
			if shape.bb.Intersects(bb) {
				f(body, shape)
			}
		}
	}
}
