package impulse

// ShapeClass is the geometry specific half of a Shape.
type ShapeClass interface {
	// CacheData refreshes the world space cache from the owning body's transform.
	CacheData(transform Transform) BB
	Centroid() Vector
	Area() float64
	// Inertia is the moment about the body origin for the given mass.
	Inertia(mass float64) float64
	PointQuery(p Vector) bool
	SegmentQuery(a, b Vector, info *SegmentQueryInfo) bool
	FindVertexByPoint(p Vector, minDist float64) int
	FindEdgeByPoint(p Vector, minDist float64) int
}

type SegmentQueryInfo struct {
	/// The shape that was hit, nil if no collision occurred.
	Shape *Shape
	/// The point of impact.
	Point Vector
	/// The normal of the surface hit.
	Normal Vector
	/// The normalized distance along the query segment in the range [0, 1].
	Alpha float64
}

type Shape struct {
	Class ShapeClass

	kind ShapeType
	// unique within the owning body
	id       int
	attached bool

	bb BB

	Elasticity float64
	Friction   float64
	Density    float64

	UserData interface{}
}

func newShape(class ShapeClass, kind ShapeType) *Shape {
	return &Shape{
		Class:      class,
		kind:       kind,
		Elasticity: 0,
		Friction:   1,
		Density:    1,
	}
}

func (s *Shape) Type() ShapeType {
	return s.kind
}

func (s *Shape) ID() int {
	return s.id
}

// BB is the world space bounds as of the last CacheData.
func (s *Shape) BB() BB {
	return s.bb
}

func (s *Shape) CacheData(transform Transform) BB {
	s.bb = s.Class.CacheData(transform)
	return s.bb
}

func (s *Shape) Centroid() Vector {
	return s.Class.Centroid()
}

func (s *Shape) Area() float64 {
	return s.Class.Area()
}

func (s *Shape) Mass() float64 {
	return s.Class.Area() * s.Density
}

func (s *Shape) Inertia(mass float64) float64 {
	return s.Class.Inertia(mass)
}

func (s *Shape) PointQuery(p Vector) bool {
	return s.Class.PointQuery(p)
}

func (s *Shape) SegmentQuery(a, b Vector) (SegmentQueryInfo, bool) {
	info := SegmentQueryInfo{Point: b, Alpha: 1}
	if !s.Class.SegmentQuery(a, b, &info) {
		return SegmentQueryInfo{}, false
	}
	info.Shape = s
	return info, true
}

func (s *Shape) FindVertexByPoint(p Vector, minDist float64) int {
	return s.Class.FindVertexByPoint(p, minDist)
}

func (s *Shape) FindEdgeByPoint(p Vector, minDist float64) int {
	return s.Class.FindEdgeByPoint(p, minDist)
}

func (s *Shape) SetElasticity(e float64) {
	s.Elasticity = Clamp01(e)
}

func (s *Shape) SetFriction(u float64) {
	if u < 0 {
		u = 0
	}
	s.Friction = u
}

// SetDensity changes the density. Call Body.ResetMassData afterwards.
func (s *Shape) SetDensity(density float64) {
	if density <= 0 {
		logger.Warn("ignoring non-positive shape density", "density", density)
		return
	}
	s.Density = density
}
