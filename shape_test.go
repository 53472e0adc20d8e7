package impulse

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeCircleArea(t *testing.T) {
	circle := NewCircle(2, Vector{})
	assert.InDelta(t, 4*math.Pi, circle.Area(), 1e-12)
}

func TestShapeBoxArea(t *testing.T) {
	box := NewBox(2, 3)
	assert.InDelta(t, 6, box.Area(), 1e-12)
	assert.True(t, box.Centroid().Near(Vector{}, 1e-12))
}

func TestShapeSegmentArea(t *testing.T) {
	seg := NewSegment(Vector{0, 0}, Vector{2, 0}, 0.5)
	assert.InDelta(t, 0.5*(math.Pi*0.5+4), seg.Area(), 1e-12)
	assert.Equal(t, Vector{1, 0}, seg.Centroid())
}

func TestShapePolyHull(t *testing.T) {
	// clockwise square plus a point inside it
	verts := []Vector{{0, 0}, {0, 1}, {0.5, 0.5}, {1, 1}, {1, 0}}
	shape := NewPolyShape(verts)
	poly := shape.Class.(*PolyShape)

	require.Equal(t, 4, poly.Count())
	assert.InDelta(t, 1, shape.Area(), 1e-12)

	ring := make([]Vector, poly.Count())
	for i := range ring {
		ring[i] = poly.Vert(i)
	}
	assert.True(t, IsConvexCCW(ring))
}

func TestShapeMaterial(t *testing.T) {
	shape := NewCircle(1, Vector{})

	shape.SetElasticity(3)
	assert.Equal(t, 1.0, shape.Elasticity)

	shape.SetFriction(-1)
	assert.Equal(t, 0.0, shape.Friction)

	shape.SetDensity(2)
	shape.SetDensity(0)
	assert.Equal(t, 2.0, shape.Density)
}

func TestBodyMassIsSumOfShapes(t *testing.T) {
	body := NewBody(BODY_DYNAMIC, Vector{}, 0)

	box := NewBox(2, 1)
	box.SetDensity(2)
	circle := NewCircle(0.5, Vector{3, 0})
	circle.SetDensity(4)

	body.AddShape(box)
	body.AddShape(circle)

	want := box.Area()*box.Density + circle.Area()*circle.Density
	assert.InDelta(t, want, body.Mass(), 1e-9)
	assert.InDelta(t, 1/want, body.InverseMass(), 1e-9)
}

func TestBodyParallelAxis(t *testing.T) {
	body := NewBody(BODY_DYNAMIC, Vector{}, 0)

	c1 := body.AddShape(NewCircle(1, Vector{2, 0}))
	m := c1.Mass()

	// a lone offset disc spins about its own center
	assert.True(t, body.Centroid().Near(Vector{2, 0}, 1e-12))
	assert.InDelta(t, 0.5*m, body.Moment(), 1e-9)

	body.AddShape(NewCircle(1, Vector{-2, 0}))
	assert.True(t, body.Centroid().Near(Vector{}, 1e-12))
	assert.InDelta(t, 2*m*(0.5+4), body.Moment(), 1e-9)

	body.RemoveShape(body.Shapes()[1])
	assert.InDelta(t, m, body.Mass(), 1e-9)
	assert.InDelta(t, 0.5*m, body.Moment(), 1e-9)
}

func TestBodyCentroidShiftKeepsOrigin(t *testing.T) {
	body := NewBody(BODY_DYNAMIC, Vector{1, 1}, 0)
	body.AddShape(NewCircle(1, Vector{2, 0}))

	assert.True(t, body.Position().Near(Vector{1, 1}, 1e-12))
	assert.True(t, body.WorldCenter().Near(Vector{3, 1}, 1e-12))
}

func TestShapeCacheData(t *testing.T) {
	body := NewBody(BODY_DYNAMIC, Vector{5, 0}, math.Pi/2)
	shape := body.AddShape(NewBox(2, 1))

	bb := shape.BB()
	assert.InDelta(t, 4.5, bb.L, 1e-9)
	assert.InDelta(t, 5.5, bb.R, 1e-9)
	assert.InDelta(t, -1, bb.B, 1e-9)
	assert.InDelta(t, 1, bb.T, 1e-9)

	assert.True(t, shape.PointQuery(Vector{5, 0.9}))
	assert.False(t, shape.PointQuery(Vector{5.9, 0}))
}

func TestShapeFindByPoint(t *testing.T) {
	body := NewBody(BODY_STATIC, Vector{}, 0)
	box := body.AddShape(NewBox(2, 2))

	assert.Equal(t, -1, box.FindVertexByPoint(Vector{0, 0}, 0.1))
	assert.NotEqual(t, -1, box.FindVertexByPoint(Vector{1.05, 1.05}, 0.1))

	assert.Equal(t, -1, box.FindEdgeByPoint(Vector{0, 0}, 0.1))
	i := box.FindEdgeByPoint(Vector{1.05, 0}, 0.1)
	require.NotEqual(t, -1, i)
	n := box.Class.(*PolyShape).tplanes[i].N
	assert.True(t, n.Near(Vector{1, 0}, 1e-12))
}

func TestShapeSegmentQuery(t *testing.T) {
	body := NewBody(BODY_STATIC, Vector{}, 0)
	circle := body.AddShape(NewCircle(1, Vector{}))

	info, ok := circle.SegmentQuery(Vector{-3, 0}, Vector{3, 0})
	require.True(t, ok)
	assert.Same(t, circle, info.Shape)
	assert.InDelta(t, 1.0/3.0, info.Alpha, 1e-9)
	assert.True(t, info.Normal.Near(Vector{-1, 0}, 1e-9))

	_, ok = circle.SegmentQuery(Vector{-3, 2}, Vector{3, 2})
	assert.False(t, ok)
}
