package impulse

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector_Normalize(t *testing.T) {
	assert.Equal(t, Vector{}, Vector{}.Normalize())

	u := Vector{3, 4}.Normalize()
	assert.InDelta(t, 0.6, u.X, 1e-12)
	assert.InDelta(t, 0.8, u.Y, 1e-12)
}

func TestVector_Perp(t *testing.T) {
	v := Vector{1, 2}
	assert.Equal(t, Vector{-2, 1}, v.Perp())
	assert.Equal(t, Vector{2, -1}, v.ReversePerp())
	assert.Zero(t, v.Dot(v.Perp()))
}

func TestVector_Rotate(t *testing.T) {
	v := Vector{1, 0}.Rotate(ForAngle(math.Pi / 2))
	assert.InDelta(t, 0, v.X, 1e-12)
	assert.InDelta(t, 1, v.Y, 1e-12)

	back := v.Unrotate(ForAngle(math.Pi / 2))
	assert.True(t, back.Near(Vector{1, 0}, 1e-12))
}

func TestVector_Cross(t *testing.T) {
	assert.Equal(t, 1.0, Vector{1, 0}.Cross(Vector{0, 1}))
	assert.Equal(t, -1.0, Vector{0, 1}.Cross(Vector{1, 0}))
	assert.Equal(t, Vector{-2, 1}, CrossSV(1, Vector{1, 2}))
}

func TestVector_Clamp(t *testing.T) {
	assert.Equal(t, Vector{1, 1}, Vector{1, 1}.Clamp(10))

	v := Vector{10, 0}.Clamp(2)
	assert.InDelta(t, 2, v.Length(), 1e-12)
}

func TestVector_ClosestPointOnSegment(t *testing.T) {
	a := Vector{0, 0}
	b := Vector{2, 0}

	tests := []struct {
		p, want Vector
	}{
		{Vector{1, 5}, Vector{1, 0}},
		{Vector{-3, 1}, Vector{0, 0}},
		{Vector{9, -1}, Vector{2, 0}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.p.ClosestPointOnSegment(a, b), "closest to %v", tt.p)
	}
}

func TestTransform_RigidInverse(t *testing.T) {
	xf := NewTransformRigid(Vector{3, -2}, 0.7)
	inv := NewTransformRigidInverse(xf)

	p := Vector{1.5, 4}
	assert.True(t, inv.Point(xf.Point(p)).Near(p, 1e-12))
}
