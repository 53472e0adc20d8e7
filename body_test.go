package impulse

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodyUpdateVelocity(t *testing.T) {
	body := NewBody(BODY_DYNAMIC, Vector{}, 0)
	body.AddShape(NewCircle(1, Vector{}))
	m := body.Mass()

	body.ApplyForceToCenter(Vector{m, 0})
	body.UpdateVelocity(Vector{0, -10}, 0.5, 0)

	assert.InDelta(t, 0.5, body.Velocity().X, 1e-9)
	assert.InDelta(t, -5, body.Velocity().Y, 1e-9)
	assert.Equal(t, Vector{}, body.Force(), "force is cleared after integration")
}

func TestBodyDamping(t *testing.T) {
	body := NewBody(BODY_DYNAMIC, Vector{}, 0)
	body.AddShape(NewCircle(1, Vector{}))
	body.SetVelocity(Vector{10, 0})
	body.SetAngularVelocity(10)
	body.LinearDamping = 0.5

	body.UpdateVelocity(Vector{}, 0.1, 0.5)
	assert.InDelta(t, 9, body.Velocity().X, 1e-9)
	assert.InDelta(t, 9.5, body.AngularVelocity(), 1e-9)

	// heavy damping clamps at a full stop instead of reversing
	body.UpdateVelocity(Vector{}, 1, 100)
	assert.Equal(t, Vector{}, body.Velocity())
}

func TestBodyImmovable(t *testing.T) {
	for _, kind := range []BodyType{BODY_STATIC, BODY_KINEMATIC} {
		t.Run(kind.String(), func(t *testing.T) {
			space := NewSpace()
			body := space.CreateBody(kind, 1, 2, 0)
			space.AddBoxShape(body, 1, 1, 1)

			assert.Zero(t, body.InverseMass())
			assert.Zero(t, body.InverseMoment())

			body.ApplyForce(Vector{100, 100}, Vector{1.5, 2})
			body.ApplyForceToCenter(Vector{100, 0})
			body.ApplyTorque(50)
			body.ApplyLinearImpulse(Vector{100, 0}, Vector{1, 2.5})
			body.ApplyAngularImpulse(10)

			for i := 0; i < 10; i++ {
				space.Step(1.0/60.0, 8, 3, true, true)
			}

			assert.Equal(t, Vector{}, body.Velocity())
			assert.Zero(t, body.AngularVelocity())
			assert.Equal(t, Vector{1, 2}, body.Position())
			assert.Zero(t, body.Angle())
		})
	}
}

func TestBodySetType(t *testing.T) {
	body := NewBody(BODY_DYNAMIC, Vector{}, 0)
	body.AddShape(NewCircle(1, Vector{}))
	body.SetVelocity(Vector{3, 0})

	body.SetType(BODY_STATIC)
	assert.Equal(t, Vector{}, body.Velocity())
	assert.Zero(t, body.Mass())

	body.SetType(BODY_DYNAMIC)
	assert.InDelta(t, math.Pi, body.Mass(), 1e-9)
}

func TestBodyLocalToWorld(t *testing.T) {
	body := NewBody(BODY_DYNAMIC, Vector{2, 3}, math.Pi/2)

	world := body.LocalToWorld(Vector{1, 0})
	assert.True(t, world.Near(Vector{2, 4}, 1e-12))
	assert.True(t, body.WorldToLocal(world).Near(Vector{1, 0}, 1e-12))
}

func TestBodyIsCollidable(t *testing.T) {
	space := NewSpace()
	a := space.CreateBody(BODY_DYNAMIC, 0, 0, 0)
	b := space.CreateBody(BODY_DYNAMIC, 1, 0, 0)
	ground := space.CreateBody(BODY_STATIC, 0, -1, 0)
	wall := space.CreateBody(BODY_KINEMATIC, 0, -1, 0)

	assert.False(t, a.IsCollidable(a))
	assert.True(t, a.IsCollidable(b))
	assert.True(t, a.IsCollidable(ground))
	assert.False(t, ground.IsCollidable(wall), "two non-dynamic bodies never collide")

	b.CategoryBits = 0x2
	a.MaskBits = 0x1
	assert.False(t, a.IsCollidable(b))
	assert.False(t, b.IsCollidable(a))
	a.MaskBits = 0xFFFFFFFF

	joint := space.AddJoint(NewDistanceJoint(a, b, Vector{0, 0}, Vector{1, 0}))
	require.NotNil(t, joint)
	assert.False(t, a.IsCollidable(b))
	joint.CollideConnected = true
	assert.True(t, a.IsCollidable(b))
}

func TestBodySleepWake(t *testing.T) {
	body := NewBody(BODY_DYNAMIC, Vector{}, 0)
	body.AddShape(NewCircle(1, Vector{}))
	body.SetVelocity(Vector{1, 1})
	body.ApplyTorque(3)

	body.Awake(false)
	assert.False(t, body.IsAwake())
	assert.Equal(t, Vector{}, body.Velocity())
	assert.Zero(t, body.Torque())

	body.ApplyLinearImpulse(Vector{1, 0}, body.WorldCenter())
	assert.True(t, body.IsAwake())
	assert.Zero(t, body.SleepTime())
}

func TestBodyKineticEnergy(t *testing.T) {
	body := NewBody(BODY_DYNAMIC, Vector{}, 0)
	body.AddShape(NewBox(1, 1))
	body.SetVelocity(Vector{2, 0})

	assert.InDelta(t, 0.5*body.Mass()*4, body.KineticEnergy(), 1e-9)
}

func TestBodyVisualProxy(t *testing.T) {
	var x, y, deg float64
	calls := 0

	space := NewSpace()
	body := space.CreateBody(BODY_STATIC, 1, 2, math.Pi/2)
	body.Proxy = NewVisualProxy(func(px, py, degrees float64) {
		x, y, deg = px, py, degrees
		calls++
	})

	space.Step(1.0/60.0, 1, 1, true, false)
	require.Equal(t, 1, calls)
	assert.InDelta(t, 1*PIXELS_PER_METER, x, 1e-9)
	assert.InDelta(t, 2*PIXELS_PER_METER, y, 1e-9)
	assert.InDelta(t, 90, deg, 1e-9)
}
