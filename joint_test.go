package impulse

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pendulum hangs a small box one meter right of a static pivot at the origin.
func pendulum(t *testing.T, join func(ground, bob *Body) *Joint) (*Space, *Body, *Joint) {
	space := NewSpace()
	ground := space.CreateBody(BODY_STATIC, 0, 0, 0)
	bob := space.CreateBody(BODY_DYNAMIC, 1, 0, 0)
	space.AddBoxShape(bob, 0.25, 0.25, 1)

	joint := space.AddJoint(join(ground, bob))
	require.NotNil(t, joint)
	return space, bob, joint
}

func TestRevoluteJointHoldsAnchors(t *testing.T) {
	space, bob, joint := pendulum(t, func(ground, bob *Body) *Joint {
		return NewRevoluteJoint(ground, bob, Vector{})
	})

	lowest := 0.0
	for i := 0; i < 120; i++ {
		space.Step(dt, 10, 8, true, true)
		lowest = math.Min(lowest, bob.Position().Y)
	}

	a, b := joint.Anchors()
	assert.Less(t, a.Distance(b), 0.01)
	assert.InDelta(t, 1, bob.Position().Length(), 0.02)
	assert.Less(t, lowest, -0.95, "the bob swung through the bottom")
}

func TestRevoluteJointLimits(t *testing.T) {
	for _, arm := range []struct {
		name   string
		length float64
		size   float64
		steps  int
	}{
		{"short arm", 1, 0.25, 120},
		{"long arm light bob", 2, 0.1, 240},
	} {
		t.Run(arm.name, func(t *testing.T) {
			space := NewSpace()
			ground := space.CreateBody(BODY_STATIC, 0, 0, 0)
			bob := space.CreateBody(BODY_DYNAMIC, arm.length, 0, 0)
			space.AddBoxShape(bob, arm.size, arm.size, 1)

			joint := space.AddJoint(NewRevoluteJoint(ground, bob, Vector{}))
			require.NotNil(t, joint)
			revolute := joint.Class.(*RevoluteJoint)
			revolute.SetLimits(-0.1, 0.1)

			lowest := 0.0
			for i := 0; i < arm.steps; i++ {
				space.Step(dt, 10, 8, true, true)
				angle := revolute.JointAngle()
				lowest = math.Min(lowest, angle)
				require.GreaterOrEqual(t, angle, -0.1-0.05, "step %d", i)
				require.LessOrEqual(t, angle, 0.1+0.05, "step %d", i)
			}
			assert.Less(t, lowest, -0.09, "the bob came to rest on the lower limit")

			a, b := joint.Anchors()
			assert.Less(t, a.Distance(b), 0.01)
		})
	}
}

func TestRevoluteJointLimitTorque(t *testing.T) {
	space, bob, joint := pendulum(t, func(ground, bob *Body) *Joint {
		return NewRevoluteJoint(ground, bob, Vector{})
	})
	revolute := joint.Class.(*RevoluteJoint)
	revolute.SetLimits(-0.1, 0.1)

	step(space, 120)
	// resting on the lower limit, the limit holds the bob up against gravity
	torque := joint.ReactionTorque(1 / dt)
	assert.Greater(t, torque, 0.0)
	assert.InDelta(t, bob.Mass()*10*math.Cos(0.1), torque, bob.Mass()*10*0.2)
}

func TestRevoluteJointMotor(t *testing.T) {
	space := NewSpace()
	space.Gravity = Vector{}
	ground := space.CreateBody(BODY_STATIC, 0, 0, 0)
	wheel := space.CreateBody(BODY_DYNAMIC, 0, 0, 0)
	space.AddCircleShape(wheel, 0.5, Vector{}, 1)

	joint := space.AddJoint(NewRevoluteJoint(ground, wheel, Vector{}))
	require.NotNil(t, joint)
	joint.Class.(*RevoluteJoint).SetMotor(2, 1000)

	step(space, 60)
	assert.InDelta(t, 2, wheel.AngularVelocity(), 0.01)
	assert.True(t, wheel.WorldCenter().Near(Vector{}, 0.01))
}

func TestDistanceJointKeepsLength(t *testing.T) {
	space, bob, joint := pendulum(t, func(ground, bob *Body) *Joint {
		return NewDistanceJoint(ground, bob, Vector{}, Vector{1, 0})
	})

	lowest := 0.0
	for i := 0; i < 120; i++ {
		space.Step(dt, 10, 8, true, true)
		lowest = math.Min(lowest, bob.Position().Y)
	}

	a, b := joint.Anchors()
	assert.InDelta(t, 1, a.Distance(b), 0.01)
	assert.Less(t, lowest, -0.95)
}

func TestDistanceJointReactionForce(t *testing.T) {
	space := NewSpace()
	ground := space.CreateBody(BODY_STATIC, 0, 0, 0)
	weight := space.CreateBody(BODY_DYNAMIC, 0, -1, 0)
	space.AddCircleShape(weight, 0.25, Vector{}, 1)
	joint := space.AddJoint(NewDistanceJoint(ground, weight, Vector{}, Vector{0, -1}))
	require.NotNil(t, joint)

	for i := 0; i < 60; i++ {
		space.Step(dt, 10, 8, true, false)
	}

	f := joint.ReactionForce(1 / dt)
	assert.InDelta(t, weight.Mass()*10, f.Length(), weight.Mass()*0.5)
}

func TestRopeJointCapsDistance(t *testing.T) {
	space := NewSpace()
	ground := space.CreateBody(BODY_STATIC, 0, 0, 0)
	bob := space.CreateBody(BODY_DYNAMIC, 0, -0.5, 0)
	space.AddCircleShape(bob, 0.1, Vector{}, 1)

	joint, err := space.CreateJoint(JointDef{
		Type:    JOINT_ROPE,
		BodyA:   ground,
		BodyB:   bob,
		AnchorA: Vector{},
		AnchorB: Vector{},
		Length:  1,
	})
	require.NoError(t, err)

	// slack at first, the bob falls freely
	space.Step(dt, 10, 8, true, false)
	assert.Less(t, bob.Velocity().Y, 0.0)

	for i := 0; i < 120; i++ {
		space.Step(dt, 10, 8, true, false)
		a, b := joint.Anchors()
		require.LessOrEqual(t, a.Distance(b), 1.02, "step %d", i)
	}
	a, b := joint.Anchors()
	assert.Greater(t, a.Distance(b), 0.95)
}

func TestWeldJointHolds(t *testing.T) {
	space := NewSpace()
	ground := space.CreateBody(BODY_STATIC, 0, 0, 0)
	beam := space.CreateBody(BODY_DYNAMIC, 1, 0, 0)
	space.AddBoxShape(beam, 2, 0.2, 1)
	require.NotNil(t, space.AddJoint(NewWeldJoint(ground, beam, Vector{})))

	step(space, 60)

	assert.True(t, beam.Position().Near(Vector{1, 0}, 0.05), "position %v", beam.Position())
	assert.InDelta(t, 0, beam.Angle(), 0.05)
}

func TestPrismaticJointSlides(t *testing.T) {
	space := NewSpace()
	space.Gravity = Vector{3, -10}
	ground := space.CreateBody(BODY_STATIC, 0, 0, 0)
	slider := space.CreateBody(BODY_DYNAMIC, 0, 0, 0)
	space.AddBoxShape(slider, 0.5, 0.5, 1)

	joint := space.AddJoint(NewPrismaticJoint(ground, slider, Vector{}, Vector{1, 0}))
	require.NotNil(t, joint)
	prismatic := joint.Class.(*PrismaticJoint)
	prismatic.SetLimits(-1, 0.5)

	for i := 0; i < 120; i++ {
		space.Step(dt, 10, 8, true, false)
		require.LessOrEqual(t, prismatic.Translation(), 0.55, "step %d", i)
	}

	p := slider.Position()
	assert.InDelta(t, 0.5, p.X, 0.05)
	assert.InDelta(t, 0, p.Y, 0.01)
	assert.InDelta(t, 0, slider.Angle(), 0.01)
}

func TestWheelJoint(t *testing.T) {
	space := NewSpace()
	space.Gravity = Vector{5, -10}
	chassis := space.CreateBody(BODY_STATIC, 0, 0, 0)
	wheel := space.CreateBody(BODY_DYNAMIC, 0, 0, 0)
	space.AddCircleShape(wheel, 0.5, Vector{}, 1)

	joint := space.AddJoint(NewWheelJoint(chassis, wheel, Vector{}, Vector{0, 1}))
	require.NotNil(t, joint)
	joint.Class.(*WheelJoint).SetMotor(3, 1000)

	step(space, 120)

	p := wheel.Position()
	assert.InDelta(t, 0, p.X, 0.01, "the wheel stays on its axis")
	assert.Less(t, p.Y, 0.0, "the suspension sags")
	assert.InDelta(t, 3, wheel.AngularVelocity(), 0.05)
}

func TestAngleJoint(t *testing.T) {
	space := NewSpace()
	space.Gravity = Vector{}
	ground := space.CreateBody(BODY_STATIC, 0, 0, 0)
	spinner := space.CreateBody(BODY_DYNAMIC, 3, 0, 0)
	space.AddBoxShape(spinner, 1, 1, 1)
	require.NotNil(t, space.AddJoint(NewAngleJoint(ground, spinner)))

	spinner.SetAngularVelocity(5)
	step(space, 30)

	assert.InDelta(t, 0, spinner.Angle(), 0.01)
	assert.InDelta(t, 0, spinner.AngularVelocity(), 0.01)
}

func TestMouseJointDrags(t *testing.T) {
	space := NewSpace()
	space.Gravity = Vector{}
	ground := space.CreateBody(BODY_STATIC, 0, 0, 0)
	box := space.CreateBody(BODY_DYNAMIC, 0, 0, 0)
	space.AddBoxShape(box, 1, 1, 1)

	joint := space.AddJoint(NewMouseJoint(ground, box, Vector{}))
	require.NotNil(t, joint)
	joint.Class.(*MouseJoint).SetTarget(Vector{2, 1})

	step(space, 180)

	assert.True(t, box.Position().Near(Vector{2, 1}, 0.05), "position %v", box.Position())
}

func TestJointWakesConnectedBody(t *testing.T) {
	space := NewSpace()
	space.Gravity = Vector{}
	a := space.CreateBody(BODY_DYNAMIC, 0, 0, 0)
	space.AddCircleShape(a, 0.5, Vector{}, 1)
	b := space.CreateBody(BODY_DYNAMIC, 2, 0, 0)
	space.AddCircleShape(b, 0.5, Vector{}, 1)
	require.NotNil(t, space.AddJoint(NewDistanceJoint(a, b, Vector{0, 0}, Vector{2, 0})))

	step(space, 60)
	require.False(t, a.IsAwake())
	require.False(t, b.IsAwake())

	a.ApplyLinearImpulse(Vector{-1, 0}, a.WorldCenter())
	require.False(t, b.IsAwake())

	space.Step(dt, 10, 8, true, true)
	assert.True(t, b.IsAwake())
	assert.Less(t, b.Velocity().X, 0.0, "the joint pulled b along")
}

func TestJointBreaks(t *testing.T) {
	space := NewSpace()
	ground := space.CreateBody(BODY_STATIC, 0, 0, 0)
	bob := space.CreateBody(BODY_DYNAMIC, 0, -1, 0)
	space.AddBoxShape(bob, 0.25, 0.25, 1)

	// hanging straight down, the pivot carries the whole weight
	joint, err := space.CreateJoint(JointDef{
		Type:      JOINT_REVOLUTE,
		BodyA:     ground,
		BodyB:     bob,
		AnchorA:   Vector{},
		AnchorB:   Vector{0, 1},
		Breakable: true,
		MaxForce:  0.3,
	})
	require.NoError(t, err)
	require.True(t, joint.Breakable)
	require.Greater(t, bob.Mass()*10, 0.3)

	var broken *Joint
	space.OnJointBreak = func(space *Space, joint *Joint) {
		broken = joint
	}

	space.Step(dt, 10, 8, true, false)
	assert.Zero(t, space.NumJoints())
	assert.True(t, joint.Handle().IsNil())
	assert.Same(t, joint, broken)
}

func TestJointHoldsBelowBreakForce(t *testing.T) {
	space := NewSpace()
	ground := space.CreateBody(BODY_STATIC, 0, 0, 0)
	bob := space.CreateBody(BODY_DYNAMIC, 0, -1, 0)
	space.AddBoxShape(bob, 0.25, 0.25, 1)

	joint, err := space.CreateJoint(JointDef{
		Type:      JOINT_REVOLUTE,
		BodyA:     ground,
		BodyB:     bob,
		AnchorB:   Vector{0, 1},
		Breakable: true,
		MaxForce:  bob.Mass() * 20,
	})
	require.NoError(t, err)

	step(space, 30)
	assert.Equal(t, 1, space.NumJoints())
	assert.False(t, joint.Handle().IsNil())
}

func TestJointRejectsNonPositiveBreakForce(t *testing.T) {
	space, _, joint := pendulum(t, func(ground, bob *Body) *Joint {
		j, err := NewJoint(JointDef{
			Type:      JOINT_REVOLUTE,
			BodyA:     ground,
			BodyB:     bob,
			AnchorB:   Vector{-1, 0},
			Breakable: true,
		})
		require.NoError(t, err)
		return j
	})
	assert.False(t, joint.Breakable)
	assert.Equal(t, INFINITY, joint.MaxForce)

	joint.SetBreakable(0)
	assert.False(t, joint.Breakable)
	joint.SetBreakable(-1)
	assert.False(t, joint.Breakable)

	step(space, 10)
	assert.Equal(t, 1, space.NumJoints())

	joint.SetBreakable(2)
	assert.True(t, joint.Breakable)
	assert.Equal(t, 2.0, joint.MaxForce)
}

func TestJointUnbreakableByDefault(t *testing.T) {
	space, _, joint := pendulum(t, func(ground, bob *Body) *Joint {
		return NewRevoluteJoint(ground, bob, Vector{})
	})
	assert.False(t, joint.Breakable)
	assert.Equal(t, INFINITY, joint.MaxForce)

	step(space, 10)
	assert.Equal(t, 1, space.NumJoints())
}

func TestSoftness(t *testing.T) {
	gamma, beta := softness(1, 0, 0.7, dt)
	assert.Zero(t, gamma)
	assert.Zero(t, beta)

	gamma, beta = softness(2, 5, 0.7, dt)
	assert.Greater(t, gamma, 0.0)
	assert.Greater(t, beta, 0.0)
	assert.Less(t, beta, 1/dt)
	assert.False(t, math.IsNaN(gamma))
}
