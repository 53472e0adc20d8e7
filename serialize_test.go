package impulse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populated(t *testing.T) *Space {
	space := NewSpace()
	space.Gravity = Vector{0, -9.8}
	space.Damping = 0.1

	ground := space.CreateBody(BODY_STATIC, 0, 0, 0)
	space.AddSegmentShape(ground, Vector{-10, 0}, Vector{10, 0}, 0.1, 1)

	box := space.CreateBody(BODY_DYNAMIC, 1, 2, 0.3)
	space.AddBoxShape(box, 1, 0.5, 2).SetFriction(0.4)
	box.LinearDamping = 0.2
	box.CategoryBits = 0x4

	ball := space.CreateBody(BODY_DYNAMIC, -2, 3, 0)
	space.AddCircleShape(ball, 0.5, Vector{0.1, 0}, 1).SetElasticity(0.8)
	ball.SetVelocity(Vector{1, 0})

	hull := space.CreateBody(BODY_KINEMATIC, 4, 1, 0)
	space.AddPolygonShape(hull, []Vector{{0, 0}, {1, 0}, {0.5, 1}}, 1)

	revolute := space.AddJoint(NewRevoluteJoint(ground, box, Vector{1, 1}))
	require.NotNil(t, revolute)
	revolute.Class.(*RevoluteJoint).SetLimits(-0.5, 0.5)

	spring, err := space.CreateJoint(JointDef{
		Type:         JOINT_DISTANCE,
		BodyA:        box,
		BodyB:        ball,
		AnchorA:      Vector{0.5, 0},
		Length:       3,
		FrequencyHz:  4,
		DampingRatio: 0.5,
	})
	require.NoError(t, err)
	spring.SetBreakable(500)

	return space
}

func TestSerializeRoundTrip(t *testing.T) {
	space := populated(t)

	text, err := json.Marshal(space)
	require.NoError(t, err)

	copied, err := Create(text)
	require.NoError(t, err)

	assert.Equal(t, space.Gravity, copied.Gravity)
	assert.Equal(t, space.Damping, copied.Damping)
	require.Equal(t, space.NumBodies(), copied.NumBodies())
	require.Equal(t, space.NumJoints(), copied.NumJoints())

	for i, want := range space.Bodies() {
		got := copied.Bodies()[i]
		assert.Equal(t, want.Type(), got.Type())
		assert.True(t, want.Position().Near(got.Position(), 1e-9))
		assert.InDelta(t, want.Angle(), got.Angle(), 1e-12)
		assert.InDelta(t, want.Mass(), got.Mass(), 1e-9)
		assert.InDelta(t, want.Moment(), got.Moment(), 1e-9)
		assert.Equal(t, want.Velocity(), got.Velocity())
		assert.Equal(t, want.CategoryBits, got.CategoryBits)
		assert.Equal(t, want.LinearDamping, got.LinearDamping)

		require.Len(t, got.Shapes(), len(want.Shapes()))
		for j, shape := range want.Shapes() {
			other := got.Shapes()[j]
			assert.Equal(t, shape.Type(), other.Type())
			assert.Equal(t, shape.Elasticity, other.Elasticity)
			assert.Equal(t, shape.Friction, other.Friction)
			assert.Equal(t, shape.Density, other.Density)
			assert.InDelta(t, shape.Area(), other.Area(), 1e-12)
		}
	}

	for i, want := range space.Joints() {
		got := copied.Joints()[i]
		assert.Equal(t, want.Type(), got.Type())
		assert.Equal(t, want.BodyA().ID(), got.BodyA().ID())
		assert.Equal(t, want.BodyB().ID(), got.BodyB().ID())
		assert.Equal(t, want.Breakable, got.Breakable)
		assert.Equal(t, want.MaxForce, got.MaxForce)

		wa, wb := want.Anchors()
		ga, gb := got.Anchors()
		assert.True(t, wa.Near(ga, 1e-9))
		assert.True(t, wb.Near(gb, 1e-9))
	}

	limits := copied.Joints()[0].Class.(*RevoluteJoint)
	assert.True(t, limits.EnableLimit)
	assert.Equal(t, -0.5, limits.LowerAngle)
}

func TestSerializeFormat(t *testing.T) {
	text, err := json.Marshal(populated(t))
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(text, &doc))

	bodies := doc["bodies"].([]interface{})
	require.Len(t, bodies, 4)
	ground := bodies[0].(map[string]interface{})
	assert.Equal(t, "static", ground["type"])
	shape := ground["shapes"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "segment", shape["type"])

	joint := doc["joints"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "revolute", joint["type"])
	assert.EqualValues(t, 1, joint["bodyA"])
	assert.EqualValues(t, 2, joint["bodyB"])
}

func TestCreateErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"bad json", `{"bodies": [`},
		{"unknown body type", `{"bodies": [{"id": 1, "type": "floating", "shapes": []}]}`},
		{"unknown shape type", `{"bodies": [{"id": 1, "type": "dynamic", "shapes": [{"type": "blob"}]}]}`},
		{"short polygon", `{"bodies": [{"id": 1, "type": "dynamic", "shapes": [{"type": "polygon", "verts": [{"x": 0, "y": 0}]}]}]}`},
		{"circle without radius", `{"bodies": [{"id": 1, "type": "dynamic", "shapes": [{"type": "circle"}]}]}`},
		{"duplicate id", `{"bodies": [{"id": 1, "type": "static"}, {"id": 1, "type": "static"}]}`},
		{"unknown joint body", `{"bodies": [{"id": 1, "type": "static"}], "joints": [{"type": "weld", "bodyA": 1, "bodyB": 7}]}`},
		{"unknown joint type", `{"bodies": [{"id": 1, "type": "static"}, {"id": 2, "type": "dynamic"}], "joints": [{"type": "glue", "bodyA": 1, "bodyB": 2}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Create([]byte(tt.text))
			assert.Error(t, err)
		})
	}
}

func TestCreateEmpty(t *testing.T) {
	space, err := Create([]byte(`{}`))
	require.NoError(t, err)
	assert.Zero(t, space.NumBodies())
	assert.Equal(t, TIME_TO_SLEEP, space.TimeToSleep)
}
