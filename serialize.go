package impulse

import (
	"encoding/json"
	"fmt"
)

// Snapshot format. Solver caches and sleep state are not stored, a created space starts awake.

type shapeJSON struct {
	Type ShapeType `json:"type"`

	// circle
	Offset *Vector `json:"offset,omitempty"`
	// circle and segment
	Radius float64 `json:"radius,omitempty"`
	// segment
	A *Vector `json:"a,omitempty"`
	B *Vector `json:"b,omitempty"`
	// polygon
	Verts []Vector `json:"verts,omitempty"`

	Elasticity float64 `json:"elasticity"`
	Friction   float64 `json:"friction"`
	Density    float64 `json:"density"`
}

type bodyJSON struct {
	ID              int      `json:"id"`
	Type            BodyType `json:"type"`
	Position        Vector   `json:"position"`
	Angle           float64  `json:"angle"`
	Velocity        Vector   `json:"velocity"`
	AngularVelocity float64  `json:"angularVelocity"`
	LinearDamping   float64  `json:"linearDamping,omitempty"`
	AngularDamping  float64  `json:"angularDamping,omitempty"`
	FixedRotation   bool     `json:"fixedRotation,omitempty"`
	CategoryBits    uint32   `json:"categoryBits"`
	MaskBits        uint32   `json:"maskBits"`

	Shapes []shapeJSON `json:"shapes"`
}

type jointJSON struct {
	BodyAID int `json:"bodyA"`
	BodyBID int `json:"bodyB"`
	JointDef
}

type spaceJSON struct {
	Gravity Vector  `json:"gravity"`
	Damping float64 `json:"damping"`

	SleepLinearTolerance  float64 `json:"sleepLinearTolerance"`
	SleepAngularTolerance float64 `json:"sleepAngularTolerance"`
	TimeToSleep           float64 `json:"timeToSleep"`

	Bodies []bodyJSON  `json:"bodies"`
	Joints []jointJSON `json:"joints"`
}

func encodeShape(shape *Shape) shapeJSON {
	out := shapeJSON{
		Type:       shape.kind,
		Elasticity: shape.Elasticity,
		Friction:   shape.Friction,
		Density:    shape.Density,
	}
	switch class := shape.Class.(type) {
	case *Circle:
		offset := class.Offset()
		out.Offset = &offset
		out.Radius = class.Radius()
	case *Segment:
		a, b := class.A(), class.B()
		out.A, out.B = &a, &b
		out.Radius = class.Radius()
	case *PolyShape:
		out.Verts = make([]Vector, class.Count())
		for i := range out.Verts {
			out.Verts[i] = class.Vert(i)
		}
	}
	return out
}

func decodeShape(in shapeJSON) (*Shape, error) {
	var shape *Shape
	switch in.Type {
	case SHAPE_CIRCLE:
		if in.Radius <= 0 {
			return nil, fmt.Errorf("circle radius %v must be positive", in.Radius)
		}
		var offset Vector
		if in.Offset != nil {
			offset = *in.Offset
		}
		shape = NewCircle(in.Radius, offset)
	case SHAPE_SEGMENT:
		if in.A == nil || in.B == nil {
			return nil, fmt.Errorf("segment needs both endpoints")
		}
		shape = NewSegment(*in.A, *in.B, in.Radius)
	case SHAPE_POLY:
		if len(in.Verts) < 3 {
			return nil, fmt.Errorf("polygon needs at least 3 vertices, got %d", len(in.Verts))
		}
		shape = NewPolyShape(in.Verts)
	default:
		return nil, fmt.Errorf("unknown shape type %v", in.Type)
	}

	shape.SetElasticity(in.Elasticity)
	shape.SetFriction(in.Friction)
	if in.Density > 0 {
		shape.Density = in.Density
	}
	return shape, nil
}

func (space *Space) snapshot() spaceJSON {
	out := spaceJSON{
		Gravity:               space.Gravity,
		Damping:               space.Damping,
		SleepLinearTolerance:  space.SleepLinearTolerance,
		SleepAngularTolerance: space.SleepAngularTolerance,
		TimeToSleep:           space.TimeToSleep,
		Bodies:                []bodyJSON{},
		Joints:                []jointJSON{},
	}

	for _, body := range space.Bodies() {
		b := bodyJSON{
			ID:              body.id,
			Type:            body.kind,
			Position:        body.Position(),
			Angle:           body.a,
			Velocity:        body.v,
			AngularVelocity: body.w,
			LinearDamping:   body.LinearDamping,
			AngularDamping:  body.AngularDamping,
			FixedRotation:   body.fixedRotation,
			CategoryBits:    body.CategoryBits,
			MaskBits:        body.MaskBits,
			Shapes:          make([]shapeJSON, 0, len(body.shapeList)),
		}
		for _, shape := range body.shapeList {
			b.Shapes = append(b.Shapes, encodeShape(shape))
		}
		out.Bodies = append(out.Bodies, b)
	}

	for _, joint := range space.Joints() {
		out.Joints = append(out.Joints, jointJSON{
			BodyAID:  joint.a.id,
			BodyBID:  joint.b.id,
			JointDef: joint.Def(),
		})
	}
	return out
}

// MarshalJSON writes the bodies, shapes and joints of the space. Create reads it back.
func (space *Space) MarshalJSON() ([]byte, error) {
	return json.Marshal(space.snapshot())
}

// Create builds a new Space from a snapshot written by MarshalJSON. Body ids are reassigned in
// order, joints are reconnected through the ids stored in the snapshot.
func Create(text []byte) (*Space, error) {
	var in spaceJSON
	if err := json.Unmarshal(text, &in); err != nil {
		return nil, fmt.Errorf("decoding space: %w", err)
	}

	space := NewSpace()
	space.Gravity = in.Gravity
	space.Damping = in.Damping
	if in.SleepLinearTolerance > 0 {
		space.SleepLinearTolerance = in.SleepLinearTolerance
	}
	if in.SleepAngularTolerance > 0 {
		space.SleepAngularTolerance = in.SleepAngularTolerance
	}
	if in.TimeToSleep > 0 {
		space.TimeToSleep = in.TimeToSleep
	}

	byID := make(map[int]*Body, len(in.Bodies))
	for i, b := range in.Bodies {
		if _, dup := byID[b.ID]; dup {
			return nil, fmt.Errorf("body %d: duplicate id", b.ID)
		}

		body := NewBody(b.Type, b.Position, b.Angle)
		body.LinearDamping = b.LinearDamping
		body.AngularDamping = b.AngularDamping
		body.fixedRotation = b.FixedRotation
		body.CategoryBits = b.CategoryBits
		body.MaskBits = b.MaskBits

		for j, s := range b.Shapes {
			shape, err := decodeShape(s)
			if err != nil {
				return nil, fmt.Errorf("body %d shape %d: %w", i, j, err)
			}
			body.AddShape(shape)
		}

		space.AddBody(body)
		body.SetVelocity(b.Velocity)
		body.SetAngularVelocity(b.AngularVelocity)
		byID[b.ID] = body
	}

	for i, j := range in.Joints {
		def := j.JointDef
		def.BodyA = byID[j.BodyAID]
		def.BodyB = byID[j.BodyBID]
		if def.BodyA == nil || def.BodyB == nil {
			return nil, fmt.Errorf("joint %d: unknown body id %d or %d", i, j.BodyAID, j.BodyBID)
		}
		if _, err := space.CreateJoint(def); err != nil {
			return nil, fmt.Errorf("joint %d: %w", i, err)
		}
	}

	return space, nil
}
