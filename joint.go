package impulse

import (
	"fmt"
	"math"
)

// joint solver tuning
const (
	LINEAR_SLOP                 = 0.0008
	ANGULAR_SLOP                = 2 * math.Pi / 180
	JOINT_MAX_LINEAR_CORRECTION = 0.5
	MAX_ANGULAR_CORRECTION      = 8 * math.Pi / 180
)

// Jointer is the variant specific half of a Joint.
type Jointer interface {
	// Anchors returns the world anchor on each body.
	Anchors() (Vector, Vector)
	// Def describes the joint so it can be rebuilt with NewJoint.
	Def() JointDef

	initSolver(dt float64, warmStarting bool)
	solveVelocityConstraints()
	solvePositionConstraints() bool
	reactionForce(dtInv float64) Vector
	reactionTorque(dtInv float64) float64
}

type Joint struct {
	Class Jointer

	kind   JointType
	id     int
	handle Handle

	a, b   *Body
	h1, h2 Handle

	CollideConnected bool
	Breakable        bool
	MaxForce         float64

	UserData interface{}
}

func newJoint(class Jointer, kind JointType, a, b *Body) *Joint {
	return &Joint{
		Class:    class,
		kind:     kind,
		a:        a,
		b:        b,
		MaxForce: INFINITY,
	}
}

func (j *Joint) String() string {
	return fmt.Sprintf("%v joint %d", j.kind, j.id)
}

func (j *Joint) Type() JointType {
	return j.kind
}

func (j *Joint) ID() int {
	return j.id
}

func (j *Joint) Handle() Handle {
	return j.handle
}

func (j *Joint) BodyA() *Body {
	return j.a
}

func (j *Joint) BodyB() *Body {
	return j.b
}

func (j *Joint) Anchors() (Vector, Vector) {
	return j.Class.Anchors()
}

func (j *Joint) Def() JointDef {
	def := j.Class.Def()
	def.Type = j.kind
	def.BodyA = j.a
	def.BodyB = j.b
	def.CollideConnected = j.CollideConnected
	def.Breakable = j.Breakable
	def.MaxForce = j.MaxForce
	return def
}

// ReactionForce is the constraint force applied to body B during the last step.
func (j *Joint) ReactionForce(dtInv float64) Vector {
	return j.Class.reactionForce(dtInv)
}

func (j *Joint) ReactionTorque(dtInv float64) float64 {
	return j.Class.reactionTorque(dtInv)
}

// SetBreakable makes the joint break once its reaction force reaches maxForce. A non-positive
// maxForce is ignored and the joint keeps its current setting.
func (j *Joint) SetBreakable(maxForce float64) {
	if maxForce <= 0 {
		logger.Warn("ignoring non-positive joint break force", "joint", j.id, "maxForce", maxForce)
		return
	}
	j.Breakable = true
	j.MaxForce = maxForce
}

func (j *Joint) wakeBodies() {
	j.a.Awake(true)
	j.b.Awake(true)
}

func (j *Joint) other(body *Body) *Body {
	if j.a == body {
		return j.b
	}
	return j.a
}

// JointDef holds every parameter of every joint variant. Anchors are in body space relative to
// the body origin, and Axis is in body A's space.
type JointDef struct {
	Type         JointType `json:"type"`
	BodyA, BodyB *Body     `json:"-"`

	AnchorA        Vector  `json:"anchorA"`
	AnchorB        Vector  `json:"anchorB"`
	Axis           Vector  `json:"axis,omitempty"`
	ReferenceAngle float64 `json:"referenceAngle,omitempty"`
	Length         float64 `json:"length,omitempty"`

	FrequencyHz  float64 `json:"frequencyHz,omitempty"`
	DampingRatio float64 `json:"dampingRatio,omitempty"`

	EnableLimit bool    `json:"enableLimit,omitempty"`
	LowerLimit  float64 `json:"lowerLimit,omitempty"`
	UpperLimit  float64 `json:"upperLimit,omitempty"`

	EnableMotor    bool    `json:"enableMotor,omitempty"`
	MotorSpeed     float64 `json:"motorSpeed,omitempty"`
	MaxMotorTorque float64 `json:"maxMotorTorque,omitempty"`
	MaxMotorForce  float64 `json:"maxMotorForce,omitempty"`

	CollideConnected bool    `json:"collideConnected,omitempty"`
	Breakable        bool    `json:"breakable,omitempty"`
	MaxForce         float64 `json:"maxForce,omitempty"`
}

// NewJoint builds a detached joint from def. It returns an error for a missing or shared body and
// for an unknown type.
func NewJoint(def JointDef) (*Joint, error) {
	if def.BodyA == nil || def.BodyB == nil {
		return nil, fmt.Errorf("%v joint needs two bodies", def.Type)
	}
	if def.BodyA == def.BodyB {
		return nil, fmt.Errorf("%v joint connects body %d to itself", def.Type, def.BodyA.id)
	}

	var joint *Joint
	switch def.Type {
	case JOINT_ANGLE:
		joint = newAngleJoint(def)
	case JOINT_REVOLUTE:
		joint = newRevoluteJoint(def)
	case JOINT_WELD:
		joint = newWeldJoint(def)
	case JOINT_WHEEL:
		joint = newWheelJoint(def)
	case JOINT_PRISMATIC:
		joint = newPrismaticJoint(def)
	case JOINT_DISTANCE:
		joint = newDistanceJoint(def)
	case JOINT_ROPE:
		joint = newRopeJoint(def)
	case JOINT_MOUSE:
		joint = newMouseJoint(def)
	default:
		return nil, fmt.Errorf("unknown joint type %v", def.Type)
	}

	joint.CollideConnected = def.CollideConnected
	if def.Breakable {
		joint.SetBreakable(def.MaxForce)
	}
	return joint, nil
}

// anchorOffset rotates a body space anchor into a world offset from the center of mass.
func anchorOffset(body *Body, anchor Vector) Vector {
	return anchor.Sub(body.centroid).Rotate(ForAngle(body.a))
}

// softness converts a spring frequency and damping ratio into the constraint mixing term gamma
// and the position feedback factor beta.
func softness(mass, frequencyHz, dampingRatio, dt float64) (gamma, beta float64) {
	omega := 2 * math.Pi * frequencyHz
	d := 2 * mass * dampingRatio * omega
	k := mass * omega * omega

	gamma = invOrZero(dt * (d + dt*k))
	beta = dt * k * gamma
	return
}

// applyBodyImpulse pushes the bodies apart along p with angular parts la and lb.
func applyBodyImpulse(a, b *Body, p Vector, la, lb float64) {
	a.v = a.v.MultAdd(p, -a.m_inv)
	a.w -= a.i_inv * la
	b.v = b.v.MultAdd(p, b.m_inv)
	b.w += b.i_inv * lb
}

// applyBodyShift is the position solver version of applyBodyImpulse.
func applyBodyShift(a, b *Body, p Vector, la, lb float64) {
	a.p = a.p.MultAdd(p, -a.m_inv)
	a.a -= a.i_inv * la
	b.p = b.p.MultAdd(p, b.m_inv)
	b.a += b.i_inv * lb
}

// pointShift solves one position iteration of a coincident point constraint and returns the
// remaining error.
func pointShift(a, b *Body, anchorA, anchorB Vector) float64 {
	r1 := anchorOffset(a, anchorA)
	r2 := anchorOffset(b, anchorB)

	c := b.p.Add(r2).Sub(a.p.Add(r1))
	positionError := c.Length()

	k := k_tensor(a, b, r1, r2)
	impulse := k.Solve(c).Neg()

	applyBodyShift(a, b, impulse, r1.Cross(impulse), r2.Cross(impulse))
	return positionError
}
