package impulse

import "math"

// WheelJoint keeps body B's anchor on a line through body A's anchor. A spring along the line
// acts as suspension and an optional motor spins body B.
type WheelJoint struct {
	*Joint

	AnchorA, AnchorB Vector
	// line direction in body A space
	Axis Vector

	FrequencyHz  float64
	DampingRatio float64

	EnableMotor    bool
	MotorSpeed     float64
	MaxMotorTorque float64

	r1, r2   Vector
	ax, ay   Vector
	sAx, sBx float64
	sAy, sBy float64

	mass, motorMass, springMass float64
	gamma, bias                 float64
	dt                          float64

	impulse       float64
	motorImpulse  float64
	springImpulse float64
}

// NewWheelJoint attaches wheel b to chassis a at the world point anchor, suspended along the
// world direction axis.
func NewWheelJoint(a, b *Body, anchor, axis Vector) *Joint {
	return newWheelJoint(JointDef{
		BodyA:        a,
		BodyB:        b,
		AnchorA:      a.WorldToLocal(anchor),
		AnchorB:      b.WorldToLocal(anchor),
		Axis:         a.transform.Unvect(axis),
		FrequencyHz:  2,
		DampingRatio: 0.7,
	})
}

func newWheelJoint(def JointDef) *Joint {
	axis := def.Axis.Normalize()
	if axis == (Vector{}) {
		axis = Vector{0, 1}
	}
	joint := &WheelJoint{
		AnchorA:        def.AnchorA,
		AnchorB:        def.AnchorB,
		Axis:           axis,
		FrequencyHz:    def.FrequencyHz,
		DampingRatio:   def.DampingRatio,
		EnableMotor:    def.EnableMotor,
		MotorSpeed:     def.MotorSpeed,
		MaxMotorTorque: def.MaxMotorTorque,
	}
	joint.Joint = newJoint(joint, JOINT_WHEEL, def.BodyA, def.BodyB)
	return joint.Joint
}

func (joint *WheelJoint) Anchors() (Vector, Vector) {
	return joint.a.LocalToWorld(joint.AnchorA), joint.b.LocalToWorld(joint.AnchorB)
}

func (joint *WheelJoint) Def() JointDef {
	return JointDef{
		AnchorA:        joint.AnchorA,
		AnchorB:        joint.AnchorB,
		Axis:           joint.Axis,
		FrequencyHz:    joint.FrequencyHz,
		DampingRatio:   joint.DampingRatio,
		EnableMotor:    joint.EnableMotor,
		MotorSpeed:     joint.MotorSpeed,
		MaxMotorTorque: joint.MaxMotorTorque,
	}
}

func (joint *WheelJoint) SetMotor(speed, maxTorque float64) {
	joint.wakeBodies()
	joint.EnableMotor = true
	joint.MotorSpeed = speed
	joint.MaxMotorTorque = maxTorque
}

func (joint *WheelJoint) initSolver(dt float64, warmStarting bool) {
	a := joint.a
	b := joint.b

	joint.dt = dt
	joint.r1 = anchorOffset(a, joint.AnchorA)
	joint.r2 = anchorOffset(b, joint.AnchorB)
	d := b.p.Add(joint.r2).Sub(a.p.Add(joint.r1))
	rot := ForAngle(a.a)

	// point to line
	joint.ay = joint.Axis.Perp().Rotate(rot)
	joint.sAy = d.Add(joint.r1).Cross(joint.ay)
	joint.sBy = joint.r2.Cross(joint.ay)
	joint.mass = invOrZero(a.m_inv + b.m_inv + a.i_inv*joint.sAy*joint.sAy + b.i_inv*joint.sBy*joint.sBy)

	// suspension
	joint.ax = joint.Axis.Rotate(rot)
	joint.sAx = d.Add(joint.r1).Cross(joint.ax)
	joint.sBx = joint.r2.Cross(joint.ax)
	invMass := a.m_inv + b.m_inv + a.i_inv*joint.sAx*joint.sAx + b.i_inv*joint.sBx*joint.sBx

	joint.springMass = 0
	joint.gamma = 0
	joint.bias = 0
	if joint.FrequencyHz > 0 && invMass > 0 {
		gamma, beta := softness(1/invMass, joint.FrequencyHz, joint.DampingRatio, dt)
		joint.gamma = gamma
		joint.bias = d.Dot(joint.ax) * beta
		joint.springMass = invOrZero(invMass + gamma)
	} else {
		joint.springImpulse = 0
	}

	if joint.EnableMotor {
		joint.motorMass = invOrZero(a.i_inv + b.i_inv)
	} else {
		joint.motorMass = 0
		joint.motorImpulse = 0
	}

	if warmStarting {
		p := joint.ay.Mult(joint.impulse).Add(joint.ax.Mult(joint.springImpulse))
		la := joint.impulse*joint.sAy + joint.springImpulse*joint.sAx + joint.motorImpulse
		lb := joint.impulse*joint.sBy + joint.springImpulse*joint.sBx + joint.motorImpulse
		applyBodyImpulse(a, b, p, la, lb)
	} else {
		joint.impulse = 0
		joint.springImpulse = 0
		joint.motorImpulse = 0
	}
}

func (joint *WheelJoint) solveVelocityConstraints() {
	a := joint.a
	b := joint.b

	// spring
	{
		cdot := joint.ax.Dot(b.v.Sub(a.v)) + joint.sBx*b.w - joint.sAx*a.w
		impulse := -joint.springMass * (cdot + joint.bias + joint.gamma*joint.springImpulse)
		joint.springImpulse += impulse

		applyBodyImpulse(a, b, joint.ax.Mult(impulse), impulse*joint.sAx, impulse*joint.sBx)
	}

	// motor
	if joint.EnableMotor {
		cdot := b.w - a.w - joint.MotorSpeed
		impulse := -joint.motorMass * cdot
		old := joint.motorImpulse
		maxImpulse := joint.dt * joint.MaxMotorTorque
		joint.motorImpulse = Clamp(old+impulse, -maxImpulse, maxImpulse)
		impulse = joint.motorImpulse - old

		a.w -= a.i_inv * impulse
		b.w += b.i_inv * impulse
	}

	// point to line
	{
		cdot := joint.ay.Dot(b.v.Sub(a.v)) + joint.sBy*b.w - joint.sAy*a.w
		impulse := -joint.mass * cdot
		joint.impulse += impulse

		applyBodyImpulse(a, b, joint.ay.Mult(impulse), impulse*joint.sAy, impulse*joint.sBy)
	}
}

func (joint *WheelJoint) solvePositionConstraints() bool {
	a := joint.a
	b := joint.b

	r1 := anchorOffset(a, joint.AnchorA)
	r2 := anchorOffset(b, joint.AnchorB)
	d := b.p.Add(r2).Sub(a.p.Add(r1))

	ay := joint.Axis.Perp().Rotate(ForAngle(a.a))
	sAy := d.Add(r1).Cross(ay)
	sBy := r2.Cross(ay)

	c := d.Dot(ay)
	k := a.m_inv + b.m_inv + a.i_inv*sAy*sAy + b.i_inv*sBy*sBy

	impulse := 0.0
	if k != 0 {
		impulse = -c / k
	}

	applyBodyShift(a, b, ay.Mult(impulse), impulse*sAy, impulse*sBy)

	return math.Abs(c) <= LINEAR_SLOP
}

func (joint *WheelJoint) reactionForce(dtInv float64) Vector {
	return joint.ay.Mult(joint.impulse).Add(joint.ax.Mult(joint.springImpulse)).Mult(dtInv)
}

func (joint *WheelJoint) reactionTorque(dtInv float64) float64 {
	return joint.motorImpulse * dtInv
}
