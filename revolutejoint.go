package impulse

import "math"

// RevoluteJoint pins two bodies together at a shared point. The relative rotation can be limited
// and driven by a motor.
type RevoluteJoint struct {
	*Joint

	AnchorA, AnchorB Vector
	ReferenceAngle   float64

	EnableLimit            bool
	LowerAngle, UpperAngle float64

	EnableMotor    bool
	MotorSpeed     float64
	MaxMotorTorque float64

	r1, r2       Vector
	mass         Mat3x3
	axialMass    float64
	dt           float64
	impulse      Vector3
	motorImpulse float64
	limitState   limitState
}

type limitState int

const (
	limitInactive limitState = iota
	limitAtLower
	limitAtUpper
	limitEqual
)

// NewRevoluteJoint joins a and b at the world point anchor.
func NewRevoluteJoint(a, b *Body, anchor Vector) *Joint {
	return newRevoluteJoint(JointDef{
		BodyA:          a,
		BodyB:          b,
		AnchorA:        a.WorldToLocal(anchor),
		AnchorB:        b.WorldToLocal(anchor),
		ReferenceAngle: b.a - a.a,
	})
}

func newRevoluteJoint(def JointDef) *Joint {
	joint := &RevoluteJoint{
		AnchorA:        def.AnchorA,
		AnchorB:        def.AnchorB,
		ReferenceAngle: def.ReferenceAngle,
		EnableLimit:    def.EnableLimit,
		LowerAngle:     def.LowerLimit,
		UpperAngle:     def.UpperLimit,
		EnableMotor:    def.EnableMotor,
		MotorSpeed:     def.MotorSpeed,
		MaxMotorTorque: def.MaxMotorTorque,
	}
	joint.Joint = newJoint(joint, JOINT_REVOLUTE, def.BodyA, def.BodyB)
	return joint.Joint
}

func (joint *RevoluteJoint) Anchors() (Vector, Vector) {
	return joint.a.LocalToWorld(joint.AnchorA), joint.b.LocalToWorld(joint.AnchorB)
}

func (joint *RevoluteJoint) Def() JointDef {
	return JointDef{
		AnchorA:        joint.AnchorA,
		AnchorB:        joint.AnchorB,
		ReferenceAngle: joint.ReferenceAngle,
		EnableLimit:    joint.EnableLimit,
		LowerLimit:     joint.LowerAngle,
		UpperLimit:     joint.UpperAngle,
		EnableMotor:    joint.EnableMotor,
		MotorSpeed:     joint.MotorSpeed,
		MaxMotorTorque: joint.MaxMotorTorque,
	}
}

// JointAngle is the current relative angle less the reference angle.
func (joint *RevoluteJoint) JointAngle() float64 {
	return joint.b.a - joint.a.a - joint.ReferenceAngle
}

func (joint *RevoluteJoint) SetLimits(lower, upper float64) {
	check(lower <= upper, "lower limit above upper limit")
	joint.wakeBodies()
	joint.EnableLimit = true
	joint.LowerAngle = lower
	joint.UpperAngle = upper
}

func (joint *RevoluteJoint) SetMotor(speed, maxTorque float64) {
	joint.wakeBodies()
	joint.EnableMotor = true
	joint.MotorSpeed = speed
	joint.MaxMotorTorque = maxTorque
}

// revoluteMass is the point-plus-angle constraint matrix of a revolute joint.
func revoluteMass(a, b *Body, r1, r2 Vector) Mat3x3 {
	mA, mB := a.m_inv, b.m_inv
	iA, iB := a.i_inv, b.i_inv

	var k Mat3x3
	k.ex.X = mA + mB + r1.Y*r1.Y*iA + r2.Y*r2.Y*iB
	k.ey.X = -r1.Y*r1.X*iA - r2.Y*r2.X*iB
	k.ez.X = -r1.Y*iA - r2.Y*iB
	k.ex.Y = k.ey.X
	k.ey.Y = mA + mB + r1.X*r1.X*iA + r2.X*r2.X*iB
	k.ez.Y = r1.X*iA + r2.X*iB
	k.ex.Z = k.ez.X
	k.ey.Z = k.ez.Y
	k.ez.Z = iA + iB
	return k
}

func (joint *RevoluteJoint) initSolver(dt float64, warmStarting bool) {
	a := joint.a
	b := joint.b

	joint.dt = dt
	joint.r1 = anchorOffset(a, joint.AnchorA)
	joint.r2 = anchorOffset(b, joint.AnchorB)
	joint.mass = revoluteMass(a, b, joint.r1, joint.r2)

	fixedRotation := a.i_inv+b.i_inv == 0
	joint.axialMass = invOrZero(a.i_inv + b.i_inv)

	if !joint.EnableMotor || fixedRotation {
		joint.motorImpulse = 0
	}

	if joint.EnableLimit && !fixedRotation {
		angle := joint.JointAngle()
		switch {
		case math.Abs(joint.UpperAngle-joint.LowerAngle) < 2*ANGULAR_SLOP:
			joint.limitState = limitEqual
		case angle <= joint.LowerAngle:
			if joint.limitState != limitAtLower {
				joint.impulse.Z = 0
			}
			joint.limitState = limitAtLower
		case angle >= joint.UpperAngle:
			if joint.limitState != limitAtUpper {
				joint.impulse.Z = 0
			}
			joint.limitState = limitAtUpper
		default:
			joint.limitState = limitInactive
			joint.impulse.Z = 0
		}
	} else {
		joint.limitState = limitInactive
		joint.impulse.Z = 0
	}

	if warmStarting {
		p := joint.impulse.XY()
		axial := joint.motorImpulse + joint.impulse.Z
		applyBodyImpulse(a, b, p, joint.r1.Cross(p)+axial, joint.r2.Cross(p)+axial)
	} else {
		joint.impulse = Vector3{}
		joint.motorImpulse = 0
	}
}

func (joint *RevoluteJoint) solveVelocityConstraints() {
	a := joint.a
	b := joint.b
	r1 := joint.r1
	r2 := joint.r2
	fixedRotation := a.i_inv+b.i_inv == 0

	if joint.EnableMotor && joint.limitState != limitEqual && !fixedRotation {
		cdot := b.w - a.w - joint.MotorSpeed
		impulse := -joint.axialMass * cdot
		old := joint.motorImpulse
		maxImpulse := joint.dt * joint.MaxMotorTorque
		joint.motorImpulse = Clamp(old+impulse, -maxImpulse, maxImpulse)
		impulse = joint.motorImpulse - old

		a.w -= a.i_inv * impulse
		b.w += b.i_inv * impulse
	}

	if joint.limitState == limitInactive || fixedRotation {
		cdot := relativeVelocity(a, b, r1, r2)
		impulse := joint.mass.Solve22(cdot.Neg())
		joint.impulse.X += impulse.X
		joint.impulse.Y += impulse.Y

		applyBodyImpulse(a, b, impulse, r1.Cross(impulse), r2.Cross(impulse))
		return
	}

	cdot1 := relativeVelocity(a, b, r1, r2)
	cdot2 := b.w - a.w
	impulse := joint.mass.Solve33(Vector3{-cdot1.X, -cdot1.Y, -cdot2})

	// the limit only pushes, so a sign flip falls back to the point block alone
	clamped := joint.limitState == limitAtLower && joint.impulse.Z+impulse.Z < 0 ||
		joint.limitState == limitAtUpper && joint.impulse.Z+impulse.Z > 0
	if clamped {
		rhs := cdot1.Neg().Add(joint.mass.ez.XY().Mult(joint.impulse.Z))
		reduced := joint.mass.Solve22(rhs)
		impulse = Vector3{reduced.X, reduced.Y, -joint.impulse.Z}
	}
	joint.impulse = joint.impulse.Add(impulse)

	p := impulse.XY()
	applyBodyImpulse(a, b, p, r1.Cross(p)+impulse.Z, r2.Cross(p)+impulse.Z)
}

func (joint *RevoluteJoint) solvePositionConstraints() bool {
	a := joint.a
	b := joint.b

	r1 := anchorOffset(a, joint.AnchorA)
	r2 := anchorOffset(b, joint.AnchorB)
	c1 := b.p.Add(r2).Sub(a.p.Add(r1))
	positionError := c1.Length()

	angularError := 0.0
	c2 := 0.0
	active := joint.EnableLimit && joint.limitState != limitInactive && a.i_inv+b.i_inv != 0
	if active {
		angle := joint.JointAngle()
		switch joint.limitState {
		case limitEqual:
			c2 = Clamp(angle-joint.LowerAngle, -MAX_ANGULAR_CORRECTION, MAX_ANGULAR_CORRECTION)
			angularError = math.Abs(c2)
		case limitAtLower:
			c2 = angle - joint.LowerAngle
			angularError = -c2
			c2 = Clamp(c2+ANGULAR_SLOP, -MAX_ANGULAR_CORRECTION, 0)
		case limitAtUpper:
			c2 = angle - joint.UpperAngle
			angularError = c2
			c2 = Clamp(c2-ANGULAR_SLOP, 0, MAX_ANGULAR_CORRECTION)
		}
	}

	if active {
		k := revoluteMass(a, b, r1, r2)
		impulse := k.Solve33(Vector3{-c1.X, -c1.Y, -c2})
		p := impulse.XY()
		applyBodyShift(a, b, p, r1.Cross(p)+impulse.Z, r2.Cross(p)+impulse.Z)
	} else {
		impulse := k_tensor(a, b, r1, r2).Solve(c1.Neg())
		applyBodyShift(a, b, impulse, r1.Cross(impulse), r2.Cross(impulse))
	}

	return positionError <= LINEAR_SLOP && angularError <= ANGULAR_SLOP
}

func (joint *RevoluteJoint) reactionForce(dtInv float64) Vector {
	return joint.impulse.XY().Mult(dtInv)
}

func (joint *RevoluteJoint) reactionTorque(dtInv float64) float64 {
	return dtInv * (joint.motorImpulse + joint.impulse.Z)
}
