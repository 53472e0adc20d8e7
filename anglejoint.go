package impulse

import "math"

// AngleJoint locks the relative angle of two bodies.
type AngleJoint struct {
	*Joint

	ReferenceAngle float64

	mass   float64
	lambda float64
}

func NewAngleJoint(a, b *Body) *Joint {
	return newAngleJoint(JointDef{BodyA: a, BodyB: b, ReferenceAngle: b.a - a.a})
}

func newAngleJoint(def JointDef) *Joint {
	joint := &AngleJoint{ReferenceAngle: def.ReferenceAngle}
	joint.Joint = newJoint(joint, JOINT_ANGLE, def.BodyA, def.BodyB)
	return joint.Joint
}

func (joint *AngleJoint) Anchors() (Vector, Vector) {
	return joint.a.p, joint.b.p
}

func (joint *AngleJoint) Def() JointDef {
	return JointDef{ReferenceAngle: joint.ReferenceAngle}
}

func (joint *AngleJoint) initSolver(dt float64, warmStarting bool) {
	a := joint.a
	b := joint.b

	joint.mass = invOrZero(a.i_inv + b.i_inv)

	if warmStarting {
		a.w -= joint.lambda * a.i_inv
		b.w += joint.lambda * b.i_inv
	} else {
		joint.lambda = 0
	}
}

func (joint *AngleJoint) solveVelocityConstraints() {
	a := joint.a
	b := joint.b

	cdot := b.w - a.w
	lambda := -joint.mass * cdot
	joint.lambda += lambda

	a.w -= lambda * a.i_inv
	b.w += lambda * b.i_inv
}

func (joint *AngleJoint) solvePositionConstraints() bool {
	a := joint.a
	b := joint.b

	c := b.a - a.a - joint.ReferenceAngle
	correction := Clamp(c, -MAX_ANGULAR_CORRECTION, MAX_ANGULAR_CORRECTION)
	lambda := -joint.mass * correction

	a.a -= lambda * a.i_inv
	b.a += lambda * b.i_inv

	return math.Abs(c) < ANGULAR_SLOP
}

func (joint *AngleJoint) reactionForce(dtInv float64) Vector {
	return Vector{}
}

func (joint *AngleJoint) reactionTorque(dtInv float64) float64 {
	return joint.lambda * dtInv
}
