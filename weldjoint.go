package impulse

import "math"

// WeldJoint glues two bodies together. A positive FrequencyHz makes the angular part springy.
type WeldJoint struct {
	*Joint

	AnchorA, AnchorB Vector
	ReferenceAngle   float64
	FrequencyHz      float64
	DampingRatio     float64

	r1, r2         Vector
	angularMass    float64
	gamma, bias    float64
	linearImpulse  Vector
	angularImpulse float64
}

func NewWeldJoint(a, b *Body, anchor Vector) *Joint {
	return newWeldJoint(JointDef{
		BodyA:          a,
		BodyB:          b,
		AnchorA:        a.WorldToLocal(anchor),
		AnchorB:        b.WorldToLocal(anchor),
		ReferenceAngle: b.a - a.a,
	})
}

func newWeldJoint(def JointDef) *Joint {
	joint := &WeldJoint{
		AnchorA:        def.AnchorA,
		AnchorB:        def.AnchorB,
		ReferenceAngle: def.ReferenceAngle,
		FrequencyHz:    def.FrequencyHz,
		DampingRatio:   def.DampingRatio,
	}
	joint.Joint = newJoint(joint, JOINT_WELD, def.BodyA, def.BodyB)
	return joint.Joint
}

func (joint *WeldJoint) Anchors() (Vector, Vector) {
	return joint.a.LocalToWorld(joint.AnchorA), joint.b.LocalToWorld(joint.AnchorB)
}

func (joint *WeldJoint) Def() JointDef {
	return JointDef{
		AnchorA:        joint.AnchorA,
		AnchorB:        joint.AnchorB,
		ReferenceAngle: joint.ReferenceAngle,
		FrequencyHz:    joint.FrequencyHz,
		DampingRatio:   joint.DampingRatio,
	}
}

func (joint *WeldJoint) initSolver(dt float64, warmStarting bool) {
	a := joint.a
	b := joint.b

	joint.r1 = anchorOffset(a, joint.AnchorA)
	joint.r2 = anchorOffset(b, joint.AnchorB)

	invI := a.i_inv + b.i_inv
	joint.gamma = 0
	joint.bias = 0
	if joint.FrequencyHz > 0 && invI > 0 {
		gamma, beta := softness(1/invI, joint.FrequencyHz, joint.DampingRatio, dt)
		joint.gamma = gamma
		joint.bias = (b.a - a.a - joint.ReferenceAngle) * beta
		invI += gamma
	}
	joint.angularMass = invOrZero(invI)

	if warmStarting {
		p := joint.linearImpulse
		applyBodyImpulse(a, b, p,
			joint.r1.Cross(p)+joint.angularImpulse,
			joint.r2.Cross(p)+joint.angularImpulse,
		)
	} else {
		joint.linearImpulse = Vector{}
		joint.angularImpulse = 0
	}
}

func (joint *WeldJoint) solveVelocityConstraints() {
	a := joint.a
	b := joint.b

	// angular first so the point constraint has the last word
	cdot2 := b.w - a.w
	impulse2 := -joint.angularMass * (cdot2 + joint.bias + joint.gamma*joint.angularImpulse)
	joint.angularImpulse += impulse2
	a.w -= a.i_inv * impulse2
	b.w += b.i_inv * impulse2

	r1 := joint.r1
	r2 := joint.r2
	cdot1 := relativeVelocity(a, b, r1, r2)
	impulse1 := k_tensor(a, b, r1, r2).Solve(cdot1.Neg())
	joint.linearImpulse = joint.linearImpulse.Add(impulse1)

	applyBodyImpulse(a, b, impulse1, r1.Cross(impulse1), r2.Cross(impulse1))
}

func (joint *WeldJoint) solvePositionConstraints() bool {
	a := joint.a
	b := joint.b

	angularError := 0.0
	if joint.FrequencyHz <= 0 {
		c := b.a - a.a - joint.ReferenceAngle
		angularError = math.Abs(c)

		correction := Clamp(c, -MAX_ANGULAR_CORRECTION, MAX_ANGULAR_CORRECTION)
		impulse := -invOrZero(a.i_inv+b.i_inv) * correction
		a.a -= a.i_inv * impulse
		b.a += b.i_inv * impulse
	}

	positionError := pointShift(a, b, joint.AnchorA, joint.AnchorB)

	return positionError <= LINEAR_SLOP && angularError <= ANGULAR_SLOP
}

func (joint *WeldJoint) reactionForce(dtInv float64) Vector {
	return joint.linearImpulse.Mult(dtInv)
}

func (joint *WeldJoint) reactionTorque(dtInv float64) float64 {
	return joint.angularImpulse * dtInv
}
