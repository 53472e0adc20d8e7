package impulse

import "math"

// RopeJoint caps the distance between two anchors. The bodies may come closer freely.
type RopeJoint struct {
	*Joint

	AnchorA, AnchorB Vector
	MaxLength        float64

	r1, r2  Vector
	u       Vector
	length  float64
	mass    float64
	dtInv   float64
	impulse float64
}

// NewRopeJoint ties the world points anchor1 and anchor2 with a rope of their current distance.
func NewRopeJoint(a, b *Body, anchor1, anchor2 Vector) *Joint {
	return newRopeJoint(JointDef{
		BodyA:   a,
		BodyB:   b,
		AnchorA: a.WorldToLocal(anchor1),
		AnchorB: b.WorldToLocal(anchor2),
		Length:  anchor1.Distance(anchor2),
	})
}

func newRopeJoint(def JointDef) *Joint {
	joint := &RopeJoint{
		AnchorA:   def.AnchorA,
		AnchorB:   def.AnchorB,
		MaxLength: math.Max(def.Length, LINEAR_SLOP),
	}
	joint.Joint = newJoint(joint, JOINT_ROPE, def.BodyA, def.BodyB)
	return joint.Joint
}

func (joint *RopeJoint) Anchors() (Vector, Vector) {
	return joint.a.LocalToWorld(joint.AnchorA), joint.b.LocalToWorld(joint.AnchorB)
}

func (joint *RopeJoint) Def() JointDef {
	return JointDef{
		AnchorA: joint.AnchorA,
		AnchorB: joint.AnchorB,
		Length:  joint.MaxLength,
	}
}

// Taut reports whether the rope was at full length at the start of the step.
func (joint *RopeJoint) Taut() bool {
	return joint.length-joint.MaxLength > 0
}

func (joint *RopeJoint) initSolver(dt float64, warmStarting bool) {
	a := joint.a
	b := joint.b

	joint.dtInv = 1 / dt
	joint.r1 = anchorOffset(a, joint.AnchorA)
	joint.r2 = anchorOffset(b, joint.AnchorB)
	joint.u, joint.length = separation(a, b, joint.r1, joint.r2)

	if joint.u == (Vector{}) {
		joint.mass = 0
		joint.impulse = 0
		return
	}

	joint.mass = invOrZero(k_scalar(a, b, joint.r1, joint.r2, joint.u))

	if warmStarting {
		p := joint.u.Mult(joint.impulse)
		applyBodyImpulse(a, b, p, joint.r1.Cross(p), joint.r2.Cross(p))
	} else {
		joint.impulse = 0
	}
}

func (joint *RopeJoint) solveVelocityConstraints() {
	a := joint.a
	b := joint.b

	c := joint.length - joint.MaxLength
	cdot := joint.u.Dot(relativeVelocity(a, b, joint.r1, joint.r2))

	// predictive when slack
	if c < 0 {
		cdot += joint.dtInv * c
	}

	impulse := -joint.mass * cdot
	old := joint.impulse
	joint.impulse = math.Min(0, joint.impulse+impulse)
	impulse = joint.impulse - old

	p := joint.u.Mult(impulse)
	applyBodyImpulse(a, b, p, joint.r1.Cross(p), joint.r2.Cross(p))
}

func (joint *RopeJoint) solvePositionConstraints() bool {
	a := joint.a
	b := joint.b

	r1 := anchorOffset(a, joint.AnchorA)
	r2 := anchorOffset(b, joint.AnchorB)
	u, length := separation(a, b, r1, r2)

	c := Clamp(length-joint.MaxLength, 0, JOINT_MAX_LINEAR_CORRECTION)
	impulse := -invOrZero(k_scalar(a, b, r1, r2, u)) * c

	p := u.Mult(impulse)
	applyBodyShift(a, b, p, r1.Cross(p), r2.Cross(p))

	return length-joint.MaxLength < LINEAR_SLOP
}

func (joint *RopeJoint) reactionForce(dtInv float64) Vector {
	return joint.u.Mult(joint.impulse * dtInv)
}

func (joint *RopeJoint) reactionTorque(dtInv float64) float64 {
	return 0
}
