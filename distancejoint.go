package impulse

import "math"

// DistanceJoint holds two anchors at a fixed distance. A positive FrequencyHz turns it into a
// damped spring.
type DistanceJoint struct {
	*Joint

	AnchorA, AnchorB Vector
	Length           float64
	FrequencyHz      float64
	DampingRatio     float64

	r1, r2      Vector
	u           Vector
	mass        float64
	gamma, bias float64
	impulse     float64
}

// NewDistanceJoint keeps the current distance between the world points anchor1 and anchor2.
func NewDistanceJoint(a, b *Body, anchor1, anchor2 Vector) *Joint {
	return newDistanceJoint(JointDef{
		BodyA:   a,
		BodyB:   b,
		AnchorA: a.WorldToLocal(anchor1),
		AnchorB: b.WorldToLocal(anchor2),
		Length:  anchor1.Distance(anchor2),
	})
}

func newDistanceJoint(def JointDef) *Joint {
	joint := &DistanceJoint{
		AnchorA:      def.AnchorA,
		AnchorB:      def.AnchorB,
		Length:       math.Max(def.Length, LINEAR_SLOP),
		FrequencyHz:  def.FrequencyHz,
		DampingRatio: def.DampingRatio,
	}
	joint.Joint = newJoint(joint, JOINT_DISTANCE, def.BodyA, def.BodyB)
	return joint.Joint
}

func (joint *DistanceJoint) Anchors() (Vector, Vector) {
	return joint.a.LocalToWorld(joint.AnchorA), joint.b.LocalToWorld(joint.AnchorB)
}

func (joint *DistanceJoint) Def() JointDef {
	return JointDef{
		AnchorA:      joint.AnchorA,
		AnchorB:      joint.AnchorB,
		Length:       joint.Length,
		FrequencyHz:  joint.FrequencyHz,
		DampingRatio: joint.DampingRatio,
	}
}

// separation returns the unit direction and distance from anchor A to anchor B.
func separation(a, b *Body, r1, r2 Vector) (Vector, float64) {
	u := b.p.Add(r2).Sub(a.p.Add(r1))
	length := u.Length()
	if length > LINEAR_SLOP {
		return u.Mult(1 / length), length
	}
	return Vector{}, length
}

func (joint *DistanceJoint) initSolver(dt float64, warmStarting bool) {
	a := joint.a
	b := joint.b

	joint.r1 = anchorOffset(a, joint.AnchorA)
	joint.r2 = anchorOffset(b, joint.AnchorB)

	var length float64
	joint.u, length = separation(a, b, joint.r1, joint.r2)

	invMass := k_scalar(a, b, joint.r1, joint.r2, joint.u)
	joint.gamma = 0
	joint.bias = 0
	if joint.FrequencyHz > 0 && invMass > 0 {
		gamma, beta := softness(1/invMass, joint.FrequencyHz, joint.DampingRatio, dt)
		joint.gamma = gamma
		joint.bias = (length - joint.Length) * beta
		invMass += gamma
	}
	joint.mass = invOrZero(invMass)

	if warmStarting {
		p := joint.u.Mult(joint.impulse)
		applyBodyImpulse(a, b, p, joint.r1.Cross(p), joint.r2.Cross(p))
	} else {
		joint.impulse = 0
	}
}

func (joint *DistanceJoint) solveVelocityConstraints() {
	a := joint.a
	b := joint.b

	cdot := joint.u.Dot(relativeVelocity(a, b, joint.r1, joint.r2))
	impulse := -joint.mass * (cdot + joint.bias + joint.gamma*joint.impulse)
	joint.impulse += impulse

	p := joint.u.Mult(impulse)
	applyBodyImpulse(a, b, p, joint.r1.Cross(p), joint.r2.Cross(p))
}

func (joint *DistanceJoint) solvePositionConstraints() bool {
	// springs are left to the velocity solver
	if joint.FrequencyHz > 0 {
		return true
	}

	a := joint.a
	b := joint.b

	r1 := anchorOffset(a, joint.AnchorA)
	r2 := anchorOffset(b, joint.AnchorB)
	u, length := separation(a, b, r1, r2)

	c := Clamp(length-joint.Length, -JOINT_MAX_LINEAR_CORRECTION, JOINT_MAX_LINEAR_CORRECTION)
	impulse := -invOrZero(k_scalar(a, b, r1, r2, u)) * c

	p := u.Mult(impulse)
	applyBodyShift(a, b, p, r1.Cross(p), r2.Cross(p))

	return math.Abs(c) < LINEAR_SLOP
}

func (joint *DistanceJoint) reactionForce(dtInv float64) Vector {
	return joint.u.Mult(joint.impulse * dtInv)
}

func (joint *DistanceJoint) reactionTorque(dtInv float64) float64 {
	return 0
}
