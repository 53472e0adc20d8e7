package impulse

// MouseJoint drags a point of body B toward a world target with a soft spring. Body A only anchors
// the joint in the space and is not pushed.
type MouseJoint struct {
	*Joint

	// body B space
	AnchorB      Vector
	Target       Vector
	FrequencyHz  float64
	DampingRatio float64
	MaxPull      float64

	r2      Vector
	k       Mat2x2
	c       Vector
	gamma   float64
	dt      float64
	impulse Vector
}

// NewMouseJoint grabs b at the world point target. A is usually a static body.
func NewMouseJoint(a, b *Body, target Vector) *Joint {
	return newMouseJoint(JointDef{
		BodyA:         a,
		BodyB:         b,
		AnchorA:       target,
		AnchorB:       b.WorldToLocal(target),
		FrequencyHz:   5,
		DampingRatio:  0.7,
		MaxMotorForce: 1000 * b.m,
	})
}

func newMouseJoint(def JointDef) *Joint {
	joint := &MouseJoint{
		AnchorB:      def.AnchorB,
		Target:       def.AnchorA,
		FrequencyHz:  def.FrequencyHz,
		DampingRatio: def.DampingRatio,
		MaxPull:      def.MaxMotorForce,
	}
	joint.Joint = newJoint(joint, JOINT_MOUSE, def.BodyA, def.BodyB)
	return joint.Joint
}

func (joint *MouseJoint) Anchors() (Vector, Vector) {
	return joint.Target, joint.b.LocalToWorld(joint.AnchorB)
}

func (joint *MouseJoint) Def() JointDef {
	return JointDef{
		AnchorA:       joint.Target,
		AnchorB:       joint.AnchorB,
		FrequencyHz:   joint.FrequencyHz,
		DampingRatio:  joint.DampingRatio,
		MaxMotorForce: joint.MaxPull,
	}
}

// SetTarget moves the world target and wakes the dragged body.
func (joint *MouseJoint) SetTarget(target Vector) {
	joint.b.Awake(true)
	joint.Target = target
}

func (joint *MouseJoint) initSolver(dt float64, warmStarting bool) {
	b := joint.b

	joint.dt = dt
	joint.r2 = anchorOffset(b, joint.AnchorB)

	gamma, beta := softness(b.m, joint.FrequencyHz, joint.DampingRatio, dt)
	joint.gamma = gamma

	r := joint.r2
	k11 := b.m_inv + b.i_inv*r.Y*r.Y + gamma
	k12 := -b.i_inv * r.X * r.Y
	k22 := b.m_inv + b.i_inv*r.X*r.X + gamma
	joint.k = NewMat2x2(k11, k12, k12, k22)

	joint.c = b.p.Add(r).Sub(joint.Target).Mult(beta)

	if warmStarting {
		b.v = b.v.MultAdd(joint.impulse, b.m_inv)
		b.w += b.i_inv * r.Cross(joint.impulse)
	} else {
		joint.impulse = Vector{}
	}
}

func (joint *MouseJoint) solveVelocityConstraints() {
	b := joint.b
	r := joint.r2

	cdot := b.v.Add(CrossSV(b.w, r))
	impulse := joint.k.Solve(cdot.Add(joint.c).Add(joint.impulse.Mult(joint.gamma)).Neg())

	old := joint.impulse
	joint.impulse = joint.impulse.Add(impulse).Clamp(joint.dt * joint.MaxPull)
	impulse = joint.impulse.Sub(old)

	b.v = b.v.MultAdd(impulse, b.m_inv)
	b.w += b.i_inv * r.Cross(impulse)
}

func (joint *MouseJoint) solvePositionConstraints() bool {
	return true
}

func (joint *MouseJoint) reactionForce(dtInv float64) Vector {
	return joint.impulse.Mult(dtInv)
}

func (joint *MouseJoint) reactionTorque(dtInv float64) float64 {
	return 0
}
