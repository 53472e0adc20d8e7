package impulse

import "math"

// PrismaticJoint lets body B slide along an axis fixed in body A without rotating relative to it.
type PrismaticJoint struct {
	*Joint

	AnchorA, AnchorB Vector
	// slide direction in body A space
	Axis           Vector
	ReferenceAngle float64

	EnableLimit   bool
	LowerLimit    float64
	UpperLimit    float64
	EnableMotor   bool
	MotorSpeed    float64
	MaxMotorForce float64

	r1, r2      Vector
	axis, perp  Vector
	s1, s2      float64
	a1, a2      float64
	k           Mat2x2
	axialMass   float64
	translation float64
	dt          float64

	impulse      Vector
	motorImpulse float64
	lowerImpulse float64
	upperImpulse float64
}

// NewPrismaticJoint slides b along the world direction axis through the world point anchor.
func NewPrismaticJoint(a, b *Body, anchor, axis Vector) *Joint {
	return newPrismaticJoint(JointDef{
		BodyA:          a,
		BodyB:          b,
		AnchorA:        a.WorldToLocal(anchor),
		AnchorB:        b.WorldToLocal(anchor),
		Axis:           a.transform.Unvect(axis),
		ReferenceAngle: b.a - a.a,
	})
}

func newPrismaticJoint(def JointDef) *Joint {
	axis := def.Axis.Normalize()
	if axis == (Vector{}) {
		axis = Vector{1, 0}
	}
	joint := &PrismaticJoint{
		AnchorA:        def.AnchorA,
		AnchorB:        def.AnchorB,
		Axis:           axis,
		ReferenceAngle: def.ReferenceAngle,
		EnableLimit:    def.EnableLimit,
		LowerLimit:     def.LowerLimit,
		UpperLimit:     def.UpperLimit,
		EnableMotor:    def.EnableMotor,
		MotorSpeed:     def.MotorSpeed,
		MaxMotorForce:  def.MaxMotorForce,
	}
	joint.Joint = newJoint(joint, JOINT_PRISMATIC, def.BodyA, def.BodyB)
	return joint.Joint
}

func (joint *PrismaticJoint) Anchors() (Vector, Vector) {
	return joint.a.LocalToWorld(joint.AnchorA), joint.b.LocalToWorld(joint.AnchorB)
}

func (joint *PrismaticJoint) Def() JointDef {
	return JointDef{
		AnchorA:        joint.AnchorA,
		AnchorB:        joint.AnchorB,
		Axis:           joint.Axis,
		ReferenceAngle: joint.ReferenceAngle,
		EnableLimit:    joint.EnableLimit,
		LowerLimit:     joint.LowerLimit,
		UpperLimit:     joint.UpperLimit,
		EnableMotor:    joint.EnableMotor,
		MotorSpeed:     joint.MotorSpeed,
		MaxMotorForce:  joint.MaxMotorForce,
	}
}

func (joint *PrismaticJoint) SetLimits(lower, upper float64) {
	check(lower <= upper, "lower limit above upper limit")
	joint.wakeBodies()
	joint.EnableLimit = true
	joint.LowerLimit = lower
	joint.UpperLimit = upper
}

func (joint *PrismaticJoint) SetMotor(speed, maxForce float64) {
	joint.wakeBodies()
	joint.EnableMotor = true
	joint.MotorSpeed = speed
	joint.MaxMotorForce = maxForce
}

// Translation is the current offset of the anchors along the axis.
func (joint *PrismaticJoint) Translation() float64 {
	a := joint.a
	b := joint.b
	d := b.p.Add(anchorOffset(b, joint.AnchorB)).Sub(a.p.Add(anchorOffset(a, joint.AnchorA)))
	return d.Dot(joint.Axis.Rotate(ForAngle(a.a)))
}

func (joint *PrismaticJoint) initSolver(dt float64, warmStarting bool) {
	a := joint.a
	b := joint.b

	joint.dt = dt
	joint.r1 = anchorOffset(a, joint.AnchorA)
	joint.r2 = anchorOffset(b, joint.AnchorB)
	d := b.p.Add(joint.r2).Sub(a.p.Add(joint.r1))
	rot := ForAngle(a.a)

	mSum := a.m_inv + b.m_inv
	iA := a.i_inv
	iB := b.i_inv

	// motor and limit
	joint.axis = joint.Axis.Rotate(rot)
	joint.a1 = d.Add(joint.r1).Cross(joint.axis)
	joint.a2 = joint.r2.Cross(joint.axis)
	joint.axialMass = invOrZero(mSum + iA*joint.a1*joint.a1 + iB*joint.a2*joint.a2)

	// prismatic constraint
	joint.perp = joint.Axis.Perp().Rotate(rot)
	joint.s1 = d.Add(joint.r1).Cross(joint.perp)
	joint.s2 = joint.r2.Cross(joint.perp)

	k11 := mSum + iA*joint.s1*joint.s1 + iB*joint.s2*joint.s2
	k12 := iA*joint.s1 + iB*joint.s2
	k22 := iA + iB
	if k22 == 0 {
		// bodies with fixed rotation
		k22 = 1
	}
	joint.k = NewMat2x2(k11, k12, k12, k22)

	joint.translation = joint.axis.Dot(d)

	if !joint.EnableLimit {
		joint.lowerImpulse = 0
		joint.upperImpulse = 0
	}
	if !joint.EnableMotor {
		joint.motorImpulse = 0
	}

	if warmStarting {
		axial := joint.motorImpulse + joint.lowerImpulse - joint.upperImpulse
		p := joint.perp.Mult(joint.impulse.X).Add(joint.axis.Mult(axial))
		la := joint.impulse.X*joint.s1 + joint.impulse.Y + axial*joint.a1
		lb := joint.impulse.X*joint.s2 + joint.impulse.Y + axial*joint.a2
		applyBodyImpulse(a, b, p, la, lb)
	} else {
		joint.impulse = Vector{}
		joint.motorImpulse = 0
		joint.lowerImpulse = 0
		joint.upperImpulse = 0
	}
}

func (joint *PrismaticJoint) axialVelocity() float64 {
	a := joint.a
	b := joint.b
	return joint.axis.Dot(b.v.Sub(a.v)) + joint.a2*b.w - joint.a1*a.w
}

func (joint *PrismaticJoint) solveVelocityConstraints() {
	a := joint.a
	b := joint.b

	if joint.EnableMotor {
		cdot := joint.axialVelocity()
		impulse := joint.axialMass * (joint.MotorSpeed - cdot)
		old := joint.motorImpulse
		maxImpulse := joint.dt * joint.MaxMotorForce
		joint.motorImpulse = Clamp(old+impulse, -maxImpulse, maxImpulse)
		impulse = joint.motorImpulse - old

		applyBodyImpulse(a, b, joint.axis.Mult(impulse), impulse*joint.a1, impulse*joint.a2)
	}

	if joint.EnableLimit {
		// lower
		{
			c := joint.translation - joint.LowerLimit
			cdot := joint.axialVelocity()
			impulse := -joint.axialMass * (cdot + math.Max(c, 0)/joint.dt)
			old := joint.lowerImpulse
			joint.lowerImpulse = math.Max(old+impulse, 0)
			impulse = joint.lowerImpulse - old

			applyBodyImpulse(a, b, joint.axis.Mult(impulse), impulse*joint.a1, impulse*joint.a2)
		}

		// upper, pushing the other way
		{
			c := joint.UpperLimit - joint.translation
			cdot := -joint.axialVelocity()
			impulse := -joint.axialMass * (cdot + math.Max(c, 0)/joint.dt)
			old := joint.upperImpulse
			joint.upperImpulse = math.Max(old+impulse, 0)
			impulse = joint.upperImpulse - old

			applyBodyImpulse(a, b, joint.axis.Mult(-impulse), -impulse*joint.a1, -impulse*joint.a2)
		}
	}

	cdot := Vector{
		joint.perp.Dot(b.v.Sub(a.v)) + joint.s2*b.w - joint.s1*a.w,
		b.w - a.w,
	}
	df := joint.k.Solve(cdot.Neg())
	joint.impulse = joint.impulse.Add(df)

	p := joint.perp.Mult(df.X)
	applyBodyImpulse(a, b, p, df.X*joint.s1+df.Y, df.X*joint.s2+df.Y)
}

func (joint *PrismaticJoint) solvePositionConstraints() bool {
	a := joint.a
	b := joint.b

	mSum := a.m_inv + b.m_inv
	iA := a.i_inv
	iB := b.i_inv

	r1 := anchorOffset(a, joint.AnchorA)
	r2 := anchorOffset(b, joint.AnchorB)
	d := b.p.Add(r2).Sub(a.p.Add(r1))
	rot := ForAngle(a.a)

	axis := joint.Axis.Rotate(rot)
	a1 := d.Add(r1).Cross(axis)
	a2 := r2.Cross(axis)
	perp := joint.Axis.Perp().Rotate(rot)
	s1 := d.Add(r1).Cross(perp)
	s2 := r2.Cross(perp)

	c1 := Vector{perp.Dot(d), b.a - a.a - joint.ReferenceAngle}

	linearError := math.Abs(c1.X)
	angularError := math.Abs(c1.Y)

	active := false
	c2 := 0.0
	if joint.EnableLimit {
		translation := axis.Dot(d)
		if math.Abs(joint.UpperLimit-joint.LowerLimit) < 2*LINEAR_SLOP {
			c2 = translation - joint.LowerLimit
			linearError = math.Max(linearError, math.Abs(c2))
			active = true
		} else if translation <= joint.LowerLimit {
			c2 = math.Min(translation-joint.LowerLimit, 0)
			linearError = math.Max(linearError, joint.LowerLimit-translation)
			active = true
		} else if translation >= joint.UpperLimit {
			c2 = math.Max(translation-joint.UpperLimit, 0)
			linearError = math.Max(linearError, translation-joint.UpperLimit)
			active = true
		}
	}

	k11 := mSum + iA*s1*s1 + iB*s2*s2
	k12 := iA*s1 + iB*s2
	k22 := iA + iB
	if k22 == 0 {
		k22 = 1
	}

	var impulse Vector3
	if active {
		k13 := iA*s1*a1 + iB*s2*a2
		k23 := iA*a1 + iB*a2
		k33 := mSum + iA*a1*a1 + iB*a2*a2

		k := Mat3x3{
			ex: Vector3{k11, k12, k13},
			ey: Vector3{k12, k22, k23},
			ez: Vector3{k13, k23, k33},
		}
		c2 = Clamp(c2, -JOINT_MAX_LINEAR_CORRECTION, JOINT_MAX_LINEAR_CORRECTION)
		impulse = k.Solve33(Vector3{-c1.X, -c1.Y, -c2})
	} else {
		k := NewMat2x2(k11, k12, k12, k22)
		i2 := k.Solve(c1.Neg())
		impulse = Vector3{i2.X, i2.Y, 0}
	}

	p := perp.Mult(impulse.X).Add(axis.Mult(impulse.Z))
	la := impulse.X*s1 + impulse.Y + impulse.Z*a1
	lb := impulse.X*s2 + impulse.Y + impulse.Z*a2
	applyBodyShift(a, b, p, la, lb)

	return linearError <= LINEAR_SLOP && angularError <= ANGULAR_SLOP
}

func (joint *PrismaticJoint) reactionForce(dtInv float64) Vector {
	axial := joint.motorImpulse + joint.lowerImpulse - joint.upperImpulse
	return joint.perp.Mult(joint.impulse.X).Add(joint.axis.Mult(axial)).Mult(dtInv)
}

func (joint *PrismaticJoint) reactionTorque(dtInv float64) float64 {
	return joint.impulse.Y * dtInv
}
