package impulse

import "math"

// contact solver tuning
const (
	COLLISION_SLOP        = 0.0008
	BAUMGARTE             = 0.28
	MAX_LINEAR_CORRECTION = 1
)

// ContactSolver resolves the contacts between one pair of shapes. It survives between steps while
// the pair keeps touching so its impulses can warm start the next step.
type ContactSolver struct {
	shape1, shape2 *Shape
	body1, body2   *Body

	// mixed material
	e, u float64

	contacts []Contact

	// last step the pair was touching
	stamp uint
}

func newContactSolver(shape1, shape2 *Shape) *ContactSolver {
	cs := &ContactSolver{shape1: shape1, shape2: shape2}
	cs.mix()
	return cs
}

// mix combines the materials: the bouncier shape wins, friction is the geometric mean.
func (cs *ContactSolver) mix() {
	cs.e = math.Max(cs.shape1.Elasticity, cs.shape2.Elasticity)
	cs.u = math.Sqrt(cs.shape1.Friction * cs.shape2.Friction)
}

func (cs *ContactSolver) Shapes() (*Shape, *Shape) {
	return cs.shape1, cs.shape2
}

func (cs *ContactSolver) Bodies() (*Body, *Body) {
	return cs.body1, cs.body2
}

func (cs *ContactSolver) Contacts() []Contact {
	return cs.contacts
}

func (cs *ContactSolver) Elasticity() float64 {
	return cs.e
}

func (cs *ContactSolver) Friction() float64 {
	return cs.u
}

// update swaps in this step's manifold, carrying accumulated impulses over by feature id.
func (cs *ContactSolver) update(contacts []Contact) {
	for i := range contacts {
		next := &contacts[i]
		for j := range cs.contacts {
			if cs.contacts[j].hash == next.hash {
				next.lambda_n_acc = cs.contacts[j].lambda_n_acc
				next.lambda_t_acc = cs.contacts[j].lambda_t_acc
				break
			}
		}
	}
	cs.contacts = append(cs.contacts[:0], contacts...)
}

func (cs *ContactSolver) initSolver(warmStarting bool) {
	body1 := cs.body1
	body2 := cs.body2

	sum_m_inv := body1.m_inv + body2.m_inv

	for i := range cs.contacts {
		con := &cs.contacts[i]

		// world anchors relative to the centers of mass
		con.r1 = con.Point.Sub(body1.p)
		con.r2 = con.Point.Sub(body2.p)

		con.r1_local = con.r1.Rotate(ForAngle(-body1.a))
		con.r2_local = con.r2.Rotate(ForAngle(-body2.a))

		n := con.Normal
		t := n.Perp()

		sn1 := con.r1.Cross(n)
		sn2 := con.r2.Cross(n)
		con.emn = invOrZero(sum_m_inv + body1.i_inv*sn1*sn1 + body2.i_inv*sn2*sn2)

		st1 := con.r1.Cross(t)
		st2 := con.r2.Cross(t)
		con.emt = invOrZero(sum_m_inv + body1.i_inv*st1*st1 + body2.i_inv*st2*st2)

		rv := relativeVelocity(body1, body2, con.r1, con.r2)
		con.bounce = rv.Dot(n) * cs.e

		if warmStarting {
			impulse := n.Mult(con.lambda_n_acc).Add(t.Mult(con.lambda_t_acc))
			applyImpulses(body1, body2, con.r1, con.r2, impulse)
		} else {
			con.lambda_n_acc = 0
			con.lambda_t_acc = 0
		}
	}
}

func (cs *ContactSolver) solveVelocityConstraints() {
	body1 := cs.body1
	body2 := cs.body2

	for i := range cs.contacts {
		con := &cs.contacts[i]
		n := con.Normal
		t := n.Perp()

		rv := relativeVelocity(body1, body2, con.r1, con.r2)

		// normal impulse, accumulated impulse never pulls
		lambda_n := -con.emn * (n.Dot(rv) + con.bounce)
		lambda_n_old := con.lambda_n_acc
		con.lambda_n_acc = math.Max(lambda_n_old+lambda_n, 0)
		lambda_n = con.lambda_n_acc - lambda_n_old

		// friction, bounded by the normal impulse
		lambda_t := -con.emt * t.Dot(rv)
		lambda_t_max := con.lambda_n_acc * cs.u
		lambda_t_old := con.lambda_t_acc
		con.lambda_t_acc = Clamp(lambda_t_old+lambda_t, -lambda_t_max, lambda_t_max)
		lambda_t = con.lambda_t_acc - lambda_t_old

		impulse := Vector{lambda_n*n.X - lambda_t*n.Y, lambda_t*n.X + lambda_n*n.Y}
		applyImpulses(body1, body2, con.r1, con.r2, impulse)
	}
}

// solvePositionConstraints nudges the bodies apart and reports whether the pair is within slop.
func (cs *ContactSolver) solvePositionConstraints() bool {
	body1 := cs.body1
	body2 := cs.body2

	m1_inv := body1.m_inv
	i1_inv := body1.i_inv
	m2_inv := body2.m_inv
	i2_inv := body2.i_inv
	sum_m_inv := m1_inv + m2_inv

	max_penetration := 0.0

	for i := range cs.contacts {
		con := &cs.contacts[i]
		n := con.Normal

		r1 := con.r1_local.Rotate(ForAngle(body1.a))
		r2 := con.r2_local.Rotate(ForAngle(body2.a))

		p1 := body1.p.Add(r1)
		p2 := body2.p.Add(r2)

		// current separation
		c := p2.Sub(p1).Dot(n) + con.Depth
		correction := Clamp(BAUMGARTE*(c+COLLISION_SLOP), -MAX_LINEAR_CORRECTION, 0)
		if correction == 0 {
			continue
		}

		max_penetration = math.Max(max_penetration, -c)

		sn1 := r1.Cross(n)
		sn2 := r2.Cross(n)
		em_inv := sum_m_inv + i1_inv*sn1*sn1 + i2_inv*sn2*sn2
		if em_inv == 0 {
			continue
		}

		lambda_dt := -correction / em_inv
		impulse_dt := n.Mult(lambda_dt)

		body1.p = body1.p.MultAdd(impulse_dt, -m1_inv)
		body1.a -= sn1 * lambda_dt * i1_inv

		body2.p = body2.p.MultAdd(impulse_dt, m2_inv)
		body2.a += sn2 * lambda_dt * i2_inv
	}

	return max_penetration <= COLLISION_SLOP*3
}

func relativeVelocity(a, b *Body, r1, r2 Vector) Vector {
	v1 := a.v.Add(CrossSV(a.w, r1))
	v2 := b.v.Add(CrossSV(b.w, r2))
	return v2.Sub(v1)
}

func applyImpulses(a, b *Body, r1, r2, j Vector) {
	a.v = a.v.MultAdd(j, -a.m_inv)
	a.w -= r1.Cross(j) * a.i_inv

	b.v = b.v.MultAdd(j, b.m_inv)
	b.w += r2.Cross(j) * b.i_inv
}
