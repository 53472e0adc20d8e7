package impulse

import (
	"fmt"
	"slices"
)

type jointEdge struct {
	joint *Joint
	other Handle
}

type Body struct {
	id     int
	handle Handle
	kind   BodyType
	added  bool

	// mass and it's inverse
	m     float64
	m_inv float64

	// moment of inertia and it's inverse, about the center of mass
	i     float64
	i_inv float64

	// center of mass in body space
	centroid Vector

	// world center of mass, velocity, force
	p Vector
	v Vector
	f Vector

	// Angle, angular velocity, torque (radians)
	a float64
	w float64
	t float64

	// body origin to world
	transform Transform

	LinearDamping  float64
	AngularDamping float64
	fixedRotation  bool

	CategoryBits uint32
	MaskBits     uint32

	awake     bool
	sleepTime float64
	stepCount uint

	bounds      BB
	shapeList   []*Shape
	nextShapeID int
	jointList   []jointEdge

	Proxy    VisualProxy
	UserData interface{}
}

func (b *Body) String() string {
	return fmt.Sprint("Body ", b.id)
}

// NewBody creates a detached body with its origin at position.
func NewBody(kind BodyType, position Vector, angle float64) *Body {
	body := &Body{
		kind:         kind,
		a:            angle,
		transform:    NewTransformRigid(position, angle),
		p:            position,
		awake:        true,
		CategoryBits: 0x0001,
		MaskBits:     0xFFFFFFFF,
		bounds:       BB{position.X, position.Y, position.X, position.Y},
	}
	body.ResetMassData()
	return body
}

func NewStaticBody() *Body {
	return NewBody(BODY_STATIC, Vector{}, 0)
}

func NewKinematicBody() *Body {
	return NewBody(BODY_KINEMATIC, Vector{}, 0)
}

func (body *Body) ID() int {
	return body.id
}

func (body *Body) Handle() Handle {
	return body.handle
}

func (body *Body) Type() BodyType {
	return body.kind
}

func (body *Body) IsDynamic() bool {
	return body.kind == BODY_DYNAMIC
}

func (body *Body) IsStatic() bool {
	return body.kind == BODY_STATIC
}

// SetType switches the body type, clearing velocity and accumulated force.
func (body *Body) SetType(kind BodyType) {
	if body.kind == kind {
		return
	}
	body.kind = kind

	body.v = Vector{}
	body.w = 0
	body.f = Vector{}
	body.t = 0

	body.ResetMassData()
	body.awake = true
	body.sleepTime = 0
}

func (body *Body) Mass() float64 {
	return body.m
}

func (body *Body) InverseMass() float64 {
	return body.m_inv
}

func (body *Body) Moment() float64 {
	return body.i
}

func (body *Body) InverseMoment() float64 {
	return body.i_inv
}

// Centroid is the center of mass in body space.
func (body *Body) Centroid() Vector {
	return body.centroid
}

func (body *Body) FixedRotation() bool {
	return body.fixedRotation
}

func (body *Body) SetFixedRotation(fixed bool) {
	body.fixedRotation = fixed
	body.ResetMassData()
}

// ResetMassData recomputes the center of mass, mass and moment from the shapes.
// The world position and velocity of the center of mass are preserved across the shift.
func (body *Body) ResetMassData() {
	body.centroid = Vector{}
	body.m = 0
	body.m_inv = 0
	body.i = 0
	body.i_inv = 0

	if body.kind != BODY_DYNAMIC {
		body.p = body.transform.Translation()
		return
	}

	totalMassCentroid := Vector{}
	for _, shape := range body.shapeList {
		mass := shape.Mass()
		totalMassCentroid = totalMassCentroid.Add(shape.Centroid().Mult(mass))
		body.m += mass
		body.i += shape.Inertia(mass)
	}

	if body.m > 0 {
		body.m_inv = 1 / body.m
		totalMassCentroid = totalMassCentroid.Mult(body.m_inv)
	}

	if body.i > 0 && !body.fixedRotation {
		// shift the moment from the body origin to the center of mass
		body.i -= body.m * totalMassCentroid.Dot(totalMassCentroid)
		if body.i > 0 {
			body.i_inv = 1 / body.i
		} else {
			body.i = 0
		}
	} else {
		body.i = 0
	}

	oldP := body.p
	body.centroid = totalMassCentroid
	body.p = body.transform.Point(body.centroid)

	// keep the velocity of the new center of mass
	body.v = body.v.Add(CrossSV(body.w, body.p.Sub(oldP)))
}

func (body *Body) Angle() float64 {
	return body.a
}

// Position is the world position of the body origin.
func (body *Body) Position() Vector {
	return body.transform.Translation()
}

// WorldCenter is the world position of the center of mass.
func (body *Body) WorldCenter() Vector {
	return body.p
}

func (body *Body) Transform() Transform {
	return body.transform
}

// SetTransform places the body origin at p with angle a.
func (body *Body) SetTransform(p Vector, a float64) {
	body.transform = NewTransformRigid(p, a)
	body.a = a
	body.p = body.transform.Point(body.centroid)
	body.CacheData()
}

func (body *Body) SetPosition(p Vector) {
	body.SetTransform(p, body.a)
}

func (body *Body) SetAngle(a float64) {
	body.SetTransform(body.Position(), a)
}

func (body *Body) Velocity() Vector {
	return body.v
}

func (body *Body) SetVelocity(v Vector) {
	if body.kind == BODY_STATIC || body.kind == BODY_DISABLED {
		return
	}
	body.Awake(true)
	body.v = v
}

func (body *Body) AngularVelocity() float64 {
	return body.w
}

func (body *Body) SetAngularVelocity(w float64) {
	if body.kind == BODY_STATIC || body.kind == BODY_DISABLED {
		return
	}
	body.Awake(true)
	body.w = w
}

func (body *Body) Force() Vector {
	return body.f
}

func (body *Body) Torque() float64 {
	return body.t
}

func (body *Body) Bounds() BB {
	return body.bounds
}

func (body *Body) SleepTime() float64 {
	return body.sleepTime
}

func (body *Body) IsAwake() bool {
	return body.awake
}

// Awake wakes or sleeps a dynamic body. A sleeping body has no velocity and no pending force.
func (body *Body) Awake(flag bool) {
	if flag {
		body.awake = true
		body.sleepTime = 0
		return
	}
	if body.kind != BODY_DYNAMIC {
		return
	}
	body.awake = false
	body.sleepTime = 0
	body.v = Vector{}
	body.w = 0
	body.f = Vector{}
	body.t = 0
}

func (body *Body) AddShape(shape *Shape) *Shape {
	if shape.attached {
		logger.Warn("shape is already attached to a body", "body", body.id)
		return shape
	}
	body.nextShapeID++
	shape.id = body.nextShapeID
	shape.attached = true
	body.shapeList = append(body.shapeList, shape)

	body.ResetMassData()
	body.CacheData()
	return shape
}

// RemoveShape detaches shape. Shapes owned by another body are ignored.
func (body *Body) RemoveShape(shape *Shape) {
	i := slices.Index(body.shapeList, shape)
	if i < 0 {
		return
	}
	body.shapeList = slices.Delete(body.shapeList, i, i+1)
	shape.attached = false

	body.ResetMassData()
	body.CacheData()
}

func (body *Body) Shapes() []*Shape {
	return body.shapeList
}

func (body *Body) EachShape(f func(*Shape)) {
	for i := 0; i < len(body.shapeList); i++ {
		f(body.shapeList[i])
	}
}

// Joints lists the joints attached to the body in attachment order.
func (body *Body) Joints() []*Joint {
	joints := make([]*Joint, 0, len(body.jointList))
	for _, edge := range body.jointList {
		joints = append(joints, edge.joint)
	}
	return joints
}

func (body *Body) addJointEdge(joint *Joint, other Handle) {
	body.jointList = append(body.jointList, jointEdge{joint, other})
}

func (body *Body) removeJointEdge(joint *Joint) {
	body.jointList = slices.DeleteFunc(body.jointList, func(e jointEdge) bool {
		return e.joint == joint
	})
}

func (body *Body) WorldToLocal(point Vector) Vector {
	return NewTransformRigidInverse(body.transform).Point(point)
}

func (body *Body) LocalToWorld(point Vector) Vector {
	return body.transform.Point(point)
}

func (body *Body) VelocityAtWorldPoint(point Vector) Vector {
	return body.v.Add(CrossSV(body.w, point.Sub(body.p)))
}

func (body *Body) KineticEnergy() float64 {
	// Need to do some fudging to avoid NaNs
	vsq := body.v.Dot(body.v)
	wsq := body.w * body.w
	var a, b float64
	if vsq != 0 {
		a = vsq * body.m
	}
	if wsq != 0 {
		b = wsq * body.i
	}
	return 0.5 * (a + b)
}

func (body *Body) ApplyForce(force, point Vector) {
	if body.kind != BODY_DYNAMIC {
		return
	}
	body.Awake(true)
	body.f = body.f.Add(force)
	body.t += point.Sub(body.p).Cross(force)
}

func (body *Body) ApplyForceToCenter(force Vector) {
	if body.kind != BODY_DYNAMIC {
		return
	}
	body.Awake(true)
	body.f = body.f.Add(force)
}

func (body *Body) ApplyTorque(torque float64) {
	if body.kind != BODY_DYNAMIC {
		return
	}
	body.Awake(true)
	body.t += torque
}

func (body *Body) ApplyLinearImpulse(impulse, point Vector) {
	if body.kind != BODY_DYNAMIC {
		return
	}
	body.Awake(true)
	body.v = body.v.MultAdd(impulse, body.m_inv)
	body.w += point.Sub(body.p).Cross(impulse) * body.i_inv
}

func (body *Body) ApplyAngularImpulse(impulse float64) {
	if body.kind != BODY_DYNAMIC {
		return
	}
	body.Awake(true)
	body.w += impulse * body.i_inv
}

// UpdateVelocity integrates gravity and the accumulated force, then damps with one Euler step
// of the exponential decay.
func (body *Body) UpdateVelocity(gravity Vector, dt, damping float64) {
	if body.kind != BODY_DYNAMIC {
		return
	}

	body.v = body.v.Add(gravity.Add(body.f.Mult(body.m_inv)).Mult(dt))
	body.w += body.t * body.i_inv * dt

	body.v = body.v.Mult(Clamp(1-dt*(damping+body.LinearDamping), 0, 1))
	body.w *= Clamp(1-dt*(damping+body.AngularDamping), 0, 1)

	body.f = Vector{}
	body.t = 0
}

func (body *Body) UpdatePosition(dt float64) {
	body.p = body.p.MultAdd(body.v, dt)
	body.a += body.w * dt
}

// SyncTransform rebuilds the origin transform from the integrated center and angle,
// then pushes the result to the visual proxy.
func (body *Body) SyncTransform() {
	rot := ForAngle(body.a)
	c := body.centroid

	body.transform = NewTransformTranspose(
		rot.X, -rot.Y, body.p.X-(c.X*rot.X-c.Y*rot.Y),
		rot.Y, rot.X, body.p.Y-(c.X*rot.Y+c.Y*rot.X),
	)

	if body.Proxy != nil {
		origin := body.transform.Translation()
		body.Proxy.SetPosition(origin.X*PIXELS_PER_METER, origin.Y*PIXELS_PER_METER)
		body.Proxy.SetRotation(RadToDeg(body.a))
	}
}

// CacheData refreshes every shape's world cache and the union bounds.
func (body *Body) CacheData() {
	if len(body.shapeList) == 0 {
		origin := body.transform.Translation()
		body.bounds = BB{origin.X, origin.Y, origin.X, origin.Y}
		return
	}
	bounds := EmptyBB()
	for _, shape := range body.shapeList {
		bounds = bounds.Merge(shape.CacheData(body.transform))
	}
	body.bounds = bounds
}

// IsCollidable reports whether the pair may generate contacts.
func (body *Body) IsCollidable(other *Body) bool {
	if body == other {
		return false
	}
	if body.kind == BODY_DISABLED || other.kind == BODY_DISABLED {
		return false
	}
	if body.kind != BODY_DYNAMIC && other.kind != BODY_DYNAMIC {
		return false
	}
	if body.MaskBits&other.CategoryBits == 0 || body.CategoryBits&other.MaskBits == 0 {
		return false
	}
	for _, edge := range body.jointList {
		if !edge.joint.CollideConnected && edge.other == other.handle {
			return false
		}
	}
	return true
}
