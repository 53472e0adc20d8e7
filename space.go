package impulse

import (
	"errors"
	"math"
	"slices"
)

var errJointRejected = errors.New("joint was rejected by the space")

// sleep tuning, copied into every new Space
const (
	SLEEP_LINEAR_TOLERANCE  = 0.5
	SLEEP_ANGULAR_TOLERANCE = 2 * math.Pi / 180
	TIME_TO_SLEEP           = 0.5
)

type PostStepFunc func(space *Space, key interface{})

type postStepCallback struct {
	key interface{}
	f   PostStepFunc
}

// Space owns bodies and joints and steps them. It is not safe for concurrent use.
type Space struct {
	Gravity Vector
	Damping float64

	SleepLinearTolerance  float64
	SleepAngularTolerance float64
	TimeToSleep           float64

	// OnJointBreak runs after a breakable joint has been removed.
	OnJointBreak func(space *Space, joint *Joint)

	bodies arena[*Body]
	joints arena[*Joint]

	bodyCache    []*Body
	jointCache   []*Joint
	activeJoints []*Joint
	dirty        bool

	contacts *contactSet

	stepCount      uint
	nextBodyID     int
	nextJointID    int
	positionSolved bool

	locked            int
	postStepCallbacks []postStepCallback

	UserData interface{}
}

func NewSpace() *Space {
	return &Space{
		Gravity:               Vector{0, -10},
		SleepLinearTolerance:  SLEEP_LINEAR_TOLERANCE,
		SleepAngularTolerance: SLEEP_ANGULAR_TOLERANCE,
		TimeToSleep:           TIME_TO_SLEEP,
		contacts:              newContactSet(),
	}
}

func (space *Space) StepCount() uint {
	return space.stepCount
}

// PositionSolved reports whether the last step's position solver converged.
func (space *Space) PositionSolved() bool {
	return space.positionSolved
}

func (space *Space) IsLocked() bool {
	return space.locked > 0
}

func (space *Space) lock() {
	space.locked++
}

func (space *Space) unlock(runPostStep bool) {
	space.locked--
	check(space.locked >= 0, "Space lock underflow")

	if space.locked != 0 || !runPostStep {
		return
	}

	// callbacks may add more callbacks
	for len(space.postStepCallbacks) > 0 {
		callbacks := space.postStepCallbacks
		space.postStepCallbacks = nil
		for _, cb := range callbacks {
			cb.f(space, cb.key)
		}
	}
}

// AddPostStepCallback schedules f to run once the current step finishes, or immediately when the
// space is not stepping. Only the first callback registered for a key is kept.
func (space *Space) AddPostStepCallback(key interface{}, f PostStepFunc) bool {
	if !space.IsLocked() {
		f(space, key)
		return true
	}
	for _, cb := range space.postStepCallbacks {
		if cb.key != nil && cb.key == key {
			return false
		}
	}
	space.postStepCallbacks = append(space.postStepCallbacks, postStepCallback{key, f})
	return true
}

func (space *Space) warnLocked(op string) bool {
	if space.IsLocked() {
		logger.Warn("space is stepping, use AddPostStepCallback", "op", op)
		return true
	}
	return false
}

func (space *Space) owns(body *Body) bool {
	if body == nil {
		return false
	}
	b, ok := space.bodies.get(body.handle)
	return ok && b == body
}

// AddBody takes ownership of body, wakes it and caches its bounds.
func (space *Space) AddBody(body *Body) *Body {
	if space.warnLocked("AddBody") {
		return body
	}
	if body.added {
		logger.Warn("body already belongs to a space", "body", body.id)
		return body
	}

	space.nextBodyID++
	body.id = space.nextBodyID
	body.handle = space.bodies.insert(body)
	body.added = true
	body.Awake(true)
	body.CacheData()

	space.dirty = true
	return body
}

// CreateBody makes a body with its origin at (x, y) and adds it.
func (space *Space) CreateBody(kind BodyType, x, y, angle float64) *Body {
	return space.AddBody(NewBody(kind, Vector{x, y}, angle))
}

// RemoveBody unlinks the body's joints and then detaches it. Bodies that are not in this space are
// ignored.
func (space *Space) RemoveBody(body *Body) {
	if space.warnLocked("RemoveBody") || !space.owns(body) {
		return
	}

	for len(body.jointList) > 0 {
		space.removeJoint(body.jointList[0].joint)
	}

	// whatever rested on it has to fall, asleep or not
	for _, other := range space.Bodies() {
		if other != body && other.bounds.Intersects(body.bounds) {
			other.Awake(true)
		}
	}
	space.contacts.removeBody(body)

	space.bodies.remove(body.handle)
	body.handle = NilHandle
	body.added = false
	space.dirty = true
}

func (space *Space) AddShape(body *Body, shape *Shape) *Shape {
	if space.warnLocked("AddShape") {
		return shape
	}
	body.AddShape(shape)
	body.Awake(true)
	return shape
}

// RemoveShape detaches shape from body and forgets its contacts.
func (space *Space) RemoveShape(body *Body, shape *Shape) {
	if space.warnLocked("RemoveShape") {
		return
	}
	space.contacts.removeShape(shape)
	body.RemoveShape(shape)
	body.Awake(true)
}

func (space *Space) AddCircleShape(body *Body, radius float64, offset Vector, density float64) *Shape {
	shape := NewCircle(radius, offset)
	shape.SetDensity(density)
	return space.AddShape(body, shape)
}

func (space *Space) AddBoxShape(body *Body, width, height float64, density float64) *Shape {
	shape := NewBox(width, height)
	shape.SetDensity(density)
	return space.AddShape(body, shape)
}

func (space *Space) AddPolygonShape(body *Body, verts []Vector, density float64) *Shape {
	shape := NewPolyShape(verts)
	shape.SetDensity(density)
	return space.AddShape(body, shape)
}

func (space *Space) AddSegmentShape(body *Body, a, b Vector, radius, density float64) *Shape {
	shape := NewSegment(a, b, radius)
	shape.SetDensity(density)
	return space.AddShape(body, shape)
}

// AddJoint registers joint with both of its bodies. Both bodies must already be in the space.
func (space *Space) AddJoint(joint *Joint) *Joint {
	if space.warnLocked("AddJoint") {
		return nil
	}
	if !joint.handle.IsNil() {
		logger.Warn("joint already belongs to a space", "joint", joint.id)
		return nil
	}
	if !space.owns(joint.a) || !space.owns(joint.b) {
		logger.Warn("joint bodies must be added to the space first", "type", joint.kind)
		return nil
	}
	if joint.a == joint.b {
		logger.Warn("joint connects a body to itself", "body", joint.a.id)
		return nil
	}

	space.nextJointID++
	joint.id = space.nextJointID
	joint.handle = space.joints.insert(joint)
	joint.h1 = joint.a.handle
	joint.h2 = joint.b.handle

	joint.a.addJointEdge(joint, joint.b.handle)
	joint.b.addJointEdge(joint, joint.a.handle)
	joint.wakeBodies()

	space.dirty = true
	return joint
}

// CreateJoint builds a joint from def and adds it.
func (space *Space) CreateJoint(def JointDef) (*Joint, error) {
	joint, err := NewJoint(def)
	if err != nil {
		return nil, err
	}
	if space.AddJoint(joint) == nil {
		return nil, errJointRejected
	}
	return joint, nil
}

// RemoveJoint is a no-op for joints that are not in this space.
func (space *Space) RemoveJoint(joint *Joint) {
	if space.warnLocked("RemoveJoint") {
		return
	}
	space.removeJoint(joint)
}

func (space *Space) removeJoint(joint *Joint) {
	if joint == nil {
		return
	}
	if j, ok := space.joints.get(joint.handle); !ok || j != joint {
		return
	}

	space.joints.remove(joint.handle)
	joint.handle = NilHandle
	joint.a.removeJointEdge(joint)
	joint.b.removeJointEdge(joint)
	joint.wakeBodies()

	space.dirty = true
}

func (space *Space) Body(h Handle) *Body {
	body, _ := space.bodies.get(h)
	return body
}

func (space *Space) Joint(h Handle) *Joint {
	joint, _ := space.joints.get(h)
	return joint
}

// Bodies lists the bodies in iteration order. The slice is shared, do not modify it.
func (space *Space) Bodies() []*Body {
	space.refresh()
	return space.bodyCache
}

func (space *Space) Joints() []*Joint {
	space.refresh()
	return space.jointCache
}

func (space *Space) EachBody(f func(body *Body)) {
	for _, body := range slices.Clone(space.Bodies()) {
		f(body)
	}
}

func (space *Space) EachJoint(f func(joint *Joint)) {
	for _, joint := range slices.Clone(space.Joints()) {
		f(joint)
	}
}

func (space *Space) NumBodies() int {
	return space.bodies.len()
}

func (space *Space) NumJoints() int {
	return space.joints.len()
}

// ContactSolvers lists the touching shape pairs of the last step.
func (space *Space) ContactSolvers() []*ContactSolver {
	return space.contacts.solvers
}

func (space *Space) NumContacts() int {
	return space.contacts.count()
}

// Clear removes every joint and body.
func (space *Space) Clear() {
	if space.warnLocked("Clear") {
		return
	}
	for _, body := range space.bodies.values() {
		body.handle = NilHandle
		body.added = false
		body.jointList = nil
	}
	for _, joint := range space.joints.values() {
		joint.handle = NilHandle
	}
	space.bodies.clear()
	space.joints.clear()
	space.contacts.clear()
	space.dirty = true
}

func (space *Space) refresh() {
	if !space.dirty {
		return
	}
	space.bodyCache = space.bodyCache[:0]
	space.bodies.each(func(_ Handle, body *Body) bool {
		space.bodyCache = append(space.bodyCache, body)
		return true
	})
	space.jointCache = space.jointCache[:0]
	space.joints.each(func(_ Handle, joint *Joint) bool {
		space.jointCache = append(space.jointCache, joint)
		return true
	})
	space.dirty = false
}

// resolveJoints drops joints whose body handles went stale.
func (space *Space) resolveJoints() {
	for _, joint := range slices.Clone(space.Joints()) {
		a, ok1 := space.bodies.get(joint.h1)
		b, ok2 := space.bodies.get(joint.h2)
		if ok1 && ok2 && a == joint.a && b == joint.b {
			continue
		}
		logger.Warn("removing joint with a stale body", "joint", joint.id)
		space.removeJoint(joint)
	}
}

// isActive reports whether the body can start a collision this step.
func (body *Body) isActive() bool {
	switch body.kind {
	case BODY_DYNAMIC:
		return body.awake
	case BODY_KINEMATIC:
		return body.v != (Vector{}) || body.w != 0
	}
	return false
}

func (body *Body) isAwakeDynamic() bool {
	return body.kind == BODY_DYNAMIC && body.awake
}

// genTemporalContactSolvers runs the broad and narrow phase and refreshes the contact solvers.
func (space *Space) genTemporalContactSolvers(bodies []*Body) {
	set := space.contacts
	set.begin()

	for i, body1 := range bodies {
		body1.stepCount = space.stepCount

		for _, body2 := range bodies[i+1:] {
			if body2.stepCount == space.stepCount {
				continue
			}

			active1 := body1.isActive()
			active2 := body2.isActive()
			if !active1 && !active2 {
				continue
			}
			if !body1.IsCollidable(body2) {
				continue
			}
			if !body1.bounds.Intersects(body2.bounds) {
				continue
			}

			kinematic := body1.kind == BODY_KINEMATIC || body2.kind == BODY_KINEMATIC

			for _, shape1 := range body1.shapeList {
				for _, shape2 := range body2.shapeList {
					if !shape1.bb.Intersects(shape2.bb) {
						continue
					}

					set.scratch = Collide(shape1, shape2, set.scratch[:0])
					if len(set.scratch) == 0 {
						continue
					}

					key := newPairKey(body1, shape1, body2, shape2)
					cs := set.find(key, shape1, shape2)
					if cs == nil {
						cs = set.get(shape1, shape2)
						body1.Awake(true)
						body2.Awake(true)
					} else if kinematic {
						body1.Awake(true)
						body2.Awake(true)
					}

					cs.body1 = body1
					cs.body2 = body2
					cs.update(set.scratch)
					set.keep(key, cs, space.stepCount)
				}
			}
		}
	}

	set.end(space.stepCount)
}

func (space *Space) initSolver(dt float64, warmStarting bool) {
	for _, cs := range space.contacts.solvers {
		cs.initSolver(warmStarting)
	}
	for _, joint := range space.activeJoints {
		joint.Class.initSolver(dt, warmStarting)
	}
}

func (space *Space) velocitySolver(iterations int) {
	for i := 0; i < iterations; i++ {
		for _, joint := range space.activeJoints {
			joint.Class.solveVelocityConstraints()
		}
		for _, cs := range space.contacts.solvers {
			cs.solveVelocityConstraints()
		}
	}
}

// positionSolver stops early once every constraint is within tolerance and reports whether that
// happened.
func (space *Space) positionSolver(iterations int) bool {
	if len(space.contacts.solvers) == 0 && len(space.activeJoints) == 0 {
		return true
	}
	for i := 0; i < iterations; i++ {
		contactsOk := true
		for _, cs := range space.contacts.solvers {
			contactsOk = cs.solvePositionConstraints() && contactsOk
		}
		jointsOk := true
		for _, joint := range space.activeJoints {
			jointsOk = joint.Class.solvePositionConstraints() && jointsOk
		}
		if contactsOk && jointsOk {
			return true
		}
	}
	return false
}

// Step advances the simulation by dt seconds.
func (space *Space) Step(dt float64, velocityIterations, positionIterations int, warmStarting, allowSleep bool) {
	if dt <= 0 {
		return
	}

	space.lock()
	defer space.unlock(true)

	space.stepCount++
	space.resolveJoints()

	bodies := space.Bodies()

	space.genTemporalContactSolvers(bodies)

	// joints with both ends asleep keep their impulses until woken
	space.activeJoints = space.activeJoints[:0]
	for _, joint := range space.jointCache {
		if joint.a.isAwakeDynamic() || joint.b.isAwakeDynamic() {
			space.activeJoints = append(space.activeJoints, joint)
		}
	}

	space.initSolver(dt, warmStarting)

	for _, body := range bodies {
		if body.isAwakeDynamic() {
			body.UpdateVelocity(space.Gravity, dt, space.Damping)
		}
	}

	for _, joint := range space.activeJoints {
		if joint.a.isAwakeDynamic() != joint.b.isAwakeDynamic() {
			joint.wakeBodies()
		}
	}

	space.velocitySolver(velocityIterations)

	for _, body := range bodies {
		if body.isAwakeDynamic() {
			body.UpdatePosition(dt)
		}
	}

	space.cullBrokenJoints(1 / dt)

	space.positionSolved = space.positionSolver(positionIterations)

	for _, body := range bodies {
		body.SyncTransform()
		body.CacheData()
	}

	if allowSleep {
		space.updateSleep(bodies, dt)
	}
}

func (space *Space) cullBrokenJoints(dtInv float64) {
	var broken []*Joint
	kept := space.activeJoints[:0]
	for _, joint := range space.activeJoints {
		if joint.Breakable {
			force := joint.Class.reactionForce(dtInv)
			if force.LengthSq() >= joint.MaxForce*joint.MaxForce {
				broken = append(broken, joint)
				continue
			}
		}
		kept = append(kept, joint)
	}
	space.activeJoints = kept

	for _, joint := range broken {
		logger.Debug("joint broke", "joint", joint.id, "type", joint.kind, "maxForce", joint.MaxForce)
		space.removeJoint(joint)
		if space.OnJointBreak != nil {
			space.OnJointBreak(space, joint)
		}
	}
}

// updateSleep puts every dynamic body to sleep at once when all of them have been still long
// enough and the position solver converged.
func (space *Space) updateSleep(bodies []*Body, dt float64) {
	linTolSq := space.SleepLinearTolerance * space.SleepLinearTolerance
	angTolSq := space.SleepAngularTolerance * space.SleepAngularTolerance

	minSleepTime := INFINITY
	for _, body := range bodies {
		if body.kind != BODY_DYNAMIC {
			continue
		}

		if body.w*body.w > angTolSq || body.v.Dot(body.v) > linTolSq {
			body.sleepTime = 0
		} else {
			body.sleepTime += dt
		}
		minSleepTime = math.Min(minSleepTime, body.sleepTime)
	}

	if space.positionSolved && minSleepTime != INFINITY && minSleepTime >= space.TimeToSleep {
		for _, body := range bodies {
			if body.kind == BODY_DYNAMIC && body.awake {
				body.Awake(false)
			}
		}
	}
}
