package impulse

// shapeKey names a shape by its owner's id and its id within that body.
type shapeKey struct {
	body, shape int
}

// pairKey is the order independent identity of a shape pair.
type pairKey struct {
	a, b shapeKey
}

func newPairKey(body1 *Body, shape1 *Shape, body2 *Body, shape2 *Shape) pairKey {
	k1 := shapeKey{body1.id, shape1.id}
	k2 := shapeKey{body2.id, shape2.id}
	if k2.body < k1.body || (k2.body == k1.body && k2.shape < k1.shape) {
		k1, k2 = k2, k1
	}
	return pairKey{k1, k2}
}

// contactSet keeps the live contact solvers in generation order. The map is only used to find the
// solver of a persisting pair, never to iterate.
type contactSet struct {
	solvers []*ContactSolver
	prev    []*ContactSolver
	index   map[pairKey]*ContactSolver
	pooled  []*ContactSolver
	scratch []Contact
}

func newContactSet() *contactSet {
	return &contactSet{
		index: map[pairKey]*ContactSolver{},
	}
}

// begin starts a new generation. Last step's solvers stay findable until end.
func (set *contactSet) begin() {
	set.prev, set.solvers = set.solvers, set.prev[:0]
}

func (set *contactSet) find(key pairKey, shape1, shape2 *Shape) *ContactSolver {
	cs := set.index[key]
	if cs == nil || cs.shape1 != shape1 || cs.shape2 != shape2 {
		return nil
	}
	return cs
}

func (set *contactSet) get(shape1, shape2 *Shape) *ContactSolver {
	if n := len(set.pooled); n > 0 {
		cs := set.pooled[n-1]
		set.pooled = set.pooled[:n-1]
		*cs = ContactSolver{contacts: cs.contacts[:0]}
		cs.shape1 = shape1
		cs.shape2 = shape2
		cs.mix()
		return cs
	}
	return newContactSolver(shape1, shape2)
}

func (set *contactSet) keep(key pairKey, cs *ContactSolver, stamp uint) {
	set.index[key] = cs
	cs.stamp = stamp
	set.solvers = append(set.solvers, cs)
}

// end drops every solver of the previous generation that was not kept.
func (set *contactSet) end(stamp uint) {
	for _, cs := range set.prev {
		if cs.stamp != stamp {
			set.release(cs)
		}
	}
	set.prev = set.prev[:0]
}

func (set *contactSet) release(cs *ContactSolver) {
	key := newPairKey(cs.body1, cs.shape1, cs.body2, cs.shape2)
	if set.index[key] == cs {
		delete(set.index, key)
	}
	set.pooled = append(set.pooled, cs)
}

// removeBody forgets every solver touching body.
func (set *contactSet) removeBody(body *Body) {
	kept := set.solvers[:0]
	for _, cs := range set.solvers {
		if cs.body1 == body || cs.body2 == body {
			set.release(cs)
			continue
		}
		kept = append(kept, cs)
	}
	clear(set.solvers[len(kept):])
	set.solvers = kept
}

// removeShape forgets every solver touching shape.
func (set *contactSet) removeShape(shape *Shape) {
	kept := set.solvers[:0]
	for _, cs := range set.solvers {
		if cs.shape1 == shape || cs.shape2 == shape {
			set.release(cs)
			continue
		}
		kept = append(kept, cs)
	}
	clear(set.solvers[len(kept):])
	set.solvers = kept
}

func (set *contactSet) clear() {
	set.solvers = set.solvers[:0]
	set.prev = set.prev[:0]
	set.pooled = set.pooled[:0]
	clear(set.index)
}

func (set *contactSet) count() int {
	n := 0
	for _, cs := range set.solvers {
		n += len(cs.contacts)
	}
	return n
}
