package impulse

import "fmt"

// Handle is a weak reference into a Space. A handle goes stale once its target is removed,
// even if the slot is reused later.
type Handle struct {
	index uint32
	gen   uint32
}

var NilHandle = Handle{}

func (h Handle) IsNil() bool {
	return h.gen == 0
}

func (h Handle) String() string {
	if h.IsNil() {
		return "Handle(nil)"
	}
	return fmt.Sprintf("Handle(%d:%d)", h.index, h.gen)
}

type slot[T any] struct {
	value T
	gen   uint32
	live  bool
}

// arena owns values in generation checked slots. Iteration runs in slot order.
type arena[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

func (a *arena[T]) insert(value T) Handle {
	var index uint32
	if n := len(a.free); n > 0 {
		index = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		index = uint32(len(a.slots))
		a.slots = append(a.slots, slot[T]{})
	}

	s := &a.slots[index]
	s.gen++
	s.value = value
	s.live = true
	a.count++
	return Handle{index: index, gen: s.gen}
}

func (a *arena[T]) get(h Handle) (T, bool) {
	var zero T
	if h.gen == 0 || int(h.index) >= len(a.slots) {
		return zero, false
	}
	s := &a.slots[h.index]
	if !s.live || s.gen != h.gen {
		return zero, false
	}
	return s.value, true
}

func (a *arena[T]) remove(h Handle) (T, bool) {
	value, ok := a.get(h)
	if !ok {
		return value, false
	}
	var zero T
	s := &a.slots[h.index]
	s.value = zero
	s.live = false
	a.free = append(a.free, h.index)
	a.count--
	return value, true
}

func (a *arena[T]) len() int {
	return a.count
}

// each stops early when f returns false.
func (a *arena[T]) each(f func(Handle, T) bool) {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.live {
			continue
		}
		if !f(Handle{index: uint32(i), gen: s.gen}, s.value) {
			return
		}
	}
}

func (a *arena[T]) values() []T {
	out := make([]T, 0, a.count)
	a.each(func(_ Handle, v T) bool {
		out = append(out, v)
		return true
	})
	return out
}

// clear kills every slot but keeps generations so old handles stay stale.
func (a *arena[T]) clear() {
	var zero T
	a.free = a.free[:0]
	for i := len(a.slots) - 1; i >= 0; i-- {
		a.slots[i].value = zero
		a.slots[i].live = false
		a.free = append(a.free, uint32(i))
	}
	a.count = 0
}
