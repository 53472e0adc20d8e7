package impulse

// ConvexHull reduces verts in place to their convex hull and returns the hull size.
// The hull is wound counter-clockwise and starts at the left most vertex.
// QuickHull seemed like a neat algorithm, and efficient-ish for large input sets.
// My implementation performs an in place reduction using the result array as scratch space.
func ConvexHull(verts []Vector, tol float64) int {
	count := len(verts)
	if count == 0 {
		return 0
	}

	start, end := LoopIndexes(verts)
	if start == end {
		return 1
	}

	verts[0], verts[start] = verts[start], verts[0]
	if end == 0 {
		verts[1], verts[start] = verts[start], verts[1]
	} else {
		verts[1], verts[end] = verts[end], verts[1]
	}

	a := verts[0]
	b := verts[1]

	return QHullReduce(tol, verts[2:], count-2, a, b, a, verts[1:]) + 1
}

// LoopIndexes finds the left most and right most vertices.
func LoopIndexes(verts []Vector) (int, int) {
	start := 0
	end := 0

	min := verts[0]
	max := min

	for i := 1; i < len(verts); i++ {
		v := verts[i]

		if v.X < min.X || (v.X == min.X && v.Y < min.Y) {
			min = v
			start = i
		} else if v.X > max.X || (v.X == max.X && v.Y > max.Y) {
			max = v
			end = i
		}
	}

	return start, end
}

func QHullReduce(tol float64, verts []Vector, count int, a, pivot, b Vector, result []Vector) int {
	if count < 0 {
		return 0
	}

	if count == 0 {
		result[0] = pivot
		return 1
	}

	leftCount := QHullPartition(verts, count, a, pivot, tol)
	index := QHullReduce(tol, verts[1:], leftCount-1, a, verts[0], pivot, result)

	result[index] = pivot
	index++

	rightCount := QHullPartition(verts[leftCount:], count-leftCount, pivot, b, tol)

	// Go doesn't let you just walk off the end of an array, so added a short circuit here
	if rightCount-1 < 0 {
		return index
	}

	return index + QHullReduce(tol, verts[leftCount+1:], rightCount-1, pivot, verts[leftCount], b, result[index:])
}

func QHullPartition(verts []Vector, count int, a, b Vector, tol float64) int {
	if count == 0 {
		return 0
	}

	max := 0.0
	pivot := 0

	delta := b.Sub(a)
	valueTol := tol * delta.Length()

	head := 0
	for tail := count - 1; head <= tail; {
		value := verts[head].Sub(a).Cross(delta)
		if value > valueTol {
			if value > max {
				max = value
				pivot = head
			}

			head++
		} else {
			verts[head], verts[tail] = verts[tail], verts[head]
			tail--
		}
	}

	// move the new pivot to the front if it's not already there.
	if pivot != 0 {
		verts[0], verts[pivot] = verts[pivot], verts[0]
	}
	return head
}

// IsConvexCCW reports whether the ring is strictly convex and wound counter-clockwise.
func IsConvexCCW(verts []Vector) bool {
	count := len(verts)
	if count < 3 {
		return false
	}
	for i := 0; i < count; i++ {
		a := verts[i]
		b := verts[(i+1)%count]
		c := verts[(i+2)%count]
		if b.Sub(a).Cross(c.Sub(b)) <= 0 {
			return false
		}
	}
	return true
}
