package impulse

import "math"

func AreaForCircle(r float64) float64 {
	return math.Pi * r * r
}

// MomentForCircle is the moment of a solid disc about the local origin, with its center at offset.
func MomentForCircle(m, r float64, offset Vector) float64 {
	return m * (0.5*r*r + offset.LengthSq())
}

// AreaForSegment is the area of the capsule swept by a segment of the given radius.
func AreaForSegment(a, b Vector, r float64) float64 {
	return r * (math.Pi*r + 2*a.Distance(b))
}

func MomentForSegment(m float64, a, b Vector, r float64) float64 {
	offset := a.Lerp(b, 0.5)
	return m * ((b.DistanceSq(a)+4*r*r)/12 + offset.LengthSq())
}

// AreaForPoly returns the signed area. Counter-clockwise winding is positive.
func AreaForPoly(verts []Vector) float64 {
	area := 0.0
	count := len(verts)
	for i := 0; i < count; i++ {
		area += verts[i].Cross(verts[(i+1)%count])
	}
	return area * 0.5
}

func CentroidForPoly(verts []Vector) Vector {
	sum := 0.0
	vsum := Vector{}
	count := len(verts)

	for i := 0; i < count; i++ {
		v1 := verts[i]
		v2 := verts[(i+1)%count]
		cross := v1.Cross(v2)

		sum += cross
		vsum = vsum.Add(v1.Add(v2).Mult(cross))
	}

	if sum == 0 {
		// degenerate ring, fall back to the vertex average
		avg := Vector{}
		for _, v := range verts {
			avg = avg.Add(v)
		}
		if count == 0 {
			return avg
		}
		return avg.Mult(1 / float64(count))
	}
	return vsum.Mult(1.0 / (3.0 * sum))
}

// MomentForPoly is the moment of a solid polygon about the local origin.
func MomentForPoly(m float64, verts []Vector) float64 {
	var sum1, sum2 float64
	count := len(verts)
	for i := 0; i < count; i++ {
		v1 := verts[i]
		v2 := verts[(i+1)%count]

		a := v2.Cross(v1)
		b := v1.Dot(v1) + v1.Dot(v2) + v2.Dot(v2)

		sum1 += a * b
		sum2 += a
	}
	if sum2 == 0 {
		return 0
	}
	return (m * sum1) / (6.0 * sum2)
}
