package impulse

type Vector3 struct {
	X, Y, Z float64
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector3) Mult(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}

func (v Vector3) XY() Vector {
	return Vector{v.X, v.Y}
}

// Mat2x2 is stored row by row.
type Mat2x2 struct {
	a, b, c, d float64
}

func NewMat2x2(a, b, c, d float64) Mat2x2 {
	return Mat2x2{a, b, c, d}
}

func (m Mat2x2) Transform(v Vector) Vector {
	return Vector{v.X*m.a + v.Y*m.b, v.X*m.c + v.Y*m.d}
}

// Solve returns x such that m*x = v. A singular matrix solves to the zero vector.
func (m Mat2x2) Solve(v Vector) Vector {
	det := m.a*m.d - m.b*m.c
	if det != 0 {
		det = 1 / det
	}
	return Vector{det * (m.d*v.X - m.b*v.Y), det * (m.a*v.Y - m.c*v.X)}
}

// Mat3x3 stores its three columns.
type Mat3x3 struct {
	ex, ey, ez Vector3
}

// Solve33 returns x such that m*x = v.
func (m Mat3x3) Solve33(v Vector3) Vector3 {
	det := m.ex.Dot(m.ey.Cross(m.ez))
	if det != 0 {
		det = 1 / det
	}
	return Vector3{
		det * v.Dot(m.ey.Cross(m.ez)),
		det * m.ex.Dot(v.Cross(m.ez)),
		det * m.ex.Dot(m.ey.Cross(v)),
	}
}

// Solve22 solves the upper left 2x2 block only.
func (m Mat3x3) Solve22(v Vector) Vector {
	a11, a12, a21, a22 := m.ex.X, m.ey.X, m.ex.Y, m.ey.Y
	det := a11*a22 - a12*a21
	if det != 0 {
		det = 1 / det
	}
	return Vector{det * (a22*v.X - a12*v.Y), det * (a11*v.Y - a21*v.X)}
}

// k_tensor builds the effective mass matrix of a point to point constraint.
func k_tensor(a, b *Body, r1, r2 Vector) Mat2x2 {
	m_sum := a.m_inv + b.m_inv

	k11 := m_sum
	k12 := 0.0
	k21 := 0.0
	k22 := m_sum

	a_i_inv := a.i_inv
	r1xsq := r1.X * r1.X * a_i_inv
	r1ysq := r1.Y * r1.Y * a_i_inv
	r1nxy := -r1.X * r1.Y * a_i_inv
	k11 += r1ysq
	k12 += r1nxy
	k21 += r1nxy
	k22 += r1xsq

	b_i_inv := b.i_inv
	r2xsq := r2.X * r2.X * b_i_inv
	r2ysq := r2.Y * r2.Y * b_i_inv
	r2nxy := -r2.X * r2.Y * b_i_inv
	k11 += r2ysq
	k12 += r2nxy
	k21 += r2nxy
	k22 += r2xsq

	return NewMat2x2(k11, k12, k21, k22)
}

// k_scalar returns the inverse effective mass along n.
func k_scalar(a, b *Body, r1, r2, n Vector) float64 {
	rcn1 := r1.Cross(n)
	rcn2 := r2.Cross(n)
	return a.m_inv + b.m_inv + a.i_inv*rcn1*rcn1 + b.i_inv*rcn2*rcn2
}

func invOrZero(k float64) float64 {
	if k == 0 {
		return 0
	}
	return 1 / k
}
