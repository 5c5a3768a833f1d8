package vector

import "math"

// Vec2 is a 2D vector value.
//
// Methods come in two flavours. Value-receiver methods (Add, SMul, Normalise...)
// return a new vector. Pointer-receiver "Into" methods write their result into
// dst, or into the receiver when dst is nil, and return the written vector so
// calls can be chained. Every Into method reads all of its operands before it
// writes, so dst may alias the receiver or any operand.
type Vec2 struct {
	X, Y float64
}

// Zero is the zero vector.
var Zero = Vec2{}

// New builds a vector from its components.
func New(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

// Splat builds a vector with both components set to v.
func Splat(v float64) Vec2 { return Vec2{X: v, Y: v} }

func (v *Vec2) target(dst *Vec2) *Vec2 {
	if dst == nil {
		return v
	}
	return dst
}

// Set overwrites both components and returns the receiver.
func (v *Vec2) Set(x, y float64) *Vec2 {
	v.X, v.Y = x, y
	return v
}

// IsZero reports whether both components are exactly zero.
func (v Vec2) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Vector arithmetic

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(o Vec2) Vec2 { return Vec2{v.X * o.X, v.Y * o.Y} }
func (v Vec2) Div(o Vec2) Vec2 { return Vec2{v.X / o.X, v.Y / o.Y} }

func (v *Vec2) AddInto(o Vec2, dst *Vec2) *Vec2 {
	r := v.Add(o)
	d := v.target(dst)
	*d = r
	return d
}

func (v *Vec2) SubInto(o Vec2, dst *Vec2) *Vec2 {
	r := v.Sub(o)
	d := v.target(dst)
	*d = r
	return d
}

func (v *Vec2) MulInto(o Vec2, dst *Vec2) *Vec2 {
	r := v.Mul(o)
	d := v.target(dst)
	*d = r
	return d
}

func (v *Vec2) DivInto(o Vec2, dst *Vec2) *Vec2 {
	r := v.Div(o)
	d := v.target(dst)
	*d = r
	return d
}

// Scalar arithmetic

func (v Vec2) SAdd(s float64) Vec2 { return Vec2{v.X + s, v.Y + s} }
func (v Vec2) SSub(s float64) Vec2 { return Vec2{v.X - s, v.Y - s} }
func (v Vec2) SMul(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) SDiv(s float64) Vec2 { return Vec2{v.X / s, v.Y / s} }

func (v *Vec2) SAddInto(s float64, dst *Vec2) *Vec2 {
	d := v.target(dst)
	*d = v.SAdd(s)
	return d
}

func (v *Vec2) SSubInto(s float64, dst *Vec2) *Vec2 {
	d := v.target(dst)
	*d = v.SSub(s)
	return d
}

func (v *Vec2) SMulInto(s float64, dst *Vec2) *Vec2 {
	d := v.target(dst)
	*d = v.SMul(s)
	return d
}

func (v *Vec2) SDivInto(s float64, dst *Vec2) *Vec2 {
	d := v.target(dst)
	*d = v.SDiv(s)
	return d
}

// Length and distance

func (v Vec2) LengthSquared() float64 { return v.X*v.X + v.Y*v.Y }
func (v Vec2) Length() float64        { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

func (v Vec2) DistanceSquared(o Vec2) float64 {
	dx, dy := v.X-o.X, v.Y-o.Y
	return dx*dx + dy*dy
}

func (v Vec2) Distance(o Vec2) float64 {
	return math.Sqrt(v.DistanceSquared(o))
}

// Normalise returns the unit vector in v's direction. The zero vector
// normalises to the zero vector.
func (v Vec2) Normalise() Vec2 {
	n, _ := v.normalised()
	return n
}

func (v Vec2) normalised() (Vec2, float64) {
	l := v.Length()
	if l == 0 {
		return Vec2{}, 0
	}
	return Vec2{v.X / l, v.Y / l}, l
}

func (v *Vec2) NormaliseInto(dst *Vec2) *Vec2 {
	d := v.target(dst)
	*d = v.Normalise()
	return d
}

// NormaliseLen normalises into dst (or the receiver) and returns the length
// the vector had before normalisation.
func (v *Vec2) NormaliseLen(dst *Vec2) float64 {
	n, l := v.normalised()
	*v.target(dst) = n
	return l
}

func (v Vec2) Inverse() Vec2 { return Vec2{-v.X, -v.Y} }

// Abs, min/max, clamp

func (v Vec2) Abs() Vec2 { return Vec2{math.Abs(v.X), math.Abs(v.Y)} }

func (v *Vec2) AbsInto(dst *Vec2) *Vec2 {
	d := v.target(dst)
	*d = v.Abs()
	return d
}

// Min is the elementwise minimum of v and o.
func (v Vec2) Min(o Vec2) Vec2 { return Vec2{math.Min(v.X, o.X), math.Min(v.Y, o.Y)} }

// Max is the elementwise maximum of v and o.
func (v Vec2) Max(o Vec2) Vec2 { return Vec2{math.Max(v.X, o.X), math.Max(v.Y, o.Y)} }

func (v *Vec2) MinInto(o Vec2, dst *Vec2) *Vec2 {
	d := v.target(dst)
	*d = v.Min(o)
	return d
}

func (v *Vec2) MaxInto(o Vec2, dst *Vec2) *Vec2 {
	d := v.target(dst)
	*d = v.Max(o)
	return d
}

// Clamp limits each component to [lo, hi].
func (v Vec2) Clamp(lo, hi float64) Vec2 {
	return Vec2{Clampf(v.X, lo, hi), Clampf(v.Y, lo, hi)}
}

func (v *Vec2) ClampInto(lo, hi float64, dst *Vec2) *Vec2 {
	d := v.target(dst)
	*d = v.Clamp(lo, hi)
	return d
}

// Products and projections

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Cross is the z component of the 3D cross product of v and o.
func (v Vec2) Cross(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }

// SProj is the scalar projection of v onto o. Projecting onto the zero vector
// yields 0.
func (v Vec2) SProj(o Vec2) float64 {
	l := o.Length()
	if l == 0 {
		return 0
	}
	return v.Dot(o) / l
}

// VProj is the vector projection of v onto o.
func (v Vec2) VProj(o Vec2) Vec2 {
	dd := o.Dot(o)
	if dd == 0 {
		return Vec2{}
	}
	return o.SMul(v.Dot(o) / dd)
}

// Rotations

// RotR rotates v by angle radians, counter-clockwise in a y-up frame.
func (v Vec2) RotR(angle float64) Vec2 {
	s, c := math.Sincos(angle)
	return Vec2{v.X*c - v.Y*s, v.X*s + v.Y*c}
}

// RotL rotates v by -angle radians.
func (v Vec2) RotL(angle float64) Vec2 { return v.RotR(-angle) }

func (v Vec2) RotRDeg(deg float64) Vec2 { return v.RotR(deg * math.Pi / 180) }
func (v Vec2) RotLDeg(deg float64) Vec2 { return v.RotL(deg * math.Pi / 180) }

func (v *Vec2) RotRInto(angle float64, dst *Vec2) *Vec2 {
	d := v.target(dst)
	*d = v.RotR(angle)
	return d
}

func (v *Vec2) RotLInto(angle float64, dst *Vec2) *Vec2 {
	return v.RotRInto(-angle, dst)
}

// Rot90L turns v a quarter turn without trigonometry: (x, y) -> (y, -x).
func (v Vec2) Rot90L() Vec2 { return Vec2{v.Y, -v.X} }

// Rot90R is the opposite quarter turn: (x, y) -> (-y, x).
func (v Vec2) Rot90R() Vec2 { return Vec2{-v.Y, v.X} }

func (v Vec2) Rot180() Vec2 { return Vec2{-v.X, -v.Y} }

func (v *Vec2) Rot90LInto(dst *Vec2) *Vec2 {
	d := v.target(dst)
	*d = v.Rot90L()
	return d
}

func (v *Vec2) Rot90RInto(dst *Vec2) *Vec2 {
	d := v.target(dst)
	*d = v.Rot90R()
	return d
}

func (v *Vec2) Rot180Into(dst *Vec2) *Vec2 {
	d := v.target(dst)
	*d = v.Rot180()
	return d
}

// ApproxEqual reports whether v and o differ by at most eps on each axis.
func (v Vec2) ApproxEqual(o Vec2, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps
}
