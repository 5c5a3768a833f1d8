package physics

import (
	"fmt"
	"math"
	"strings"

	"github.com/zeusync/chitin/internal/core/systems/transform"
	"github.com/zeusync/chitin/pkg/collection"
	"github.com/zeusync/chitin/pkg/vector"
)

// Kind tags a shape variant for pair dispatch.
type Kind uint8

const (
	KindCircle Kind = iota + 1
	KindAABB
	KindLine

	// KindUser is the first tag free for shapes defined outside this package.
	KindUser Kind = 32
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindAABB:
		return "aabb"
	case KindLine:
		return "line"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Side is a bitmask of the faces a shape was pushed from during the last
// tick.
type Side uint8

const (
	SideTop Side = 1 << iota
	SideBottom
	SideLeft
	SideRight

	SideNone Side = 0
)

func (s Side) Has(o Side) bool { return s&o == o && o != 0 }

func (s Side) String() string {
	if s == SideNone {
		return "none"
	}
	parts := make([]string, 0, 4)
	for _, it := range []struct {
		bit  Side
		name string
	}{{SideTop, "top"}, {SideBottom, "bottom"}, {SideLeft, "left"}, {SideRight, "right"}} {
		if s&it.bit != 0 {
			parts = append(parts, it.name)
		}
	}
	return strings.Join(parts, "|")
}

// Shape is a collision primitive positioned by a shared Transform.
type Shape interface {
	Kind() Kind
	Transform() *transform.Transform
	// Center is the point used for proximity ordering.
	Center() vector.Vec2
	// Bounds is the axis-aligned box enclosing the shape. Broad phase only.
	Bounds() (tl, br vector.Vec2)
	Base() *Body
}

// Body carries the state every shape shares. Shapes defined outside this
// package embed it.
type Body struct {
	T     *transform.Transform
	sides Side
	prev  *vector.Vec2
}

func (b *Body) Base() *Body                     { return b }
func (b *Body) Transform() *transform.Transform { return b.T }
func (b *Body) Sides() Side                     { return b.sides }
func (b *Body) SetSides(s Side)                 { b.sides = s }

func (b *Body) snapshot() {
	if b.prev == nil {
		b.prev = new(vector.Vec2)
	}
	*b.prev = b.T.Pos
}

// displacement is how far the body moved since its last snapshot.
func (b *Body) displacement() vector.Vec2 {
	if b.prev == nil {
		return vector.Zero
	}
	return b.T.Pos.Sub(*b.prev)
}

// Group is the working set handed to collision work.
type Group = collection.Group[Shape]

func NewGroup(shapes ...Shape) *Group {
	return collection.NewGroup(shapes...)
}

type Circle struct {
	Body
	Radius float64
}

func NewCircle(t *transform.Transform, radius float64) (*Circle, error) {
	if t == nil {
		return nil, ErrNilTransform
	}
	if radius < 0 || math.IsNaN(radius) {
		return nil, fmt.Errorf("%w: radius %v", ErrInvalidExtent, radius)
	}
	return &Circle{Body: Body{T: t}, Radius: radius}, nil
}

func (c *Circle) Kind() Kind          { return KindCircle }
func (c *Circle) Center() vector.Vec2 { return c.T.Pos }

func (c *Circle) Bounds() (tl, br vector.Vec2) {
	return c.T.Pos.SSub(c.Radius), c.T.Pos.SAdd(c.Radius)
}

type AABB struct {
	Body
	HalfSize vector.Vec2
}

// NewAABB builds a box from its full size.
func NewAABB(t *transform.Transform, size vector.Vec2) (*AABB, error) {
	return NewAABBHalf(t, size.SMul(0.5))
}

func NewAABBHalf(t *transform.Transform, half vector.Vec2) (*AABB, error) {
	if t == nil {
		return nil, ErrNilTransform
	}
	if half.X < 0 || half.Y < 0 || math.IsNaN(half.X) || math.IsNaN(half.Y) {
		return nil, fmt.Errorf("%w: halfsize %v", ErrInvalidExtent, half)
	}
	return &AABB{Body: Body{T: t}, HalfSize: half}, nil
}

func (a *AABB) Kind() Kind          { return KindAABB }
func (a *AABB) Center() vector.Vec2 { return a.T.Pos }

func (a *AABB) Bounds() (tl, br vector.Vec2) {
	return a.T.Pos.Sub(a.HalfSize), a.T.Pos.Add(a.HalfSize)
}

// Line is a segment from its transform position to position+End.
type Line struct {
	Body
	End vector.Vec2
}

func NewLine(t *transform.Transform, end vector.Vec2) (*Line, error) {
	if t == nil {
		return nil, ErrNilTransform
	}
	return &Line{Body: Body{T: t}, End: end}, nil
}

func (l *Line) Kind() Kind { return KindLine }

func (l *Line) Points() (a, b vector.Vec2) {
	return l.T.Pos, l.T.Pos.Add(l.End)
}

func (l *Line) Center() vector.Vec2 { return l.T.Pos.Add(l.End.SMul(0.5)) }

func (l *Line) Bounds() (tl, br vector.Vec2) {
	a, b := l.Points()
	return a.Min(b), a.Max(b)
}
