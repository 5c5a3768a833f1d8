package physics

import (
	"github.com/zeusync/chitin/internal/core/systems/transform"
	"github.com/zeusync/chitin/pkg/vector"
)

// DefaultResolveScale splits a correction evenly between both shapes.
const DefaultResolveScale = 0.5

// Resolver applies position corrections for overlapping pairs.
type Resolver struct {
	Scale float64
}

func NewResolver() *Resolver { return &Resolver{Scale: DefaultResolveScale} }

// Resolve moves a along msv and b against it, each by Scale of the vector.
func (r *Resolver) Resolve(a, b Shape, msv vector.Vec2) {
	step := msv.SMul(r.Scale)
	pa, pb := &a.Transform().Pos, &b.Transform().Pos
	pa.AddInto(step, nil)
	pb.SubInto(step, nil)
}

// ResolveOnlyA moves a by the full vector and leaves b where it is.
func (r *Resolver) ResolveOnlyA(a, _ Shape, msv vector.Vec2) {
	a.Transform().Pos.AddInto(msv, nil)
}

var defaultResolver = NewResolver()

// CallbackResolve and CallbackResolveOnlyA are the stock collide callbacks.
var (
	CallbackResolve      Callback = defaultResolver.Resolve
	CallbackResolveOnlyA Callback = defaultResolver.ResolveOnlyA
)

// ReactionKind selects what happens to a shape that was moved during the
// tick's resolution phase.
type ReactionKind uint8

const (
	ReactCollisionInfo ReactionKind = iota + 1
	ReactBounce
	ReactCallback
)

func (k ReactionKind) String() string {
	switch k {
	case ReactCollisionInfo:
		return "collision_info"
	case ReactBounce:
		return "bounce"
	case ReactCallback:
		return "callback"
	default:
		return "unknown"
	}
}

// ReactFunc receives a displaced shape and the unit direction it was
// pushed in.
type ReactFunc func(s Shape, normal vector.Vec2)

type reaction struct {
	id     WorkID
	kind   ReactionKind
	group  *Group
	bounce float64
	slide  float64
	fn     ReactFunc
}

func (r *reaction) apply(s Shape, normal vector.Vec2) {
	switch r.kind {
	case ReactCollisionInfo:
		b := s.Base()
		b.SetSides(b.Sides() | SidesFromNormal(normal))
	case ReactBounce:
		Bounce(s.Transform(), normal, r.bounce, r.slide)
	case ReactCallback:
		r.fn(s, normal)
	}
}

// SidesFromNormal maps a push direction to the faces it came through.
// Diagonal pushes set two sides.
func SidesFromNormal(n vector.Vec2) Side {
	var s Side
	switch {
	case n.Y > 0.5:
		s |= SideTop
	case n.Y < -0.5:
		s |= SideBottom
	}
	switch {
	case n.X > 0.5:
		s |= SideLeft
	case n.X < -0.5:
		s |= SideRight
	}
	return s
}

// Bounce reflects the velocity's normal component scaled by bounce when it
// points into the surface, and scales the tangential component by slide.
func Bounce(t *transform.Transform, n vector.Vec2, bounce, slide float64) {
	v := &t.Vel
	tan := n.Rot90R()
	vn := v.Dot(n)
	vt := v.Dot(tan)
	if vn <= 0 {
		vn = -vn * bounce
	}
	vt *= slide
	*v = n.SMul(vn).Add(tan.SMul(vt))
}
