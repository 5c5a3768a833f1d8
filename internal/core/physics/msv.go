package physics

import (
	"fmt"
	"math"

	"github.com/zeusync/chitin/pkg/vector"
)

// MSVFunc returns the minimum separating vector of a against b: the
// smallest translation that, added to a, ends the overlap. The zero vector
// means the shapes do not overlap.
type MSVFunc func(a, b Shape) vector.Vec2

// OverlapFunc is a boolean-only test that must agree exactly with the
// MSVFunc registered for the same pair.
type OverlapFunc func(a, b Shape) bool

type pairKey struct{ a, b Kind }

// Dispatcher maps ordered kind pairs to separating-vector routines.
type Dispatcher struct {
	msv     map[pairKey]MSVFunc
	overlap map[pairKey]OverlapFunc

	// observer sees every overlapping pair a traversal visits, once per
	// pair, before callbacks run. tile is the tilemap index for tile
	// contacts and NoTile otherwise; a tile b is the observer's own copy.
	observer func(a, b Shape, msv vector.Vec2, tile int)
}

// NoTile marks a contact that did not come from a tilemap.
const NoTile = -1

// builtin is shared by the package-level helpers and never mutated.
var builtin = NewDispatcher()

// NewDispatcher returns a dispatcher with every built-in pair registered.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		msv:     make(map[pairKey]MSVFunc, 9),
		overlap: make(map[pairKey]OverlapFunc, 2),
	}
	d.Register(KindAABB, KindAABB, msvAABBAABB)
	d.Register(KindCircle, KindCircle, msvCircleCircle)
	d.Register(KindAABB, KindCircle, msvAABBCircle)
	d.Register(KindLine, KindLine, msvLineLine)
	d.Register(KindCircle, KindLine, msvCircleLine)

	d.overlap[pairKey{KindAABB, KindAABB}] = overlapAABBAABB
	d.overlap[pairKey{KindCircle, KindCircle}] = overlapCircleCircle
	return d
}

// Register installs fn for (ka, kb) and its negation for (kb, ka). A
// same-kind registration installs fn only. Any fast overlap path for either
// ordering is dropped, since it may no longer agree with fn.
func (d *Dispatcher) Register(ka, kb Kind, fn MSVFunc) {
	d.msv[pairKey{ka, kb}] = fn
	delete(d.overlap, pairKey{ka, kb})
	if ka == kb {
		return
	}
	d.msv[pairKey{kb, ka}] = func(a, b Shape) vector.Vec2 {
		return fn(b, a).Inverse()
	}
	delete(d.overlap, pairKey{kb, ka})
}

// view shares d's routine tables under a separate observer, so systems
// handed the same dispatcher keep their contacts apart while still seeing
// each other's registrations.
func (d *Dispatcher) view(observer func(a, b Shape, msv vector.Vec2, tile int)) *Dispatcher {
	return &Dispatcher{msv: d.msv, overlap: d.overlap, observer: observer}
}

func (d *Dispatcher) Supports(ka, kb Kind) bool {
	_, ok := d.msv[pairKey{ka, kb}]
	return ok
}

func (d *Dispatcher) lookup(a, b Shape) (MSVFunc, error) {
	fn, ok := d.msv[pairKey{a.Kind(), b.Kind()}]
	if !ok {
		return nil, fmt.Errorf("%w: %s vs %s", ErrUnsupportedPair, a.Kind(), b.Kind())
	}
	return fn, nil
}

func (d *Dispatcher) MSV(a, b Shape) (vector.Vec2, error) {
	fn, err := d.lookup(a, b)
	if err != nil {
		return vector.Zero, err
	}
	return fn(a, b), nil
}

// Overlaps reports whether a and b overlap, using a fast path when one is
// registered for the pair.
func (d *Dispatcher) Overlaps(a, b Shape) (bool, error) {
	if fn, ok := d.overlap[pairKey{a.Kind(), b.Kind()}]; ok {
		return fn(a, b), nil
	}
	m, err := d.MSV(a, b)
	if err != nil {
		return false, err
	}
	return !m.IsZero(), nil
}

// MSV computes the separating vector of a against b with the built-in
// routines.
func MSV(a, b Shape) (vector.Vec2, error) { return builtin.MSV(a, b) }

func Overlaps(a, b Shape) (bool, error) { return builtin.Overlaps(a, b) }

// Built-in routines. The exported-shape wrappers unpack the concrete types
// and hand plain vectors to the geometry below.

func msvAABBAABB(a, b Shape) vector.Vec2 {
	ba, bb := a.(*AABB), b.(*AABB)
	return separateBoxes(ba.T.Pos, ba.HalfSize, bb.T.Pos, bb.HalfSize)
}

func msvCircleCircle(a, b Shape) vector.Vec2 {
	ca, cb := a.(*Circle), b.(*Circle)
	return separateCircles(ca.T.Pos, ca.Radius, cb.T.Pos, cb.Radius)
}

func msvAABBCircle(a, b Shape) vector.Vec2 {
	box, c := a.(*AABB), b.(*Circle)
	return separateBoxCircle(box.T.Pos, box.HalfSize, c.T.Pos, c.Radius)
}

func msvLineLine(a, b Shape) vector.Vec2 {
	la, lb := a.(*Line), b.(*Line)
	a0, a1 := la.Points()
	b0, b1 := lb.Points()
	return separateSegments(a0, a1, b0, b1)
}

func msvCircleLine(a, b Shape) vector.Vec2 {
	c, l := a.(*Circle), b.(*Line)
	l0, l1 := l.Points()
	return separateCircleSegment(c.T.Pos, c.Radius, l0, l1)
}

func overlapAABBAABB(a, b Shape) bool {
	ba, bb := a.(*AABB), b.(*AABB)
	d := ba.T.Pos.Sub(bb.T.Pos).Abs()
	t := ba.HalfSize.Add(bb.HalfSize)
	return t.X-d.X > 0 && t.Y-d.Y > 0
}

func overlapCircleCircle(a, b Shape) bool {
	ca, cb := a.(*Circle), b.(*Circle)
	return ca.Radius+cb.Radius-ca.T.Pos.Distance(cb.T.Pos) > 0
}

// sign treats zero as positive so coincident centres still separate.
func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// separateBoxes pushes box a out of box b along the axis of least
// penetration. The x axis wins ties.
func separateBoxes(pa, ha, pb, hb vector.Vec2) vector.Vec2 {
	d := pa.Sub(pb)
	total := ha.Add(hb)
	px := total.X - math.Abs(d.X)
	py := total.Y - math.Abs(d.Y)
	if px <= 0 || py <= 0 {
		return vector.Zero
	}
	if px <= py {
		return vector.Vec2{X: sign(d.X) * px}
	}
	return vector.Vec2{Y: sign(d.Y) * py}
}

func separateCircles(pa vector.Vec2, ra float64, pb vector.Vec2, rb float64) vector.Vec2 {
	d := pa.Sub(pb)
	l := d.Length()
	pen := ra + rb - l
	if pen <= 0 {
		return vector.Zero
	}
	if l == 0 {
		return vector.Vec2{Y: pen}
	}
	return d.SMul(pen / l)
}

// separateBoxCircle treats the circle as a box while its centre is within
// the box's extent on either axis, and as a circle against the nearest
// corner otherwise.
func separateBoxCircle(pa, h, pc vector.Vec2, r float64) vector.Vec2 {
	d := pa.Sub(pc)
	if math.Abs(d.X) <= h.X || math.Abs(d.Y) <= h.Y {
		return separateBoxes(pa, h, pc, vector.Splat(r))
	}
	corner := vector.Vec2{
		X: pa.X - sign(d.X)*h.X,
		Y: pa.Y - sign(d.Y)*h.Y,
	}
	return separateCircles(corner, 0, pc, r)
}

// separateSegments resolves a proper crossing of a0-a1 and b0-b1. Parallel
// or merely touching segments do not overlap. Of the four ways to slide one
// segment so an endpoint lands on the other's line, the shortest wins.
func separateSegments(a0, a1, b0, b1 vector.Vec2) vector.Vec2 {
	r := a1.Sub(a0)
	s := b1.Sub(b0)
	den := r.Cross(s)
	if den == 0 {
		return vector.Zero
	}
	q := b0.Sub(a0)
	t := q.Cross(s) / den
	u := q.Cross(r) / den
	if t <= 0 || t >= 1 || u <= 0 || u >= 1 {
		return vector.Zero
	}

	na := r.Rot90R().Normalise()
	nb := s.Rot90R().Normalise()
	candidates := [4]vector.Vec2{
		nb.SMul(-a0.Sub(b0).Dot(nb)),
		nb.SMul(-a1.Sub(b0).Dot(nb)),
		na.SMul(b0.Sub(a0).Dot(na)),
		na.SMul(b1.Sub(a0).Dot(na)),
	}
	best := candidates[0]
	bestLen := best.LengthSquared()
	for _, c := range candidates[1:] {
		if l := c.LengthSquared(); l < bestLen {
			best, bestLen = c, l
		}
	}
	return best
}

// separateCircleSegment pushes the circle off the segment. Centres that
// project outside the segment collide with the nearest endpoint instead.
func separateCircleSegment(c vector.Vec2, r float64, l0, l1 vector.Vec2) vector.Vec2 {
	dir := l1.Sub(l0)
	length := dir.NormaliseLen(nil)
	if length == 0 {
		return separateCircles(c, r, l0, 0)
	}
	rel := c.Sub(l0)
	proj := rel.Dot(dir)
	switch {
	case proj < 0:
		return separateCircles(c, r, l0, 0)
	case proj > length:
		return separateCircles(c, r, l1, 0)
	}
	n := dir.Rot90R()
	dist := rel.Dot(n)
	pen := r - math.Abs(dist)
	if pen <= 0 {
		return vector.Zero
	}
	if dist < 0 {
		n = n.Inverse()
	}
	return n.SMul(pen)
}
