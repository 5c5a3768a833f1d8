package physics

import (
	"github.com/zeusync/chitin/pkg/generic"
	"github.com/zeusync/chitin/pkg/vector"
)

// Callback receives an overlapping pair and the separating vector of a
// against b.
type Callback func(a, b Shape, msv vector.Vec2)

// Dispatch selects how a callback sees an overlapping pair.
type Dispatch uint8

const (
	// CallbackSeparate invokes cb(a, b, msv) then cb(b, a, -msv).
	CallbackSeparate Dispatch = iota
	// CallbackTogether invokes cb(a, b, msv) once.
	CallbackTogether
)

func (m Dispatch) String() string {
	if m == CallbackTogether {
		return "together"
	}
	return "separate"
}

func (d *Dispatcher) hit(a, b Shape, msv vector.Vec2, mode Dispatch, cb Callback) {
	if d.observer != nil {
		d.observer(a, b, msv, NoTile)
	}
	if cb == nil {
		return
	}
	cb(a, b, msv)
	if mode == CallbackSeparate {
		cb(b, a, msv.Inverse())
	}
}

// Pair tests a against b and reports whether they overlapped. cb may be nil
// for a pure query.
func (d *Dispatcher) Pair(a, b Shape, mode Dispatch, cb Callback) (bool, error) {
	m, err := d.MSV(a, b)
	if err != nil {
		return false, err
	}
	if m.IsZero() {
		return false, nil
	}
	d.hit(a, b, m, mode, cb)
	return true, nil
}

// Group visits every unordered pair in g once, in index order. Each pair's
// separating vector is computed when the pair is reached, so earlier
// callbacks that move shapes are seen by later pairs.
//
// Members are walked from a copy taken on entry, so callbacks may add or
// remove shapes. A shape removed mid-walk is skipped from then on; a shape
// added mid-walk waits for the next traversal.
func (d *Dispatcher) Group(g *Group, mode Dispatch, cb Callback) (bool, error) {
	buf := borrow(g)
	defer release(buf)
	items, rev := *buf, g.Rev()

	found := false
	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if g.Rev() != rev && !(g.Contains(items[i]) && g.Contains(items[j])) {
				continue
			}
			hit, err := d.Pair(items[i], items[j], mode, cb)
			if err != nil {
				return found, err
			}
			found = found || hit
		}
	}
	return found, nil
}

// Groups visits every pair with one member from ga and one from gb. A shape
// never collides with itself; passing the same group twice is Group. Both
// groups are walked from copies, as in Group.
func (d *Dispatcher) Groups(ga, gb *Group, mode Dispatch, cb Callback) (bool, error) {
	if ga == gb {
		return d.Group(ga, mode, cb)
	}
	bufA, bufB := borrow(ga), borrow(gb)
	defer release(bufA)
	defer release(bufB)
	revA, revB := ga.Rev(), gb.Rev()

	found := false
	for _, a := range *bufA {
		for _, b := range *bufB {
			if a == b {
				continue
			}
			if ga.Rev() != revA && !ga.Contains(a) {
				break
			}
			if gb.Rev() != revB && !gb.Contains(b) {
				continue
			}
			hit, err := d.Pair(a, b, mode, cb)
			if err != nil {
				return found, err
			}
			found = found || hit
		}
	}
	return found, nil
}

var members = generic.NewSlicePool[Shape](64)

func borrow(g *Group) *[]Shape {
	buf := members.Get()
	*buf = append(*buf, g.Items()...)
	return buf
}

// release drops the shape references before pooling the buffer.
func release(buf *[]Shape) {
	clear(*buf)
	members.Put(buf)
}

// Package-level traversals over the built-in table.

func Pair(a, b Shape, mode Dispatch, cb Callback) (bool, error) {
	return builtin.Pair(a, b, mode, cb)
}

func GroupOverlap(g *Group, mode Dispatch, cb Callback) (bool, error) {
	return builtin.Group(g, mode, cb)
}

func GroupsOverlap(ga, gb *Group, mode Dispatch, cb Callback) (bool, error) {
	return builtin.Groups(ga, gb, mode, cb)
}
