package snapshot

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/chitin/internal/core/physics"
)

// Body is the wire form of one shape.
type Body struct {
	ID    int        `json:"id"`
	Kind  string     `json:"kind"`
	Pos   [2]float64 `json:"pos"`
	Vel   [2]float64 `json:"vel"`
	Ext   [2]float64 `json:"ext"`
	Sides uint8      `json:"sides,omitempty"`
}

// Frame is the observable state of a set of shapes after a tick.
type Frame struct {
	Tick   uint64 `json:"tick"`
	Bodies []Body `json:"bodies"`
}

// Contact is the wire form of one physics.Contact. Tile is the tile index
// for tilemap contacts and -1 otherwise.
type Contact struct {
	Tick uint64     `json:"tick"`
	Work uint64     `json:"work"`
	Tile int        `json:"tile"`
	A    [2]float64 `json:"a"`
	B    [2]float64 `json:"b"`
	MSV  [2]float64 `json:"msv"`
}

// CaptureContact records where both shapes stood when c was reported.
func CaptureContact(tick uint64, c physics.Contact) Contact {
	a, b := c.A.Transform().Pos, c.B.Transform().Pos
	return Contact{
		Tick: tick,
		Work: uint64(c.Work),
		Tile: c.Tile,
		A:    [2]float64{a.X, a.Y},
		B:    [2]float64{b.X, b.Y},
		MSV:  [2]float64{c.MSV.X, c.MSV.Y},
	}
}

// Capture records shapes in order. Ext is the radius twice for circles,
// the halfsize for boxes and the end offset for lines.
func Capture(tick uint64, shapes []physics.Shape) Frame {
	f := Frame{Tick: tick, Bodies: make([]Body, 0, len(shapes))}
	for i, s := range shapes {
		t := s.Transform()
		b := Body{
			ID:    i,
			Kind:  s.Kind().String(),
			Pos:   [2]float64{t.Pos.X, t.Pos.Y},
			Vel:   [2]float64{t.Vel.X, t.Vel.Y},
			Sides: uint8(s.Base().Sides()),
		}
		switch v := s.(type) {
		case *physics.Circle:
			b.Ext = [2]float64{v.Radius, v.Radius}
		case *physics.AABB:
			b.Ext = [2]float64{v.HalfSize.X, v.HalfSize.Y}
		case *physics.Line:
			b.Ext = [2]float64{v.End.X, v.End.Y}
		}
		f.Bodies = append(f.Bodies, b)
	}
	return f
}

// Checksum hashes the bodies but not the tick, so two frames with the same
// state match regardless of when they were taken.
func (f Frame) Checksum() uint64 {
	d := xxhash.New()
	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	putf := func(v float64) { put(math.Float64bits(v)) }

	put(uint64(len(f.Bodies)))
	for _, b := range f.Bodies {
		put(uint64(b.ID))
		_, _ = d.WriteString(b.Kind)
		putf(b.Pos[0])
		putf(b.Pos[1])
		putf(b.Vel[0])
		putf(b.Vel[1])
		putf(b.Ext[0])
		putf(b.Ext[1])
		put(uint64(b.Sides))
	}
	return d.Sum64()
}
