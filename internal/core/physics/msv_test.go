package physics

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/chitin/internal/core/systems/transform"
	"github.com/zeusync/chitin/pkg/vector"
)

func TestAABBvsAABB(t *testing.T) {
	tests := []struct {
		name   string
		a, b   *AABB
		expect vector.Vec2
	}{
		{"exact", box(t, 0, 0, 1, 1), box(t, 1, 0, 1, 1), vector.New(-1, 0)},
		{"y axis", box(t, 0, 0, 1, 1), box(t, 0.5, 1.5, 1, 1), vector.New(0, -0.5)},
		{"tie prefers x", box(t, 0, 0, 1, 1), box(t, 1, 1, 1, 1), vector.New(-1, 0)},
		{"touching", box(t, 0, 0, 1, 1), box(t, 2, 0, 1, 1), vector.Zero},
		{"apart", box(t, 0, 0, 1, 1), box(t, 5, 5, 1, 1), vector.Zero},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertVec(t, tt.expect, msv(t, tt.a, tt.b))
			assertVec(t, tt.expect.Inverse(), msv(t, tt.b, tt.a))
		})
	}
}

func TestCircleVsCircle(t *testing.T) {
	assertVec(t, vector.New(-0.5, 0), msv(t, circle(t, 0, 0, 1), circle(t, 1.5, 0, 1)))
	assert.True(t, msv(t, circle(t, 0, 0, 1), circle(t, 2, 0, 1)).IsZero(), "touching circles do not overlap")

	m := msv(t, circle(t, 3, 3, 1), circle(t, 3, 3, 1))
	assertVec(t, vector.New(0, 2), m, "coincident centres fall back to +y")
}

func TestAABBvsCircle(t *testing.T) {
	t.Run("edge region", func(t *testing.T) {
		b, c := box(t, 0, 0, 1, 1), circle(t, 1.5, 0, 1)
		assertVec(t, vector.New(-0.5, 0), msv(t, b, c))
		assertVec(t, vector.New(0.5, 0), msv(t, c, b))
	})

	t.Run("corner region", func(t *testing.T) {
		b, c := box(t, 0, 0, 1, 1), circle(t, 1.5, 1.5, 1)
		d := 1 - math.Sqrt(0.5)
		want := vector.New(-1, -1).Normalise().SMul(d)
		assertVec(t, want, msv(t, b, c))
		assertVec(t, want.Inverse(), msv(t, c, b))
	})

	t.Run("corner is rounded", func(t *testing.T) {
		// Box-vs-box would overlap here; the rounded corner does not.
		assert.True(t, msv(t, box(t, 0, 0, 1, 1), circle(t, 1.8, 1.8, 1)).IsZero())
	})
}

func TestLineVsLine(t *testing.T) {
	a := line(t, 0, 0, 10, 0)
	b := line(t, 2, -1, 2, 3)
	assertVec(t, vector.New(0, -1), msv(t, a, b))
	assertVec(t, vector.New(0, 1), msv(t, b, a))

	moved := a.T.Pos.Add(msv(t, a, b))
	a.T.Pos = moved
	assert.True(t, msv(t, a, b).IsZero(), "separated segments only touch")

	assert.True(t, msv(t, line(t, 0, 0, 1, 0), line(t, 0, 0, 2, 0)).IsZero(), "parallel")
	assert.True(t, msv(t, line(t, 0, 0, 1, 0), line(t, 1, -1, 1, 1)).IsZero(), "endpoint touch")
	assert.True(t, msv(t, line(t, 0, 0, 1, 0), line(t, 3, -1, 3, 1)).IsZero(), "apart")
}

func TestCircleVsLine(t *testing.T) {
	l := line(t, 0, 0, 10, 0)

	assertVec(t, vector.New(0, 0.5), msv(t, circle(t, 5, 0.5, 1), l))
	assertVec(t, vector.New(0, -0.5), msv(t, circle(t, 5, -0.5, 1), l))
	assertVec(t, vector.New(0, -0.5), msv(t, l, circle(t, 5, 0.5, 1)))
	assertVec(t, vector.New(0, 1), msv(t, circle(t, 5, 0, 1), l), "centre on the line")
	assert.True(t, msv(t, circle(t, 5, 2, 1), l).IsZero())

	d := 1 - math.Sqrt(0.5)
	want := vector.New(-1, 1).Normalise().SMul(d)
	assertVec(t, want, msv(t, circle(t, -0.5, 0.5, 1), l), "beyond the start")
	assertVec(t, vector.New(0.5, 0), msv(t, circle(t, 10.5, 0, 1), l), "beyond the end")

	degenerate := line(t, 3, 3, 3, 3)
	assertVec(t, vector.New(0.5, 0), msv(t, circle(t, 3.5, 3, 1), degenerate))
}

func TestAABBvsLineIsUnsupported(t *testing.T) {
	b := box(t, 0, 0, 1, 1)
	l := line(t, -2, 0, 2, 0)

	_, err := MSV(b, l)
	require.ErrorIs(t, err, ErrUnsupportedPair)
	assert.Contains(t, err.Error(), "aabb vs line")

	_, err = MSV(l, b)
	assert.ErrorIs(t, err, ErrUnsupportedPair)

	_, err = Overlaps(l, b)
	assert.ErrorIs(t, err, ErrUnsupportedPair)
}

type point struct {
	Body
}

const kindPoint = KindUser

func (p *point) Kind() Kind                         { return kindPoint }
func (p *point) Center() vector.Vec2                { return p.T.Pos }
func (p *point) Bounds() (vector.Vec2, vector.Vec2) { return p.T.Pos, p.T.Pos }

func TestRegisterCustomKind(t *testing.T) {
	d := NewDispatcher()
	p := &point{Body{T: transform.At(0.5, 0)}}
	c := circle(t, 0, 0, 1)

	_, err := d.MSV(p, c)
	require.ErrorIs(t, err, ErrUnsupportedPair)

	d.Register(kindPoint, KindCircle, func(a, b Shape) vector.Vec2 {
		return separateCircles(a.Transform().Pos, 0, b.Transform().Pos, b.(*Circle).Radius)
	})
	assert.True(t, d.Supports(kindPoint, KindCircle))
	assert.True(t, d.Supports(KindCircle, kindPoint))

	m, err := d.MSV(p, c)
	require.NoError(t, err)
	assertVec(t, vector.New(0.5, 0), m)

	m, err = d.MSV(c, p)
	require.NoError(t, err)
	assertVec(t, vector.New(-0.5, 0), m)

	_, err = MSV(p, c)
	assert.ErrorIs(t, err, ErrUnsupportedPair, "package table is not affected")
}

func randomShape(t *testing.T, r *rand.Rand) Shape {
	x, y := r.Float64()*4-2, r.Float64()*4-2
	switch r.IntN(3) {
	case 0:
		return circle(t, x, y, 0.1+r.Float64()*1.5)
	case 1:
		return box(t, x, y, 0.1+r.Float64()*1.5, 0.1+r.Float64()*1.5)
	default:
		return line(t, x, y, x+r.Float64()*4-2, y+r.Float64()*4-2)
	}
}

func TestMSVIsAntisymmetric(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	checked := 0
	for range 2000 {
		a, b := randomShape(t, r), randomShape(t, r)
		if !builtin.Supports(a.Kind(), b.Kind()) {
			continue
		}
		ab, ba := msv(t, a, b), msv(t, b, a)
		require.True(t, ab.ApproxEqual(ba.Inverse(), eps), "%s vs %s: %v and %v", a.Kind(), b.Kind(), ab, ba)
		checked++
	}
	assert.Greater(t, checked, 1000)
}

func TestOverlapsAgreesWithMSV(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	hits := 0
	for range 2000 {
		a, b := randomShape(t, r), randomShape(t, r)
		if !builtin.Supports(a.Kind(), b.Kind()) {
			continue
		}
		m := msv(t, a, b)
		ok, err := Overlaps(a, b)
		require.NoError(t, err)
		require.Equal(t, !m.IsZero(), ok, "%s vs %s", a.Kind(), b.Kind())
		if ok {
			hits++
		}
	}
	assert.Positive(t, hits)

	// Boundary cases for the fast paths.
	ok, err := Overlaps(box(t, 0, 0, 1, 1), box(t, 2, 0, 1, 1))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Overlaps(circle(t, 0, 0, 1), circle(t, 2, 0, 1))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Overlaps(circle(t, 0, 0, 1), circle(t, 0, 0, 1))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRegisterDropsStaleFastPath(t *testing.T) {
	d := NewDispatcher()
	d.Register(KindCircle, KindCircle, func(Shape, Shape) vector.Vec2 { return vector.Zero })
	ok, err := d.Overlaps(circle(t, 0, 0, 1), circle(t, 0, 0, 1))
	require.NoError(t, err)
	assert.False(t, ok)
}
