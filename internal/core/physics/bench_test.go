package physics

import (
	"strconv"
	"testing"

	"github.com/zeusync/chitin/internal/core/systems/transform"
	"github.com/zeusync/chitin/pkg/vector"
)

func BenchmarkMSV(b *testing.B) {
	pairs := []struct {
		name string
		a, b Shape
	}{
		{"aabb-aabb", &AABB{Body{T: transform.At(0, 0)}, vector.Splat(1)}, &AABB{Body{T: transform.At(1, 0.5)}, vector.Splat(1)}},
		{"circle-circle", &Circle{Body{T: transform.At(0, 0)}, 1}, &Circle{Body{T: transform.At(1, 0.5)}, 1}},
		{"aabb-circle", &AABB{Body{T: transform.At(0, 0)}, vector.Splat(1)}, &Circle{Body{T: transform.At(1.5, 1.5)}, 1}},
		{"line-line", &Line{Body{T: transform.At(0, 0)}, vector.New(10, 0)}, &Line{Body{T: transform.At(2, -1)}, vector.New(0, 4)}},
		{"circle-line", &Circle{Body{T: transform.At(5, 0.5)}, 1}, &Line{Body{T: transform.At(0, 0)}, vector.New(10, 0)}},
	}
	for _, p := range pairs {
		b.Run(p.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = MSV(p.a, p.b)
			}
		})
	}
}

func BenchmarkGroupCollide(b *testing.B) {
	for _, n := range []int{16, 64, 256} {
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			g := NewGroup()
			for i := range n {
				g.Add(&Circle{Body{T: transform.At(float64(i%16)*1.5, float64(i/16)*1.5)}, 1})
			}
			cs := NewCollisionSystem(nil)
			if _, err := cs.AddGroupCollide(g, nil); err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = cs.Update(0)
			}
		})
	}
}

func BenchmarkCollideTilemap(b *testing.B) {
	tm := newWall(b)
	s := &AABB{Body{T: transform.At(13, 12)}, vector.Splat(5)}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.T.Pos = vector.New(13, 12)
		_, _ = CollideTilemap(tm, s, solid, CallbackResolveOnlyA)
	}
}
