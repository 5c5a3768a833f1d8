package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/chitin/internal/core/systems/transform"
	"github.com/zeusync/chitin/pkg/vector"
)

const eps = 1e-9

func circle(t *testing.T, x, y, r float64) *Circle {
	t.Helper()
	c, err := NewCircle(transform.At(x, y), r)
	require.NoError(t, err)
	return c
}

func box(t *testing.T, x, y, hx, hy float64) *AABB {
	t.Helper()
	b, err := NewAABBHalf(transform.At(x, y), vector.New(hx, hy))
	require.NoError(t, err)
	return b
}

func line(t *testing.T, x1, y1, x2, y2 float64) *Line {
	t.Helper()
	l, err := NewLine(transform.At(x1, y1), vector.New(x2-x1, y2-y1))
	require.NoError(t, err)
	return l
}

func assertVec(t *testing.T, want, got vector.Vec2, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-6, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, 1e-6, msgAndArgs...)
}

func msv(t *testing.T, a, b Shape) vector.Vec2 {
	t.Helper()
	m, err := MSV(a, b)
	require.NoError(t, err)
	return m
}
