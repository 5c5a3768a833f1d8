package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/chitin/internal/core/systems/transform"
	"github.com/zeusync/chitin/pkg/vector"
)

func TestConstructorsRejectInvalidExtents(t *testing.T) {
	_, err := NewCircle(transform.At(0, 0), -1)
	assert.ErrorIs(t, err, ErrInvalidExtent)

	_, err = NewAABBHalf(transform.At(0, 0), vector.New(1, -1))
	assert.ErrorIs(t, err, ErrInvalidExtent)

	_, err = NewCircle(nil, 1)
	assert.ErrorIs(t, err, ErrNilTransform)

	_, err = NewLine(nil, vector.New(1, 0))
	assert.ErrorIs(t, err, ErrNilTransform)

	c, err := NewCircle(transform.At(0, 0), 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.Radius)
}

func TestNewAABBTakesFullSize(t *testing.T) {
	b, err := NewAABB(transform.At(0, 0), vector.New(4, 2))
	require.NoError(t, err)
	assert.Equal(t, vector.New(2, 1), b.HalfSize)
}

func TestBounds(t *testing.T) {
	tl, br := circle(t, 1, 2, 3).Bounds()
	assert.Equal(t, vector.New(-2, -1), tl)
	assert.Equal(t, vector.New(4, 5), br)

	tl, br = box(t, 0, 0, 2, 1).Bounds()
	assert.Equal(t, vector.New(-2, -1), tl)
	assert.Equal(t, vector.New(2, 1), br)

	tl, br = line(t, 5, -1, 1, 3).Bounds()
	assert.Equal(t, vector.New(1, -1), tl)
	assert.Equal(t, vector.New(5, 3), br)
}

func TestLineMovesWithTransform(t *testing.T) {
	l := line(t, 0, 0, 4, 0)
	l.T.Pos = vector.New(10, 10)
	a, b := l.Points()
	assert.Equal(t, vector.New(10, 10), a)
	assert.Equal(t, vector.New(14, 10), b)
	assert.Equal(t, vector.New(12, 10), l.Center())
}

func TestKindAndSideStrings(t *testing.T) {
	assert.Equal(t, "circle", KindCircle.String())
	assert.Equal(t, "aabb", KindAABB.String())
	assert.Equal(t, "line", KindLine.String())
	assert.Equal(t, "kind(40)", Kind(40).String())

	assert.Equal(t, "none", SideNone.String())
	assert.Equal(t, "top|left", (SideTop | SideLeft).String())
	assert.True(t, (SideTop | SideLeft).Has(SideLeft))
	assert.False(t, SideTop.Has(SideBottom))
	assert.False(t, SideTop.Has(SideNone))
}
