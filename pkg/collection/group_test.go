package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupSuppressesDuplicates(t *testing.T) {
	g := NewGroup(1, 2, 2, 3)
	assert.Equal(t, []int{1, 2, 3}, g.Items())

	assert.False(t, g.Add(3))
	assert.True(t, g.Add(4))
	assert.Equal(t, 4, g.Len())
	assert.Equal(t, 4, g.At(3))
}

func TestGroupRemoveKeepsOrder(t *testing.T) {
	g := NewGroup("a", "b", "c", "d")
	assert.True(t, g.Remove("b"))
	assert.False(t, g.Remove("zz"))
	assert.Equal(t, []string{"a", "c", "d"}, g.Items())
	assert.True(t, g.Contains("c"))
	assert.False(t, g.Contains("b"))
}

func TestGroupEachAndClear(t *testing.T) {
	g := NewGroup(1, 2, 3)
	sum := 0
	g.Each(func(v int) { sum += v })
	assert.Equal(t, 6, sum)

	g.Clear()
	assert.Equal(t, 0, g.Len())
	assert.Equal(t, -1, g.IndexOf(1))
}

func TestGroupRevTracksMembership(t *testing.T) {
	g := NewGroup[int]()
	r := g.Rev()

	assert.True(t, g.Add(1))
	assert.Greater(t, g.Rev(), r)

	r = g.Rev()
	assert.False(t, g.Add(1))
	assert.False(t, g.Remove(7))
	assert.Equal(t, r, g.Rev(), "no-op calls leave the revision alone")

	assert.True(t, g.Remove(1))
	assert.Greater(t, g.Rev(), r)

	r = g.Rev()
	g.Clear()
	assert.Greater(t, g.Rev(), r)
}
