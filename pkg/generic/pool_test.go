package generic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolGenerates(t *testing.T) {
	calls := 0
	p := NewPool(func() int {
		calls++
		return 7
	})
	assert.Equal(t, 7, p.Get())
	assert.GreaterOrEqual(t, calls, 1)
}

func TestSlicePoolHandsOutEmptySlices(t *testing.T) {
	p := NewSlicePool[int](4)

	s := p.Get()
	require.NotNil(t, s)
	assert.Len(t, *s, 0)
	assert.GreaterOrEqual(t, cap(*s), 4)

	*s = append(*s, 1, 2, 3)
	p.Put(s)

	again := p.Get()
	assert.Len(t, *again, 0)

	p.Put(nil)
}
