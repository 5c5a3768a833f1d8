package generic

import "sync"

// Pool is a typed wrapper over sync.Pool.
type Pool[T any] struct {
	pool sync.Pool
}

func NewPool[T any](generate func() T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return generate()
			},
		},
	}
}

func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

func (p *Pool[T]) Put(value T) {
	p.pool.Put(value)
}

// SlicePool recycles slice backing arrays. Slices handed out by Get are
// always empty; their capacity is whatever a previous user grew them to.
type SlicePool[T any] struct {
	inner *Pool[*[]T]
}

func NewSlicePool[T any](capacity int) *SlicePool[T] {
	return &SlicePool[T]{
		inner: NewPool(func() *[]T {
			s := make([]T, 0, capacity)
			return &s
		}),
	}
}

func (p *SlicePool[T]) Get() *[]T {
	s := p.inner.Get()
	*s = (*s)[:0]
	return s
}

func (p *SlicePool[T]) Put(s *[]T) {
	if s == nil {
		return
	}
	p.inner.Put(s)
}
