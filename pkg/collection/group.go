package collection

// Group is an ordered, set-like working collection. It does not own its
// members: removing an item from a Group never destroys it.
//
// Add suppresses duplicates, so a Group never holds the same item twice.
// Iteration order is insertion order, and Remove preserves the order of the
// remaining items.
type Group[T comparable] struct {
	items []T
	rev   uint64
}

func NewGroup[T comparable](items ...T) *Group[T] {
	g := &Group[T]{items: make([]T, 0, len(items))}
	for _, it := range items {
		g.Add(it)
	}
	return g
}

// Add appends item unless it is already present. It reports whether the item
// was added.
func (g *Group[T]) Add(item T) bool {
	if g.IndexOf(item) != -1 {
		return false
	}
	g.items = append(g.items, item)
	g.rev++
	return true
}

// Remove deletes item if present and reports whether it was found.
func (g *Group[T]) Remove(item T) bool {
	i := g.IndexOf(item)
	if i == -1 {
		return false
	}
	g.items = append(g.items[:i], g.items[i+1:]...)
	g.rev++
	return true
}

func (g *Group[T]) IndexOf(item T) int {
	for i, it := range g.items {
		if it == item {
			return i
		}
	}
	return -1
}

func (g *Group[T]) Contains(item T) bool { return g.IndexOf(item) != -1 }

func (g *Group[T]) Len() int { return len(g.items) }

func (g *Group[T]) At(i int) T { return g.items[i] }

// Items exposes the backing slice. Callers must not modify it.
func (g *Group[T]) Items() []T { return g.items }

func (g *Group[T]) Each(fn func(T)) {
	for _, it := range g.items {
		fn(it)
	}
}

func (g *Group[T]) Clear() {
	g.items = g.items[:0]
	g.rev++
}

// Rev changes whenever membership does. Iterators holding a copy of Items
// compare it to notice removals made mid-walk.
func (g *Group[T]) Rev() uint64 { return g.rev }
