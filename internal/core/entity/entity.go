package entity

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ID identifies an entity within its Factory.
type ID uint64

var (
	ErrNoComponent = errors.New("component not found")
	ErrDestroyed   = errors.New("entity destroyed")
)

// nsSep separates a namespace from a system name. A component name that
// starts with it bypasses the entity's namespace.
const nsSep = "::"

// Registry builds and tears down components on behalf of entities.
// *system.Registry satisfies it.
type Registry interface {
	CreateComponent(name string, args any) (any, error)
	DestroyComponent(name string, c any) error
}

// Entity is a bag of components keyed by the name of the system that owns
// them. An entity may hold several components from the same system.
// Components are compared by identity, so they are normally pointers.
type Entity struct {
	id         ID
	namespace  string
	registry   Registry
	owner      *Factory
	components map[string][]any
	names      []string
	destroyed  bool

	// Props holds entity-wide values that belong to no system.
	Props map[string]any
}

func newEntity(id ID, namespace string, reg Registry) *Entity {
	if namespace != "" && !strings.HasSuffix(namespace, nsSep) {
		namespace += nsSep
	}
	return &Entity{
		id:         id,
		namespace:  namespace,
		registry:   reg,
		components: make(map[string][]any),
		Props:      make(map[string]any),
	}
}

func (e *Entity) ID() ID            { return e.id }
func (e *Entity) Namespace() string { return e.namespace }
func (e *Entity) Destroyed() bool   { return e.destroyed }

// Global resolves name against the entity's namespace.
func (e *Entity) Global(name string) string {
	if rest, ok := strings.CutPrefix(name, nsSep); ok {
		return rest
	}
	return e.namespace + name
}

// Add creates a component through the named system and attaches it.
func (e *Entity) Add(name string, args any) (any, error) {
	if e.destroyed {
		return nil, ErrDestroyed
	}
	global := e.Global(name)
	c, err := e.registry.CreateComponent(global, args)
	if err != nil {
		return nil, fmt.Errorf("entity %d: %w", e.id, err)
	}
	e.attach(global, c)
	return c, nil
}

// AddExisting attaches a component that was created elsewhere.
func (e *Entity) AddExisting(name string, c any) any {
	e.attach(e.Global(name), c)
	return c
}

func (e *Entity) attach(global string, c any) {
	if _, ok := e.components[global]; !ok {
		e.names = append(e.names, global)
	}
	e.components[global] = append(e.components[global], c)
}

// C returns the i-th component under name. Negative indices count from the
// end.
func (e *Entity) C(name string, i int) (any, bool) {
	comps := e.components[e.Global(name)]
	if i < 0 {
		i += len(comps)
	}
	if i < 0 || i >= len(comps) {
		return nil, false
	}
	return comps[i], true
}

// N is the number of components held under name.
func (e *Entity) N(name string) int {
	return len(e.components[e.Global(name)])
}

// Remove detaches c and hands it back to its system for destruction.
func (e *Entity) Remove(name string, c any) error {
	global := e.Global(name)
	comps := e.components[global]
	i := slices.IndexFunc(comps, func(o any) bool { return o == c })
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNoComponent, global)
	}
	e.components[global] = slices.Delete(comps, i, i+1)
	return e.registry.DestroyComponent(global, c)
}

func (e *Entity) RemoveAt(name string, i int) error {
	c, ok := e.C(name, i)
	if !ok {
		return fmt.Errorf("%w: %q[%d]", ErrNoComponent, e.Global(name), i)
	}
	return e.Remove(name, c)
}

// RemoveAll destroys every component, in the order the systems were first
// attached. Destruction errors are joined; every component is still
// detached.
func (e *Entity) RemoveAll() error {
	var all error
	for _, global := range e.names {
		for _, c := range e.components[global] {
			if err := e.registry.DestroyComponent(global, c); err != nil {
				all = errors.Join(all, err)
			}
		}
	}
	clear(e.components)
	e.names = e.names[:0]
	return all
}

// Destroy removes every component and retires the entity from its
// factory.
func (e *Entity) Destroy() error {
	if e.owner != nil {
		return e.owner.Destroy(e)
	}
	if e.destroyed {
		return nil
	}
	e.destroyed = true
	return e.RemoveAll()
}

// Get returns the i-th component under name as a T.
func Get[T any](e *Entity, name string, i int) (T, bool) {
	c, ok := e.C(name, i)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := c.(T)
	return t, ok
}
