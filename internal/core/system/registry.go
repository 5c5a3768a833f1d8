package system

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/zeusync/chitin/internal/core/observability/log"
)

var (
	ErrNilSystem       = errors.New("system is nil")
	ErrDuplicateSystem = errors.New("system already registered")
	ErrSystemNotFound  = errors.New("system not found")
	ErrNoFactory       = errors.New("system does not create components")
)

type entry struct {
	name    string
	sys     any
	order   int
	seq     uint64
	enabled bool
}

// Registry holds named systems and runs them in ascending order. Systems
// with the same order run in the order they were added.
//
// The update and render lists are rebuilt lazily after any change, and a
// running Update or Render keeps iterating the list it started with, so
// systems may add, remove or toggle systems from inside their own callbacks.
type Registry struct {
	logger    log.Log
	systems   map[string]*entry
	seq       uint64
	nextOrder int

	dirty     bool
	updaters  []*entry
	renderers []*entry
}

func NewRegistry(logger log.Log) *Registry {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Registry{
		logger:  logger,
		systems: make(map[string]*entry),
		dirty:   true,
	}
}

// Add registers sys under name. Without an explicit order the system is
// placed one after the most recently added system.
func (r *Registry) Add(name string, sys any, order ...int) error {
	if sys == nil {
		return fmt.Errorf("%w: %q", ErrNilSystem, name)
	}
	if _, ok := r.systems[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateSystem, name)
	}
	o := r.nextOrder
	if len(order) > 0 {
		o = order[0]
	}
	r.nextOrder = o + 1
	r.seq++

	e := &entry{name: name, sys: sys, order: o, seq: r.seq, enabled: true}
	r.systems[name] = e
	r.dirty = true

	if c, ok := sys.(Creator); ok {
		if err := c.Create(); err != nil {
			delete(r.systems, name)
			return fmt.Errorf("create system %q: %w", name, err)
		}
	}
	r.logger.Debug("system added", log.String("name", name), log.Int("order", o))
	return nil
}

// Remove destroys and deregisters a system.
func (r *Registry) Remove(name string) error {
	e, err := r.entry(name)
	if err != nil {
		return err
	}
	delete(r.systems, name)
	r.dirty = true
	r.logger.Debug("system removed", log.String("name", name))
	if d, ok := e.sys.(Destroyer); ok {
		if err = d.Destroy(); err != nil {
			return fmt.Errorf("destroy system %q: %w", name, err)
		}
	}
	return nil
}

// RemoveMatching removes every system whose name contains fragment, most
// recently added first, and reports how many were removed. It is the usual
// way to drop a whole namespace.
func (r *Registry) RemoveMatching(fragment string) (int, error) {
	matching := make([]*entry, 0)
	for name, e := range r.systems {
		if strings.Contains(name, fragment) {
			matching = append(matching, e)
		}
	}
	slices.SortFunc(matching, func(a, b *entry) int { return cmp.Compare(b.seq, a.seq) })

	var all error
	for _, e := range matching {
		if err := r.Remove(e.name); err != nil {
			all = errors.Join(all, err)
		}
	}
	return len(matching), all
}

func (r *Registry) entry(name string) (*entry, error) {
	e, ok := r.systems[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSystemNotFound, name)
	}
	return e, nil
}

func (r *Registry) Get(name string) (any, error) {
	e, err := r.entry(name)
	if err != nil {
		return nil, err
	}
	return e.sys, nil
}

func (r *Registry) Has(name string) bool {
	_, ok := r.systems[name]
	return ok
}

func (r *Registry) Len() int { return len(r.systems) }

func (r *Registry) Enable(name string) error  { return r.setEnabled(name, true) }
func (r *Registry) Disable(name string) error { return r.setEnabled(name, false) }

func (r *Registry) setEnabled(name string, on bool) error {
	e, err := r.entry(name)
	if err != nil {
		return err
	}
	if e.enabled != on {
		e.enabled = on
		r.dirty = true
	}
	return nil
}

func (r *Registry) Enabled(name string) bool {
	e, ok := r.systems[name]
	return ok && e.enabled
}

// SetOrder moves an already registered system.
func (r *Registry) SetOrder(name string, order int) error {
	e, err := r.entry(name)
	if err != nil {
		return err
	}
	e.order = order
	r.dirty = true
	return nil
}

// CreateComponent asks the named system to build a component.
func (r *Registry) CreateComponent(name string, args any) (any, error) {
	f, err := r.factory(name)
	if err != nil {
		return nil, err
	}
	c, err := f.CreateComponent(args)
	if err != nil {
		return nil, fmt.Errorf("create %q component: %w", name, err)
	}
	return c, nil
}

func (r *Registry) DestroyComponent(name string, c any) error {
	f, err := r.factory(name)
	if err != nil {
		return err
	}
	if err = f.DestroyComponent(c); err != nil {
		return fmt.Errorf("destroy %q component: %w", name, err)
	}
	return nil
}

func (r *Registry) factory(name string) (ComponentFactory, error) {
	e, err := r.entry(name)
	if err != nil {
		return nil, err
	}
	f, ok := e.sys.(ComponentFactory)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoFactory, name)
	}
	return f, nil
}

// Order lists enabled systems in the order Update visits them, including
// those that do not update.
func (r *Registry) Order() []string {
	entries := r.sorted(func(*entry) bool { return true })
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

func (r *Registry) sorted(keep func(*entry) bool) []*entry {
	out := make([]*entry, 0, len(r.systems))
	for _, e := range r.systems {
		if e.enabled && keep(e) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b *entry) int {
		if a.order != b.order {
			return cmp.Compare(a.order, b.order)
		}
		return cmp.Compare(a.seq, b.seq)
	})
	return out
}

func (r *Registry) refresh() {
	if !r.dirty {
		return
	}
	r.updaters = r.sorted(func(e *entry) bool {
		_, ok := e.sys.(Updater)
		return ok
	})
	r.renderers = r.sorted(func(e *entry) bool {
		_, ok := e.sys.(Renderer)
		return ok
	})
	r.dirty = false
}

// Update runs every enabled Updater. The first error stops the frame.
func (r *Registry) Update(dt float64) error {
	r.refresh()
	for _, e := range r.updaters {
		if err := e.sys.(Updater).Update(dt); err != nil {
			return fmt.Errorf("update %q: %w", e.name, err)
		}
	}
	return nil
}

func (r *Registry) Render() error {
	r.refresh()
	for _, e := range r.renderers {
		if err := e.sys.(Renderer).Render(); err != nil {
			return fmt.Errorf("render %q: %w", e.name, err)
		}
	}
	return nil
}
