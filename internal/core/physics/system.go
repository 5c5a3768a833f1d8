package physics

import (
	"fmt"
	"slices"

	"github.com/zeusync/chitin/internal/core/events/bus"
	"github.com/zeusync/chitin/internal/core/observability/log"
	"github.com/zeusync/chitin/internal/core/tilemap"
	"github.com/zeusync/chitin/pkg/vector"
)

// WorkID identifies a registered work item or reaction.
type WorkID uint64

type workKind uint8

const (
	workPair workKind = iota + 1
	workGroup
	workGroups
	workTilemap
)

func (k workKind) String() string {
	switch k {
	case workPair:
		return "pair"
	case workGroup:
		return "group"
	case workGroups:
		return "groups"
	case workTilemap:
		return "tilemap"
	default:
		return "unknown"
	}
}

// work is one persistent collision request, replayed every tick.
type work struct {
	id     WorkID
	kind   workKind
	mode   Dispatch
	a, b   Shape
	ga, gb *Group
	tm     *tilemap.Tilemap
	flag   uint
	cb     Callback
}

// Contact is the payload of bus.EventContact. For tilemap work B is a
// standalone copy of the tile box and Tile its index; otherwise Tile is
// NoTile.
type Contact struct {
	A, B Shape
	MSV  vector.Vec2
	Work WorkID
	Tile int
}

// CollisionSystem owns the registered collision work and reactions and
// replays them once per tick.
type CollisionSystem struct {
	logger     log.Log
	dispatcher *Dispatcher
	resolver   *Resolver
	bus        bus.EventBus

	work      []*work
	reactions []*reaction
	nextID    WorkID
	shapes    int
	created   *Group

	tick       uint64
	current    WorkID
	publishErr error
}

type Option func(*CollisionSystem)

// WithDispatcher replaces the built-in dispatch table, e.g. to register
// routines for custom shape kinds. d's tables are shared, not copied; the
// system reports contacts through its own view of them, so d may back
// several systems.
func WithDispatcher(d *Dispatcher) Option {
	return func(cs *CollisionSystem) { cs.dispatcher = d }
}

// WithBus publishes a bus.EventContact event for every overlapping pair.
func WithBus(b bus.EventBus) Option {
	return func(cs *CollisionSystem) { cs.bus = b }
}

func NewCollisionSystem(logger log.Log, opts ...Option) *CollisionSystem {
	if logger == nil {
		logger = log.NewNop()
	}
	cs := &CollisionSystem{
		logger:     logger.With(log.String("system", "collide")),
		dispatcher: NewDispatcher(),
		resolver:   NewResolver(),
		created:    NewGroup(),
	}
	for _, opt := range opts {
		opt(cs)
	}
	cs.dispatcher = cs.dispatcher.view(cs.observe)
	return cs
}

func (cs *CollisionSystem) Dispatcher() *Dispatcher { return cs.dispatcher }

// Resolve and ResolveOnlyA are the system's collide callbacks; they honour
// SetResolveScale.
func (cs *CollisionSystem) Resolve(a, b Shape, msv vector.Vec2) { cs.resolver.Resolve(a, b, msv) }

func (cs *CollisionSystem) ResolveOnlyA(a, b Shape, msv vector.Vec2) {
	cs.resolver.ResolveOnlyA(a, b, msv)
}

func (cs *CollisionSystem) SetResolveScale(s float64) { cs.resolver.Scale = s }

func (cs *CollisionSystem) ResolveScale() float64 { return cs.resolver.Scale }

// Shapes is the number of shapes created through the system minus those
// destroyed.
func (cs *CollisionSystem) Shapes() int { return cs.shapes }

// CreateComponent accepts a ready-made Shape and starts counting it.
func (cs *CollisionSystem) CreateComponent(args any) (any, error) {
	s, ok := args.(Shape)
	if !ok || s == nil {
		return nil, fmt.Errorf("%w: %T", ErrNotAShape, args)
	}
	if s.Transform() == nil {
		return nil, ErrNilTransform
	}
	cs.shapes++
	cs.created.Add(s)
	return s, nil
}

// Created lists live shapes made through CreateComponent, oldest first.
func (cs *CollisionSystem) Created() []Shape { return cs.created.Items() }

// DestroyComponent stops counting c. Unbalanced destroys are logged, not
// rejected.
func (cs *CollisionSystem) DestroyComponent(c any) error {
	s, ok := c.(Shape)
	if !ok {
		return fmt.Errorf("%w: %T", ErrNotAShape, c)
	}
	cs.created.Remove(s)
	cs.shapes--
	if cs.shapes < 0 {
		cs.logger.Warn("shape count went negative",
			log.Int("shapes", cs.shapes),
			log.String("component", fmt.Sprintf("%T", c)),
		)
	}
	return nil
}

func (cs *CollisionSystem) add(w *work) WorkID {
	cs.nextID++
	w.id = cs.nextID
	cs.work = append(cs.work, w)
	cs.logger.Debug("collision work added",
		log.Uint64("work", uint64(w.id)),
		log.String("kind", w.kind.String()),
		log.String("mode", w.mode.String()),
	)
	return w.id
}

// AddPair registers a test of a against b.
func (cs *CollisionSystem) AddPair(a, b Shape, mode Dispatch, cb Callback) (WorkID, error) {
	if a == nil || b == nil {
		return 0, fmt.Errorf("pair: %w", ErrNilTarget)
	}
	if cb == nil {
		return 0, fmt.Errorf("pair: %w", ErrNilCallback)
	}
	if err := cs.checkPair(a.Kind(), b.Kind()); err != nil {
		return 0, err
	}
	return cs.add(&work{kind: workPair, mode: mode, a: a, b: b, cb: cb}), nil
}

// AddGroup registers a test of every pair within g. g may be empty; it is
// read afresh every tick.
func (cs *CollisionSystem) AddGroup(g *Group, mode Dispatch, cb Callback) (WorkID, error) {
	if g == nil {
		return 0, fmt.Errorf("group: %w", ErrNilTarget)
	}
	if cb == nil {
		return 0, fmt.Errorf("group: %w", ErrNilCallback)
	}
	return cs.add(&work{kind: workGroup, mode: mode, ga: g, cb: cb}), nil
}

// AddGroups registers a test of every cross pair between ga and gb.
func (cs *CollisionSystem) AddGroups(ga, gb *Group, mode Dispatch, cb Callback) (WorkID, error) {
	if ga == nil || gb == nil {
		return 0, fmt.Errorf("groups: %w", ErrNilTarget)
	}
	if cb == nil {
		return 0, fmt.Errorf("groups: %w", ErrNilCallback)
	}
	return cs.add(&work{kind: workGroups, mode: mode, ga: ga, gb: gb, cb: cb}), nil
}

// AddGroupCollide resolves every overlapping pair within g, with cb or the
// system's Resolve when cb is nil.
func (cs *CollisionSystem) AddGroupCollide(g *Group, cb Callback) (WorkID, error) {
	if cb == nil {
		cb = cs.Resolve
	}
	return cs.AddGroup(g, CallbackTogether, cb)
}

func (cs *CollisionSystem) AddGroupsCollide(ga, gb *Group, cb Callback) (WorkID, error) {
	if cb == nil {
		cb = cs.Resolve
	}
	return cs.AddGroups(ga, gb, CallbackTogether, cb)
}

// AddTilemapVsGroup pushes every shape in g out of the tiles carrying flag.
func (cs *CollisionSystem) AddTilemapVsGroup(tm *tilemap.Tilemap, g *Group, flag uint) (WorkID, error) {
	return cs.AddTilemapVsGroupCallback(tm, g, flag, cs.ResolveOnlyA)
}

func (cs *CollisionSystem) AddTilemapVsGroupCallback(tm *tilemap.Tilemap, g *Group, flag uint, cb Callback) (WorkID, error) {
	if tm == nil || g == nil {
		return 0, fmt.Errorf("tilemap: %w", ErrNilTarget)
	}
	if cb == nil {
		return 0, fmt.Errorf("tilemap: %w", ErrNilCallback)
	}
	if flag >= tilemap.MaxFlags {
		return 0, fmt.Errorf("tilemap: %w: %d", tilemap.ErrFlagOutOfRange, flag)
	}
	return cs.add(&work{kind: workTilemap, mode: CallbackTogether, ga: g, tm: tm, flag: flag, cb: cb}), nil
}

func (cs *CollisionSystem) checkPair(ka, kb Kind) error {
	if !cs.dispatcher.Supports(ka, kb) {
		return fmt.Errorf("%w: %s vs %s", ErrUnsupportedPair, ka, kb)
	}
	return nil
}

func (cs *CollisionSystem) addReaction(r *reaction) (WorkID, error) {
	if r.group == nil {
		return 0, fmt.Errorf("reaction: %w", ErrNilTarget)
	}
	cs.nextID++
	r.id = cs.nextID
	cs.reactions = append(cs.reactions, r)
	return r.id, nil
}

// AddReactCollisionInfo records, for every shape in g, which sides it was
// pushed from during each tick.
func (cs *CollisionSystem) AddReactCollisionInfo(g *Group) (WorkID, error) {
	return cs.addReaction(&reaction{kind: ReactCollisionInfo, group: g})
}

// AddReactBounce reflects the velocity of every displaced shape in g.
func (cs *CollisionSystem) AddReactBounce(g *Group, bounce, slide float64) (WorkID, error) {
	return cs.addReaction(&reaction{kind: ReactBounce, group: g, bounce: bounce, slide: slide})
}

func (cs *CollisionSystem) AddReactCallback(g *Group, fn ReactFunc) (WorkID, error) {
	if fn == nil {
		return 0, fmt.Errorf("reaction: %w", ErrNilCallback)
	}
	return cs.addReaction(&reaction{kind: ReactCallback, group: g, fn: fn})
}

// Remove deregisters a work item or reaction.
func (cs *CollisionSystem) Remove(id WorkID) error {
	if i := slices.IndexFunc(cs.work, func(w *work) bool { return w.id == id }); i >= 0 {
		cs.work = slices.Delete(cs.work, i, i+1)
		return nil
	}
	if i := slices.IndexFunc(cs.reactions, func(r *reaction) bool { return r.id == id }); i >= 0 {
		cs.reactions = slices.Delete(cs.reactions, i, i+1)
		return nil
	}
	return fmt.Errorf("%w: %d", ErrUnknownWork, id)
}

// Len is the number of registered work items and reactions.
func (cs *CollisionSystem) Len() int { return len(cs.work) + len(cs.reactions) }

// Update runs one tick: snapshot reacting shapes, replay every work item in
// registration order, then react to how far each shape was pushed. The
// first configuration error aborts the tick.
func (cs *CollisionSystem) Update(_ float64) error {
	cs.tick++
	cs.publishErr = nil

	for _, r := range cs.reactions {
		for _, s := range r.group.Items() {
			b := s.Base()
			b.snapshot()
			if r.kind == ReactCollisionInfo {
				b.SetSides(SideNone)
			}
		}
	}

	for _, w := range cs.work {
		if err := cs.run(w); err != nil {
			return fmt.Errorf("collision work %d (%s): %w", w.id, w.kind, err)
		}
	}
	cs.current = 0

	for _, r := range cs.reactions {
		for _, s := range r.group.Items() {
			n := s.Base().displacement().Normalise()
			if n.IsZero() {
				continue
			}
			r.apply(s, n)
		}
	}

	if cs.publishErr != nil {
		cs.logger.Warn("contact handlers failed",
			log.Uint64("tick", cs.tick),
			log.Error(cs.publishErr),
		)
	}
	return nil
}

func (cs *CollisionSystem) run(w *work) error {
	cs.current = w.id
	d := cs.dispatcher
	var err error
	switch w.kind {
	case workPair:
		_, err = d.Pair(w.a, w.b, w.mode, w.cb)
	case workGroup:
		_, err = d.Group(w.ga, w.mode, w.cb)
	case workGroups:
		_, err = d.Groups(w.ga, w.gb, w.mode, w.cb)
	case workTilemap:
		for _, s := range w.ga.Items() {
			if _, err = d.CollideTilemap(w.tm, s, w.flag, w.cb); err != nil {
				break
			}
		}
	}
	return err
}

func (cs *CollisionSystem) observe(a, b Shape, msv vector.Vec2, tile int) {
	if cs.bus == nil {
		return
	}
	ev := bus.NewEvent(bus.EventContact, "physics", cs.tick, Contact{A: a, B: b, MSV: msv, Work: cs.current, Tile: tile})
	if err := cs.bus.Publish(ev); err != nil && cs.publishErr == nil {
		cs.publishErr = err
	}
}
