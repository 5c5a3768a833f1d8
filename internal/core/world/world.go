package world

import (
	"fmt"

	"github.com/zeusync/chitin/internal/config"
	"github.com/zeusync/chitin/internal/core/entity"
	"github.com/zeusync/chitin/internal/core/events/bus"
	"github.com/zeusync/chitin/internal/core/kernel"
	"github.com/zeusync/chitin/internal/core/observability/log"
	"github.com/zeusync/chitin/internal/core/physics"
	"github.com/zeusync/chitin/internal/core/snapshot"
	"github.com/zeusync/chitin/internal/core/system"
	"github.com/zeusync/chitin/internal/core/systems/transform"
	"github.com/zeusync/chitin/internal/core/tilemap"
)

// Names the standard systems are registered under.
const (
	SystemTransform = "transform"
	SystemCollide   = "collide"
)

// Standard system order: integrate first, then collide.
const (
	OrderTransform = 0
	OrderCollide   = 1
)

// World wires the standard systems together and owns the simulation.
type World struct {
	Config     *config.Config
	Logger     log.Log
	Bus        bus.EventBus
	Systems    *system.Registry
	Transforms *transform.System
	Collide    *physics.CollisionSystem
	Entities   *entity.Factory
	Kernel     *kernel.Kernel

	tilemaps map[string]*tilemap.Tilemap
	groups   map[string]*physics.Group
}

func New(cfg *config.Config, logger log.Log, b bus.EventBus) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.NewNop()
	}

	opts := make([]physics.Option, 0, 1)
	if cfg.Physics.PublishContacts && b != nil {
		opts = append(opts, physics.WithBus(b))
	}
	collide := physics.NewCollisionSystem(logger, opts...)
	collide.SetResolveScale(cfg.Physics.ResolveScale)

	w := &World{
		Config:     cfg,
		Logger:     logger,
		Bus:        b,
		Systems:    system.NewRegistry(logger),
		Transforms: transform.NewSystem(),
		Collide:    collide,
		tilemaps:   make(map[string]*tilemap.Tilemap),
		groups:     make(map[string]*physics.Group),
	}
	if err := w.Systems.Add(SystemTransform, w.Transforms, OrderTransform); err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	if err := w.Systems.Add(SystemCollide, w.Collide, OrderCollide); err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	w.Entities = entity.NewFactory(w.Systems, b, logger)
	w.Kernel = kernel.New(kernel.NewClock(cfg.Kernel.TargetFPS, cfg.Kernel.Timescale), w.Systems, b, logger)
	return w, nil
}

// Group returns the named shape group, creating it on first use.
func (w *World) Group(name string) *physics.Group {
	g, ok := w.groups[name]
	if !ok {
		g = physics.NewGroup()
		w.groups[name] = g
	}
	return g
}

func (w *World) AddTilemap(name string, tm *tilemap.Tilemap) {
	w.tilemaps[name] = tm
}

func (w *World) Tilemap(name string) (*tilemap.Tilemap, bool) {
	tm, ok := w.tilemaps[name]
	return tm, ok
}

// Frame captures every live shape after the latest tick.
func (w *World) Frame() snapshot.Frame {
	return snapshot.Capture(w.Kernel.Clock().TickCount(), w.Collide.Created())
}
