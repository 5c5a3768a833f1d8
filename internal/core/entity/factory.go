package entity

import (
	"github.com/zeusync/chitin/internal/core/events/bus"
	"github.com/zeusync/chitin/internal/core/observability/log"
)

// Factory issues sequential entity IDs and tracks live entities.
type Factory struct {
	registry Registry
	bus      bus.EventBus
	logger   log.Log
	next     ID
	live     map[ID]*Entity
}

// NewFactory builds a factory. b may be nil.
func NewFactory(reg Registry, b bus.EventBus, logger log.Log) *Factory {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Factory{
		registry: reg,
		bus:      b,
		logger:   logger,
		live:     make(map[ID]*Entity),
	}
}

func (f *Factory) New(namespace string) *Entity {
	f.next++
	e := newEntity(f.next, namespace, f.registry)
	e.owner = f
	f.live[e.id] = e
	f.publish(bus.EventEntityAdded, e)
	return e
}

func (f *Factory) Get(id ID) (*Entity, bool) {
	e, ok := f.live[id]
	return e, ok
}

func (f *Factory) Len() int { return len(f.live) }

// Destroy removes every component of e and forgets it. Destroying an entity
// twice is a no-op.
func (f *Factory) Destroy(e *Entity) error {
	if e.destroyed {
		return nil
	}
	err := e.RemoveAll()
	e.destroyed = true
	delete(f.live, e.id)
	f.publish(bus.EventEntityGone, e)
	return err
}

func (f *Factory) publish(typ string, e *Entity) {
	if f.bus == nil {
		return
	}
	if err := f.bus.Publish(bus.NewEvent(typ, "entity", 0, e.id)); err != nil {
		f.logger.Warn("entity event handler failed",
			log.String("event", typ),
			log.Uint64("entity", uint64(e.id)),
			log.Error(err),
		)
	}
}
