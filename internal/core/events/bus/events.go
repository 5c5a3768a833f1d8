package bus

// Engine event types.
const (
	EventContact     = "physics.contact"
	EventTick        = "kernel.tick"
	EventEntityAdded = "entity.added"
	EventEntityGone  = "entity.destroyed"
)

type simpleEvent struct {
	typ    string
	source string
	tick   uint64
	data   any
}

func (e simpleEvent) Type() string   { return e.typ }
func (e simpleEvent) Source() string { return e.source }
func (e simpleEvent) Tick() uint64   { return e.tick }
func (e simpleEvent) Data() any      { return e.data }

// NewEvent builds a plain Event for publishers without their own type.
func NewEvent(typ, source string, tick uint64, data any) Event {
	return simpleEvent{typ: typ, source: source, tick: tick, data: data}
}
