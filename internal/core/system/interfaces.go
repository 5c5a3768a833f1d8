package system

// A system is any value registered under a name. What the registry does
// with it depends on which of the optional interfaces below it implements;
// a system with none of them is a passive shared service other code can
// look up by name.

// Updater is called once per logical frame, in system order.
type Updater interface {
	Update(dt float64) error
}

// Renderer is called once per rendered frame, in system order.
type Renderer interface {
	Render() error
}

// Creator is called when the system is added to a registry.
type Creator interface {
	Create() error
}

// Destroyer is called when the system is removed from a registry.
type Destroyer interface {
	Destroy() error
}

// ComponentFactory builds and tears down components for entities.
type ComponentFactory interface {
	CreateComponent(args any) (any, error)
	DestroyComponent(c any) error
}
