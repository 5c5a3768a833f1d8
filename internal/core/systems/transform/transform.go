package transform

import (
	"errors"
	"fmt"

	"github.com/zeusync/chitin/pkg/vector"
)

var (
	ErrUnknownTransform = errors.New("transform is not owned by this system")
	ErrInvalidArgs      = errors.New("invalid transform arguments")
)

// Transform is a particle in space that can move, spin and be accelerated.
// It is owned by one TransformSystem and shared by reference with the shapes
// and sprites built on top of it.
type Transform struct {
	Pos        vector.Vec2
	Vel        vector.Vec2
	Acc        vector.Vec2
	Angle      float64
	AngularVel float64
}

// Args seeds a new Transform.
type Args struct {
	Pos        vector.Vec2
	Vel        vector.Vec2
	Acc        vector.Vec2
	Angle      float64
	AngularVel float64
}

func New(args Args) *Transform {
	return &Transform{
		Pos:        args.Pos,
		Vel:        args.Vel,
		Acc:        args.Acc,
		Angle:      args.Angle,
		AngularVel: args.AngularVel,
	}
}

// At is shorthand for a stationary transform at (x, y).
func At(x, y float64) *Transform {
	return &Transform{Pos: vector.New(x, y)}
}

// System owns transforms and integrates them once per tick.
type System struct {
	transforms []*Transform
}

func NewSystem() *System {
	return &System{transforms: make([]*Transform, 0, 64)}
}

// CreateComponent accepts nil, Args, *Args or *Transform. A *Transform is
// copied so that re-used argument values never end up shared.
func (s *System) CreateComponent(args any) (any, error) {
	var t *Transform
	switch a := args.(type) {
	case nil:
		t = &Transform{}
	case Args:
		t = New(a)
	case *Args:
		if a == nil {
			t = &Transform{}
		} else {
			t = New(*a)
		}
	case *Transform:
		if a == nil {
			t = &Transform{}
		} else {
			c := *a
			t = &c
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidArgs, args)
	}
	s.transforms = append(s.transforms, t)
	return t, nil
}

// Create is the typed form of CreateComponent.
func (s *System) Create(args Args) *Transform {
	t := New(args)
	s.transforms = append(s.transforms, t)
	return t
}

func (s *System) DestroyComponent(c any) error {
	t, ok := c.(*Transform)
	if !ok {
		return fmt.Errorf("%w: %T", ErrUnknownTransform, c)
	}
	for i, it := range s.transforms {
		if it == t {
			s.transforms = append(s.transforms[:i], s.transforms[i+1:]...)
			return nil
		}
	}
	return ErrUnknownTransform
}

// Update integrates every transform by dt. Position advances by the velocity
// the transform had at the start of the step.
func (s *System) Update(dt float64) error {
	for _, t := range s.transforms {
		step := t.Vel.SMul(dt)
		t.Vel.AddInto(t.Acc.SMul(dt), nil)
		t.Pos.AddInto(step, nil)
		t.Angle += t.AngularVel * dt
	}
	return nil
}

func (s *System) Len() int { return len(s.transforms) }
