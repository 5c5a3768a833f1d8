package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zeusync/chitin/internal/core/entity"
	"github.com/zeusync/chitin/internal/core/observability/log"
	"github.com/zeusync/chitin/internal/core/physics"
	"github.com/zeusync/chitin/internal/core/systems/transform"
	"github.com/zeusync/chitin/internal/core/tilemap"
	"github.com/zeusync/chitin/internal/core/world"
	"github.com/zeusync/chitin/pkg/vector"
)

// Scene is what Build added to a world.
type Scene struct {
	Name     string
	Entities []*entity.Entity
	Work     []physics.WorkID

	world   *world.World
	members []member
}

type member struct {
	group *physics.Group
	shape physics.Shape
}

// Build adds tilemaps, bodies, work and reactions to w in that order. On error
// everything already added is torn down again.
func (c *Config) Build(w *world.World) (*Scene, error) {
	s := &Scene{Name: c.Name, world: w}
	if err := c.build(w, s); err != nil {
		return nil, errors.Join(fmt.Errorf("scene %q: %w", c.Name, err), s.Teardown())
	}
	w.Logger.Info("scene built",
		log.String("scene", c.Name),
		log.Int("entities", len(s.Entities)),
		log.Int("work", len(s.Work)),
	)
	return s, nil
}

func (c *Config) build(w *world.World, s *Scene) error {
	if c.ResolveScale != nil {
		w.Collide.SetResolveScale(*c.ResolveScale)
	}
	for i, tc := range c.Tilemaps {
		tm, err := tc.build()
		if err != nil {
			return fmt.Errorf("tilemap %d (%s): %w", i, tc.Name, err)
		}
		w.AddTilemap(tc.Name, tm)
	}
	for i, bc := range c.Bodies {
		e, err := bc.build(w, s, c.Name)
		if e != nil {
			s.Entities = append(s.Entities, e)
		}
		if err != nil {
			return fmt.Errorf("body %d: %w", i, err)
		}
	}
	for i, wc := range c.Work {
		id, err := wc.build(w)
		if err != nil {
			return fmt.Errorf("work %d (%s): %w", i, wc.Type, err)
		}
		s.Work = append(s.Work, id)
	}
	for i, rc := range c.Reactions {
		id, err := rc.build(w)
		if err != nil {
			return fmt.Errorf("reaction %d (%s): %w", i, rc.Type, err)
		}
		s.Work = append(s.Work, id)
	}
	return nil
}

// Teardown removes the scene's work and destroys its entities.
func (s *Scene) Teardown() error {
	var errs []error
	for _, id := range s.Work {
		if err := s.world.Collide.Remove(id); err != nil {
			errs = append(errs, err)
		}
	}
	for _, m := range s.members {
		m.group.Remove(m.shape)
	}
	for _, e := range s.Entities {
		if err := s.world.Entities.Destroy(e); err != nil {
			errs = append(errs, err)
		}
	}
	s.Work, s.Entities, s.members = nil, nil, nil
	return errors.Join(errs...)
}

func (tc ConfigTilemap) build() (*tilemap.Tilemap, error) {
	tm, err := tilemap.New(tilemap.Config{FrameSize: tc.FrameSize.V()})
	if err != nil {
		return nil, err
	}
	if err = tm.LoadCSV(strings.NewReader(strings.TrimSpace(tc.CSV))); err != nil {
		return nil, err
	}
	origin := tc.Origin.V()
	if tc.Centered {
		half := vector.New(float64(tm.Cols), float64(tm.Rows)).Mul(tm.FrameSize).SMul(0.5)
		origin.SubInto(half, nil)
	}
	tm.Transform.Pos = origin
	for tile, flags := range tc.Flags {
		for _, f := range flags {
			if err = tm.SetFlag(tile, f); err != nil {
				return nil, fmt.Errorf("tile %d: %w", tile, err)
			}
		}
	}
	return tm, nil
}

func (bc ConfigBody) build(w *world.World, s *Scene, namespace string) (*entity.Entity, error) {
	e := w.Entities.New(namespace)
	// Systems live in the global namespace; a leading "::" escapes the entity's.
	c, err := e.Add("::"+world.SystemTransform, transform.Args{Pos: bc.Pos.V(), Vel: bc.Vel.V(), Acc: bc.Acc.V()})
	if err != nil {
		return e, err
	}
	t := c.(*transform.Transform)

	var shape physics.Shape
	switch bc.Shape {
	case "circle":
		shape, err = physics.NewCircle(t, bc.Radius)
	case "aabb", "box":
		shape, err = physics.NewAABB(t, bc.Size.V())
	case "line":
		shape, err = physics.NewLine(t, bc.End.V())
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownShape, bc.Shape)
	}
	if err != nil {
		return e, err
	}
	if _, err = e.Add("::"+world.SystemCollide, shape); err != nil {
		return e, err
	}
	for _, name := range bc.Groups {
		g := w.Group(name)
		if g.Add(shape) {
			s.members = append(s.members, member{group: g, shape: shape})
		}
	}
	return e, nil
}

func (wc ConfigWork) build(w *world.World) (physics.WorkID, error) {
	cs := w.Collide
	if wc.Type == WorkTilemap {
		tm, ok := w.Tilemap(wc.Tilemap)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownTilemap, wc.Tilemap)
		}
		if len(wc.Groups) != 1 {
			return 0, ErrGroupCount
		}
		return cs.AddTilemapVsGroup(tm, w.Group(wc.Groups[0]), wc.Flag)
	}

	if len(wc.Groups) < 1 || len(wc.Groups) > 2 {
		return 0, ErrGroupCount
	}
	ga := w.Group(wc.Groups[0])
	gb := ga
	if len(wc.Groups) == 2 {
		gb = w.Group(wc.Groups[1])
	}
	var mode physics.Dispatch
	switch wc.Type {
	case WorkCollide:
		return cs.AddGroupsCollide(ga, gb, nil)
	case WorkOverlapSeparate:
		mode = physics.CallbackSeparate
	case WorkOverlapTogether:
		mode = physics.CallbackTogether
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownWork, wc.Type)
	}
	// Overlap-only work reports through the contact events.
	return cs.AddGroups(ga, gb, mode, func(physics.Shape, physics.Shape, vector.Vec2) {})
}

func (rc ConfigReaction) build(w *world.World) (physics.WorkID, error) {
	g := w.Group(rc.Group)
	switch rc.Type {
	case ReactBounce:
		return w.Collide.AddReactBounce(g, rc.Bounce, rc.Slide)
	case ReactCollisionInfo:
		return w.Collide.AddReactCollisionInfo(g)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownReaction, rc.Type)
	}
}
