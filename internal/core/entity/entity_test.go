package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/chitin/internal/core/events/bus"
	"github.com/zeusync/chitin/internal/core/observability/log"
	"github.com/zeusync/chitin/internal/core/system"
)

type tag struct{ label string }

type tagSystem struct {
	live      int
	destroyed []string
}

func (s *tagSystem) CreateComponent(args any) (any, error) {
	label, _ := args.(string)
	s.live++
	return &tag{label: label}, nil
}

func (s *tagSystem) DestroyComponent(c any) error {
	s.live--
	s.destroyed = append(s.destroyed, c.(*tag).label)
	return nil
}

func setup(t *testing.T) (*Factory, *tagSystem, *tagSystem) {
	t.Helper()
	reg := system.NewRegistry(log.NewNop())
	tags := &tagSystem{}
	uiTags := &tagSystem{}
	require.NoError(t, reg.Add("tag", tags))
	require.NoError(t, reg.Add("ui::tag", uiTags))
	return NewFactory(reg, nil, log.NewNop()), tags, uiTags
}

func TestSequentialIDs(t *testing.T) {
	f, _, _ := setup(t)
	a, b := f.New(""), f.New("")
	assert.Equal(t, ID(1), a.ID())
	assert.Equal(t, ID(2), b.ID())
	assert.Equal(t, 2, f.Len())

	got, ok := f.Get(2)
	require.True(t, ok)
	assert.Same(t, b, got)
}

func TestComponentAccess(t *testing.T) {
	f, tags, _ := setup(t)
	e := f.New("")

	for _, l := range []string{"a", "b", "c"} {
		_, err := e.Add("tag", l)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, e.N("tag"))
	assert.Equal(t, 3, tags.live)

	first, ok := Get[*tag](e, "tag", 0)
	require.True(t, ok)
	assert.Equal(t, "a", first.label)

	last, ok := Get[*tag](e, "tag", -1)
	require.True(t, ok)
	assert.Equal(t, "c", last.label)

	_, ok = e.C("tag", 3)
	assert.False(t, ok)
	_, ok = e.C("tag", -4)
	assert.False(t, ok)
	_, ok = Get[string](e, "tag", 0)
	assert.False(t, ok, "wrong type")

	_, err := e.Add("missing", nil)
	assert.ErrorIs(t, err, system.ErrSystemNotFound)
}

func TestNamespaces(t *testing.T) {
	f, tags, uiTags := setup(t)
	e := f.New("ui")
	assert.Equal(t, "ui::", e.Namespace())
	assert.Equal(t, "ui::tag", e.Global("tag"))
	assert.Equal(t, "tag", e.Global("::tag"))

	_, err := e.Add("tag", "local")
	require.NoError(t, err)
	_, err = e.Add("::tag", "global")
	require.NoError(t, err)

	assert.Equal(t, 1, uiTags.live)
	assert.Equal(t, 1, tags.live)
	assert.Equal(t, 1, e.N("tag"))
	assert.Equal(t, 1, e.N("::tag"))
}

func TestRemove(t *testing.T) {
	f, tags, _ := setup(t)
	e := f.New("")
	a, _ := e.Add("tag", "a")
	_, _ = e.Add("tag", "b")

	require.NoError(t, e.Remove("tag", a))
	assert.Equal(t, 1, e.N("tag"))
	assert.Equal(t, []string{"a"}, tags.destroyed)
	assert.ErrorIs(t, e.Remove("tag", a), ErrNoComponent)

	require.NoError(t, e.RemoveAt("tag", -1))
	assert.Equal(t, 0, e.N("tag"))
	assert.ErrorIs(t, e.RemoveAt("tag", 0), ErrNoComponent)
}

func TestDestroy(t *testing.T) {
	b := bus.New()
	var events []string
	for _, typ := range []string{bus.EventEntityAdded, bus.EventEntityGone} {
		_, err := b.Subscribe(typ, func(ev bus.Event) error {
			events = append(events, ev.Type())
			return nil
		})
		require.NoError(t, err)
	}

	reg := system.NewRegistry(log.NewNop())
	tags := &tagSystem{}
	require.NoError(t, reg.Add("tag", tags))
	f := NewFactory(reg, b, log.NewNop())

	e := f.New("")
	e.AddExisting("tag", &tag{label: "x"})
	_, _ = e.Add("tag", "y")
	e.Props["hp"] = 3

	require.NoError(t, e.Destroy())
	require.NoError(t, e.Destroy())
	assert.True(t, e.Destroyed())
	assert.Equal(t, []string{"x", "y"}, tags.destroyed)
	assert.Equal(t, 0, f.Len())
	assert.Equal(t, []string{bus.EventEntityAdded, bus.EventEntityGone}, events)

	_, err := e.Add("tag", "z")
	assert.ErrorIs(t, err, ErrDestroyed)
}
