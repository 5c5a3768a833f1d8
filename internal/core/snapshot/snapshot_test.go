package snapshot

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/chitin/internal/core/physics"
	"github.com/zeusync/chitin/internal/core/systems/transform"
	"github.com/zeusync/chitin/pkg/vector"
)

func shapes(t *testing.T) []physics.Shape {
	t.Helper()
	c, err := physics.NewCircle(transform.At(1, 2), 3)
	require.NoError(t, err)
	c.T.Vel = vector.New(4, 5)
	b, err := physics.NewAABBHalf(transform.At(-1, 0), vector.New(2, 1))
	require.NoError(t, err)
	b.SetSides(physics.SideTop)
	l, err := physics.NewLine(transform.At(0, 0), vector.New(3, 4))
	require.NoError(t, err)
	return []physics.Shape{c, b, l}
}

func TestCapture(t *testing.T) {
	f := Capture(9, shapes(t))
	require.Len(t, f.Bodies, 3)
	assert.Equal(t, uint64(9), f.Tick)
	assert.Equal(t, Body{ID: 0, Kind: "circle", Pos: [2]float64{1, 2}, Vel: [2]float64{4, 5}, Ext: [2]float64{3, 3}}, f.Bodies[0])
	assert.Equal(t, [2]float64{2, 1}, f.Bodies[1].Ext)
	assert.Equal(t, uint8(physics.SideTop), f.Bodies[1].Sides)
	assert.Equal(t, "line", f.Bodies[2].Kind)
	assert.Equal(t, [2]float64{3, 4}, f.Bodies[2].Ext)
}

func TestChecksumTracksState(t *testing.T) {
	ss := shapes(t)
	a := Capture(1, ss)
	b := Capture(2, ss)
	assert.Equal(t, a.Checksum(), b.Checksum(), "tick is not part of the state")

	ss[0].Transform().Pos.X += 1e-12
	c := Capture(3, ss)
	assert.NotEqual(t, a.Checksum(), c.Checksum())

	assert.NotEqual(t, Frame{}.Checksum(), a.Checksum())
}

func TestFrameJSON(t *testing.T) {
	data, err := json.Marshal(Capture(1, shapes(t)[:1]))
	require.NoError(t, err)
	assert.JSONEq(t, `{"tick":1,"bodies":[{"id":0,"kind":"circle","pos":[1,2],"vel":[4,5],"ext":[3,3]}]}`, string(data))
}

func TestCaptureContact(t *testing.T) {
	s := shapes(t)
	c := CaptureContact(4, physics.Contact{A: s[0], B: s[1], MSV: vector.New(0.5, -1), Work: 3, Tile: physics.NoTile})
	assert.Equal(t, Contact{
		Tick: 4,
		Work: 3,
		Tile: -1,
		A:    [2]float64{1, 2},
		B:    [2]float64{-1, 0},
		MSV:  [2]float64{0.5, -1},
	}, c)
}
