package physics

import (
	"cmp"
	"slices"

	"github.com/zeusync/chitin/internal/core/systems/transform"
	"github.com/zeusync/chitin/internal/core/tilemap"
	"github.com/zeusync/chitin/pkg/generic"
	"github.com/zeusync/chitin/pkg/vector"
)

var candidates = generic.NewSlicePool[int](32)

// TilesFor returns the indices of flagged tiles under s's bounds, nearest
// tile centre first. Equally distant tiles keep row-major order.
func TilesFor(s Shape, tm *tilemap.Tilemap, flag uint) []int {
	return tilesFor(nil, s, tm, flag)
}

func tilesFor(dst []int, s Shape, tm *tilemap.Tilemap, flag uint) []int {
	tl, br := s.Bounds()
	dst = tm.TilesMatchingFlagIn(dst,
		flag,
		tm.WorldToTileX(tl.X), tm.WorldToTileY(tl.Y),
		tm.WorldToTileX(br.X), tm.WorldToTileY(br.Y),
	)
	if len(dst) < 2 {
		return dst
	}

	origin := tm.WorldToTileSpace(s.Center())
	distance := func(i int) float64 {
		x, y := tm.IndexToTile(i)
		return origin.DistanceSquared(vector.New(float64(x)+0.5, float64(y)+0.5))
	}
	slices.SortStableFunc(dst, func(a, b int) int {
		return cmp.Compare(distance(a), distance(b))
	})
	return dst
}

// CollideTilemap tests s against every flagged tile it may touch, nearest
// first. Each tile is a box the size of one frame, centred on the tile.
// The separating vector is computed against s's position at the moment the
// tile is reached, so a correction from a near tile can clear a far one.
//
// The tile shape passed to cb is reused between tiles and is only valid for
// the duration of the call; contact observers get a copy and the tile index. The tilemap itself never moves. A nil cb
// resolves s alone.
func (d *Dispatcher) CollideTilemap(tm *tilemap.Tilemap, s Shape, flag uint, cb Callback) (bool, error) {
	if cb == nil {
		cb = CallbackResolveOnlyA
	}
	idx := candidates.Get()
	defer candidates.Put(idx)
	*idx = tilesFor(*idx, s, tm, flag)

	var at transform.Transform
	tile := &AABB{Body: Body{T: &at}, HalfSize: tm.FrameSize.SMul(0.5)}

	found := false
	for _, i := range *idx {
		at.Pos = tm.TileToWorld(tm.IndexToTile(i))
		m, err := d.MSV(s, tile)
		if err != nil {
			return found, err
		}
		if m.IsZero() {
			continue
		}
		found = true
		if d.observer != nil {
			d.observer(s, tile.detach(), m, i)
		}
		cb(s, tile, m)
	}
	return found, nil
}

// detach copies the scratch tile so it outlives the current iteration.
func (b *AABB) detach() *AABB {
	at := *b.T
	return &AABB{Body: Body{T: &at}, HalfSize: b.HalfSize}
}

func CollideTilemap(tm *tilemap.Tilemap, s Shape, flag uint, cb Callback) (bool, error) {
	return builtin.CollideTilemap(tm, s, flag, cb)
}
