package tilemap

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/zeusync/chitin/internal/core/systems/transform"
	"github.com/zeusync/chitin/pkg/vector"
)

// MaxFlags is the number of boolean properties a tile id can carry.
const MaxFlags = 32

var (
	ErrSizeMismatch   = errors.New("tile count does not match width*height")
	ErrFlagOutOfRange = errors.New("flag bit out of range")
	ErrInvalidSize    = errors.New("tilemap size must not be negative")
	ErrFrameSize      = errors.New("tile frame size must be positive")
)

// Tilemap is a dense row-major grid of tile ids with per-id flag bits.
// Tile (0, 0) has its top-left corner at Transform.Pos.
type Tilemap struct {
	Transform *transform.Transform
	Cols      int
	Rows      int
	FrameSize vector.Vec2
	Tiles     []int
	Flags     []uint32
}

type Config struct {
	Transform *transform.Transform
	Cols      int
	Rows      int
	FrameSize vector.Vec2
	// NumTiles pre-sizes the flag table.
	NumTiles int
}

func New(cfg Config) (*Tilemap, error) {
	if cfg.Cols < 0 || cfg.Rows < 0 {
		return nil, ErrInvalidSize
	}
	if cfg.FrameSize.X <= 0 || cfg.FrameSize.Y <= 0 {
		return nil, ErrFrameSize
	}
	t := cfg.Transform
	if t == nil {
		t = &transform.Transform{}
	}
	n := max(cfg.NumTiles, 1)
	return &Tilemap{
		Transform: t,
		Cols:      cfg.Cols,
		Rows:      cfg.Rows,
		FrameSize: cfg.FrameSize,
		Tiles:     make([]int, cfg.Cols*cfg.Rows),
		Flags:     make([]uint32, n),
	}, nil
}

// Load replaces the grid contents.
func (m *Tilemap) Load(tiles []int, cols, rows int) error {
	if cols < 0 || rows < 0 {
		return ErrInvalidSize
	}
	if len(tiles) != cols*rows {
		return fmt.Errorf("%w: got %d tiles for %dx%d", ErrSizeMismatch, len(tiles), cols, rows)
	}
	m.Cols, m.Rows = cols, rows
	m.Tiles = append(m.Tiles[:0], tiles...)
	return nil
}

// LoadCSV reads one row of comma separated tile ids per line. Cells that are
// not integers become tile 0. Every row must have the same width.
func (m *Tilemap) LoadCSV(r io.Reader) error {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return fmt.Errorf("read tile csv: %w", err)
	}
	rows := len(records)
	cols := 0
	if rows > 0 {
		cols = len(records[0])
	}
	tiles := make([]int, 0, rows*cols)
	for _, rec := range records {
		for _, cell := range rec {
			v, err := strconv.Atoi(strings.TrimSpace(cell))
			if err != nil {
				v = 0
			}
			tiles = append(tiles, v)
		}
	}
	return m.Load(tiles, cols, rows)
}

// Resize clears the grid to cols x rows of tile 0.
func (m *Tilemap) Resize(cols, rows int) error {
	if cols < 0 || rows < 0 {
		return ErrInvalidSize
	}
	m.Cols, m.Rows = cols, rows
	m.Tiles = make([]int, cols*rows)
	return nil
}

func (m *Tilemap) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.Cols && y < m.Rows
}

// Coordinate conversions

func (m *Tilemap) WorldToTileX(x float64) int {
	return int(math.Floor((x - m.Transform.Pos.X) / m.FrameSize.X))
}

func (m *Tilemap) WorldToTileY(y float64) int {
	return int(math.Floor((y - m.Transform.Pos.Y) / m.FrameSize.Y))
}

// WorldToTile returns the tile containing the world position, as integral
// tile coordinates.
func (m *Tilemap) WorldToTile(v vector.Vec2) vector.Vec2 {
	return vector.New(float64(m.WorldToTileX(v.X)), float64(m.WorldToTileY(v.Y)))
}

// WorldToTileSpace is the continuous form of WorldToTile: tile (x, y) spans
// [x, x+1) x [y, y+1).
func (m *Tilemap) WorldToTileSpace(v vector.Vec2) vector.Vec2 {
	return v.Sub(m.Transform.Pos).Div(m.FrameSize)
}

// TileToWorld returns the world-space centre of tile (x, y).
func (m *Tilemap) TileToWorld(x, y int) vector.Vec2 {
	return vector.New(
		(float64(x)+0.5)*m.FrameSize.X+m.Transform.Pos.X,
		(float64(y)+0.5)*m.FrameSize.Y+m.Transform.Pos.Y,
	)
}

func (m *Tilemap) IndexToTile(i int) (x, y int) {
	return i % m.Cols, i / m.Cols
}

func (m *Tilemap) TileToIndex(x, y int) int {
	return x + y*m.Cols
}

// Tile access. Out of range coordinates read as tile 0 and writes to them are
// dropped.

func (m *Tilemap) Get(x, y int) int {
	if !m.InBounds(x, y) {
		return 0
	}
	return m.Tiles[m.TileToIndex(x, y)]
}

func (m *Tilemap) GetClamped(x, y int) int {
	if m.Cols == 0 || m.Rows == 0 {
		return 0
	}
	return m.Get(vector.Clamp(x, 0, m.Cols-1), vector.Clamp(y, 0, m.Rows-1))
}

func (m *Tilemap) GetWrapped(x, y int) int {
	return m.Get(vector.Wrap(x, 0, m.Cols), vector.Wrap(y, 0, m.Rows))
}

func (m *Tilemap) GetWorld(v vector.Vec2) int {
	return m.Get(m.WorldToTileX(v.X), m.WorldToTileY(v.Y))
}

func (m *Tilemap) Set(x, y, tile int) {
	if !m.InBounds(x, y) {
		return
	}
	m.Tiles[m.TileToIndex(x, y)] = tile
}

func (m *Tilemap) SetWorld(v vector.Vec2, tile int) {
	m.Set(m.WorldToTileX(v.X), m.WorldToTileY(v.Y), tile)
}

// Fill sets every tile in the inclusive rectangle.
func (m *Tilemap) Fill(x1, y1, x2, y2, tile int) {
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			m.Set(x, y, tile)
		}
	}
}

// Flags

func (m *Tilemap) TileFlags(tile int) uint32 {
	if tile < 0 || tile >= len(m.Flags) {
		return 0
	}
	return m.Flags[tile]
}

func (m *Tilemap) SetTileFlags(tile int, flags uint32) {
	if tile < 0 {
		return
	}
	m.growFlags(tile)
	m.Flags[tile] = flags
}

// GetFlag reports whether tile has flag bit set. Ids outside the flag table
// have no flags.
func (m *Tilemap) GetFlag(tile int, flag uint) bool {
	if flag >= MaxFlags {
		return false
	}
	return m.TileFlags(tile)&(1<<flag) != 0
}

func (m *Tilemap) SetFlag(tile int, flag uint) error {
	if flag >= MaxFlags {
		return fmt.Errorf("%w: %d", ErrFlagOutOfRange, flag)
	}
	if tile < 0 {
		return nil
	}
	m.growFlags(tile)
	m.Flags[tile] |= 1 << flag
	return nil
}

func (m *Tilemap) UnsetFlag(tile int, flag uint) error {
	if flag >= MaxFlags {
		return fmt.Errorf("%w: %d", ErrFlagOutOfRange, flag)
	}
	if tile < 0 || tile >= len(m.Flags) {
		return nil
	}
	m.Flags[tile] &^= 1 << flag
	return nil
}

func (m *Tilemap) growFlags(tile int) {
	for len(m.Flags) <= tile {
		m.Flags = append(m.Flags, 0)
	}
}

// Queries

// TilesMatchingIn appends to dst the index of every tile in the inclusive
// range whose id satisfies match. The range is clamped to the grid.
func (m *Tilemap) TilesMatchingIn(dst []int, match func(tile int) bool, x1, y1, x2, y2 int) []int {
	x1, y1 = max(x1, 0), max(y1, 0)
	x2, y2 = min(x2, m.Cols-1), min(y2, m.Rows-1)
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			i := m.TileToIndex(x, y)
			if match(m.Tiles[i]) {
				dst = append(dst, i)
			}
		}
	}
	return dst
}

func (m *Tilemap) TilesMatchingFlagIn(dst []int, flag uint, x1, y1, x2, y2 int) []int {
	return m.TilesMatchingIn(dst, func(t int) bool { return m.GetFlag(t, flag) }, x1, y1, x2, y2)
}

func (m *Tilemap) TilesMatchingFlag(flag uint) []int {
	return m.TilesMatchingFlagIn(nil, flag, 0, 0, m.Cols-1, m.Rows-1)
}

func (m *Tilemap) TilesMatchingTypeIn(dst []int, tile, x1, y1, x2, y2 int) []int {
	return m.TilesMatchingIn(dst, func(t int) bool { return t == tile }, x1, y1, x2, y2)
}
