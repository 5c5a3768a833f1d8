package scene

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/chitin/pkg/concurrent"
	"github.com/zeusync/chitin/pkg/vector"
)

var (
	ErrUnknownFormat   = errors.New("unknown scene file format")
	ErrUnknownShape    = errors.New("unknown shape kind")
	ErrUnknownWork     = errors.New("unknown work type")
	ErrUnknownReaction = errors.New("unknown reaction type")
	ErrUnknownTilemap  = errors.New("unknown tilemap")
	ErrGroupCount      = errors.New("work needs one or two groups")
)

// Work item types.
const (
	WorkCollide         = "collide"
	WorkOverlapSeparate = "overlap_separate"
	WorkOverlapTogether = "overlap_together"
	WorkTilemap         = "tilemap"
)

// Reaction types.
const (
	ReactBounce        = "bounce"
	ReactCollisionInfo = "collision_info"
)

// Vec is a point or extent written as [x, y].
type Vec [2]float64

func (v Vec) V() vector.Vec2 { return vector.New(v[0], v[1]) }

// Config describes a scene in JSON or YAML.
type Config struct {
	Name string `json:"name" yaml:"name"`
	// ResolveScale overrides the engine default when set.
	ResolveScale *float64 `json:"resolve_scale,omitempty" yaml:"resolve_scale,omitempty"`

	Tilemaps  []ConfigTilemap  `json:"tilemaps,omitempty" yaml:"tilemaps,omitempty"`
	Bodies    []ConfigBody     `json:"bodies,omitempty" yaml:"bodies,omitempty"`
	Work      []ConfigWork     `json:"work,omitempty" yaml:"work,omitempty"`
	Reactions []ConfigReaction `json:"reactions,omitempty" yaml:"reactions,omitempty"`
}

type ConfigTilemap struct {
	Name      string `json:"name" yaml:"name"`
	FrameSize Vec    `json:"frame_size" yaml:"frame_size"`
	Origin    Vec    `json:"origin,omitempty" yaml:"origin,omitempty"`
	// Centered places the middle of the grid at the origin.
	Centered bool `json:"centered,omitempty" yaml:"centered,omitempty"`
	// CSV holds one row of tile ids per line.
	CSV string `json:"csv" yaml:"csv"`
	// Flags maps a tile id to the flag bits it carries.
	Flags map[int][]uint `json:"flags,omitempty" yaml:"flags,omitempty"`
}

type ConfigBody struct {
	Shape  string   `json:"shape" yaml:"shape"`
	Radius float64  `json:"radius,omitempty" yaml:"radius,omitempty"`
	Size   Vec      `json:"size,omitempty" yaml:"size,omitempty"`
	End    Vec      `json:"end,omitempty" yaml:"end,omitempty"`
	Pos    Vec      `json:"pos" yaml:"pos"`
	Vel    Vec      `json:"vel,omitempty" yaml:"vel,omitempty"`
	Acc    Vec      `json:"acc,omitempty" yaml:"acc,omitempty"`
	Groups []string `json:"groups,omitempty" yaml:"groups,omitempty"`
}

type ConfigWork struct {
	Type    string   `json:"type" yaml:"type"`
	Groups  []string `json:"groups,omitempty" yaml:"groups,omitempty"`
	Tilemap string   `json:"tilemap,omitempty" yaml:"tilemap,omitempty"`
	Flag    uint     `json:"flag,omitempty" yaml:"flag,omitempty"`
}

type ConfigReaction struct {
	Type   string  `json:"type" yaml:"type"`
	Group  string  `json:"group" yaml:"group"`
	Bounce float64 `json:"bounce,omitempty" yaml:"bounce,omitempty"`
	Slide  float64 `json:"slide,omitempty" yaml:"slide,omitempty"`
}

// LoadJSON loads a scene from a JSON reader.
func LoadJSON(r io.Reader) (*Config, error) {
	var c Config
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadYAML loads a scene from a YAML reader.
func LoadYAML(r io.Reader) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile picks the decoder from the file extension.
func LoadFile(path string) (*Config, error) {
	var load func(io.Reader) (*Config, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		load = LoadJSON
	case ".yaml", ".yml":
		load = LoadYAML
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := load(f)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return c, nil
}

// LoadFiles decodes every path concurrently. Results keep the order of paths.
func LoadFiles(ctx context.Context, paths ...string) ([]*Config, error) {
	return concurrent.Map(ctx, paths, 0, func(_ context.Context, p string) (*Config, error) {
		return LoadFile(p)
	})
}
