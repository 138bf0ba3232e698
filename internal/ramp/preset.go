package ramp

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
)

// Preset is the on-disk form of a stop set:
//
//	name = "moss"
//	[[stops]]
//	color = "#344541"
//	pos = 0.0
type Preset struct {
	Name  string       `toml:"name,omitempty"`
	Stops []PresetStop `toml:"stops"`
}

// PresetStop is a single stop with a hex colour.
type PresetStop struct {
	Color string  `toml:"color"`
	Pos   float32 `toml:"pos"`
}

// DefaultStops is the moss-green ramp the viewer starts with.
func DefaultStops() StopSet {
	return mustHexStops([]PresetStop{
		{Color: "#344541", Pos: 0},
		{Color: "#38574d", Pos: 0.1},
		{Color: "#7FAE58", Pos: 0.36},
		{Color: "#CDE583", Pos: 0.82},
	})
}

func mustHexStops(ps []PresetStop) StopSet {
	stops, err := Preset{Stops: ps}.StopSet()
	if err != nil {
		panic(err)
	}
	return stops
}

// ParseHex decodes a "#rrggbb" or "#rgb" colour into channels in [0,1].
// The channel values are used as-is; no transfer function is applied.
func ParseHex(s string) (mgl32.Vec3, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("ramp: bad colour %q: %w", s, err)
	}
	return mgl32.Vec3{float32(c.R), float32(c.G), float32(c.B)}, nil
}

// Hex formats channels in [0,1] as "#rrggbb".
func Hex(c mgl32.Vec3) string {
	return colorful.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}.Clamped().Hex()
}

// StopSet converts the preset to stops, keeping file order.
func (p Preset) StopSet() (StopSet, error) {
	if len(p.Stops) == 0 {
		return nil, ErrEmptyStopSet
	}
	stops := make(StopSet, 0, len(p.Stops))
	for i, ps := range p.Stops {
		c, err := ParseHex(ps.Color)
		if err != nil {
			return nil, fmt.Errorf("stop %d: %w", i, err)
		}
		stops = append(stops, Stop{Position: ps.Pos, Color: c})
	}
	return stops, nil
}

// ParsePreset decodes a TOML preset document.
func ParsePreset(data []byte) (StopSet, error) {
	var p Preset
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("ramp: decode preset: %w", err)
	}
	return p.StopSet()
}

// LoadPreset reads and decodes a preset file.
func LoadPreset(path string) (StopSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	stops, err := ParsePreset(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return stops, nil
}

// EncodePreset renders stops as a TOML preset document.
func EncodePreset(name string, stops StopSet) ([]byte, error) {
	p := Preset{Name: name, Stops: make([]PresetStop, len(stops))}
	for i, st := range stops {
		p.Stops[i] = PresetStop{Color: Hex(st.Color), Pos: st.Position}
	}
	return toml.Marshal(p)
}

// SavePreset writes stops to path.
func SavePreset(path, name string, stops StopSet) error {
	data, err := EncodePreset(name, stops)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
