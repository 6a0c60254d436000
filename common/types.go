// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidColor is returned when a colour string cannot be parsed.
var ErrInvalidColor = errors.New("invalid color")

// Color is a linear RGB colour with components in [0, 1].
// It unmarshals from YAML as a "#RRGGBB" string or as a three element sequence.
type Color [3]float32

// HexColor builds a Color from a packed 0xRRGGBB value.
//
// Parameters:
//   - hex: the packed colour value
//
// Returns:
//   - Color: the unpacked colour
func HexColor(hex uint32) Color {
	return Color{
		float32((hex>>16)&0xff) / 255.0,
		float32((hex>>8)&0xff) / 255.0,
		float32(hex&0xff) / 255.0,
	}
}

// ParseHexColor parses a "#RRGGBB" or "0xRRGGBB" string into a Color.
//
// Parameters:
//   - s: the colour string
//
// Returns:
//   - Color: the parsed colour
//   - error: ErrInvalidColor wrapped with the offending input on failure
func ParseHexColor(s string) (Color, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, "#")
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X")
	if len(raw) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return HexColor(uint32(v)), nil
}

// Hex returns the colour as a "#rrggbb" string.
func (c Color) Hex() string {
	r := uint32(Clamp(c[0], 0, 1)*255 + 0.5)
	g := uint32(Clamp(c[1], 0, 1)*255 + 0.5)
	b := uint32(Clamp(c[2], 0, 1)*255 + 0.5)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// UnmarshalYAML accepts either a hex string or an [r, g, b] sequence.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		parsed, err := ParseHexColor(node.Value)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}
	var rgb [3]float32
	if err := node.Decode(&rgb); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidColor, err)
	}
	*c = Color(rgb)
	return nil
}

// MarshalYAML writes the colour as a hex string.
func (c Color) MarshalYAML() (any, error) {
	return c.Hex(), nil
}

// Viewport describes the drawable area handed to the renderer.
// Width and Height are logical (screen coordinate) dimensions. PixelRatio maps them to device pixels.
type Viewport struct {
	Width      int
	Height     int
	PixelRatio float32
}

// Clamped returns a copy of the viewport with both dimensions at least 1 and a positive pixel ratio.
func (v Viewport) Clamped() Viewport {
	out := v
	out.Width = max(out.Width, 1)
	out.Height = max(out.Height, 1)
	if out.PixelRatio <= 0 {
		out.PixelRatio = 1
	}
	return out
}

// Aspect returns width / height of the clamped viewport.
func (v Viewport) Aspect() float32 {
	c := v.Clamped()
	return float32(c.Width) / float32(c.Height)
}

// SurfaceSize returns the device pixel dimensions of the clamped viewport, never smaller than 1x1.
func (v Viewport) SurfaceSize() (width, height int) {
	c := v.Clamped()
	width = max(int(float32(c.Width)*c.PixelRatio+0.5), 1)
	height = max(int(float32(c.Height)*c.PixelRatio+0.5), 1)
	return width, height
}
