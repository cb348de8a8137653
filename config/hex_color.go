package config

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"
)

// HexColor is an opaque color written as "#rrggbb".
type HexColor color.RGBA

func (c HexColor) ToRGBA() color.RGBA {
	return color.RGBA(c)
}

func (c HexColor) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c HexColor) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *HexColor) UnmarshalText(b []byte) error {
	s := strings.TrimPrefix(strings.TrimSpace(string(b)), "#")
	if len(s) != 6 {
		return fmt.Errorf("expected a color in form '#rrggbb', got '%s'", b)
	}
	v, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("unable to parse color '%s': %w", b, err)
	}
	*c = HexColor{R: v[0], G: v[1], B: v[2], A: 255}
	return nil
}
