// Package colors converts free-form color specifications (a known color
// name in English or German, or a 6/8-digit hex string) into normalized
// channel values. Resolution is a pure function; callers pick their own
// fallback when it fails.
package colors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/songboard/songboard/internal/domain"
)

// ErrUnresolvable is returned when the input matches neither the name
// table nor a valid hex form. Callers decide the default color.
var ErrUnresolvable = errors.New("color not resolvable")

// rgb builds an opaque color from 8-bit channel values
func rgb(r, g, b uint8) domain.Color {
	return domain.Color{
		R: float64(r) / 255,
		G: float64(g) / 255,
		B: float64(b) / 255,
		A: 1.0,
	}
}

// names maps lowercase English and German color names to the same
// canonical color. Lookup is exact-match, no fuzzy matching. The umlaut
// spellings carry ASCII transliterations since push payload text is not
// guaranteed to survive encoding intact.
var names = map[string]domain.Color{
	"red":     rgb(255, 0, 0),
	"rot":     rgb(255, 0, 0),
	"green":   rgb(0, 255, 0),
	"grün":    rgb(0, 255, 0),
	"gruen":   rgb(0, 255, 0),
	"blue":    rgb(0, 0, 255),
	"blau":    rgb(0, 0, 255),
	"black":   rgb(0, 0, 0),
	"schwarz": rgb(0, 0, 0),
	"white":   rgb(255, 255, 255),
	"weiß":    rgb(255, 255, 255),
	"weiss":   rgb(255, 255, 255),
	"yellow":  rgb(255, 255, 0),
	"gelb":    rgb(255, 255, 0),
	"orange":  rgb(255, 165, 0),
	"purple":  rgb(128, 0, 128),
	"lila":    rgb(128, 0, 128),
	"pink":    rgb(255, 192, 203),
	"rosa":    rgb(255, 192, 203),
	"gray":    rgb(128, 128, 128),
	"grey":    rgb(128, 128, 128),
	"grau":    rgb(128, 128, 128),
}

// Resolve converts a color specification into channel values.
//
// Surrounding whitespace is trimmed and the input is case-folded before
// the name lookup. If no name matches, a single leading '#' is stripped
// and the remainder is parsed as hex: exactly 6 digits yield opaque RGB,
// exactly 8 digits yield RGBA with the low byte as alpha. Anything else
// fails with ErrUnresolvable.
func Resolve(spec string) (domain.Color, error) {
	norm := strings.ToLower(strings.TrimSpace(spec))

	if c, ok := names[norm]; ok {
		return c, nil
	}

	hex := strings.TrimPrefix(norm, "#")

	switch len(hex) {
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return domain.Color{}, fmt.Errorf("%w: %q", ErrUnresolvable, spec)
		}
		return domain.Color{
			R: float64(v>>16&0xff) / 255,
			G: float64(v>>8&0xff) / 255,
			B: float64(v&0xff) / 255,
			A: 1.0,
		}, nil

	case 8:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return domain.Color{}, fmt.Errorf("%w: %q", ErrUnresolvable, spec)
		}
		return domain.Color{
			R: float64(v>>24&0xff) / 255,
			G: float64(v>>16&0xff) / 255,
			B: float64(v>>8&0xff) / 255,
			A: float64(v&0xff) / 255,
		}, nil

	default:
		return domain.Color{}, fmt.Errorf("%w: %q", ErrUnresolvable, spec)
	}
}

// ResolveOr resolves a specification, falling back to the caller's
// default when resolution fails.
func ResolveOr(spec string, fallback domain.Color) domain.Color {
	c, err := Resolve(spec)
	if err != nil {
		return fallback
	}
	return c
}
