package face

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/gg"
)

// ErrBadColor is returned for colours ParseColor does not understand.
var ErrBadColor = errors.New("bad color")

// ParseColor accepts "black", "white" and hex colours in #RGB, #RRGGBB or
// #RRGGBBAA form.
func ParseColor(s string) (gg.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "black":
		return gg.Black, nil
	case "white":
		return gg.White, nil
	}

	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3, 6, 8:
	default:
		return gg.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	for _, c := range hex {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return gg.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
		}
	}
	return gg.Hex(hex), nil
}
