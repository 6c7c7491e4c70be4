// Package face holds the six paintable cube faces and the editing rules that
// turn pointer input into committed strokes.
package face

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownFace is returned for an ID outside Front..Left.
var ErrUnknownFace = errors.New("unknown face")

// ID identifies a cube face. The order matches the cube geometry, so an ID is
// also the index of the face's texture slot and its quad in the index buffer.
type ID int

// None means no face.
const None ID = -1

const (
	Front ID = iota
	Back
	Top
	Bottom
	Right
	Left
)

// Count is the number of faces.
const Count = 6

var idNames = [Count]string{"front", "back", "top", "bottom", "right", "left"}

// Valid reports whether id names one of the six faces.
func (id ID) Valid() bool {
	return id >= 0 && id < Count
}

func (id ID) String() string {
	if id == None {
		return "none"
	}
	if !id.Valid() {
		return fmt.Sprintf("face(%d)", int(id))
	}
	return idNames[id]
}

// ParseID parses a face name such as "top".
func ParseID(s string) (ID, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range idNames {
		if name == s {
			return ID(i), nil
		}
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownFace, s)
}

// IDs returns every face in slot order.
func IDs() [Count]ID {
	return [Count]ID{Front, Back, Top, Bottom, Right, Left}
}

func checkID(id ID) error {
	if !id.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownFace, int(id))
	}
	return nil
}
