// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies a translated input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
	EventDropFile
	EventPointerLeave
)

// Event represents a processed input event. Pointer coordinates are in
// window points.
type Event struct {
	Type     EventType
	Key      sdl.Keycode
	Scancode sdl.Scancode
	Repeat   bool
	Shift    bool
	Ctrl     bool
	Width    int
	Height   int
	X        int
	Y        int
	DX       int
	DY       int
	WheelY   int
	Button   uint8
	Path     string
}

// Input polls SDL and buffers the translated events of one frame.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		ev, ok := translate(event, sdl.GetModState())
		if !ok {
			continue
		}
		if ev.Type == EventQuit {
			quit = true
		}
		i.events = append(i.events, ev)
	}
	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a key went down this frame.
func (i *Input) IsKeyPressed(key sdl.Keycode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == key {
			return true
		}
	}
	return false
}

func translate(event sdl.Event, mod sdl.Keymod) (Event, bool) {
	shift := mod&sdl.KMOD_SHIFT != 0
	ctrl := mod&sdl.KMOD_CTRL != 0

	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
			return Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		case sdl.WINDOWEVENT_LEAVE:
			return Event{Type: EventPointerLeave}, true
		}

	case *sdl.KeyboardEvent:
		ev := Event{
			Key:      e.Keysym.Sym,
			Scancode: e.Keysym.Scancode,
			Repeat:   e.Repeat != 0,
			Shift:    shift,
			Ctrl:     ctrl,
		}
		switch e.Type {
		case sdl.KEYDOWN:
			ev.Type = EventKeyDown
			return ev, true
		case sdl.KEYUP:
			ev.Type = EventKeyUp
			return ev, true
		}

	case *sdl.MouseMotionEvent:
		return Event{
			Type:  EventMouseMove,
			X:     int(e.X),
			Y:     int(e.Y),
			DX:    int(e.XRel),
			DY:    int(e.YRel),
			Shift: shift,
			Ctrl:  ctrl,
		}, true

	case *sdl.MouseButtonEvent:
		ev := Event{
			X:      int(e.X),
			Y:      int(e.Y),
			Button: e.Button,
			Shift:  shift,
			Ctrl:   ctrl,
		}
		switch e.Type {
		case sdl.MOUSEBUTTONDOWN:
			ev.Type = EventMouseDown
			return ev, true
		case sdl.MOUSEBUTTONUP:
			ev.Type = EventMouseUp
			return ev, true
		}

	case *sdl.MouseWheelEvent:
		dy := int(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			dy = -dy
		}
		if dy == 0 {
			return Event{}, false
		}
		return Event{Type: EventMouseWheel, WheelY: dy, Shift: shift, Ctrl: ctrl}, true

	case *sdl.DropEvent:
		if e.Type == sdl.DROPFILE && e.File != "" {
			return Event{Type: EventDropFile, Path: e.File}, true
		}
	}

	return Event{}, false
}
