package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestTranslateKeyboard(t *testing.T) {
	ev, ok := translate(&sdl.KeyboardEvent{
		Type:   sdl.KEYDOWN,
		Keysym: sdl.Keysym{Sym: sdl.K_z, Scancode: sdl.SCANCODE_Z},
	}, sdl.KMOD_LCTRL)
	if !ok {
		t.Fatal("keyboard event dropped")
	}
	if ev.Type != EventKeyDown || ev.Key != sdl.K_z || !ev.Ctrl || ev.Shift {
		t.Errorf("unexpected event %+v", ev)
	}

	ev, ok = translate(&sdl.KeyboardEvent{
		Type:   sdl.KEYUP,
		Keysym: sdl.Keysym{Sym: sdl.K_r},
	}, sdl.KMOD_NONE)
	if !ok || ev.Type != EventKeyUp || ev.Ctrl {
		t.Errorf("unexpected key up %+v", ev)
	}
}

func TestTranslatePointer(t *testing.T) {
	ev, ok := translate(&sdl.MouseMotionEvent{X: 10, Y: 20, XRel: 3, YRel: -4}, sdl.KMOD_LSHIFT)
	if !ok {
		t.Fatal("motion event dropped")
	}
	if ev.Type != EventMouseMove || ev.X != 10 || ev.Y != 20 || ev.DX != 3 || ev.DY != -4 || !ev.Shift {
		t.Errorf("unexpected motion %+v", ev)
	}

	ev, ok = translate(&sdl.MouseButtonEvent{
		Type:   sdl.MOUSEBUTTONDOWN,
		X:      5,
		Y:      6,
		Button: sdl.BUTTON_LEFT,
	}, sdl.KMOD_NONE)
	if !ok || ev.Type != EventMouseDown || ev.Button != sdl.BUTTON_LEFT || ev.X != 5 {
		t.Errorf("unexpected button %+v", ev)
	}

	ev, ok = translate(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, Button: sdl.BUTTON_LEFT}, sdl.KMOD_NONE)
	if !ok || ev.Type != EventMouseUp {
		t.Errorf("unexpected button up %+v", ev)
	}
}

func TestTranslateWheel(t *testing.T) {
	ev, ok := translate(&sdl.MouseWheelEvent{Y: 2}, sdl.KMOD_NONE)
	if !ok || ev.Type != EventMouseWheel || ev.WheelY != 2 {
		t.Errorf("unexpected wheel %+v", ev)
	}

	ev, ok = translate(&sdl.MouseWheelEvent{Y: 1, Direction: sdl.MOUSEWHEEL_FLIPPED}, sdl.KMOD_NONE)
	if !ok || ev.WheelY != -1 {
		t.Errorf("flipped wheel = %+v", ev)
	}

	if _, ok := translate(&sdl.MouseWheelEvent{X: 3}, sdl.KMOD_NONE); ok {
		t.Error("horizontal-only wheel should be dropped")
	}
}

func TestTranslateWindow(t *testing.T) {
	ev, ok := translate(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESIZED, Data1: 800, Data2: 600}, sdl.KMOD_NONE)
	if !ok || ev.Type != EventWindowResize || ev.Width != 800 || ev.Height != 600 {
		t.Errorf("unexpected resize %+v", ev)
	}

	ev, ok = translate(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_LEAVE}, sdl.KMOD_NONE)
	if !ok || ev.Type != EventPointerLeave {
		t.Errorf("unexpected leave %+v", ev)
	}

	if _, ok := translate(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_MOVED}, sdl.KMOD_NONE); ok {
		t.Error("move event should be dropped")
	}
}

func TestTranslateDropAndQuit(t *testing.T) {
	ev, ok := translate(&sdl.DropEvent{Type: sdl.DROPFILE, File: "/tmp/a.png"}, sdl.KMOD_NONE)
	if !ok || ev.Type != EventDropFile || ev.Path != "/tmp/a.png" {
		t.Errorf("unexpected drop %+v", ev)
	}

	ev, ok = translate(&sdl.QuitEvent{}, sdl.KMOD_NONE)
	if !ok || ev.Type != EventQuit {
		t.Errorf("unexpected quit %+v", ev)
	}
}

func TestIsKeyPressed(t *testing.T) {
	in := New()
	in.events = append(in.events,
		Event{Type: EventKeyUp, Key: sdl.K_a},
		Event{Type: EventKeyDown, Key: sdl.K_b},
	)
	if in.IsKeyPressed(sdl.K_a) {
		t.Error("key up should not count as pressed")
	}
	if !in.IsKeyPressed(sdl.K_b) {
		t.Error("expected b pressed")
	}
}
