package debug

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/facepaint/internal/face"
)

func fixedClock() time.Time {
	return time.Date(2024, 5, 17, 10, 30, 0, 0, time.UTC)
}

func newTestWriter(t *testing.T) (*SnapshotWriter, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "snaps")
	sw := NewSnapshotWriter(dir, nil)
	sw.now = fixedClock
	return sw, dir
}

func TestFlipRows(t *testing.T) {
	// Two rows, bottom row red, top row blue, as OpenGL returns them.
	pixels := []byte{
		255, 0, 0, 255, 255, 0, 0, 255,
		0, 0, 255, 255, 0, 0, 255, 255,
	}
	img, err := FlipRows(pixels, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{0, 0, 255, 255}) {
		t.Errorf("top-left = %v, want blue", got)
	}
	if got := img.RGBAAt(1, 1); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("bottom-right = %v, want red", got)
	}

	if _, err := FlipRows(pixels[:4], 2, 2); err == nil {
		t.Error("expected size mismatch error")
	}
}

func TestWritePixels(t *testing.T) {
	sw, dir := newTestWriter(t)

	pixels := make([]byte, 4*3*4)
	for i := range pixels {
		pixels[i] = 200
	}
	path, err := sw.WritePixels("cube", pixels, 4, 3)
	if err != nil {
		t.Fatalf("WritePixels: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("path %q not in %q", path, dir)
	}
	if want := "cube_2024-05-17_10-30-00.png"; filepath.Base(path) != want {
		t.Errorf("name = %q, want %q", filepath.Base(path), want)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("bounds = %v", b)
	}
}

func TestFilenameDoesNotOverwrite(t *testing.T) {
	sw, _ := newTestWriter(t)

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	first, err := sw.WriteImage("shot", img)
	if err != nil {
		t.Fatal(err)
	}
	second, err := sw.WriteImage("shot", img)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatalf("second write reused %q", first)
	}
	if !strings.HasSuffix(second, "_1.png") {
		t.Errorf("second name = %q, want sequence suffix", second)
	}
}

func TestWriteFaces(t *testing.T) {
	sw, dir := newTestWriter(t)

	b := face.NewBoard(face.DefaultOptions(), nil)
	bitmaps, err := b.Bitmaps()
	if err != nil {
		t.Fatal(err)
	}
	paths, err := sw.WriteFaces(bitmaps)
	if err != nil {
		t.Fatalf("WriteFaces: %v", err)
	}
	if len(paths) != face.Count {
		t.Fatalf("wrote %d files, want %d", len(paths), face.Count)
	}
	for _, id := range face.IDs() {
		name := filepath.Join(dir, "face-"+id.String()+"_2024-05-17_10-30-00.png")
		data, err := os.ReadFile(name)
		if err != nil {
			t.Errorf("%v: %v", id, err)
			continue
		}
		if !bytes.Equal(data, bitmaps[id]) {
			t.Errorf("%v: file differs from bitmap", id)
		}
	}
}

func TestWriteBitmapEmpty(t *testing.T) {
	sw, _ := newTestWriter(t)
	if _, err := sw.WriteBitmap("empty", nil); err == nil {
		t.Error("expected error for empty bitmap")
	}
}
