// Package debug writes screenshots and face bitmaps for inspection.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/facepaint/internal/face"
)

const timestampLayout = "2006-01-02_15-04-05"

// SnapshotWriter saves PNG files with timestamped names into one directory.
type SnapshotWriter struct {
	outputDir string
	now       func() time.Time
	log       *zap.Logger
}

// NewSnapshotWriter creates a writer for outputDir. The directory is created
// on first write.
func NewSnapshotWriter(outputDir string, log *zap.Logger) *SnapshotWriter {
	if log == nil {
		log = zap.NewNop()
	}
	return &SnapshotWriter{
		outputDir: outputDir,
		now:       time.Now,
		log:       log,
	}
}

// SetOutputDir sets the output directory.
func (sw *SnapshotWriter) SetOutputDir(dir string) {
	sw.outputDir = dir
}

// Filename returns the path the next file with this prefix would use.
// An existing file is never overwritten; a sequence suffix is added instead.
func (sw *SnapshotWriter) Filename(prefix string) string {
	base := fmt.Sprintf("%s_%s", prefix, sw.now().Format(timestampLayout))
	name := filepath.Join(sw.outputDir, base+".png")
	for i := 1; ; i++ {
		if _, err := os.Stat(name); os.IsNotExist(err) {
			return name
		}
		name = filepath.Join(sw.outputDir, fmt.Sprintf("%s_%d.png", base, i))
	}
}

// WritePixels saves raw RGBA pixels read back from OpenGL. Rows arrive
// bottom-up and are flipped.
func (sw *SnapshotWriter) WritePixels(prefix string, pixels []byte, width, height int) (string, error) {
	img, err := FlipRows(pixels, width, height)
	if err != nil {
		return "", err
	}
	return sw.WriteImage(prefix, img)
}

// WriteImage saves an image as PNG.
func (sw *SnapshotWriter) WriteImage(prefix string, img image.Image) (string, error) {
	if err := sw.ensureDir(); err != nil {
		return "", err
	}
	filename := sw.Filename(prefix)

	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}

	sw.log.Info("snapshot saved", zap.String("path", filename))
	return filename, nil
}

// WriteBitmap saves already encoded PNG bytes.
func (sw *SnapshotWriter) WriteBitmap(prefix string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%s: empty bitmap", prefix)
	}
	if err := sw.ensureDir(); err != nil {
		return "", err
	}
	filename := sw.Filename(prefix)
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", filename, err)
	}
	sw.log.Debug("bitmap saved", zap.String("path", filename))
	return filename, nil
}

// WriteFaces saves the six face bitmaps, one file per face named after it.
func (sw *SnapshotWriter) WriteFaces(bitmaps [face.Count][]byte) ([]string, error) {
	paths := make([]string, 0, face.Count)
	for _, id := range face.IDs() {
		path, err := sw.WriteBitmap("face-"+id.String(), bitmaps[id])
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	sw.log.Info("face bitmaps saved", zap.Int("count", len(paths)), zap.String("dir", sw.outputDir))
	return paths, nil
}

func (sw *SnapshotWriter) ensureDir() error {
	if sw.outputDir == "" {
		return nil
	}
	if err := os.MkdirAll(sw.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	return nil
}

// FlipRows copies bottom-up RGBA rows into a top-down image.
func FlipRows(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcOffset := (height - 1 - y) * rowSize
		dstOffset := y * img.Stride
		copy(img.Pix[dstOffset:dstOffset+rowSize], pixels[srcOffset:srcOffset+rowSize])
	}
	return img, nil
}
