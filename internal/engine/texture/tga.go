// Package texture turns encoded bitmaps into RGBA images ready for GPU upload.
package texture

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// TGA image types.
const (
	tgaTypeTrueColor = 2
	tgaTypeRLE       = 10
)

const tgaHeaderSize = 18

var errTGATruncated = errors.New("tga: pixel data truncated")

func init() {
	// TGA has no magic number; match an absent colour map and a true-colour type.
	image.RegisterFormat("tga", "?\x00\x02", decodeTGAReader, decodeTGAConfig)
	image.RegisterFormat("tga", "?\x00\x0a", decodeTGAReader, decodeTGAConfig)
}

type tgaHeader struct {
	idLength    int
	imageType   byte
	width       int
	height      int
	bytesPerPix int
	topDown     bool
}

func parseTGAHeader(h []byte) (tgaHeader, error) {
	if len(h) < tgaHeaderSize {
		return tgaHeader{}, errors.New("tga: header too short")
	}
	hdr := tgaHeader{
		idLength:  int(h[0]),
		imageType: h[2],
		width:     int(h[12]) | int(h[13])<<8,
		height:    int(h[14]) | int(h[15])<<8,
		topDown:   h[17]&0x20 != 0,
	}
	if h[1] != 0 {
		return hdr, errors.New("tga: colour-mapped images not supported")
	}
	if hdr.imageType != tgaTypeTrueColor && hdr.imageType != tgaTypeRLE {
		return hdr, fmt.Errorf("tga: unsupported image type %d", hdr.imageType)
	}
	switch bpp := int(h[16]); bpp {
	case 24, 32:
		hdr.bytesPerPix = bpp / 8
	default:
		return hdr, fmt.Errorf("tga: unsupported bit depth %d", bpp)
	}
	if hdr.width == 0 || hdr.height == 0 {
		return hdr, errors.New("tga: empty image")
	}
	return hdr, nil
}

func decodeTGAConfig(r io.Reader) (image.Config, error) {
	h := make([]byte, tgaHeaderSize)
	if _, err := io.ReadFull(r, h); err != nil {
		return image.Config{}, fmt.Errorf("tga: %w", err)
	}
	hdr, err := parseTGAHeader(h)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.NRGBAModel, Width: hdr.width, Height: hdr.height}, nil
}

func decodeTGAReader(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("tga: %w", err)
	}
	return DecodeTGA(data)
}

// DecodeTGA decodes an uncompressed or RLE true-colour TGA with 24 or 32 bits per pixel.
func DecodeTGA(data []byte) (*image.NRGBA, error) {
	hdr, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}

	offset := tgaHeaderSize + hdr.idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}
	src := data[offset:]

	img := image.NewNRGBA(image.Rect(0, 0, hdr.width, hdr.height))
	w := tgaWriter{img: img, hdr: hdr}

	if hdr.imageType == tgaTypeTrueColor {
		n := hdr.width * hdr.height
		if len(src) < n*hdr.bytesPerPix {
			return nil, errTGATruncated
		}
		for i := 0; i < n; i++ {
			w.put(readTGAPixel(src[i*hdr.bytesPerPix:], hdr.bytesPerPix))
		}
		return img, nil
	}

	if err := w.decodeRLE(src); err != nil {
		return nil, err
	}
	return img, nil
}

// readTGAPixel converts one BGR(A) pixel.
func readTGAPixel(p []byte, bpp int) color.NRGBA {
	c := color.NRGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if bpp == 4 {
		c.A = p[3]
	}
	return c
}

// tgaWriter places pixels in file order, flipping rows for bottom-up images.
type tgaWriter struct {
	img *image.NRGBA
	hdr tgaHeader
	idx int
}

func (w *tgaWriter) full() bool {
	return w.idx >= w.hdr.width*w.hdr.height
}

func (w *tgaWriter) put(c color.NRGBA) {
	x := w.idx % w.hdr.width
	y := w.idx / w.hdr.width
	if !w.hdr.topDown {
		y = w.hdr.height - 1 - y
	}
	w.img.SetNRGBA(x, y, c)
	w.idx++
}

func (w *tgaWriter) decodeRLE(src []byte) error {
	bpp := w.hdr.bytesPerPix
	pos := 0
	for !w.full() {
		if pos >= len(src) {
			return errTGATruncated
		}
		packet := src[pos]
		pos++
		count := int(packet&0x7f) + 1

		if packet&0x80 != 0 {
			if pos+bpp > len(src) {
				return errTGATruncated
			}
			c := readTGAPixel(src[pos:], bpp)
			pos += bpp
			for i := 0; i < count && !w.full(); i++ {
				w.put(c)
			}
			continue
		}

		for i := 0; i < count && !w.full(); i++ {
			if pos+bpp > len(src) {
				return errTGATruncated
			}
			w.put(readTGAPixel(src[pos:], bpp))
			pos += bpp
		}
	}
	return nil
}
