// Package ppm writes the decoded pixel grid out as a binary PPM (P6)
// file, the output format spec.md §5 names.
package ppm

import (
	"bytes"
	"errors"
	"fmt"
	"os"
)

// ErrDimensionMismatch is returned when the pixel slice's length does not
// match width*height RGB triples.
var ErrDimensionMismatch = errors.New("ppm: pixel count does not match width*height")

// Image is a binary PPM image: a width, a height, and row-major RGB
// triples.
type Image struct {
	Width, Height int
	Pixels        []byte // len must be Width*Height*3
}

// New validates and wraps a pixel buffer produced by internal/defilter.
func New(width, height int, pixels []byte) (*Image, error) {
	if len(pixels) != width*height*3 {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrDimensionMismatch, len(pixels), width*height*3)
	}
	return &Image{Width: width, Height: height, Pixels: pixels}, nil
}

// Encode renders the P6 header followed by raw RGB triples, matching the
// original implementation's PpmSmall::build/write: "P6\n{w} {h}\n255\n"
// followed by packed pixel bytes and a single trailing newline.
func (img *Image) Encode() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "P6\n%d %d\n255\n", img.Width, img.Height)
	buf.Write(img.Pixels)
	buf.WriteByte('\n')
	return buf.Bytes()
}

// WriteFile encodes the image and writes it to path.
func (img *Image) WriteFile(path string) error {
	return os.WriteFile(path, img.Encode(), 0o644)
}
