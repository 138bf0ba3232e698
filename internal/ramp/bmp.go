package ramp

import (
	"fmt"
	"image"
	"image/draw"
	"io"

	"golang.org/x/image/bmp"
)

// EncodeBMP writes the texels as a Resolution x 1 bitmap.
func EncodeBMP(w io.Writer, t *Texels) error {
	return bmp.Encode(w, t.Image())
}

// DecodeBMP reads a Resolution x 1 bitmap back into texels.
func DecodeBMP(r io.Reader) (*Texels, error) {
	img, err := bmp.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("ramp: decode bitmap: %w", err)
	}
	b := img.Bounds()
	if b.Dx() != Resolution || b.Dy() != 1 {
		return nil, fmt.Errorf("ramp: bitmap is %dx%d, want %dx1", b.Dx(), b.Dy(), Resolution)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, Resolution, 1))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)

	var t Texels
	copy(t[:], rgba.Pix)
	return &t, nil
}
