package ramp

import (
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Resolution is the number of texels in a sampled ramp.
const Resolution = 256

// Texels holds a sampled ramp as tightly packed RGBA bytes, ready for a
// Resolution x 1 texture upload.
type Texels [Resolution * 4]uint8

// At returns texel i.
func (t *Texels) At(i int) color.RGBA {
	o := i * 4
	return color.RGBA{R: t[o], G: t[o+1], B: t[o+2], A: t[o+3]}
}

// Image wraps a copy of the texels in a Resolution x 1 image.
func (t *Texels) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Resolution, 1))
	copy(img.Pix, t[:])
	return img
}

// Sample evaluates the ramp at j/Resolution for every texel j.
// Stops are sanitized and stably sorted first; the input is never modified.
func Sample(stops StopSet) (*Texels, error) {
	if len(stops) == 0 {
		return nil, ErrEmptyStopSet
	}
	sorted := stops.Sanitize().Sorted()

	var out Texels
	for j := 0; j < Resolution; j++ {
		c := Evaluate(sorted, float32(j)/Resolution)
		o := j * 4
		out[o] = quantize(c[0])
		out[o+1] = quantize(c[1])
		out[o+2] = quantize(c[2])
		out[o+3] = 255
	}
	return &out, nil
}

// Evaluate returns the ramp colour at position for stops already sorted by
// position. The lower stop is the first one whose successor lies strictly
// beyond position; past either end the nearest end stop is held flat.
// Evaluate returns black for an empty set.
func Evaluate(sorted StopSet, position float32) mgl32.Vec3 {
	if len(sorted) == 0 {
		return mgl32.Vec3{}
	}
	if position < sorted[0].Position {
		return sorted[0].Color
	}

	i := 0
	for ; i < len(sorted)-1; i++ {
		if sorted[i].Position <= position && sorted[i+1].Position > position {
			break
		}
	}
	lower := sorted[i]
	upper := lower
	if i+1 < len(sorted) {
		upper = sorted[i+1]
	}

	var t float32
	if span := upper.Position - lower.Position; span > 0 {
		t = (position - lower.Position) / span
	}
	return lower.Color.Add(upper.Color.Sub(lower.Color).Mul(t))
}

func quantize(c float32) uint8 {
	v := math.Round(float64(c) * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
