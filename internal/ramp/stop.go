// Package ramp turns a sparse set of colour stops into the dense lookup table
// used by the toon material.
package ramp

import (
	"errors"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrEmptyStopSet is returned when a ramp is requested from zero stops.
var ErrEmptyStopSet = errors.New("ramp: stop set is empty")

// Stop anchors a colour at a position along the ramp.
// Colour channels are in [0,1] in the renderer's working space.
type Stop struct {
	Position float32
	Color    mgl32.Vec3
}

// StopSet is an insertion-ordered collection of stops. It does not need to be
// sorted, positions may repeat and 0 and 1 need not be present.
type StopSet []Stop

// Sorted returns a copy ordered by position. Stops sharing a position keep
// their insertion order.
func (s StopSet) Sorted() StopSet {
	sorted := slices.Clone(s)
	slices.SortStableFunc(sorted, func(a, b Stop) int {
		switch {
		case a.Position < b.Position:
			return -1
		case a.Position > b.Position:
			return 1
		}
		return 0
	})
	return sorted
}

// Sanitize returns a copy with positions clamped to [0,1] and colour
// channels clamped to [0,1]. Non-finite values become 0.
func (s StopSet) Sanitize() StopSet {
	clean := make(StopSet, len(s))
	for i, st := range s {
		clean[i].Position = clamp01(st.Position)
		for c := 0; c < 3; c++ {
			clean[i].Color[c] = clamp01(st.Color[c])
		}
	}
	return clean
}

func clamp01(v float32) float32 {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return mgl32.Clamp(v, 0, 1)
}
