package engine

import (
	"GopherToon/internal/ramp"
	"errors"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTarget struct {
	calls []ramp.StopSet
	err   error
}

func (r *recordingTarget) SetRamp(stops ramp.StopSet) error {
	if r.err != nil {
		return r.err
	}
	r.calls = append(r.calls, stops)
	return nil
}

func stopsAt(positions ...float32) ramp.StopSet {
	stops := make(ramp.StopSet, len(positions))
	for i, p := range positions {
		stops[i] = ramp.Stop{Position: p, Color: mgl32.Vec3{p, p, p}}
	}
	return stops
}

func TestFlushWithoutEdits(t *testing.T) {
	target := &recordingTarget{}
	editor := NewRampEditor(target)

	applied, err := editor.Flush()
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Empty(t, target.calls)
}

func TestFlushAppliesLatestSnapshotOnce(t *testing.T) {
	target := &recordingTarget{}
	editor := NewRampEditor(target)

	editor.Submit(stopsAt(0))
	editor.Submit(stopsAt(0, 0.5))
	editor.Submit(stopsAt(0, 0.5, 1))
	assert.True(t, editor.Pending())

	applied, err := editor.Flush()
	require.NoError(t, err)
	assert.True(t, applied)
	require.Len(t, target.calls, 1)
	assert.Equal(t, stopsAt(0, 0.5, 1), target.calls[0])

	applied, err = editor.Flush()
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, uint64(1), editor.Applied())
}

func TestSubmitCopiesStops(t *testing.T) {
	target := &recordingTarget{}
	editor := NewRampEditor(target)

	stops := stopsAt(0.2)
	editor.Submit(stops)
	stops[0].Position = 0.9

	_, err := editor.Flush()
	require.NoError(t, err)
	assert.Equal(t, float32(0.2), target.calls[0][0].Position)
}

func TestFlushRejectedSnapshotIsDropped(t *testing.T) {
	target := &recordingTarget{err: ramp.ErrEmptyStopSet}
	editor := NewRampEditor(target)

	editor.Submit(nil)
	applied, err := editor.Flush()
	assert.False(t, applied)
	assert.ErrorIs(t, err, ramp.ErrEmptyStopSet)
	assert.ErrorIs(t, editor.Err(), ramp.ErrEmptyStopSet)
	assert.False(t, editor.Pending())

	target.err = nil
	editor.Submit(stopsAt(0.5))
	applied, err = editor.Flush()
	require.NoError(t, err)
	assert.True(t, applied)
	assert.NoError(t, editor.Err())
}

func TestSubmitFromManyGoroutines(t *testing.T) {
	target := &recordingTarget{}
	editor := NewRampEditor(target)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			editor.Submit(stopsAt(float32(i) / 16))
		}(i)
	}
	wg.Wait()

	applied, err := editor.Flush()
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Len(t, target.calls, 1)
}

func TestRampEditorDrivesMaterialErrors(t *testing.T) {
	boom := errors.New("upload failed")
	target := &recordingTarget{err: boom}
	editor := NewRampEditor(target)

	editor.Submit(stopsAt(0, 1))
	_, err := editor.Flush()
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, editor.Applied())
}
