package engine

import (
	"GopherToon/internal/behaviour"
	"GopherToon/internal/ramp"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRampFeedSubmitsLatest(t *testing.T) {
	target := &recordingTarget{}
	editor := NewRampEditor(target)
	updates := make(chan ramp.StopSet, 2)
	errs := make(chan error, 1)
	feed := &RampFeed{Updates: updates, Errors: errs, Editor: editor}

	manager := behaviour.NewBehaviourManager()
	manager.Add(feed)

	updates <- stopsAt(0)
	updates <- stopsAt(0, 1)
	errs <- errors.New("bad preset")
	manager.UpdateAll()

	_, err := editor.Flush()
	require.NoError(t, err)
	require.Len(t, target.calls, 1)
	assert.Equal(t, stopsAt(0, 1), target.calls[0])
}

func TestRampFeedClosedChannels(t *testing.T) {
	editor := NewRampEditor(&recordingTarget{})
	updates := make(chan ramp.StopSet)
	errs := make(chan error)
	close(updates)
	close(errs)
	feed := &RampFeed{Updates: updates, Errors: errs, Editor: editor}

	feed.Update()

	assert.Nil(t, feed.Updates)
	assert.Nil(t, feed.Errors)
	assert.False(t, editor.Pending())
}
