package engine

import (
	"GopherToon/internal/logger"
	"GopherToon/internal/ramp"

	"go.uber.org/zap"
)

// RampFeed forwards stop snapshots arriving on a channel into a RampEditor.
// It runs as a behaviour so draining happens on the render thread.
type RampFeed struct {
	Updates <-chan ramp.StopSet
	Errors  <-chan error
	Editor  *RampEditor
}

func (f *RampFeed) Start() {}

func (f *RampFeed) Update() {
	for {
		select {
		case stops, ok := <-f.Updates:
			if !ok {
				f.Updates = nil
				continue
			}
			f.Editor.Submit(stops)
		case err, ok := <-f.Errors:
			if !ok {
				f.Errors = nil
				continue
			}
			logger.Log.Warn("Ramp preset not applied", zap.Error(err))
		default:
			return
		}
	}
}

func (f *RampFeed) UpdateFixed() {}
