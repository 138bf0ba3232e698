package main

import (
	"GopherToon/internal/behaviour"
	"GopherToon/internal/renderer"
)

// turntable spins the scene model around the Y axis.
type turntable struct {
	model *renderer.Model
	speed float32 // degrees per fixed update
}

func init() {
	behaviour.Register("turntable", func(model *renderer.Model) behaviour.PlayerBehaviour {
		return &turntable{model: model, speed: 0.5}
	})
}

func (t *turntable) Start() {}

func (t *turntable) Update() {}

func (t *turntable) UpdateFixed() {
	if t.model != nil {
		t.model.Rotate(0, t.speed, 0)
	}
}
