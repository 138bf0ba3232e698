package logger

import (
	"testing"
)

func TestLogUsableBeforeInit(t *testing.T) {
	if Log == nil {
		t.Fatal("Log should never be nil")
	}
	Log.Info("no-op logger accepts entries")
}

func TestInitWithConfigRejectsUnknownLevel(t *testing.T) {
	if err := InitWithConfig("loud", false); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestInitWithConfigDevelopment(t *testing.T) {
	if err := InitWithConfig("debug", true); err != nil {
		t.Fatalf("InitWithConfig failed: %v", err)
	}
	if !Log.Core().Enabled(-1) {
		t.Error("debug level should be enabled")
	}
}
