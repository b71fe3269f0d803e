package lifegrid

import (
	"errors"
	"math/rand"
	"testing"
)

func TestDefaultEngineOptions(t *testing.T) {
	o := defaultEngineOptions()
	if o.gridSize != DefaultGridSize {
		t.Errorf("gridSize = %d, want %d", o.gridSize, DefaultGridSize)
	}
	if o.workgroup != DefaultWorkgroupSize {
		t.Errorf("workgroup = %d, want %d", o.workgroup, DefaultWorkgroupSize)
	}
	if o.thresholds != DefaultThresholds() {
		t.Errorf("thresholds = %+v, want defaults", o.thresholds)
	}
	if err := o.validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestOptionsApply(t *testing.T) {
	o := defaultEngineOptions()
	th := Thresholds{Red: 0.1, Green: 0.2, Blue: 0.3}
	for _, opt := range []Option{
		WithGridSize(64),
		WithWorkgroupSize(16),
		WithFrameSize(256),
		WithThresholds(th),
		WithRandSource(rand.NewSource(1)),
	} {
		opt(&o)
	}
	if o.gridSize != 64 || o.workgroup != 16 || o.frameSize != 256 {
		t.Errorf("options = %+v, not applied", o)
	}
	if o.thresholds != th {
		t.Errorf("thresholds = %+v, want %+v", o.thresholds, th)
	}
	if o.rng == nil {
		t.Error("rng not set")
	}
	if err := o.validate(); err != nil {
		t.Errorf("validate() = %v", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want error
	}{
		{"zero grid", []Option{WithGridSize(0)}, ErrInvalidGridSize},
		{"negative grid", []Option{WithGridSize(-1)}, ErrInvalidGridSize},
		{"zero workgroup", []Option{WithWorkgroupSize(0)}, ErrInvalidWorkgroupSize},
		{"negative frame", []Option{WithFrameSize(-2)}, ErrInvalidFrameSize},
		{"bad thresholds", []Option{WithThresholds(Thresholds{Red: 0.9, Green: 0.1, Blue: 0.95})}, ErrInvalidThresholds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := gatherOptions(tt.opts)
			if err := o.validate(); !errors.Is(err, tt.want) {
				t.Errorf("validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSimConfigFrameDefaultsToGrid(t *testing.T) {
	o := gatherOptions([]Option{WithGridSize(128)})
	cfg := simConfig(o)
	if cfg.FrameSize != 128 {
		t.Errorf("FrameSize = %d, want grid size 128", cfg.FrameSize)
	}

	o = gatherOptions([]Option{WithGridSize(128), WithFrameSize(512)})
	if cfg := simConfig(o); cfg.FrameSize != 512 {
		t.Errorf("FrameSize = %d, want explicit 512", cfg.FrameSize)
	}
}
