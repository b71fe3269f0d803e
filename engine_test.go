package lifegrid

import (
	"errors"
	"math/rand"
	"testing"
)

// newTestEngine creates an engine on real hardware, skipping the test when
// no GPU adapter is available (CI machines without Vulkan).
func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(opts...)
	if err != nil {
		if errors.Is(err, ErrNoGPU) {
			t.Skipf("skipping: %v", err)
		}
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(e.Close)
	return e
}

func TestEngineLifecycle(t *testing.T) {
	e := newTestEngine(t,
		WithGridSize(16),
		WithRandSource(rand.NewSource(1)),
	)

	if got := e.Generation(); got != 0 {
		t.Errorf("initial generation = %d, want 0", got)
	}
	if got := e.Parity(); got != BufferACurrent {
		t.Errorf("initial parity = %v, want A-current", got)
	}
	if got := e.Grid().Size(); got != 16 {
		t.Errorf("grid size = %d, want 16", got)
	}

	for tick := 1; tick <= 3; tick++ {
		if err := e.Tick(); err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
		if got := e.Generation(); got != uint64(tick) {
			t.Errorf("generation after tick %d = %d", tick, got)
		}
		// Parity must alternate strictly, starting from A-current.
		wantB := tick%2 == 1
		if got := e.Parity(); (got == BufferBCurrent) != wantB {
			t.Errorf("parity after tick %d = %v", tick, got)
		}
	}
}

func TestEngineClosedErrors(t *testing.T) {
	e := newTestEngine(t, WithGridSize(8), WithRandSource(rand.NewSource(2)))
	e.Close()

	if err := e.Tick(); !errors.Is(err, ErrEngineClosed) {
		t.Errorf("Tick after Close = %v, want ErrEngineClosed", err)
	}
	if _, err := e.Frame(); !errors.Is(err, ErrEngineClosed) {
		t.Errorf("Frame after Close = %v, want ErrEngineClosed", err)
	}
	if _, err := e.Cells(); !errors.Is(err, ErrEngineClosed) {
		t.Errorf("Cells after Close = %v, want ErrEngineClosed", err)
	}
	// Double close must be safe.
	e.Close()
}

// TestEngineMatchesReferenceRule steps the GPU simulation and the CPU
// reference rule side by side and compares every generation cell for
// cell. This covers the kernel's wrap, survival, birth, and death
// behavior on hardware, and the parity invariant with it: if a render or
// step ever read the wrong buffer, the generations would diverge
// immediately.
func TestEngineMatchesReferenceRule(t *testing.T) {
	const n = 32
	e := newTestEngine(t,
		WithGridSize(n),
		WithRandSource(rand.NewSource(1234)),
		WithThresholds(Thresholds{Red: 0.1, Green: 0.2, Blue: 0.3}),
	)

	// Generation 0 on the GPU is the uploaded seed; mirror it.
	want, err := e.Cells()
	if err != nil {
		t.Fatalf("read seed: %v", err)
	}

	grid := e.Grid()
	next := make([]Cell, grid.Cells())
	for gen := 1; gen <= 5; gen++ {
		if err := e.Tick(); err != nil {
			t.Fatalf("tick %d: %v", gen, err)
		}
		Step(grid, want, next)
		want, next = next, want

		got, err := e.Cells()
		if err != nil {
			t.Fatalf("read generation %d: %v", gen, err)
		}
		for i := range got {
			if got[i] != want[i] {
				x, y := i%n, i/n
				t.Fatalf("generation %d: cell (%d,%d) = %#x, want %#x",
					gen, x, y, uint32(got[i]), uint32(want[i]))
			}
		}
	}
}

func TestEngineFrame(t *testing.T) {
	const n = 64
	e := newTestEngine(t,
		WithGridSize(n),
		WithRandSource(rand.NewSource(77)),
	)

	frame, err := e.Frame()
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if got := frame.Bounds().Dx(); got != n {
		t.Errorf("frame width = %d, want %d (one pixel per cell by default)", got, n)
	}

	// The default seeding leaves ~12% of cells alive; the initial frame
	// cannot be entirely black.
	lit := 0
	for i := 0; i < len(frame.Pix); i += 4 {
		if frame.Pix[i] != 0 || frame.Pix[i+1] != 0 || frame.Pix[i+2] != 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("initial frame is entirely black")
	}
}

func TestEngineFrameSizeOption(t *testing.T) {
	e := newTestEngine(t,
		WithGridSize(16),
		WithFrameSize(128),
		WithRandSource(rand.NewSource(5)),
	)
	if got := e.FrameSize(); got != 128 {
		t.Fatalf("FrameSize() = %d, want 128", got)
	}
	frame, err := e.Frame()
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if got := frame.Bounds().Dx(); got != 128 {
		t.Errorf("frame width = %d, want 128", got)
	}
}

func TestEngineRunUntil(t *testing.T) {
	e := newTestEngine(t, WithGridSize(16), WithRandSource(rand.NewSource(3)))

	if err := e.RunUntil(func(gen uint64) bool { return gen >= 4 }); err != nil {
		t.Fatalf("RunUntil: %v", err)
	}
	if got := e.Generation(); got != 4 {
		t.Errorf("generation = %d, want 4", got)
	}

	// An already-satisfied predicate must not tick.
	if err := e.RunUntil(func(gen uint64) bool { return true }); err != nil {
		t.Fatalf("RunUntil: %v", err)
	}
	if got := e.Generation(); got != 4 {
		t.Errorf("generation after no-op RunUntil = %d, want 4", got)
	}
}

func TestEngineInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want error
	}{
		{"zero grid", []Option{WithGridSize(0)}, ErrInvalidGridSize},
		{"zero workgroup", []Option{WithWorkgroupSize(0)}, ErrInvalidWorkgroupSize},
		{"bad thresholds", []Option{WithThresholds(Thresholds{Red: 2, Green: 2, Blue: 2})}, ErrInvalidThresholds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Option validation happens before any GPU work, so these run
			// everywhere, hardware or not.
			if _, err := New(tt.opts...); !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewWithDeviceNilProvider(t *testing.T) {
	if _, err := NewWithDevice(nil); !errors.Is(err, ErrNilProvider) {
		t.Errorf("NewWithDevice(nil) = %v, want ErrNilProvider", err)
	}
}
