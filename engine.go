package lifegrid

import (
	"fmt"
	"image"
	"math/rand"
	"sync"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/lifegrid/internal/gpu"
)

// Engine drives the simulation: it owns the grid, the GPU resources, and
// the step/parity/present loop. One call to Tick advances exactly one
// generation and draws it.
//
// Engine methods are serialized by an internal mutex, but the intended
// model is cooperative and single-threaded: the host calls Tick at its
// own cadence (typically once per displayed frame). The engine has no
// timer and no stop condition of its own; termination is the host's
// decision.
type Engine struct {
	mu sync.Mutex

	grid       Grid
	parity     Parity
	generation uint64

	sim *gpu.Simulation

	frameSize int

	// stopped records a dispatch failure. A failed generation is never
	// retried and the loop never continues past one: the write buffer's
	// contents are indeterminate and the parity invariant would break.
	stopped error
	closed  bool
}

// New creates an engine on its own GPU device, seeds cell buffer A, and
// renders the initial population so the first Frame call has content.
// All resource creation happens here; New failing means the loop never
// starts.
func New(opts ...Option) (*Engine, error) {
	o := gatherOptions(opts)
	if err := o.validate(); err != nil {
		return nil, err
	}
	sim, err := gpu.NewSimulation(simConfig(o))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoGPU, err)
	}
	return newEngine(sim, o)
}

// NewWithDevice creates an engine on a GPU device owned by the host. The
// provider must also expose the underlying HAL device and queue (gogpu's
// providers do); the device is not destroyed when the engine closes.
func NewWithDevice(provider gpucontext.DeviceProvider, opts ...Option) (*Engine, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALAccess
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALAccess)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALAccess)
	}

	o := gatherOptions(opts)
	if err := o.validate(); err != nil {
		return nil, err
	}
	sim, err := gpu.NewSimulationWithDevice(device, queue, simConfig(o))
	if err != nil {
		return nil, err
	}
	return newEngine(sim, o)
}

func gatherOptions(opts []Option) engineOptions {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func simConfig(o engineOptions) gpu.Config {
	frame := o.frameSize
	if frame == 0 {
		frame = o.gridSize
	}
	return gpu.Config{
		GridSize:  o.gridSize,
		Workgroup: o.workgroup,
		FrameSize: frame,
	}
}

// newEngine seeds buffer A and renders generation zero.
func newEngine(sim *gpu.Simulation, o engineOptions) (*Engine, error) {
	grid, err := NewGrid(o.gridSize)
	if err != nil {
		sim.Close()
		return nil, err
	}

	rng := o.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	cells := make([]Cell, grid.Cells())
	Seed(cells, rng, o.thresholds)

	seed := make([]uint32, len(cells))
	for i, c := range cells {
		seed[i] = uint32(c)
	}
	if err := sim.UploadCells(seed); err != nil {
		sim.Close()
		return nil, fmt.Errorf("upload seed: %w", err)
	}

	e := &Engine{
		grid:      grid,
		parity:    BufferACurrent,
		sim:       sim,
		frameSize: simConfig(o).FrameSize,
	}
	if err := sim.Render(true); err != nil {
		sim.Close()
		return nil, fmt.Errorf("render initial generation: %w", err)
	}
	Logger().Info("lifegrid: engine started",
		"grid", grid.Size(),
		"workgroup", o.workgroup,
		"frame", e.frameSize)
	return e, nil
}

// Tick advances one generation, in strict order: submit the transition
// dispatch reading the current buffer and writing the other, flip the
// parity, then submit the render pass reading the new current buffer.
// The buffer role swap happens exactly once, between the two submissions,
// so the render always sees a fully written generation.
//
// A dispatch failure stops the engine permanently; see ErrEngineStopped.
func (e *Engine) Tick() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	if e.stopped != nil {
		return fmt.Errorf("%w: %w", ErrEngineStopped, e.stopped)
	}

	if err := e.sim.Step(e.parity == BufferACurrent); err != nil {
		e.stopped = err
		return fmt.Errorf("generation %d: %w", e.generation+1, err)
	}

	e.parity = e.parity.Next()
	e.generation++

	if err := e.sim.Render(e.parity == BufferACurrent); err != nil {
		e.stopped = err
		return fmt.Errorf("generation %d: %w", e.generation, err)
	}
	return nil
}

// RunUntil ticks until stop returns true for the current generation
// number. It checks before the first tick, so RunUntil with an
// already-satisfied predicate does nothing. Intended for tests and
// headless hosts; windowed hosts call Tick from their frame callback
// instead.
func (e *Engine) RunUntil(stop func(generation uint64) bool) error {
	for !stop(e.Generation()) {
		if err := e.Tick(); err != nil {
			return err
		}
	}
	return nil
}

// Generation returns the number of completed transition steps.
func (e *Engine) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// Parity reports which cell buffer currently holds the live generation.
func (e *Engine) Parity() Parity {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.parity
}

// Grid returns the engine's grid descriptor.
func (e *Engine) Grid() Grid { return e.grid }

// FrameSize returns the edge of the square frame image in pixels.
func (e *Engine) FrameSize() int { return e.frameSize }

// Frame reads the most recently rendered frame back into an RGBA image.
// Row 0 of the image is grid row 0.
func (e *Engine) Frame() (*image.RGBA, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrEngineClosed
	}
	raw := make([]byte, e.frameSize*e.frameSize*4)
	if err := e.sim.ReadFrame(raw); err != nil {
		return nil, err
	}
	return frameToImage(raw, e.frameSize), nil
}

// Cells reads the current (live) cell buffer back from the GPU. This is
// a diagnostic path for tests and hosts that want the raw state; the
// per-tick loop itself never reads back.
func (e *Engine) Cells() ([]Cell, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrEngineClosed
	}
	raw := make([]uint32, e.grid.Cells())
	if err := e.sim.ReadCells(e.parity == BufferACurrent, raw); err != nil {
		return nil, err
	}
	cells := make([]Cell, len(raw))
	for i, v := range raw {
		cells[i] = Cell(v)
	}
	return cells, nil
}

// Close releases all GPU resources. The engine cannot be used afterwards.
// Safe to call more than once.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	e.sim.Close()
	Logger().Info("lifegrid: engine closed", "generations", e.generation)
}

// frameToImage converts tightly packed BGRA readback bytes into an RGBA
// image, flipping rows so image row 0 corresponds to grid row 0 (the
// render pass places grid row 0 at the bottom of clip space).
func frameToImage(raw []byte, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		srcRow := (size - 1 - y) * size * 4
		dstRow := img.PixOffset(0, y)
		for x := 0; x < size; x++ {
			src := srcRow + x*4
			dst := dstRow + x*4
			img.Pix[dst+0] = raw[src+2] // R
			img.Pix[dst+1] = raw[src+1] // G
			img.Pix[dst+2] = raw[src+0] // B
			img.Pix[dst+3] = raw[src+3] // A
		}
	}
	return img
}
