package lifegrid

import "math/rand"

// Default engine configuration.
const (
	// DefaultGridSize is the default grid dimension N.
	DefaultGridSize = 512

	// DefaultWorkgroupSize is the default compute tile edge: the transition
	// kernel processes 8×8 cells per workgroup.
	DefaultWorkgroupSize = 8
)

// Option configures an Engine during creation.
// Use functional options to customize engine behavior.
//
// Example:
//
//	engine, err := lifegrid.New(
//	    lifegrid.WithGridSize(256),
//	    lifegrid.WithThresholds(lifegrid.Thresholds{Red: 0.1, Green: 0.2, Blue: 0.3}),
//	)
type Option func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	gridSize   int
	workgroup  int
	frameSize  int // 0 means match the grid size
	thresholds Thresholds
	rng        *rand.Rand
}

// defaultEngineOptions returns the default engine options.
func defaultEngineOptions() engineOptions {
	return engineOptions{
		gridSize:   DefaultGridSize,
		workgroup:  DefaultWorkgroupSize,
		thresholds: DefaultThresholds(),
	}
}

// WithGridSize sets the grid dimension N. The simulation domain is always
// square: N×N cells.
func WithGridSize(n int) Option {
	return func(o *engineOptions) {
		o.gridSize = n
	}
}

// WithWorkgroupSize sets the compute tile edge. The transition dispatch
// covers the grid with ceil(N/size) tiles per axis; cells past the edge of
// a partial tile are never addressed since all indexing is modulo N.
func WithWorkgroupSize(size int) Option {
	return func(o *engineOptions) {
		o.workgroup = size
	}
}

// WithFrameSize sets the edge of the square frame texture the renderer
// draws into. The default matches the grid size (one pixel per cell).
func WithFrameSize(px int) Option {
	return func(o *engineOptions) {
		o.frameSize = px
	}
}

// WithThresholds sets the seeding density thresholds.
// See Thresholds for how samples are classified.
func WithThresholds(t Thresholds) Option {
	return func(o *engineOptions) {
		o.thresholds = t
	}
}

// WithRandSource sets the random source used for seeding. Use a fixed
// source for reproducible initial populations. The default is a source
// seeded from the current time.
func WithRandSource(src rand.Source) Option {
	return func(o *engineOptions) {
		o.rng = rand.New(src)
	}
}

// validate checks option consistency and returns the first problem found.
func (o *engineOptions) validate() error {
	if o.gridSize <= 0 {
		return ErrInvalidGridSize
	}
	if o.workgroup <= 0 {
		return ErrInvalidWorkgroupSize
	}
	if o.frameSize < 0 {
		return ErrInvalidFrameSize
	}
	return o.thresholds.Validate()
}
