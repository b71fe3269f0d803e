package lifegrid

import "errors"

// Engine errors.
var (
	// ErrNoGPU is returned when no suitable GPU adapter is available.
	ErrNoGPU = errors.New("lifegrid: no GPU available")

	// ErrEngineClosed is returned when operating on a closed engine.
	ErrEngineClosed = errors.New("lifegrid: engine closed")

	// ErrEngineStopped is returned after a dispatch failure has stopped
	// the engine. A failed generation is never retried: skipping it would
	// desynchronize the read/write buffer parity.
	ErrEngineStopped = errors.New("lifegrid: engine stopped after dispatch failure")

	// ErrInvalidGridSize is returned when the grid dimension is not positive.
	ErrInvalidGridSize = errors.New("lifegrid: grid size must be positive")

	// ErrInvalidWorkgroupSize is returned when the compute tile size is not positive.
	ErrInvalidWorkgroupSize = errors.New("lifegrid: workgroup size must be positive")

	// ErrInvalidFrameSize is returned when the frame target size is not positive.
	ErrInvalidFrameSize = errors.New("lifegrid: frame size must be positive")

	// ErrInvalidThresholds is returned when seeding thresholds are not
	// ascending values in [0, 1].
	ErrInvalidThresholds = errors.New("lifegrid: thresholds must be ascending in [0, 1]")

	// ErrNilProvider is returned when NewWithDevice is given a nil provider.
	ErrNilProvider = errors.New("lifegrid: nil device provider")

	// ErrNoHALAccess is returned when a device provider does not expose
	// the underlying HAL device and queue.
	ErrNoHALAccess = errors.New("lifegrid: provider does not expose HAL types")
)
