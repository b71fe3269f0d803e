// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package lifegrid implements a GPU-resident colored Game of Life.
//
// The entire simulation lives on the GPU: cell state is held in two
// ping-pong storage buffers, each generation is computed by a single
// compute dispatch over the previous generation, and the live buffer is
// rasterized into a frame texture by a render pipeline drawing one quad
// per cell. The grid wraps toroidally in both axes.
//
// Cells are packed 32-bit colors (red in the low byte, then green, then
// blue). A zero cell is dead. The transition rule is the classic 2/3
// survival-birth rule with a color-averaging extension: a cell with
// exactly two live neighbors keeps its exact value, a cell with exactly
// three live neighbors becomes the per-channel average of its eight
// neighbors (fixed divide-by-3 with bit masking, never clamped), and
// every other neighbor count kills the cell.
//
// Basic usage:
//
//	engine, err := lifegrid.New(lifegrid.WithGridSize(512))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer engine.Close()
//
//	for running() {
//	    if err := engine.Tick(); err != nil {
//	        log.Fatal(err)
//	    }
//	    frame, _ := engine.Frame()
//	    present(frame)
//	}
//
// The engine never creates a window or swapchain. It renders into an
// offscreen frame texture that the host reads back with [Engine.Frame]
// (or presents through its own surface at its own cadence). A host that
// already owns a GPU device can share it via [NewWithDevice].
//
// By default lifegrid produces no log output. Call [SetLogger] to enable
// structured logging.
package lifegrid
