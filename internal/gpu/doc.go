// Package gpu holds the wgpu/hal resources behind a lifegrid engine: the
// ping-pong cell storage buffers, the transition compute pipeline, the
// cell render pipeline, and the offscreen frame target.
//
// The package deals only in raw uint32 cell values and pixel bytes; the
// public data model (packed colors, grids, parity) lives in the root
// package. All GPU work is submitted from a single goroutine in a strict
// per-tick order, which is the only concurrency control the two shared
// cell buffers need: the device queue executes submissions in order, so a
// generation's write buffer is never read before the compute pass that
// fills it.
package gpu
