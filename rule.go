package lifegrid

// This file is the reference implementation of the transition rule. The
// authoritative copy runs on the GPU (internal/gpu/shaders/life_step.wgsl);
// the two must stay in exact integer agreement. The reference exists so the
// rule's properties are testable on the CPU and so GPU output can be
// verified bit-for-bit against it, the same way the tile compute pipeline
// is validated against its CPU rasterizer in gg.

// neighborOffsets is the Moore neighborhood in row-major order.
var neighborOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Step computes one generation: it reads src, writes dst, and never
// mutates src. Both slices must hold grid.Cells() values. Each cell is
// independent of every other cell's result, which is what allows the GPU
// kernel to evaluate all of them in one dispatch.
func Step(grid Grid, src, dst []Cell) {
	n := grid.Size()
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			var neighbors [8]Cell
			count := 0
			for i, off := range neighborOffsets {
				nx, ny := grid.Wrap(x+off[0], y+off[1])
				c := src[grid.Index(nx, ny)]
				neighbors[i] = c
				if c.Alive() {
					count++
				}
			}
			idx := grid.Index(x, y)
			switch count {
			case 2:
				dst[idx] = src[idx]
			case 3:
				dst[idx] = averageColor(neighbors)
			default:
				dst[idx] = 0
			}
		}
	}
}

// averageColor mixes a birth cell's color from all eight neighbor values.
// Dead neighbors contribute zero to every channel. Each channel sum gets a
// rounding bias of +2 and a fixed divide-by-3 (not a divide by the live
// neighbor count), then is masked back into its 8-bit field. The mask is
// deliberate: there is no clamp, so an overflowing channel wraps.
func averageColor(neighbors [8]Cell) Cell {
	var sumR, sumG, sumB uint32
	for _, c := range neighbors {
		sumR += uint32(c.R())
		sumG += uint32(c.G())
		sumB += uint32(c.B())
	}
	r := (sumR + 2) / 3 & 0xFF
	g := (sumG + 2) / 3 & 0xFF
	b := (sumB + 2) / 3 & 0xFF
	return Cell(r | g<<8 | b<<16)
}
