package gpu

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// dispatchTiles returns the workgroup count per axis: grids that are not
// a multiple of the tile edge get one extra partial tile, which the
// kernel's bounds check discards.
func dispatchTiles(gridSize, workgroup int) uint32 {
	return uint32((gridSize + workgroup - 1) / workgroup)
}

// Step submits one transition dispatch. When readA is true the pass reads
// buffer A and writes buffer B; otherwise the roles are reversed. The
// kernel only ever reads the frozen source buffer, so the whole grid is
// covered by a single dispatch with ceiling-division tile counts.
func (s *Simulation) Step(readA bool) error {
	encoder, err := s.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "life_step_encoder"})
	if err != nil {
		return fmt.Errorf("create step encoder: %w", err)
	}
	if err := encoder.BeginEncoding("life_step"); err != nil {
		return fmt.Errorf("begin step encoding: %w", err)
	}

	bind := s.stepBtoA
	if readA {
		bind = s.stepAtoB
	}
	tiles := dispatchTiles(s.cfg.GridSize, s.cfg.Workgroup)

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "life_step_pass"})
	pass.SetPipeline(s.stepPipeline)
	pass.SetBindGroup(0, bind, nil)
	pass.Dispatch(tiles, tiles, 1)
	pass.End()

	return s.submit(encoder, "life_step")
}

// Render submits one render pass that rasterizes the current buffer into
// the frame texture: six template vertices per cell, one instance per
// cell, dead cells collapsed by the vertex stage.
func (s *Simulation) Render(readA bool) error {
	encoder, err := s.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "cell_draw_encoder"})
	if err != nil {
		return fmt.Errorf("create render encoder: %w", err)
	}
	if err := encoder.BeginEncoding("cell_draw"); err != nil {
		return fmt.Errorf("begin render encoding: %w", err)
	}

	bind := s.drawFromB
	if readA {
		bind = s.drawFromA
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "cell_draw_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       s.frameView,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 1},
			},
		},
	})
	rp.SetPipeline(s.drawPipeline)
	rp.SetBindGroup(0, bind, nil)
	rp.SetVertexBuffer(0, s.vertexBuf, 0)
	rp.Draw(quadVertexCount, uint32(s.cellCount()), 0, 0)
	rp.End()

	return s.submit(encoder, "cell_draw")
}

// ReadFrame copies the frame texture into dst as tightly packed BGRA
// rows. dst must hold FrameSize² pixels (4 bytes each).
func (s *Simulation) ReadFrame(dst []byte) error {
	fs := uint32(s.cfg.FrameSize)
	size := uint64(fs) * uint64(fs) * 4
	if uint64(len(dst)) != size {
		return fmt.Errorf("frame readback size %d, want %d", len(dst), size)
	}

	encoder, err := s.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "life_frame_readback"})
	if err != nil {
		return fmt.Errorf("create readback encoder: %w", err)
	}
	if err := encoder.BeginEncoding("life_frame_readback"); err != nil {
		return fmt.Errorf("begin readback encoding: %w", err)
	}

	// After the render pass the texture sits in attachment layout;
	// CopyTextureToBuffer needs transfer-source. No-op on backends
	// without explicit layouts.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: s.frameTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	staging, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "life_frame_staging", Size: size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("create frame staging buffer: %w", err)
	}
	defer s.device.DestroyBuffer(staging)

	encoder.CopyTextureToBuffer(s.frameTex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: fs * 4, RowsPerImage: fs},
		TextureBase:  hal.ImageCopyTexture{Texture: s.frameTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: fs, Height: fs, DepthOrArrayLayers: 1},
	}})

	if err := s.submit(encoder, "life_frame_readback"); err != nil {
		return err
	}
	if err := s.queue.ReadBuffer(staging, 0, dst); err != nil {
		return fmt.Errorf("frame readback: %w", err)
	}
	return nil
}

// ReadCells copies one cell buffer back into dst. Used for diagnostics
// and for verifying GPU generations against the reference rule; the
// per-tick loop never reads back.
func (s *Simulation) ReadCells(fromA bool, dst []uint32) error {
	size := s.cellBufferSize()
	if uint64(len(dst))*cellStride != size {
		return fmt.Errorf("cell readback size %d, want %d cells", len(dst), s.cellCount())
	}

	src := s.bufB
	if fromA {
		src = s.bufA
	}

	encoder, err := s.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "life_cells_readback"})
	if err != nil {
		return fmt.Errorf("create readback encoder: %w", err)
	}
	if err := encoder.BeginEncoding("life_cells_readback"); err != nil {
		return fmt.Errorf("begin readback encoding: %w", err)
	}

	staging, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "life_cells_staging", Size: size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("create cell staging buffer: %w", err)
	}
	defer s.device.DestroyBuffer(staging)

	encoder.CopyBufferToBuffer(src, staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: size},
	})

	if err := s.submit(encoder, "life_cells_readback"); err != nil {
		return err
	}

	raw := make([]byte, size)
	if err := s.queue.ReadBuffer(staging, 0, raw); err != nil {
		return fmt.Errorf("cell readback: %w", err)
	}
	for i := range dst {
		dst[i] = binary.LittleEndian.Uint32(raw[i*cellStride:])
	}
	return nil
}

// submit finishes the encoder, submits the command buffer, and waits on
// its fence. Queue submission order alone guarantees the read/write
// buffer separation between passes; the wait bounds frame latency and
// surfaces device errors at the tick that caused them.
func (s *Simulation) submit(encoder hal.CommandEncoder, label string) error {
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("%s: end encoding: %w", label, err)
	}
	defer s.device.FreeCommandBuffer(cmdBuf)

	fence, err := s.device.CreateFence()
	if err != nil {
		return fmt.Errorf("%s: create fence: %w", label, err)
	}
	defer s.device.DestroyFence(fence)

	if err := s.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("%s: submit: %w", label, err)
	}
	fenceOK, err := s.device.Wait(fence, 1, submitTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("%s: wait for GPU: ok=%v err=%w", label, fenceOK, err)
	}
	return nil
}
