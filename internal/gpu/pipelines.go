package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// createStepPipeline compiles the transition kernel and creates the
// compute pipeline. Binding layout:
//
//	binding 0: GridParams uniform
//	binding 1: previous generation (read-only storage)
//	binding 2: next generation (read-write storage)
func (s *Simulation) createStepPipeline() error {
	stepShader, err := s.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "life_step",
		Source: hal.ShaderSource{WGSL: stepShaderFor(s.cfg.Workgroup)},
	})
	if err != nil {
		return fmt.Errorf("compile life_step shader: %w", err)
	}
	s.stepShader = stepShader

	stepBindLayout, err := s.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "life_step_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create step bind group layout: %w", err)
	}
	s.stepBindLayout = stepBindLayout

	stepPipeLayout, err := s.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "life_step_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{s.stepBindLayout},
	})
	if err != nil {
		return fmt.Errorf("create step pipeline layout: %w", err)
	}
	s.stepPipeLayout = stepPipeLayout

	stepPipeline, err := s.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "life_step_pipeline", Layout: s.stepPipeLayout,
		Compute: hal.ComputeState{Module: s.stepShader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create step compute pipeline: %w", err)
	}
	s.stepPipeline = stepPipeline

	return nil
}

// createDrawPipeline compiles the cell raster shader and creates the
// render pipeline. Binding layout:
//
//	binding 0: GridParams uniform
//	binding 1: current generation (read-only storage)
//
// The cell buffer is visible to both stages: the vertex stage collapses
// dead cells, the fragment stage decodes the owning cell's color.
func (s *Simulation) createDrawPipeline() error {
	drawShader, err := s.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "cell_draw",
		Source: hal.ShaderSource{WGSL: cellDrawShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile cell_draw shader: %w", err)
	}
	s.drawShader = drawShader

	drawBindLayout, err := s.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "cell_draw_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create draw bind group layout: %w", err)
	}
	s.drawBindLayout = drawBindLayout

	drawPipeLayout, err := s.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "cell_draw_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{s.drawBindLayout},
	})
	if err != nil {
		return fmt.Errorf("create draw pipeline layout: %w", err)
	}
	s.drawPipeLayout = drawPipeLayout

	premulBlend := gputypes.BlendStatePremultiplied()
	drawPipeline, err := s.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "cell_draw_pipeline",
		Layout: s.drawPipeLayout,
		Vertex: hal.VertexState{
			Module:     s.drawShader,
			EntryPoint: "vs_main",
			Buffers:    quadVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     s.drawShader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    gputypes.TextureFormatBGRA8Unorm,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create cell render pipeline: %w", err)
	}
	s.drawPipeline = drawPipeline

	return nil
}

// quadVertexLayout returns the vertex buffer layout for the cell template:
// one vec2<f32> corner per vertex, stepped per vertex (cell identity comes
// from the instance index, not the vertex stream).
func quadVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // corner
			},
		},
	}
}

// createBindGroups prebuilds the four bind groups: both step directions
// and both render sources. The buffers never move, so these are created
// once and reused every tick.
func (s *Simulation) createBindGroups() error {
	size := s.cellBufferSize()

	stepGroup := func(label string, read, write hal.Buffer) (hal.BindGroup, error) {
		return s.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label: label, Layout: s.stepBindLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{Buffer: s.uniformBuf.NativeHandle(), Offset: 0, Size: uniformSize}},
				{Binding: 1, Resource: gputypes.BufferBinding{Buffer: read.NativeHandle(), Offset: 0, Size: size}},
				{Binding: 2, Resource: gputypes.BufferBinding{Buffer: write.NativeHandle(), Offset: 0, Size: size}},
			},
		})
	}
	drawGroup := func(label string, read hal.Buffer) (hal.BindGroup, error) {
		return s.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Label: label, Layout: s.drawBindLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{Buffer: s.uniformBuf.NativeHandle(), Offset: 0, Size: uniformSize}},
				{Binding: 1, Resource: gputypes.BufferBinding{Buffer: read.NativeHandle(), Offset: 0, Size: size}},
			},
		})
	}

	var err error
	if s.stepAtoB, err = stepGroup("life_step_a_to_b", s.bufA, s.bufB); err != nil {
		return fmt.Errorf("create step bind group A->B: %w", err)
	}
	if s.stepBtoA, err = stepGroup("life_step_b_to_a", s.bufB, s.bufA); err != nil {
		return fmt.Errorf("create step bind group B->A: %w", err)
	}
	if s.drawFromA, err = drawGroup("cell_draw_from_a", s.bufA); err != nil {
		return fmt.Errorf("create draw bind group A: %w", err)
	}
	if s.drawFromB, err = drawGroup("cell_draw_from_b", s.bufB); err != nil {
		return fmt.Errorf("create draw bind group B: %w", err)
	}
	return nil
}

func (s *Simulation) destroyBindGroups() {
	for _, bg := range []*hal.BindGroup{&s.drawFromB, &s.drawFromA, &s.stepBtoA, &s.stepAtoB} {
		if *bg != nil {
			s.device.DestroyBindGroup(*bg)
			*bg = nil
		}
	}
}

func (s *Simulation) destroyStepPipeline() {
	if s.stepPipeline != nil {
		s.device.DestroyComputePipeline(s.stepPipeline)
		s.stepPipeline = nil
	}
	if s.stepPipeLayout != nil {
		s.device.DestroyPipelineLayout(s.stepPipeLayout)
		s.stepPipeLayout = nil
	}
	if s.stepBindLayout != nil {
		s.device.DestroyBindGroupLayout(s.stepBindLayout)
		s.stepBindLayout = nil
	}
	if s.stepShader != nil {
		s.device.DestroyShaderModule(s.stepShader)
		s.stepShader = nil
	}
}

func (s *Simulation) destroyDrawPipeline() {
	if s.drawPipeline != nil {
		s.device.DestroyRenderPipeline(s.drawPipeline)
		s.drawPipeline = nil
	}
	if s.drawPipeLayout != nil {
		s.device.DestroyPipelineLayout(s.drawPipeLayout)
		s.drawPipeLayout = nil
	}
	if s.drawBindLayout != nil {
		s.device.DestroyBindGroupLayout(s.drawBindLayout)
		s.drawBindLayout = nil
	}
	if s.drawShader != nil {
		s.device.DestroyShaderModule(s.drawShader)
		s.drawShader = nil
	}
}
