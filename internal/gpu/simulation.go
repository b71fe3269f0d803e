package gpu

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

const (
	// cellStride is the byte size of one packed cell value.
	cellStride = 4

	// quadVertexCount is the number of vertices in the shared cell
	// template (a unit square as two triangles).
	quadVertexCount = 6

	// quadVertexStride is the byte stride per template vertex: one
	// vec2<f32> corner position.
	quadVertexStride = 8

	// uniformSize is the byte size of the GridParams uniform buffer.
	// Layout: width (u32) + height (u32) + two padding words = 16 bytes.
	uniformSize = 16

	// submitTimeout bounds the fence wait on a submitted command buffer.
	submitTimeout = 5 * time.Second
)

// Config fixes the GPU resources of one simulation. All fields must be
// positive; validation happens in the public package before it gets here.
type Config struct {
	// GridSize is the grid dimension N. Both cell buffers hold N² values.
	GridSize int

	// Workgroup is the compute tile edge. The transition dispatch issues
	// ceil(N/Workgroup) workgroups per axis.
	Workgroup int

	// FrameSize is the edge of the square offscreen frame texture.
	FrameSize int
}

// Simulation owns every GPU resource behind one engine: the ping-pong
// cell buffers, the transition and render pipelines, and the frame
// target. Buffers persist for the life of the simulation; nothing is
// reallocated per tick.
//
// Simulation is not safe for concurrent use. The engine serializes all
// calls, which is also what guarantees the buffers are never touched by
// two dispatches at once: submission order on the device queue is the
// concurrency-control mechanism.
type Simulation struct {
	cfg Config

	instance   hal.Instance // nil when the device is shared
	device     hal.Device
	queue      hal.Queue
	ownsDevice bool

	// Cell state. A is seeded at startup; B starts undefined and is first
	// written by the first transition step.
	bufA       hal.Buffer
	bufB       hal.Buffer
	uniformBuf hal.Buffer
	vertexBuf  hal.Buffer

	// Transition pipeline with one prebuilt bind group per step
	// direction (read A write B, read B write A).
	stepShader     hal.ShaderModule
	stepBindLayout hal.BindGroupLayout
	stepPipeLayout hal.PipelineLayout
	stepPipeline   hal.ComputePipeline
	stepAtoB       hal.BindGroup
	stepBtoA       hal.BindGroup

	// Render pipeline with one prebuilt bind group per readable buffer.
	drawShader     hal.ShaderModule
	drawBindLayout hal.BindGroupLayout
	drawPipeLayout hal.PipelineLayout
	drawPipeline   hal.RenderPipeline
	drawFromA      hal.BindGroup
	drawFromB      hal.BindGroup

	// Offscreen presentation target.
	frameTex  hal.Texture
	frameView hal.TextureView
}

// NewSimulation opens a device on the best available adapter and creates
// all simulation resources. Every failure here is fatal and happens
// before the first tick; there is no degraded mode.
func NewSimulation(cfg Config) (*Simulation, error) {
	instance, device, queue, err := openDevice()
	if err != nil {
		return nil, err
	}
	s := &Simulation{
		cfg:        cfg,
		instance:   instance,
		device:     device,
		queue:      queue,
		ownsDevice: true,
	}
	if err := s.createResources(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// NewSimulationWithDevice creates simulation resources on a device owned
// by the host. The device and queue are not destroyed on Close.
func NewSimulationWithDevice(device hal.Device, queue hal.Queue, cfg Config) (*Simulation, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("nil device or queue")
	}
	s := &Simulation{
		cfg:    cfg,
		device: device,
		queue:  queue,
	}
	if err := s.createResources(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// createResources builds buffers, pipelines, bind groups, and the frame
// target. Called once from the constructors.
func (s *Simulation) createResources() error {
	if err := s.createBuffers(); err != nil {
		return err
	}
	if err := s.createStepPipeline(); err != nil {
		return err
	}
	if err := s.createDrawPipeline(); err != nil {
		return err
	}
	if err := s.createBindGroups(); err != nil {
		return err
	}
	if err := s.createFrameTarget(); err != nil {
		return err
	}
	slogger().Debug("lifegrid: GPU resources created",
		"grid", s.cfg.GridSize,
		"cells", s.cellCount(),
		"frame", s.cfg.FrameSize)
	return nil
}

func (s *Simulation) cellCount() int { return s.cfg.GridSize * s.cfg.GridSize }

// cellBufferSize returns the byte size of one cell buffer.
func (s *Simulation) cellBufferSize() uint64 {
	return uint64(s.cellCount()) * cellStride
}

// createBuffers creates both cell buffers, the grid uniform, and the quad
// vertex template, and uploads the two immutable ones.
func (s *Simulation) createBuffers() error {
	size := s.cellBufferSize()

	// CopySrc on the cell buffers is for diagnostics and tests: the
	// engine can read either generation back without touching the frame.
	cellUsage := gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst | gputypes.BufferUsageCopySrc
	bufA, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "life_cells_a", Size: size, Usage: cellUsage,
	})
	if err != nil {
		return fmt.Errorf("create cell buffer A: %w", err)
	}
	s.bufA = bufA

	bufB, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "life_cells_b", Size: size, Usage: cellUsage,
	})
	if err != nil {
		return fmt.Errorf("create cell buffer B: %w", err)
	}
	s.bufB = bufB

	uniformBuf, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "life_grid_uniform", Size: uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	s.uniformBuf = uniformBuf
	s.queue.WriteBuffer(uniformBuf, 0, s.packGridUniform())

	vertexBuf, err := s.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "life_quad_verts", Size: quadVertexCount * quadVertexStride,
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create vertex buffer: %w", err)
	}
	s.vertexBuf = vertexBuf
	s.queue.WriteBuffer(vertexBuf, 0, packQuadVertices())

	return nil
}

// packGridUniform serializes the GridParams uniform: width, height, and
// two padding words, little-endian.
func (s *Simulation) packGridUniform() []byte {
	out := make([]byte, uniformSize)
	binary.LittleEndian.PutUint32(out[0:4], uint32(s.cfg.GridSize))
	binary.LittleEndian.PutUint32(out[4:8], uint32(s.cfg.GridSize))
	return out
}

// packQuadVertices serializes the unit-square template: two triangles,
// six vec2<f32> corners.
func packQuadVertices() []byte {
	corners := []float32{
		0, 0, 1, 0, 0, 1,
		1, 0, 1, 1, 0, 1,
	}
	out := make([]byte, len(corners)*4)
	for i, v := range corners {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// createFrameTarget creates the offscreen texture the render pass draws
// into. CopySrc is what lets the host read frames back.
func (s *Simulation) createFrameTarget() error {
	fs := uint32(s.cfg.FrameSize)
	frameTex, err := s.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "life_frame",
		Size:          hal.Extent3D{Width: fs, Height: fs, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create frame texture: %w", err)
	}
	s.frameTex = frameTex

	frameView, err := s.device.CreateTextureView(frameTex, &hal.TextureViewDescriptor{
		Label:         "life_frame_view",
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return fmt.Errorf("create frame view: %w", err)
	}
	s.frameView = frameView
	return nil
}

// UploadCells writes the seed population into cell buffer A.
func (s *Simulation) UploadCells(cells []uint32) error {
	if uint64(len(cells))*cellStride != s.cellBufferSize() {
		return fmt.Errorf("seed size %d does not match grid of %d cells", len(cells), s.cellCount())
	}
	data := make([]byte, len(cells)*cellStride)
	for i, c := range cells {
		binary.LittleEndian.PutUint32(data[i*cellStride:], c)
	}
	s.queue.WriteBuffer(s.bufA, 0, data)
	return nil
}

// Close releases all GPU resources in reverse creation order. Shared
// devices are left untouched. Safe to call more than once.
func (s *Simulation) Close() {
	if s.device == nil {
		return
	}
	if s.frameView != nil {
		s.device.DestroyTextureView(s.frameView)
		s.frameView = nil
	}
	if s.frameTex != nil {
		s.device.DestroyTexture(s.frameTex)
		s.frameTex = nil
	}
	s.destroyBindGroups()
	s.destroyDrawPipeline()
	s.destroyStepPipeline()
	for _, buf := range []*hal.Buffer{&s.vertexBuf, &s.uniformBuf, &s.bufB, &s.bufA} {
		if *buf != nil {
			s.device.DestroyBuffer(*buf)
			*buf = nil
		}
	}
	if s.ownsDevice {
		s.device.Destroy()
		if s.instance != nil {
			s.instance.Destroy()
			s.instance = nil
		}
	}
	s.device = nil
	s.queue = nil
}
