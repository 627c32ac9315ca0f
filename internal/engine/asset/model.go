package asset

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/Faultbox/asgard/internal/engine/fetch"
	"github.com/Faultbox/asgard/internal/engine/gfx"
	"github.com/Faultbox/asgard/pkg/math"
)

// Status is the load state of a model.
type Status int

const (
	// StatusNeedsLoad means no loading work has started.
	StatusNeedsLoad Status = iota
	// StatusLoading means fetches or resource creation are in flight. A
	// model whose load failed stays in this state permanently.
	StatusLoading
	// StatusLoaded means every resource exists and the scene graph is
	// built; per-frame updates are running.
	StatusLoaded
)

func (s Status) String() string {
	switch s {
	case StatusNeedsLoad:
		return "needsLoad"
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// FrameState carries the per-tick inputs every model update needs.
type FrameState struct {
	FrameNumber uint64
	Time        float64 // seconds since application start
}

// PickAllocator hands out pick-pass identifiers. An allocator shared
// across models keeps ids globally unique.
type PickAllocator interface {
	Allocate() uint32
}

// Options configures a model.
type Options struct {
	Fetcher fetch.Fetcher
	Device  gfx.Device
	Logger  *zap.Logger

	// PickAllocator, when set, causes a pick-pass command to be built
	// alongside each draw command.
	PickAllocator PickAllocator

	// OnReady fires once, during the first update after the model
	// reaches the loaded state.
	OnReady func(*Model)
	// OnError fires once, when a load failure is first observed.
	OnError func(error)
}

// Model is a loading or loaded asset instance. All methods must be
// called from the owner's update goroutine; the only concurrency is
// fetch completions, which are posted to an internal queue and applied
// at the start of Update.
type Model struct {
	desc    *Descriptor
	device  gfx.Device
	fetcher fetch.Fetcher
	log     *zap.Logger

	pickAllocator PickAllocator
	onReady       func(*Model)
	onError       func(error)

	status      Status
	destroyed   bool
	load        *loadState
	loadErr     error
	errReported bool

	// Fetched payloads, keyed by descriptor name.
	bufferData map[string][]byte
	shaderText map[string]string

	// GPU resource tables, keyed by descriptor name (vertex arrays by
	// mesh/primitive key, render states by technique).
	vertexBuffers map[string]gfx.Buffer
	indexBuffers  map[string]gfx.Buffer
	programs      map[string]gfx.Program
	samplers      map[string]gfx.Sampler
	textures      map[string]gfx.Texture
	vertexArrays  map[string]gfx.VertexArray
	renderStates  map[string]gfx.RenderState
	uniformMaps   map[string][]gfx.UniformBinding

	nodes      []runtimeNode
	nodeIndex  map[string]int
	sceneRoots []int
	skins      []*skinBinding
	clips      map[string]*AnimationClip
	playing    []clipPlayback
	commands   []*gfx.DrawCommand

	// Instance transform: an explicit matrix plus a uniform scale,
	// composed lazily when either changes.
	modelMatrix         math.Mat4
	scale               float32
	computedModelMatrix math.Mat4
	lastModelMatrix     math.Mat4
	lastScale           float32

	justLoaded bool
	frameStamp uint64
	bounds     math.Sphere

	completions chan func()

	// Walk scratch, reused across frames.
	nodeStack []propagateVisit
	visitList []int
	touched   []math.Sphere
}

// NewModel creates a model from a parsed descriptor. Loading starts on
// the first Update.
func NewModel(desc *Descriptor, opts Options) *Model {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	m := &Model{
		desc:          desc,
		device:        opts.Device,
		fetcher:       opts.Fetcher,
		log:           log,
		pickAllocator: opts.PickAllocator,
		onReady:       opts.OnReady,
		onError:       opts.OnError,

		bufferData: map[string][]byte{},
		shaderText: map[string]string{},

		vertexBuffers: map[string]gfx.Buffer{},
		indexBuffers:  map[string]gfx.Buffer{},
		programs:      map[string]gfx.Program{},
		samplers:      map[string]gfx.Sampler{},
		textures:      map[string]gfx.Texture{},
		vertexArrays:  map[string]gfx.VertexArray{},
		renderStates:  map[string]gfx.RenderState{},
		uniformMaps:   map[string][]gfx.UniformBinding{},

		clips: map[string]*AnimationClip{},

		modelMatrix:         math.Identity(),
		scale:               1,
		computedModelMatrix: math.Identity(),
		lastModelMatrix:     math.Identity(),
		lastScale:           1,
	}
	// Each fetch completes exactly once, so a queue sized to the fetch
	// count never blocks the completion goroutine.
	fetches := len(desc.Buffers) + len(desc.Shaders) + len(desc.Textures)
	m.completions = make(chan func(), fetches+1)
	return m
}

// LoadModel parses descriptor JSON and creates a model from it.
func LoadModel(data []byte, opts Options) (*Model, error) {
	desc, err := ParseDescriptor(data)
	if err != nil {
		return nil, err
	}
	return NewModel(desc, opts), nil
}

// Status returns the model's load state.
func (m *Model) Status() Status { return m.status }

// Ready reports whether the model is loaded and updating.
func (m *Model) Ready() bool { return m.status == StatusLoaded }

// Err returns the fatal load error, if any.
func (m *Model) Err() error { return m.loadErr }

// Update advances the model by one tick: fetch completions are applied,
// resource creation stages run, and once loaded, animation, transform
// propagation, skinning, and bounds are refreshed.
func (m *Model) Update(state FrameState) error {
	if m.destroyed {
		return ErrDestroyed
	}
	m.drainCompletions()

	if m.loadErr != nil {
		return m.reportLoadError()
	}

	switch m.status {
	case StatusNeedsLoad:
		m.startLoad()
		return nil
	case StatusLoading:
		if err := m.driveStages(); err != nil {
			m.fail(err)
			return m.reportLoadError()
		}
		if !m.load.done[stageNodes] {
			return nil
		}
		m.status = StatusLoaded
		m.justLoaded = true
		m.load = nil
		m.log.Debug("model loaded", zap.Int("nodes", len(m.nodes)), zap.Int("commands", len(m.commands)))
	}

	m.updateFrame(state)
	return nil
}

// updateFrame runs the per-frame section of a loaded model.
func (m *Model) updateFrame(state FrameState) {
	m.advanceClips(state.Time)

	modelChanged := m.modelMatrix != m.lastModelMatrix || m.scale != m.lastScale
	if modelChanged || m.justLoaded {
		m.computedModelMatrix = m.modelMatrix.Mul(math.UniformScale(m.scale))
		m.lastModelMatrix = m.modelMatrix
		m.lastScale = m.scale
	}

	recomputed := m.propagateTransforms(modelChanged)
	if recomputed || m.justLoaded {
		m.applySkins()
	}
	if recomputed || modelChanged || m.justLoaded {
		m.refreshNodeUniforms()
	}

	if m.justLoaded {
		m.justLoaded = false
		if m.onReady != nil {
			m.onReady(m)
		}
	}
}

// startLoad allocates the node arena, queues every GPU creation unit,
// and issues all fetches. The model sits in the loading state from the
// next tick until the stage pipeline finishes.
func (m *Model) startLoad() {
	m.status = StatusLoading
	m.load = &loadState{
		buffersToCreate:  sortedKeys(m.desc.BufferViews),
		programsToCreate: sortedKeys(m.desc.Programs),
	}
	m.allocateNodes()

	for _, name := range sortedKeys(m.desc.Buffers) {
		name, uri := name, m.desc.Buffers[name].URI
		m.load.pendingBuffers++
		m.fetcher.FetchBinary(uri, func(data []byte, err error) {
			m.post(func() {
				if err != nil {
					m.fail(&ResourceError{Kind: "buffer", Path: uri, Err: err})
					return
				}
				m.bufferData[name] = data
				m.load.pendingBuffers--
			})
		})
	}

	for _, name := range sortedKeys(m.desc.Shaders) {
		name, uri := name, m.desc.Shaders[name].URI
		m.load.pendingShaders++
		m.fetcher.FetchText(uri, func(text string, err error) {
			m.post(func() {
				if err != nil {
					m.fail(&ResourceError{Kind: "shader", Path: uri, Err: err})
					return
				}
				m.shaderText[name] = text
				m.load.pendingShaders--
			})
		})
	}

	for _, name := range sortedKeys(m.desc.Textures) {
		name := name
		uri := m.desc.Images[m.desc.Textures[name].Source].URI
		m.load.pendingTextures++
		m.fetcher.FetchImage(uri, func(img *image.RGBA, err error) {
			m.post(func() {
				if err != nil {
					m.fail(&ResourceError{Kind: "image", Path: uri, Err: err})
					return
				}
				m.load.texturesToCreate = append(m.load.texturesToCreate, textureToCreate{name: name, image: img})
				m.load.pendingTextures--
			})
		})
	}
}

// post queues a completion for the next update tick. The queue is
// sized so a send never blocks.
func (m *Model) post(fn func()) {
	m.completions <- fn
}

func (m *Model) drainCompletions() {
	for {
		select {
		case fn := <-m.completions:
			if m.load != nil {
				fn()
			}
		default:
			return
		}
	}
}

// fail records the first fatal load error. The model stays in the
// loading state forever; pending counters are deliberately not
// decremented on the failure path.
func (m *Model) fail(err error) {
	if m.loadErr == nil {
		m.loadErr = err
	}
}

// reportLoadError logs and delivers the load error exactly once;
// subsequent updates are silent no-ops.
func (m *Model) reportLoadError() error {
	if m.errReported {
		return nil
	}
	m.errReported = true
	m.log.Error("model load failed", zap.Error(m.loadErr))
	if m.onError != nil {
		m.onError(m.loadErr)
	}
	return m.loadErr
}

// NodeByName returns the handle for a named node of a loaded model.
func (m *Model) NodeByName(name string) (*Node, error) {
	if m.destroyed {
		return nil, ErrDestroyed
	}
	if m.status != StatusLoaded {
		return nil, ErrNotLoaded
	}
	idx, ok := m.nodeIndex[name]
	if !ok {
		return nil, fmt.Errorf("asset: no node named %q", name)
	}
	return &Node{model: m, index: idx}, nil
}

// Commands returns the model's draw commands. Empty until loaded.
func (m *Model) Commands() []*gfx.DrawCommand {
	if m.status != StatusLoaded {
		return nil
	}
	return m.commands
}

// BoundingSphere returns the model's world-space bound as of the last
// update.
func (m *Model) BoundingSphere() math.Sphere { return m.bounds }

// SetModelMatrix sets the instance's placement in the world. Takes
// effect on the next update.
func (m *Model) SetModelMatrix(mat math.Mat4) { m.modelMatrix = mat }

// ModelMatrix returns the instance's placement matrix.
func (m *Model) ModelMatrix() math.Mat4 { return m.modelMatrix }

// SetScale sets the instance's uniform scale, applied after the model
// matrix.
func (m *Model) SetScale(s float32) { m.scale = s }

// Scale returns the instance's uniform scale.
func (m *Model) Scale() float32 { return m.scale }

// Clips returns the names of the model's animation clips, sorted.
func (m *Model) Clips() []string {
	return sortedKeys(m.clips)
}

// Clip returns a clip by name, or nil.
func (m *Model) Clip(name string) *AnimationClip {
	return m.clips[name]
}

// PlayClip starts a named clip at the next update's time. Playing a
// clip that is already playing restarts it.
func (m *Model) PlayClip(name string, now float64, loop bool) error {
	if m.status != StatusLoaded {
		return ErrNotLoaded
	}
	clip, ok := m.clips[name]
	if !ok {
		return fmt.Errorf("asset: no animation clip named %q", name)
	}
	m.StopClip(name)
	m.playing = append(m.playing, clipPlayback{clip: clip, start: now, loop: loop})
	return nil
}

// StopClip stops a playing clip. The node properties it wrote keep
// their last sampled values.
func (m *Model) StopClip(name string) {
	for i, p := range m.playing {
		if p.clip.Name == name {
			m.playing = append(m.playing[:i], m.playing[i+1:]...)
			return
		}
	}
}

// Destroy releases every GPU resource exactly once. The model is
// unusable afterwards; fetch completions still in flight are discarded.
func (m *Model) Destroy() {
	if m.destroyed {
		return
	}
	m.destroyed = true
	m.load = nil

	for _, name := range sortedKeys(m.vertexArrays) {
		m.vertexArrays[name].Destroy()
	}
	for _, name := range sortedKeys(m.vertexBuffers) {
		m.vertexBuffers[name].Destroy()
	}
	for _, name := range sortedKeys(m.indexBuffers) {
		m.indexBuffers[name].Destroy()
	}
	for _, name := range sortedKeys(m.programs) {
		m.programs[name].Destroy()
	}
	for _, name := range sortedKeys(m.textures) {
		m.textures[name].Destroy()
	}
	for _, name := range sortedKeys(m.samplers) {
		m.samplers[name].Destroy()
	}
	for _, name := range sortedKeys(m.renderStates) {
		m.renderStates[name].Destroy()
	}
	m.vertexArrays = nil
	m.vertexBuffers = nil
	m.indexBuffers = nil
	m.programs = nil
	m.textures = nil
	m.samplers = nil
	m.renderStates = nil
	m.commands = nil
}
