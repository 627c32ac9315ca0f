package asset

import (
	"fmt"
	"sort"

	"github.com/Faultbox/asgard/internal/engine/gfx"
)

// stageKind says how a stage consumes its work: all at once, or one
// unit per tick to bound per-frame GPU driver time.
type stageKind int

const (
	drainAll stageKind = iota
	drainOne
)

// stageDesc is one entry of the creation pipeline. ready gates the
// stage on its inputs; run performs the work and reports whether the
// stage finished. Stages are ordered by dependency, so a single
// in-order sweep per tick makes progress on everything that can move.
type stageDesc struct {
	id    stageID
	kind  stageKind
	ready func(*Model) bool
	run   func(*Model) (bool, error)
}

var stageTable = []stageDesc{
	{
		id:    stageBuffers,
		kind:  drainAll,
		ready: func(m *Model) bool { return m.load.pendingBuffers == 0 },
		run:   (*Model).createBuffers,
	},
	{
		id:    stagePrograms,
		kind:  drainOne,
		ready: func(m *Model) bool { return m.load.pendingShaders == 0 },
		run:   (*Model).createNextProgram,
	},
	{
		id:    stageSamplers,
		kind:  drainAll,
		ready: func(m *Model) bool { return true },
		run:   (*Model).createSamplers,
	},
	{
		id:    stageTextures,
		kind:  drainOne,
		ready: func(m *Model) bool { return m.load.done[stageSamplers] },
		run:   (*Model).createNextTexture,
	},
	{
		id:    stageSkins,
		kind:  drainAll,
		ready: func(m *Model) bool { return m.load.buffersReady() },
		run:   (*Model).createSkins,
	},
	{
		id:    stageAnimations,
		kind:  drainAll,
		ready: func(m *Model) bool { return m.load.pendingLoadsDone() && m.load.buffersReady() },
		run:   (*Model).createRuntimeAnimations,
	},
	{
		id:   stageVertexArrays,
		kind: drainAll,
		ready: func(m *Model) bool {
			return m.load.buffersReady() && m.load.programsReady()
		},
		run: (*Model).createVertexArrays,
	},
	{
		id:    stageRenderStates,
		kind:  drainAll,
		ready: func(m *Model) bool { return true },
		run:   (*Model).createRenderStates,
	},
	{
		id:   stageUniformMaps,
		kind: drainAll,
		ready: func(m *Model) bool {
			return m.load.texturesReady() && m.load.programsReady()
		},
		run: (*Model).createUniformMaps,
	},
	{
		id:   stageNodes,
		kind: drainAll,
		ready: func(m *Model) bool {
			return m.load.pendingLoadsDone() && m.load.resourceCreationDone() &&
				m.load.done[stageBuffers] && m.load.done[stagePrograms] && m.load.done[stageTextures]
		},
		run: func(m *Model) (bool, error) {
			return true, m.createRuntimeNodes()
		},
	},
}

func init() {
	// The table must list every stage exactly once, in id order.
	if len(stageTable) != int(stageCount) {
		panic("asset: stage table is incomplete")
	}
	for i, st := range stageTable {
		if st.id != stageID(i) {
			panic(fmt.Sprintf("asset: stage table out of order at %s", st.id))
		}
	}
}

// driveStages makes one in-order sweep over the pipeline. Drain-all
// stages run once when ready; drain-one stages consume at most one
// queued unit per sweep.
func (m *Model) driveStages() error {
	for _, st := range stageTable {
		if m.load.done[st.id] {
			continue
		}
		if !st.ready(m) {
			continue
		}
		done, err := st.run(m)
		if err != nil {
			return fmt.Errorf("%s stage: %w", st.id, err)
		}
		if done {
			m.load.done[st.id] = true
		}
	}
	return nil
}

// createBuffers uploads every queued buffer view to the GPU. Views
// with an element-array target become index buffers; everything else
// becomes a vertex buffer.
func (m *Model) createBuffers() (bool, error) {
	for _, name := range m.load.buffersToCreate {
		view := m.desc.BufferViews[name]
		raw, ok := m.bufferData[view.Buffer]
		if !ok {
			return false, fmt.Errorf("bufferView %q: buffer %q not fetched", name, view.Buffer)
		}
		if view.ByteOffset+view.ByteLength > len(raw) {
			return false, fmt.Errorf("bufferView %q exceeds buffer %q (%d bytes)", name, view.Buffer, len(raw))
		}
		data := raw[view.ByteOffset : view.ByteOffset+view.ByteLength]

		var err error
		if view.Target == TargetElementArrayBuffer {
			m.indexBuffers[name], err = m.device.CreateIndexBuffer(data)
		} else {
			m.vertexBuffers[name], err = m.device.CreateVertexBuffer(data)
		}
		if err != nil {
			return false, fmt.Errorf("creating buffer for view %q: %w", name, err)
		}
	}
	m.load.buffersToCreate = nil
	return true, nil
}

// createNextProgram links one queued program. One per tick: shader
// compilation is the most expensive create call and linking everything
// in one frame causes a visible hitch.
func (m *Model) createNextProgram() (bool, error) {
	if len(m.load.programsToCreate) == 0 {
		return true, nil
	}
	name := m.load.programsToCreate[0]
	m.load.programsToCreate = m.load.programsToCreate[1:]

	prog := m.desc.Programs[name]
	vs, ok := m.shaderText[prog.VertexShader]
	if !ok {
		return false, fmt.Errorf("program %q: vertex shader %q not fetched", name, prog.VertexShader)
	}
	fs, ok := m.shaderText[prog.FragmentShader]
	if !ok {
		return false, fmt.Errorf("program %q: fragment shader %q not fetched", name, prog.FragmentShader)
	}
	handle, err := m.device.CreateProgram(vs, fs, prog.Attributes)
	if err != nil {
		return false, fmt.Errorf("linking program %q: %w", name, err)
	}
	m.programs[name] = handle
	return len(m.load.programsToCreate) == 0, nil
}

// createSamplers creates every sampler up front; they are cheap and
// textures depend on them.
func (m *Model) createSamplers() (bool, error) {
	for _, name := range sortedKeys(m.desc.Samplers) {
		s := m.desc.Samplers[name]
		handle, err := m.device.CreateSampler(gfx.SamplerDesc{
			MagFilter: s.MagFilter,
			MinFilter: s.MinFilter,
			WrapS:     s.WrapS,
			WrapT:     s.WrapT,
		})
		if err != nil {
			return false, fmt.Errorf("creating sampler %q: %w", name, err)
		}
		m.samplers[name] = handle
	}
	return true, nil
}

// createNextTexture uploads one queued image. One per tick; texture
// uploads are bounded the same way program links are.
func (m *Model) createNextTexture() (bool, error) {
	if len(m.load.texturesToCreate) == 0 {
		return m.load.pendingTextures == 0, nil
	}
	item := m.load.texturesToCreate[0]
	m.load.texturesToCreate = m.load.texturesToCreate[1:]

	tex := m.desc.Textures[item.name]
	var sampler gfx.Sampler
	if tex.Sampler != "" {
		sampler = m.samplers[tex.Sampler]
	}
	bounds := item.image.Bounds()
	handle, err := m.device.CreateTexture2D(gfx.TextureDesc{
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		Pixels:  item.image.Pix,
		Sampler: sampler,
		Mipmap:  true,
	})
	if err != nil {
		return false, fmt.Errorf("creating texture %q: %w", item.name, err)
	}
	m.textures[item.name] = handle
	return m.load.pendingTextures == 0 && len(m.load.texturesToCreate) == 0, nil
}

// createVertexArrays builds one vertex array per mesh primitive,
// binding each program attribute to its accessor's region of the GPU
// buffers.
func (m *Model) createVertexArrays() (bool, error) {
	for _, meshName := range sortedKeys(m.desc.Meshes) {
		mesh := m.desc.Meshes[meshName]
		for i := range mesh.Primitives {
			prim := &mesh.Primitives[i]
			handle, err := m.createVertexArray(prim)
			if err != nil {
				return false, fmt.Errorf("mesh %q primitive %d: %w", meshName, i, err)
			}
			m.vertexArrays[primitiveKey(meshName, i)] = handle
		}
	}
	return true, nil
}

func (m *Model) createVertexArray(prim *PrimitiveDesc) (gfx.VertexArray, error) {
	indices := m.attributeIndices(prim)

	var desc gfx.VertexArrayDesc
	for _, semantic := range sortedKeys(prim.Attributes) {
		slot, ok := indices[semantic]
		if !ok {
			continue
		}
		acc := m.desc.Accessors[prim.Attributes[semantic]]
		buf, ok := m.vertexBuffers[acc.BufferView]
		if !ok {
			return nil, fmt.Errorf("attribute %s: no GPU buffer for view %q", semantic, acc.BufferView)
		}
		desc.Attributes = append(desc.Attributes, gfx.VertexAttribute{
			Index:          slot,
			Buffer:         buf,
			ComponentType:  gfx.ComponentType(acc.ComponentType),
			ComponentCount: componentCount(acc.Type),
			Stride:         acc.ByteStride,
			Offset:         acc.ByteOffset,
		})
	}

	if prim.Indices != "" {
		acc := m.desc.Accessors[prim.Indices]
		buf, ok := m.indexBuffers[acc.BufferView]
		if !ok {
			return nil, fmt.Errorf("index accessor %q: no GPU index buffer for view %q", prim.Indices, acc.BufferView)
		}
		desc.IndexBuffer = buf
		desc.IndexType = gfx.ComponentType(acc.ComponentType)
	}

	if prim.Material != "" {
		if mat, ok := m.desc.Materials[prim.Material]; ok {
			if tech, ok := m.desc.Techniques[mat.Technique]; ok {
				desc.ProgramHandle = m.programs[tech.Program]
			}
		}
	}

	return m.device.CreateVertexArray(desc)
}

// attributeIndices maps primitive attribute semantics to program
// attribute slots. With a technique, slots follow the program's
// declared attribute order through the technique's parameter table;
// without one, a fixed canonical order applies.
func (m *Model) attributeIndices(prim *PrimitiveDesc) map[string]uint32 {
	out := map[string]uint32{}

	if prim.Material != "" {
		if mat, ok := m.desc.Materials[prim.Material]; ok {
			if tech, ok := m.desc.Techniques[mat.Technique]; ok {
				prog := m.desc.Programs[tech.Program]
				for slot, attrName := range prog.Attributes {
					paramName, ok := tech.Attributes[attrName]
					if !ok {
						continue
					}
					semantic := paramName
					if param, ok := tech.Parameters[paramName]; ok && param.Semantic != "" {
						semantic = param.Semantic
					}
					out[semantic] = uint32(slot)
				}
				return out
			}
		}
	}

	for semantic := range prim.Attributes {
		if slot, ok := canonicalAttributeSlots[semantic]; ok {
			out[semantic] = slot
		}
	}
	return out
}

// canonicalAttributeSlots is the fallback layout for primitives drawn
// without a technique.
var canonicalAttributeSlots = map[string]uint32{
	"POSITION":   0,
	"NORMAL":     1,
	"TEXCOORD_0": 2,
	"JOINT":      3,
	"WEIGHT":     4,
}

// createRenderStates builds one render state per technique from its
// declared fixed-function states.
func (m *Model) createRenderStates() (bool, error) {
	for _, name := range sortedKeys(m.desc.Techniques) {
		tech := m.desc.Techniques[name]
		desc := gfx.RenderStateDesc{DepthMask: true}
		if st := tech.States; st != nil {
			for _, c := range st.Enable {
				switch c {
				case StateCullFace:
					desc.CullFace = true
				case StateDepthTest:
					desc.DepthTest = true
				case StateBlend:
					desc.Blend = true
				}
			}
			desc.BlendSrcFactor = st.BlendSrcFactor
			desc.BlendDstFactor = st.BlendDstFactor
			if st.DepthMask != nil {
				desc.DepthMask = *st.DepthMask
			}
		}
		handle, err := m.device.CreateRenderState(desc)
		if err != nil {
			return false, fmt.Errorf("creating render state for technique %q: %w", name, err)
		}
		m.renderStates[name] = handle
	}
	return true, nil
}

// createUniformMaps resolves each material into a flat binding list.
// Material values override technique parameter defaults; parameters
// with a semantic resolve per frame, parameters with a source node
// read that node's world matrix, and sampler parameters bind textures.
func (m *Model) createUniformMaps() (bool, error) {
	for _, matName := range sortedKeys(m.desc.Materials) {
		mat := m.desc.Materials[matName]
		tech, ok := m.desc.Techniques[mat.Technique]
		if !ok {
			return false, fmt.Errorf("material %q references undefined technique %q", matName, mat.Technique)
		}

		var bindings []gfx.UniformBinding
		for _, uniformName := range sortedKeys(tech.Uniforms) {
			paramName := tech.Uniforms[uniformName]
			param, ok := tech.Parameters[paramName]
			if !ok {
				return false, fmt.Errorf("material %q: technique %q has no parameter %q", matName, mat.Technique, paramName)
			}
			binding, err := m.resolveUniform(uniformName, paramName, param, mat)
			if err != nil {
				return false, fmt.Errorf("material %q: %w", matName, err)
			}
			bindings = append(bindings, binding)
		}
		m.uniformMaps[matName] = bindings
	}
	return true, nil
}

func (m *Model) resolveUniform(uniformName, paramName string, param *TechniqueParameter, mat *MaterialDesc) (gfx.UniformBinding, error) {
	b := gfx.UniformBinding{Name: uniformName, NodeIndex: -1}
	value := mat.Values[paramName]

	if param.Type == ParamTypeSampler2D {
		texName := param.Texture
		if value != nil && value.Texture != "" {
			texName = value.Texture
		}
		tex, ok := m.textures[texName]
		if !ok {
			return b, fmt.Errorf("parameter %q references texture %q with no GPU handle", paramName, texName)
		}
		b.Source = gfx.UniformTexture
		b.Texture = tex
		return b, nil
	}

	if param.Node != "" {
		idx, ok := m.nodeIndex[param.Node]
		if !ok {
			return b, fmt.Errorf("parameter %q references undefined node %q", paramName, param.Node)
		}
		b.Source = gfx.UniformNodeMatrix
		b.NodeIndex = idx
		return b, nil
	}

	if param.Semantic != "" {
		b.Source = gfx.UniformSemantic
		b.Semantic = param.Semantic
		return b, nil
	}

	b.Source = gfx.UniformConstant
	if value != nil && len(value.Numbers) > 0 {
		b.Value = value.Numbers
	} else {
		b.Value = param.Value
	}
	return b, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
