package asset

import (
	"encoding/json"
	"fmt"
)

// ParseDescriptor parses asset JSON and applies defaults. The returned
// descriptor is complete: every optional field a later stage reads has
// been filled in, so the load pipeline never re-checks for absence.
func ParseDescriptor(data []byte) (*Descriptor, error) {
	var desc Descriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("parsing asset descriptor: %w", err)
	}
	if err := applyDefaults(&desc); err != nil {
		return nil, err
	}
	return &desc, nil
}

// applyDefaults fills omitted fields and validates cross-references
// that every load stage depends on.
func applyDefaults(d *Descriptor) error {
	if d.Scenes == nil {
		d.Scenes = map[string]*SceneDesc{}
	}
	ensureMaps(d)

	// Default scene: any scene, deterministically the lexicographically
	// first, when the descriptor names none.
	if d.Scene == "" && len(d.Scenes) > 0 {
		for name := range d.Scenes {
			if d.Scene == "" || name < d.Scene {
				d.Scene = name
			}
		}
	}
	if d.Scene != "" {
		if _, ok := d.Scenes[d.Scene]; !ok {
			return fmt.Errorf("asset names scene %q but does not define it", d.Scene)
		}
	}

	for name, node := range d.Nodes {
		// A node carries exactly one transform representation. When
		// the descriptor provides neither, default to identity TRS.
		if node.Matrix == nil && node.Translation == nil && node.Rotation == nil && node.Scale == nil {
			node.Translation = &[3]float32{0, 0, 0}
			node.Rotation = &[4]float32{0, 0, 1, 0}
			node.Scale = &[3]float32{1, 1, 1}
		}
		if node.Matrix == nil {
			if node.Translation == nil {
				node.Translation = &[3]float32{0, 0, 0}
			}
			if node.Rotation == nil {
				node.Rotation = &[4]float32{0, 0, 1, 0}
			}
			if node.Scale == nil {
				node.Scale = &[3]float32{1, 1, 1}
			}
		}
		for _, child := range node.Children {
			if _, ok := d.Nodes[child]; !ok {
				return fmt.Errorf("node %q references undefined child %q", name, child)
			}
		}
	}

	for name, acc := range d.Accessors {
		if acc.ByteStride == 0 {
			acc.ByteStride = tightStride(acc)
		}
		if acc.BufferView != "" {
			if _, ok := d.BufferViews[acc.BufferView]; !ok {
				return fmt.Errorf("accessor %q references undefined bufferView %q", name, acc.BufferView)
			}
		}
	}

	for name, view := range d.BufferViews {
		if _, ok := d.Buffers[view.Buffer]; !ok {
			return fmt.Errorf("bufferView %q references undefined buffer %q", name, view.Buffer)
		}
	}

	for _, sampler := range d.Samplers {
		if sampler.MagFilter == 0 {
			sampler.MagFilter = FilterLinear
		}
		if sampler.MinFilter == 0 {
			sampler.MinFilter = FilterLinear
		}
		if sampler.WrapS == 0 {
			sampler.WrapS = WrapRepeat
		}
		if sampler.WrapT == 0 {
			sampler.WrapT = WrapRepeat
		}
	}

	for name, tex := range d.Textures {
		if _, ok := d.Images[tex.Source]; !ok {
			return fmt.Errorf("texture %q references undefined image %q", name, tex.Source)
		}
		if tex.Sampler != "" {
			if _, ok := d.Samplers[tex.Sampler]; !ok {
				return fmt.Errorf("texture %q references undefined sampler %q", name, tex.Sampler)
			}
		}
	}

	for name, prog := range d.Programs {
		if _, ok := d.Shaders[prog.VertexShader]; !ok {
			return fmt.Errorf("program %q references undefined vertex shader %q", name, prog.VertexShader)
		}
		if _, ok := d.Shaders[prog.FragmentShader]; !ok {
			return fmt.Errorf("program %q references undefined fragment shader %q", name, prog.FragmentShader)
		}
	}

	for name, mesh := range d.Meshes {
		for i := range mesh.Primitives {
			prim := &mesh.Primitives[i]
			if prim.Mode == nil {
				mode := 4 // triangles
				prim.Mode = &mode
			}
			for semantic, accName := range prim.Attributes {
				if _, ok := d.Accessors[accName]; !ok {
					return fmt.Errorf("mesh %q attribute %s references undefined accessor %q", name, semantic, accName)
				}
			}
			if prim.Indices != "" {
				if _, ok := d.Accessors[prim.Indices]; !ok {
					return fmt.Errorf("mesh %q references undefined index accessor %q", name, prim.Indices)
				}
			}
		}
	}

	return nil
}

func ensureMaps(d *Descriptor) {
	if d.Nodes == nil {
		d.Nodes = map[string]*NodeDesc{}
	}
	if d.Meshes == nil {
		d.Meshes = map[string]*MeshDesc{}
	}
	if d.Accessors == nil {
		d.Accessors = map[string]*AccessorDesc{}
	}
	if d.BufferViews == nil {
		d.BufferViews = map[string]*BufferViewDesc{}
	}
	if d.Buffers == nil {
		d.Buffers = map[string]*BufferDesc{}
	}
	if d.Shaders == nil {
		d.Shaders = map[string]*ShaderDesc{}
	}
	if d.Programs == nil {
		d.Programs = map[string]*ProgramDesc{}
	}
	if d.Techniques == nil {
		d.Techniques = map[string]*TechniqueDesc{}
	}
	if d.Materials == nil {
		d.Materials = map[string]*MaterialDesc{}
	}
	if d.Images == nil {
		d.Images = map[string]*ImageDesc{}
	}
	if d.Samplers == nil {
		d.Samplers = map[string]*SamplerDesc{}
	}
	if d.Textures == nil {
		d.Textures = map[string]*TextureDesc{}
	}
	if d.Skins == nil {
		d.Skins = map[string]*SkinDesc{}
	}
	if d.Animations == nil {
		d.Animations = map[string]*AnimationDesc{}
	}
}

// componentCount returns the number of scalar components per element
// of an accessor type.
func componentCount(accessorType string) int {
	switch accessorType {
	case "SCALAR":
		return 1
	case "VEC2":
		return 2
	case "VEC3":
		return 3
	case "VEC4":
		return 4
	case "MAT4":
		return 16
	default:
		return 0
	}
}

// componentSize returns the byte size of one scalar component.
func componentSize(componentType int) int {
	switch componentType {
	case 5120, 5121: // byte, unsigned byte
		return 1
	case 5122, 5123: // short, unsigned short
		return 2
	default: // unsigned int, float
		return 4
	}
}

// tightStride is the element stride of a tightly packed accessor.
func tightStride(acc *AccessorDesc) int {
	return componentCount(acc.Type) * componentSize(acc.ComponentType)
}
