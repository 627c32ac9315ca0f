// Package asset implements the staged asset loader and runtime scene
// graph. A Model is constructed from a parsed asset descriptor, loads
// its external payloads asynchronously across frame ticks, and once
// loaded updates node transforms, skinning matrices, and bounds every
// frame.
package asset

// Descriptor is the parsed, defaulted asset definition. All tables are
// keyed by descriptor name. A Descriptor is immutable once parsed; the
// runtime resolves names to indices or handles up front and never
// writes back.
type Descriptor struct {
	Scene       string                     `json:"scene"`
	Scenes      map[string]*SceneDesc      `json:"scenes"`
	Nodes       map[string]*NodeDesc       `json:"nodes"`
	Meshes      map[string]*MeshDesc       `json:"meshes"`
	Accessors   map[string]*AccessorDesc   `json:"accessors"`
	BufferViews map[string]*BufferViewDesc `json:"bufferViews"`
	Buffers     map[string]*BufferDesc     `json:"buffers"`
	Shaders     map[string]*ShaderDesc     `json:"shaders"`
	Programs    map[string]*ProgramDesc    `json:"programs"`
	Techniques  map[string]*TechniqueDesc  `json:"techniques"`
	Materials   map[string]*MaterialDesc   `json:"materials"`
	Images      map[string]*ImageDesc      `json:"images"`
	Samplers    map[string]*SamplerDesc    `json:"samplers"`
	Textures    map[string]*TextureDesc    `json:"textures"`
	Skins       map[string]*SkinDesc       `json:"skins"`
	Animations  map[string]*AnimationDesc  `json:"animations"`
}

// SceneDesc names the root nodes of one scene.
type SceneDesc struct {
	Nodes []string `json:"nodes"`
}

// NodeDesc is one node of the descriptor hierarchy. The local
// transform is either Matrix or the translation/rotation/scale triple;
// Rotation is axis-angle (x, y, z, angle in radians).
type NodeDesc struct {
	Children     []string          `json:"children"`
	Matrix       *[16]float32      `json:"matrix"`
	Translation  *[3]float32       `json:"translation"`
	Rotation     *[4]float32       `json:"rotation"`
	Scale        *[3]float32       `json:"scale"`
	Meshes       []string          `json:"meshes"`
	JointID      string            `json:"jointId"`
	Camera       string            `json:"camera"`
	Light        string            `json:"light"`
	InstanceSkin *InstanceSkinDesc `json:"instanceSkin"`
}

// InstanceSkinDesc attaches a skin to a node: which skin, which
// skeleton roots to search for joints, and which meshes are skinned.
type InstanceSkinDesc struct {
	Skin      string   `json:"skin"`
	Skeletons []string `json:"skeletons"`
	Meshes    []string `json:"meshes"`
}

// MeshDesc is a list of primitives.
type MeshDesc struct {
	Primitives []PrimitiveDesc `json:"primitives"`
}

// PrimitiveDesc is one drawable primitive: attribute accessors keyed
// by semantic, an optional index accessor, and a material.
type PrimitiveDesc struct {
	Attributes map[string]string `json:"attributes"`
	Indices    string            `json:"indices"`
	Material   string            `json:"material"`
	// Mode is a pointer so an explicit 0 (points) survives parsing;
	// only an absent mode defaults to triangles.
	Mode *int `json:"mode"`
}

// AccessorDesc describes typed access into a buffer view.
type AccessorDesc struct {
	BufferView    string    `json:"bufferView"`
	ByteOffset    int       `json:"byteOffset"`
	ByteStride    int       `json:"byteStride"`
	ComponentType int       `json:"componentType"`
	Count         int       `json:"count"`
	Type          string    `json:"type"`
	Min           []float32 `json:"min"`
	Max           []float32 `json:"max"`
}

// BufferViewDesc is a byte range of a buffer with an optional GPU
// target hint.
type BufferViewDesc struct {
	Buffer     string `json:"buffer"`
	ByteOffset int    `json:"byteOffset"`
	ByteLength int    `json:"byteLength"`
	Target     int    `json:"target"`
}

// Buffer view targets, matching the GL enum.
const (
	TargetArrayBuffer        = 34962
	TargetElementArrayBuffer = 34963
)

// BufferDesc names an external binary payload.
type BufferDesc struct {
	URI        string `json:"uri"`
	ByteLength int    `json:"byteLength"`
}

// ShaderDesc names an external shader source payload.
type ShaderDesc struct {
	URI  string `json:"uri"`
	Type int    `json:"type"`
}

// Shader types, matching the GL enum.
const (
	ShaderTypeVertex   = 35633
	ShaderTypeFragment = 35632
)

// ProgramDesc links two shaders and declares the vertex attributes the
// program consumes, in location order.
type ProgramDesc struct {
	VertexShader   string   `json:"vertexShader"`
	FragmentShader string   `json:"fragmentShader"`
	Attributes     []string `json:"attributes"`
}

// TechniqueDesc binds a program to named parameters and fixed-function
// state.
type TechniqueDesc struct {
	Program    string                         `json:"program"`
	Attributes map[string]string              `json:"attributes"`
	Uniforms   map[string]string              `json:"uniforms"`
	Parameters map[string]*TechniqueParameter `json:"parameters"`
	States     *TechniqueStates               `json:"states"`
}

// TechniqueParameter describes one technique parameter: its type, an
// optional semantic (resolved per frame), an optional source node, and
// an optional default value.
type TechniqueParameter struct {
	Type     int       `json:"type"`
	Semantic string    `json:"semantic"`
	Node     string    `json:"node"`
	Value    []float32 `json:"value"`
	Texture  string    `json:"texture"`
}

// Parameter type for texture samplers, matching the GL enum.
const ParamTypeSampler2D = 35678

// TechniqueStates lists GL capabilities to enable plus blend factors.
type TechniqueStates struct {
	Enable         []int `json:"enable"`
	BlendSrcFactor int   `json:"blendSrcFactor"`
	BlendDstFactor int   `json:"blendDstFactor"`
	DepthMask      *bool `json:"depthMask"`
}

// Capability enums accepted in TechniqueStates.Enable.
const (
	StateCullFace  = 2884
	StateDepthTest = 2929
	StateBlend     = 3042
)

// MaterialDesc instantiates a technique with parameter values.
type MaterialDesc struct {
	Technique string                    `json:"technique"`
	Values    map[string]*MaterialValue `json:"values"`
}

// MaterialValue is either numeric data or a texture reference.
type MaterialValue struct {
	Numbers []float32 `json:"numbers"`
	Texture string    `json:"texture"`
}

// ImageDesc names an external image payload.
type ImageDesc struct {
	URI string `json:"uri"`
}

// SamplerDesc holds texture sampling parameters.
type SamplerDesc struct {
	MagFilter int `json:"magFilter"`
	MinFilter int `json:"minFilter"`
	WrapS     int `json:"wrapS"`
	WrapT     int `json:"wrapT"`
}

// Sampler parameter defaults, matching the GL enum.
const (
	FilterLinear = 9729
	WrapRepeat   = 10497
)

// TextureDesc binds an image to a sampler.
type TextureDesc struct {
	Source  string `json:"source"`
	Sampler string `json:"sampler"`
}

// SkinDesc declares a skin: joint names, inverse bind matrices, and an
// optional bind shape matrix.
type SkinDesc struct {
	BindShapeMatrix     *[16]float32 `json:"bindShapeMatrix"`
	InverseBindMatrices string       `json:"inverseBindMatrices"`
	JointNames          []string     `json:"jointNames"`
}

// AnimationDesc declares one animation clip: channels targeting node
// properties, parameters naming keyframe accessors, and samplers
// pairing inputs with outputs.
type AnimationDesc struct {
	Channels   []AnimationChannelDesc           `json:"channels"`
	Parameters map[string]string                `json:"parameters"`
	Samplers   map[string]*AnimationSamplerDesc `json:"samplers"`
}

// AnimationChannelDesc routes one sampler to one node property.
type AnimationChannelDesc struct {
	Sampler string              `json:"sampler"`
	Target  AnimationTargetDesc `json:"target"`
}

// AnimationTargetDesc names the animated node and property path
// (translation, rotation, scale, or matrix).
type AnimationTargetDesc struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// AnimationSamplerDesc pairs a keyframe input parameter with an output
// parameter and an interpolation mode.
type AnimationSamplerDesc struct {
	Input         string `json:"input"`
	Output        string `json:"output"`
	Interpolation string `json:"interpolation"`
}
