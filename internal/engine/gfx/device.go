// Package gfx abstracts GPU resource creation behind a Device
// interface. The scene runtime creates resources through a Device and
// owns the returned handles; it never talks to a graphics API directly.
package gfx

// ComponentType identifies the scalar type of vertex or index data.
// Values match the GL enum so descriptors can be passed through.
type ComponentType int

const (
	ComponentByte          ComponentType = 0x1400
	ComponentUnsignedByte  ComponentType = 0x1401
	ComponentShort         ComponentType = 0x1402
	ComponentUnsignedShort ComponentType = 0x1403
	ComponentUnsignedInt   ComponentType = 0x1405
	ComponentFloat         ComponentType = 0x1406
)

// Size returns the byte size of one component.
func (c ComponentType) Size() int {
	switch c {
	case ComponentByte, ComponentUnsignedByte:
		return 1
	case ComponentShort, ComponentUnsignedShort:
		return 2
	default:
		return 4
	}
}

// Buffer is an opaque GPU buffer handle.
type Buffer interface {
	Destroy()
}

// Program is an opaque shader program handle.
type Program interface {
	Destroy()
}

// Sampler is an opaque texture sampler handle.
type Sampler interface {
	Destroy()
}

// Texture is an opaque 2D texture handle.
type Texture interface {
	Destroy()
}

// VertexArray is an opaque vertex array handle.
type VertexArray interface {
	Destroy()
}

// RenderState is an opaque render state handle.
type RenderState interface {
	Destroy()
}

// SamplerDesc describes a texture sampler.
type SamplerDesc struct {
	MagFilter int
	MinFilter int
	WrapS     int
	WrapT     int
}

// TextureDesc describes a 2D texture upload. Pixels are tightly packed
// RGBA8, row-major, Width*Height*4 bytes.
type TextureDesc struct {
	Width   int
	Height  int
	Pixels  []byte
	Sampler Sampler
	Mipmap  bool
}

// VertexAttribute binds one vertex attribute slot to a region of a
// GPU buffer.
type VertexAttribute struct {
	Index          uint32
	Buffer         Buffer
	ComponentType  ComponentType
	ComponentCount int
	Normalized     bool
	Stride         int
	Offset         int
}

// VertexArrayDesc describes a vertex array: attribute bindings plus an
// optional index buffer.
type VertexArrayDesc struct {
	Attributes    []VertexAttribute
	IndexBuffer   Buffer
	IndexType     ComponentType
	ProgramHandle Program
}

// RenderStateDesc describes fixed-function state for a draw.
type RenderStateDesc struct {
	CullFace       bool
	DepthTest      bool
	DepthMask      bool
	Blend          bool
	BlendSrcFactor int
	BlendDstFactor int
}

// Device creates GPU resources from already-resolved descriptors. Every
// create call returns an opaque handle the caller must destroy exactly
// once. Implementations are not safe for concurrent use; all calls
// happen on the render thread.
type Device interface {
	CreateVertexBuffer(data []byte) (Buffer, error)
	CreateIndexBuffer(data []byte) (Buffer, error)
	CreateProgram(vertexSrc, fragmentSrc string, attributes []string) (Program, error)
	CreateSampler(desc SamplerDesc) (Sampler, error)
	CreateTexture2D(desc TextureDesc) (Texture, error)
	CreateVertexArray(desc VertexArrayDesc) (VertexArray, error)
	CreateRenderState(desc RenderStateDesc) (RenderState, error)
}
