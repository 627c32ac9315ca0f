package gfx

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/asgard/pkg/math"
)

// GLDevice implements Device on an OpenGL 4.1 core context. The
// context must be current on the calling thread.
type GLDevice struct{}

// NewGLDevice initializes OpenGL bindings and returns a device.
func NewGLDevice() (*GLDevice, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	return &GLDevice{}, nil
}

type glBuffer struct {
	id     uint32
	target uint32
}

func (b *glBuffer) Destroy() {
	if b.id != 0 {
		gl.DeleteBuffers(1, &b.id)
		b.id = 0
	}
}

func (d *GLDevice) createBuffer(data []byte, target uint32) (Buffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("creating buffer: empty data")
	}
	b := &glBuffer{target: target}
	gl.GenBuffers(1, &b.id)
	gl.BindBuffer(target, b.id)
	gl.BufferData(target, len(data), gl.Ptr(data), gl.STATIC_DRAW)
	gl.BindBuffer(target, 0)
	return b, nil
}

// CreateVertexBuffer uploads vertex data to a GL_ARRAY_BUFFER.
func (d *GLDevice) CreateVertexBuffer(data []byte) (Buffer, error) {
	return d.createBuffer(data, gl.ARRAY_BUFFER)
}

// CreateIndexBuffer uploads index data to a GL_ELEMENT_ARRAY_BUFFER.
func (d *GLDevice) CreateIndexBuffer(data []byte) (Buffer, error) {
	return d.createBuffer(data, gl.ELEMENT_ARRAY_BUFFER)
}

type glProgram struct {
	id uint32
}

func (p *glProgram) Destroy() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

// CreateProgram compiles and links a shader program. Attribute names
// are bound to locations in slice order.
func (d *GLDevice) CreateProgram(vertexSrc, fragmentSrc string, attributes []string) (Program, error) {
	vert, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(vert)

	frag, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(frag)

	program := gl.CreateProgram()
	gl.AttachShader(program, vert)
	gl.AttachShader(program, frag)
	for i, name := range attributes {
		gl.BindAttribLocation(program, uint32(i), gl.Str(name+"\x00"))
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return nil, fmt.Errorf("link: %s", string(log))
	}

	return &glProgram{id: program}, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log))
	}

	return shader, nil
}

type glSampler struct {
	id uint32
}

func (s *glSampler) Destroy() {
	if s.id != 0 {
		gl.DeleteSamplers(1, &s.id)
		s.id = 0
	}
}

// CreateSampler creates a sampler object from filter and wrap modes.
func (d *GLDevice) CreateSampler(desc SamplerDesc) (Sampler, error) {
	s := &glSampler{}
	gl.GenSamplers(1, &s.id)
	gl.SamplerParameteri(s.id, gl.TEXTURE_MAG_FILTER, int32(desc.MagFilter))
	gl.SamplerParameteri(s.id, gl.TEXTURE_MIN_FILTER, int32(desc.MinFilter))
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_S, int32(desc.WrapS))
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_T, int32(desc.WrapT))
	return s, nil
}

type glTexture struct {
	id      uint32
	sampler *glSampler
}

func (t *glTexture) Destroy() {
	if t.id != 0 {
		gl.DeleteTextures(1, &t.id)
		t.id = 0
	}
}

// CreateTexture2D uploads RGBA8 pixels as a 2D texture.
func (d *GLDevice) CreateTexture2D(desc TextureDesc) (Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("creating texture: invalid size %dx%d", desc.Width, desc.Height)
	}
	if len(desc.Pixels) < desc.Width*desc.Height*4 {
		return nil, fmt.Errorf("creating texture: pixel data too short for %dx%d", desc.Width, desc.Height)
	}

	t := &glTexture{}
	if s, ok := desc.Sampler.(*glSampler); ok {
		t.sampler = s
	}
	gl.GenTextures(1, &t.id)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(desc.Width), int32(desc.Height),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(desc.Pixels))
	if desc.Mipmap {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t, nil
}

type glVertexArray struct {
	id         uint32
	indexCount int
}

func (v *glVertexArray) Destroy() {
	if v.id != 0 {
		gl.DeleteVertexArrays(1, &v.id)
		v.id = 0
	}
}

// CreateVertexArray records attribute bindings and the index buffer
// into a vertex array object.
func (d *GLDevice) CreateVertexArray(desc VertexArrayDesc) (VertexArray, error) {
	v := &glVertexArray{}
	gl.GenVertexArrays(1, &v.id)
	gl.BindVertexArray(v.id)

	for _, attr := range desc.Attributes {
		buf, ok := attr.Buffer.(*glBuffer)
		if !ok || buf.id == 0 {
			gl.BindVertexArray(0)
			gl.DeleteVertexArrays(1, &v.id)
			return nil, fmt.Errorf("creating vertex array: attribute %d has no GL buffer", attr.Index)
		}
		gl.BindBuffer(gl.ARRAY_BUFFER, buf.id)
		gl.EnableVertexAttribArray(attr.Index)
		gl.VertexAttribPointerWithOffset(attr.Index, int32(attr.ComponentCount),
			uint32(attr.ComponentType), attr.Normalized, int32(attr.Stride), uintptr(attr.Offset))
	}

	if desc.IndexBuffer != nil {
		buf, ok := desc.IndexBuffer.(*glBuffer)
		if !ok || buf.id == 0 {
			gl.BindVertexArray(0)
			gl.DeleteVertexArrays(1, &v.id)
			return nil, fmt.Errorf("creating vertex array: index buffer is not a GL buffer")
		}
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf.id)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, 0)
	return v, nil
}

type glRenderState struct {
	desc RenderStateDesc
}

func (r *glRenderState) Destroy() {}

// CreateRenderState captures fixed-function state for later Apply.
func (d *GLDevice) CreateRenderState(desc RenderStateDesc) (RenderState, error) {
	return &glRenderState{desc: desc}, nil
}

// Apply sets the GL fixed-function state for a render state handle.
func (d *GLDevice) Apply(state RenderState) {
	rs, ok := state.(*glRenderState)
	if !ok {
		return
	}
	setCap(gl.CULL_FACE, rs.desc.CullFace)
	setCap(gl.DEPTH_TEST, rs.desc.DepthTest)
	gl.DepthMask(rs.desc.DepthMask)
	setCap(gl.BLEND, rs.desc.Blend)
	if rs.desc.Blend {
		gl.BlendFunc(uint32(rs.desc.BlendSrcFactor), uint32(rs.desc.BlendDstFactor))
	}
}

func setCap(cap uint32, enabled bool) {
	if enabled {
		gl.Enable(cap)
	} else {
		gl.Disable(cap)
	}
}

// Draw executes one draw command. Semantic uniforms are resolved from
// the command's model matrix and the given view and projection;
// node-matrix uniforms must already be baked into Value by the caller.
func (d *GLDevice) Draw(cmd *DrawCommand, view, projection [16]float32) {
	va, ok := cmd.VertexArray.(*glVertexArray)
	if !ok || va.id == 0 {
		return
	}
	prog, ok := cmd.Program.(*glProgram)
	if !ok || prog.id == 0 {
		return
	}

	if cmd.RenderState != nil {
		d.Apply(cmd.RenderState)
	}
	gl.UseProgram(prog.id)

	unit := int32(0)
	for i := range cmd.Uniforms {
		u := &cmd.Uniforms[i]
		loc := gl.GetUniformLocation(prog.id, gl.Str(u.Name+"\x00"))
		if loc < 0 {
			continue
		}
		if u.Source == UniformTexture {
			if tex, ok := u.Texture.(*glTexture); ok && tex.id != 0 {
				gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
				gl.BindTexture(gl.TEXTURE_2D, tex.id)
				if tex.sampler != nil {
					gl.BindSampler(uint32(unit), tex.sampler.id)
				}
				gl.Uniform1i(loc, unit)
				unit++
			}
			continue
		}
		if u.Source == UniformSemantic {
			setUniform(loc, ResolveSemantic(cmd, math.Mat4(view), math.Mat4(projection), u.Semantic))
			continue
		}
		setUniform(loc, u.Value)
	}

	gl.BindVertexArray(va.id)
	if cmd.Indexed {
		gl.DrawElementsWithOffset(uint32(cmd.Mode), int32(cmd.Count),
			uint32(cmd.IndexType), uintptr(cmd.Offset))
	} else {
		gl.DrawArrays(uint32(cmd.Mode), int32(cmd.Offset), int32(cmd.Count))
	}
	gl.BindVertexArray(0)
}

func setUniform(loc int32, value []float32) {
	switch len(value) {
	case 1:
		gl.Uniform1f(loc, value[0])
	case 2:
		gl.Uniform2f(loc, value[0], value[1])
	case 3:
		gl.Uniform3f(loc, value[0], value[1], value[2])
	case 4:
		gl.Uniform4f(loc, value[0], value[1], value[2], value[3])
	case 16:
		gl.UniformMatrix4fv(loc, 1, false, &value[0])
	default:
		if len(value) > 0 && len(value)%16 == 0 {
			// Matrix array (joint matrices).
			gl.UniformMatrix4fv(loc, int32(len(value)/16), false, &value[0])
		}
	}
}
