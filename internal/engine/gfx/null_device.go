package gfx

import "fmt"

// NullDevice implements Device without a graphics context. It hands out
// inert handles and counts create/destroy calls, which makes resource
// ownership testable.
type NullDevice struct {
	Created   int
	Destroyed int
	// FailPrograms makes CreateProgram return an error, for testing
	// creation failure paths.
	FailPrograms bool
}

// NewNullDevice returns an empty null device.
func NewNullDevice() *NullDevice {
	return &NullDevice{}
}

type nullHandle struct {
	device    *NullDevice
	destroyed bool
}

func (h *nullHandle) Destroy() {
	if !h.destroyed {
		h.destroyed = true
		h.device.Destroyed++
	}
}

func (d *NullDevice) handle() *nullHandle {
	d.Created++
	return &nullHandle{device: d}
}

func (d *NullDevice) CreateVertexBuffer(data []byte) (Buffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("creating buffer: empty data")
	}
	return d.handle(), nil
}

func (d *NullDevice) CreateIndexBuffer(data []byte) (Buffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("creating buffer: empty data")
	}
	return d.handle(), nil
}

func (d *NullDevice) CreateProgram(vertexSrc, fragmentSrc string, attributes []string) (Program, error) {
	if d.FailPrograms {
		return nil, fmt.Errorf("program creation disabled")
	}
	return d.handle(), nil
}

func (d *NullDevice) CreateSampler(desc SamplerDesc) (Sampler, error) {
	return d.handle(), nil
}

func (d *NullDevice) CreateTexture2D(desc TextureDesc) (Texture, error) {
	return d.handle(), nil
}

func (d *NullDevice) CreateVertexArray(desc VertexArrayDesc) (VertexArray, error) {
	return d.handle(), nil
}

func (d *NullDevice) CreateRenderState(desc RenderStateDesc) (RenderState, error) {
	return d.handle(), nil
}

// Live returns the number of handles created and not yet destroyed.
func (d *NullDevice) Live() int {
	return d.Created - d.Destroyed
}
