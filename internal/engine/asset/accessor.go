package asset

import (
	"encoding/binary"
	"fmt"
	gomath "math"

	"github.com/Faultbox/asgard/pkg/math"
)

// accessorData returns the raw bytes backing an accessor together with
// its element stride. Only valid after the accessor's source buffer
// has been fetched.
func (m *Model) accessorData(accName string) ([]byte, *AccessorDesc, error) {
	acc, ok := m.desc.Accessors[accName]
	if !ok {
		return nil, nil, fmt.Errorf("undefined accessor %q", accName)
	}
	view, ok := m.desc.BufferViews[acc.BufferView]
	if !ok {
		return nil, nil, fmt.Errorf("accessor %q: undefined bufferView %q", accName, acc.BufferView)
	}
	raw, ok := m.bufferData[view.Buffer]
	if !ok {
		return nil, nil, fmt.Errorf("accessor %q: buffer %q not fetched", accName, view.Buffer)
	}
	start := view.ByteOffset + acc.ByteOffset
	end := view.ByteOffset + view.ByteLength
	if start > len(raw) || end > len(raw) || start > end {
		return nil, nil, fmt.Errorf("accessor %q: range [%d:%d] outside buffer %q (%d bytes)", accName, start, end, view.Buffer, len(raw))
	}
	return raw[start:end], acc, nil
}

// readFloatElements reads an accessor's elements as float32 scalars,
// componentsPerElement at a time, honoring the element stride.
func (m *Model) readFloatElements(accName string) ([][]float32, error) {
	data, acc, err := m.accessorData(accName)
	if err != nil {
		return nil, err
	}
	if acc.ComponentType != 5126 {
		return nil, fmt.Errorf("accessor %q: component type %d is not float", accName, acc.ComponentType)
	}
	comps := componentCount(acc.Type)
	if comps == 0 {
		return nil, fmt.Errorf("accessor %q: unknown type %q", accName, acc.Type)
	}

	out := make([][]float32, acc.Count)
	for i := 0; i < acc.Count; i++ {
		base := i * acc.ByteStride
		if base+comps*4 > len(data) {
			return nil, fmt.Errorf("accessor %q: element %d out of range", accName, i)
		}
		elem := make([]float32, comps)
		for c := 0; c < comps; c++ {
			bits := binary.LittleEndian.Uint32(data[base+c*4:])
			elem[c] = gomath.Float32frombits(bits)
		}
		out[i] = elem
	}
	return out, nil
}

// readScalars reads a SCALAR float accessor.
func (m *Model) readScalars(accName string) ([]float32, error) {
	elems, err := m.readFloatElements(accName)
	if err != nil {
		return nil, err
	}
	out := make([]float32, len(elems))
	for i, e := range elems {
		out[i] = e[0]
	}
	return out, nil
}

// readVec3s reads a VEC3 float accessor.
func (m *Model) readVec3s(accName string) ([]math.Vec3, error) {
	elems, err := m.readFloatElements(accName)
	if err != nil {
		return nil, err
	}
	out := make([]math.Vec3, len(elems))
	for i, e := range elems {
		if len(e) < 3 {
			return nil, fmt.Errorf("accessor %q: element %d is not VEC3", accName, i)
		}
		out[i] = math.Vec3{X: e[0], Y: e[1], Z: e[2]}
	}
	return out, nil
}

// readQuats reads a VEC4 float accessor as quaternions (x, y, z, w).
func (m *Model) readQuats(accName string) ([]math.Quat, error) {
	elems, err := m.readFloatElements(accName)
	if err != nil {
		return nil, err
	}
	out := make([]math.Quat, len(elems))
	for i, e := range elems {
		if len(e) < 4 {
			return nil, fmt.Errorf("accessor %q: element %d is not VEC4", accName, i)
		}
		out[i] = math.Quat{X: e[0], Y: e[1], Z: e[2], W: e[3]}
	}
	return out, nil
}

// readMat4s reads a MAT4 float accessor.
func (m *Model) readMat4s(accName string) ([]math.Mat4, error) {
	elems, err := m.readFloatElements(accName)
	if err != nil {
		return nil, err
	}
	out := make([]math.Mat4, len(elems))
	for i, e := range elems {
		if len(e) < 16 {
			return nil, fmt.Errorf("accessor %q: element %d is not MAT4", accName, i)
		}
		copy(out[i][:], e)
	}
	return out, nil
}
