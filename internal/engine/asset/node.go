package asset

import (
	"fmt"
	"sort"

	"github.com/Faultbox/asgard/internal/engine/gfx"
	"github.com/Faultbox/asgard/pkg/math"
)

// runtimeNode is one node of the runtime scene graph. Nodes live in
// the model's arena and address each other by index; the graph is a
// DAG, so a node may record several parents.
type runtimeNode struct {
	name  string
	index int

	// Local transform: exactly one representation is live, selected at
	// construction and changed only when an animation channel or the
	// public handle overwrites the other representation's fields.
	useMatrix   bool
	matrix      math.Mat4
	translation math.Vec3
	rotation    math.Quat
	scale       math.Vec3

	children []int
	parents  []int

	// transformToRoot is the node's transform in asset space, cached
	// between frames and recomputed only along dirty paths.
	transformToRoot math.Mat4
	// computedMatrix is the composed world matrix, refreshed whenever
	// the node or the model transform changes.
	computedMatrix math.Mat4

	dirty            bool
	anyAncestorDirty bool
	visitFrame       uint64
	constructed      bool

	records []*renderRecord
	jointID string
	skin    *skinBinding
}

// localMatrix returns the node's local transform as a matrix.
func (n *runtimeNode) localMatrix() math.Mat4 {
	if n.useMatrix {
		return n.matrix
	}
	return math.Compose(n.translation, n.rotation, n.scale)
}

// renderRecord binds one mesh primitive to its draw state. The record
// itself is immutable after construction; the referenced commands'
// per-frame fields (model matrix, bounds) are maintained by the
// propagation pass.
type renderRecord struct {
	nodeIndex   int
	bounds      math.Sphere
	hasBounds   bool
	command     *gfx.DrawCommand
	pickCommand *gfx.DrawCommand
}

// Node is the public handle to a runtime node, valid once the model is
// loaded. Mutating its transform fields is the supported way to drive
// a node outside clip animation; every mutation marks the node dirty
// so the next update recomputes dependent state.
type Node struct {
	model *Model
	index int
}

// Name returns the descriptor name of the node.
func (n *Node) Name() string {
	return n.model.nodes[n.index].name
}

// SetTranslation sets the node's local translation.
func (n *Node) SetTranslation(v math.Vec3) {
	rn := &n.model.nodes[n.index]
	rn.useMatrix = false
	rn.translation = v
	rn.dirty = true
}

// SetRotation sets the node's local rotation.
func (n *Node) SetRotation(q math.Quat) {
	rn := &n.model.nodes[n.index]
	rn.useMatrix = false
	rn.rotation = q
	rn.dirty = true
}

// SetScale sets the node's local scale.
func (n *Node) SetScale(v math.Vec3) {
	rn := &n.model.nodes[n.index]
	rn.useMatrix = false
	rn.scale = v
	rn.dirty = true
}

// SetMatrix replaces the node's local transform with an explicit
// matrix.
func (n *Node) SetMatrix(m math.Mat4) {
	rn := &n.model.nodes[n.index]
	rn.useMatrix = true
	rn.matrix = m
	rn.dirty = true
}

// Translation returns the node's local translation. Zero for
// matrix-represented nodes.
func (n *Node) Translation() math.Vec3 {
	return n.model.nodes[n.index].translation
}

// Rotation returns the node's local rotation.
func (n *Node) Rotation() math.Quat {
	return n.model.nodes[n.index].rotation
}

// Scale returns the node's local scale.
func (n *Node) Scale() math.Vec3 {
	return n.model.nodes[n.index].scale
}

// WorldMatrix returns the node's composed world matrix as of the last
// update.
func (n *Node) WorldMatrix() math.Mat4 {
	rn := &n.model.nodes[n.index]
	if len(rn.records) > 0 {
		return rn.records[0].command.ModelMatrix
	}
	return rn.computedMatrix
}

// allocateNodes builds the node arena, one runtime node per descriptor
// node, with stable indices in name order. Transforms and edges are
// resolved later by the runtime-node stage.
func (m *Model) allocateNodes() {
	names := make([]string, 0, len(m.desc.Nodes))
	for name := range m.desc.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	m.nodes = make([]runtimeNode, len(names))
	m.nodeIndex = make(map[string]int, len(names))
	for i, name := range names {
		m.nodes[i] = runtimeNode{
			name:            name,
			index:           i,
			transformToRoot: math.Identity(),
			computedMatrix:  math.Identity(),
			rotation:        math.QuatIdentity(),
			scale:           math.Vec3{X: 1, Y: 1, Z: 1},
			jointID:         m.desc.Nodes[name].JointID,
		}
		m.nodeIndex[name] = i
	}
}

// createRuntimeNodes is the scene-graph construction stage. It walks
// the active scene's node DAG with an explicit stack, records edges on
// every visit (a node may be reached through several parents), and on
// a node's first visit resolves its transform representation and
// builds one render record per primitive.
func (m *Model) createRuntimeNodes() error {
	scene, ok := m.desc.Scenes[m.desc.Scene]
	if !ok {
		// An asset with no scene has nothing to draw; an empty graph
		// is valid.
		return nil
	}

	type visit struct {
		node   int
		parent int
	}
	stack := make([]visit, 0, len(m.nodes))
	for _, rootName := range scene.Nodes {
		idx, ok := m.nodeIndex[rootName]
		if !ok {
			return fmt.Errorf("scene %q references undefined node %q", m.desc.Scene, rootName)
		}
		m.sceneRoots = append(m.sceneRoots, idx)
		stack = append(stack, visit{node: idx, parent: -1})
	}

	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &m.nodes[v.node]

		if v.parent >= 0 {
			m.nodes[v.parent].children = append(m.nodes[v.parent].children, v.node)
			n.parents = append(n.parents, v.parent)
		}

		if !n.constructed {
			n.constructed = true
			if err := m.constructNode(n); err != nil {
				return err
			}
		}

		desc := m.desc.Nodes[n.name]
		for _, childName := range desc.Children {
			stack = append(stack, visit{node: m.nodeIndex[childName], parent: v.node})
		}
	}
	return nil
}

// constructNode resolves a node's local transform from the descriptor
// and builds its render records.
func (m *Model) constructNode(n *runtimeNode) error {
	desc := m.desc.Nodes[n.name]

	if desc.Matrix != nil {
		n.useMatrix = true
		n.matrix = math.Mat4(*desc.Matrix)
	} else {
		n.useMatrix = false
		n.translation = math.FromArray(*desc.Translation)
		axis := math.Vec3{X: desc.Rotation[0], Y: desc.Rotation[1], Z: desc.Rotation[2]}
		n.rotation = math.QuatFromAxisAngle(axis.Normalize(), desc.Rotation[3])
		n.scale = math.FromArray(*desc.Scale)
	}

	// Primitives come from the node's own mesh list or, for skinned
	// nodes, from the skin instance's source meshes.
	meshNames := desc.Meshes
	if desc.InstanceSkin != nil {
		meshNames = desc.InstanceSkin.Meshes
	}
	for _, meshName := range meshNames {
		mesh, ok := m.desc.Meshes[meshName]
		if !ok {
			return fmt.Errorf("node %q references undefined mesh %q", n.name, meshName)
		}
		for i := range mesh.Primitives {
			rec, err := m.buildRenderRecord(n, meshName, i, &mesh.Primitives[i])
			if err != nil {
				return err
			}
			n.records = append(n.records, rec)
		}
	}
	return nil
}

// buildRenderRecord creates the record and draw commands for one
// primitive of a node.
func (m *Model) buildRenderRecord(n *runtimeNode, meshName string, primIndex int, prim *PrimitiveDesc) (*renderRecord, error) {
	rec := &renderRecord{nodeIndex: n.index}

	// Local bounding volume from the position accessor's min/max when
	// the descriptor carries them.
	if posAcc, ok := prim.Attributes["POSITION"]; ok {
		acc := m.desc.Accessors[posAcc]
		if len(acc.Min) >= 3 && len(acc.Max) >= 3 {
			rec.bounds = math.SphereFromMinMax(
				math.Vec3{X: acc.Min[0], Y: acc.Min[1], Z: acc.Min[2]},
				math.Vec3{X: acc.Max[0], Y: acc.Max[1], Z: acc.Max[2]},
			)
			rec.hasBounds = true
		}
	}

	cmd := &gfx.DrawCommand{
		VertexArray: m.vertexArrays[primitiveKey(meshName, primIndex)],
		Mode:        gfx.PrimitiveMode(*prim.Mode),
		ModelMatrix: math.Identity(),
	}

	if prim.Indices != "" {
		acc := m.desc.Accessors[prim.Indices]
		cmd.Indexed = true
		cmd.Count = acc.Count
		cmd.Offset = acc.ByteOffset
		cmd.IndexType = gfx.ComponentType(acc.ComponentType)
	} else if posAcc, ok := prim.Attributes["POSITION"]; ok {
		cmd.Count = m.desc.Accessors[posAcc].Count
	}

	if prim.Material != "" {
		material, ok := m.desc.Materials[prim.Material]
		if !ok {
			return nil, fmt.Errorf("mesh %q references undefined material %q", meshName, prim.Material)
		}
		if technique, ok := m.desc.Techniques[material.Technique]; ok {
			cmd.Program = m.programs[technique.Program]
			cmd.RenderState = m.renderStates[material.Technique]
		}
		// Each command gets its own copy of the material's bindings so
		// per-node sources can be resolved independently.
		bindings := m.uniformMaps[prim.Material]
		cmd.Uniforms = make([]gfx.UniformBinding, len(bindings))
		copy(cmd.Uniforms, bindings)
	}

	if n.skin != nil {
		cmd.JointMatrices = n.skin.jointMatrices
	}

	rec.command = cmd
	m.commands = append(m.commands, cmd)

	if m.pickAllocator != nil {
		pick := *cmd
		pick.PickID = m.pickAllocator.Allocate()
		rec.pickCommand = &pick
		m.commands = append(m.commands, rec.pickCommand)
	}

	return rec, nil
}

func primitiveKey(meshName string, primIndex int) string {
	return fmt.Sprintf("%s/%d", meshName, primIndex)
}
