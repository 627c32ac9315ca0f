package asset

import (
	"github.com/Faultbox/asgard/internal/engine/gfx"
	"github.com/Faultbox/asgard/pkg/math"
)

// propagateVisit is one pending node of the propagation walk: the node
// plus its parent's asset-space transform and dirty state at push time.
type propagateVisit struct {
	node        int
	parent      math.Mat4
	parentDirty bool
}

// propagateTransforms walks the scene DAG once, recomputing asset-space
// transforms along dirty paths and refreshing world matrices and bounds
// for every node whose result changed. Nodes reachable through several
// parents are computed once per frame, on first visit; later visits
// only widen the node's ancestor-dirty flag for its own subtree walk,
// which already happened. The resulting transform follows the first
// parent reached, an approximation kept because multi-parent nodes in
// practice share identical paths to the root.
//
// Returns true when any node's transform was recomputed.
func (m *Model) propagateTransforms(modelChanged bool) bool {
	m.frameStamp++
	frame := m.frameStamp
	m.touched = m.touched[:0]
	m.visitList = m.visitList[:0]
	recomputedAny := false

	stack := m.nodeStack[:0]
	for _, root := range m.sceneRoots {
		stack = append(stack, propagateVisit{node: root, parent: math.Identity(), parentDirty: false})
	}

	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &m.nodes[v.node]

		if n.visitFrame == frame {
			n.anyAncestorDirty = n.anyAncestorDirty || v.parentDirty
			continue
		}
		n.visitFrame = frame
		n.anyAncestorDirty = v.parentDirty
		m.visitList = append(m.visitList, v.node)

		recompute := n.dirty || n.anyAncestorDirty || m.justLoaded
		if recompute {
			n.transformToRoot = v.parent.Mul(n.localMatrix())
			recomputedAny = true
		}

		if recompute || modelChanged || m.justLoaded {
			world := m.computedModelMatrix.Mul(n.transformToRoot)
			n.computedMatrix = world
			for _, rec := range n.records {
				rec.command.ModelMatrix = world
				if rec.pickCommand != nil {
					rec.pickCommand.ModelMatrix = world
				}
				if rec.hasBounds {
					sphere := rec.bounds.Transform(world)
					rec.command.BoundingVolume = sphere
					if rec.pickCommand != nil {
						rec.pickCommand.BoundingVolume = sphere
					}
					m.touched = append(m.touched, sphere)
				}
			}
		}

		childDirty := n.dirty || n.anyAncestorDirty
		for _, child := range n.children {
			stack = append(stack, propagateVisit{node: child, parent: n.transformToRoot, parentDirty: childDirty})
		}
	}
	m.nodeStack = stack[:0]

	m.aggregateBounds()
	m.clearDirtyFlags()
	return recomputedAny
}

// aggregateBounds folds the spheres touched this frame into the model
// bound: center is the mean of touched centers, radius the largest
// center distance plus that sphere's radius. Only spheres refreshed
// this frame contribute; an unchanged model keeps its previous bound.
func (m *Model) aggregateBounds() {
	if len(m.touched) == 0 {
		return
	}
	var center math.Vec3
	for _, s := range m.touched {
		center = center.Add(s.Center)
	}
	center = center.Scale(1 / float32(len(m.touched)))

	var radius float32
	for _, s := range m.touched {
		if r := center.Distance(s.Center) + s.Radius; r > radius {
			radius = r
		}
	}
	m.bounds = math.Sphere{Center: center, Radius: radius}
}

// refreshNodeUniforms copies world matrices of referenced nodes into
// the value slot of node-matrix uniform bindings so the render device
// sees them as plain values.
func (m *Model) refreshNodeUniforms() {
	for i := range m.nodes {
		for _, rec := range m.nodes[i].records {
			// The pick variant shares the binding slice, so one
			// write covers both commands.
			for j := range rec.command.Uniforms {
				u := &rec.command.Uniforms[j]
				if u.Source != gfx.UniformNodeMatrix || u.NodeIndex < 0 {
					continue
				}
				mat := m.nodes[u.NodeIndex].computedMatrix
				u.Value = append(u.Value[:0], mat[:]...)
			}
		}
	}
}

// clearDirtyFlags resets dirty state on every node visited this frame
// so the next frame starts clean.
func (m *Model) clearDirtyFlags() {
	for _, idx := range m.visitList {
		m.nodes[idx].dirty = false
		m.nodes[idx].anyAncestorDirty = false
	}
}
