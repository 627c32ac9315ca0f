package asset

import (
	"fmt"

	"github.com/Faultbox/asgard/pkg/math"
)

// skinBinding is one resolved skin instance: the skinned node, its
// joints as arena indices, the static bind matrices, and the output
// joint matrix array aliased by the node's draw commands.
type skinBinding struct {
	skinnedNode   int
	joints        []int
	inverseBind   []math.Mat4
	bindShape     math.Mat4
	hasBindShape  bool
	jointMatrices []math.Mat4
}

// createSkins resolves every skin instance. Joint names are looked up
// by searching the descriptor hierarchy below the instance's skeleton
// roots for nodes carrying a matching joint id; a joint name with no
// such node is a malformed asset.
func (m *Model) createSkins() (bool, error) {
	for _, nodeName := range sortedKeys(m.desc.Nodes) {
		inst := m.desc.Nodes[nodeName].InstanceSkin
		if inst == nil {
			continue
		}
		skin, ok := m.desc.Skins[inst.Skin]
		if !ok {
			return false, fmt.Errorf("node %q references undefined skin %q", nodeName, inst.Skin)
		}

		binding := &skinBinding{
			skinnedNode:   m.nodeIndex[nodeName],
			joints:        make([]int, len(skin.JointNames)),
			jointMatrices: make([]math.Mat4, len(skin.JointNames)),
			bindShape:     math.Identity(),
		}
		for i := range binding.jointMatrices {
			binding.jointMatrices[i] = math.Identity()
		}

		if skin.BindShapeMatrix != nil {
			binding.bindShape = math.Mat4(*skin.BindShapeMatrix)
			binding.hasBindShape = !binding.bindShape.IsIdentity()
		}

		if skin.InverseBindMatrices != "" {
			mats, err := m.readMat4s(skin.InverseBindMatrices)
			if err != nil {
				return false, fmt.Errorf("skin %q: %w", inst.Skin, err)
			}
			if len(mats) < len(skin.JointNames) {
				return false, fmt.Errorf("skin %q: %d inverse bind matrices for %d joints", inst.Skin, len(mats), len(skin.JointNames))
			}
			binding.inverseBind = mats
		} else {
			binding.inverseBind = make([]math.Mat4, len(skin.JointNames))
			for i := range binding.inverseBind {
				binding.inverseBind[i] = math.Identity()
			}
		}

		for i, jointName := range skin.JointNames {
			idx, err := m.findJoint(inst.Skeletons, jointName)
			if err != nil {
				return false, fmt.Errorf("skin %q: %w", inst.Skin, err)
			}
			binding.joints[i] = idx
		}

		m.nodes[binding.skinnedNode].skin = binding
		m.skins = append(m.skins, binding)
	}
	return true, nil
}

// findJoint searches the descriptor hierarchy below the given skeleton
// roots for a node whose joint id matches.
func (m *Model) findJoint(skeletons []string, jointID string) (int, error) {
	stack := make([]string, 0, len(skeletons))
	stack = append(stack, skeletons...)
	for len(stack) > 0 {
		name := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node, ok := m.desc.Nodes[name]
		if !ok {
			return 0, fmt.Errorf("skeleton references undefined node %q", name)
		}
		if node.JointID == jointID {
			return m.nodeIndex[name], nil
		}
		stack = append(stack, node.Children...)
	}
	return 0, fmt.Errorf("joint %q not found under skeletons %v", jointID, skeletons)
}

// applySkins recomputes every skin's joint matrix array from current
// node transforms:
//
//	joint[i] = inverse(skinnedToRoot) * jointToRoot[i] * inverseBind[i] * bindShape
//
// The bind shape factor is skipped when it is the identity, which it is
// for most exported assets.
func (m *Model) applySkins() {
	for _, s := range m.skins {
		inverseRoot := m.nodes[s.skinnedNode].transformToRoot.Inverse()
		for i, jointIdx := range s.joints {
			mat := inverseRoot.Mul(m.nodes[jointIdx].transformToRoot).Mul(s.inverseBind[i])
			if s.hasBindShape {
				mat = mat.Mul(s.bindShape)
			}
			s.jointMatrices[i] = mat
		}
	}
}
