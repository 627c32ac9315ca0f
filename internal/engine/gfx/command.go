package gfx

import "github.com/Faultbox/asgard/pkg/math"

// PrimitiveMode matches the GL draw mode enum.
type PrimitiveMode int

const (
	Points        PrimitiveMode = 0
	Lines         PrimitiveMode = 1
	LineLoop      PrimitiveMode = 2
	LineStrip     PrimitiveMode = 3
	Triangles     PrimitiveMode = 4
	TriangleStrip PrimitiveMode = 5
	TriangleFan   PrimitiveMode = 6
)

// UniformSource tags how a uniform's value is produced each frame.
type UniformSource int

const (
	// UniformConstant uses the fixed Value slice.
	UniformConstant UniformSource = iota
	// UniformSemantic resolves from frame state (view, projection, ...).
	UniformSemantic
	// UniformNodeMatrix reads a scene node's computed world matrix.
	UniformNodeMatrix
	// UniformInstanceOverride uses a per-instance value set by the
	// application, falling back to Value until one is set.
	UniformInstanceOverride
	// UniformTexture binds a texture unit.
	UniformTexture
)

// Semantic names for UniformSemantic bindings.
const (
	SemanticModel           = "MODEL"
	SemanticView            = "VIEW"
	SemanticProjection      = "PROJECTION"
	SemanticModelView       = "MODELVIEW"
	SemanticModelViewProj   = "MODELVIEWPROJECTION"
	SemanticModelInverse    = "MODELINVERSE"
	SemanticJointMatrix     = "JOINTMATRIX"
	SemanticModelViewInvTra = "MODELVIEWINVERSETRANSPOSE"
)

// UniformBinding describes one uniform of a draw command as a tagged
// variant rather than a captured closure, so bindings are inert data
// until evaluated.
type UniformBinding struct {
	Name     string
	Source   UniformSource
	Semantic string
	Value    []float32
	Texture  Texture
	// NodeIndex addresses the source scene node for UniformNodeMatrix.
	NodeIndex int
}

// ResolveSemantic computes the value of a semantic uniform for one
// draw command given the frame's view and projection matrices.
// Unknown semantics resolve to the model matrix.
func ResolveSemantic(cmd *DrawCommand, view, projection math.Mat4, semantic string) []float32 {
	model := cmd.ModelMatrix
	switch semantic {
	case SemanticModel:
		return model[:]
	case SemanticView:
		return view[:]
	case SemanticProjection:
		return projection[:]
	case SemanticModelView:
		mv := view.Mul(model)
		return mv[:]
	case SemanticModelViewProj:
		mvp := projection.Mul(view).Mul(model)
		return mvp[:]
	case SemanticModelInverse:
		inv := model.Inverse()
		return inv[:]
	case SemanticModelViewInvTra:
		it := view.Mul(model).Inverse().Transpose()
		return it[:]
	case SemanticJointMatrix:
		out := make([]float32, 0, len(cmd.JointMatrices)*16)
		for i := range cmd.JointMatrices {
			out = append(out, cmd.JointMatrices[i][:]...)
		}
		return out
	}
	return model[:]
}

// DrawCommand is one renderable unit: geometry, state, uniforms, and
// the per-frame transform and bounds maintained by the scene runtime.
type DrawCommand struct {
	VertexArray   VertexArray
	Program       Program
	RenderState   RenderState
	Uniforms      []UniformBinding
	Mode          PrimitiveMode
	Count         int
	Offset        int
	Indexed       bool
	IndexType     ComponentType
	ModelMatrix   math.Mat4
	BoundingVolume math.Sphere
	// JointMatrices aliases the owning skin's output array when the
	// command draws skinned geometry.
	JointMatrices []math.Mat4
	// PickID is nonzero for pick-pass variants.
	PickID uint32
}
