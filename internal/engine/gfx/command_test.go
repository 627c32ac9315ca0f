package gfx

import (
	"testing"

	"github.com/Faultbox/asgard/pkg/math"
)

func TestResolveSemanticModelViewProjection(t *testing.T) {
	cmd := &DrawCommand{ModelMatrix: math.Translate(1, 2, 3)}
	view := math.Translate(0, 0, -10)
	proj := math.Identity()

	model := ResolveSemantic(cmd, view, proj, SemanticModel)
	if model[12] != 1 || model[13] != 2 || model[14] != 3 {
		t.Errorf("MODEL translation = %v,%v,%v, want 1,2,3", model[12], model[13], model[14])
	}

	mv := ResolveSemantic(cmd, view, proj, SemanticModelView)
	if mv[14] != -7 {
		t.Errorf("MODELVIEW z translation = %v, want -7", mv[14])
	}

	mvp := ResolveSemantic(cmd, view, proj, SemanticModelViewProj)
	if mvp[14] != -7 {
		t.Errorf("MODELVIEWPROJECTION with identity projection z = %v, want -7", mvp[14])
	}
}

func TestResolveSemanticModelInverse(t *testing.T) {
	cmd := &DrawCommand{ModelMatrix: math.Translate(5, 0, 0)}
	inv := ResolveSemantic(cmd, math.Identity(), math.Identity(), SemanticModelInverse)
	if inv[12] != -5 {
		t.Errorf("MODELINVERSE x translation = %v, want -5", inv[12])
	}
}

func TestResolveSemanticJointMatrixFlattens(t *testing.T) {
	cmd := &DrawCommand{
		ModelMatrix:   math.Identity(),
		JointMatrices: []math.Mat4{math.Identity(), math.Translate(1, 0, 0)},
	}
	flat := ResolveSemantic(cmd, math.Identity(), math.Identity(), SemanticJointMatrix)
	if len(flat) != 32 {
		t.Fatalf("JOINTMATRIX length = %d, want 32", len(flat))
	}
	if flat[16+12] != 1 {
		t.Errorf("second joint x translation = %v, want 1", flat[16+12])
	}
}
