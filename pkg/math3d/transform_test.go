package math3d

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func TestEulerMatrixSingleAxis(t *testing.T) {
	assert.Equal(t, RotateX(0.3), E(0.3, 0, 0).Matrix())
	assert.Equal(t, RotateY(0.3), E(0, 0.3, 0).Matrix())
	assert.Equal(t, RotateZ(0.3), E(0, 0, 0.3).Matrix())
}

func TestEulerQuaternionMatchesMatrix(t *testing.T) {
	e := E(0.4, -1.1, 2.3)
	q := e.Quaternion()

	// Rotate a probe vector with both representations.
	p := V3(0.2, 0.7, -0.5)
	byMatrix := e.Matrix().MulVec3Dir(p)

	qv := V3(q[0], q[1], q[2])
	w := q[3]
	tv := qv.Cross(p).Scale(2)
	byQuat := p.Add(tv.Scale(w)).Add(qv.Cross(tv))

	assert.True(t, byMatrix.ApproxEqual(byQuat, eps), "matrix %v quaternion %v", byMatrix, byQuat)

	n := math.Sqrt(q[0]*q[0] + q[1]*q[1] + q[2]*q[2] + q[3]*q[3])
	assert.InDelta(t, 1, n, eps)

	back := FromQuaternion(q).MulVec3Dir(p)
	assert.True(t, byMatrix.ApproxEqual(back, eps), "matrix %v from quaternion %v", byMatrix, back)
}

func TestTransformMatrixOrder(t *testing.T) {
	tr := At(V3(1, 2, 3)).Rotated(E(0, math.Pi/2, 0)).Scaled(V3(2, 2, 2))

	// Scale, then rotate +X onto -Z, then translate.
	got := tr.Matrix().MulVec3(V3(1, 0, 0))
	assert.True(t, got.ApproxEqual(V3(1, 2, 1), eps), "got %v", got)
}

func TestNormalMatrixNonUniformScale(t *testing.T) {
	m := Scale(V3(1, 1, 0.5))
	n := m.NormalMatrix().MulVec3Dir(V3(0, 0, 1)).Normalize()
	assert.True(t, n.ApproxEqual(V3(0, 0, 1), eps))

	// A slanted normal tilts toward the squashed axis.
	s := m.NormalMatrix().MulVec3Dir(V3(1, 0, 1).Normalize())
	assert.Greater(t, s.Z, s.X)
}

func TestInverseRoundTrip(t *testing.T) {
	m := At(V3(0.9, 0.45, 0)).Rotated(E(-math.Pi/2, 0, 0)).Scaled(V3(1, 1, 0.5)).Matrix()
	p := V3(0.3, -0.2, 0.8)
	back := m.Inverse().MulVec3(m.MulVec3(p))
	assert.True(t, back.ApproxEqual(p, 1e-9))
}

func BenchmarkTransformMatrix(b *testing.B) {
	tr := At(V3(1, 2, 3)).Rotated(E(0.1, 0.2, 0.3)).Scaled(V3(1, 1, 0.5))

	for b.Loop() {
		_ = tr.Matrix()
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4Inverse(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5)).Mul(Scale(V3(2, 2, 2)))

	for b.Loop() {
		_ = m.Inverse()
	}
}
