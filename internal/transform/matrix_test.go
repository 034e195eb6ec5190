package transform

import (
	"math"
	"testing"

	mt "github.com/rustyoz/Mtransform"
)

func TestInvertRoundTrip(t *testing.T) {
	m := mt.MultiplyTransforms(Translation(10, 20), Rotation(30, 0, 0))
	inv, ok := Invert(m)
	if !ok {
		t.Fatal("Expected invertible matrix")
	}
	round := mt.MultiplyTransforms(m, inv)
	if !IsIdentity(round) {
		t.Errorf("m * inv(m) should be identity, got %v", round)
	}
}

func TestInvertDegenerate(t *testing.T) {
	if _, ok := Invert(Scaling(0, 1)); ok {
		t.Error("Zero-determinant matrix must not invert")
	}
}

func TestDeltaRecoversEdit(t *testing.T) {
	before := Translation(5, 5)
	after := mt.MultiplyTransforms(Translation(15, 25), before)
	d, ok := Delta(before, after)
	if !ok {
		t.Fatal("Expected a delta")
	}
	dx, dy := TranslationOf(d)
	if math.Abs(dx-15) > 1e-9 || math.Abs(dy-25) > 1e-9 {
		t.Errorf("Expected delta translation (15, 25), got (%f, %f)", dx, dy)
	}
}

func TestDeltaIdentityWhenUnchanged(t *testing.T) {
	m := Rotation(45, 10, 10)
	d, ok := Delta(m, m)
	if !ok {
		t.Fatal("Expected a delta")
	}
	if !IsIdentity(d) {
		t.Errorf("Unchanged transform must yield the identity delta, got %v", d)
	}
}

func TestRotationAboutCenter(t *testing.T) {
	// 90 degrees about (10, 10) maps (20, 10) to (10, 20).
	r := Rotation(90, 10, 10)
	x, y := Apply(r, 20, 10)
	if math.Abs(x-10) > 1e-9 || math.Abs(y-20) > 1e-9 {
		t.Errorf("Expected (10, 20), got (%f, %f)", x, y)
	}
}
