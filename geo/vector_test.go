package geo

import (
	"math"
	"testing"

	"go.viam.com/test"
)

func TestVectorArithmetic(t *testing.T) {
	a := New(1, 2)
	b := New(3, -1)

	test.That(t, a.Add(b), test.ShouldResemble, New(4, 1))
	test.That(t, a.Sub(b), test.ShouldResemble, New(-2, 3))
	test.That(t, a.Scale(2), test.ShouldResemble, New(2, 4))
	test.That(t, a.Dot(b), test.ShouldAlmostEqual, float32(1))
}

func TestVectorLength(t *testing.T) {
	v := New(3, 4)
	test.That(t, v.Length(), test.ShouldAlmostEqual, float32(5))
	test.That(t, v.LengthSq(), test.ShouldAlmostEqual, float32(25))
}

func TestVectorNormalized(t *testing.T) {
	v := New(3, 4).Normalized()
	test.That(t, v.Length(), test.ShouldAlmostEqual, float32(1))

	test.That(t, Zero.Normalized(), test.ShouldResemble, Zero)
}

func TestVectorPerpendicular(t *testing.T) {
	v := New(1, 0)
	p := v.Perpendicular()
	test.That(t, p, test.ShouldResemble, New(0, 1))
	test.That(t, v.Dot(p), test.ShouldAlmostEqual, float32(0))
}

func TestVectorAngleRoundTrip(t *testing.T) {
	for _, angle := range []float32{0, 0.5, 1.0, 2.2, -1.5} {
		v := FromAngle(angle)
		test.That(t, v.Length(), test.ShouldAlmostEqual, float32(1), 1e-5)
		test.That(t, math.Abs(float64(v.Angle()-angle)) < 1e-5, test.ShouldBeTrue)
	}
}

func TestVectorIsFinite(t *testing.T) {
	test.That(t, New(1, 2).IsFinite(), test.ShouldBeTrue)
	test.That(t, New(float32(math.NaN()), 0).IsFinite(), test.ShouldBeFalse)
	test.That(t, New(float32(math.Inf(1)), 0).IsFinite(), test.ShouldBeFalse)
}

func TestVectorR3RoundTrip(t *testing.T) {
	v := New(1.5, -2.5)
	r := v.ToR3()
	test.That(t, r.Z, test.ShouldAlmostEqual, float64(0))
	test.That(t, FromR3(r), test.ShouldResemble, v)
}
