package prng

import (
	"math/rand"
	"testing"

	"go.viam.com/test"
)

func TestDeterministicForSameSeed(t *testing.T) {
	a := rand.New(NewXorshift128Plus(42))
	b := rand.New(NewXorshift128Plus(42))

	for i := 0; i < 1000; i++ {
		test.That(t, a.Float64(), test.ShouldEqual, b.Float64())
	}
}

func TestDiffersAcrossSeeds(t *testing.T) {
	a := rand.New(NewXorshift128Plus(1))
	b := rand.New(NewXorshift128Plus(2))

	same := true
	for i := 0; i < 50; i++ {
		if a.Float64() != b.Float64() {
			same = false
			break
		}
	}
	test.That(t, same, test.ShouldBeFalse)
}

func TestUint64DoesNotGetStuck(t *testing.T) {
	x := NewXorshift128Plus(0)
	seen := map[uint64]bool{}
	for i := 0; i < 200; i++ {
		seen[x.Uint64()] = true
	}
	test.That(t, len(seen), test.ShouldBeGreaterThan, 190)
}

func TestInt63NonNegative(t *testing.T) {
	x := NewXorshift128Plus(7)
	for i := 0; i < 1000; i++ {
		test.That(t, x.Int63() >= 0, test.ShouldBeTrue)
	}
}
