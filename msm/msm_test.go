package msm

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consensys/gnark-sumcheck/field"
)

func randomPoints(n int) []bn254.G1Affine {
	_, _, g, _ := bn254.Generators()
	points := make([]bn254.G1Affine, n)
	var s big.Int
	for i := range points {
		r := field.MustRand()
		points[i].ScalarMultiplication(&g, r.BigInt(&s))
	}
	return points
}

func randomScalars(n int) []fr.Element {
	scalars := make([]fr.Element, n)
	for i := range scalars {
		scalars[i] = field.MustRand()
	}
	return scalars
}

func TestComputeMatchesNaive(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20

	properties := gopter.NewProperties(parameters)
	properties.Property("windowed msm == naive sum", prop.ForAll(
		func(n int) bool {
			points := randomPoints(n)
			scalars := randomScalars(n)

			expected, err := Naive(points, scalars)
			if err != nil {
				return false
			}
			got, err := Compute(points, scalars)
			if err != nil {
				return false
			}
			return expected.Equal(&got)
		},
		gen.IntRange(1, 64),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestComputeWindowSizeIndependence(t *testing.T) {
	points := randomPoints(100)
	scalars := randomScalars(100)

	expected, err := Naive(points, scalars)
	require.NoError(t, err)

	for _, c := range []int{1, 2, 4, 8, 13, 16} {
		got := computeWindowed(points, scalars, c)
		assert.True(t, expected.Equal(&got), "mismatch for window width %d", c)
	}
}

func TestComputeZeroScalar(t *testing.T) {
	points := randomPoints(3)
	scalars := make([]fr.Element, 3)
	scalars[0].SetUint64(2)
	scalars[1].SetUint64(3)
	// scalars[2] stays zero and must contribute the identity

	var expected, term bn254.G1Jac
	expected.FromAffine(&points[0])
	expected.DoubleAssign() // 2 * points[0]
	term.FromAffine(&points[1])
	expected.AddAssign(&term)
	expected.AddAssign(&term)
	expected.AddAssign(&term) // + 3 * points[1]

	var expectedAff bn254.G1Affine
	expectedAff.FromJacobian(&expected)

	got, err := Compute(points, scalars)
	require.NoError(t, err)
	assert.True(t, expectedAff.Equal(&got))
}

func TestComputeLengthMismatch(t *testing.T) {
	_, err := Compute(randomPoints(4), randomScalars(3))
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Naive(randomPoints(2), randomScalars(5))
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestComputeEmpty(t *testing.T) {
	got, err := Compute(nil, nil)
	require.NoError(t, err)
	assert.True(t, got.IsInfinity(), "empty msm should be the group identity")
}

func TestBatchNormalize(t *testing.T) {
	n := 32
	base := randomPoints(2 * n)
	jac := make([]bn254.G1Jac, n)
	expected := make([]bn254.G1Affine, n)
	for i := range jac {
		jac[i].FromAffine(&base[2*i])
		jac[i].AddMixed(&base[2*i+1]) // leaves a nontrivial Z coordinate
		expected[i].FromJacobian(&jac[i])
	}

	normalized := BatchNormalize(jac)
	require.Len(t, normalized, n)
	for i := range normalized {
		assert.True(t, expected[i].Equal(&normalized[i]), "mismatch at index %d", i)
	}
}

func TestWindowDigitReassemblesScalar(t *testing.T) {
	s := field.MustRand()
	limbs := s.Bits()

	for _, c := range []int{3, 8, 11, 16} {
		var acc, shift big.Int
		shift.SetUint64(1)
		nbWindows := (fr.Bits + c - 1) / c
		for w := nbWindows - 1; w >= 0; w-- {
			acc.Lsh(&acc, uint(c))
			acc.Add(&acc, new(big.Int).SetUint64(windowDigit(limbs, w*c, c)))
		}
		var got fr.Element
		got.SetBigInt(&acc)
		assert.True(t, s.Equal(&got), "digits do not reassemble for width %d", c)
	}
}

func BenchmarkCompute(b *testing.B) {
	size := 4096
	points := randomPoints(size)
	scalars := randomScalars(size)

	b.ResetTimer()
	for k := 0; k < b.N; k++ {
		if _, err := Compute(points, scalars); err != nil {
			b.Fatal(err)
		}
	}
}
