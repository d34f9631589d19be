// Package msm implements variable-base multi-scalar multiplication over the
// BN254 G1 group, the commitment primitive of the proving system.
package msm

import (
	"errors"
	"math/big"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/gnark-sumcheck/internal/parallel"
	"github.com/consensys/gnark-sumcheck/logger"
)

// ErrLengthMismatch is returned when points and scalars differ in length.
var ErrLengthMismatch = errors.New("msm: points and scalars must have the same length")

// Compute returns Σ scalars[i] * points[i] using the windowed bucket method.
// The empty sum is the group identity. The window width is a function of the
// input size only; it never affects the result.
func Compute(points []bn254.G1Affine, scalars []fr.Element) (bn254.G1Affine, error) {
	if len(points) != len(scalars) {
		return bn254.G1Affine{}, ErrLengthMismatch
	}
	if len(points) == 0 {
		return bn254.G1Affine{}, nil
	}

	c := bestWindowSize(len(points))
	start := time.Now()
	res := computeWindowed(points, scalars, c)
	log := logger.Logger()
	log.Debug().Int("nbPoints", len(points)).Int("window", c).
		Dur("took", time.Since(start)).Msg("msm")
	return res, nil
}

// Naive returns Σ scalars[i] * points[i] by per-point scalar multiplication.
// It is the defining formula, kept as the correctness oracle for Compute and
// as the cheaper path for very small inputs.
func Naive(points []bn254.G1Affine, scalars []fr.Element) (bn254.G1Affine, error) {
	if len(points) != len(scalars) {
		return bn254.G1Affine{}, ErrLengthMismatch
	}

	var acc bn254.G1Jac
	var s big.Int
	for i := range points {
		var term bn254.G1Affine
		term.ScalarMultiplication(&points[i], scalars[i].BigInt(&s))
		acc.AddMixed(&term)
	}

	var res bn254.G1Affine
	res.FromJacobian(&acc)
	return res, nil
}

// BatchNormalize converts a batch of Jacobian points to affine form with a
// single shared field inversion instead of one inversion per point. MSM input
// bases produced by projective accumulation go through here.
func BatchNormalize(points []bn254.G1Jac) []bn254.G1Affine {
	return bn254.BatchJacobianToAffineG1(points)
}

// bestWindowSize picks the bucket window width in bits for n points. Larger
// inputs amortize larger bucket arrays; the thresholds follow the usual
// n / log(n) trade-off of the bucket method.
func bestWindowSize(n int) int {
	switch {
	case n < 64:
		return 4
	case n < 1024:
		return 8
	case n < 1<<16:
		return 12
	case n < 1<<20:
		return 14
	default:
		return 16
	}
}

// computeWindowed is the bucket method proper. Scalars are cut into
// fr.Bits/c windows of c bits. Each window position accumulates the points
// into 2^c - 1 Jacobian buckets keyed by the window digit (digit 0
// contributes nothing), reduces the buckets by a running sum, and the window
// partials are combined most-significant first by c doublings per step
// (Horner's rule in base 2^c).
//
// Window positions are independent: each worker owns one bucket arena and
// writes only its own partial, so the parallel phase needs no locks and the
// sequential combine makes the result schedule-independent.
func computeWindowed(points []bn254.G1Affine, scalars []fr.Element, c int) bn254.G1Affine {
	nbWindows := (fr.Bits + c - 1) / c

	// regular (non-Montgomery) form, so window digits are plain bit slices
	digits := make([][fr.Limbs]uint64, len(scalars))
	for i := range scalars {
		digits[i] = scalars[i].Bits()
	}

	// one range per window: a window is a unit of work, not an index range
	windows := make([]parallel.Range, nbWindows)
	for w := range windows {
		windows[w] = parallel.Range{Start: w, End: w + 1}
	}

	partials := make([]bn254.G1Jac, nbWindows)
	parallel.ForEach(windows, func(_ int, wr parallel.Range) {
		w := wr.Start
		buckets := make([]bn254.G1Jac, (1<<c)-1)
		for i := range points {
			d := windowDigit(digits[i], w*c, c)
			if d != 0 {
				buckets[d-1].AddMixed(&points[i])
			}
		}
		partials[w] = reduceBuckets(buckets)
	})

	acc := partials[nbWindows-1]
	for w := nbWindows - 2; w >= 0; w-- {
		for k := 0; k < c; k++ {
			acc.DoubleAssign()
		}
		acc.AddAssign(&partials[w])
	}

	var res bn254.G1Affine
	res.FromJacobian(&acc)
	return res
}

// reduceBuckets computes Σ (k+1) * buckets[k] with two additions per bucket:
// walking the buckets top-down, the running sum after bucket k equals
// Σ_{j>=k} buckets[j], and adding it once per step weights each bucket by its
// index.
func reduceBuckets(buckets []bn254.G1Jac) bn254.G1Jac {
	var runningSum, sum bn254.G1Jac
	for k := len(buckets) - 1; k >= 0; k-- {
		if !buckets[k].Z.IsZero() {
			runningSum.AddAssign(&buckets[k])
		}
		sum.AddAssign(&runningSum)
	}
	return sum
}

// windowDigit extracts c bits of a regular-form scalar starting at bit pos.
func windowDigit(limbs [fr.Limbs]uint64, pos, c int) uint64 {
	limb := pos / 64
	if limb >= fr.Limbs {
		return 0
	}
	shift := uint(pos % 64)
	d := limbs[limb] >> shift
	if int(shift)+c > 64 && limb+1 < fr.Limbs {
		d |= limbs[limb+1] << (64 - shift)
	}
	return d & (1<<c - 1)
}
