// Package field wraps the BN254 scalar field arithmetic consumed by the
// polynomial and MSM engines.
//
// fr.Element already provides exact modular addition, subtraction, negation
// and multiplication; this package adds the operations that need a failure
// path or an entropy source, plus the table-shape helpers shared by the
// engines. All results are canonical representatives mod the field prime.
package field

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// ErrNotInvertible is returned when inverting the additive identity.
var ErrNotInvertible = errors.New("field: element is not invertible")

// Inverse returns the multiplicative inverse of a.
// It fails with ErrNotInvertible when a is zero.
func Inverse(a fr.Element) (fr.Element, error) {
	if a.IsZero() {
		return fr.Element{}, ErrNotInvertible
	}
	var res fr.Element
	res.Inverse(&a)
	return res, nil
}

// BatchInvert inverts every entry of a using a single field inversion
// (Montgomery batch trick). It fails with ErrNotInvertible if any entry is
// zero; a is not modified.
func BatchInvert(a []fr.Element) ([]fr.Element, error) {
	for i := range a {
		if a[i].IsZero() {
			return nil, ErrNotInvertible
		}
	}
	return fr.BatchInvert(a), nil
}

// Rand draws a uniformly random field element from crypto/rand.
func Rand() (fr.Element, error) {
	var res fr.Element
	if _, err := res.SetRandom(); err != nil {
		return fr.Element{}, err
	}
	return res, nil
}

// MustRand is Rand for contexts where entropy failure is fatal, mostly tests
// and benchmarks.
func MustRand() fr.Element {
	res, err := Rand()
	if err != nil {
		panic(err)
	}
	return res
}

// Log2 computes the floored value of Log2
func Log2(a int) int {
	res := 0
	for i := a; i > 1; i >>= 1 {
		res++
	}
	return res
}

// IsPowerOfTwo returns true if a is a power of two, zero excluded
func IsPowerOfTwo(a int) bool {
	return a > 0 && a&(a-1) == 0
}
