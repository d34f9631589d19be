// Package poly implements dense multilinear polynomials represented by their
// table of evaluations over the Boolean hypercube.
package poly

import (
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/gnark-sumcheck/field"
	"github.com/consensys/gnark-sumcheck/internal/parallel"
)

var (
	// ErrInvalidShape is returned when a table length is not a nonzero power of two.
	ErrInvalidShape = errors.New("poly: table length must be a nonzero power of two")
	// ErrNoVariablesRemaining is returned when binding a fully bound polynomial.
	ErrNoVariablesRemaining = errors.New("poly: no variables remaining to bind")
	// ErrDimensionMismatch is returned when an argument disagrees with the
	// polynomial's current number of variables.
	ErrDimensionMismatch = errors.New("poly: dimension mismatch")
)

// Dense tracks the values of a (dense i.e. not sparse) multilinear polynomial.
// Entry i of the table is the value at the hypercube vertex whose bits are the
// binary digits of i, most significant bit first; the most significant bit is
// the "top" variable, the one Bind consumes.
type Dense struct {
	evals   []fr.Element
	numVars int
}

// NewDense builds a polynomial from its evaluation table. The table length
// must be a nonzero power of two; NewDense takes ownership of the slice.
func NewDense(evals []fr.Element) (*Dense, error) {
	if !field.IsPowerOfTwo(len(evals)) {
		return nil, ErrInvalidShape
	}
	return &Dense{
		evals:   evals,
		numVars: field.Log2(len(evals)),
	}, nil
}

// NumVars returns the number of variables not yet bound.
func (p *Dense) NumVars() int {
	return p.numVars
}

// Len returns the current table length, always 1 << NumVars().
func (p *Dense) Len() int {
	return len(p.evals)
}

// Evals exposes the underlying evaluation table, typically to commit to it.
// The slice is shared with the polynomial: it aliases p until the next Bind.
func (p *Dense) Evals() []fr.Element {
	return p.evals
}

// Clone creates a deep copy. Binding folds the underlying table in place, so
// callers that need both a bound and an unbound view start from a copy.
func (p *Dense) Clone() *Dense {
	evals := make([]fr.Element, len(p.evals))
	copy(evals, p.evals)
	return &Dense{evals: evals, numVars: p.numVars}
}

// Bind fixes the top variable to r, folding the table in place:
//
//	table[i] <- table[i] + r (table[i + mid] - table[i])
//
// The table halves and NumVars decrements. Fails with ErrNoVariablesRemaining
// once the polynomial is reduced to a single scalar.
func (p *Dense) Bind(r fr.Element) error {
	if p.numVars == 0 {
		return ErrNoVariablesRemaining
	}
	mid := len(p.evals) / 2
	low, high := p.evals[:mid], p.evals[mid:]
	parallel.Execute(mid, func(start, end int) {
		var t fr.Element
		for i := start; i < end; i++ {
			t.Sub(&high[i], &low[i])
			t.Mul(&t, &r)
			low[i].Add(&low[i], &t)
		}
	})
	p.evals = p.evals[:mid]
	p.numVars--
	return nil
}

// Evaluate computes the multilinear extension of the table at the given
// point without mutating the polynomial. The point length must equal
// NumVars(); coordinates are consumed in the same order Bind consumes
// variables, so Evaluate(point) agrees with a chain of Bind calls.
//
// Rather than folding a copy numVars times, each table entry is weighted by
// the eq table at the point and the products are summed, which reads the
// table exactly once.
func (p *Dense) Evaluate(point []fr.Element) (fr.Element, error) {
	if len(point) != p.numVars {
		return fr.Element{}, fmt.Errorf("%w: point has %d coordinates, polynomial has %d variables",
			ErrDimensionMismatch, len(point), p.numVars)
	}
	if p.numVars == 0 {
		return p.evals[0], nil
	}

	weights := EqTable(point)
	chunks := parallel.Partition(len(p.evals), 0)
	partials := make([]fr.Element, len(chunks))
	parallel.ForEach(chunks, func(chunk int, r parallel.Range) {
		var acc, t fr.Element
		for i := r.Start; i < r.End; i++ {
			t.Mul(&weights[i], &p.evals[i])
			acc.Add(&acc, &t)
		}
		partials[chunk] = acc
	})

	var res fr.Element
	for i := range partials {
		res.Add(&res, &partials[i])
	}
	return res, nil
}

// LinearCombination returns a0*p0 + a1*p1 as a new polynomial. The operands
// must have the same shape; neither is modified.
func LinearCombination(p0, p1 *Dense, a0, a1 fr.Element) (*Dense, error) {
	if p0.numVars != p1.numVars {
		return nil, fmt.Errorf("%w: operands have %d and %d variables",
			ErrDimensionMismatch, p0.numVars, p1.numVars)
	}
	evals := make([]fr.Element, len(p0.evals))
	parallel.Execute(len(evals), func(start, end int) {
		var t0, t1 fr.Element
		for i := start; i < end; i++ {
			t0.Mul(&p0.evals[i], &a0)
			t1.Mul(&p1.evals[i], &a1)
			evals[i].Add(&t0, &t1)
		}
	})
	return &Dense{evals: evals, numVars: p0.numVars}, nil
}
