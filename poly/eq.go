package poly

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// EvalEq computes Eq(q1, ... , qn, h1, ... , hn) = Π_1^n Eq(qi, hi)
// where Eq(x,y) = xy + (1-x)(1-y) = 1 - x - y + 2xy interpolates the
// equality indicator on {0,1}².
func EvalEq(q, h []fr.Element) fr.Element {
	var res, nxt, one, sum fr.Element
	one.SetOne()
	res.SetOne()
	for i := 0; i < len(q); i++ {
		nxt.Mul(&q[i], &h[i])   // nxt <- qi * hi
		nxt.Add(&nxt, &nxt)     // nxt <- 2 * qi * hi
		nxt.Add(&nxt, &one)     // nxt <- 1 + 2 * qi * hi
		sum.Add(&q[i], &h[i])   // sum <- qi + hi
		nxt.Sub(&nxt, &sum)     // nxt <- 1 + 2 * qi * hi - qi - hi
		res.Mul(&res, &nxt)     // res <- res * nxt
	}
	return res
}

// EqTable returns the table of Eq(q1, ... , qn, *, ... , *) over the
// hypercube, i.e. entry i is the Lagrange basis weight of vertex i when
// evaluating a multilinear extension at q. The table starts life as the
// single entry 1 and is doubled once per coordinate, splitting each entry
// into its (1-qi) and qi shares; index convention matches Dense (q1 on the
// most significant bit).
func EqTable(q []fr.Element) []fr.Element {
	n := len(q)
	eq := make([]fr.Element, 1<<n)
	eq[0].SetOne()

	for i := range q {
		for j := 0; j < 1<<i; j++ {
			lo := j << (n - i)
			hi := lo + 1<<(n-1-i)
			eq[hi].Mul(&q[i], &eq[lo])
			eq[lo].Sub(&eq[lo], &eq[hi])
		}
	}
	return eq
}
