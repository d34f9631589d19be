// Package parallel splits index ranges across goroutines for data-parallel loops.
//
// Workers write only to their own contiguous chunk; any cross-chunk reduction
// is left to the caller and must be performed sequentially so that results do
// not depend on scheduling order.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minChunkSize is the smallest amount of work worth handing to a goroutine.
const minChunkSize = 1024

// Range is a half-open interval [Start, End) of loop indices.
type Range struct {
	Start, End int
}

// Partition splits [0, n) into at most parts contiguous near-equal ranges.
// parts <= 0 means one per available CPU. Small n yields fewer ranges rather
// than ranges below minChunkSize, and n == 0 yields none.
func Partition(n, parts int) []Range {
	if parts <= 0 {
		parts = runtime.GOMAXPROCS(0)
	}
	if n < minChunkSize*parts {
		parts = n / minChunkSize
		if parts == 0 {
			parts = 1
		}
	}
	if n == 0 {
		return nil
	}

	ranges := make([]Range, parts)
	chunk := n / parts
	extra := n - chunk*parts
	start := 0
	for i := range ranges {
		end := start + chunk
		if i < extra {
			end++
		}
		ranges[i] = Range{Start: start, End: end}
		start = end
	}
	return ranges
}

// ForEach runs work once per range, each on its own goroutine, and waits for
// all of them. The chunk index lets callers collect per-chunk partial results
// into pre-allocated slots.
func ForEach(ranges []Range, work func(chunk int, r Range)) {
	if len(ranges) == 1 {
		work(0, ranges[0])
		return
	}
	var g errgroup.Group
	for i, r := range ranges {
		i, r := i, r // per-iteration copies: required under go < 1.22 loop semantics
		g.Go(func() error {
			work(i, r)
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers never return errors
}

// Execute processes work over [0, n) in parallel and waits for completion.
func Execute(n int, work func(start, end int)) {
	ForEach(Partition(n, 0), func(_ int, r Range) {
		work(r.Start, r.End)
	})
}
