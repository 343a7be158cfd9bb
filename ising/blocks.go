package ising

// Blocks holds the two-coloring of a chain model's variables. Every edge of
// a chain connects an even and an odd index, so conditioned on one block
// the other block's members are mutually independent and can be redrawn
// jointly. The sets are precomputed here once instead of re-deriving parity
// per sweep.
type Blocks struct {
	Even []int
	Odd  []int
}

// Partition splits variable indices [0, n) into the even and odd blocks.
// The two slices are disjoint and together cover every index; both hold for
// any n >= 1 (n == 1 leaves Odd empty).
func Partition(n int) Blocks {
	b := Blocks{
		Even: make([]int, 0, (n+1)/2),
		Odd:  make([]int, 0, n/2),
	}
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			b.Even = append(b.Even, i)
		} else {
			b.Odd = append(b.Odd, i)
		}
	}
	return b
}
