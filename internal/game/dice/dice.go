// Package dice provides the randomness abstraction consulted at the explicit
// random decision points of a match.
package dice

import "fmt"

// Source is the randomness provider for match draws.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Weighted selects an index into weights with probability proportional to
// its weight.
//
// Precondition: src non-nil; weights non-empty with every entry >= 0 and a
// positive sum.
// Postcondition: Returns an index i with weights[i] > 0, or an error when the
// preconditions on weights are violated.
func Weighted(src Source, weights []int) (int, error) {
	total := 0
	for i, w := range weights {
		if w < 0 {
			return 0, fmt.Errorf("dice: weight %d is negative (%d)", i, w)
		}
		total += w
	}
	if total <= 0 {
		return 0, fmt.Errorf("dice: weights %v have no positive total", weights)
	}

	pick := src.Intn(total)
	for i, w := range weights {
		if pick < w {
			return i, nil
		}
		pick -= w
	}
	// unreachable: pick < total
	return len(weights) - 1, nil
}
