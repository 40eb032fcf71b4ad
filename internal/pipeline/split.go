package pipeline

import (
	"fmt"
	"math"
	"math/rand"
)

// Split shuffles row indices with a fixed seed and holds out
// ceil(testFraction*n) of them for evaluation. Both partitions are non-empty.
func Split(n int, testFraction float64, seed int64) (train, test []int, err error) {
	if n < 2 {
		return nil, nil, fmt.Errorf("split: need at least 2 rows, have %d", n)
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("split: test fraction %v outside (0, 1)", testFraction)
	}

	nTest := int(math.Ceil(testFraction * float64(n)))
	if nTest < 1 {
		nTest = 1
	}
	if nTest > n-1 {
		nTest = n - 1
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}
