// game/caller.go
package game

import (
	"math/rand"
)

// Draw picks a uniform random number from [1, MaxNumber] that does not
// appear in called. Returns ErrExhausted once every number has been called.
// The caller appends the result to its called sequence; Draw itself is pure.
func Draw(called []int) (int, error) {
	seen := make(map[int]bool, len(called))
	for _, n := range called {
		seen[n] = true
	}

	remaining := make([]int, 0, MaxNumber-len(called))
	for n := 1; n <= MaxNumber; n++ {
		if !seen[n] {
			remaining = append(remaining, n)
		}
	}

	if len(remaining) == 0 {
		return 0, ErrExhausted
	}
	return remaining[rand.Intn(len(remaining))], nil
}
