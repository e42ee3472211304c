// game/board.go
package game

import (
	"math/rand"
)

const (
	BoardSize = 5
	// MaxNumber is the highest callable number; each column owns a disjoint
	// 15-number slice of [1, MaxNumber].
	MaxNumber     = 75
	columnSpan    = 15
	centerRow     = 2
	centerCol     = 2
	MarkedByFree  = "free"
	MarkedByEmpty = ""
)

// Cell is one square on a board. Number is 0 only for the free cell.
// MarkedBy is "" (unmarked), an actor ID, or "free" for the center cell.
type Cell struct {
	Number   int    `json:"number"`
	MarkedBy string `json:"marked_by"`
}

// Board is a 5x5 grid owned by one player. Numbers are fixed at creation;
// only MarkedBy changes afterwards.
type Board [BoardSize][BoardSize]Cell

// NewBoard generates a random board. Column c holds five distinct numbers
// from [15c+1, 15c+15], so all numbers on the board are distinct. The center
// cell is the free cell, permanently marked; the number drawn for it is
// simply discarded.
func NewBoard() *Board {
	var b Board
	for col := 0; col < BoardSize; col++ {
		low := col*columnSpan + 1
		for row, n := range drawColumn(low) {
			b[row][col] = Cell{Number: n}
		}
	}
	b[centerRow][centerCol] = Cell{Number: 0, MarkedBy: MarkedByFree}
	return &b
}

// drawColumn picks 5 distinct numbers without replacement from
// [low, low+14].
func drawColumn(low int) [BoardSize]int {
	pool := make([]int, columnSpan)
	for i := range pool {
		pool[i] = low + i
	}
	rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	var picked [BoardSize]int
	copy(picked[:], pool[:BoardSize])
	return picked
}

// ValidCell reports whether (row, col) addresses a cell on the board.
func ValidCell(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// IsFree reports whether the cell is the permanent free cell.
func (c Cell) IsFree() bool {
	return c.MarkedBy == MarkedByFree
}
