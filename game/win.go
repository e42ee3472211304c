// game/win.go
package game

// CheckWin reports whether the board holds a complete line for actorID: any
// full row, any full column, the main diagonal, or the anti-diagonal. The
// free cell counts toward every line it sits on. Pure; no side effects.
func CheckWin(b *Board, actorID string) bool {
	for i := 0; i < BoardSize; i++ {
		if rowComplete(b, i, actorID) || colComplete(b, i, actorID) {
			return true
		}
	}
	return diagComplete(b, actorID) || antiDiagComplete(b, actorID)
}

func cellCounts(c Cell, actorID string) bool {
	return c.MarkedBy == actorID || c.MarkedBy == MarkedByFree
}

func rowComplete(b *Board, row int, actorID string) bool {
	for col := 0; col < BoardSize; col++ {
		if !cellCounts(b[row][col], actorID) {
			return false
		}
	}
	return true
}

func colComplete(b *Board, col int, actorID string) bool {
	for row := 0; row < BoardSize; row++ {
		if !cellCounts(b[row][col], actorID) {
			return false
		}
	}
	return true
}

func diagComplete(b *Board, actorID string) bool {
	for i := 0; i < BoardSize; i++ {
		if !cellCounts(b[i][i], actorID) {
			return false
		}
	}
	return true
}

func antiDiagComplete(b *Board, actorID string) bool {
	for i := 0; i < BoardSize; i++ {
		if !cellCounts(b[i][BoardSize-1-i], actorID) {
			return false
		}
	}
	return true
}
