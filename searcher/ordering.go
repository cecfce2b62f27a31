package searcher

import (
	"slices"

	"guardtowers/game"
)

// orderMoves sorts captures ahead of quiet moves: guard captures first,
// then by the height of the captured stack. The sort is stable so that
// equal moves keep the generator's order.
func orderMoves(pos game.Position, moves []game.Move) {
	slices.SortStableFunc(moves, func(a, b game.Move) int {
		return captureValue(pos, b) - captureValue(pos, a)
	})
}

func captureValue(pos game.Position, m game.Move) int {
	if pos.ColorAt(m.To) != pos.SideToMove.Opponent() {
		return 0
	}
	if pos.IsGuard(m.To) {
		return game.WinScore
	}
	return pos.Height(m.To)
}
