package game

// CastleOf returns the home square of a side.
func CastleOf(c Color) int {
	if c == Red {
		return RedCastle
	}
	return BlueCastle
}

// HasWon reports whether player has won in pos: either the opponent's guard
// is gone, or player's guard stands on the opponent's castle. Call it for
// the side that made the last move.
func HasWon(pos Position, player Color) bool {
	opponent := player.Opponent()
	if pos.GuardOf(opponent) == 0 {
		return true
	}
	return pos.GuardOf(player) == SquareBit(CastleOf(opponent))
}

// Winner returns the side that has won, or NoColor while the game is still
// running. The side that moved last is checked first.
func Winner(pos Position) Color {
	last := pos.SideToMove.Opponent()
	if HasWon(pos, last) {
		return last
	}
	if HasWon(pos, pos.SideToMove) {
		return pos.SideToMove
	}
	return NoColor
}
