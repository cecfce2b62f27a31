package game

// WinScore dominates any material difference (each side has at most eight
// pieces).
const WinScore = 1000

// EvaluateMaterial is red's piece count minus blue's piece count, summed
// across all stack layers.
func EvaluateMaterial(pos Position) int {
	return pos.Pieces(Red) - pos.Pieces(Blue)
}

// EvaluateDecisive is EvaluateMaterial plus WinScore for a side that has
// already won, so a search prefers finishing the game over winning material.
func EvaluateDecisive(pos Position) int {
	score := EvaluateMaterial(pos)
	switch Winner(pos) {
	case Red:
		score += WinScore
	case Blue:
		score -= WinScore
	}
	return score
}
