package searcher

import "math"

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant

const Win = 1.0   // Reward for a won rollout
const Loss = -Win // Reward for a lost rollout, also the virtual loss

type uct struct {
	numerator float64
}

// newUCT prepares the exploration term for a parent visited N times.
func newUCT(cSquared float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: cSquared * math.Log(N)}
}

func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = q/n + sqrt(c^2*ln(N)/n)
	return q/n + math.Sqrt(u.numerator/n)
}

// reward maps a score from red's point of view onto (Loss, Win). Decisive
// scores saturate; material differences of a few towers stay well inside.
func reward(score int) float64 {
	return math.Tanh(float64(score) / rewardScale)
}

const rewardScale = 8.0
