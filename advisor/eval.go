package advisor

import "wudao/game"

// Rollout scoring weights.
const (
	DecisiveScore   = 100 // terminal outcome for/against the mover
	stoneWeight     = 10
	patternWeight   = 50
	protectedWeight = 5
)

// centerWeights is the static positional table. Central cells control
// more pattern instances than edge cells.
var centerWeights = [game.Size][game.Size]int{
	{1, 2, 3, 2, 1},
	{2, 4, 6, 4, 2},
	{3, 6, 8, 6, 3},
	{2, 4, 6, 4, 2},
	{1, 2, 3, 2, 1},
}

// Evaluate scores an undecided position from the given player's
// perspective. Higher is better for that player.
type Evaluate func(b *game.Board, p game.Player) float64

// EvaluatePosition combines material, owned triggered patterns,
// protected stones and positional control.
func EvaluatePosition(b *game.Board, p game.Player) float64 {
	opp := p.Opponent()

	score := stoneWeight * (b.StoneCount(p) - b.StoneCount(opp))
	score += patternWeight * (b.OwnedPatternCount(p) - b.OwnedPatternCount(opp))
	score += protectedWeight * (b.ProtectedCount(p) - b.ProtectedCount(opp))

	for r := 0; r < game.Size; r++ {
		for c := 0; c < game.Size; c++ {
			owner, ok := b.At(r, c).Owner()
			if !ok {
				continue
			}
			if owner == p {
				score += centerWeights[r][c]
			} else {
				score -= centerWeights[r][c]
			}
		}
	}
	return float64(score)
}

func decisive(winner, mover game.Player) float64 {
	if winner == mover {
		return DecisiveScore
	}
	return -DecisiveScore
}
