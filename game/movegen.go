package game

type direction int

const (
	towardFileA direction = iota // shift left by h
	towardFileG                  // shift right by h
	towardRank7                  // shift left by 7h
	towardRank1                  // shift right by 7h
)

var directions = [...]direction{towardFileA, towardFileG, towardRank7, towardRank1}

// Generator produces legal moves. It owns the mask tables and holds no other
// state, so a single Generator can serve any number of searches.
type Generator struct {
	masks *Masks
}

func NewGenerator() *Generator {
	return &Generator{masks: newMasks()}
}

func (g *Generator) Masks() *Masks {
	return g.masks
}

// Generate returns every legal move for the side to move. Each (From, To,
// Height) triple appears exactly once; the order is not significant.
func (g *Generator) Generate(pos Position) []Move {
	own := pos.ColorMask(pos.SideToMove)
	enemy := pos.ColorMask(pos.SideToMove.Opponent())
	occupied := pos.Occupied()
	ownGuard := pos.Guards & own

	moves := make([]Move, 0, 48)
	for h := 1; h <= MaxHeight; h++ {
		// Layer h only has the own stacks that are at least h tall. Guards
		// never reach layer 2, so from here on every source is a tower.
		sources := own & pos.Stacks[h-1]
		if sources == 0 {
			break
		}
		for _, dir := range directions {
			targets, offset := g.shift(sources, dir, h)
			// Nothing ever lands on its own guard.
			targets &= ValidSquares &^ ownGuard
			for targets != 0 {
				to := targets.PopLowest()
				from := to - offset
				if from < 0 || from >= NumSquares {
					continue
				}
				if g.legal(pos, from, to, h, own, enemy, occupied) {
					moves = append(moves, Move{From: from, To: to, Height: h})
				}
			}
		}
	}
	return moves
}

// shift moves every source h steps in one direction and returns the
// destination mask together with the index offset to = from + offset.
// Sources that would wrap into a neighbouring row are dropped first.
func (g *Generator) shift(sources Bitboard, dir direction, h int) (Bitboard, int) {
	switch dir {
	case towardFileA:
		return (sources &^ g.masks.LeftEdge[h]) << uint(h), h
	case towardFileG:
		return (sources &^ g.masks.RightEdge[h]) >> uint(h), -h
	case towardRank7:
		return sources << uint(BoardSize*h), BoardSize * h
	default:
		return sources >> uint(BoardSize*h), -BoardSize * h
	}
}

func (g *Generator) legal(pos Position, from, to, h int, own, enemy, occupied Bitboard) bool {
	// No jumping over anything, friend or foe.
	if g.masks.Path[from][to]&occupied != 0 {
		return false
	}
	moverIsGuard := pos.Guards.Has(from)
	switch {
	case own.Has(to):
		// Towers stack onto towers; a guard never stacks.
		return !moverIsGuard
	case enemy.Has(to):
		if moverIsGuard || pos.Guards.Has(to) {
			return true
		}
		return pos.Height(to) <= h
	}
	return true
}

// IsLegal reports whether m is one of the moves Generate would return.
func (g *Generator) IsLegal(pos Position, m Move) bool {
	if m.From < 0 || m.From >= NumSquares || m.To < 0 || m.To >= NumSquares {
		return false
	}
	own := pos.ColorMask(pos.SideToMove)
	if !own.Has(m.From) || int(g.masks.Distance[m.From][m.To]) != m.Height {
		return false
	}
	if m.Height < 1 || m.Height > pos.Height(m.From) {
		return false
	}
	if pos.GuardOf(pos.SideToMove).Has(m.To) {
		return false
	}
	enemy := pos.ColorMask(pos.SideToMove.Opponent())
	return g.legal(pos, m.From, m.To, m.Height, own, enemy, pos.Occupied())
}
