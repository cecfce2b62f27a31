package game

// Masks holds the precomputed lookup tables used by move generation. A
// Masks value is never modified after newMasks returns, so it may be shared
// freely between searches running on different goroutines.
type Masks struct {
	// Path[from][to] is the set of squares strictly between two squares on
	// the same rank or file.
	Path [NumSquares][NumSquares]Bitboard
	// Distance[from][to] is the number of steps between two aligned
	// squares, which is also the height a move of that span has to carry.
	// Zero for unaligned pairs and for from == to.
	Distance [NumSquares][NumSquares]int8
	// LeftEdge[d] marks the squares whose index column is too close to the
	// edge for a shift left by d to stay on the same row; RightEdge[d] does
	// the same for a shift right by d.
	LeftEdge  [MaxHeight + 1]Bitboard
	RightEdge [MaxHeight + 1]Bitboard
}

func newMasks() *Masks {
	m := &Masks{}

	for from := 0; from < NumSquares; from++ {
		x1, y1 := from%BoardSize, from/BoardSize
		for to := 0; to < NumSquares; to++ {
			if from == to {
				continue
			}
			x2, y2 := to%BoardSize, to/BoardSize

			var path Bitboard
			var dist int
			switch {
			case x1 == x2:
				lo, hi := min(y1, y2), max(y1, y2)
				for y := lo + 1; y < hi; y++ {
					path |= SquareBit(y*BoardSize + x1)
				}
				dist = hi - lo
			case y1 == y2:
				lo, hi := min(x1, x2), max(x1, x2)
				for x := lo + 1; x < hi; x++ {
					path |= SquareBit(y1*BoardSize + x)
				}
				dist = hi - lo
			default:
				continue
			}
			m.Path[from][to] = path
			m.Distance[from][to] = int8(dist)
		}
	}

	for d := 1; d <= MaxHeight; d++ {
		for sq := 0; sq < NumSquares; sq++ {
			x := sq % BoardSize
			if x >= BoardSize-d {
				m.LeftEdge[d] |= SquareBit(sq)
			}
			if x < d {
				m.RightEdge[d] |= SquareBit(sq)
			}
		}
	}

	return m
}

// Aligned reports whether two distinct squares share a rank or file.
func (m *Masks) Aligned(from, to int) bool {
	return m.Distance[from][to] > 0
}
