package game

import (
	"math/bits"
	"strings"
)

// Bitboard holds one bit per square; only the low NumSquares bits are used.
type Bitboard uint64

const ValidSquares Bitboard = 1<<NumSquares - 1

func SquareBit(sq int) Bitboard {
	return Bitboard(1) << uint(sq)
}

func (b Bitboard) Has(sq int) bool {
	return b&SquareBit(sq) != 0
}

func (b Bitboard) Count() int {
	return bits.OnesCount64(uint64(b))
}

func (b Bitboard) Empty() bool {
	return b == 0
}

// LowestSquare returns the index of the least significant set bit, or 64
// when b is empty.
func (b Bitboard) LowestSquare() int {
	return bits.TrailingZeros64(uint64(b))
}

// PopLowest clears the least significant set bit and returns its square.
func (b *Bitboard) PopLowest() int {
	sq := bits.TrailingZeros64(uint64(*b))
	*b &= *b - 1
	return sq
}

// String draws the mask with rank 7 on top and file A on the left.
func (b Bitboard) String() string {
	var sb strings.Builder
	for rank := BoardSize; rank >= 1; rank-- {
		for file := 0; file < BoardSize; file++ {
			if b.Has(SquareAt(file, rank)) {
				sb.WriteString("1 ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// SquareAt maps a file (0 = A) and rank (1..7) to a square index.
func SquareAt(file, rank int) int {
	return (rank-1)*BoardSize + (BoardSize - 1 - file)
}

// FileOf returns 0 for file A through 6 for file G.
func FileOf(sq int) int {
	return BoardSize - 1 - sq%BoardSize
}

// RankOf returns 1 through 7.
func RankOf(sq int) int {
	return sq/BoardSize + 1
}
