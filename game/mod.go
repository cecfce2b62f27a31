package game

// Board geometry. Squares are numbered row-major from G1 (0) to A7 (48):
// sq = (rank-1)*BoardSize + (BoardSize-1-file), so shifting a bitboard left
// by one moves every piece one file towards A and shifting by BoardSize
// moves it one rank up.
const (
	BoardSize  = 7
	NumSquares = BoardSize * BoardSize
	MaxHeight  = 7
)

type Color int8

const (
	NoColor Color = iota
	Red
	Blue
)

func (c Color) Opponent() Color {
	switch c {
	case Red:
		return Blue
	case Blue:
		return Red
	}
	return NoColor
}

func (c Color) String() string {
	switch c {
	case Red:
		return "r"
	case Blue:
		return "b"
	}
	return "-"
}

type StateHash uint64

// State should be immutable - operations on State always return a new copy
type State interface {
	Player() Color
	LegalMoves() []Move
	Play(Move) State
	Hash() StateHash
	Winner() Color
	Score(evaluate Evaluate) int
}

// Evaluate scores a position from red's point of view: positive numbers
// favour red, negative numbers favour blue.
type Evaluate func(Position) int
