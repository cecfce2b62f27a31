package game

import (
	"errors"
	"fmt"
)

var ErrInvalidMove = errors.New("invalid move")

// Move carries From and To square indices and the number of layers moved.
// A guard always moves with Height 1.
type Move struct {
	From   int
	To     int
	Height int
}

func (m Move) IsZero() bool {
	return m == Move{}
}

// String renders the server notation, e.g. "A7-A6-1".
func (m Move) String() string {
	return fmt.Sprintf("%s-%s-%d", SquareName(m.From), SquareName(m.To), m.Height)
}

func SquareName(sq int) string {
	if sq < 0 || sq >= NumSquares {
		return "??"
	}
	return fmt.Sprintf("%c%d", 'A'+FileOf(sq), RankOf(sq))
}

// ParseSquare reads a square such as "D7".
func ParseSquare(s string) (int, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("%w: square %q", ErrInvalidMove, s)
	}
	file := int(s[0] - 'A')
	rank := int(s[1] - '0')
	if file < 0 || file >= BoardSize || rank < 1 || rank > BoardSize {
		return 0, fmt.Errorf("%w: square %q", ErrInvalidMove, s)
	}
	return SquareAt(file, rank), nil
}

// ParseMove reads the "<file><rank>-<file><rank>-<height>" notation. It only
// checks the syntax; legality is the generator's business.
func ParseMove(s string) (Move, error) {
	if len(s) != 7 || s[2] != '-' || s[5] != '-' {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}
	from, err := ParseSquare(s[0:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParseSquare(s[3:5])
	if err != nil {
		return Move{}, err
	}
	height := int(s[6] - '0')
	if height < 1 || height > MaxHeight {
		return Move{}, fmt.Errorf("%w: height in %q", ErrInvalidMove, s)
	}
	return Move{From: from, To: to, Height: height}, nil
}
