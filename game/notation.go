package game

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidPosition = errors.New("invalid position")

// StartPosition is the text form of NewPosition.
const StartPosition = "r1r11RG1r1r1/2r11r12/3r13/7/3b13/2b11b12/b1b11BG1b1b1 r"

// ParsePosition reads the board notation: ranks 7 to 1 separated by '/',
// digits for runs of empty squares, r<h>/b<h> for towers, RG/BG for guards,
// then a space and the side to move ('r' or 'b'). Any deviation is an error;
// nothing is guessed.
func ParsePosition(text string) (Position, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return Position{}, fmt.Errorf("%w: expected board and side to move, got %d fields", ErrInvalidPosition, len(fields))
	}
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != BoardSize {
		return Position{}, fmt.Errorf("%w: expected %d ranks, got %d", ErrInvalidPosition, BoardSize, len(ranks))
	}

	var pos Position
	for i, row := range ranks {
		rank := BoardSize - i
		file := 0
		for j := 0; j < len(row); {
			c := row[j]
			switch {
			case c >= '0' && c <= '9':
				k := j
				for k < len(row) && row[k] >= '0' && row[k] <= '9' {
					k++
				}
				n, err := strconv.Atoi(row[j:k])
				if err != nil || n == 0 {
					return Position{}, fmt.Errorf("%w: bad empty run %q on rank %d", ErrInvalidPosition, row[j:k], rank)
				}
				file += n
				j = k
			case c == 'r' || c == 'b':
				if j+1 >= len(row) {
					return Position{}, fmt.Errorf("%w: missing tower height on rank %d", ErrInvalidPosition, rank)
				}
				h := int(row[j+1] - '0')
				if h < 1 || h > MaxHeight {
					return Position{}, fmt.Errorf("%w: tower height %q on rank %d", ErrInvalidPosition, row[j+1], rank)
				}
				if file >= BoardSize {
					return Position{}, fmt.Errorf("%w: rank %d is too long", ErrInvalidPosition, rank)
				}
				pos.place(SquareAt(file, rank), colorOfToken(c), h, false)
				file++
				j += 2
			case c == 'R' || c == 'B':
				if j+1 >= len(row) || row[j+1] != 'G' {
					return Position{}, fmt.Errorf("%w: expected guard after %q on rank %d", ErrInvalidPosition, c, rank)
				}
				if file >= BoardSize {
					return Position{}, fmt.Errorf("%w: rank %d is too long", ErrInvalidPosition, rank)
				}
				pos.place(SquareAt(file, rank), colorOfToken(c), 1, true)
				file++
				j += 2
			default:
				return Position{}, fmt.Errorf("%w: unknown token %q on rank %d", ErrInvalidPosition, c, rank)
			}
		}
		if file != BoardSize {
			return Position{}, fmt.Errorf("%w: rank %d has %d squares", ErrInvalidPosition, rank, file)
		}
	}

	switch fields[1] {
	case "r":
		pos.SideToMove = Red
	case "b":
		pos.SideToMove = Blue
	default:
		return Position{}, fmt.Errorf("%w: side to move %q", ErrInvalidPosition, fields[1])
	}

	if err := pos.Validate(); err != nil {
		return Position{}, fmt.Errorf("%w: %v", ErrInvalidPosition, err)
	}
	return pos, nil
}

// MustParsePosition is ParsePosition for fixed positions known to be valid.
func MustParsePosition(text string) Position {
	pos, err := ParsePosition(text)
	if err != nil {
		panic(err)
	}
	return pos
}

func colorOfToken(c byte) Color {
	if c == 'r' || c == 'R' {
		return Red
	}
	return Blue
}

func (p *Position) place(sq int, c Color, height int, guard bool) {
	bit := SquareBit(sq)
	for h := 0; h < height; h++ {
		p.Stacks[h] |= bit
	}
	p.setColor(c, p.ColorMask(c)|bit)
	if guard {
		p.Guards |= bit
	}
}

// String renders the position in the same notation ParsePosition reads.
func (p Position) String() string {
	var sb strings.Builder
	for rank := BoardSize; rank >= 1; rank-- {
		if rank < BoardSize {
			sb.WriteByte('/')
		}
		empty := 0
		for file := 0; file < BoardSize; file++ {
			tok := p.token(SquareAt(file, rank), "")
			if tok == "" {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(tok)
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
	}
	sb.WriteByte(' ')
	sb.WriteString(p.SideToMove.String())
	return sb.String()
}
