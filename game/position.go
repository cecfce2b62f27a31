package game

import (
	"fmt"
	"strings"
)

// Castle squares: a guard that reaches the opponent's castle wins.
const (
	RedCastle  = 45 // D7
	BlueCastle = 3  // D1
)

// Position is the bit-packed game state. It is a plain value: copying it
// copies the whole board, and nothing in this package modifies a Position
// after it has been handed out.
type Position struct {
	// Stacks[h] has a bit set for every square whose stack is at least h+1
	// pieces tall.
	Stacks     [MaxHeight]Bitboard
	Red        Bitboard
	Blue       Bitboard
	Guards     Bitboard
	SideToMove Color
}

// NewPosition returns the starting layout with red to move.
func NewPosition() Position {
	red := SquareBit(48) | SquareBit(47) | SquareBit(RedCastle) | SquareBit(43) | SquareBit(42) |
		SquareBit(39) | SquareBit(37) | SquareBit(31)
	blue := SquareBit(0) | SquareBit(1) | SquareBit(BlueCastle) | SquareBit(5) | SquareBit(6) |
		SquareBit(9) | SquareBit(11) | SquareBit(17)

	pos := Position{
		Red:        red,
		Blue:       blue,
		Guards:     SquareBit(RedCastle) | SquareBit(BlueCastle),
		SideToMove: Red,
	}
	pos.Stacks[0] = red | blue
	return pos
}

func (p Position) Occupied() Bitboard {
	return p.Stacks[0]
}

func (p Position) ColorMask(c Color) Bitboard {
	switch c {
	case Red:
		return p.Red
	case Blue:
		return p.Blue
	}
	return 0
}

// ColorAt returns the owner of sq, or NoColor for an empty square.
func (p Position) ColorAt(sq int) Color {
	switch {
	case p.Red.Has(sq):
		return Red
	case p.Blue.Has(sq):
		return Blue
	}
	return NoColor
}

// Height returns the number of pieces stacked on sq.
func (p Position) Height(sq int) int {
	bit := SquareBit(sq)
	h := 0
	for h < MaxHeight && p.Stacks[h]&bit != 0 {
		h++
	}
	return h
}

func (p Position) IsGuard(sq int) bool {
	return p.Guards.Has(sq)
}

// GuardOf returns the guard mask of one side; empty once it was captured.
func (p Position) GuardOf(c Color) Bitboard {
	return p.Guards & p.ColorMask(c)
}

// Pieces counts every piece of one side, summed over all stack layers.
func (p Position) Pieces(c Color) int {
	own := p.ColorMask(c)
	n := 0
	for _, layer := range p.Stacks {
		n += (layer & own).Count()
	}
	return n
}

// Validate checks the structural invariants of the bitboards.
func (p Position) Validate() error {
	for h := 1; h < MaxHeight; h++ {
		if p.Stacks[h]&^p.Stacks[h-1] != 0 {
			return fmt.Errorf("layer %d is not contained in layer %d", h+1, h)
		}
	}
	if p.Red&p.Blue != 0 {
		return fmt.Errorf("red and blue overlap")
	}
	if p.Red|p.Blue != p.Stacks[0] {
		return fmt.Errorf("colour masks do not match occupancy")
	}
	if p.Guards&^(p.Red|p.Blue) != 0 {
		return fmt.Errorf("guard on an empty square")
	}
	if p.Guards&p.Stacks[1] != 0 {
		return fmt.Errorf("guard stacked higher than one")
	}
	if p.GuardOf(Red).Count() > 1 || p.GuardOf(Blue).Count() > 1 {
		return fmt.Errorf("more than one guard per side")
	}
	if p.Occupied()&^ValidSquares != 0 {
		return fmt.Errorf("pieces outside the board")
	}
	if p.SideToMove != Red && p.SideToMove != Blue {
		return fmt.Errorf("invalid side to move %d", p.SideToMove)
	}
	return nil
}

// Diagram renders an ASCII board, rank 7 first, for logs and debugging.
func (p Position) Diagram() string {
	var sb strings.Builder
	for rank := BoardSize; rank >= 1; rank-- {
		fmt.Fprintf(&sb, "%d | ", rank)
		for file := 0; file < BoardSize; file++ {
			fmt.Fprintf(&sb, "%-3s", p.token(SquareAt(file, rank), "--"))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("    ")
	for file := 0; file < BoardSize; file++ {
		fmt.Fprintf(&sb, "%-3c", 'A'+file)
	}
	sb.WriteByte('\n')
	return sb.String()
}

// token returns the notation for the piece on sq, or empty if there is none.
func (p Position) token(sq int, empty string) string {
	color := p.ColorAt(sq)
	if color == NoColor {
		return empty
	}
	if p.IsGuard(sq) {
		if color == Red {
			return "RG"
		}
		return "BG"
	}
	return fmt.Sprintf("%s%d", color, p.Height(sq))
}
