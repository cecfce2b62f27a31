package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPosition(t *testing.T) {
	t.Run("matches the parsed starting text bit for bit", func(t *testing.T) {
		parsed, err := ParsePosition(StartPosition)

		require.NoError(t, err)
		require.Equal(t, NewPosition(), parsed)
	})

	t.Run("renders as the starting text", func(t *testing.T) {
		require.Equal(t, StartPosition, NewPosition().String())
	})

	t.Run("satisfies the invariants", func(t *testing.T) {
		pos := NewPosition()

		require.NoError(t, pos.Validate())
		require.Equal(t, Red, pos.SideToMove)
		require.Equal(t, SquareBit(RedCastle), pos.GuardOf(Red))
		require.Equal(t, SquareBit(BlueCastle), pos.GuardOf(Blue))
	})
}

func TestPieces(t *testing.T) {
	pos := MustParsePosition("7/7/3r1BG2/4r1RG1/7/7/7 r")
	require.Equal(t, 3, pos.Pieces(Red))
	require.Equal(t, 1, pos.Pieces(Blue))

	pos = NewPosition()
	require.Equal(t, 8, pos.Pieces(Red))
	require.Equal(t, 8, pos.Pieces(Blue))

	pos = MustParsePosition("3RG3/7/7/7/4b11b1/4r52/3BG1b11 b")
	require.Equal(t, 6, pos.Pieces(Red))
	require.Equal(t, 4, pos.Pieces(Blue))
}

func TestHeight(t *testing.T) {
	pos := MustParsePosition("3RG3/7/7/7/4b11b1/4r52/3BG1b11 b")

	require.Equal(t, 5, pos.Height(SquareAt(4, 2)))
	require.Equal(t, 1, pos.Height(SquareAt(3, 7)))
	require.Equal(t, 0, pos.Height(SquareAt(0, 1)))
	require.Equal(t, Red, pos.ColorAt(SquareAt(4, 2)))
	require.Equal(t, Blue, pos.ColorAt(SquareAt(6, 3)))
	require.Equal(t, NoColor, pos.ColorAt(SquareAt(0, 1)))
}

func TestValidate(t *testing.T) {
	t.Run("gap in the stack layers", func(t *testing.T) {
		pos := NewPosition()
		pos.Stacks[2] = SquareBit(0)

		require.Error(t, pos.Validate())
	})

	t.Run("overlapping colours", func(t *testing.T) {
		pos := NewPosition()
		pos.Blue |= SquareBit(48)

		require.Error(t, pos.Validate())
	})

	t.Run("guard on an empty square", func(t *testing.T) {
		pos := NewPosition()
		pos.Guards |= SquareBit(24)

		require.Error(t, pos.Validate())
	})
}

func TestSquareNames(t *testing.T) {
	require.Equal(t, "G1", SquareName(0))
	require.Equal(t, "A1", SquareName(6))
	require.Equal(t, "D1", SquareName(BlueCastle))
	require.Equal(t, "D7", SquareName(RedCastle))
	require.Equal(t, "A7", SquareName(48))
	for sq := 0; sq < NumSquares; sq++ {
		require.Equal(t, sq, SquareAt(FileOf(sq), RankOf(sq)))
	}
}

func TestHash(t *testing.T) {
	start := NewPosition()
	require.Equal(t, start.Hash(), NewPosition().Hash())

	flipped := start
	flipped.SideToMove = Blue
	require.NotEqual(t, start.Hash(), flipped.Hash())

	moved := Apply(start, Move{From: 48, To: 41, Height: 1})
	require.NotEqual(t, start.Hash(), moved.Hash())
}

func TestDiagram(t *testing.T) {
	diagram := NewPosition().Diagram()

	require.Contains(t, diagram, "7 | r1 r1 -- RG -- r1 r1 \n")
	require.Contains(t, diagram, "1 | b1 b1 -- BG -- b1 b1 \n")
	require.True(t, strings.HasSuffix(diagram, "    A  B  C  D  E  F  G  \n"))
}
