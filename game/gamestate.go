package game

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
)

// GameState couples a Position with the generator needed to enumerate its
// moves, so that engines and referees can work against the State interface.
type GameState struct {
	Position Position
	LastMove Move // zero for the initial state
	gen      *Generator
}

// NewGameState wraps pos. The generator is shared by every state derived
// from this one.
func NewGameState(pos Position, gen *Generator) *GameState {
	if gen == nil {
		gen = NewGenerator()
	}
	return &GameState{Position: pos, gen: gen}
}

func (gs *GameState) Generator() *Generator {
	return gs.gen
}

func (gs *GameState) Player() Color {
	return gs.Position.SideToMove
}

// LegalMoves is empty once the game has a winner.
func (gs *GameState) LegalMoves() []Move {
	if gs.Winner() != NoColor {
		return nil
	}
	return gs.gen.Generate(gs.Position)
}

func (gs *GameState) Play(m Move) State {
	return &GameState{
		Position: Apply(gs.Position, m),
		LastMove: m,
		gen:      gs.gen,
	}
}

func (gs *GameState) Winner() Color {
	return Winner(gs.Position)
}

func (gs *GameState) Score(evaluate Evaluate) int {
	return evaluate(gs.Position)
}

func (gs *GameState) Hash() StateHash {
	return gs.Position.Hash()
}

// Hash fingerprints the full position, side to move included.
func (p Position) Hash() StateHash {
	var buf [(MaxHeight+3)*8 + 1]byte
	off := 0
	for _, layer := range p.Stacks {
		binary.LittleEndian.PutUint64(buf[off:], uint64(layer))
		off += 8
	}
	for _, mask := range []Bitboard{p.Red, p.Blue, p.Guards} {
		binary.LittleEndian.PutUint64(buf[off:], uint64(mask))
		off += 8
	}
	buf[off] = byte(p.SideToMove)
	return StateHash(xxhash.Sum64(buf[:]))
}
