package game

// Apply returns the position after m has been played. pos is passed by value
// and is never touched, so callers can keep using it afterwards. m must come
// from Generate for this position; Apply does not check legality.
func Apply(pos Position, m Move) Position {
	next := pos
	fromBit := SquareBit(m.From)
	toBit := SquareBit(m.To)
	mover := pos.SideToMove
	movedGuard := pos.Guards&fromBit != 0

	// Lift the top m.Height layers off the source stack.
	top := pos.Height(m.From)
	for i := top - 1; i >= top-m.Height && i >= 0; i-- {
		next.Stacks[i] &^= fromBit
	}
	if next.Stacks[0]&fromBit == 0 {
		next.setColor(mover, next.ColorMask(mover)&^fromBit)
	}

	// A capture removes the whole enemy stack, guard included.
	enemy := mover.Opponent()
	if next.ColorMask(enemy)&toBit != 0 {
		for i := range next.Stacks {
			next.Stacks[i] &^= toBit
		}
		next.setColor(enemy, next.ColorMask(enemy)&^toBit)
		next.Guards &^= toBit
	}

	// Drop the moved layers on whatever friendly stack is left at the target.
	base := next.Height(m.To)
	for i := base; i < base+m.Height && i < MaxHeight; i++ {
		next.Stacks[i] |= toBit
	}
	next.setColor(mover, next.ColorMask(mover)|toBit)

	if movedGuard {
		next.Guards = next.Guards&^fromBit | toBit
	}

	next.SideToMove = enemy
	return next
}

func (p *Position) setColor(c Color, mask Bitboard) {
	switch c {
	case Red:
		p.Red = mask
	case Blue:
		p.Blue = mask
	}
}
