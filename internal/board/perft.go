package board

// Perft counts the leaf nodes of the legal move tree to the given depth.
// Positions are walked with Apply/Unapply, so p is unchanged on return.
func (p *Position) Perft(depth int) uint64 {
	if depth <= 0 {
		return 1
	}

	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return uint64(moves.Len())
	}

	var nodes uint64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := p.Apply(m)
		nodes += p.Perft(depth - 1)
		p.Unapply(m, undo)
	}
	return nodes
}

// DivideEntry is the subtree size under one root move.
type DivideEntry struct {
	Move  Move
	Nodes uint64
}

// Divide runs Perft below each root move, in generation order.
func (p *Position) Divide(depth int) []DivideEntry {
	if depth < 1 {
		return nil
	}

	moves := p.GenerateLegalMoves()
	entries := make([]DivideEntry, 0, moves.Len())
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := p.Apply(m)
		entries = append(entries, DivideEntry{Move: m, Nodes: p.Perft(depth - 1)})
		p.Unapply(m, undo)
	}
	return entries
}
