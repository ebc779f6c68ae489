package board

import "github.com/pkg/errors"

// ParseMove resolves coordinate notation ("e2e4", "e7e8q") against the
// legal moves of the position. The position is not modified.
//
// Malformed input wraps ErrBadNotation. Well-formed input that is not
// legal returns *IllegalMoveError naming the first failed constraint.
func (p *Position) ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return NoMove, errors.Wrapf(ErrBadNotation, "%q: want 4 or 5 characters", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, errors.Wrapf(ErrBadNotation, "%q: %v", s, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, errors.Wrapf(ErrBadNotation, "%q: %v", s, err)
	}

	promo := NoPieceType
	if len(s) == 5 {
		promo = PromotionFromChar(s[4])
		if promo == NoPieceType {
			return NoMove, errors.Wrapf(ErrBadNotation, "%q: bad promotion piece %q", s, s[4])
		}
	}

	illegal := func(r IllegalReason) (Move, error) {
		return NoMove, &IllegalMoveError{Notation: s, Reason: r}
	}

	piece := p.Board[from]
	if piece == NoPiece {
		return illegal(ReasonEmptyOrigin)
	}
	if piece.Color() != p.SideToMove {
		return illegal(ReasonWrongSide)
	}

	// Candidates share from/to; promotions come in four variants.
	var reachable, legal bool
	needsPromotion := false
	pseudo := p.GeneratePseudoLegalMoves()
	for _, m := range pseudo.Slice() {
		if m.From != from || m.To != to {
			continue
		}
		reachable = true
		if !p.IsLegal(m) {
			continue
		}
		legal = true
		if m.IsPromotion() {
			needsPromotion = true
		}
		if m.Promotion == promo {
			return m, nil
		}
	}

	switch {
	case !reachable:
		return illegal(ReasonUnreachable)
	case !legal:
		return illegal(ReasonSelfCheck)
	case needsPromotion && promo == NoPieceType:
		return illegal(ReasonMissingPromotion)
	default:
		// A promotion letter on a move that does not promote.
		return illegal(ReasonUnreachable)
	}
}
