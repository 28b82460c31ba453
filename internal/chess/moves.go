package chess

type direction struct{ dRow, dCol int }

var (
	orthogonal = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonal   = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	allAround  = append(append([]direction{}, orthogonal...), diagonal...)
	knightHops = []direction{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
)

type moveFunc func(b *Board, from Position, piece Piece) []Move

// moveFuncs selects the pseudo-legal generator for each kind
var moveFuncs = [...]moveFunc{
	King:   stepMoves(allAround),
	Queen:  slideMoves(allAround),
	Bishop: slideMoves(diagonal),
	Knight: stepMoves(knightHops),
	Rook:   slideMoves(orthogonal),
	Pawn:   pawnMoves,
}

// PseudoLegalMoves returns the moves piece at from could make, ignoring whether
// they leave its own king in check.
func PseudoLegalMoves(b *Board, from Position, piece Piece) []Move {
	if piece.IsZero() || int(piece.Kind) >= len(moveFuncs) {
		return nil
	}
	return moveFuncs[piece.Kind](b, from, piece)
}

func slideMoves(dirs []direction) moveFunc {
	return func(b *Board, from Position, piece Piece) []Move {
		var moves []Move
		for _, d := range dirs {
			for to := from.Offset(d.dRow, d.dCol); to.Valid(); to = to.Offset(d.dRow, d.dCol) {
				occupant, occupied := b.Get(to)
				if occupied {
					if occupant.Color != piece.Color {
						moves = append(moves, NewMove(from, to))
					}
					break
				}
				moves = append(moves, NewMove(from, to))
			}
		}
		return moves
	}
}

func stepMoves(dirs []direction) moveFunc {
	return func(b *Board, from Position, piece Piece) []Move {
		var moves []Move
		for _, d := range dirs {
			to := from.Offset(d.dRow, d.dCol)
			if !to.Valid() {
				continue
			}
			if occupant, occupied := b.Get(to); occupied && occupant.Color == piece.Color {
				continue
			}
			moves = append(moves, NewMove(from, to))
		}
		return moves
	}
}

func pawnMoves(b *Board, from Position, piece Piece) []Move {
	forward, startRow := 1, 1
	if piece.Color == Black {
		forward, startRow = -1, 6
	}

	var moves []Move
	one := from.Offset(forward, 0)
	if one.Valid() {
		if _, occupied := b.Get(one); !occupied {
			moves = appendPawnMove(moves, from, one)
			two := one.Offset(forward, 0)
			if from.Row == startRow && two.Valid() {
				if _, occupied := b.Get(two); !occupied {
					moves = appendPawnMove(moves, from, two)
				}
			}
		}
	}

	for _, dCol := range []int{-1, 1} {
		to := from.Offset(forward, dCol)
		if !to.Valid() {
			continue
		}
		if occupant, occupied := b.Get(to); occupied && occupant.Color != piece.Color {
			moves = appendPawnMove(moves, from, to)
		}
	}
	return moves
}

// appendPawnMove expands a move onto the far rank into one move per promotion kind
func appendPawnMove(moves []Move, from, to Position) []Move {
	if to.Row != 0 && to.Row != BoardSize-1 {
		return append(moves, NewMove(from, to))
	}
	for _, kind := range PromotionKinds {
		moves = append(moves, Move{Start: from, End: to, Promotion: kind})
	}
	return moves
}
