package model

import "fmt"

// Move is a request to move the piece on Start to End. Promotion is set only
// when a pawn reaches the far rank.
type Move struct {
	Start     Position  `json:"startPosition"`
	End       Position  `json:"endPosition"`
	Promotion PieceType `json:"promotionPiece,omitempty"`
}

func (m Move) String() string {
	if m.Promotion != "" {
		return fmt.Sprintf("%s to %s (%s)", m.Start, m.End, m.Promotion)
	}
	return fmt.Sprintf("%s to %s", m.Start, m.End)
}

var (
	rookDirs   = []Position{{Row: 1, Col: 0}, {Row: -1, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: -1}}
	bishopDirs = []Position{{Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: -1, Col: -1}}
	queenDirs  = append(append([]Position{}, rookDirs...), bishopDirs...)
	knightDirs = []Position{{Row: 2, Col: 1}, {Row: 2, Col: -1}, {Row: -2, Col: 1}, {Row: -2, Col: -1}, {Row: 1, Col: 2}, {Row: 1, Col: -2}, {Row: -1, Col: 2}, {Row: -1, Col: -2}}
	kingDirs   = queenDirs
)

// PieceMoves returns the pseudo-legal moves of the piece on pos. Moves that
// leave the mover's own king in check are included. An empty square yields nil.
func PieceMoves(board *Board, pos Position) []Move {
	piece := board.Piece(pos)
	if piece == nil {
		return nil
	}
	switch piece.Type {
	case Pawn:
		return pawnMoves(board, pos, piece)
	case Knight:
		return stepMoves(board, pos, piece, knightDirs)
	case Bishop:
		return slideMoves(board, pos, piece, bishopDirs)
	case Rook:
		return slideMoves(board, pos, piece, rookDirs)
	case Queen:
		return slideMoves(board, pos, piece, queenDirs)
	case King:
		return stepMoves(board, pos, piece, kingDirs)
	default:
		return nil
	}
}

// slideMoves walks each ray until the edge or the first occupied square,
// which is included only when it holds an enemy piece.
func slideMoves(board *Board, from Position, piece *Piece, dirs []Position) []Move {
	moves := []Move{}
	for _, dir := range dirs {
		target := from.offset(dir.Row, dir.Col)
		for target.Valid() {
			occupant := board.Piece(target)
			if occupant == nil {
				moves = append(moves, Move{Start: from, End: target})
			} else {
				if occupant.Color != piece.Color {
					moves = append(moves, Move{Start: from, End: target})
				}
				break
			}
			target = target.offset(dir.Row, dir.Col)
		}
	}
	return moves
}

func stepMoves(board *Board, from Position, piece *Piece, dirs []Position) []Move {
	moves := []Move{}
	for _, dir := range dirs {
		target := from.offset(dir.Row, dir.Col)
		if !target.Valid() {
			continue
		}
		if occupant := board.Piece(target); occupant == nil || occupant.Color != piece.Color {
			moves = append(moves, Move{Start: from, End: target})
		}
	}
	return moves
}

func pawnDirection(color Color) (dir, startRow, lastRow int) {
	if color == White {
		return 1, 2, 8
	}
	return -1, 7, 1
}

func pawnMoves(board *Board, from Position, piece *Piece) []Move {
	moves := []Move{}
	dir, startRow, lastRow := pawnDirection(piece.Color)

	add := func(to Position) {
		if to.Row == lastRow {
			for _, kind := range promotionTypes {
				moves = append(moves, Move{Start: from, End: to, Promotion: kind})
			}
			return
		}
		moves = append(moves, Move{Start: from, End: to})
	}

	// forward 1, then 2 from the starting rank
	one := from.offset(dir, 0)
	if one.Valid() && board.Piece(one) == nil {
		add(one)
		two := from.offset(2*dir, 0)
		if from.Row == startRow && board.Piece(two) == nil {
			add(two)
		}
	}
	// captures
	for _, dCol := range []int{-1, 1} {
		target := from.offset(dir, dCol)
		if !target.Valid() {
			continue
		}
		if occupant := board.Piece(target); occupant != nil && occupant.Color != piece.Color {
			add(target)
		}
	}
	return moves
}

// Notation returns a short algebraic description of m as played on board,
// computed before the move is applied.
func (m Move) Notation(board *Board) string {
	piece := board.Piece(m.Start)
	if piece == nil {
		return m.String()
	}
	prefix := piece.Type.getPieceNotation()
	if piece.Type == Pawn {
		prefix = ""
		if m.Start.Col != m.End.Col {
			prefix = m.Start.String()[:1]
		}
	}
	capture := ""
	if board.Piece(m.End) != nil {
		capture = "x"
	}
	suffix := ""
	if m.Promotion != "" {
		suffix = "=" + m.Promotion.getPieceNotation()
	}
	return fmt.Sprintf("%s%s%s%s", prefix, capture, m.End, suffix)
}
