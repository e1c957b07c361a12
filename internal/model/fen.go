package model

import (
	"fmt"
	"strings"
)

var fenTypes = map[byte]PieceType{
	'k': King, 'q': Queen, 'r': Rook, 'b': Bishop, 'n': Knight, 'p': Pawn,
}

// ParseFEN reads the piece-placement field of a FEN string. Any fields after
// the first space are ignored.
func ParseFEN(fen string) (*Board, error) {
	placement := strings.TrimSpace(fen)
	if i := strings.IndexByte(placement, ' '); i >= 0 {
		placement = placement[:i]
	}
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("fen: want 8 ranks, got %d", len(ranks))
	}
	board := NewEmptyBoard()
	for i, rank := range ranks {
		row := 8 - i
		col := 1
		for j := 0; j < len(rank); j++ {
			ch := rank[j]
			if ch >= '1' && ch <= '8' {
				col += int(ch - '0')
				continue
			}
			lower := ch | 0x20
			kind, ok := fenTypes[lower]
			if !ok {
				return nil, fmt.Errorf("fen: unknown piece %q in rank %d", ch, row)
			}
			if col > 8 {
				return nil, fmt.Errorf("fen: rank %d overflows", row)
			}
			color := Black
			if ch != lower {
				color = White
			}
			board.AddPiece(Position{Row: row, Col: col}, NewPiece(color, kind))
			col++
		}
		if col != 9 {
			return nil, fmt.Errorf("fen: rank %d has %d squares", row, col-1)
		}
	}
	return board, nil
}

// FEN returns the piece-placement field for the board.
func (b *Board) FEN() string {
	var sb strings.Builder
	for row := 8; row >= 1; row-- {
		empty := 0
		for col := 1; col <= 8; col++ {
			piece := b.Piece(Position{Row: row, Col: col})
			if piece == nil {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			ch := strings.ToLower(piece.Type.getPieceNotation())
			if piece.Color == White {
				ch = strings.ToUpper(ch)
			}
			sb.WriteString(ch)
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
		if row > 1 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}
