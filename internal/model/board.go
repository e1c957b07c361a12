package model

import (
	"encoding/json"
	"fmt"
)

type PieceType string

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return "P"
	}
	return ""
}

const (
	King   PieceType = "KING"
	Queen  PieceType = "QUEEN"
	Rook   PieceType = "ROOK"
	Bishop PieceType = "BISHOP"
	Knight PieceType = "KNIGHT"
	Pawn   PieceType = "PAWN"
)

// promotionTypes are the kinds a pawn may become on the far rank.
var promotionTypes = []PieceType{Queen, Rook, Bishop, Knight}

func (p PieceType) valid() bool {
	switch p {
	case King, Queen, Rook, Bishop, Knight, Pawn:
		return true
	}
	return false
}

type Color string

const (
	White Color = "WHITE"
	Black Color = "BLACK"
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

func (c Color) valid() bool {
	return c == White || c == Black
}

// Piece is an immutable color/kind pair. Boards share *Piece values freely.
type Piece struct {
	Color Color     `json:"teamColor"`
	Type  PieceType `json:"pieceType"`
}

func NewPiece(color Color, kind PieceType) *Piece {
	return &Piece{Color: color, Type: kind}
}

// Position is a square on the board; Row and Col are both in [1,8].
// Row 1 is white's back rank.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) Valid() bool {
	return p.Row >= 1 && p.Row <= 8 && p.Col >= 1 && p.Col <= 8
}

func (p Position) offset(dRow, dCol int) Position {
	return Position{Row: p.Row + dRow, Col: p.Col + dCol}
}

// String renders the square in algebraic notation, e.g. e4.
func (p Position) String() string {
	if !p.Valid() {
		return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
	}
	return fmt.Sprintf("%c%d", 'a'+p.Col-1, p.Row)
}

// Board is an 8x8 grid of optional pieces. The zero value is an empty board.
// Copying a Board by value yields an independent snapshot.
type Board struct {
	squares [8][8]*Piece
}

func NewEmptyBoard() *Board {
	return &Board{}
}

// NewBoard returns a board in the standard starting position.
func NewBoard() *Board {
	b := &Board{}
	back := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col := 1; col <= 8; col++ {
		b.AddPiece(Position{Row: 1, Col: col}, NewPiece(White, back[col-1]))
		b.AddPiece(Position{Row: 2, Col: col}, NewPiece(White, Pawn))
		b.AddPiece(Position{Row: 7, Col: col}, NewPiece(Black, Pawn))
		b.AddPiece(Position{Row: 8, Col: col}, NewPiece(Black, back[col-1]))
	}
	return b
}

// AddPiece places piece at pos, replacing any occupant. A nil piece clears the square.
// Positions off the board are ignored.
func (b *Board) AddPiece(pos Position, piece *Piece) {
	if !pos.Valid() {
		return
	}
	b.squares[pos.Row-1][pos.Col-1] = piece
}

func (b *Board) RemovePiece(pos Position) {
	b.AddPiece(pos, nil)
}

// Piece returns the occupant of pos, or nil if the square is empty or off the board.
func (b *Board) Piece(pos Position) *Piece {
	if !pos.Valid() {
		return nil
	}
	return b.squares[pos.Row-1][pos.Col-1]
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}

// Equal reports whether both boards hold the same pieces on the same squares.
func (b *Board) Equal(other *Board) bool {
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p, q := b.squares[row][col], other.squares[row][col]
			if (p == nil) != (q == nil) {
				return false
			}
			if p != nil && *p != *q {
				return false
			}
		}
	}
	return true
}

// each calls fn for every occupied square in row-major order from a1.
func (b *Board) each(fn func(Position, *Piece)) {
	for row := 1; row <= 8; row++ {
		for col := 1; col <= 8; col++ {
			pos := Position{Row: row, Col: col}
			if piece := b.Piece(pos); piece != nil {
				fn(pos, piece)
			}
		}
	}
}

// MarshalJSON encodes the board as eight ranks of eight squares, rank 1 first.
func (b *Board) MarshalJSON() ([]byte, error) {
	rows := make([][]*Piece, 8)
	for row := 0; row < 8; row++ {
		rows[row] = b.squares[row][:]
	}
	return json.Marshal(struct {
		Squares [][]*Piece `json:"squares"`
	}{Squares: rows})
}

func (b *Board) UnmarshalJSON(data []byte) error {
	var raw struct {
		Squares [][]*Piece `json:"squares"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Squares) != 8 {
		return fmt.Errorf("board must have 8 ranks, got %d", len(raw.Squares))
	}
	var squares [8][8]*Piece
	for row, rank := range raw.Squares {
		if len(rank) != 8 {
			return fmt.Errorf("rank %d must have 8 squares, got %d", row+1, len(rank))
		}
		for col, piece := range rank {
			if piece == nil {
				continue
			}
			if !piece.Color.valid() || !piece.Type.valid() {
				return fmt.Errorf("invalid piece %q %q at rank %d", piece.Color, piece.Type, row+1)
			}
			squares[row][col] = piece
		}
	}
	b.squares = squares
	return nil
}
