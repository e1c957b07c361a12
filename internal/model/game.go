package model

import (
	"errors"
	"fmt"
)

var (
	ErrNoPieceAtSource = errors.New("no piece at start position")
	ErrWrongTurn       = errors.New("not that side's turn")
	ErrIllegalMove     = errors.New("illegal move")
	ErrGameOver        = errors.New("game is over")
)

// Game is the rules engine state: a board, the side to move and the game-over flag.
type Game struct {
	Board *Board `json:"board"`
	Turn  Color  `json:"teamTurn"`
	Over  bool   `json:"gameOver"`
}

// NewGame returns a game in the standard starting position with white to move.
func NewGame() *Game {
	return &Game{
		Board: NewBoard(),
		Turn:  White,
	}
}

func (g *Game) Clone() *Game {
	return &Game{
		Board: g.Board.Clone(),
		Turn:  g.Turn,
		Over:  g.Over,
	}
}

// ValidMoves returns the legal moves of the piece on pos, or nil if the square is empty.
// Each pseudo-legal move is tried on a scratch copy of the board and kept only if the
// mover's king is not left in check.
func (g *Game) ValidMoves(pos Position) []Move {
	piece := g.Board.Piece(pos)
	if piece == nil {
		return nil
	}
	legal := []Move{}
	for _, move := range PieceMoves(g.Board, pos) {
		scratch := g.Board.Clone()
		apply(scratch, move)
		if !inCheck(scratch, piece.Color) {
			legal = append(legal, move)
		}
	}
	return legal
}

// IsInCheck reports whether any opposing piece attacks the king of color.
func (g *Game) IsInCheck(color Color) bool {
	return inCheck(g.Board, color)
}

// AnyLegalMoves reports whether color has at least one legal move. A side with
// no pieces has none.
func (g *Game) AnyLegalMoves(color Color) bool {
	found := false
	g.Board.each(func(pos Position, piece *Piece) {
		if found || piece.Color != color {
			return
		}
		found = len(g.ValidMoves(pos)) > 0
	})
	return found
}

func (g *Game) IsInCheckmate(color Color) bool {
	return g.IsInCheck(color) && !g.AnyLegalMoves(color)
}

func (g *Game) IsInStalemate(color Color) bool {
	return !g.IsInCheck(color) && !g.AnyLegalMoves(color)
}

type Status string

const (
	StatusNormal    Status = "normal"
	StatusCheck     Status = "check"
	StatusCheckmate Status = "checkmate"
	StatusStalemate Status = "stalemate"
)

// Status classifies the position for color.
func (g *Game) Status(color Color) Status {
	check := g.IsInCheck(color)
	moves := g.AnyLegalMoves(color)
	switch {
	case check && !moves:
		return StatusCheckmate
	case !moves:
		return StatusStalemate
	case check:
		return StatusCheck
	default:
		return StatusNormal
	}
}

// MakeMove validates and plays move for the side to move. On success the turn
// passes to the opponent, and the game ends if the opponent is checkmated or
// stalemated. On failure the game is left exactly as it was.
func (g *Game) MakeMove(move Move) error {
	if g.Over {
		return ErrGameOver
	}
	piece := g.Board.Piece(move.Start)
	if piece == nil {
		return ErrNoPieceAtSource
	}
	if piece.Color != g.Turn {
		return ErrWrongTurn
	}
	if !containsMove(g.ValidMoves(move.Start), move) {
		return fmt.Errorf("%w: %s", ErrIllegalMove, move)
	}

	next := g.Board.Clone()
	apply(next, move)
	// ValidMoves already filtered self-check; a hit here means the filter is broken.
	if inCheck(next, piece.Color) {
		return fmt.Errorf("%w: %s leaves %s in check", ErrIllegalMove, move, piece.Color)
	}

	g.Board = next
	g.Turn = g.Turn.Opponent()
	if !g.AnyLegalMoves(g.Turn) {
		g.Over = true
	}
	return nil
}

// Resign ends the game.
func (g *Game) Resign() error {
	if g.Over {
		return ErrGameOver
	}
	g.Over = true
	return nil
}

// apply plays move on board without any legality checks.
func apply(board *Board, move Move) {
	piece := board.Piece(move.Start)
	if move.Promotion != "" {
		piece = NewPiece(piece.Color, move.Promotion)
	}
	board.AddPiece(move.End, piece)
	board.RemovePiece(move.Start)
}

func inCheck(board *Board, color Color) bool {
	attacked := false
	board.each(func(pos Position, piece *Piece) {
		if attacked || piece.Color == color {
			return
		}
		for _, move := range PieceMoves(board, pos) {
			if target := board.Piece(move.End); target != nil && target.Type == King && target.Color == color {
				attacked = true
				return
			}
		}
	})
	return attacked
}

func containsMove(moves []Move, move Move) bool {
	for _, m := range moves {
		if m == move {
			return true
		}
	}
	return false
}
