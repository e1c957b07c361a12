package model

import (
	"strings"
	"testing"

	"github.com/notnil/chess"
)

// legalMoveCount counts every legal move for the side to move.
func legalMoveCount(game *Game) int {
	total := 0
	game.Board.each(func(pos Position, piece *Piece) {
		if piece.Color == game.Turn {
			total += len(game.ValidMoves(pos))
		}
	})
	return total
}

// Positions are chosen without castling rights or en-passant targets so that
// both engines play by the same rules.
func TestLegalMoveCountMatchesReferenceEngine(t *testing.T) {
	positions := []string{
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w - - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w - - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R b - - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 b - - 0 1",
		"r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w - - 0 1",
		"rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w - - 1 8",
		"4k3/4r3/8/8/8/8/4B3/4K3 w - - 0 1",
		"k6R/8/1K6/8/8/8/8/8 b - - 0 1",
		"k7/8/1QK5/8/8/8/8/8 b - - 0 1",
	}
	for _, fen := range positions {
		t.Run(fen, func(t *testing.T) {
			opt, err := chess.FEN(fen)
			if err != nil {
				t.Fatalf("reference fen: %v", err)
			}
			want := len(chess.NewGame(opt).ValidMoves())

			turn := White
			if fields := strings.Fields(fen); len(fields) > 1 && fields[1] == "b" {
				turn = Black
			}
			game := &Game{Board: mustFEN(t, fen), Turn: turn}
			if got := legalMoveCount(game); got != want {
				t.Fatalf("legal moves = %d, want %d", got, want)
			}
		})
	}
}
