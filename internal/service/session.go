package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/benbeisheim/relaychess-backend/internal/model"
	"github.com/benbeisheim/relaychess-backend/internal/ws"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/benbeisheim/relaychess-backend/internal/service"

// Authenticator resolves a session token to a participant name.
type Authenticator interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// Coordinator runs the live session protocol: it authenticates each command,
// applies it to the game under the game's lock, persists the result and fans
// out messages through the registry. Failures go back to the requesting
// channel only.
type Coordinator struct {
	auth        Authenticator
	gameManager *GameManager
	registry    *ws.Registry
	tracer      trace.Tracer
}

func NewCoordinator(auth Authenticator, gameManager *GameManager, registry *ws.Registry) *Coordinator {
	return &Coordinator{
		auth:        auth,
		gameManager: gameManager,
		registry:    registry,
		tracer:      otel.Tracer(tracerName),
	}
}

// Handle processes one inbound frame from ch.
func (c *Coordinator) Handle(ctx context.Context, ch ws.Channel, frame []byte) {
	cmd, err := ws.DecodeCommand(frame)
	if err != nil {
		log.Printf("decode command: %v", err)
		reply(ch, ws.Error("could not read command"))
		return
	}

	ctx, span := c.tracer.Start(ctx, "session."+strings.ToLower(string(cmd.Type)),
		trace.WithAttributes(
			attribute.String("chess.command", string(cmd.Type)),
			attribute.Int("chess.game_id", cmd.GameID),
		))
	defer span.End()

	if err := c.dispatch(ctx, ch, cmd); err != nil {
		kind := KindOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(kind))
		if kind == KindPersistence {
			log.Printf("%s game %d: %v", cmd.Type, cmd.GameID, err)
		}
		reply(ch, ws.Error(Message(err)))
	}
}

// Disconnect drops every registration held by ch.
func (c *Coordinator) Disconnect(ch ws.Channel) {
	for _, m := range c.registry.UnregisterChannel(ch) {
		log.Printf("%s disconnected from game %d", m.Participant, m.GameID)
	}
}

func (c *Coordinator) dispatch(ctx context.Context, ch ws.Channel, cmd ws.Command) error {
	username, err := c.auth.Resolve(ctx, cmd.AuthToken)
	if err != nil {
		return err
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("chess.participant", username))

	switch cmd.Type {
	case ws.CommandConnect:
		return c.connect(ctx, ch, username, cmd.GameID)
	case ws.CommandMakeMove:
		return c.makeMove(ctx, ch, username, cmd.GameID, cmd.Move)
	case ws.CommandLeave:
		return c.leave(ctx, username, cmd.GameID)
	case ws.CommandResign:
		return c.resign(ctx, ch, username, cmd.GameID)
	default:
		return newError(KindBadRequest, fmt.Sprintf("unknown command %q", cmd.Type))
	}
}

func (c *Coordinator) connect(ctx context.Context, ch ws.Channel, username string, gameID int) error {
	return c.gameManager.Do(ctx, gameID, func(game *model.GameState, _ func() error) error {
		c.registry.Register(gameID, username, ch)

		role := "an observer"
		if colors := game.Colors(username); len(colors) > 0 {
			role = joinColors(colors, " and ")
		}
		c.registry.Broadcast(gameID, username, ws.Notification(fmt.Sprintf("%s joined the game as %s.", username, role)))
		reply(ch, ws.LoadGame(*game))
		return nil
	})
}

func (c *Coordinator) makeMove(ctx context.Context, ch ws.Channel, username string, gameID int, move *model.Move) error {
	return c.gameManager.Do(ctx, gameID, func(game *model.GameState, save func() error) error {
		if game.Game.Over {
			return ErrGameOver
		}
		if move == nil {
			return newError(KindIllegalMove, "move cannot be empty")
		}
		if _, seated := game.ColorOf(username); !seated {
			return ErrNotAPlayer
		}
		// A user holding both seats moves for whichever side is to play.
		color := game.Game.Turn
		if game.Seat(color) != username {
			return ErrWrongTurn
		}

		notation := move.Notation(game.Game.Board)
		if err := game.Game.MakeMove(*move); err != nil {
			return fromRules(err)
		}
		// Nothing is sent unless the new position is durable.
		if err := save(); err != nil {
			return err
		}

		snapshot := ws.LoadGame(*game)
		reply(ch, snapshot)
		c.registry.Broadcast(gameID, username, snapshot)
		c.registry.Broadcast(gameID, username, ws.Notification(moveText(username, color, *move, notation, game.Game)))
		return nil
	})
}

func (c *Coordinator) leave(ctx context.Context, username string, gameID int) error {
	return c.gameManager.Do(ctx, gameID, func(game *model.GameState, save func() error) error {
		colors := game.Colors(username)
		if len(colors) > 0 {
			for _, color := range colors {
				game.SetSeat(color, "")
			}
			if err := save(); err != nil {
				return err
			}
		}
		c.registry.Unregister(gameID, username)

		text := fmt.Sprintf("%s (observer) has left the game.", username)
		if len(colors) > 0 {
			text = fmt.Sprintf("%s (%s) has left the game.", username, joinColors(colors, "/"))
		}
		c.registry.Broadcast(gameID, username, ws.Notification(text))
		return nil
	})
}

func (c *Coordinator) resign(ctx context.Context, ch ws.Channel, username string, gameID int) error {
	return c.gameManager.Do(ctx, gameID, func(game *model.GameState, save func() error) error {
		if game.Game.Over {
			return newError(KindGameOver, "the game is already over")
		}
		colors := game.Colors(username)
		if len(colors) == 0 {
			return newError(KindNotAPlayer, "only players can resign")
		}
		color := colors[0]
		if game.Seat(game.Game.Turn) == username {
			color = game.Game.Turn
		}
		if err := game.Game.Resign(); err != nil {
			return fromRules(err)
		}
		if err := save(); err != nil {
			return err
		}

		msg := ws.Notification(fmt.Sprintf("%s (%s) has resigned. The game is over.", username, color))
		reply(ch, msg)
		c.registry.Broadcast(gameID, username, msg)
		return nil
	})
}

// moveText describes an accepted move and the resulting state of the side to move.
func moveText(username string, color model.Color, move model.Move, notation string, game *model.Game) string {
	text := fmt.Sprintf("%s (%s) moved %s [%s].", username, color, move, notation)
	switch game.Status(game.Turn) {
	case model.StatusCheckmate:
		text += fmt.Sprintf(" %s is in checkmate. The game is over.", game.Turn)
	case model.StatusStalemate:
		text += fmt.Sprintf(" %s is in stalemate. The game is over.", game.Turn)
	case model.StatusCheck:
		text += fmt.Sprintf(" %s is in check.", game.Turn)
	}
	return text
}

func joinColors(colors []model.Color, sep string) string {
	names := make([]string, len(colors))
	for i, c := range colors {
		names[i] = string(c)
	}
	return strings.Join(names, sep)
}

func reply(ch ws.Channel, msg ws.Message) {
	if ch.Closed() {
		return
	}
	data, err := msg.Encode()
	if err != nil {
		log.Printf("reply: %v", err)
		return
	}
	if err := ch.Send(data); err != nil && !ch.Closed() {
		log.Printf("reply %s: %v", msg.Type, err)
	}
}
