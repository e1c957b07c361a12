package ws

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/relaychess-backend/internal/model"
)

// CommandType identifies an inbound client command.
type CommandType string

const (
	CommandConnect  CommandType = "CONNECT"
	CommandMakeMove CommandType = "MAKE_MOVE"
	CommandLeave    CommandType = "LEAVE"
	CommandResign   CommandType = "RESIGN"
)

// Command is the envelope every client frame carries. Move is set only for MAKE_MOVE.
type Command struct {
	Type      CommandType `json:"commandType"`
	AuthToken string      `json:"authToken"`
	GameID    int         `json:"gameID"`
	Move      *model.Move `json:"move,omitempty"`
}

// DecodeCommand parses one client frame.
func DecodeCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Command{}, fmt.Errorf("decode command: %w", err)
	}
	switch cmd.Type {
	case CommandConnect, CommandMakeMove, CommandLeave, CommandResign:
	default:
		return Command{}, fmt.Errorf("unknown command type %q", cmd.Type)
	}
	return cmd, nil
}

// MessageType discriminates server messages.
type MessageType string

const (
	MessageTypeLoadGame     MessageType = "LOAD_GAME"
	MessageTypeNotification MessageType = "NOTIFICATION"
	MessageTypeError        MessageType = "ERROR"
)

// Message is the server-to-client tagged union. Exactly one payload field is
// populated, matching Type.
type Message struct {
	Type         MessageType      `json:"serverMessageType"`
	Game         *model.GameState `json:"game,omitempty"`
	Text         string           `json:"message,omitempty"`
	ErrorMessage string           `json:"errorMessage,omitempty"`
}

func LoadGame(game model.GameState) Message {
	snapshot := game.Clone()
	return Message{Type: MessageTypeLoadGame, Game: &snapshot}
}

func Notification(text string) Message {
	return Message{Type: MessageTypeNotification, Text: text}
}

func Error(text string) Message {
	return Message{Type: MessageTypeError, ErrorMessage: "Error: " + text}
}

// Encode renders the message as a JSON text frame.
func (m Message) Encode() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode %s message: %w", m.Type, err)
	}
	return data, nil
}
