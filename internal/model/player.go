package model

import "strings"

// User is a registered account. Password holds a bcrypt hash, never the plain text.
type User struct {
	Username string `json:"username"`
	Password string `json:"-"`
	Email    string `json:"email"`
}

// Auth binds a session token to the user it was issued for.
type Auth struct {
	Token    string `json:"authToken"`
	Username string `json:"username"`
}

// GameState is the persisted record of one game: the rules engine state plus
// the seated players. An empty username means the seat is open.
type GameState struct {
	ID            int    `json:"gameID"`
	Name          string `json:"gameName"`
	WhiteUsername string `json:"whiteUsername,omitempty"`
	BlackUsername string `json:"blackUsername,omitempty"`
	Game          *Game  `json:"game"`
}

func NewGameState(name string) GameState {
	return GameState{
		Name: strings.TrimSpace(name),
		Game: NewGame(),
	}
}

// Clone returns a copy that shares no mutable state with s.
func (s GameState) Clone() GameState {
	c := s
	if s.Game != nil {
		c.Game = s.Game.Clone()
	}
	return c
}

// ColorOf returns the seat held by username, if any.
func (s GameState) ColorOf(username string) (Color, bool) {
	switch {
	case username == "":
		return "", false
	case s.WhiteUsername == username:
		return White, true
	case s.BlackUsername == username:
		return Black, true
	}
	return "", false
}

// Colors returns every seat held by username, white first. One user may hold both.
func (s GameState) Colors(username string) []Color {
	if username == "" {
		return nil
	}
	var colors []Color
	if s.WhiteUsername == username {
		colors = append(colors, White)
	}
	if s.BlackUsername == username {
		colors = append(colors, Black)
	}
	return colors
}

// Seat returns the username seated as color.
func (s GameState) Seat(color Color) string {
	if color == White {
		return s.WhiteUsername
	}
	return s.BlackUsername
}

// SetSeat assigns username to color; an empty username opens the seat.
func (s *GameState) SetSeat(color Color, username string) {
	if color == White {
		s.WhiteUsername = username
		return
	}
	s.BlackUsername = username
}

// ParseColor accepts WHITE or BLACK in any case.
func ParseColor(s string) (Color, bool) {
	c := Color(strings.ToUpper(strings.TrimSpace(s)))
	return c, c.valid()
}
