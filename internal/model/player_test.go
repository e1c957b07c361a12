package model

import (
	"slices"
	"testing"
)

func TestSeats(t *testing.T) {
	tests := []struct {
		name         string
		white, black string
		user         string
		want         []Color
		first        Color
	}{
		{"white only", "alice", "bob", "alice", []Color{White}, White},
		{"black only", "alice", "bob", "bob", []Color{Black}, Black},
		{"both seats", "solo", "solo", "solo", []Color{White, Black}, White},
		{"observer", "alice", "bob", "carol", nil, ""},
		{"empty name never matches an open seat", "", "", "", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewGameState("g")
			s.SetSeat(White, tt.white)
			s.SetSeat(Black, tt.black)
			if got := s.Colors(tt.user); !slices.Equal(got, tt.want) {
				t.Fatalf("Colors = %v, want %v", got, tt.want)
			}
			color, ok := s.ColorOf(tt.user)
			if color != tt.first || ok != (tt.first != "") {
				t.Fatalf("ColorOf = %s, %v", color, ok)
			}
		})
	}
}
