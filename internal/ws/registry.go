package ws

import (
	"log"
	"sort"
	"sync"
)

// Channel is a live, message-oriented link to one client.
type Channel interface {
	Send(data []byte) error
	Closed() bool
}

// Membership names one registry entry.
type Membership struct {
	GameID      int
	Participant string
}

// Registry is the directory of live participants per game. All methods are
// safe for concurrent use; sends happen outside the lock.
type Registry struct {
	mu    sync.RWMutex
	games map[int]map[string]Channel // gameID -> participant -> channel
}

func NewRegistry() *Registry {
	return &Registry{
		games: make(map[int]map[string]Channel),
	}
}

// Register upserts the channel for participant in gameID, replacing any prior one.
func (r *Registry) Register(gameID int, participant string, ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conns, ok := r.games[gameID]
	if !ok {
		conns = make(map[string]Channel)
		r.games[gameID] = conns
	}
	conns[participant] = ch
}

// Unregister removes participant from gameID. Empty games are dropped.
func (r *Registry) Unregister(gameID int, participant string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(gameID, participant)
}

// UnregisterChannel removes every entry still bound to ch and returns what it removed.
// Entries that were re-registered with a newer channel are left alone.
func (r *Registry) UnregisterChannel(ch Channel) []Membership {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []Membership
	for gameID, conns := range r.games {
		for participant, current := range conns {
			if current == ch {
				removed = append(removed, Membership{GameID: gameID, Participant: participant})
			}
		}
	}
	for _, m := range removed {
		r.remove(m.GameID, m.Participant)
	}
	return removed
}

func (r *Registry) remove(gameID int, participant string) {
	conns, ok := r.games[gameID]
	if !ok {
		return
	}
	delete(conns, participant)
	if len(conns) == 0 {
		delete(r.games, gameID)
	}
}

// Unicast sends msg to participant's channel in gameID. It reports whether a
// live channel received it; a missing or closed channel is not an error.
func (r *Registry) Unicast(gameID int, participant string, msg Message) bool {
	r.mu.RLock()
	ch := r.games[gameID][participant]
	r.mu.RUnlock()

	if ch == nil || ch.Closed() {
		return false
	}
	data, err := msg.Encode()
	if err != nil {
		log.Printf("unicast game %d to %s: %v", gameID, participant, err)
		return false
	}
	return deliver(ch, data, gameID, participant)
}

// Broadcast sends msg to every channel in gameID except exclude's, skipping
// closed channels. An empty exclude reaches everyone. It returns the number of
// channels that received the message.
func (r *Registry) Broadcast(gameID int, exclude string, msg Message) int {
	r.mu.RLock()
	targets := make(map[string]Channel, len(r.games[gameID]))
	for participant, ch := range r.games[gameID] {
		if exclude != "" && participant == exclude {
			continue
		}
		targets[participant] = ch
	}
	r.mu.RUnlock()

	if len(targets) == 0 {
		return 0
	}
	data, err := msg.Encode()
	if err != nil {
		log.Printf("broadcast game %d: %v", gameID, err)
		return 0
	}
	delivered := 0
	for participant, ch := range targets {
		if ch.Closed() {
			continue
		}
		if deliver(ch, data, gameID, participant) {
			delivered++
		}
	}
	return delivered
}

// Participants lists the participants registered in gameID, sorted.
func (r *Registry) Participants(gameID int) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	participants := make([]string, 0, len(r.games[gameID]))
	for participant := range r.games[gameID] {
		participants = append(participants, participant)
	}
	sort.Strings(participants)
	return participants
}

// Games returns the number of games with at least one registered participant.
func (r *Registry) Games() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

func deliver(ch Channel, data []byte, gameID int, participant string) bool {
	if err := ch.Send(data); err != nil {
		if !ch.Closed() {
			log.Printf("send to %s in game %d: %v", participant, gameID, err)
		}
		return false
	}
	return true
}
