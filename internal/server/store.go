package server

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"battleship/internal/app"
)

var ErrGameNotFound = errors.New("game not found")

// Game is one session behind the API. mu serialises every move.
type Game struct {
	ID      uuid.UUID
	Created time.Time

	mu      sync.Mutex
	session *app.Session
	hub     *Hub
}

// Store keeps live games in memory.
type Store struct {
	mu    sync.RWMutex
	games map[uuid.UUID]*Game
}

func NewStore() *Store {
	return &Store{games: make(map[uuid.UUID]*Game)}
}

func (st *Store) Add(s *app.Session) *Game {
	g := &Game{ID: uuid.New(), Created: time.Now(), session: s, hub: NewHub()}
	st.mu.Lock()
	st.games[g.ID] = g
	st.mu.Unlock()
	return g
}

// Find looks a game up by its string id.
func (st *Store) Find(id string) (*Game, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrGameNotFound
	}
	st.mu.RLock()
	g, ok := st.games[key]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// Remove drops the game and disconnects its listeners.
func (st *Store) Remove(id string) error {
	g, err := st.Find(id)
	if err != nil {
		return err
	}
	st.mu.Lock()
	delete(st.games, g.ID)
	st.mu.Unlock()
	g.hub.Close()
	return nil
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.games)
}
