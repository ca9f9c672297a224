package memory

import (
	"context"
	"sync"

	"millionaire-service/internal/app"
	"millionaire-service/internal/domain"
)

// GameStore is an in-memory implementation of app.GameRepository. It enforces
// the one-active-game-per-user invariant at creation time.
type GameStore struct {
	mu     sync.RWMutex
	games  map[string]*app.Game
	active map[string]string // userID -> gameID of the unfinished game
}

func NewGameStore() *GameStore {
	return &GameStore{
		games:  make(map[string]*app.Game),
		active: make(map[string]string),
	}
}

func (s *GameStore) Create(_ context.Context, game *app.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.active[game.UserID()]; ok {
		if existing, found := s.games[id]; found && !existing.Finished() {
			return domain.ErrActiveGameExists
		}
	}
	s.games[game.ID()] = game
	s.active[game.UserID()] = game.ID()
	return nil
}

func (s *GameStore) Get(_ context.Context, gameID string) (*app.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[gameID]
	if !ok {
		return nil, domain.ErrGameNotFound
	}
	return game, nil
}

func (s *GameStore) ActiveForUser(_ context.Context, userID string) (*app.Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.active[userID]
	if !ok {
		return nil, false
	}
	game, found := s.games[id]
	if !found || game.Finished() {
		delete(s.active, userID)
		return nil, false
	}
	return game, true
}
