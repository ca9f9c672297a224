package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"millionaire-service/internal/app"
	"millionaire-service/internal/domain"
)

// GameStore is a Redis-aware implementation of app.GameRepository.
// Notes:
//   - It still keeps a local in-memory map of games to reuse the in-process
//     state machine and broadcast logic.
//   - Redis holds the per-user active-game marker, so two instances cannot
//     both create a game for the same user. The marker is released the moment
//     the game finishes, via the finish hook, so another instance never has to
//     wait out the TTL.
//   - For true distribution you'd pair this with snapshot persistence and a
//     pub/sub projector that fans out state updates.
type GameStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	games  map[string]*app.Game
	active map[string]string
}

func NewGameStore(client *redis.Client, ttl time.Duration) *GameStore {
	return &GameStore{
		client: client,
		ttl:    ttl,
		games:  make(map[string]*app.Game),
		active: make(map[string]string),
	}
}

func (s *GameStore) Create(ctx context.Context, game *app.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID := game.UserID()
	if id, ok := s.active[userID]; ok {
		if existing, found := s.games[id]; found && !existing.Finished() {
			return domain.ErrActiveGameExists
		}
		delete(s.active, userID)
		_ = s.client.Del(ctx, s.activeKey(userID)).Err()
	}

	// The marker must outlive the game clock or the duplicate guard would
	// lapse mid-game; the configured TTL only acts as a floor.
	ttl := game.TimeLimit() + time.Minute
	if s.ttl > ttl {
		ttl = s.ttl
	}
	acquired, err := s.client.SetNX(ctx, s.activeKey(userID), game.ID(), ttl).Result()
	if err != nil {
		return err
	}
	if !acquired {
		return domain.ErrActiveGameExists
	}

	s.games[game.ID()] = game
	s.active[userID] = game.ID()
	game.OnFinish(func() {
		_ = s.client.Del(context.Background(), s.activeKey(userID)).Err()
	})
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

func (s *GameStore) ActiveForUser(ctx context.Context, userID string) (*app.Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.active[userID]
	if !ok {
		return nil, false
	}
	game, found := s.games[id]
	if !found || game.Finished() {
		delete(s.active, userID)
		_ = s.client.Del(ctx, s.activeKey(userID)).Err()
		return nil, false
	}
	return game, true
}

func (s *GameStore) activeKey(userID string) string {
	return "game:active:" + userID
}
