package app

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"millionaire-service/internal/domain"
)

// GameRepository abstracts how game sessions are stored (in-memory, Redis, etc).
// Create must refuse a second unfinished game for the same user.
type GameRepository interface {
	Create(ctx context.Context, game *Game) error
	Get(ctx context.Context, gameID string) (*Game, error)
	ActiveForUser(ctx context.Context, userID string) (*Game, bool)
}

// QuestionCatalog supplies trivia content per difficulty level.
type QuestionCatalog interface {
	QuestionsAtLevel(ctx context.Context, level int) ([]domain.Question, error)
}

// BalanceSink receives the settled prize of a terminal game. Crediting zero
// is a valid no-op credit.
type BalanceSink interface {
	CreditBalance(ctx context.Context, userID string, amount int) error
}

// GameService contains the game use cases: create, answer, cash out, help.
type GameService struct {
	games     GameRepository
	catalog   QuestionCatalog
	balances  BalanceSink
	prizes    domain.PrizeTable
	timeLimit time.Duration
	now       func() time.Time

	rndMu sync.Mutex
	rnd   *rand.Rand
}

// DefaultTimeLimit bounds a game to one hour of wall clock.
const DefaultTimeLimit = time.Hour

func NewGameService(games GameRepository, catalog QuestionCatalog, balances BalanceSink, prizes domain.PrizeTable, timeLimit time.Duration) *GameService {
	return NewGameServiceWithClock(games, catalog, balances, prizes, timeLimit, time.Now)
}

// NewGameServiceWithClock is test-only for deterministic timestamps.
func NewGameServiceWithClock(games GameRepository, catalog QuestionCatalog, balances BalanceSink, prizes domain.PrizeTable, timeLimit time.Duration, now func() time.Time) *GameService {
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}
	return &GameService{
		games:     games,
		catalog:   catalog,
		balances:  balances,
		prizes:    prizes,
		timeLimit: timeLimit,
		now:       now,
		rnd:       rand.New(rand.NewSource(now().UnixNano())),
	}
}

// CreateGame builds a fresh game for the user: one random question per level,
// each with a freshly shuffled letter permutation. When the user already has
// an unfinished game it is returned alongside ErrActiveGameExists so callers
// can resume it instead.
func (s *GameService) CreateGame(ctx context.Context, userID string) (*Game, error) {
	if existing, ok := s.games.ActiveForUser(ctx, userID); ok {
		return existing, domain.ErrActiveGameExists
	}

	rnd := s.newRand()
	questions, err := s.pickQuestions(ctx, rnd)
	if err != nil {
		return nil, err
	}

	game := NewGameWithClock(
		nextGameID(rnd),
		userID,
		questions,
		s.prizes,
		s.timeLimit,
		s.balances.CreditBalance,
		rnd,
		s.now,
	)
	if err := s.games.Create(ctx, game); err != nil {
		if existing, ok := s.games.ActiveForUser(ctx, userID); ok {
			return existing, err
		}
		return nil, err
	}
	return game, nil
}

// newRand derives a per-call RNG so concurrent creates never share rand state.
// Only the derivation touches s.rnd, under its own lock.
func (s *GameService) newRand() *rand.Rand {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return rand.New(rand.NewSource(s.rnd.Int63()))
}

// pickQuestions draws one question per level without reuse. Catalog rows with
// an out-of-range correct ordinal are skipped as corrupt.
func (s *GameService) pickQuestions(ctx context.Context, rnd *rand.Rand) ([]*GameQuestion, error) {
	used := make(map[string]bool)
	questions := make([]*GameQuestion, 0, s.prizes.Levels())
	for level := 0; level < s.prizes.Levels(); level++ {
		pool, err := s.catalog.QuestionsAtLevel(ctx, level)
		if err != nil {
			return nil, fmt.Errorf("load questions for level %d: %w", level, err)
		}
		eligible := pool[:0:0]
		for _, q := range pool {
			if used[q.ID] || q.CorrectAnswer < 1 || q.CorrectAnswer > len(q.Answers) {
				continue
			}
			eligible = append(eligible, q)
		}
		if len(eligible) == 0 {
			return nil, fmt.Errorf("level %d: %w", level, domain.ErrInsufficientQuestions)
		}
		picked := eligible[rnd.Intn(len(eligible))]
		used[picked.ID] = true
		questions = append(questions, NewGameQuestion(picked, rnd))
	}
	return questions, nil
}

func nextGameID(rnd *rand.Rand) string {
	return fmt.Sprintf("game-%016x", rnd.Int63())
}

// Game fetches a session by ID.
func (s *GameService) Game(ctx context.Context, gameID string) (*Game, error) {
	return s.games.Get(ctx, gameID)
}

// ActiveGame returns the user's unfinished game, if any.
func (s *GameService) ActiveGame(ctx context.Context, userID string) (*Game, bool) {
	return s.games.ActiveForUser(ctx, userID)
}

// Answer submits a letter for the game's current question.
func (s *GameService) Answer(ctx context.Context, gameID, letter string) (bool, GameState, error) {
	game, err := s.games.Get(ctx, gameID)
	if err != nil {
		return false, GameState{}, err
	}
	correct, err := game.AnswerCurrentQuestion(ctx, letter)
	if err != nil {
		return false, GameState{}, err
	}
	return correct, game.State(), nil
}

// TakeMoney cashes the game out at the highest cleared level.
func (s *GameService) TakeMoney(ctx context.Context, gameID string) (GameState, error) {
	game, err := s.games.Get(ctx, gameID)
	if err != nil {
		return GameState{}, err
	}
	if err := game.TakeMoney(ctx); err != nil {
		return GameState{}, err
	}
	return game.State(), nil
}

// UseHelp applies a one-time aid to the game's current question.
func (s *GameService) UseHelp(ctx context.Context, gameID string, kind domain.HelpKind) (GameState, error) {
	game, err := s.games.Get(ctx, gameID)
	if err != nil {
		return GameState{}, err
	}
	switch kind {
	case domain.HelpAudience:
		_, err = game.AddAudienceHelp()
	case domain.HelpFiftyFifty:
		_, err = game.AddFiftyFifty()
	default:
		err = domain.ErrHelpUnavailable
	}
	if err != nil {
		return GameState{}, err
	}
	return game.State(), nil
}

// Subscribe returns a channel that receives state updates for a game.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(ctx context.Context, gameID string) (<-chan GameState, func(), error) {
	game, err := s.games.Get(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := game.subscribe()
	return ch, cancel, nil
}
