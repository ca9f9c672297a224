package app

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"millionaire-service/internal/domain"
)

// SettleFunc credits a finished game's prize to the owning user's balance.
// It is invoked exactly once per terminal transition, before the transition
// is committed; an error aborts the transition entirely.
type SettleFunc func(ctx context.Context, userID string, amount int) error

// GameState is a read-only snapshot for presentation layers.
type GameState struct {
	GameID           string             `json:"gameId"`
	UserID           string             `json:"userId"`
	Status           domain.Status      `json:"status"`
	CurrentLevel     int                `json:"currentLevel"`
	PreviousLevel    int                `json:"previousLevel"`
	Prize            int                `json:"prize"`
	Finished         bool               `json:"finished"`
	QuestionText     string             `json:"questionText,omitempty"`
	Variants         map[string]string  `json:"variants,omitempty"`
	Help             domain.HelpResults `json:"help"`
	AudienceHelpUsed bool               `json:"audienceHelpUsed"`
	FiftyFiftyUsed   bool               `json:"fiftyFiftyUsed"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// Game is the state machine for one run of the ladder: level progression,
// answer validation, timeout detection, help application and settlement.
type Game struct {
	id        string
	userID    string
	prizes    domain.PrizeTable
	timeLimit time.Duration
	settle    SettleFunc
	now       func() time.Time
	rnd       *rand.Rand

	mu               sync.RWMutex
	createdAt        time.Time
	finishedAt       time.Time // zero until a terminal transition
	currentLevel     int
	isFailed         bool
	prize            int
	audienceHelpUsed bool
	fiftyFiftyUsed   bool
	questions        []*GameQuestion
	subscribers      map[chan GameState]struct{}
	onFinish         []func()
}

// NewGame is exported for infrastructure layers that need to construct games.
func NewGame(id, userID string, questions []*GameQuestion, prizes domain.PrizeTable, timeLimit time.Duration, settle SettleFunc, rnd *rand.Rand) *Game {
	return NewGameWithClock(id, userID, questions, prizes, timeLimit, settle, rnd, time.Now)
}

// NewGameWithClock is test-only for deterministic timestamps.
func NewGameWithClock(id, userID string, questions []*GameQuestion, prizes domain.PrizeTable, timeLimit time.Duration, settle SettleFunc, rnd *rand.Rand, now func() time.Time) *Game {
	return &Game{
		id:          id,
		userID:      userID,
		prizes:      prizes,
		timeLimit:   timeLimit,
		settle:      settle,
		now:         now,
		rnd:         rnd,
		createdAt:   now(),
		questions:   questions,
		subscribers: make(map[chan GameState]struct{}),
	}
}

// ID returns the game identifier.
func (g *Game) ID() string { return g.id }

// UserID returns the owning user.
func (g *Game) UserID() string { return g.userID }

// TimeLimit returns the wall-clock budget of the game.
func (g *Game) TimeLimit() time.Duration { return g.timeLimit }

// OnFinish registers fn to run once the game commits a terminal transition.
// Stores use it to release cross-instance guards eagerly. fn runs under the
// game lock and must not call back into the game.
func (g *Game) OnFinish(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onFinish = append(g.onFinish, fn)
}

// Finished reports whether the game reached a terminal state.
func (g *Game) Finished() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return !g.finishedAt.IsZero()
}

// CurrentLevel returns the level being played (or the level count once won).
func (g *Game) CurrentLevel() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.currentLevel
}

// PreviousLevel returns the highest level already cleared, -1 for a fresh game.
func (g *Game) PreviousLevel() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.currentLevel - 1
}

// Prize returns the settled prize, 0 while the game is in progress.
func (g *Game) Prize() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.prize
}

// Status derives the lifecycle state. Timeout wins over fail so that a game
// failed by the clock reports timeout, and a cash-out committed past the
// limit re-derives to timeout as well.
func (g *Game) Status() domain.Status {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.statusLocked()
}

func (g *Game) statusLocked() domain.Status {
	if g.finishedAt.IsZero() {
		return domain.StatusInProgress
	}
	switch {
	case g.finishedAt.Sub(g.createdAt) > g.timeLimit:
		return domain.StatusTimeout
	case g.isFailed:
		return domain.StatusFail
	case g.currentLevel >= len(g.questions):
		return domain.StatusWon
	default:
		return domain.StatusMoney
	}
}

// CurrentGameQuestion returns the question at the current level, or nil when
// the game is finished or every level has been cleared.
func (g *Game) CurrentGameQuestion() *GameQuestion {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.currentQuestionLocked()
}

func (g *Game) currentQuestionLocked() *GameQuestion {
	if !g.finishedAt.IsZero() || g.currentLevel >= len(g.questions) {
		return nil
	}
	return g.questions[g.currentLevel]
}

// AnswerCurrentQuestion applies one answer submission. It returns true for a
// correct answer; an incorrect answer or an expired clock ends the game with
// the fireproof guarantee for the levels already cleared.
func (g *Game) AnswerCurrentQuestion(ctx context.Context, letter string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.finishedAt.IsZero() {
		return false, domain.ErrGameFinished
	}

	now := g.now()
	if now.Sub(g.createdAt) > g.timeLimit {
		// The current question was never cleared, so only the guarantee from
		// levels below it survives.
		if err := g.finishLocked(ctx, now, true, g.prizes.FireproofPrizeBelow(g.currentLevel)); err != nil {
			return false, err
		}
		return false, nil
	}

	question := g.questions[g.currentLevel]
	if !question.AnswerCorrect(letter) {
		if err := g.finishLocked(ctx, now, true, g.prizes.FireproofPrizeBelow(g.currentLevel)); err != nil {
			return false, err
		}
		return false, nil
	}

	g.currentLevel++
	if g.currentLevel >= len(g.questions) {
		if err := g.finishLocked(ctx, now, false, g.prizes.MaxPrize()); err != nil {
			g.currentLevel--
			return false, err
		}
		return true, nil
	}

	g.broadcastLocked()
	return true, nil
}

// TakeMoney ends the game voluntarily, paying the prize for the highest level
// already cleared. The clock is deliberately not re-checked here; a cash-out
// committed past the limit settles anyway and re-derives its status as timeout.
func (g *Game) TakeMoney(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.finishedAt.IsZero() {
		return domain.ErrGameFinished
	}

	prize := 0
	if g.currentLevel > 0 {
		prize = g.prizes.PrizeFor(g.currentLevel - 1)
	}
	return g.finishLocked(ctx, g.now(), false, prize)
}

// finishLocked settles the prize and commits the terminal transition. The
// credit happens first so a sink failure leaves the game untouched.
func (g *Game) finishLocked(ctx context.Context, now time.Time, failed bool, prize int) error {
	if g.settle != nil {
		if err := g.settle(ctx, g.userID, prize); err != nil {
			return err
		}
	}
	g.isFailed = failed
	g.finishedAt = now
	g.prize = prize
	g.broadcastLocked()
	for _, fn := range g.onFinish {
		fn()
	}
	return nil
}

// AddAudienceHelp applies the audience vote to the current question.
func (g *Game) AddAudienceHelp() (map[string]int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.audienceHelpUsed {
		return nil, domain.ErrHelpUnavailable
	}
	question := g.currentQuestionLocked()
	if question == nil {
		return nil, domain.ErrHelpUnavailable
	}

	votes := audienceDistribution(g.rnd, question.CorrectAnswerKey())
	question.help.AudienceHelp = votes
	g.audienceHelpUsed = true
	g.broadcastLocked()
	return votes, nil
}

// AddFiftyFifty eliminates two wrong letters on the current question.
func (g *Game) AddFiftyFifty() ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.fiftyFiftyUsed {
		return nil, domain.ErrHelpUnavailable
	}
	question := g.currentQuestionLocked()
	if question == nil {
		return nil, domain.ErrHelpUnavailable
	}

	pair := fiftyFiftyPair(g.rnd, question.CorrectAnswerKey())
	question.help.FiftyFifty = pair
	g.fiftyFiftyUsed = true
	g.broadcastLocked()
	return pair, nil
}

// State returns a snapshot for presentation layers.
func (g *Game) State() GameState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.snapshotLocked()
}

func (g *Game) snapshotLocked() GameState {
	state := GameState{
		GameID:           g.id,
		UserID:           g.userID,
		Status:           g.statusLocked(),
		CurrentLevel:     g.currentLevel,
		PreviousLevel:    g.currentLevel - 1,
		Prize:            g.prize,
		Finished:         !g.finishedAt.IsZero(),
		AudienceHelpUsed: g.audienceHelpUsed,
		FiftyFiftyUsed:   g.fiftyFiftyUsed,
		UpdatedAt:        g.now(),
	}
	if question := g.currentQuestionLocked(); question != nil {
		state.QuestionText = question.Text()
		state.Variants = question.Variants()
		state.Help = question.HelpResults()
	}
	return state
}

func (g *Game) subscribe() (<-chan GameState, func()) {
	ch := make(chan GameState, 8)

	g.mu.Lock()
	g.subscribers[ch] = struct{}{}
	initial := g.snapshotLocked()
	g.mu.Unlock()

	ch <- initial

	cancel := func() {
		g.mu.Lock()
		if _, ok := g.subscribers[ch]; ok {
			delete(g.subscribers, ch)
			close(ch)
		}
		g.mu.Unlock()
	}
	return ch, cancel
}

func (g *Game) broadcastLocked() {
	state := g.snapshotLocked()
	for ch := range g.subscribers {
		select {
		case ch <- state:
		default:
			// Drop the stale snapshot so a slow client never blocks the game.
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
}
