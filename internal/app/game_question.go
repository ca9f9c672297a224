package app

import (
	"math/rand"

	"millionaire-service/internal/domain"
)

// letters is the display order of answer keys.
var letters = [4]string{"a", "b", "c", "d"}

// GameQuestion binds one catalog question to one slot of a game. The letter
// permutation is generated once at construction and never reshuffled; only
// the help record mutates afterwards.
type GameQuestion struct {
	question domain.Question
	// perm maps letter index (0..3) to the 1-based answer ordinal shown there.
	perm [4]int
	help domain.HelpResults
}

// NewGameQuestion is exported for infrastructure layers that need to seed games.
func NewGameQuestion(q domain.Question, rnd *rand.Rand) *GameQuestion {
	gq := &GameQuestion{question: q}
	for i, v := range rnd.Perm(4) {
		gq.perm[i] = v + 1
	}
	return gq
}

// Text returns the question prompt.
func (gq *GameQuestion) Text() string { return gq.question.Text }

// Level returns the difficulty tier the question was authored for.
func (gq *GameQuestion) Level() int { return gq.question.Level }

// Variants returns the letter-to-answer mapping shown to the player.
func (gq *GameQuestion) Variants() map[string]string {
	variants := make(map[string]string, len(letters))
	for i, letter := range letters {
		variants[letter] = gq.question.Answers[gq.perm[i]-1]
	}
	return variants
}

// CorrectAnswerKey returns the letter hiding the correct answer.
func (gq *GameQuestion) CorrectAnswerKey() string {
	for i, letter := range letters {
		if gq.perm[i] == gq.question.CorrectAnswer {
			return letter
		}
	}
	return ""
}

// AnswerCorrect reports whether the given letter points at the correct answer.
func (gq *GameQuestion) AnswerCorrect(letter string) bool {
	return letter != "" && letter == gq.CorrectAnswerKey()
}

// HelpResults returns the aids applied to this question so far.
func (gq *GameQuestion) HelpResults() domain.HelpResults {
	results := gq.help
	if gq.help.AudienceHelp != nil {
		votes := make(map[string]int, len(gq.help.AudienceHelp))
		for letter, percent := range gq.help.AudienceHelp {
			votes[letter] = percent
		}
		results.AudienceHelp = votes
	}
	if gq.help.FiftyFifty != nil {
		results.FiftyFifty = append([]string(nil), gq.help.FiftyFifty...)
	}
	return results
}
