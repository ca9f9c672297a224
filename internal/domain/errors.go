package domain

import "errors"

var (
	// ErrGameNotFound is returned when a game ID does not resolve to a session.
	ErrGameNotFound = errors.New("game not found")
	// ErrGameFinished is returned when a mutating operation hits a terminal game.
	ErrGameFinished = errors.New("game already finished")
	// ErrHelpUnavailable is returned when a help kind was already used or the game is over.
	ErrHelpUnavailable = errors.New("help already used or game finished")
	// ErrActiveGameExists is returned when a user already has an unfinished game.
	ErrActiveGameExists = errors.New("user already has an active game")
	// ErrInsufficientQuestions is returned when the catalog cannot fill every level.
	ErrInsufficientQuestions = errors.New("not enough questions in catalog")
	// ErrQuestionNotFound indicates the catalog has no content for a level.
	ErrQuestionNotFound = errors.New("question not found")
)
