package domain

// Question is an immutable catalog entry: one prompt, four answers, exactly
// one marked correct. The catalog owns questions; game code never mutates them.
type Question struct {
	ID      string    `json:"id"`
	Level   int       `json:"level"`
	Text    string    `json:"text"`
	Answers [4]string `json:"answers"`
	// CorrectAnswer is the 1-based ordinal of the correct entry in Answers.
	CorrectAnswer int `json:"correctAnswer"`
}

// Status is the derived lifecycle state of a game session.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusFail       Status = "fail"
	StatusTimeout    Status = "timeout"
	StatusWon        Status = "won"
	StatusMoney      Status = "money"
)

// HelpKind identifies one of the one-time aids.
type HelpKind string

const (
	HelpAudience   HelpKind = "audience_help"
	HelpFiftyFifty HelpKind = "fifty_fifty"
)

// HelpResults records the aids already applied to a single game question.
// A nil field means the aid was not requested for that question.
type HelpResults struct {
	// AudienceHelp maps answer letters to vote percentages summing to 100.
	AudienceHelp map[string]int `json:"audienceHelp,omitempty"`
	// FiftyFifty holds the two letters left after elimination.
	FiftyFifty []string `json:"fiftyFifty,omitempty"`
}
