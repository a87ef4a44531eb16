package domain

// ReplyState tags the assistant half of an exchange.
type ReplyState int

const (
	// ReplyPending marks an exchange whose remote reply has not settled yet.
	ReplyPending ReplyState = iota
	// ReplyResolved marks an exchange carrying the real assistant reply.
	ReplyResolved
	// ReplyFailed marks an exchange whose remote call failed; Text holds a
	// user-facing notice instead of a reply.
	ReplyFailed
)

// Reply is the assistant half of an exchange. Pending and failed replies are
// explicit states rather than magic strings so the transcript never has to
// guess from content.
type Reply struct {
	State ReplyState `json:"state"`
	Text  string     `json:"text"`
}

// Exchange pairs one user message with its (possibly pending) assistant reply.
type Exchange struct {
	User  string `json:"user"`
	Reply Reply  `json:"reply"`
}

// HistoryEntry is one fully-resolved exchange as returned by the remote
// history call.
type HistoryEntry struct {
	User string `json:"user"`
	Bot  string `json:"bot"`
}

// Question models an MCQ question. Answer always equals one of Options; the
// parser is the only constructor and rejects anything else.
type Question struct {
	Text    string   `json:"question"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// QuizSettings is the user's generation request. An empty topic means a
// general quiz; Count is clamped to [1, 50] before the request goes out.
type QuizSettings struct {
	Topic string
	Count int
}

// AnswerReview merges one question with the user's answer for the summary.
type AnswerReview struct {
	Question   string   `json:"question"`
	Options    []string `json:"options"`
	Answer     string   `json:"answer"`
	UserAnswer string   `json:"userAnswer"`
	Correct    bool     `json:"correct"`
}

// QuizResult is the terminal, scored summary of a completed quiz run.
type QuizResult struct {
	Score   int            `json:"score"`
	Total   int            `json:"total"`
	Summary []AnswerReview `json:"summary"`
}
