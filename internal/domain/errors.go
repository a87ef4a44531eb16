package domain

import "errors"

var (
	// ErrEmptyTranscript is returned when a reply is settled against an empty
	// transcript. Reaching it means a caller broke the append-then-settle
	// contract; it is never surfaced to the user.
	ErrEmptyTranscript = errors.New("transcript is empty")
	// ErrNoActiveQuiz is returned when an answer arrives with no quiz running.
	ErrNoActiveQuiz = errors.New("no active quiz")
	// ErrQuizCompleted is returned when an answer arrives after the final
	// question has already been scored.
	ErrQuizCompleted = errors.New("quiz already completed")
	// ErrEmptyQuiz indicates an attempt to start a run with zero questions.
	ErrEmptyQuiz = errors.New("quiz has no questions")
	// ErrBusy indicates another network-bound intent is still in flight.
	ErrBusy = errors.New("another request is in flight")
)
