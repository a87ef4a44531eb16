// Package quiz turns raw quiz-generation payloads into validated question
// lists. The remote generator promises a bare JSON list but routinely wraps
// it in markdown code fences, so parsing starts with a narrow sanitation step.
package quiz

import (
	"encoding/json"
	"fmt"
	"strings"

	"studybot-client/internal/domain"
)

const (
	fenceJSON = "```json"
	fence     = "```"
)

// ParseError reports why a payload was rejected. A rejected payload never
// yields a partial quiz.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid quiz payload: %s", e.Reason)
}

// Parse extracts a validated question list from a raw generation payload.
// Validation is all-or-nothing: every element must have at least two options
// and an answer that exactly matches one of them (case-sensitive, since
// scoring compares by equality), and an empty list is rejected outright.
func Parse(payload string) ([]domain.Question, error) {
	cleaned := stripFences(payload)

	var questions []domain.Question
	if err := json.Unmarshal([]byte(cleaned), &questions); err != nil {
		return nil, &ParseError{Reason: "payload is not a JSON question list"}
	}
	if len(questions) == 0 {
		return nil, &ParseError{Reason: "question list is empty"}
	}
	for i, q := range questions {
		if len(q.Options) < 2 {
			return nil, &ParseError{Reason: fmt.Sprintf("question %d has fewer than two options", i+1)}
		}
		if !containsOption(q.Options, q.Answer) {
			return nil, &ParseError{Reason: fmt.Sprintf("question %d answer is not among its options", i+1)}
		}
	}
	return questions, nil
}

// stripFences removes the known markdown fence pair around the payload. A
// payload without fences passes through unchanged, so stripping is idempotent.
func stripFences(payload string) string {
	s := strings.TrimSpace(payload)
	if rest, ok := strings.CutPrefix(s, fenceJSON); ok {
		s = rest
	} else if rest, ok := strings.CutPrefix(s, fence); ok {
		s = rest
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), fence)
	return strings.TrimSpace(s)
}

func containsOption(options []string, answer string) bool {
	for _, opt := range options {
		if opt == answer {
			return true
		}
	}
	return false
}
