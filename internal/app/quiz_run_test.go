package app

import (
	"testing"

	"studybot-client/internal/domain"
)

func twoQuestions() []domain.Question {
	return []domain.Question{
		{Text: "2+2?", Options: []string{"3", "4"}, Answer: "4"},
		{Text: "Capital of France?", Options: []string{"Paris", "Rome"}, Answer: "Paris"},
	}
}

func TestQuizRunScoring(t *testing.T) {
	run, err := NewQuizRun(twoQuestions())
	if err != nil {
		t.Fatalf("new run: %v", err)
	}

	result, err := run.Submit("4")
	if err != nil {
		t.Fatalf("submit 1: %v", err)
	}
	if result != nil {
		t.Fatalf("expected no result before final answer")
	}

	result, err = run.Submit("Rome")
	if err != nil {
		t.Fatalf("submit 2: %v", err)
	}
	if result == nil {
		t.Fatalf("expected result after final answer")
	}
	if result.Score != 1 || result.Total != 2 {
		t.Fatalf("expected 1/2, got %d/%d", result.Score, result.Total)
	}
	if !result.Summary[0].Correct || result.Summary[1].Correct {
		t.Fatalf("unexpected summary correctness: %+v", result.Summary)
	}
	if result.Summary[1].UserAnswer != "Rome" || result.Summary[1].Answer != "Paris" {
		t.Fatalf("summary should carry both answers: %+v", result.Summary[1])
	}
}

func TestQuizRunForwardOnly(t *testing.T) {
	run, _ := NewQuizRun(twoQuestions())

	_, index, ok := run.Current()
	if !ok || index != 0 {
		t.Fatalf("expected first question at 0, got index=%d ok=%v", index, ok)
	}

	if _, err := run.Submit("3"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	q, index, ok := run.Current()
	if !ok || index != 1 || q.Text != "Capital of France?" {
		t.Fatalf("expected second question at 1, got index=%d q=%q", index, q.Text)
	}

	if _, err := run.Submit("Paris"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !run.Completed() {
		t.Fatalf("expected completed run")
	}
	if _, _, ok := run.Current(); ok {
		t.Fatalf("completed run should have no current question")
	}
	if _, err := run.Submit("again"); err != domain.ErrQuizCompleted {
		t.Fatalf("expected ErrQuizCompleted, got %v", err)
	}
}

func TestQuizRunRejectsEmpty(t *testing.T) {
	if _, err := NewQuizRun(nil); err != domain.ErrEmptyQuiz {
		t.Fatalf("expected ErrEmptyQuiz, got %v", err)
	}
}
