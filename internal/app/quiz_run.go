package app

import (
	"studybot-client/internal/domain"
)

// QuizRun is the live state of answering one generated question set. The
// question list is fixed at construction; progression is strictly forward
// with one answer per question and no revision. Answering the final question
// scores the run immediately, after which the run is spent.
type QuizRun struct {
	questions []domain.Question
	answers   []string
}

// NewQuizRun starts a run over a validated question list. A zero-question
// run is never instantiated.
func NewQuizRun(questions []domain.Question) (*QuizRun, error) {
	if len(questions) == 0 {
		return nil, domain.ErrEmptyQuiz
	}
	qs := make([]domain.Question, len(questions))
	copy(qs, questions)
	return &QuizRun{questions: qs}, nil
}

// Current returns the question awaiting an answer and its zero-based
// position. ok is false once the run has completed.
func (r *QuizRun) Current() (q domain.Question, index int, ok bool) {
	if r.Completed() {
		return domain.Question{}, len(r.questions), false
	}
	return r.questions[len(r.answers)], len(r.answers), true
}

// Total reports the number of questions in the run.
func (r *QuizRun) Total() int {
	return len(r.questions)
}

// Completed reports whether every question has been answered.
func (r *QuizRun) Completed() bool {
	return len(r.answers) == len(r.questions)
}

// Submit records option verbatim for the current question and advances. The
// option is trusted to come from the rendered option set. Answering the last
// question returns the scored result; submitting afterwards is an error.
func (r *QuizRun) Submit(option string) (*domain.QuizResult, error) {
	if r.Completed() {
		return nil, domain.ErrQuizCompleted
	}
	r.answers = append(r.answers, option)
	if !r.Completed() {
		return nil, nil
	}
	return r.score(), nil
}

func (r *QuizRun) score() *domain.QuizResult {
	result := &domain.QuizResult{
		Total:   len(r.questions),
		Summary: make([]domain.AnswerReview, 0, len(r.questions)),
	}
	for i, q := range r.questions {
		correct := q.Answer == r.answers[i]
		if correct {
			result.Score++
		}
		result.Summary = append(result.Summary, domain.AnswerReview{
			Question:   q.Text,
			Options:    append([]string(nil), q.Options...),
			Answer:     q.Answer,
			UserAnswer: r.answers[i],
			Correct:    correct,
		})
	}
	return result
}
