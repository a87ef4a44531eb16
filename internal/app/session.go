package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"studybot-client/internal/domain"
	"studybot-client/internal/quiz"
)

// RemoteService is the remote tutoring API the session consumes. All calls
// authenticate with a bearer credential owned by the transport layer; any
// transport error or non-success response surfaces as a plain error with no
// status-code distinction.
type RemoteService interface {
	History(ctx context.Context) ([]domain.HistoryEntry, error)
	Chat(ctx context.Context, message string) (string, error)
	GenerateQuiz(ctx context.Context, topic string, count int) (string, error)
	UploadDocument(ctx context.Context, filename string, payload io.Reader) error
}

// Fixed user-facing strings. For chat and quiz intents the transcript is the
// only error surface; callers never see the underlying failure.
const (
	chatFailedNotice  = "Sorry, I encountered an error. Please try again."
	quizFailedNotice  = "Quiz generation failed. Please try again."
	quizInvalidNotice = "I received an invalid quiz format. Please try again."
	quizReadyMessage  = "Quiz is ready! Starting your test now..."

	generalTopicLabel = "General"

	minQuizCount = 1
	maxQuizCount = 50
)

// QuizState is a snapshot of the quiz flow for presentation layers. At most
// one of Question/Result is meaningful: Question while a run awaits an
// answer, Result once a run has completed and until it is dismissed.
type QuizState struct {
	Active   bool
	Index    int
	Total    int
	Question domain.Question
	Result   *domain.QuizResult
}

// Session coordinates the chat and quiz flows against the remote service. It
// exclusively owns the transcript and the active quiz run; presentation
// layers are read-only and talk to it through the intent methods. A single
// busy flag serializes network-bound intents, so at most one remote call is
// outstanding at a time.
type Session struct {
	remote     RemoteService
	transcript *Transcript

	mu       sync.Mutex
	loading  bool
	quiz     *QuizRun
	result   *domain.QuizResult
	quizSubs map[chan QuizState]struct{}
}

func NewSession(remote RemoteService) *Session {
	return &Session{
		remote:     remote,
		transcript: NewTranscript(),
		quizSubs:   make(map[chan QuizState]struct{}),
	}
}

// Transcript exposes the session's transcript for reading and subscribing.
func (s *Session) Transcript() *Transcript {
	return s.transcript
}

// Hydrate fetches the stored history and loads it into the transcript. It is
// meant to run once at session start; history is always refetched rather
// than cached across runs.
func (s *Session) Hydrate(ctx context.Context) error {
	history, err := s.remote.History(ctx)
	if err != nil {
		return fmt.Errorf("fetch history: %w", err)
	}
	s.transcript.Hydrate(history)
	return nil
}

// SendMessage runs one chat exchange. Blank input or an in-flight request is
// rejected without touching any state, reported by the false return. The
// user's line lands in the transcript immediately with a pending reply;
// settlement replaces it with the assistant text or a fixed failure notice.
func (s *Session) SendMessage(ctx context.Context, text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	if !s.begin() {
		return false
	}
	defer s.end()

	s.transcript.Append(text)
	reply, err := s.remote.Chat(ctx, text)
	if err != nil {
		log.Printf("chat request failed: %v", err)
		_ = s.transcript.Fail(chatFailedNotice)
		return true
	}
	_ = s.transcript.Resolve(reply)
	return true
}

// RequestQuiz generates and starts a new quiz. Any previous run or result is
// discarded up front. The request is summarized as a transcript entry whose
// reply settles with a ready message on success or a failure notice when the
// call or the payload parse fails; a failed parse never starts a run.
func (s *Session) RequestQuiz(ctx context.Context, settings domain.QuizSettings) bool {
	if !s.begin() {
		return false
	}
	defer s.end()

	s.setQuiz(nil, nil)

	topic := strings.TrimSpace(settings.Topic)
	count := clampCount(settings.Count)
	label := topic
	if label == "" {
		label = generalTopicLabel
	}
	s.transcript.Append(fmt.Sprintf("Quiz Request: %s (%d questions)", label, count))

	payload, err := s.remote.GenerateQuiz(ctx, topic, count)
	if err != nil {
		log.Printf("quiz generation failed: %v", err)
		_ = s.transcript.Fail(quizFailedNotice)
		return true
	}

	questions, err := quiz.Parse(payload)
	if err != nil {
		log.Printf("quiz payload rejected: %v", err)
		_ = s.transcript.Fail(quizInvalidNotice)
		return true
	}

	run, err := NewQuizRun(questions)
	if err != nil {
		// Unreachable: the parser rejects empty lists.
		_ = s.transcript.Fail(quizInvalidNotice)
		return true
	}
	_ = s.transcript.Resolve(quizReadyMessage)
	s.setQuiz(run, nil)
	return true
}

// SubmitQuizAnswer forwards one selected option to the active run. Scoring
// the final answer tears the run down and makes the result visible until
// dismissed or replaced by a new quiz.
func (s *Session) SubmitQuizAnswer(option string) (*domain.QuizResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quiz == nil {
		return nil, domain.ErrNoActiveQuiz
	}
	result, err := s.quiz.Submit(option)
	if err != nil {
		return nil, err
	}
	if result != nil {
		s.quiz = nil
		s.result = result
	}
	s.broadcastQuizLocked()
	return result, nil
}

// AbandonQuiz discards the active run without scoring it.
func (s *Session) AbandonQuiz() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quiz == nil {
		return
	}
	s.quiz = nil
	s.broadcastQuizLocked()
}

// DismissResult clears the visible result once the user is done reviewing.
func (s *Session) DismissResult() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return
	}
	s.result = nil
	s.broadcastQuizLocked()
}

// UploadDocument sends a study document for remote indexing. It shares the
// session's busy flag with the other network intents but never touches the
// transcript or the quiz; the outcome is the caller's to report.
func (s *Session) UploadDocument(ctx context.Context, filename string, payload io.Reader) error {
	if !s.begin() {
		return domain.ErrBusy
	}
	defer s.end()

	if err := s.remote.UploadDocument(ctx, filename, payload); err != nil {
		return fmt.Errorf("upload %s: %w", filename, err)
	}
	return nil
}

// ActiveQuestion returns the question awaiting an answer, if any.
func (s *Session) ActiveQuestion() (q domain.Question, index, total int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quiz == nil {
		return domain.Question{}, 0, 0, false
	}
	q, index, ok = s.quiz.Current()
	return q, index, s.quiz.Total(), ok
}

// Result returns the last quiz result, or nil when none is visible.
func (s *Session) Result() *domain.QuizResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// Loading reports whether a network-bound intent is outstanding.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// SubscribeQuiz returns a channel that receives a quiz-state snapshot after
// every quiz transition, starting with the current state. The caller must
// invoke the returned cancel function to avoid leaks.
func (s *Session) SubscribeQuiz() (<-chan QuizState, func()) {
	ch := make(chan QuizState, 8)

	s.mu.Lock()
	s.quizSubs[ch] = struct{}{}
	initial := s.quizStateLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.quizSubs[ch]; ok {
			delete(s.quizSubs, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return false
	}
	s.loading = true
	return true
}

func (s *Session) end() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

func (s *Session) setQuiz(run *QuizRun, result *domain.QuizResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quiz = run
	s.result = result
	s.broadcastQuizLocked()
}

func (s *Session) broadcastQuizLocked() {
	state := s.quizStateLocked()
	for ch := range s.quizSubs {
		select {
		case ch <- state:
		default:
			// Drop the stale state so a slow subscriber never blocks a transition.
			select {
			case <-ch:
			default:
			}
			ch <- state
		}
	}
}

func (s *Session) quizStateLocked() QuizState {
	state := QuizState{Result: s.result}
	if s.quiz == nil {
		return state
	}
	q, index, ok := s.quiz.Current()
	if !ok {
		return state
	}
	state.Active = true
	state.Index = index
	state.Total = s.quiz.Total()
	state.Question = q
	return state
}

func clampCount(count int) int {
	if count < minQuizCount {
		return minQuizCount
	}
	if count > maxQuizCount {
		return maxQuizCount
	}
	return count
}
