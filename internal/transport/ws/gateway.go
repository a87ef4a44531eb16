// Package ws exposes a session to external UI processes over a local
// websocket. UIs forward user intents inbound and re-render from the state
// events flowing outbound; they never own session state themselves.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"studybot-client/internal/app"
	"studybot-client/internal/domain"
)

type Gateway struct {
	session  *app.Session
	upgrader websocket.Upgrader
}

func NewGateway(session *app.Session) *Gateway {
	return &Gateway{
		session: session,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type sendPayload struct {
	Text string `json:"text"`
}

type quizPayload struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

type answerPayload struct {
	Option string `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type exchangeView struct {
	User  string `json:"user"`
	Bot   string `json:"bot"`
	State string `json:"state"`
}

type questionView struct {
	Index    int      `json:"index"`
	Total    int      `json:"total"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// ServeWS upgrades the request and bridges the connection onto the session:
// intents in, transcript and quiz state events out.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	transcriptUpdates, cancelTranscript := g.session.Transcript().Subscribe()
	defer cancelTranscript()
	quizUpdates, cancelQuiz := g.session.SubscribeQuiz()
	defer cancelQuiz()

	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	pumps, ctx := errgroup.WithContext(ctx)
	pumps.Go(func() error {
		for {
			select {
			case snapshot, ok := <-transcriptUpdates:
				if !ok {
					return nil
				}
				select {
				case send <- outboundMessage[any]{Type: "transcript", Payload: transcriptView(snapshot)}:
				case <-ctx.Done():
					return nil
				}
			case <-ctx.Done():
				return nil
			}
		}
	})
	pumps.Go(func() error {
		for {
			select {
			case state, ok := <-quizUpdates:
				if !ok {
					return nil
				}
				msg, ok := quizEvent(state)
				if !ok {
					continue
				}
				select {
				case send <- msg:
				case <-ctx.Done():
					return nil
				}
			case <-ctx.Done():
				return nil
			}
		}
	})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "send":
			var payload sendPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errorEvent("invalid send payload")
				continue
			}
			if !g.session.SendMessage(r.Context(), payload.Text) {
				send <- errorEvent("message rejected: empty text or request in flight")
			}
		case "quiz":
			var payload quizPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errorEvent("invalid quiz payload")
				continue
			}
			if !g.session.RequestQuiz(r.Context(), domain.QuizSettings{Topic: payload.Topic, Count: payload.Count}) {
				send <- errorEvent("quiz rejected: request in flight")
			}
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errorEvent("invalid answer payload")
				continue
			}
			if _, err := g.session.SubmitQuizAnswer(payload.Option); err != nil {
				send <- errorEvent(err.Error())
			}
		default:
			send <- errorEvent("unsupported message type")
		}
	}

	cancelTranscript()
	cancelQuiz()
	cancel()
	_ = pumps.Wait()
	close(send)
	<-writerDone
}

func errorEvent(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}

func transcriptView(exchanges []domain.Exchange) []exchangeView {
	views := make([]exchangeView, 0, len(exchanges))
	for _, e := range exchanges {
		views = append(views, exchangeView{
			User:  e.User,
			Bot:   e.Reply.Text,
			State: replyStateLabel(e.Reply.State),
		})
	}
	return views
}

func replyStateLabel(state domain.ReplyState) string {
	switch state {
	case domain.ReplyPending:
		return "pending"
	case domain.ReplyFailed:
		return "failed"
	default:
		return "resolved"
	}
}

// quizEvent maps a quiz-state snapshot to an outbound event. Idle snapshots
// with no visible result produce nothing.
func quizEvent(state app.QuizState) (outboundMessage[any], bool) {
	if state.Active {
		return outboundMessage[any]{Type: "question", Payload: questionView{
			Index:    state.Index,
			Total:    state.Total,
			Question: state.Question.Text,
			Options:  state.Question.Options,
		}}, true
	}
	if state.Result != nil {
		return outboundMessage[any]{Type: "result", Payload: *state.Result}, true
	}
	return outboundMessage[any]{}, false
}
