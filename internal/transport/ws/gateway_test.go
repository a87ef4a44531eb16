package ws

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"studybot-client/internal/app"
	"studybot-client/internal/domain"
)

type fakeRemote struct{}

func (fakeRemote) History(ctx context.Context) ([]domain.HistoryEntry, error) {
	return []domain.HistoryEntry{{User: "hi", Bot: "hello"}}, nil
}

func (fakeRemote) Chat(ctx context.Context, message string) (string, error) {
	return "echo: " + message, nil
}

func (fakeRemote) GenerateQuiz(ctx context.Context, topic string, count int) (string, error) {
	return "```json\n" + `[{"question": "2+2?", "options": ["3", "4"], "answer": "4"}]` + "\n```", nil
}

func (fakeRemote) UploadDocument(ctx context.Context, filename string, payload io.Reader) error {
	return nil
}

func dialGateway(t *testing.T) (*websocket.Conn, *app.Session, func()) {
	t.Helper()
	session := app.NewSession(fakeRemote{})
	if err := session.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}

	gateway := NewGateway(session)
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gateway.ServeWS)
	server := httptest.NewServer(mux)

	u := "ws" + server.URL[len("http"):] + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		server.Close()
		t.Fatalf("dial: %v", err)
	}
	return conn, session, func() {
		conn.Close()
		server.Close()
	}
}

func TestGatewaySendsInitialTranscript(t *testing.T) {
	conn, _, cleanup := dialGateway(t)
	defer cleanup()

	typ, payload := readNext(conn, t, "transcript")
	entries, ok := payload.([]any)
	if !ok || len(entries) != 1 {
		t.Fatalf("expected hydrated transcript event, got type=%s payload=%v", typ, payload)
	}
	first := entries[0].(map[string]any)
	if first["user"] != "hi" || first["bot"] != "hello" || first["state"] != "resolved" {
		t.Fatalf("unexpected transcript entry %+v", first)
	}
}

func TestGatewayChatFlow(t *testing.T) {
	conn, _, cleanup := dialGateway(t)
	defer cleanup()

	readNext(conn, t, "transcript")

	send := map[string]any{"type": "send", "payload": map[string]any{"text": "what is go?"}}
	if err := conn.WriteJSON(send); err != nil {
		t.Fatalf("write send: %v", err)
	}

	// Optimistic append then settlement, each broadcast separately; the
	// pending snapshot may be dropped for slow readers, so scan until the
	// reply resolves.
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		_, payload := readNext(conn, t, "transcript")
		entries := payload.([]any)
		last := entries[len(entries)-1].(map[string]any)
		if last["state"] == "resolved" && last["user"] == "what is go?" {
			if last["bot"] != "echo: what is go?" {
				t.Fatalf("unexpected reply %+v", last)
			}
			return
		}
	}
	t.Fatalf("never saw resolved reply")
}

func TestGatewayQuizFlow(t *testing.T) {
	conn, _, cleanup := dialGateway(t)
	defer cleanup()

	readNext(conn, t, "transcript")

	quiz := map[string]any{"type": "quiz", "payload": map[string]any{"topic": "math", "count": 1}}
	if err := conn.WriteJSON(quiz); err != nil {
		t.Fatalf("write quiz: %v", err)
	}

	questionSeen := false
	for i := 0; i < 10 && !questionSeen; i++ {
		typ, payload := readNext(conn, t, "")
		if typ != "question" {
			continue
		}
		questionSeen = true
		view := payload.(map[string]any)
		if view["question"] != "2+2?" || view["total"] != float64(1) {
			t.Fatalf("unexpected question event %+v", view)
		}
	}
	if !questionSeen {
		t.Fatalf("never saw question event")
	}

	answer := map[string]any{"type": "answer", "payload": map[string]any{"option": "4"}}
	if err := conn.WriteJSON(answer); err != nil {
		t.Fatalf("write answer: %v", err)
	}

	for i := 0; i < 10; i++ {
		typ, payload := readNext(conn, t, "")
		if typ != "result" {
			continue
		}
		view := payload.(map[string]any)
		if view["score"] != float64(1) || view["total"] != float64(1) {
			t.Fatalf("unexpected result event %+v", view)
		}
		return
	}
	t.Fatalf("never saw result event")
}

func TestGatewayRejectsUnknownType(t *testing.T) {
	conn, _, cleanup := dialGateway(t)
	defer cleanup()

	readNext(conn, t, "transcript")

	if err := conn.WriteJSON(map[string]any{"type": "bogus"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	typ, _ := readNext(conn, t, "error")
	if typ != "error" {
		t.Fatalf("expected error event, got %s", typ)
	}
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, any) {
	t.Helper()
	var msg struct {
		Type    string `json:"type"`
		Payload any    `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s", expect, msg.Type)
	}
	return msg.Type, msg.Payload
}
