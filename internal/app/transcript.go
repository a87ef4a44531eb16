package app

import (
	"sync"

	"studybot-client/internal/domain"
)

// Transcript is the ordered log of message exchanges for one session. It is
// append-only except for the reply of the final entry, which starts pending
// and is settled exactly once. Every mutation broadcasts a fresh snapshot to
// subscribers so presentation layers can re-render.
type Transcript struct {
	mu          sync.RWMutex
	exchanges   []domain.Exchange
	subscribers map[chan []domain.Exchange]struct{}
}

func NewTranscript() *Transcript {
	return &Transcript{
		subscribers: make(map[chan []domain.Exchange]struct{}),
	}
}

// Append adds a new exchange with a pending reply and returns its index.
func (t *Transcript) Append(user string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.exchanges = append(t.exchanges, domain.Exchange{
		User:  user,
		Reply: domain.Reply{State: domain.ReplyPending},
	})
	t.broadcastLocked()
	return len(t.exchanges) - 1
}

// Resolve replaces the final entry's reply with the real assistant text.
func (t *Transcript) Resolve(text string) error {
	return t.settle(domain.Reply{State: domain.ReplyResolved, Text: text})
}

// Fail settles the final entry's reply with a user-facing failure notice.
func (t *Transcript) Fail(notice string) error {
	return t.settle(domain.Reply{State: domain.ReplyFailed, Text: notice})
}

func (t *Transcript) settle(reply domain.Reply) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.exchanges) == 0 {
		return domain.ErrEmptyTranscript
	}
	t.exchanges[len(t.exchanges)-1].Reply = reply
	t.broadcastLocked()
	return nil
}

// Hydrate replaces the whole transcript with fully-resolved history. It runs
// once at session start, before any optimistic entries exist.
func (t *Transcript) Hydrate(history []domain.HistoryEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.exchanges = make([]domain.Exchange, 0, len(history))
	for _, h := range history {
		t.exchanges = append(t.exchanges, domain.Exchange{
			User:  h.User,
			Reply: domain.Reply{State: domain.ReplyResolved, Text: h.Bot},
		})
	}
	t.broadcastLocked()
}

// Snapshot returns a copy of the exchanges in chronological order.
func (t *Transcript) Snapshot() []domain.Exchange {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshotLocked()
}

// Len reports the number of exchanges.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.exchanges)
}

// Subscribe returns a channel that receives a transcript snapshot after every
// mutation, starting with the current state. The caller must invoke the
// returned cancel function to avoid leaks.
func (t *Transcript) Subscribe() (<-chan []domain.Exchange, func()) {
	ch := make(chan []domain.Exchange, 8)

	t.mu.Lock()
	t.subscribers[ch] = struct{}{}
	initial := t.snapshotLocked()
	t.mu.Unlock()

	ch <- initial

	cancel := func() {
		t.mu.Lock()
		if _, ok := t.subscribers[ch]; ok {
			delete(t.subscribers, ch)
			close(ch)
		}
		t.mu.Unlock()
	}
	return ch, cancel
}

func (t *Transcript) broadcastLocked() {
	snap := t.snapshotLocked()
	for ch := range t.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the stale snapshot so a slow subscriber never blocks a mutation.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func (t *Transcript) snapshotLocked() []domain.Exchange {
	out := make([]domain.Exchange, len(t.exchanges))
	copy(out, t.exchanges)
	return out
}
