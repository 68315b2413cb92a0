package core

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/virtline/number-sim/internal/storage"
)

const messagesDocument = "messages"

// Inbox owns every number's message sequence. Messages are append-only:
// within one number, insertion order is delivery order and ids are assigned
// sequentially from 1.
type Inbox struct {
	mu       sync.Mutex
	byNumber map[string][]Message

	store *storage.Store
	log   zerolog.Logger
}

func NewInbox(store *storage.Store, log zerolog.Logger) *Inbox {
	return &Inbox{
		byNumber: storage.Load[[]Message](store, messagesDocument),
		store:    store,
		log:      log.With().Str("component", "inbox").Logger(),
	}
}

// Append files one message under the number and returns it with its id.
func (i *Inbox) Append(numberValue, sender, body string) Message {
	i.mu.Lock()
	defer i.mu.Unlock()

	seq := i.byNumber[numberValue]
	msg := Message{
		ID:         len(seq) + 1,
		Sender:     sender,
		Body:       body,
		ReceivedAt: time.Now().UTC(),
	}
	i.byNumber[numberValue] = append(seq, msg)
	if err := storage.Save(i.store, messagesDocument, i.byNumber); err != nil {
		i.log.Error().Err(err).Msg("persist messages document")
	}
	return msg
}

// List returns the number's messages in delivery order.
func (i *Inbox) List(numberValue string) []Message {
	i.mu.Lock()
	defer i.mu.Unlock()
	seq := i.byNumber[numberValue]
	out := make([]Message, len(seq))
	copy(out, seq)
	return out
}

// Total counts messages across all numbers.
func (i *Inbox) Total() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	n := 0
	for _, seq := range i.byNumber {
		n += len(seq)
	}
	return n
}
