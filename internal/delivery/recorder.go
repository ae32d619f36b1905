package delivery

import (
	"context"
	"sync"
)

// Recorder keeps every message it is handed. Useful as a channel in tests.
type Recorder struct {
	mu       sync.Mutex
	name     string
	err      error
	messages []*Message
}

var _ Channel = (*Recorder)(nil)

func NewRecorder(name string) *Recorder {
	return &Recorder{name: name}
}

// FailWith makes every following Send return err after recording.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *Recorder) Name() string { return r.name }

func (r *Recorder) Send(_ context.Context, msg *Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return r.err
}

func (r *Recorder) Messages() []*Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Message, len(r.messages))
	copy(out, r.messages)
	return out
}
