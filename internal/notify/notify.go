// Package notify is the only way the console's core talks to the operator:
// toast-style notifications and confirm/alert dialogs. Front ends provide the
// implementation.
package notify

import (
	"context"
	"sync"

	"github.com/ridloal/retail-admin-console/internal/platform/logger"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Notifier interface {
	Notify(level Level, title, text string)
}

type Confirmer interface {
	// Confirm asks a yes/no question; false means the operator declined.
	Confirm(ctx context.Context, title, text string) bool
	Alert(ctx context.Context, title, text string)
}

type Notification struct {
	Level Level  `json:"level"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// LogNotifier writes notifications to the console log.
type LogNotifier struct{}

func (LogNotifier) Notify(level Level, title, text string) {
	switch level {
	case LevelError:
		logger.Error("notify: "+title+" - "+text, nil)
	case LevelWarning:
		logger.Warn("notify: " + title + " - " + text)
	default:
		logger.Info("notify: " + title + " - " + text)
	}
}

// Recorder buffers notifications until a front end drains them, e.g. into an
// HTTP response.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(level Level, title, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Level: level, Title: title, Text: text})
}

// Drain returns everything recorded so far and empties the buffer.
func (r *Recorder) Drain() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.items
	r.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

// StaticConfirmer answers every confirmation with the same value. The console
// service builds one per request from the confirm query parameter.
type StaticConfirmer struct {
	Answer   bool
	Notifier Notifier
}

func (s StaticConfirmer) Confirm(ctx context.Context, title, text string) bool {
	return s.Answer
}

func (s StaticConfirmer) Alert(ctx context.Context, title, text string) {
	if s.Notifier != nil {
		s.Notifier.Notify(LevelInfo, title, text)
	}
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(level Level, title, text string) {
	for _, n := range m {
		n.Notify(level, title, text)
	}
}
