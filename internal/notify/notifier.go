// Package notify carries transient, non-blocking user notifications
// (the toasts of the compose and present stages).
package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

var errBufferFull = errors.New("notification buffer full")

// Level is the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification represents a notification message.
type Notification struct {
	Level   Level
	Message string
}

// Notifier is the interface for sending notifications.
type Notifier interface {
	// Send sends a notification.
	Send(ctx context.Context, notification Notification) error
}

// Success sends a success notification, ignoring delivery errors.
func Success(ctx context.Context, n Notifier, msg string) { send(ctx, n, LevelSuccess, msg) }

// Info sends an info notification, ignoring delivery errors.
func Info(ctx context.Context, n Notifier, msg string) { send(ctx, n, LevelInfo, msg) }

// Warning sends a warning notification, ignoring delivery errors.
func Warning(ctx context.Context, n Notifier, msg string) { send(ctx, n, LevelWarning, msg) }

// Error sends an error notification, ignoring delivery errors.
func Error(ctx context.Context, n Notifier, msg string) { send(ctx, n, LevelError, msg) }

func send(ctx context.Context, n Notifier, level Level, msg string) {
	if n == nil {
		return
	}
	if err := n.Send(ctx, Notification{Level: level, Message: msg}); err != nil {
		slog.Debug("notification dropped", "level", level, "error", err)
	}
}

// LogNotifier writes notifications to the default slog logger. Used by the
// non-interactive commands.
type LogNotifier struct{}

// Send logs the notification at a level matching its severity.
func (LogNotifier) Send(ctx context.Context, n Notification) error {
	switch n.Level {
	case LevelError:
		slog.ErrorContext(ctx, n.Message)
	case LevelWarning:
		slog.WarnContext(ctx, n.Message)
	default:
		slog.InfoContext(ctx, n.Message)
	}
	return nil
}

// Channel delivers notifications to a buffered channel. When the buffer is
// full the oldest-pending notification wins and the new one is dropped.
type Channel struct {
	ch chan Notification
}

// NewChannel creates a Channel notifier with the given buffer size.
func NewChannel(size int) *Channel {
	if size < 1 {
		size = 16
	}
	return &Channel{ch: make(chan Notification, size)}
}

// Send enqueues the notification without blocking.
func (c *Channel) Send(ctx context.Context, n Notification) error {
	select {
	case c.ch <- n:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errBufferFull
	}
}

// C returns the receive side of the channel.
func (c *Channel) C() <-chan Notification {
	return c.ch
}

// Recorder keeps every notification in memory. Safe for concurrent use.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

// Send records the notification.
func (r *Recorder) Send(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

// All returns a copy of the recorded notifications in send order.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.sent))
	copy(out, r.sent)
	return out
}

// Count returns how many notifications of level were recorded.
func (r *Recorder) Count(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.sent {
		if s.Level == level {
			n++
		}
	}
	return n
}
