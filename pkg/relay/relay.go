// Package relay hands finished profile records to whoever consumes them.
package relay

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/codeGROOVE-dev/resumator/pkg/profile"
)

// TypeSaveProfile is the message type carrying a freshly scraped record.
const TypeSaveProfile = "SAVE_PROFILE"

// ErrClosed is returned when publishing to a closed channel.
var ErrClosed = errors.New("relay closed")

// Message is one relayed record.
type Message struct {
	Record *profile.Record `json:"data"`
	Type   string          `json:"type"`
}

// Publisher delivers messages.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// Channel fans messages out to in-process subscribers over Go channels.
// A subscriber that is not keeping up blocks Publish until ctx is done.
type Channel struct {
	logger *slog.Logger
	subs   []chan Message
	buffer int
	mu     sync.RWMutex
	closed bool
}

// Option configures a Channel.
type Option func(*Channel)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Channel) { c.logger = logger }
}

// WithBuffer sets each subscriber's channel capacity.
func WithBuffer(n int) Option {
	return func(c *Channel) { c.buffer = n }
}

// NewChannel creates a Channel.
func NewChannel(opts ...Option) *Channel {
	c := &Channel{logger: slog.Default(), buffer: 8}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe returns a channel receiving every message published after the
// call. It is closed by Close.
func (c *Channel) Subscribe() <-chan Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan Message, c.buffer)
	if c.closed {
		close(ch)
		return ch
	}
	c.subs = append(c.subs, ch)
	return ch
}

// Publish delivers msg to every subscriber. With no subscribers the message is dropped.
func (c *Channel) Publish(ctx context.Context, msg Message) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	if len(c.subs) == 0 {
		c.logger.DebugContext(ctx, "message dropped, no subscribers", "type", msg.Type)
		return nil
	}
	for _, ch := range c.subs {
		select {
		case ch <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.logger.DebugContext(ctx, "message published", "type", msg.Type, "subscribers", len(c.subs))
	return nil
}

// Close closes every subscriber channel. Later publishes fail with ErrClosed.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for _, ch := range c.subs {
		close(ch)
	}
	c.subs = nil
}

// SaveProfile builds the message announcing a scraped record.
func SaveProfile(rec *profile.Record) Message {
	return Message{Type: TypeSaveProfile, Record: rec}
}

// Discard is a Publisher that drops everything.
type Discard struct{}

// Publish implements Publisher.
func (Discard) Publish(context.Context, Message) error { return nil }

var (
	_ Publisher = (*Channel)(nil)
	_ Publisher = Discard{}
)
