// Package sse streams server-sent events. A Broker fans every broadcast out
// to the open event streams, for clients that cannot hold a websocket.
//
//	broker := sse.NewBroker("stock")
//	r.Get("/api/stock/stream", "stock.stream", broker.ServeHTTP)
//	broker.Broadcast([]byte(`{"type":"stock","productId":"...","stock":4}`))
package sse

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shashiranjanraj/glamify/pkg/logger"
)

const (
	subscriberBuffer = 16
	defaultHeartbeat = 25 * time.Second
)

// Stream is one client's open event stream.
type Stream struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

// NewStream sets the event-stream headers and lifts the server's write
// deadline so the response can stay open.
func NewStream(w http.ResponseWriter) *Stream {
	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // disable nginx buffering
	w.WriteHeader(http.StatusOK)

	return &Stream{w: w, rc: rc}
}

// Send writes one named event whose data is already encoded.
func (s *Stream) Send(event string, data []byte) error {
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return s.rc.Flush()
}

// Comment writes an SSE comment, used as a keepalive heartbeat.
func (s *Stream) Comment(msg string) error {
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", msg); err != nil {
		return err
	}
	return s.rc.Flush()
}

// Broker tracks open streams. Messages for a subscriber whose buffer is full
// are dropped for that subscriber only.
type Broker struct {
	event     string
	heartbeat time.Duration

	mu   sync.Mutex
	subs map[chan []byte]struct{}
}

type Option func(*Broker)

// WithHeartbeat sets how often an idle stream gets a keepalive comment.
func WithHeartbeat(d time.Duration) Option {
	return func(b *Broker) { b.heartbeat = d }
}

// NewBroker names every event it sends event.
func NewBroker(event string, opts ...Option) *Broker {
	b := &Broker{event: event, heartbeat: defaultHeartbeat, subs: map[chan []byte]struct{}{}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Broadcast queues msg for every open stream. It never blocks.
func (b *Broker) Broadcast(msg []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Subscribers returns the number of open streams.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Broker) subscribe() chan []byte {
	ch := make(chan []byte, subscriberBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) unsubscribe(ch chan []byte) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
}

// ServeHTTP holds the response open until the client goes away.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ch := b.subscribe()
	defer b.unsubscribe(ch)

	stream := NewStream(w)
	if err := stream.Comment("connected"); err != nil {
		logger.WithCtx(r.Context()).Warn("sse: streaming unsupported", "error", err)
		return
	}

	ticker := time.NewTicker(b.heartbeat)
	defer ticker.Stop()

	for {
		var err error
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			err = stream.Send(b.event, msg)
		case <-ticker.C:
			err = stream.Comment("ping")
		}
		if err != nil {
			return
		}
	}
}
