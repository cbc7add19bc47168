package logger

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeCollection struct {
	mu   sync.Mutex
	docs []LogDocument
}

func (f *fakeCollection) InsertMany(_ context.Context, docs []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range docs {
		f.docs = append(f.docs, d.(LogDocument))
	}
	return &mongo.InsertManyResult{}, nil
}

func TestMongoHandlerFlushesOnClose(t *testing.T) {
	coll := &fakeCollection{}
	h := newMongoHandler(coll, slog.LevelInfo)

	log := slog.New(h).With("request_id", "req-1")
	log.Debug("skipped")
	log.WithGroup("order").Info("placed", "id", "o1")
	h.Close()
	h.Close()

	require.Len(t, coll.docs, 1)
	doc := coll.docs[0]
	assert.Equal(t, "placed", doc.Msg)
	assert.Equal(t, "req-1", doc.RequestID)
	assert.Equal(t, "o1", doc.Attrs["order.id"])
}

func TestWithCtxFallsBackToBase(t *testing.T) {
	var buf bytes.Buffer
	tagged := slog.New(slog.NewTextHandler(&buf, nil)).With("request_id", "abc")

	ctx := InjectLogger(context.Background(), tagged)
	WithCtx(ctx).Info("hello")
	assert.Contains(t, buf.String(), "request_id=abc")

	assert.Same(t, base(), WithCtx(context.Background()))
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	m := NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	log := slog.New(m)
	log.Info("info line")
	log.Error("error line")

	assert.Contains(t, a.String(), "info line")
	assert.NotContains(t, b.String(), "info line")
	assert.Contains(t, b.String(), "error line")
}
