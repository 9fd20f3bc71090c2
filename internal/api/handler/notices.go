package handler

import (
	"context"
	"log/slog"
	"sync"
)

type noticeKey struct{}

type noticeSink struct {
	mu       sync.Mutex
	messages []string
}

// Notices is a dashboard.Notifier that hands each notice back to the console
// request that caused it. Notices raised outside a request are logged.
type Notices struct{}

func (Notices) Notify(ctx context.Context, message string) {
	if sink, ok := ctx.Value(noticeKey{}).(*noticeSink); ok {
		sink.mu.Lock()
		sink.messages = append(sink.messages, message)
		sink.mu.Unlock()
		return
	}
	slog.InfoContext(ctx, "operator notice", "message", message)
}

func withNoticeSink(ctx context.Context) (context.Context, *noticeSink) {
	sink := &noticeSink{}
	return context.WithValue(ctx, noticeKey{}, sink), sink
}

func (s *noticeSink) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.messages...)
}
