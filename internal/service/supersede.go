package service

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is the cancel cause of a request replaced by a newer one with the same key.
var ErrSuperseded = errors.New("superseded by a newer request")

type inflight struct {
	seq    uint64
	cancel context.CancelCauseFunc
}

// Superseder 同一 key（如 viewer+feed）只保留最新一次请求，旧请求被取消
type Superseder struct {
	mu   sync.Mutex
	seq  uint64
	live map[string]inflight
	rec  Recorder
}

func NewSuperseder(rec Recorder) *Superseder {
	return &Superseder{live: make(map[string]inflight), rec: orNop(rec)}
}

// Begin derives a context for a new request under key and cancels the
// previous request for that key with ErrSuperseded. Call done when the
// request finishes.
func (s *Superseder) Begin(ctx context.Context, key string) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(ctx)

	s.mu.Lock()
	s.seq++
	seq := s.seq
	prev, ok := s.live[key]
	s.live[key] = inflight{seq: seq, cancel: cancel}
	s.mu.Unlock()

	if ok {
		prev.cancel(ErrSuperseded)
		s.rec.Superseded()
	}

	return ctx, func() {
		s.mu.Lock()
		if cur, ok := s.live[key]; ok && cur.seq == seq {
			delete(s.live, key)
		}
		s.mu.Unlock()
		cancel(context.Canceled)
	}
}

// IsSuperseded 判断 ctx 是否因被新请求取代而取消
func IsSuperseded(ctx context.Context) bool {
	return errors.Is(context.Cause(ctx), ErrSuperseded)
}
