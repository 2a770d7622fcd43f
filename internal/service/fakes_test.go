package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/d60-Lab/shelf-social/internal/model"
)

var errStoreDown = errors.New("store unavailable")

type fakePapers struct {
	mu    sync.Mutex
	rows  map[string]*model.Paper
	calls [][]string
	err   error
}

func (f *fakePapers) GetByIDs(_ context.Context, ids []string) ([]*model.Paper, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string(nil), ids...))
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.Paper
	for _, id := range ids {
		if p, ok := f.rows[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeProfiles struct {
	mu    sync.Mutex
	rows  map[string]model.ProfileSnapshot
	calls [][]string
	err   error
}

func (f *fakeProfiles) Load(_ context.Context, ids []string) (map[string]model.ProfileSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string(nil), ids...))
	if f.err != nil {
		return nil, f.err
	}
	out := map[string]model.ProfileSnapshot{}
	for _, id := range ids {
		if p, ok := f.rows[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeProfiles) Directory(context.Context) ([]model.ProfileSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.ProfileSnapshot, 0, len(f.rows))
	for _, p := range f.rows {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProfiles) Invalidate(context.Context, string) {}

type countingRecorder struct {
	mu         sync.Mutex
	degraded   []string
	collapsed  int
	superseded int
	observed   map[string]int
}

func (r *countingRecorder) ObserveAssembly(feed string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.observed == nil {
		r.observed = map[string]int{}
	}
	r.observed[feed]++
}

func (r *countingRecorder) SectionDegraded(section string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.degraded = append(r.degraded, section)
}

func (r *countingRecorder) LikesCollapsed(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.collapsed += n
}

func (r *countingRecorder) Superseded() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.superseded++
}
