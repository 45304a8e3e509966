package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hyperdrift-io/need-to-know/pkg/llm"
)

type fakeStore struct {
	mu     sync.Mutex
	values map[string]string
	ttls   map[string]time.Duration
	getErr error
	setErr error
	gets   int
	sets   int
	onGet  func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeStore) Get(ctx context.Context, key string) (string, bool, error) {
	if f.onGet != nil {
		f.onGet()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = value
	f.ttls[key] = ttl
	return nil
}

type fakeCompleter struct {
	content string
	err     error
	calls   atomic.Int32
	release chan struct{}
	// hang makes Complete block until its context ends.
	hang bool

	mu   sync.Mutex
	last llm.CompletionRequest
}

func (f *fakeCompleter) Name() string {
	return "fake"
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.last = req
	f.mu.Unlock()
	if f.hang {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.release != nil {
		<-f.release
	}
	return f.content, f.err
}
