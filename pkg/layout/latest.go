package layout

import (
	"context"
	"sync"

	"github.com/matzehuels/rowgraph/pkg/errors"
)

// ErrStale reports that a newer request replaced this one.
var ErrStale = errors.New(errors.ErrCodeStale, "layout superseded by a newer request")

// Latest is a single-slot request sequencer. Only the most recently started
// call of Do may deliver its result; older calls are cancelled and get
// ErrStale. The zero value is ready to use.
type Latest struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// Do runs fn with a context that is cancelled as soon as another Do starts.
// fn should publish its result only when Do returns nil.
func (l *Latest) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.seq++
	ticket := l.seq
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.mu.Unlock()

	err := fn(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	defer cancel()
	if l.seq != ticket {
		return ErrStale
	}
	l.cancel = nil
	return err
}

// Cancel aborts the in-flight request, if any.
func (l *Latest) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.seq++
}

// Slots sequences requests per key, for example per client. A key's
// sequencer lives only while one of its requests is in flight, so idle keys
// cost nothing. The zero value is ready to use.
type Slots struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	Latest
	active int
}

// Do runs fn through the sequencer of key; see Latest.Do.
func (s *Slots) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	if s.slots == nil {
		s.slots = make(map[string]*slot)
	}
	sl, ok := s.slots[key]
	if !ok {
		sl = &slot{}
		s.slots[key] = sl
	}
	sl.active++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sl.active--; sl.active == 0 {
			delete(s.slots, key)
		}
	}()
	return sl.Do(ctx, fn)
}

// Cancel aborts the in-flight request of key, if any.
func (s *Slots) Cancel(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sl, ok := s.slots[key]; ok {
		sl.Cancel()
	}
}

// Len returns the number of keys with a request in flight.
func (s *Slots) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}
