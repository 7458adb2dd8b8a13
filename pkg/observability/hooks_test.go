package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

type countingPipeline struct {
	NoopPipelineHooks
	layouts atomic.Int32
}

func (c *countingPipeline) OnLayoutStart(context.Context, int) { c.layouts.Add(1) }

type countingCache struct {
	NoopCacheHooks
	hits atomic.Int32
}

func (c *countingCache) OnCacheHit(context.Context, string) { c.hits.Add(1) }

type statusRecorder struct {
	NoopHTTPHooks
	mu    sync.Mutex
	codes []int
}

func (r *statusRecorder) OnResponse(_ context.Context, _, _ string, code int, _ time.Duration) {
	r.mu.Lock()
	r.codes = append(r.codes, code)
	r.mu.Unlock()
}

func TestDefaultsAreNoop(t *testing.T) {
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T", Cache())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T", HTTP())
	}

	ctx := context.Background()
	Pipeline().OnLayoutComplete(ctx, 3, time.Second, errors.New("x"))
	Cache().OnCacheSet(ctx, "render", 10)
	HTTP().OnResponse(ctx, "POST", "/v1/layout", 409, time.Millisecond)
}

func TestRegisteredHooksReceiveEvents(t *testing.T) {
	t.Cleanup(Reset)
	ctx := context.Background()

	p, c, h := &countingPipeline{}, &countingCache{}, &statusRecorder{}
	SetPipelineHooks(p)
	SetCacheHooks(c)
	SetHTTPHooks(h)

	Pipeline().OnLayoutStart(ctx, 5)
	Cache().OnCacheHit(ctx, "layout")
	HTTP().OnResponse(ctx, "POST", "/v1/layout", 200, time.Millisecond)

	if p.layouts.Load() != 1 || c.hits.Load() != 1 || len(h.codes) != 1 {
		t.Errorf("events = %d layouts, %d hits, %v codes", p.layouts.Load(), c.hits.Load(), h.codes)
	}

	Reset()
	Pipeline().OnLayoutStart(ctx, 5)
	if p.layouts.Load() != 1 {
		t.Error("hooks still called after Reset")
	}
}

func TestSetNilKeepsCurrentHooks(t *testing.T) {
	t.Cleanup(Reset)
	p := &countingPipeline{}
	SetPipelineHooks(p)
	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	if Pipeline() != p {
		t.Errorf("Pipeline() = %T after SetPipelineHooks(nil)", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T after SetCacheHooks(nil)", Cache())
	}
}

func TestHooksSwapConcurrently(t *testing.T) {
	t.Cleanup(Reset)
	p := &countingPipeline{}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetPipelineHooks(p)
		}()
		go func() {
			defer wg.Done()
			Pipeline().OnLayoutStart(context.Background(), 1)
		}()
	}
	wg.Wait()
	if Pipeline() != p {
		t.Errorf("Pipeline() = %T", Pipeline())
	}
}

func TestLogHooksWriteToLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	ctx := context.Background()

	p := LogPipelineHooks{Logger: logger}
	p.OnLayoutStart(ctx, 3)
	p.OnLayoutComplete(ctx, 3, time.Millisecond, errors.New("solver exploded"))
	LogCacheHooks{Logger: logger}.OnCacheHit(ctx, "layout")

	out := buf.String()
	for _, want := range []string{"layout started", "layout failed", "solver exploded", "cache hit"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
