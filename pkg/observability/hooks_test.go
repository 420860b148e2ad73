package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnFetchStart(ctx, "rod")
	p.OnFetchComplete(ctx, "rod", 15, time.Second, nil)
	p.OnRenderStart(ctx, "single", 20)
	p.OnRenderComplete(ctx, "single", 1024, time.Second, nil)
	p.OnStore(ctx, "result_20240101_000000_abcd1234.png", 1024, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "numbers")
	c.OnCacheMiss(ctx, "numbers")
	c.OnCacheSet(ctx, "numbers", 64)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "numbers.example", "/api/numbers")
	h.OnResponse(ctx, "POST", "numbers.example", "/api/numbers", 200, time.Second)
	h.OnError(ctx, "POST", "numbers.example", "/api/numbers", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customPipeline := &recordingPipeline{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}
	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}
	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Pipeline().OnFetchStart(context.Background(), "static")
	if customPipeline.fetches != 1 {
		t.Errorf("fetch events = %d, want 1", customPipeline.fetches)
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &recordingPipeline{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)
	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

type recordingPipeline struct {
	NoopPipelineHooks
	fetches int
}

func (r *recordingPipeline) OnFetchStart(context.Context, string) { r.fetches++ }

type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
