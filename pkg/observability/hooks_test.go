package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPlanHooks{}
	p.OnPlanStart(ctx, "atlas")
	p.OnStageStart(ctx, "paginate")
	p.OnStageComplete(ctx, "paginate", time.Second, nil)
	p.OnPlanComplete(ctx, "atlas", 12, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "plan")
	c.OnCacheMiss(ctx, "plan")
	c.OnCacheSet(ctx, "papers", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Plan().(NoopPlanHooks); !ok {
		t.Error("Plan() should return NoopPlanHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customPlan := &testPlanHooks{}
	SetPlanHooks(customPlan)
	if Plan() != customPlan {
		t.Error("SetPlanHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	Reset()
	if _, ok := Plan().(NoopPlanHooks); !ok {
		t.Error("Reset() should restore NoopPlanHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	custom := &testPlanHooks{}
	SetPlanHooks(custom)
	SetPlanHooks(nil)
	if Plan() != custom {
		t.Error("SetPlanHooks(nil) should be ignored")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	ctx := context.Background()

	h.OnStageComplete(ctx, "paginate", time.Millisecond, nil)
	h.OnStageComplete(ctx, "index", time.Millisecond, errors.New("boom"))
	h.OnCacheHit(ctx, "plan")

	out := buf.String()
	for _, want := range []string{"stage complete", "paginate", "stage failed", "boom", "cache hit"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testPlanHooks struct{ NoopPlanHooks }
type testCacheHooks struct{ NoopCacheHooks }
