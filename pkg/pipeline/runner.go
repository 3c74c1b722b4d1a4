package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/pi-bie/ocitysmap/pkg/cache"
	"github.com/pi-bie/ocitysmap/pkg/errors"
	"github.com/pi-bie/ocitysmap/pkg/index"
	"github.com/pi-bie/ocitysmap/pkg/observability"
)

// Runner encapsulates plan execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store plans. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Plan runs the complete job: the plan is computed (or read from the
// cache), its shapefiles are written into a fresh workspace and
// opts.Consume, if set, is called before the workspace is removed.
func (r *Runner) Plan(ctx context.Context, opts Options) (result *Result, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	hooks := observability.Plan()
	hooks.OnPlanStart(ctx, string(opts.Mode))
	result = &Result{JobID: uuid.NewString()}
	defer func() {
		pages := 0
		if result != nil && result.Plan != nil {
			pages = result.Plan.PageCount()
		}
		hooks.OnPlanComplete(ctx, string(opts.Mode), pages, time.Since(start), err)
	}()

	plan, hit, err := r.PlanWithCacheInfo(ctx, opts, &result.Stats)
	if err != nil {
		return nil, err
	}
	result.Plan = plan
	result.CacheInfo.PlanHit = hit

	// Stage: artifacts
	ws, err := os.MkdirTemp(opts.WorkDir, "ocitysmap-"+result.JobID+"-")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create job workspace")
	}
	result.Workspace = ws
	if !opts.KeepWorkspace {
		defer os.RemoveAll(ws)
	}
	artifactStart := time.Now()
	if err := r.stage(ctx, StageArtifacts, func() error {
		_, err := plan.WriteArtifacts(ws)
		return err
	}); err != nil {
		return nil, err
	}
	result.Stats.ArtifactTime = time.Since(artifactStart)
	r.Logger.Info("wrote shapefiles",
		"files", len(plan.Artifacts),
		"workspace", ws,
		"duration", result.Stats.ArtifactTime)

	if opts.Consume != nil {
		if err := opts.Consume(ctx, result); err != nil {
			return nil, fmt.Errorf("consume: %w", err)
		}
	}

	result.Stats.MapPages = len(plan.Pages)
	result.Stats.IndexPages = len(plan.IndexPages)
	result.Stats.TotalTime = time.Since(start)
	return result, nil
}

// PlanWithCacheInfo computes the plan with caching and returns cache hit
// info. stats, when not nil, receives the stage timings of a miss.
func (r *Runner) PlanWithCacheInfo(ctx context.Context, opts Options, stats *Stats) (*Plan, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	if stats == nil {
		stats = &Stats{}
	}

	cacheKey := r.Keyer.PlanKey(string(opts.Mode), opts.PlanKeyOpts())
	cacheHooks := observability.Cache()

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var plan Plan
			if err := json.Unmarshal(data, &plan); err == nil {
				cacheHooks.OnCacheHit(ctx, "plan")
				r.Logger.Info("plan loaded from cache", "mode", opts.Mode, "pages", len(plan.Pages))
				stats.IndexItems = index.Count(plan.Index)
				return &plan, true, nil
			}
		}
		cacheHooks.OnCacheMiss(ctx, "plan")
	}

	var (
		plan *Plan
		err  error
	)
	if opts.Mode.Paged() {
		plan, err = r.planPaged(ctx, &opts, stats)
	} else {
		plan, err = r.planSingle(ctx, &opts, stats)
	}
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(plan); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, buf.Bytes(), cache.TTLPlan); err == nil {
			cacheHooks.OnCacheSet(ctx, "plan", buf.Len())
		}
	}
	return plan, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// stage runs fn as the named stage, reporting it to the plan hooks. A
// canceled context stops the job before the stage starts.
func (r *Runner) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeCanceled, err, "%s: job canceled", name)
	}
	hooks := observability.Plan()
	hooks.OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	hooks.OnStageComplete(ctx, name, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
