package pipeline

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/inkforge/inkforge/pkg/cache"
	"github.com/inkforge/inkforge/pkg/diagram"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the preview server use this to avoid duplicating
// caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store render results. Multiple goroutines can safely use the same
// Runner with different options.
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

// Execute renders one diagram occurrence, consulting the cache first.
//
// A cache hit returns the stored fragment together with the warnings
// recorded when it was first rendered. Cache backend failures are logged
// and degrade to a normal render; only the diagram engine itself can fail
// the call, and then only for an unsupported type.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	start := time.Now()
	key := r.Keyer.RenderKey(opts.Type, opts.Content,
		canonicalOptions(opts.Options), themeFingerprint(opts.Theme))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if env, err := unmarshalEnvelope(data); err == nil {
				opts.Logger.Debug("render cache hit", "type", opts.Type, "key", key)
				return &Result{
					HTML:      env.HTML,
					Warnings:  env.Warnings,
					Stats:     Stats{RenderTime: time.Since(start)},
					CacheInfo: CacheInfo{Hit: true},
				}, nil
			}
			// Corrupt entry: drop it and re-render.
			_ = r.Cache.Delete(ctx, key)
		}
	}

	html, warnings, err := diagram.Render(opts.Type, opts.Content, opts.Options, opts.Theme)
	if err != nil {
		return nil, err
	}

	for _, w := range warnings {
		opts.Logger.Warn("diagram warning", "type", w.Kind, "message", w.Message)
	}

	if !opts.Refresh {
		if data, err := marshalEnvelope(html, warnings); err == nil {
			if err := r.Cache.Set(ctx, key, data, cache.TTLRender); err != nil {
				opts.Logger.Debug("render cache write failed", "error", err)
			}
		}
	}

	return &Result{
		HTML:      html,
		Warnings:  warnings,
		Stats:     Stats{RenderTime: time.Since(start)},
		CacheInfo: CacheInfo{Hit: false},
	}, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// canonicalOptions renders an options map deterministically for keying.
func canonicalOptions(o map[string]string) string {
	if len(o) == 0 {
		return ""
	}
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(o[k])
		b.WriteByte('\n')
	}
	return b.String()
}
