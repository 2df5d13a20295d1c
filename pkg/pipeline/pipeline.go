// Package pipeline runs the diagram rendering pipeline with caching.
//
// This package sits between the pure rendering engine in pkg/diagram and the
// entry points (CLI commands, the preview server): it validates options,
// consults the render cache, and collects timing stats. By centralizing this
// logic, the single-file render command and the parallel site build behave
// identically.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Type:    "flowchart",
//	    Content: "Start -> End",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.HTML)
package pipeline

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/inkforge/inkforge/pkg/cache"
	"github.com/inkforge/inkforge/pkg/diagram"
	"github.com/inkforge/inkforge/pkg/diagram/theme"
)

// Options contains all configuration for one render.
// This struct supports JSON serialization for preview server requests.
type Options struct {
	// Type is the diagram kind string (flowchart, gantt, sequence,
	// class-diagram, state).
	Type string `json:"type"`

	// Content is the raw diagram body.
	Content string `json:"content"`

	// Options carries directive options; "title" is recognized.
	Options map[string]string `json:"options,omitempty"`

	// Refresh bypasses the cache for both read and write.
	Refresh bool `json:"refresh,omitempty"`

	// Theme overrides the default theme. Not serialized; the preview
	// server resolves its own theme before building Options.
	Theme *theme.Theme `json:"-"`

	// Logger for pipeline progress. Defaults to log.Default().
	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if _, err := diagram.ParseKind(o.Type); err != nil {
		return err
	}
	if o.Theme == nil {
		o.Theme = theme.Default()
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return nil
}

// Stats holds timing information for one render.
type Stats struct {
	RenderTime time.Duration `json:"render_time"`
}

// CacheInfo reports whether the render was served from cache.
type CacheInfo struct {
	Hit bool `json:"hit"`
}

// Result is the outcome of one pipeline execution.
type Result struct {
	HTML      string            `json:"html"`
	Warnings  []diagram.Warning `json:"warnings,omitempty"`
	Stats     Stats             `json:"stats"`
	CacheInfo CacheInfo         `json:"cache_info"`
}

// envelope is the cached form of a result: the fragment plus its warnings,
// so a cache hit reports the same diagnostics as the original render.
type envelope struct {
	HTML     string            `json:"html"`
	Warnings []diagram.Warning `json:"warnings,omitempty"`
}

func marshalEnvelope(html string, warnings []diagram.Warning) ([]byte, error) {
	return json.Marshal(envelope{HTML: html, Warnings: warnings})
}

func unmarshalEnvelope(data []byte) (envelope, error) {
	var e envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return envelope{}, fmt.Errorf("decode cached render: %w", err)
	}
	return e, nil
}

// themeFingerprint condenses a theme into a cache key component. Any edit
// to geometry, palette or classifier invalidates cached fragments.
func themeFingerprint(th *theme.Theme) string {
	data, _ := json.Marshal(th)
	return cache.Hash(data)
}
