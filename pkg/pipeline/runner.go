package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/autocrate/autocrate/pkg/cache"
	"github.com/autocrate/autocrate/pkg/export"
	"github.com/autocrate/autocrate/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
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

// Execute runs the complete design → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	hooks := observability.Design()
	runStart := time.Now()

	// Stage 1: Design
	design, designHit, err := r.ComputeDesignWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("design: %w", err)
	}
	result.Design = design
	result.Stats.DesignTime = time.Since(runStart)
	result.Stats.SkidCount = design.Skids.Count
	result.Stats.BoardCount = len(design.Floor.Boards)
	result.Stats.CleatCount = len(design.Walls.Side.Cleats) + len(design.Walls.End.Cleats) +
		design.Cap.Longitudinal.Count + design.Cap.Transverse.Count
	result.CacheInfo.DesignHit = designHit

	hooks.OnRunStart(ctx, design.RunID)

	// Compute design hash for artifact cache keys and API responses
	if designData, err := json.Marshal(design); err == nil {
		result.DesignHash = cache.Hash(designData)
	}

	r.Logger.Info("computed design",
		"skids", design.Skids.Count,
		"boards", len(design.Floor.Boards),
		"status", design.Status,
		"duration", result.Stats.DesignTime)

	// Stage 2: Export
	exportStart := time.Now()
	artifacts, exportHit, err := r.ExportWithCacheInfo(ctx, design, opts)
	if err != nil {
		hooks.OnRunComplete(ctx, design.RunID, time.Since(runStart), err)
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.ExportTime = time.Since(exportStart)
	result.CacheInfo.ExportHit = exportHit

	r.Logger.Info("rendered artifacts",
		"formats", opts.Formats,
		"duration", result.Stats.ExportTime)

	hooks.OnRunComplete(ctx, design.RunID, time.Since(runStart), nil)
	return result, nil
}

// ComputeDesignWithCacheInfo computes a design with caching and returns cache hit info.
func (r *Runner) ComputeDesignWithCacheInfo(ctx context.Context, opts Options) (export.Design, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return export.Design{}, false, err
	}
	r.applyLogger(&opts)

	cacheHooks := observability.Cache()
	cacheKey := r.Keyer.DesignKey(cache.HashValue(opts.DesignKeyValue()))

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached export.Design
			if err := json.Unmarshal(data, &cached); err == nil {
				cacheHooks.OnCacheHit(ctx, "design")
				return cached, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
		cacheHooks.OnCacheMiss(ctx, "design")
	}

	// Compute
	design, err := Compute(ctx, opts)
	if err != nil {
		return export.Design{}, false, err
	}

	// Cache the result
	if data, err := json.Marshal(design); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLDesign); err == nil {
			cacheHooks.OnCacheSet(ctx, "design", len(data))
		}
	}

	return design, false, nil // Cache miss
}

// ComputeDesign is a convenience wrapper that calls ComputeDesignWithCacheInfo
// and discards the cache hit info.
func (r *Runner) ComputeDesign(ctx context.Context, opts Options) (export.Design, error) {
	design, _, err := r.ComputeDesignWithCacheInfo(ctx, opts)
	return design, err
}

// ExportWithCacheInfo renders artifacts with caching and returns cache hit info.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, design export.Design, opts Options) (map[string][]byte, bool, error) {
	opts.SetExportDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	designData, err := json.Marshal(design)
	if err != nil {
		return nil, false, fmt.Errorf("serialize design for cache key: %w", err)
	}
	designHash := cache.Hash(designData)

	hooks := observability.Design()
	cacheHooks := observability.Cache()
	hooks.OnExportStart(ctx, opts.Formats)
	start := time.Now()

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ExportKey(designHash, format)
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			cacheHooks.OnCacheHit(ctx, "export")
			hooks.OnExportComplete(ctx, opts.Formats, time.Since(start), nil)
			return artifacts, true, nil // All artifacts from cache
		}
		cacheHooks.OnCacheMiss(ctx, "export")
	}

	// Render all formats
	artifacts = make(map[string][]byte)
	for _, format := range opts.Formats {
		data, err := renderArtifact(design, format)
		if err != nil {
			hooks.OnExportComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data

		cacheKey := r.Keyer.ExportKey(designHash, format)
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLExport); err == nil {
			cacheHooks.OnCacheSet(ctx, "export", len(data))
		}
	}

	hooks.OnExportComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, false, nil // Cache miss
}

// Export is a convenience wrapper that calls ExportWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Export(ctx context.Context, design export.Design, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.ExportWithCacheInfo(ctx, design, opts)
	return artifacts, err
}

// renderArtifact dispatches one format to its renderer.
func renderArtifact(design export.Design, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return export.RenderJSON(design)
	case FormatEXP:
		return export.RenderEXP(design)
	case FormatBOM:
		return export.RenderBOM(design)
	default:
		return nil, ValidateFormat(format)
	}
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
