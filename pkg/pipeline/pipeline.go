// Package pipeline provides the core crate design pipeline for AutoCrate.
//
// This package implements the complete skid → floor → wall → cap → decal
// pipeline that can be used by CLI and API components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of five calculator stages plus export:
//
//  1. Skid: select skid lumber from the weight rule table and space the skids
//  2. Floor: lay floorboards over the skids, symmetric from both ends
//  3. Wall: splice plywood and place cleats on the side and end panels
//  4. Cap: place the top cleat grid over the cap panel
//  5. Decal: position shipping decals on the wall panels
//
// Export renders the finished design into the requested artifact formats.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    ProductWeight: 300,
//	    ProductWidth:  40,
//	    ProductLength: 60,
//	    ProductHeight: 35,
//	    Formats:       []string{"exp"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	exp := result.Artifacts["exp"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/autocrate/autocrate/pkg/export"
	"github.com/autocrate/autocrate/pkg/lumber"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultClearanceSide is the standard clearance between the product and
	// the inner wall face, per side.
	DefaultClearanceSide = 2.0

	// DefaultClearanceAbove is the standard clearance above the product
	// under the cap panel.
	DefaultClearanceAbove = 1.5

	// DefaultPanelThickness is the standard wall and cap sheathing
	// thickness.
	DefaultPanelThickness = lumber.DefaultWallPlywoodThickness
)

// DefaultFloorNominals is the standard floorboard selection, widest first.
var DefaultFloorNominals = []string{"2x12", "2x10", "2x8", "2x6"}

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatEXP  = "exp"
	FormatBOM  = "bom"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatEXP:  true,
	FormatBOM:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the design pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Product inputs
	ProductWeight float64 `json:"product_weight"`
	ProductWidth  float64 `json:"product_width"`
	ProductLength float64 `json:"product_length"`
	ProductHeight float64 `json:"product_height"`

	// Clearances
	ClearanceSide  float64 `json:"clearance_side,omitempty"`
	ClearanceAbove float64 `json:"clearance_above,omitempty"`

	// Wall construction stock
	PanelThickness float64 `json:"panel_thickness,omitempty"`
	CleatThickness float64 `json:"cleat_thickness,omitempty"`
	CleatWidth     float64 `json:"cleat_width,omitempty"`

	// MaxCleatSpacing overrides the widest clear span tolerated between the
	// outermost wall cleats before intermediates are inserted.
	MaxCleatSpacing float64 `json:"max_cleat_spacing,omitempty"`

	// KlimpsPerEdge is the fastener count per end-panel vertical edge.
	KlimpsPerEdge int `json:"klimps_per_edge,omitempty"`

	// Cap construction stock
	CapCleatThickness  float64 `json:"cap_cleat_thickness,omitempty"`
	CapCleatWidth      float64 `json:"cap_cleat_width,omitempty"`
	CapMaxCleatSpacing float64 `json:"cap_max_cleat_spacing,omitempty"`

	// Floorboard options
	FloorNominals []string `json:"floor_nominals,omitempty"`

	// SkipCustomFill disables the single cut-to-width board that closes the
	// center gap (default: false = fill).
	SkipCustomFill bool `json:"skip_custom_fill,omitempty"`

	// AllowNarrowSkid permits the lightest-duty 3x4 skid nominal.
	AllowNarrowSkid bool `json:"allow_narrow_skid,omitempty"`

	// Decal options
	Fragile         bool `json:"fragile,omitempty"`
	SpecialHandling bool `json:"special_handling,omitempty"`

	// Export options
	Formats []string `json:"formats,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Design is the complete computed crate design.
	Design export.Design

	// DesignHash is the content hash of the serialized design.
	DesignHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SkidCount  int
	BoardCount int
	CleatCount int

	DesignTime time.Duration
	ExportTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DesignHit bool // Whether the computed design came from cache
	ExportHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, exp, bom)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateProduct(); err != nil {
		return err
	}
	o.SetConstructionDefaults()
	o.SetExportDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateProduct checks the required product inputs.
func (o *Options) ValidateProduct() error {
	if o.ProductWeight <= 0 {
		return fmt.Errorf("product_weight must be positive")
	}
	if o.ProductWidth <= 0 {
		return fmt.Errorf("product_width must be positive")
	}
	if o.ProductLength <= 0 {
		return fmt.Errorf("product_length must be positive")
	}
	if o.ProductHeight <= 0 {
		return fmt.Errorf("product_height must be positive")
	}
	if o.ClearanceSide < 0 || o.ClearanceAbove < 0 {
		return fmt.Errorf("clearances must be non-negative")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetConstructionDefaults sets default values for crate construction stock.
func (o *Options) SetConstructionDefaults() {
	if o.ClearanceSide == 0 {
		o.ClearanceSide = DefaultClearanceSide
	}
	if o.ClearanceAbove == 0 {
		o.ClearanceAbove = DefaultClearanceAbove
	}
	if o.PanelThickness == 0 {
		o.PanelThickness = DefaultPanelThickness
	}
	if o.CleatThickness == 0 {
		o.CleatThickness = lumber.DefaultCleatThickness
	}
	if o.CleatWidth == 0 {
		o.CleatWidth = lumber.DefaultCleatWidth
	}
	if o.CapCleatThickness == 0 {
		o.CapCleatThickness = lumber.DefaultCleatThickness
	}
	if o.CapCleatWidth == 0 {
		o.CapCleatWidth = lumber.DefaultCleatWidth
	}
	if o.CapMaxCleatSpacing == 0 {
		o.CapMaxCleatSpacing = lumber.DefaultCapCleatSpacing
	}
	if len(o.FloorNominals) == 0 {
		o.FloorNominals = append([]string(nil), DefaultFloorNominals...)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetExportDefaults sets default values for artifact rendering.
func (o *Options) SetExportDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// AllowCustomFill returns whether the floorboard layout may close the center
// gap with a cut-to-width board.
func (o *Options) AllowCustomFill() bool {
	return !o.SkipCustomFill
}

// DesignKeyValue returns the option fields that determine the computed
// design, used as the design cache hash input. Export-only options are
// excluded so requesting different formats reuses the cached design.
func (o *Options) DesignKeyValue() any {
	return struct {
		ProductWeight      float64  `json:"product_weight"`
		ProductWidth       float64  `json:"product_width"`
		ProductLength      float64  `json:"product_length"`
		ProductHeight      float64  `json:"product_height"`
		ClearanceSide      float64  `json:"clearance_side"`
		ClearanceAbove     float64  `json:"clearance_above"`
		PanelThickness     float64  `json:"panel_thickness"`
		CleatThickness     float64  `json:"cleat_thickness"`
		CleatWidth         float64  `json:"cleat_width"`
		MaxCleatSpacing    float64  `json:"max_cleat_spacing"`
		KlimpsPerEdge      int      `json:"klimps_per_edge"`
		CapCleatThickness  float64  `json:"cap_cleat_thickness"`
		CapCleatWidth      float64  `json:"cap_cleat_width"`
		CapMaxCleatSpacing float64  `json:"cap_max_cleat_spacing"`
		FloorNominals      []string `json:"floor_nominals"`
		SkipCustomFill     bool     `json:"skip_custom_fill"`
		AllowNarrowSkid    bool     `json:"allow_narrow_skid"`
		Fragile            bool     `json:"fragile"`
		SpecialHandling    bool     `json:"special_handling"`
	}{
		o.ProductWeight, o.ProductWidth, o.ProductLength, o.ProductHeight,
		o.ClearanceSide, o.ClearanceAbove,
		o.PanelThickness, o.CleatThickness, o.CleatWidth,
		o.MaxCleatSpacing, o.KlimpsPerEdge,
		o.CapCleatThickness, o.CapCleatWidth, o.CapMaxCleatSpacing,
		o.FloorNominals, o.SkipCustomFill, o.AllowNarrowSkid,
		o.Fragile, o.SpecialHandling,
	}
}

// Product returns the product echo carried on exported designs.
func (o *Options) Product() export.Product {
	return export.Product{
		Weight:             o.ProductWeight,
		Width:              o.ProductWidth,
		Length:             o.ProductLength,
		Height:             o.ProductHeight,
		ClearanceSide:      o.ClearanceSide,
		ClearanceAbove:     o.ClearanceAbove,
		PanelThickness:     o.PanelThickness,
		CleatThickness:     o.CleatThickness,
		CleatWidth:         o.CleatWidth,
		CapCleatThickness:  o.CapCleatThickness,
		CapCleatWidth:      o.CapCleatWidth,
		CapMaxCleatSpacing: o.CapMaxCleatSpacing,
		Fragile:            o.Fragile,
		SpecialHandling:    o.SpecialHandling,
	}
}
