package pipeline

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/autocrate/autocrate/pkg/cache"
	"github.com/autocrate/autocrate/pkg/layout"
)

func testOptions() Options {
	return Options{
		ProductWeight:   300,
		ProductWidth:    40,
		ProductLength:   60,
		ProductHeight:   35,
		AllowNarrowSkid: true,
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"exp", false},
		{"bom", false},
		{"svg", true},
		{"", true},
		{"EXP", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"json", "exp"}); err != nil {
		t.Errorf("valid formats should not error: %v", err)
	}
	if err := ValidateFormats([]string{"json", "invalid"}); err == nil {
		t.Error("invalid format should error")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("empty formats should not error: %v", err)
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := testOptions()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}

	if opts.ClearanceSide != DefaultClearanceSide {
		t.Errorf("ClearanceSide = %v", opts.ClearanceSide)
	}
	if opts.ClearanceAbove != DefaultClearanceAbove {
		t.Errorf("ClearanceAbove = %v", opts.ClearanceAbove)
	}
	if opts.PanelThickness != DefaultPanelThickness {
		t.Errorf("PanelThickness = %v", opts.PanelThickness)
	}
	if opts.CleatThickness != 0.75 || opts.CleatWidth != 3.5 {
		t.Errorf("cleat stock = %v x %v", opts.CleatThickness, opts.CleatWidth)
	}
	if opts.CapMaxCleatSpacing != 24 {
		t.Errorf("CapMaxCleatSpacing = %v", opts.CapMaxCleatSpacing)
	}
	if len(opts.FloorNominals) != 4 {
		t.Errorf("FloorNominals = %v", opts.FloorNominals)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should be defaulted")
	}

	// Idempotent: a second call must not disturb explicit values.
	opts.ClearanceSide = 3.0
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second ValidateAndSetDefaults: %v", err)
	}
	if opts.ClearanceSide != 3.0 {
		t.Error("second validation should be a no-op")
	}
}

func TestOptionsValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"zero weight", func(o *Options) { o.ProductWeight = 0 }},
		{"negative width", func(o *Options) { o.ProductWidth = -1 }},
		{"zero length", func(o *Options) { o.ProductLength = 0 }},
		{"zero height", func(o *Options) { o.ProductHeight = 0 }},
		{"negative clearance", func(o *Options) { o.ClearanceSide = -1 }},
		{"bad format", func(o *Options) { o.Formats = []string{"pdf"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.mutate(&opts)
			if err := opts.ValidateAndSetDefaults(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAllowCustomFill(t *testing.T) {
	opts := testOptions()
	if !opts.AllowCustomFill() {
		t.Error("custom fill should default on")
	}
	opts.SkipCustomFill = true
	if opts.AllowCustomFill() {
		t.Error("SkipCustomFill should disable custom fill")
	}
}

func TestDesignKeyValueExcludesExportOptions(t *testing.T) {
	a := testOptions()
	b := testOptions()
	b.Formats = []string{"exp", "bom"}
	b.Refresh = true

	if cache.HashValue(a.DesignKeyValue()) != cache.HashValue(b.DesignKeyValue()) {
		t.Error("export options should not change the design key")
	}

	b.ProductWeight = 5000
	if cache.HashValue(a.DesignKeyValue()) == cache.HashValue(b.DesignKeyValue()) {
		t.Error("product options should change the design key")
	}
}

func TestCompute(t *testing.T) {
	d, err := Compute(context.Background(), testOptions())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if d.RunID == "" {
		t.Error("missing run id")
	}

	// 300 lbs with narrow skids allowed selects 3x4 stock.
	if d.Skids.Nominal != "3x4" || d.Skids.Count != 3 {
		t.Errorf("skids = %s x%d", d.Skids.Nominal, d.Skids.Count)
	}
	if math.Abs(d.Skids.Spacing-20.75) > 1e-9 {
		t.Errorf("skid spacing = %v", d.Skids.Spacing)
	}

	// Shell dimensions around a 40x60x35 product with default stock.
	if math.Abs(d.Dimensions.CrateWidth-47) > 1e-9 {
		t.Errorf("crate width = %v", d.Dimensions.CrateWidth)
	}
	if math.Abs(d.Dimensions.CrateLength-66) > 1e-9 {
		t.Errorf("crate length = %v", d.Dimensions.CrateLength)
	}
	if math.Abs(d.Dimensions.PanelHeight-36.5) > 1e-9 {
		t.Errorf("panel height = %v", d.Dimensions.PanelHeight)
	}
	if math.Abs(d.Dimensions.OverallHeight-41.5) > 1e-9 {
		t.Errorf("overall height = %v", d.Dimensions.OverallHeight)
	}

	// Floorboards cover the target span with zero residual gap.
	if math.Abs(d.Floor.TargetSpan-64) > 1e-9 {
		t.Errorf("floor target span = %v", d.Floor.TargetSpan)
	}
	if d.Floor.Gap != 0 {
		t.Errorf("floor gap = %v", d.Floor.Gap)
	}
	if math.Abs(d.Floor.BoardLength-d.Skids.OverallSpan()) > 1e-9 {
		t.Errorf("board length = %v, skid span = %v", d.Floor.BoardLength, d.Skids.OverallSpan())
	}

	// Panels match the shell.
	if d.Walls.Side.Width != d.Dimensions.CrateLength {
		t.Errorf("side panel width = %v", d.Walls.Side.Width)
	}
	if d.Walls.End.Width != d.Dimensions.CrateWidth {
		t.Errorf("end panel width = %v", d.Walls.End.Width)
	}
	if len(d.Walls.End.Klimps) == 0 {
		t.Error("end panel should carry klimps")
	}

	// Cap covers the shell footprint.
	if d.Cap.PanelWidth != d.Dimensions.CrateWidth || d.Cap.PanelLength != d.Dimensions.CrateLength {
		t.Errorf("cap panel = %v x %v", d.Cap.PanelWidth, d.Cap.PanelLength)
	}
	if d.Cap.Longitudinal.Count == 0 || d.Cap.Transverse.Count == 0 {
		t.Error("cap cleats missing")
	}

	// Center of gravity decal always applies, on both panel kinds.
	foundCoG := false
	for _, p := range d.Decals.Side {
		if p.RuleID == "cog" {
			foundCoG = true
		}
	}
	if !foundCoG {
		t.Error("missing center of gravity decal on side panel")
	}
	if len(d.Decals.End) == 0 {
		t.Error("missing decals on end panel")
	}

	if d.Status != layout.StatusOK {
		t.Errorf("status = %s, warnings = %v", d.Status, d.Warnings)
	}
}

func TestComputeFragileDecals(t *testing.T) {
	opts := testOptions()
	opts.Fragile = true

	d, err := Compute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	found := false
	for _, p := range d.Decals.Side {
		if p.RuleID == "fragile" {
			found = true
		}
	}
	if !found {
		t.Error("fragile decal should be placed when requested")
	}
}

func TestComputeOverweightBlocksPipeline(t *testing.T) {
	opts := testOptions()
	opts.ProductWeight = 25000

	_, err := Compute(context.Background(), opts)
	if err == nil {
		t.Fatal("expected overweight error")
	}
	if !strings.Contains(err.Error(), "skid") {
		t.Errorf("error should name the failing stage: %v", err)
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	opts := testOptions()
	opts.Formats = []string{FormatJSON, FormatEXP, FormatBOM}

	// First run computes everything.
	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.DesignHit {
		t.Error("first run should not hit the design cache")
	}
	for _, format := range opts.Formats {
		if len(first.Artifacts[format]) == 0 {
			t.Errorf("missing %s artifact", format)
		}
	}
	if first.DesignHash == "" {
		t.Error("missing design hash")
	}
	if first.Stats.SkidCount != 3 {
		t.Errorf("stats skid count = %d", first.Stats.SkidCount)
	}

	// Second run is served from cache end to end.
	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.DesignHit {
		t.Error("second run should hit the design cache")
	}
	if !second.CacheInfo.ExportHit {
		t.Error("second run should hit the export cache")
	}
	if second.Design.RunID != first.Design.RunID {
		t.Error("cached design should carry the original run id")
	}
	if second.DesignHash != first.DesignHash {
		t.Error("design hash should be stable across cache hits")
	}

	// Refresh bypasses the cache.
	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("third Execute: %v", err)
	}
	if third.CacheInfo.DesignHit {
		t.Error("refresh should bypass the design cache")
	}
	if third.Design.RunID == first.Design.RunID {
		t.Error("refresh should produce a new run")
	}
}

func TestRunnerNilDefaults(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	if r.Cache == nil || r.Keyer == nil || r.Logger == nil {
		t.Fatal("NewRunner should default all collaborators")
	}

	// A null cache still executes the pipeline.
	result, err := r.Execute(context.Background(), testOptions())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.CacheInfo.DesignHit || result.CacheInfo.ExportHit {
		t.Error("null cache should never hit")
	}
}

func TestExportInvalidFormat(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	d, err := Compute(context.Background(), testOptions())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	opts := testOptions()
	opts.Formats = []string{"docx"}
	if _, _, err := r.ExportWithCacheInfo(context.Background(), d, opts); err == nil {
		t.Error("invalid format should error")
	}
}
