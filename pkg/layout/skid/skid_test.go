package skid

import (
	"math"
	"testing"

	"github.com/autocrate/autocrate/pkg/errors"
	"github.com/autocrate/autocrate/pkg/geometry"
	"github.com/autocrate/autocrate/pkg/layout"
	"github.com/autocrate/autocrate/pkg/lumber"
)

func baseParams() Params {
	return Params{
		ProductWeight:   300,
		ProductWidth:    40,
		ClearanceSide:   2,
		PanelThickness:  0.75,
		CleatThickness:  0.75,
		AllowNarrowSkid: true,
	}
}

func TestComputeLightDuty(t *testing.T) {
	spec, err := Compute(baseParams(), lumber.DefaultWeightTable())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if spec.Nominal != lumber.Skid3x4 {
		t.Errorf("nominal = %s, want 3x4", spec.Nominal)
	}
	if spec.CrateWidth != 47.0 {
		t.Errorf("crate width = %v, want 47", spec.CrateWidth)
	}
	if spec.UsableWidth != 44.0 {
		t.Errorf("usable width = %v, want 44", spec.UsableWidth)
	}
	// Centerline span 44-2.5 = 41.5 at max spacing 30 needs 3 skids.
	if spec.Count != 3 {
		t.Errorf("count = %d, want 3", spec.Count)
	}
	if !geometry.ApproxEq(spec.Spacing, 20.75) {
		t.Errorf("spacing = %v, want 20.75", spec.Spacing)
	}
	if spec.Spacing > spec.MaxSpacing+geometry.Epsilon {
		t.Errorf("spacing %v exceeds max %v", spec.Spacing, spec.MaxSpacing)
	}
	if spec.Status != layout.StatusOK {
		t.Errorf("status = %s, want OK", spec.Status)
	}
}

func TestComputeNarrowDisallowedFallsBack(t *testing.T) {
	p := baseParams()
	p.AllowNarrowSkid = false

	spec, err := Compute(p, lumber.DefaultWeightTable())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if spec.Nominal != lumber.Skid4x4 {
		t.Errorf("nominal = %s, want 4x4", spec.Nominal)
	}
	if spec.Count != 3 {
		t.Errorf("count = %d, want 3", spec.Count)
	}
	if !geometry.ApproxEq(spec.Spacing, 20.25) {
		t.Errorf("spacing = %v, want 20.25", spec.Spacing)
	}
}

func TestComputePositionsSymmetric(t *testing.T) {
	p := baseParams()
	p.ProductWeight = 8000
	p.ProductWidth = 90

	spec, err := Compute(p, lumber.DefaultWeightTable())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(spec.Positions) != spec.Count {
		t.Fatalf("positions len = %d, count = %d", len(spec.Positions), spec.Count)
	}
	for i, j := 0, len(spec.Positions)-1; i < j; i, j = i+1, j-1 {
		if !geometry.ApproxEqTol(spec.Positions[i], -spec.Positions[j], 1e-4) {
			t.Errorf("positions not symmetric: [%d]=%v vs [%d]=%v",
				i, spec.Positions[i], j, spec.Positions[j])
		}
	}
	for i := 1; i < len(spec.Positions); i++ {
		pitch := spec.Positions[i] - spec.Positions[i-1]
		if pitch > spec.MaxSpacing+1e-4 {
			t.Errorf("pitch %v between positions %d,%d exceeds max %v",
				pitch, i-1, i, spec.MaxSpacing)
		}
	}
}

func TestComputeSingleSkid(t *testing.T) {
	p := baseParams()
	p.ProductWidth = 3.0 // usable width 7 < 2*skid width

	spec, err := Compute(p, lumber.DefaultWeightTable())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if spec.Count != 1 {
		t.Errorf("count = %d, want 1", spec.Count)
	}
	if len(spec.Positions) != 1 || spec.Positions[0] != 0 {
		t.Errorf("positions = %v, want [0]", spec.Positions)
	}
	if spec.Spacing != 0 {
		t.Errorf("spacing = %v, want 0", spec.Spacing)
	}
}

func TestComputeNarrowWidthError(t *testing.T) {
	p := baseParams()
	p.ProductWidth = 1.0
	p.ClearanceSide = 0 // usable width 1 < skid width 2.5

	_, err := Compute(p, lumber.DefaultWeightTable())
	if err == nil {
		t.Fatal("expected narrow width error")
	}
	if !errors.Is(err, errors.ErrCodeNarrowWidth) {
		t.Errorf("code = %s, want NARROW_WIDTH", errors.GetCode(err))
	}
}

func TestComputeOverweight(t *testing.T) {
	p := baseParams()
	p.ProductWeight = 30000

	_, err := Compute(p, lumber.DefaultWeightTable())
	if err == nil {
		t.Fatal("expected overweight error")
	}
	if !errors.Is(err, errors.ErrCodeOverweight) {
		t.Errorf("code = %s, want OVERWEIGHT", errors.GetCode(err))
	}
}

func TestComputeInvalidInputs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"negative weight", func(p *Params) { p.ProductWeight = -1 }},
		{"zero width", func(p *Params) { p.ProductWidth = 0 }},
		{"negative clearance", func(p *Params) { p.ClearanceSide = -0.5 }},
		{"negative panel", func(p *Params) { p.PanelThickness = -0.1 }},
		{"negative cleat", func(p *Params) { p.CleatThickness = -0.1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseParams()
			tt.mutate(&p)
			if _, err := Compute(p, lumber.DefaultWeightTable()); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestOverallSpan(t *testing.T) {
	spec, err := Compute(baseParams(), lumber.DefaultWeightTable())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	// Outer edges at ±(20.75 + 2.5/2).
	want := 41.5 + 2.5
	if got := spec.OverallSpan(); math.Abs(got-want) > 1e-4 {
		t.Errorf("OverallSpan = %v, want %v", got, want)
	}

	single := Spec{Count: 1, Width: 5.5, Positions: []float64{0}}
	if got := single.OverallSpan(); got != 5.5 {
		t.Errorf("single-skid span = %v, want 5.5", got)
	}
	if got := (Spec{}).OverallSpan(); got != 0 {
		t.Errorf("empty span = %v, want 0", got)
	}
}

func TestComputeIdempotent(t *testing.T) {
	a, err := Compute(baseParams(), lumber.DefaultWeightTable())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	b, err := Compute(baseParams(), lumber.DefaultWeightTable())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if a.Count != b.Count || a.Spacing != b.Spacing || len(a.Positions) != len(b.Positions) {
		t.Error("identical inputs should give identical layouts")
	}
	for i := range a.Positions {
		if a.Positions[i] != b.Positions[i] {
			t.Errorf("position %d differs: %v vs %v", i, a.Positions[i], b.Positions[i])
		}
	}
}
