// Package cap computes the crate top-cap assembly: a sheathing panel sized
// to the crate footprint with two perpendicular families of cleats.
//
// Longitudinal cleats run the crate length and are spaced across the width;
// transverse cleats run the width and are spaced across the length. Each
// family is the same one-dimensional problem: fit the minimum number of
// cleats so adjacent centerlines sit at or under the maximum spacing, placed
// symmetrically about the axis center.
package cap

import (
	"math"

	"github.com/autocrate/autocrate/pkg/errors"
	"github.com/autocrate/autocrate/pkg/geometry"
	"github.com/autocrate/autocrate/pkg/layout"
	"github.com/autocrate/autocrate/pkg/lumber"
)

// Params are the inputs for a cap layout. Lengths are inches.
type Params struct {
	CrateWidth  float64
	CrateLength float64

	// PanelThickness is the cap sheathing thickness.
	PanelThickness float64

	// CleatThickness and CleatWidth default to the standard cleat stock when
	// zero.
	CleatThickness float64
	CleatWidth     float64

	// MaxSpacing is the maximum center-to-center cleat spacing. Zero means
	// the standard 24".
	MaxSpacing float64
}

// Pattern is one family of parallel cap cleats.
type Pattern struct {
	Count   int     `json:"count"`
	Spacing float64 `json:"spacing"`

	// Positions are cleat centerlines relative to the axis center,
	// ascending.
	Positions []float64 `json:"positions"`

	// Length is each cleat's length, the full crate dimension it runs
	// along.
	Length    float64 `json:"length"`
	Thickness float64 `json:"thickness"`
	Width     float64 `json:"width"`
}

// Layout is the computed cap assembly.
type Layout struct {
	PanelWidth     float64 `json:"panel_width"`
	PanelLength    float64 `json:"panel_length"`
	PanelThickness float64 `json:"panel_thickness"`

	Longitudinal Pattern `json:"longitudinal"`
	Transverse   Pattern `json:"transverse"`

	MaxSpacing float64          `json:"max_spacing"`
	CleatSpec  layout.CleatSpec `json:"cleat_spec"`

	Status  layout.Status `json:"status"`
	Message string        `json:"message,omitempty"`
}

// Compute lays out the cap panel and both cleat families. An axis narrower
// than one cleat width gets no cleats and downgrades the result to a
// warning; both axes empty is an error.
func Compute(p Params) (Layout, error) {
	if err := errors.ValidatePositive("crate width", p.CrateWidth); err != nil {
		return Layout{}, err
	}
	if err := errors.ValidatePositive("crate length", p.CrateLength); err != nil {
		return Layout{}, err
	}
	if err := errors.ValidatePositive("cap panel thickness", p.PanelThickness); err != nil {
		return Layout{}, err
	}

	ct := p.CleatThickness
	cw := p.CleatWidth
	if ct == 0 {
		ct = lumber.DefaultCleatThickness
	}
	if cw == 0 {
		cw = lumber.DefaultCleatWidth
	}
	if err := errors.ValidateCleatSpec(ct, cw); err != nil {
		return Layout{}, err
	}

	maxSpacing := p.MaxSpacing
	if maxSpacing == 0 {
		maxSpacing = lumber.DefaultCapCleatSpacing
	}
	spacingNeeded := p.CrateWidth >= 2*cw-geometry.Epsilon || p.CrateLength >= 2*cw-geometry.Epsilon
	if maxSpacing <= geometry.Epsilon && spacingNeeded {
		return Layout{}, errors.New(errors.ErrCodeInvalidInput,
			"max cap cleat spacing must be positive, got %.4f", maxSpacing)
	}

	out := Layout{
		PanelWidth:     geometry.Round4(p.CrateWidth),
		PanelLength:    geometry.Round4(p.CrateLength),
		PanelThickness: geometry.Round4(p.PanelThickness),
		MaxSpacing:     maxSpacing,
		CleatSpec:      layout.CleatSpec{Thickness: ct, Width: cw},
		Status:         layout.StatusOK,
	}

	// Longitudinal cleats span the length, distributed across the width;
	// transverse the other way around. Both axes get the same minimum-two
	// correction: any axis wide enough for two cleats holds at least the
	// two edge cleats regardless of what the spacing formula produced.
	out.Longitudinal = enforceMinimumTwo(
		axisPattern(p.CrateWidth, cw, maxSpacing, p.CrateLength, ct),
		p.CrateWidth, cw)
	out.Transverse = enforceMinimumTwo(
		axisPattern(p.CrateLength, cw, maxSpacing, p.CrateWidth, ct),
		p.CrateLength, cw)

	switch {
	case out.Longitudinal.Count == 0 && out.Transverse.Count == 0:
		return Layout{}, errors.New(errors.ErrCodeInvalidDimension,
			"crate %.2f x %.2f too small for any cap cleat of width %.2f",
			p.CrateWidth, p.CrateLength, cw)
	case out.Longitudinal.Count == 0:
		out.Status = layout.StatusWarning
		out.Message = "no longitudinal cleats placed, crate width below one cleat width"
	case out.Transverse.Count == 0:
		out.Status = layout.StatusWarning
		out.Message = "no transverse cleats placed, crate length below one cleat width"
	}
	return out, nil
}

// axisPattern distributes cleats across span at or under maxSpacing
// center-to-center. A span below one cleat width fits none; below two cleat
// widths fits a single centered cleat.
func axisPattern(span, cleatWidth, maxSpacing, length, thickness float64) Pattern {
	pat := Pattern{
		Length:    geometry.Round4(length),
		Thickness: thickness,
		Width:     cleatWidth,
	}
	switch {
	case span < cleatWidth-geometry.Epsilon:
		return pat
	case span < 2*cleatWidth-geometry.Epsilon:
		pat.Count = 1
		pat.Positions = []float64{0}
		return pat
	}

	centerSpan := span - cleatWidth
	count := 2
	if centerSpan >= geometry.Epsilon {
		count = int(math.Ceil(centerSpan/maxSpacing)) + 1
		if count < 2 {
			count = 2
		}
	}
	pat.Count = count
	pat.Spacing = geometry.Round4(centerSpan / float64(count-1))
	pat.Positions = positions(count, centerSpan/float64(count-1))
	return pat
}

// enforceMinimumTwo pins edge cleats on any axis wide enough to hold two.
func enforceMinimumTwo(pat Pattern, span, cleatWidth float64) Pattern {
	if pat.Count >= 2 || span < 2*cleatWidth-geometry.Epsilon {
		return pat
	}
	centerSpan := span - cleatWidth
	pat.Count = 2
	pat.Spacing = geometry.Round4(centerSpan)
	pat.Positions = positions(2, centerSpan)
	return pat
}

func positions(count int, spacing float64) []float64 {
	out := make([]float64, count)
	start := -spacing * float64(count-1) / 2
	for i := range out {
		out[i] = geometry.Round4(start + float64(i)*spacing)
	}
	return out
}
