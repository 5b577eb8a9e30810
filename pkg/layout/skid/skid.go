// Package skid computes the skid (runner) layout under a crate base.
//
// Skid selection is weight-driven: the product weight picks a lumber nominal
// and a maximum center-to-center spacing from the rule table, then the
// calculator fits the minimum number of skids into the usable width at or
// under that spacing. Positions are centerlines relative to the center of the
// usable width, so a symmetric layout is symmetric about zero.
package skid

import (
	"math"

	"github.com/autocrate/autocrate/pkg/errors"
	"github.com/autocrate/autocrate/pkg/geometry"
	"github.com/autocrate/autocrate/pkg/layout"
	"github.com/autocrate/autocrate/pkg/lumber"
)

// maxSkidCount bounds the fitting loop against degenerate spacing inputs.
const maxSkidCount = 100

// Params are the product and crate-shell inputs to the skid calculator.
// All lengths are inches, weight is pounds.
type Params struct {
	ProductWeight float64
	ProductWidth  float64

	// ClearanceSide is the clearance between product and crate interior on
	// each side.
	ClearanceSide float64

	// PanelThickness and CleatThickness describe the side wall construction
	// that wraps the base; they size the crate shell around the product.
	PanelThickness float64
	CleatThickness float64

	// AllowNarrowSkid permits the lightest-duty 3x4 nominal. When false, a
	// product light enough for 3x4 is bumped to the next heavier rule.
	AllowNarrowSkid bool
}

// Spec is the computed skid arrangement.
type Spec struct {
	Nominal lumber.SkidNominal `json:"nominal"`
	Width   float64            `json:"width"`
	Height  float64            `json:"height"`

	Count      int     `json:"count"`
	Spacing    float64 `json:"spacing"`
	MaxSpacing float64 `json:"max_spacing"`

	// Positions are skid centerlines relative to the usable-width center,
	// ascending.
	Positions []float64 `json:"positions"`

	CrateWidth  float64 `json:"crate_width"`
	UsableWidth float64 `json:"usable_width"`

	Status layout.Status `json:"status"`
}

// OverallSpan returns the outer-edge-to-outer-edge width covered by the
// skids. The floorboard calculator uses it as the board length.
func (s Spec) OverallSpan() float64 {
	if s.Count == 0 {
		return 0
	}
	if s.Count == 1 {
		return s.Width
	}
	first := s.Positions[0] - s.Width/2
	last := s.Positions[len(s.Positions)-1] + s.Width/2
	return last - first
}

// Compute derives the skid layout from product weight and crate-shell
// dimensions using the given weight rule table.
//
// Failure modes: INVALID_DIMENSION for bad inputs, OVERWEIGHT when the
// product exceeds the table ceiling, NARROW_WIDTH when the usable width
// cannot hold even one skid.
func Compute(p Params, table lumber.WeightTable) (Spec, error) {
	if geometry.Negative(p.ProductWeight) {
		return Spec{}, errors.New(errors.ErrCodeInvalidDimension,
			"product weight cannot be negative, got %.2f", p.ProductWeight)
	}
	if err := errors.ValidatePositive("product width", p.ProductWidth); err != nil {
		return Spec{}, err
	}
	if err := errors.ValidateNonNegative("side clearance", p.ClearanceSide); err != nil {
		return Spec{}, err
	}
	if err := errors.ValidateNonNegative("panel thickness", p.PanelThickness); err != nil {
		return Spec{}, err
	}
	if err := errors.ValidateNonNegative("cleat thickness", p.CleatThickness); err != nil {
		return Spec{}, err
	}

	rule, size, err := table.Select(p.ProductWeight, p.AllowNarrowSkid)
	if err != nil {
		return Spec{}, err
	}
	if size.Height < lumber.MinSkidHeight-geometry.Epsilon {
		return Spec{}, errors.New(errors.ErrCodeInvalidDimension,
			"skid height %.2f below minimum %.2f for forklift access", size.Height, lumber.MinSkidHeight)
	}

	crateWidth := p.ProductWidth + 2*(p.ClearanceSide+p.PanelThickness+p.CleatThickness)
	usableWidth := crateWidth - 2*(p.PanelThickness+p.CleatThickness)

	spec := Spec{
		Nominal:     rule.Nominal,
		Width:       size.Width,
		Height:      size.Height,
		MaxSpacing:  rule.MaxSpacing,
		CrateWidth:  crateWidth,
		UsableWidth: usableWidth,
		Status:      layout.StatusOK,
	}

	if usableWidth < size.Width-geometry.Epsilon {
		return Spec{}, errors.New(errors.ErrCodeNarrowWidth,
			"usable width %.2f too narrow for skid width %.2f", usableWidth, size.Width)
	}

	switch {
	case usableWidth < 2*size.Width-geometry.Epsilon:
		// Room for one skid only, centered.
		spec.Count = 1
		spec.Spacing = 0
	default:
		span := usableWidth - size.Width
		if span < geometry.Epsilon {
			spec.Count = 2
			spec.Spacing = span
		} else {
			count := int(math.Ceil(span/rule.MaxSpacing + 1))
			if count < 2 {
				count = 2
			}
			spacing := span / float64(count-1)
			// The ceil above already yields the smallest count whose spacing
			// fits; fall back to incremental fitting if rounding disagrees.
			for spacing > rule.MaxSpacing+geometry.Epsilon {
				count++
				if count > maxSkidCount {
					return Spec{}, errors.New(errors.ErrCodeInternal,
						"skid count exceeded %d fitting span %.2f at max spacing %.2f",
						maxSkidCount, span, rule.MaxSpacing)
				}
				spacing = span / float64(count-1)
			}
			spec.Count = count
			spec.Spacing = spacing
		}
	}

	spec.Positions = positions(spec.Count, spec.Spacing)

	if spec.Count > 1 && spec.Spacing > spec.MaxSpacing+geometry.Epsilon {
		return Spec{}, errors.New(errors.ErrCodeInternal,
			"final spacing %.4f exceeds max %.4f", spec.Spacing, spec.MaxSpacing)
	}
	return spec, nil
}

// positions lays out count centerlines symmetric about zero at the given
// pitch, rounded to CAD precision.
func positions(count int, spacing float64) []float64 {
	if count <= 0 {
		return nil
	}
	if count == 1 {
		return []float64{0}
	}
	out := make([]float64, count)
	start := -spacing * float64(count-1) / 2
	for i := range out {
		out[i] = geometry.Round4(start + float64(i)*spacing)
	}
	return out
}
