// Package lumber defines the engineering rule tables the layout calculators
// consume: the weight-to-skid rule table, dressed skid dimensions, and the
// standard floorboard catalog.
//
// The tables are built once (Default* constructors) and passed into the
// calculators by value. Nothing in this package reads ambient state, so two
// calculations with the same tables always agree.
//
// All dimensions are inches; weights are pounds.
package lumber

import (
	"github.com/autocrate/autocrate/pkg/errors"
	"github.com/autocrate/autocrate/pkg/geometry"
)

// SkidNominal identifies a skid lumber size.
type SkidNominal string

// Known skid nominals, lightest duty first.
const (
	Skid3x4 SkidNominal = "3x4"
	Skid4x4 SkidNominal = "4x4"
	Skid4x6 SkidNominal = "4x6"
)

// SkidSize holds the dressed cross-section of a skid nominal.
type SkidSize struct {
	Width  float64
	Height float64
}

// WeightRule maps a product weight ceiling to a skid nominal and the maximum
// allowed center-to-center skid spacing at that duty.
type WeightRule struct {
	MaxWeight  float64
	Nominal    SkidNominal
	MaxSpacing float64
}

// WeightTable is an ordered set of weight rules, ascending by MaxWeight.
type WeightTable struct {
	rules []WeightRule
	sizes map[SkidNominal]SkidSize
}

// DefaultWeightTable returns the standard shipping-duty rule table.
func DefaultWeightTable() WeightTable {
	return WeightTable{
		rules: []WeightRule{
			{MaxWeight: 500, Nominal: Skid3x4, MaxSpacing: 30.0},
			{MaxWeight: 4500, Nominal: Skid4x4, MaxSpacing: 30.0},
			{MaxWeight: 6000, Nominal: Skid4x6, MaxSpacing: 41.0},
			{MaxWeight: 12000, Nominal: Skid4x6, MaxSpacing: 28.0},
			{MaxWeight: 20000, Nominal: Skid4x6, MaxSpacing: 24.0},
		},
		sizes: map[SkidNominal]SkidSize{
			Skid3x4: {Width: 2.5, Height: 3.5},
			Skid4x4: {Width: 3.5, Height: 3.5},
			Skid4x6: {Width: 5.5, Height: 3.5},
		},
	}
}

// MaxWeight returns the table's overall weight ceiling.
func (t WeightTable) MaxWeight() float64 {
	if len(t.rules) == 0 {
		return 0
	}
	return t.rules[len(t.rules)-1].MaxWeight
}

// Select returns the first rule whose ceiling covers weight. When allowNarrow
// is false the lightest-duty nominal (3x4) is skipped and the next matching
// rule is used instead. Returns an OVERWEIGHT error when weight exceeds the
// table ceiling, and INVALID_LUMBER_KEY when the matched nominal has no
// dressed size entry.
func (t WeightTable) Select(weight float64, allowNarrow bool) (WeightRule, SkidSize, error) {
	if weight > t.MaxWeight()+geometry.Epsilon {
		return WeightRule{}, SkidSize{}, errors.New(errors.ErrCodeOverweight,
			"weight %.0f lbs exceeds %.0f lbs table ceiling", weight, t.MaxWeight())
	}
	for _, r := range t.rules {
		if weight <= r.MaxWeight+geometry.Epsilon {
			if r.Nominal == Skid3x4 && !allowNarrow {
				continue
			}
			size, ok := t.sizes[r.Nominal]
			if !ok {
				return WeightRule{}, SkidSize{}, errors.New(errors.ErrCodeInvalidLumberKey,
					"no dressed size for skid nominal %q", r.Nominal)
			}
			return r, size, nil
		}
	}
	return WeightRule{}, SkidSize{}, errors.New(errors.ErrCodeInvalidLumberKey,
		"no rule matches weight %.0f lbs", weight)
}

// MinSkidHeight is the minimum dressed skid height accepted for forklift
// access under the crate base.
const MinSkidHeight = 3.5

// Board is a floorboard catalog entry.
type Board struct {
	Nominal string
	Width   float64
}

// Catalog maps floorboard nominal sizes to dressed widths.
type Catalog struct {
	boards map[string]float64
}

// DefaultCatalog returns the standard floorboard lumber catalog.
func DefaultCatalog() Catalog {
	return Catalog{boards: map[string]float64{
		"2x6":  5.5,
		"2x8":  7.25,
		"2x10": 9.25,
		"2x12": 11.25,
	}}
}

// Width resolves a nominal size to its dressed width. Unknown or non-positive
// entries yield an INVALID_LUMBER_KEY error.
func (c Catalog) Width(nominal string) (float64, error) {
	w, ok := c.boards[nominal]
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidLumberKey, "unknown floorboard nominal %q", nominal)
	}
	if !geometry.Positive(w) {
		return 0, errors.New(errors.ErrCodeInvalidLumberKey, "floorboard nominal %q has non-positive width %v", nominal, w)
	}
	return w, nil
}

// Floorboard material constants.
const (
	// BoardThickness is the dressed thickness of standard floorboard lumber.
	BoardThickness = 1.5

	// MaxCenterGap is the widest acceptable residual gap at the center of a
	// floorboard layout. Layouts that exceed it without a custom fill board
	// complete with a warning.
	MaxCenterGap = 0.25
)

// Plywood sheet limits and cleat defaults for wall and cap assemblies.
const (
	PlywoodStdWidth  = 48.0
	PlywoodStdHeight = 96.0

	DefaultCleatThickness = 0.75
	DefaultCleatWidth     = 3.5

	// IntermediateCleatSpacing is the widest clear span tolerated between
	// the outermost cleats on an unspliced wall panel axis before
	// intermediate cleats are inserted.
	IntermediateCleatSpacing = 48.0

	// DefaultCapCleatSpacing is the default maximum center-to-center spacing
	// for top-cap cleats.
	DefaultCapCleatSpacing = 24.0

	DefaultWallPlywoodThickness = 0.25
	MinWallPlywoodThickness     = 0.25
)
