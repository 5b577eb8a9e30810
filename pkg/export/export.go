// Package export renders a finished crate design into deliverable artifacts:
// a Siemens NX expression file driving the parametric CAD model, a JSON
// document for programmatic consumers, and a plain-text bill of materials.
package export

import (
	"time"

	"github.com/autocrate/autocrate/pkg/layout"
	capx "github.com/autocrate/autocrate/pkg/layout/cap"
	"github.com/autocrate/autocrate/pkg/layout/decal"
	"github.com/autocrate/autocrate/pkg/layout/floor"
	"github.com/autocrate/autocrate/pkg/layout/skid"
	"github.com/autocrate/autocrate/pkg/layout/wall"
)

// Product echoes the user inputs a design was computed from. Exports carry
// them so an artifact is self-describing without the original request.
type Product struct {
	Weight float64 `json:"weight"`
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
	Height float64 `json:"height"`

	ClearanceSide  float64 `json:"clearance_side"`
	ClearanceAbove float64 `json:"clearance_above"`

	PanelThickness float64 `json:"panel_thickness"`
	CleatThickness float64 `json:"cleat_thickness"`
	CleatWidth     float64 `json:"cleat_width"`

	CapCleatThickness  float64 `json:"cap_cleat_thickness"`
	CapCleatWidth      float64 `json:"cap_cleat_width"`
	CapMaxCleatSpacing float64 `json:"cap_max_cleat_spacing"`

	Fragile         bool `json:"fragile,omitempty"`
	SpecialHandling bool `json:"special_handling,omitempty"`
}

// Decals groups the placements per panel kind. Side and end panels get
// independent plans because their widths differ.
type Decals struct {
	Side []decal.Placement `json:"side"`
	End  []decal.Placement `json:"end"`
}

// Design is the complete computed crate design, the input to every renderer.
type Design struct {
	RunID     string    `json:"run_id"`
	CreatedAt time.Time `json:"created_at"`
	Version   string    `json:"version,omitempty"`

	Product    Product           `json:"product"`
	Dimensions layout.Dimensions `json:"dimensions"`

	Skids  skid.Spec    `json:"skids"`
	Floor  floor.Layout `json:"floor"`
	Walls  wall.Set     `json:"walls"`
	Cap    capx.Layout  `json:"cap"`
	Decals Decals       `json:"decals"`

	Status   layout.Status `json:"status"`
	Warnings []string      `json:"warnings,omitempty"`
}
