// Package decal places shipping decals and stencils on wall panels.
//
// Placement is a static rule lookup: each rule picks its stencil size from
// the panel height, anchors horizontally and vertically on the panel, and for
// the center-of-gravity stencil offsets vertically by overall crate height
// brackets. Coordinates are panel-local with the origin at the bottom-left
// corner, matching the plywood pieces in the wall package.
package decal

import (
	"github.com/autocrate/autocrate/pkg/errors"
	"github.com/autocrate/autocrate/pkg/geometry"
	"github.com/autocrate/autocrate/pkg/layout/wall"
)

// Size is a decal bounding box in inches.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// HorizontalAnchor positions a decal along the panel width.
type HorizontalAnchor string

const (
	HCenter     HorizontalAnchor = "center"
	HUpperRight HorizontalAnchor = "upper-right"
)

// VerticalAnchor positions a decal along the panel height.
type VerticalAnchor string

const (
	VMiddle     VerticalAnchor = "middle"
	VUpperHalf  VerticalAnchor = "upper-half"
	VUpperRight VerticalAnchor = "upper-right"
)

// HeightRule maps an overall crate height bracket to a vertical offset of
// the decal center above the panel midline. Zero bounds are open.
type HeightRule struct {
	MinCrateHeight float64 // exclusive, 0 = unbounded
	MaxCrateHeight float64 // inclusive, 0 = unbounded
	Offset         float64
}

// Rule describes one decal kind and where it applies.
type Rule struct {
	ID   string
	Text string

	// Fixed is the stencil size when it does not vary with the panel.
	// When zero, Small or Large is chosen by SmallThreshold against the
	// panel height.
	Fixed          Size
	SmallThreshold float64
	Small          Size
	Large          Size

	Angle      float64
	Horizontal HorizontalAnchor
	Vertical   VerticalAnchor

	// HeightRules, when present, override Vertical using the overall crate
	// height.
	HeightRules []HeightRule

	Roles []wall.Role
}

// Placement is one decal positioned on a panel, origin bottom-left.
type Placement struct {
	RuleID string  `json:"rule_id"`
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Angle  float64 `json:"angle,omitempty"`
}

// allPanels marks rules applied to every wall panel kind.
var allPanels = []wall.Role{wall.RoleSide, wall.RoleEnd}

// FragileRule is the tilted FRAGILE stencil, sized up on tall panels.
func FragileRule() Rule {
	return Rule{
		ID:             "fragile",
		Text:           "FRAGILE",
		SmallThreshold: 73.0,
		Small:          Size{Width: 8.00, Height: 2.31},
		Large:          Size{Width: 12.00, Height: 3.50},
		Angle:          10,
		Horizontal:     HCenter,
		Vertical:       VUpperHalf,
		Roles:          allPanels,
	}
}

// HandlingRule is the this-way-up arrow cluster in the upper right corner.
func HandlingRule() Rule {
	return Rule{
		ID:             "handling",
		Text:           "THIS WAY UP",
		SmallThreshold: 37.0,
		Small:          Size{Width: 3.00, Height: 8.25},
		Large:          Size{Width: 4.00, Height: 11.00},
		Horizontal:     HUpperRight,
		Vertical:       VUpperRight,
		Roles:          allPanels,
	}
}

// CoGRule is the center-of-gravity stencil; its vertical position climbs
// with overall crate height so it stays visible above banding.
func CoGRule() Rule {
	return Rule{
		ID:         "cog",
		Text:       "CG",
		Fixed:      Size{Width: 3.00, Height: 3.00},
		Horizontal: HCenter,
		HeightRules: []HeightRule{
			{MaxCrateHeight: 37.0, Offset: 0},
			{MinCrateHeight: 37.0, MaxCrateHeight: 73.0, Offset: 4.0},
			{MinCrateHeight: 73.0, MaxCrateHeight: 120.0, Offset: 8.0},
			{MinCrateHeight: 120.0, Offset: 12.0},
		},
		Roles: allPanels,
	}
}

// Rules assembles the rule set for a shipment. The center-of-gravity
// stencil always applies; fragile and handling stencils are opt-in.
func Rules(fragile, specialHandling bool) []Rule {
	rules := make([]Rule, 0, 3)
	if fragile {
		rules = append(rules, FragileRule())
	}
	if specialHandling {
		rules = append(rules, HandlingRule())
	}
	rules = append(rules, CoGRule())
	return rules
}

// PanelParams locate decals on one wall panel.
type PanelParams struct {
	PanelWidth    float64
	PanelHeight   float64
	OverallHeight float64
	Role          wall.Role
}

// PlanPanel evaluates every rule applicable to the panel's role and returns
// the resulting placements in rule order.
func PlanPanel(p PanelParams, rules []Rule) ([]Placement, error) {
	if err := errors.ValidatePositive("panel width", p.PanelWidth); err != nil {
		return nil, err
	}
	if err := errors.ValidatePositive("panel height", p.PanelHeight); err != nil {
		return nil, err
	}
	if err := errors.ValidatePositive("overall crate height", p.OverallHeight); err != nil {
		return nil, err
	}

	var out []Placement
	for _, r := range rules {
		if !r.appliesTo(p.Role) {
			continue
		}
		out = append(out, r.place(p))
	}
	return out, nil
}

func (r Rule) appliesTo(role wall.Role) bool {
	for _, want := range r.Roles {
		if want == role {
			return true
		}
	}
	return false
}

func (r Rule) place(p PanelParams) Placement {
	size := r.Fixed
	if size == (Size{}) {
		size = r.Large
		if r.SmallThreshold > 0 && p.PanelHeight <= r.SmallThreshold+geometry.Epsilon {
			size = r.Small
		}
	}

	var x float64
	switch r.Horizontal {
	case HUpperRight:
		x = p.PanelWidth - size.Width
	default:
		x = p.PanelWidth/2 - size.Width/2
	}

	var centerY float64
	switch {
	case len(r.HeightRules) > 0:
		centerY = p.PanelHeight / 2
		for _, hr := range r.HeightRules {
			if hr.MaxCrateHeight > 0 && p.OverallHeight > hr.MaxCrateHeight+geometry.Epsilon {
				continue
			}
			if hr.MinCrateHeight > 0 && p.OverallHeight <= hr.MinCrateHeight+geometry.Epsilon {
				continue
			}
			centerY = p.PanelHeight/2 + hr.Offset
			break
		}
	case r.Vertical == VUpperHalf:
		centerY = p.PanelHeight * 0.75
	case r.Vertical == VUpperRight:
		centerY = p.PanelHeight - size.Height/2
	default:
		centerY = p.PanelHeight / 2
	}

	return Placement{
		RuleID: r.ID,
		Text:   r.Text,
		X:      geometry.Round4(x),
		Y:      geometry.Round4(centerY - size.Height/2),
		Width:  size.Width,
		Height: size.Height,
		Angle:  r.Angle,
	}
}
