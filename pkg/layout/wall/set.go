package wall

import (
	"github.com/autocrate/autocrate/pkg/errors"
	"github.com/autocrate/autocrate/pkg/layout"
)

// SetParams describe the crate shell for a full wall set.
type SetParams struct {
	CrateWidth  float64
	CrateLength float64
	PanelHeight float64

	PlywoodThickness float64
	CleatThickness   float64
	CleatWidth       float64

	// OverallHeight is the assembled crate height including skids and deck.
	OverallHeight float64

	MaxCleatSpacing float64
	KlimpsPerEdge   int
}

// Set holds the four wall panels. The two sides are identical, as are the
// two ends, so each is computed once.
type Set struct {
	Side PanelLayout `json:"side"`
	End  PanelLayout `json:"end"`

	Status  layout.Status `json:"status"`
	Message string        `json:"message,omitempty"`
}

// ComputeSet lays out the side and end wall panels for a crate shell. Side
// panels span the crate length, end panels the crate width; both share the
// panel height and cleat stock.
func ComputeSet(p SetParams) (Set, error) {
	if err := errors.ValidatePositive("crate width", p.CrateWidth); err != nil {
		return Set{}, err
	}
	if err := errors.ValidatePositive("crate length", p.CrateLength); err != nil {
		return Set{}, err
	}
	if err := errors.ValidatePositive("panel height", p.PanelHeight); err != nil {
		return Set{}, err
	}

	side, err := Compute(Params{
		Width:            p.CrateLength,
		Height:           p.PanelHeight,
		PlywoodThickness: p.PlywoodThickness,
		CleatThickness:   p.CleatThickness,
		CleatWidth:       p.CleatWidth,
		Role:             RoleSide,
		OverallHeight:    p.OverallHeight,
		MaxCleatSpacing:  p.MaxCleatSpacing,
		KlimpsPerEdge:    p.KlimpsPerEdge,
	})
	if err != nil {
		return Set{}, err
	}

	end, err := Compute(Params{
		Width:            p.CrateWidth,
		Height:           p.PanelHeight,
		PlywoodThickness: p.PlywoodThickness,
		CleatThickness:   p.CleatThickness,
		CleatWidth:       p.CleatWidth,
		Role:             RoleEnd,
		OverallHeight:    p.OverallHeight,
		MaxCleatSpacing:  p.MaxCleatSpacing,
		KlimpsPerEdge:    p.KlimpsPerEdge,
	})
	if err != nil {
		return Set{}, err
	}

	// A warning on either panel degrades the whole set; a panel with no
	// cleats is for the caller to judge, not to hide.
	set := Set{Side: side, End: end, Status: layout.StatusOK}
	switch {
	case side.Status == layout.StatusWarning && end.Status == layout.StatusWarning:
		set.Status = layout.StatusWarning
		set.Message = "side and end panels laid out without cleats"
	case side.Status == layout.StatusWarning:
		set.Status = layout.StatusWarning
		set.Message = "side panel laid out without cleats"
	case end.Status == layout.StatusWarning:
		set.Status = layout.StatusWarning
		set.Message = "end panel laid out without cleats"
	}
	return set, nil
}
