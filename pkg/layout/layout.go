// Package layout defines the result vocabulary shared by the crate
// component calculators (skid, floor, wall, cap, decal subpackages).
//
// Every calculator returns an explicit Status discriminant alongside its
// layout structure. Hard failures (invalid inputs, overweight products,
// internal invariant violations) are returned as errors from pkg/errors and
// never encoded as a status; Status covers the gray zone where a layout was
// produced but the caller should look at it before proceeding.
package layout

// Status describes the quality of a successfully computed layout.
type Status string

const (
	// StatusOK means the layout satisfies every engineering constraint.
	StatusOK Status = "OK"

	// StatusWarning means a layout was produced but one constraint is
	// degenerate: a residual floorboard gap above the recommended maximum,
	// or a cap axis too narrow for any cleat. The caller decides whether
	// to proceed.
	StatusWarning Status = "WARNING"
)

// CleatSpec is the dressed cross-section of the cleat stock used for an
// assembly.
type CleatSpec struct {
	Thickness float64 `json:"thickness"`
	Width     float64 `json:"width"`
}

// Dimensions are the crate-level measurements derived from the product and
// the skid calculation; the wall and cap calculators consume them.
type Dimensions struct {
	// CrateWidth and CrateLength are outside dimensions of the shell.
	CrateWidth  float64 `json:"crate_width"`
	CrateLength float64 `json:"crate_length"`

	// UsableWidth is the clear width between the side wall cleats.
	UsableWidth float64 `json:"usable_width"`

	// PanelHeight is the wall panel height: product height plus top
	// clearance.
	PanelHeight float64 `json:"panel_height"`

	// OverallHeight stacks skid, floorboard deck, and panel height.
	OverallHeight float64 `json:"overall_height"`

	SkidHeight          float64 `json:"skid_height"`
	FloorboardThickness float64 `json:"floorboard_thickness"`
}
