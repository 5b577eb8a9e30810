// Package wall computes the plywood and cleat layout for crate wall panels.
//
// A panel layout layers three decisions: splicing the plywood when the panel
// exceeds a standard 48x96 sheet, framing every edge and splice seam with
// cleats, and breaking each cleat line into segments where it crosses a
// perpendicular cleat so no two cleats overlap at a T-joint.
//
// Coordinate conventions: plywood pieces are panel-local with the origin at
// the bottom-left corner; cleat segment centers are relative to the panel
// center, so symmetric layouts are symmetric about (0,0). Klimp fastener
// markers are panel-local like the plywood.
package wall

import (
	"math"
	"sort"

	"github.com/autocrate/autocrate/pkg/errors"
	"github.com/autocrate/autocrate/pkg/geometry"
	"github.com/autocrate/autocrate/pkg/layout"
	"github.com/autocrate/autocrate/pkg/lumber"
)

// Role distinguishes the two wall panel kinds.
type Role string

const (
	// RoleSide panels run along the crate length. They are the fastened-to
	// surface and carry no klimp markers.
	RoleSide Role = "side"

	// RoleEnd panels close the front and back. Klimps along their vertical
	// edges fasten them to the side panels.
	RoleEnd Role = "end"
)

// Orientation is the long axis of a cleat segment.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// CleatClass identifies why a cleat line exists.
type CleatClass string

const (
	CleatEdge         CleatClass = "edge"
	CleatSplice       CleatClass = "splice"
	CleatIntermediate CleatClass = "intermediate"
)

// CleatSegment is one straight piece of cleat stock after T-joint
// segmentation. X and Y locate the segment center relative to the panel
// center.
type CleatSegment struct {
	Class       CleatClass  `json:"class"`
	Orientation Orientation `json:"orientation"`
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
	Length      float64     `json:"length"`
	Thickness   float64     `json:"thickness"`
	Width       float64     `json:"width"`
}

// PlywoodPiece is one rectangular sheet cut, panel-local with the origin at
// the panel's bottom-left corner.
type PlywoodPiece struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Klimp is a spring-clamp fastener marker on a panel's vertical edge,
// panel-local coordinates.
type Klimp struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Size float64 `json:"size"`
	Edge string  `json:"edge"`
}

// Params are the inputs for one panel layout.
type Params struct {
	Width  float64
	Height float64

	// PlywoodThickness below the minimum stock thickness is replaced by the
	// default rather than rejected.
	PlywoodThickness float64

	CleatThickness float64
	CleatWidth     float64

	Role Role

	// OverallHeight is the assembled crate height, carried through for
	// downstream decal placement.
	OverallHeight float64

	// MaxCleatSpacing is the widest clear span tolerated between the
	// outermost cleats on an unspliced axis. Zero means the standard 48".
	MaxCleatSpacing float64

	// KlimpsPerEdge is the fastener count per vertical edge on end panels.
	// Zero means the standard 3.
	KlimpsPerEdge int
}

// PanelLayout is the computed layout for one wall panel.
type PanelLayout struct {
	Role             Role             `json:"role"`
	Width            float64          `json:"width"`
	Height           float64          `json:"height"`
	PlywoodThickness float64          `json:"plywood_thickness"`
	Pieces           []PlywoodPiece   `json:"pieces"`
	Cleats           []CleatSegment   `json:"cleats"`
	CleatSpec        layout.CleatSpec `json:"cleat_spec"`
	Klimps           []Klimp          `json:"klimps,omitempty"`
	Status           layout.Status    `json:"status"`
}

// klimpSize is the visual marker size carried to drawings.
const klimpSize = 1.0

// defaultKlimpsPerEdge is the standard fastener count per vertical edge.
const defaultKlimpsPerEdge = 3

// Compute lays out one wall panel: plywood splicing, primary (edge and
// splice) cleats, obstruction-aware segmentation, intermediate cleats on
// unspliced axes, and klimp markers on end panels.
func Compute(p Params) (PanelLayout, error) {
	if err := errors.ValidatePositive("panel width", p.Width); err != nil {
		return PanelLayout{}, err
	}
	if err := errors.ValidatePositive("panel height", p.Height); err != nil {
		return PanelLayout{}, err
	}
	if err := errors.ValidatePositive("overall crate height", p.OverallHeight); err != nil {
		return PanelLayout{}, err
	}
	if err := errors.ValidateCleatSpec(p.CleatThickness, p.CleatWidth); err != nil {
		return PanelLayout{}, err
	}

	ply := p.PlywoodThickness
	if ply < lumber.MinWallPlywoodThickness-geometry.Epsilon {
		ply = lumber.DefaultWallPlywoodThickness
	}
	maxSpacing := p.MaxCleatSpacing
	if maxSpacing <= 0 {
		maxSpacing = lumber.IntermediateCleatSpacing
	}

	out := PanelLayout{
		Role:             p.Role,
		Width:            geometry.Round4(p.Width),
		Height:           geometry.Round4(p.Height),
		PlywoodThickness: geometry.Round4(ply),
		CleatSpec:        layout.CleatSpec{Thickness: p.CleatThickness, Width: p.CleatWidth},
		Status:           layout.StatusOK,
	}

	spliceV := p.Width > lumber.PlywoodStdWidth+geometry.Epsilon
	spliceH := p.Height > lumber.PlywoodStdHeight+geometry.Epsilon
	out.Pieces = plywoodPieces(p.Width, p.Height, spliceV, spliceH)

	halfW, halfH := p.Width/2, p.Height/2
	cw := p.CleatWidth

	// Primary cleat centerlines per axis: edge cleats inset half a cleat
	// width from the panel boundary, plus one line per splice seam.
	var vPrim, hPrim []float64
	hasVEdges := p.Width > cw-geometry.Epsilon
	hasHEdges := p.Height > cw-geometry.Epsilon
	if hasVEdges {
		vPrim = append(vPrim, -halfW+cw/2, halfW-cw/2)
	}
	if hasHEdges {
		hPrim = append(hPrim, -halfH+cw/2, halfH-cw/2)
	}
	if spliceV {
		vPrim = append(vPrim, lumber.PlywoodStdWidth-halfW)
	}
	if spliceH {
		hPrim = append(hPrim, lumber.PlywoodStdHeight-halfH)
	}
	vPrim = sortedUnique(vPrim)
	hPrim = sortedUnique(hPrim)

	emit := func(orient Orientation, class CleatClass, fixed, span float64, obstructions []float64) {
		out.Cleats = append(out.Cleats,
			segments(orient, class, fixed, span, obstructions, cw, p.CleatThickness, cw)...)
	}

	if hasHEdges {
		emit(Horizontal, CleatEdge, -halfH+cw/2, p.Width, vPrim)
		emit(Horizontal, CleatEdge, halfH-cw/2, p.Width, vPrim)
	}
	if hasVEdges {
		emit(Vertical, CleatEdge, -halfW+cw/2, p.Height, hPrim)
		emit(Vertical, CleatEdge, halfW-cw/2, p.Height, hPrim)
	}
	if spliceH {
		emit(Horizontal, CleatSplice, lumber.PlywoodStdHeight-halfH, p.Width, vPrim)
	}
	if spliceV {
		emit(Vertical, CleatSplice, lumber.PlywoodStdWidth-halfW, p.Height, hPrim)
	}

	// Intermediate cleats reinforce an unspliced axis whose clear span
	// between the outermost cleats exceeds the spacing limit. A splice cleat
	// already subdivides its axis, so spliced axes get none.
	if !spliceV {
		for _, x := range intermediatePositions(vPrim, cw, maxSpacing) {
			out.Cleats = append(out.Cleats,
				segments(Vertical, CleatIntermediate, x, p.Height, hPrim, cw, p.CleatThickness, cw)...)
		}
	}
	if !spliceH {
		for _, y := range intermediatePositions(hPrim, cw, maxSpacing) {
			out.Cleats = append(out.Cleats,
				segments(Horizontal, CleatIntermediate, y, p.Width, vPrim, cw, p.CleatThickness, cw)...)
		}
	}

	if p.Role == RoleEnd {
		n := p.KlimpsPerEdge
		if n <= 0 {
			n = defaultKlimpsPerEdge
		}
		out.Klimps = klimps(p.Width, p.Height, n)
	}

	if len(out.Cleats) == 0 {
		out.Status = layout.StatusWarning
	}
	return out, nil
}

// plywoodPieces splits the panel at the standard sheet boundaries, yielding
// 1, 2, or 4 rectangles.
func plywoodPieces(w, h float64, spliceV, spliceH bool) []PlywoodPiece {
	switch {
	case !spliceV && !spliceH:
		return []PlywoodPiece{{0, 0, w, h}}
	case spliceV && !spliceH:
		return []PlywoodPiece{
			{0, 0, lumber.PlywoodStdWidth, h},
			{lumber.PlywoodStdWidth, 0, w, h},
		}
	case !spliceV && spliceH:
		return []PlywoodPiece{
			{0, 0, w, lumber.PlywoodStdHeight},
			{0, lumber.PlywoodStdHeight, w, h},
		}
	default:
		return []PlywoodPiece{
			{0, 0, lumber.PlywoodStdWidth, lumber.PlywoodStdHeight},
			{lumber.PlywoodStdWidth, 0, w, lumber.PlywoodStdHeight},
			{0, lumber.PlywoodStdHeight, lumber.PlywoodStdWidth, h},
			{lumber.PlywoodStdWidth, lumber.PlywoodStdHeight, w, h},
		}
	}
}

// segments breaks one cleat centerline into pieces that avoid every
// perpendicular obstruction. Cut points are the span bounds plus both edges
// of each obstruction's footprint; a candidate segment survives if its
// midpoint lies outside every footprint.
func segments(
	orient Orientation, class CleatClass,
	fixed, span float64,
	obstructions []float64,
	obstructionWidth, thickness, width float64,
) []CleatSegment {
	lo, hi := -span/2, span/2
	cuts := []float64{lo, hi}
	for _, c := range obstructions {
		cuts = append(cuts, c-obstructionWidth/2, c+obstructionWidth/2)
	}
	inSpan := cuts[:0]
	for _, c := range cuts {
		if c >= lo-geometry.Epsilon && c <= hi+geometry.Epsilon {
			inSpan = append(inSpan, c)
		}
	}
	cuts = sortedUnique(inSpan)

	var segs []CleatSegment
	for i := 0; i+1 < len(cuts); i++ {
		length := cuts[i+1] - cuts[i]
		if length <= geometry.Epsilon {
			continue
		}
		mid := (cuts[i] + cuts[i+1]) / 2
		blocked := false
		for _, c := range obstructions {
			if mid >= c-obstructionWidth/2-geometry.Epsilon && mid <= c+obstructionWidth/2+geometry.Epsilon {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}
		seg := CleatSegment{
			Class:       class,
			Orientation: orient,
			Length:      geometry.Round4(length),
			Thickness:   thickness,
			Width:       width,
		}
		if orient == Horizontal {
			seg.X, seg.Y = geometry.Round4(mid), geometry.Round4(fixed)
		} else {
			seg.X, seg.Y = geometry.Round4(fixed), geometry.Round4(mid)
		}
		segs = append(segs, seg)
	}
	return segs
}

// intermediatePositions returns evenly spaced centerlines between the two
// outermost primary cleats when their clear span exceeds maxSpacing.
func intermediatePositions(primaries []float64, cleatWidth, maxSpacing float64) []float64 {
	if len(primaries) < 2 {
		return nil
	}
	first, last := primaries[0], primaries[len(primaries)-1]
	span := last - first
	clear := span - cleatWidth
	if clear <= maxSpacing+geometry.Epsilon {
		return nil
	}
	spaces := int(math.Ceil(clear / maxSpacing))
	n := spaces - 1
	if n < 1 {
		return nil
	}
	pitch := span / float64(spaces)
	out := make([]float64, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, geometry.Round4(first+float64(i)*pitch))
	}
	return out
}

// klimps distributes n fastener markers along each vertical edge, keeping 10%
// of the panel height clear of each corner.
func klimps(w, h float64, n int) []Klimp {
	margin := h * 0.1
	usable := h - 2*margin
	if usable <= geometry.Epsilon || n <= 0 {
		return nil
	}
	pitch := usable / float64(n+1)
	out := make([]Klimp, 0, 2*n)
	for i := 1; i <= n; i++ {
		y := geometry.Round2(margin + float64(i)*pitch)
		out = append(out,
			Klimp{X: 0, Y: y, Size: klimpSize, Edge: "left"},
			Klimp{X: w, Y: y, Size: klimpSize, Edge: "right"},
		)
	}
	return out
}

func sortedUnique(vals []float64) []float64 {
	if len(vals) == 0 {
		return vals
	}
	sort.Float64s(vals)
	out := vals[:1]
	for _, v := range vals[1:] {
		if math.Abs(v-out[len(out)-1]) > geometry.Epsilon {
			out = append(out, v)
		}
	}
	return out
}
