package wall

import (
	"testing"

	"github.com/autocrate/autocrate/pkg/errors"
	"github.com/autocrate/autocrate/pkg/geometry"
	"github.com/autocrate/autocrate/pkg/layout"
)

func baseParams() Params {
	return Params{
		Width:            40,
		Height:           40,
		PlywoodThickness: 0.25,
		CleatThickness:   0.75,
		CleatWidth:       3.5,
		Role:             RoleSide,
		OverallHeight:    50,
	}
}

func countClass(cleats []CleatSegment, class CleatClass) int {
	n := 0
	for _, c := range cleats {
		if c.Class == class {
			n++
		}
	}
	return n
}

func countClassOrient(cleats []CleatSegment, class CleatClass, orient Orientation) int {
	n := 0
	for _, c := range cleats {
		if c.Class == class && c.Orientation == orient {
			n++
		}
	}
	return n
}

func TestComputeSmallPanelNoSplice(t *testing.T) {
	lay, err := Compute(baseParams())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if len(lay.Pieces) != 1 {
		t.Fatalf("pieces = %d, want 1", len(lay.Pieces))
	}
	p := lay.Pieces[0]
	if p.X0 != 0 || p.Y0 != 0 || p.X1 != 40 || p.Y1 != 40 {
		t.Errorf("piece = %+v, want full panel", p)
	}
	// Four edge lines, one segment each; spans too short for intermediates.
	if got := countClass(lay.Cleats, CleatEdge); got != 4 {
		t.Errorf("edge segments = %d, want 4", got)
	}
	if got := countClass(lay.Cleats, CleatIntermediate); got != 0 {
		t.Errorf("intermediate segments = %d, want 0", got)
	}
	if got := countClass(lay.Cleats, CleatSplice); got != 0 {
		t.Errorf("splice segments = %d, want 0", got)
	}
	if lay.Status != layout.StatusOK {
		t.Errorf("status = %s, want OK", lay.Status)
	}
}

func TestComputeIntermediatesOnWidePanel(t *testing.T) {
	p := baseParams()
	p.Width, p.Height = 80, 80
	p.OverallHeight = 90

	lay, err := Compute(p)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	// Clear span between edge cleats is 73 > 48 on both axes: one
	// intermediate per axis, centered.
	if got := countClassOrient(lay.Cleats, CleatIntermediate, Vertical); got != 1 {
		t.Errorf("vertical intermediates = %d, want 1", got)
	}
	if got := countClassOrient(lay.Cleats, CleatIntermediate, Horizontal); got != 1 {
		t.Errorf("horizontal intermediates = %d, want 1", got)
	}
	for _, c := range lay.Cleats {
		if c.Class != CleatIntermediate {
			continue
		}
		if c.Orientation == Vertical && c.X != 0 {
			t.Errorf("vertical intermediate at x=%v, want 0", c.X)
		}
		if c.Orientation == Horizontal && c.Y != 0 {
			t.Errorf("horizontal intermediate at y=%v, want 0", c.Y)
		}
	}
}

func TestComputeVerticalSplice(t *testing.T) {
	p := baseParams()
	p.Width, p.Height = 60, 72
	p.OverallHeight = 80

	lay, err := Compute(p)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(lay.Pieces) != 2 {
		t.Fatalf("pieces = %d, want 2", len(lay.Pieces))
	}
	if lay.Pieces[0].X1 != 48 || lay.Pieces[1].X0 != 48 {
		t.Errorf("splice not at 48: %+v", lay.Pieces)
	}
	// One vertical splice line, unbroken over the panel height.
	if got := countClassOrient(lay.Cleats, CleatSplice, Vertical); got != 1 {
		t.Errorf("vertical splice segments = %d, want 1", got)
	}
	// The spliced width axis gets no intermediates; the unspliced height
	// axis (clear span 65) gets one, broken in two by the splice cleat.
	if got := countClassOrient(lay.Cleats, CleatIntermediate, Vertical); got != 0 {
		t.Errorf("vertical intermediates = %d, want 0 on spliced axis", got)
	}
	if got := countClassOrient(lay.Cleats, CleatIntermediate, Horizontal); got != 2 {
		t.Errorf("horizontal intermediate segments = %d, want 2", got)
	}
	// Horizontal edge lines are each split in two around the splice cleat.
	if got := countClassOrient(lay.Cleats, CleatEdge, Horizontal); got != 4 {
		t.Errorf("horizontal edge segments = %d, want 4", got)
	}
}

func TestComputeBothSplices(t *testing.T) {
	// 60x110 exceeds both sheet thresholds: 4 pieces, splice cleats on both
	// axes, and no intermediates anywhere since the splices subdivide both
	// spans.
	p := baseParams()
	p.Width, p.Height = 60, 110
	p.OverallHeight = 120

	lay, err := Compute(p)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(lay.Pieces) != 4 {
		t.Fatalf("pieces = %d, want 4", len(lay.Pieces))
	}
	if got := countClassOrient(lay.Cleats, CleatSplice, Vertical); got != 2 {
		t.Errorf("vertical splice segments = %d, want 2 (broken at crossing)", got)
	}
	if got := countClassOrient(lay.Cleats, CleatSplice, Horizontal); got != 2 {
		t.Errorf("horizontal splice segments = %d, want 2 (broken at crossing)", got)
	}
	if got := countClass(lay.Cleats, CleatIntermediate); got != 0 {
		t.Errorf("intermediate segments = %d, want 0", got)
	}
}

func TestSegmentationConservesSpan(t *testing.T) {
	// For each horizontal line, kept segment lengths plus the footprints of
	// the vertical cleats it crosses must reproduce the panel width.
	p := baseParams()
	p.Width, p.Height = 60, 72
	p.OverallHeight = 80

	lay, err := Compute(p)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	// Vertical primaries on this panel: two edges plus one splice.
	const crossings = 3
	byLine := map[float64]float64{}
	for _, c := range lay.Cleats {
		if c.Orientation == Horizontal {
			byLine[c.Y] += c.Length
		}
	}
	want := p.Width - crossings*p.CleatWidth
	for y, total := range byLine {
		if !geometry.ApproxEqTol(total, want, 1e-4) {
			t.Errorf("line y=%v covers %v, want %v", y, total, want)
		}
	}
}

func TestSegmentsDoNotOverlapObstructions(t *testing.T) {
	p := baseParams()
	p.Width, p.Height = 100, 110
	p.OverallHeight = 120

	lay, err := Compute(p)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	halfCW := p.CleatWidth / 2
	vSplice := 48 - p.Width/2
	for _, c := range lay.Cleats {
		if c.Orientation != Horizontal {
			continue
		}
		lo := c.X - c.Length/2
		hi := c.X + c.Length/2
		// No horizontal segment may straddle the vertical splice line.
		if lo < vSplice+halfCW-geometry.Epsilon && hi > vSplice-halfCW+geometry.Epsilon {
			t.Errorf("segment [%v,%v] overlaps vertical splice at %v", lo, hi, vSplice)
		}
	}
}

func TestComputeKlimpsOnEndPanels(t *testing.T) {
	p := baseParams()
	p.Role = RoleEnd

	lay, err := Compute(p)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(lay.Klimps) != 6 {
		t.Fatalf("klimps = %d, want 3 per edge", len(lay.Klimps))
	}
	margin := p.Height * 0.1
	var left, right int
	for _, k := range lay.Klimps {
		switch k.Edge {
		case "left":
			left++
			if k.X != 0 {
				t.Errorf("left klimp at x=%v, want 0", k.X)
			}
		case "right":
			right++
			if k.X != p.Width {
				t.Errorf("right klimp at x=%v, want %v", k.X, p.Width)
			}
		}
		if k.Y < margin-geometry.Epsilon || k.Y > p.Height-margin+geometry.Epsilon {
			t.Errorf("klimp y=%v outside corner margin [%v,%v]", k.Y, margin, p.Height-margin)
		}
	}
	if left != 3 || right != 3 {
		t.Errorf("left/right = %d/%d, want 3/3", left, right)
	}
}

func TestComputeSidePanelsHaveNoKlimps(t *testing.T) {
	lay, err := Compute(baseParams())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(lay.Klimps) != 0 {
		t.Errorf("side panel has %d klimps, want 0", len(lay.Klimps))
	}
}

func TestComputeThinPlywoodFallsBackToDefault(t *testing.T) {
	p := baseParams()
	p.PlywoodThickness = 0.1

	lay, err := Compute(p)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if lay.PlywoodThickness != 0.25 {
		t.Errorf("plywood thickness = %v, want default 0.25", lay.PlywoodThickness)
	}
}

func TestComputeInvalidInputs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		code   errors.Code
	}{
		{"zero width", func(p *Params) { p.Width = 0 }, errors.ErrCodeInvalidDimension},
		{"zero height", func(p *Params) { p.Height = 0 }, errors.ErrCodeInvalidDimension},
		{"zero overall height", func(p *Params) { p.OverallHeight = 0 }, errors.ErrCodeInvalidDimension},
		{"zero cleat width", func(p *Params) { p.CleatWidth = 0 }, errors.ErrCodeInvalidCleatSpec},
		{"zero cleat thickness", func(p *Params) { p.CleatThickness = 0 }, errors.ErrCodeInvalidCleatSpec},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseParams()
			tt.mutate(&p)
			_, err := Compute(p)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestComputeSet(t *testing.T) {
	set, err := ComputeSet(SetParams{
		CrateWidth:       47,
		CrateLength:      66,
		PanelHeight:      40,
		PlywoodThickness: 0.25,
		CleatThickness:   0.75,
		CleatWidth:       3.5,
		OverallHeight:    45,
	})
	if err != nil {
		t.Fatalf("ComputeSet: %v", err)
	}
	if set.Side.Width != 66 || set.End.Width != 47 {
		t.Errorf("side/end widths = %v/%v, want 66/47", set.Side.Width, set.End.Width)
	}
	if set.Side.Role != RoleSide || set.End.Role != RoleEnd {
		t.Errorf("roles = %s/%s", set.Side.Role, set.End.Role)
	}
	if len(set.End.Klimps) == 0 {
		t.Error("end panel should carry klimps")
	}
	if len(set.Side.Klimps) != 0 {
		t.Error("side panel should not carry klimps")
	}
	if set.Status != layout.StatusOK {
		t.Errorf("status = %s, want OK", set.Status)
	}
}

func TestComputeSetWarnsWhenOnePanelDegenerate(t *testing.T) {
	// The end panel is narrower than the cleat stock and lays out with zero
	// cleats; that warning must surface on the whole set even though the
	// side panel is fine.
	set, err := ComputeSet(SetParams{
		CrateWidth:       3,
		CrateLength:      40,
		PanelHeight:      3,
		PlywoodThickness: 0.25,
		CleatThickness:   0.75,
		CleatWidth:       3.5,
		OverallHeight:    10,
	})
	if err != nil {
		t.Fatalf("ComputeSet: %v", err)
	}
	if len(set.End.Cleats) != 0 {
		t.Fatalf("end cleats = %d, want 0", len(set.End.Cleats))
	}
	if set.End.Status != layout.StatusWarning {
		t.Errorf("end status = %s, want WARNING", set.End.Status)
	}
	if set.Side.Status != layout.StatusOK {
		t.Errorf("side status = %s, want OK", set.Side.Status)
	}
	if set.Status != layout.StatusWarning {
		t.Errorf("set status = %s, want WARNING", set.Status)
	}
	if set.Message == "" {
		t.Error("set warning should carry a message")
	}
}

func TestComputeSetInvalid(t *testing.T) {
	_, err := ComputeSet(SetParams{CrateWidth: 0, CrateLength: 60, PanelHeight: 40})
	if err == nil {
		t.Fatal("expected error for zero crate width")
	}
	if !errors.Is(err, errors.ErrCodeInvalidDimension) {
		t.Errorf("code = %s, want INVALID_DIMENSION", errors.GetCode(err))
	}
}
