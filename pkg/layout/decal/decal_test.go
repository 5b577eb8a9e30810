package decal

import (
	"testing"

	"github.com/autocrate/autocrate/pkg/geometry"
	"github.com/autocrate/autocrate/pkg/layout/wall"
)

func sidePanel() PanelParams {
	return PanelParams{
		PanelWidth:    96,
		PanelHeight:   40,
		OverallHeight: 45,
		Role:          wall.RoleSide,
	}
}

func find(t *testing.T, placements []Placement, id string) Placement {
	t.Helper()
	for _, p := range placements {
		if p.RuleID == id {
			return p
		}
	}
	t.Fatalf("placement %q not found in %+v", id, placements)
	return Placement{}
}

func TestRulesSelection(t *testing.T) {
	if got := len(Rules(false, false)); got != 1 {
		t.Errorf("plain shipment rules = %d, want 1 (cog only)", got)
	}
	if got := len(Rules(true, true)); got != 3 {
		t.Errorf("fragile+handling rules = %d, want 3", got)
	}
}

func TestPlanPanelFragilePlacement(t *testing.T) {
	placements, err := PlanPanel(sidePanel(), Rules(true, false))
	if err != nil {
		t.Fatalf("PlanPanel: %v", err)
	}
	fragile := find(t, placements, "fragile")

	// Panel height 40 <= 73 picks the small stencil, centered on the width
	// and on the upper half midline.
	if fragile.Width != 8.00 || fragile.Height != 2.31 {
		t.Errorf("size = %vx%v, want 8x2.31", fragile.Width, fragile.Height)
	}
	if !geometry.ApproxEq(fragile.X, 44) {
		t.Errorf("x = %v, want 44", fragile.X)
	}
	if !geometry.ApproxEqTol(fragile.Y, 30-2.31/2, 1e-4) {
		t.Errorf("y = %v, want %v", fragile.Y, 30-2.31/2)
	}
	if fragile.Angle != 10 {
		t.Errorf("angle = %v, want 10", fragile.Angle)
	}
}

func TestPlanPanelFragileLargeOnTallPanel(t *testing.T) {
	p := sidePanel()
	p.PanelHeight = 90
	p.OverallHeight = 95

	placements, err := PlanPanel(p, []Rule{FragileRule()})
	if err != nil {
		t.Fatalf("PlanPanel: %v", err)
	}
	fragile := placements[0]
	if fragile.Width != 12.00 || fragile.Height != 3.50 {
		t.Errorf("size = %vx%v, want 12x3.5 above threshold", fragile.Width, fragile.Height)
	}
}

func TestPlanPanelHandlingUpperRight(t *testing.T) {
	placements, err := PlanPanel(sidePanel(), []Rule{HandlingRule()})
	if err != nil {
		t.Fatalf("PlanPanel: %v", err)
	}
	h := placements[0]
	// Height 40 > 37 picks the large 4x11 stencil, flush to the upper right.
	if h.Width != 4.00 || h.Height != 11.00 {
		t.Errorf("size = %vx%v, want 4x11", h.Width, h.Height)
	}
	if !geometry.ApproxEq(h.X, 92) {
		t.Errorf("x = %v, want 92", h.X)
	}
	if !geometry.ApproxEq(h.Y, 29) {
		t.Errorf("y = %v, want 29", h.Y)
	}
}

func TestPlanPanelCoGHeightBrackets(t *testing.T) {
	tests := []struct {
		name          string
		overallHeight float64
		wantOffset    float64
	}{
		{"short crate", 30, 0},
		{"medium crate", 45, 4},
		{"tall crate", 100, 8},
		{"very tall crate", 130, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sidePanel()
			p.OverallHeight = tt.overallHeight
			placements, err := PlanPanel(p, []Rule{CoGRule()})
			if err != nil {
				t.Fatalf("PlanPanel: %v", err)
			}
			cog := placements[0]
			wantY := p.PanelHeight/2 + tt.wantOffset - 1.5
			if !geometry.ApproxEqTol(cog.Y, wantY, 1e-4) {
				t.Errorf("y = %v, want %v", cog.Y, wantY)
			}
			if !geometry.ApproxEq(cog.X, 46.5) {
				t.Errorf("x = %v, want centered 46.5", cog.X)
			}
		})
	}
}

func TestPlanPanelRoleFilter(t *testing.T) {
	onlySide := FragileRule()
	onlySide.Roles = []wall.Role{wall.RoleSide}

	end := sidePanel()
	end.Role = wall.RoleEnd
	placements, err := PlanPanel(end, []Rule{onlySide})
	if err != nil {
		t.Fatalf("PlanPanel: %v", err)
	}
	if len(placements) != 0 {
		t.Errorf("placements = %d, want 0 for filtered role", len(placements))
	}
}

func TestPlanPanelInvalidInputs(t *testing.T) {
	p := sidePanel()
	p.PanelWidth = 0
	if _, err := PlanPanel(p, Rules(false, false)); err == nil {
		t.Error("zero panel width should fail")
	}

	p = sidePanel()
	p.OverallHeight = -1
	if _, err := PlanPanel(p, Rules(false, false)); err == nil {
		t.Error("negative overall height should fail")
	}
}
