package export

import (
	"fmt"
	"strings"

	"github.com/autocrate/autocrate/pkg/errors"
	capx "github.com/autocrate/autocrate/pkg/layout/cap"
	"github.com/autocrate/autocrate/pkg/layout/decal"
	"github.com/autocrate/autocrate/pkg/layout/wall"
)

// maxFloorboardInstances is the fixed floorboard instance count in the NX
// template. The CAD model patterns this many boards and suppresses the
// unused tail, so the expression file always emits every slot.
const maxFloorboardInstances = 20

// RenderEXP serializes the design as a Siemens NX expression file. Every
// value the parametric model consumes is emitted, grouped into numbered
// sections; dimensioned expressions carry their NX unit prefix.
func RenderEXP(d Design) ([]byte, error) {
	var b strings.Builder

	version := d.Version
	if version == "" {
		version = "dev"
	}

	fmt.Fprintf(&b, "// NX Expressions for AutoCrate - Skids, Floorboards, Walls & Cap Assembly\n")
	fmt.Fprintf(&b, "// Generated at: %s\n", d.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "// AutoCrate Version: %s\n", version)
	fmt.Fprintf(&b, "// Run ID: %s\n", d.RunID)
	b.WriteString("\n")

	writeUserControls(&b, d)
	writeDimensions(&b, d)
	writeSkids(&b, d)
	if err := writeFloorboards(&b, d); err != nil {
		return nil, err
	}
	writeWalls(&b, d)
	writeCap(&b, d)
	writeDecals(&b, d)

	b.WriteString("// End of AutoCrate Expressions\n")
	return []byte(b.String()), nil
}

func section(b *strings.Builder, title string) {
	b.WriteString("// ===========================================\n")
	fmt.Fprintf(b, "// %s\n", title)
	b.WriteString("// ===========================================\n")
}

func writeUserControls(b *strings.Builder, d Design) {
	section(b, "1. USER CONTROLS (Values from request)")
	p := d.Product
	fmt.Fprintf(b, "[lbm]product_weight = %v  // Product Weight\n", p.Weight)
	fmt.Fprintf(b, "[Inch]product_width = %.3f     // Product Width - across skids\n", p.Width)
	fmt.Fprintf(b, "[Inch]product_length = %.3f    // Product Length - along skids\n", p.Length)
	fmt.Fprintf(b, "[Inch]product_actual_height = %.3f // Product Actual Height\n", p.Height)
	fmt.Fprintf(b, "[Inch]clearance_side = %.3f     // Clearance per Side\n", p.ClearanceSide)
	fmt.Fprintf(b, "[Inch]clearance_above_product = %.3f // Clearance above product\n", p.ClearanceAbove)
	fmt.Fprintf(b, "[Inch]panel_thickness = %.3f   // Panel Sheathing Thickness\n", p.PanelThickness)
	fmt.Fprintf(b, "[Inch]cleat_thickness = %.3f   // General Cleat Actual Thickness\n", p.CleatThickness)
	fmt.Fprintf(b, "[Inch]wall_cleat_width = %.3f // Wall Cleat Actual Width\n", p.CleatWidth)
	fmt.Fprintf(b, "[Inch]floor_lumbar_thickness = %.3f // Floorboard Actual Thickness\n", d.Floor.Thickness)
	fmt.Fprintf(b, "[Inch]cap_cleat_width = %.3f     // Cap Cleat Actual Width\n", p.CapCleatWidth)
	fmt.Fprintf(b, "[Inch]max_cap_cleat_spacing_rule = %.3f // Max rule for cap cleats\n", p.CapMaxCleatSpacing)
	b.WriteString("\n")
}

func writeDimensions(b *strings.Builder, d Design) {
	section(b, "2. CALCULATED CRATE AND USABLE DIMENSIONS (NX Expressions)")
	dims := d.Dimensions
	fmt.Fprintf(b, "[Inch]CALC_Crate_Width_OD = %.3f\n", dims.CrateWidth)
	fmt.Fprintf(b, "[Inch]CALC_Crate_Length_OD = %.3f\n", dims.CrateLength)
	fmt.Fprintf(b, "[Inch]CALC_Skid_Usable_Width_ID = %.3f\n", dims.UsableWidth)
	fmt.Fprintf(b, "[Inch]CALC_Panel_Height = %.3f\n", dims.PanelHeight)
	fmt.Fprintf(b, "[Inch]CALC_Crate_Overall_Height = %.3f\n", dims.OverallHeight)
	b.WriteString("\n")
}

func writeSkids(b *strings.Builder, d Design) {
	section(b, "3. SKID LAYOUT (for NX Pattern)")
	s := d.Skids
	fmt.Fprintf(b, "[Inch]INPUT_Skid_Actual_Width = %.3f\n", s.Width)
	fmt.Fprintf(b, "[Inch]INPUT_Skid_Actual_Height = %.3f\n", s.Height)
	fmt.Fprintf(b, "[Inch]INPUT_Skid_Actual_Length = %.3f\n", d.Dimensions.CrateLength)
	fmt.Fprintf(b, "CALC_Skid_Count = %d\n", s.Count)
	fmt.Fprintf(b, "[Inch]CALC_Skid_Pitch = %.4f\n", s.Spacing)
	first := 0.0
	if len(s.Positions) > 0 {
		first = s.Positions[0]
	}
	fmt.Fprintf(b, "[Inch]CALC_First_Skid_Pos_X = %.4f\n", first)
	b.WriteString("\n")
}

func writeFloorboards(b *strings.Builder, d Design) error {
	f := d.Floor

	// The NX template patterns a fixed number of standard board instances;
	// a layout that needs more cannot be expressed in it.
	standard := 0
	for _, board := range f.Boards {
		if !board.Custom {
			standard++
		}
	}
	if standard > maxFloorboardInstances {
		return errors.New(errors.ErrCodeInvalidInput,
			"floor layout places %d standard boards but the NX template has %d instances; use wider floorboard stock",
			standard, maxFloorboardInstances)
	}

	section(b, "4. FLOORBOARD PARAMETERS (for N-Instance Suppression Strategy)")
	fmt.Fprintf(b, "[Inch]INPUT_Floorboard_Actual_Thickness = %.3f\n", f.Thickness)
	fmt.Fprintf(b, "[Inch]CALC_Floor_Board_Length_Across_Skids = %.3f\n", f.BoardLength)
	fmt.Fprintf(b, "[Inch]CALC_Floor_Target_Span = %.3f\n", f.TargetSpan)
	fmt.Fprintf(b, "[Inch]CALC_Floor_Center_Gap = %.4f\n", f.Gap)

	std := 0
	customEmitted := false
	for _, board := range f.Boards {
		if board.Custom {
			fmt.Fprintf(b, "FB_Custom_Suppress_Flag = 0\n")
			fmt.Fprintf(b, "[Inch]FB_Custom_Actual_Width = %.4f\n", board.Width)
			fmt.Fprintf(b, "[Inch]FB_Custom_Y_Pos = %.4f\n", board.Position)
			customEmitted = true
			continue
		}
		std++
		fmt.Fprintf(b, "FB_Std_%d_Suppress_Flag = 0\n", std)
		fmt.Fprintf(b, "[Inch]FB_Std_%d_Actual_Width = %.4f\n", std, board.Width)
		fmt.Fprintf(b, "[Inch]FB_Std_%d_Y_Pos = %.4f\n", std, board.Position)
	}
	fmt.Fprintf(b, "CALC_Floor_Std_Board_Count = %d\n", std)
	for i := std + 1; i <= maxFloorboardInstances; i++ {
		fmt.Fprintf(b, "FB_Std_%d_Suppress_Flag = 1\n", i)
		fmt.Fprintf(b, "[Inch]FB_Std_%d_Actual_Width = 0.0000\n", i)
		fmt.Fprintf(b, "[Inch]FB_Std_%d_Y_Pos = 0.0000\n", i)
	}
	if !customEmitted {
		fmt.Fprintf(b, "FB_Custom_Suppress_Flag = 1\n")
		fmt.Fprintf(b, "[Inch]FB_Custom_Actual_Width = 0.0000\n")
		fmt.Fprintf(b, "[Inch]FB_Custom_Y_Pos = 0.0000\n")
	}
	b.WriteString("\n")
	return nil
}

func writeWalls(b *strings.Builder, d Design) {
	section(b, "5. WALL PANEL PARAMETERS")
	writePanel(b, "Side", d.Walls.Side)
	writePanel(b, "End", d.Walls.End)
	b.WriteString("\n")
}

func writePanel(b *strings.Builder, name string, p wall.PanelLayout) {
	fmt.Fprintf(b, "[Inch]CALC_%s_Panel_Width = %.3f\n", name, p.Width)
	fmt.Fprintf(b, "[Inch]CALC_%s_Panel_Height = %.3f\n", name, p.Height)
	fmt.Fprintf(b, "[Inch]INPUT_%s_Panel_Plywood_Thickness = %.3f\n", name, p.PlywoodThickness)
	fmt.Fprintf(b, "CALC_%s_Panel_Plywood_Piece_Count = %d\n", name, len(p.Pieces))
	for i, piece := range p.Pieces {
		fmt.Fprintf(b, "[Inch]%s_Ply_%d_X0 = %.4f\n", name, i+1, piece.X0)
		fmt.Fprintf(b, "[Inch]%s_Ply_%d_Y0 = %.4f\n", name, i+1, piece.Y0)
		fmt.Fprintf(b, "[Inch]%s_Ply_%d_X1 = %.4f\n", name, i+1, piece.X1)
		fmt.Fprintf(b, "[Inch]%s_Ply_%d_Y1 = %.4f\n", name, i+1, piece.Y1)
	}
	fmt.Fprintf(b, "CALC_%s_Panel_Cleat_Count = %d\n", name, len(p.Cleats))
	for i, c := range p.Cleats {
		vertical := 0
		if c.Orientation == wall.Vertical {
			vertical = 1
		}
		fmt.Fprintf(b, "%s_Cleat_%d_Is_Vertical = %d\n", name, i+1, vertical)
		fmt.Fprintf(b, "[Inch]%s_Cleat_%d_X = %.4f\n", name, i+1, c.X)
		fmt.Fprintf(b, "[Inch]%s_Cleat_%d_Y = %.4f\n", name, i+1, c.Y)
		fmt.Fprintf(b, "[Inch]%s_Cleat_%d_Length = %.4f\n", name, i+1, c.Length)
	}
	fmt.Fprintf(b, "CALC_%s_Panel_Klimp_Count = %d\n", name, len(p.Klimps))
	for i, k := range p.Klimps {
		fmt.Fprintf(b, "[Inch]%s_Klimp_%d_X = %.4f\n", name, i+1, k.X)
		fmt.Fprintf(b, "[Inch]%s_Klimp_%d_Y = %.4f\n", name, i+1, k.Y)
	}
}

func writeCap(b *strings.Builder, d Design) {
	section(b, "6. CAP ASSEMBLY PARAMETERS (for N-Instance Suppression Strategy)")
	c := d.Cap
	fmt.Fprintf(b, "[Inch]CALC_Cap_Panel_Width = %.3f\n", c.PanelWidth)
	fmt.Fprintf(b, "[Inch]CALC_Cap_Panel_Length = %.3f\n", c.PanelLength)
	fmt.Fprintf(b, "[Inch]CALC_Cap_Panel_Thickness = %.3f\n", c.PanelThickness)
	writeCapPattern(b, "Long", c.Longitudinal)
	writeCapPattern(b, "Trans", c.Transverse)
	b.WriteString("\n")
}

func writeCapPattern(b *strings.Builder, name string, p capx.Pattern) {
	fmt.Fprintf(b, "CALC_Cap_%s_Cleat_Count = %d\n", name, p.Count)
	fmt.Fprintf(b, "[Inch]CALC_Cap_%s_Cleat_Pitch = %.4f\n", name, p.Spacing)
	first := 0.0
	if len(p.Positions) > 0 {
		first = p.Positions[0]
	}
	fmt.Fprintf(b, "[Inch]CALC_Cap_%s_First_Cleat_Pos = %.4f\n", name, first)
	fmt.Fprintf(b, "[Inch]CALC_Cap_%s_Cleat_Length = %.3f\n", name, p.Length)
}

func writeDecals(b *strings.Builder, d Design) {
	section(b, "7. DECAL PLACEMENTS")
	writeDecalPanel(b, "Side", d.Decals.Side)
	writeDecalPanel(b, "End", d.Decals.End)
	b.WriteString("\n")
}

func writeDecalPanel(b *strings.Builder, name string, placements []decal.Placement) {
	fmt.Fprintf(b, "CALC_%s_Decal_Count = %d\n", name, len(placements))
	for i, p := range placements {
		fmt.Fprintf(b, "// %s decal %d: %s\n", name, i+1, p.Text)
		fmt.Fprintf(b, "[Inch]%s_Decal_%d_X = %.4f\n", name, i+1, p.X)
		fmt.Fprintf(b, "[Inch]%s_Decal_%d_Y = %.4f\n", name, i+1, p.Y)
		fmt.Fprintf(b, "[Inch]%s_Decal_%d_Width = %.4f\n", name, i+1, p.Width)
		fmt.Fprintf(b, "[Inch]%s_Decal_%d_Height = %.4f\n", name, i+1, p.Height)
		fmt.Fprintf(b, "[Degrees]%s_Decal_%d_Angle = %.1f\n", name, i+1, p.Angle)
	}
}
