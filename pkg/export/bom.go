package export

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/autocrate/autocrate/pkg/layout/floor"
	"github.com/autocrate/autocrate/pkg/layout/wall"
)

// BOMItem is one aggregated line of the bill of materials.
type BOMItem struct {
	Item        string  `json:"item"`
	Quantity    int     `json:"quantity"`
	Description string  `json:"description"`
	Length      float64 `json:"length,omitempty"`
	Width       float64 `json:"width,omitempty"`
	Thickness   float64 `json:"thickness,omitempty"`
}

// BOMItems aggregates the design into bill-of-materials line items. Side and
// end panels are each built twice per crate, so panel-derived quantities are
// doubled.
func BOMItems(d Design) []BOMItem {
	var items []BOMItem

	items = append(items, BOMItem{
		Item:        "Skid",
		Quantity:    d.Skids.Count,
		Description: fmt.Sprintf("%s skid, runs crate length", d.Skids.Nominal),
		Length:      d.Dimensions.CrateLength,
		Width:       d.Skids.Width,
		Thickness:   d.Skids.Height,
	})

	nominals := make([]string, 0, len(d.Floor.Counts))
	for nominal := range d.Floor.Counts {
		nominals = append(nominals, nominal)
	}
	sort.Strings(nominals)
	for _, nominal := range nominals {
		width := 0.0
		for _, board := range d.Floor.Boards {
			if board.Nominal == nominal {
				width = board.Width
				break
			}
		}
		desc := fmt.Sprintf("%s floorboard", nominal)
		if nominal == floor.CustomNominal {
			desc = "custom rip floorboard"
		}
		items = append(items, BOMItem{
			Item:        "Floorboard",
			Quantity:    d.Floor.Counts[nominal],
			Description: desc,
			Length:      d.Floor.BoardLength,
			Width:       width,
			Thickness:   d.Floor.Thickness,
		})
	}

	items = append(items, panelItems("side panel", d.Walls.Side)...)
	items = append(items, panelItems("end panel", d.Walls.End)...)

	items = append(items, BOMItem{
		Item:        "Cap panel",
		Quantity:    1,
		Description: "plywood cap sheathing",
		Length:      d.Cap.PanelLength,
		Width:       d.Cap.PanelWidth,
		Thickness:   d.Cap.PanelThickness,
	})
	if d.Cap.Longitudinal.Count > 0 {
		items = append(items, BOMItem{
			Item:        "Cap cleat",
			Quantity:    d.Cap.Longitudinal.Count,
			Description: "longitudinal cap cleat",
			Length:      d.Cap.Longitudinal.Length,
			Width:       d.Cap.Longitudinal.Width,
			Thickness:   d.Cap.Longitudinal.Thickness,
		})
	}
	if d.Cap.Transverse.Count > 0 {
		items = append(items, BOMItem{
			Item:        "Cap cleat",
			Quantity:    d.Cap.Transverse.Count,
			Description: "transverse cap cleat",
			Length:      d.Cap.Transverse.Length,
			Width:       d.Cap.Transverse.Width,
			Thickness:   d.Cap.Transverse.Thickness,
		})
	}

	if n := len(d.Walls.End.Klimps); n > 0 {
		items = append(items, BOMItem{
			Item:        "Klimp fastener",
			Quantity:    2 * n,
			Description: "spring clamp, end panel vertical edges",
		})
	}

	return items
}

// panelItems expands one wall panel into plywood and cleat line items,
// doubled because each panel kind appears twice on a crate.
func panelItems(name string, p wall.PanelLayout) []BOMItem {
	var items []BOMItem
	for _, piece := range p.Pieces {
		items = append(items, BOMItem{
			Item:        "Plywood",
			Quantity:    2,
			Description: fmt.Sprintf("%s sheathing piece", name),
			Length:      piece.X1 - piece.X0,
			Width:       piece.Y1 - piece.Y0,
			Thickness:   p.PlywoodThickness,
		})
	}
	for _, c := range p.Cleats {
		items = append(items, BOMItem{
			Item:        "Wall cleat",
			Quantity:    2,
			Description: fmt.Sprintf("%s %s %s cleat", name, c.Orientation, c.Class),
			Length:      c.Length,
			Width:       c.Width,
			Thickness:   c.Thickness,
		})
	}
	return items
}

// RenderBOM serializes the bill of materials as a plain-text table.
func RenderBOM(d Design) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Bill of Materials - Run %s\n", d.RunID)
	fmt.Fprintf(&b, "Generated at: %s\n\n", d.CreatedAt.Format("2006-01-02 15:04:05"))

	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tQTY\tDESCRIPTION\tLENGTH\tWIDTH\tTHICKNESS")
	for _, item := range BOMItems(d) {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			item.Item, item.Quantity, item.Description,
			dim(item.Length), dim(item.Width), dim(item.Thickness))
	}
	if err := w.Flush(); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func dim(v float64) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("%.3f", v)
}
