package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/autocrate/autocrate/pkg/pipeline"
)

// paramsFile is the TOML schema for the --params file. It mirrors the
// pipeline options with snake_case keys:
//
//	[product]
//	weight = 300.0
//	width = 40.0
//	length = 60.0
//	height = 35.0
//
//	[crate]
//	clearance_side = 2.0
//	clearance_above = 1.5
//	panel_thickness = 0.25
//	cleat_thickness = 0.75
//	cleat_width = 3.5
//
//	[floor]
//	lumber = ["2x8", "2x6"]
//	skip_custom_fill = false
//
//	[options]
//	allow_narrow_skid = true
//	fragile = true
type paramsFile struct {
	Product struct {
		Weight float64 `toml:"weight"`
		Width  float64 `toml:"width"`
		Length float64 `toml:"length"`
		Height float64 `toml:"height"`
	} `toml:"product"`

	Crate struct {
		ClearanceSide   float64 `toml:"clearance_side"`
		ClearanceAbove  float64 `toml:"clearance_above"`
		PanelThickness  float64 `toml:"panel_thickness"`
		CleatThickness  float64 `toml:"cleat_thickness"`
		CleatWidth      float64 `toml:"cleat_width"`
		MaxCleatSpacing float64 `toml:"max_cleat_spacing"`
		KlimpsPerEdge   int     `toml:"klimps_per_edge"`
	} `toml:"crate"`

	Cap struct {
		CleatThickness  float64 `toml:"cleat_thickness"`
		CleatWidth      float64 `toml:"cleat_width"`
		MaxCleatSpacing float64 `toml:"max_cleat_spacing"`
	} `toml:"cap"`

	Floor struct {
		Lumber         []string `toml:"lumber"`
		SkipCustomFill bool     `toml:"skip_custom_fill"`
	} `toml:"floor"`

	Options struct {
		AllowNarrowSkid bool `toml:"allow_narrow_skid"`
		Fragile         bool `toml:"fragile"`
		SpecialHandling bool `toml:"special_handling"`
	} `toml:"options"`
}

// loadParams reads a TOML parameter file into pipeline options. Unknown keys
// are rejected so typos surface instead of silently using defaults.
func loadParams(path string) (pipeline.Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Options{}, err
	}

	var pf paramsFile
	meta, err := toml.Decode(string(data), &pf)
	if err != nil {
		return pipeline.Options{}, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return pipeline.Options{}, fmt.Errorf("unknown parameter %q", undecoded[0].String())
	}

	return pipeline.Options{
		ProductWeight:      pf.Product.Weight,
		ProductWidth:       pf.Product.Width,
		ProductLength:      pf.Product.Length,
		ProductHeight:      pf.Product.Height,
		ClearanceSide:      pf.Crate.ClearanceSide,
		ClearanceAbove:     pf.Crate.ClearanceAbove,
		PanelThickness:     pf.Crate.PanelThickness,
		CleatThickness:     pf.Crate.CleatThickness,
		CleatWidth:         pf.Crate.CleatWidth,
		MaxCleatSpacing:    pf.Crate.MaxCleatSpacing,
		KlimpsPerEdge:      pf.Crate.KlimpsPerEdge,
		CapCleatThickness:  pf.Cap.CleatThickness,
		CapCleatWidth:      pf.Cap.CleatWidth,
		CapMaxCleatSpacing: pf.Cap.MaxCleatSpacing,
		FloorNominals:      pf.Floor.Lumber,
		SkipCustomFill:     pf.Floor.SkipCustomFill,
		AllowNarrowSkid:    pf.Options.AllowNarrowSkid,
		Fragile:            pf.Options.Fragile,
		SpecialHandling:    pf.Options.SpecialHandling,
	}, nil
}
