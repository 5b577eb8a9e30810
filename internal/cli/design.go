package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/autocrate/autocrate/pkg/pipeline"
)

// designOpts holds the command-line flags for the design command.
type designOpts struct {
	output  string // output base path for artifacts
	params  string // TOML parameter file
	formats string // comma-separated output formats
	noCache bool   // disable the design cache
}

// designCommand creates the design command. It computes the full crate
// design from product parameters and writes the requested artifacts.
//
// Default settings:
//   - clearances: 2" per side, 1.5" above the product
//   - stock: 1/4" sheathing, 1x4 cleats (0.75 x 3.5 dressed)
//   - floorboards: 2x12 through 2x6 with a custom fill board
//   - format: json
func (c *CLI) designCommand() *cobra.Command {
	var opts designOpts
	var pipeOpts pipeline.Options

	cmd := &cobra.Command{
		Use:   "design",
		Short: "Compute a crate design and export artifacts",
		Long: `Design a shipping crate around a product and export the result.

Product dimensions and weight are required, either as flags or in a TOML
parameter file. The exported formats are:

  exp    Siemens NX expression file for the parametric CAD model
  json   complete design document
  bom    plain-text bill of materials`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.params != "" {
				fileOpts, err := loadParams(opts.params)
				if err != nil {
					return fmt.Errorf("load params: %w", err)
				}
				overlayFlagOptions(cmd, &fileOpts, pipeOpts)
				pipeOpts = fileOpts
			}
			pipeOpts.Formats = parseFormats(opts.formats)
			return c.runDesign(cmd, &opts, pipeOpts)
		},
	}

	cmd.Flags().Float64Var(&pipeOpts.ProductWeight, "weight", 0, "product weight in pounds")
	cmd.Flags().Float64Var(&pipeOpts.ProductWidth, "width", 0, "product width in inches (across skids)")
	cmd.Flags().Float64Var(&pipeOpts.ProductLength, "length", 0, "product length in inches (along skids)")
	cmd.Flags().Float64Var(&pipeOpts.ProductHeight, "height", 0, "product height in inches")

	cmd.Flags().Float64Var(&pipeOpts.ClearanceSide, "clearance-side", 0, "clearance per side (default 2)")
	cmd.Flags().Float64Var(&pipeOpts.ClearanceAbove, "clearance-above", 0, "clearance above product (default 1.5)")

	cmd.Flags().Float64Var(&pipeOpts.PanelThickness, "panel-thickness", 0, "wall and cap sheathing thickness (default 0.25)")
	cmd.Flags().Float64Var(&pipeOpts.CleatThickness, "cleat-thickness", 0, "wall cleat thickness (default 0.75)")
	cmd.Flags().Float64Var(&pipeOpts.CleatWidth, "cleat-width", 0, "wall cleat width (default 3.5)")
	cmd.Flags().Float64Var(&pipeOpts.MaxCleatSpacing, "max-cleat-spacing", 0, "max clear span before intermediate cleats (default 48)")
	cmd.Flags().IntVar(&pipeOpts.KlimpsPerEdge, "klimps-per-edge", 0, "klimp fasteners per end panel edge (default 3)")

	cmd.Flags().Float64Var(&pipeOpts.CapCleatThickness, "cap-cleat-thickness", 0, "cap cleat thickness (default 0.75)")
	cmd.Flags().Float64Var(&pipeOpts.CapCleatWidth, "cap-cleat-width", 0, "cap cleat width (default 3.5)")
	cmd.Flags().Float64Var(&pipeOpts.CapMaxCleatSpacing, "cap-spacing", 0, "max cap cleat spacing (default 24)")

	cmd.Flags().StringSliceVar(&pipeOpts.FloorNominals, "floor-lumber", nil, "floorboard nominals, e.g. 2x8,2x6 (default 2x12,2x10,2x8,2x6)")
	cmd.Flags().BoolVar(&pipeOpts.SkipCustomFill, "skip-custom-fill", false, "do not close the floorboard gap with a cut board")
	cmd.Flags().BoolVar(&pipeOpts.AllowNarrowSkid, "allow-narrow-skid", false, "permit 3x4 skids for light products")

	cmd.Flags().BoolVar(&pipeOpts.Fragile, "fragile", false, "place fragile decals")
	cmd.Flags().BoolVar(&pipeOpts.SpecialHandling, "special-handling", false, "place special handling decals")

	cmd.Flags().BoolVar(&pipeOpts.Refresh, "refresh", false, "bypass the design cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching entirely")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: crate)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): json (default), exp, bom (comma-separated)")
	cmd.Flags().StringVar(&opts.params, "params", "", "TOML parameter file")

	return cmd
}

// runDesign executes the pipeline and writes each artifact next to the base
// output path.
func (c *CLI) runDesign(cmd *cobra.Command, opts *designOpts, pipeOpts pipeline.Options) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	pipeOpts.Logger = logger

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinnerWithContext(ctx, "Designing crate...")
	spin.Start()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, pipeOpts)
	spin.Stop()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	prog.done("Designed crate")

	d := result.Design
	printSuccess("Crate %s: %.2f x %.2f x %.2f in (W x L x H)",
		d.Status, d.Dimensions.CrateWidth, d.Dimensions.CrateLength, d.Dimensions.OverallHeight)
	printStats(result.Stats.SkidCount, result.Stats.BoardCount, result.Stats.CleatCount,
		result.CacheInfo.DesignHit)
	printKeyValue("skids", fmt.Sprintf("%d x %s at %.4f in pitch", d.Skids.Count, d.Skids.Nominal, d.Skids.Spacing))
	printKeyValue("panel height", fmt.Sprintf("%.3f in", d.Dimensions.PanelHeight))
	for _, w := range d.Warnings {
		printWarning("%s", w)
	}

	base := opts.output
	if base == "" {
		base = "crate"
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))

	printNewline()
	for _, format := range pipeOpts.Formats {
		path := base + "." + format
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// overlayFlagOptions copies explicitly set flag values over the options
// loaded from a parameter file, so flags always win.
func overlayFlagOptions(cmd *cobra.Command, dst *pipeline.Options, flags pipeline.Options) {
	set := func(name string, apply func()) {
		if cmd.Flags().Changed(name) {
			apply()
		}
	}
	set("weight", func() { dst.ProductWeight = flags.ProductWeight })
	set("width", func() { dst.ProductWidth = flags.ProductWidth })
	set("length", func() { dst.ProductLength = flags.ProductLength })
	set("height", func() { dst.ProductHeight = flags.ProductHeight })
	set("clearance-side", func() { dst.ClearanceSide = flags.ClearanceSide })
	set("clearance-above", func() { dst.ClearanceAbove = flags.ClearanceAbove })
	set("panel-thickness", func() { dst.PanelThickness = flags.PanelThickness })
	set("cleat-thickness", func() { dst.CleatThickness = flags.CleatThickness })
	set("cleat-width", func() { dst.CleatWidth = flags.CleatWidth })
	set("max-cleat-spacing", func() { dst.MaxCleatSpacing = flags.MaxCleatSpacing })
	set("klimps-per-edge", func() { dst.KlimpsPerEdge = flags.KlimpsPerEdge })
	set("cap-cleat-thickness", func() { dst.CapCleatThickness = flags.CapCleatThickness })
	set("cap-cleat-width", func() { dst.CapCleatWidth = flags.CapCleatWidth })
	set("cap-spacing", func() { dst.CapMaxCleatSpacing = flags.CapMaxCleatSpacing })
	set("floor-lumber", func() { dst.FloorNominals = flags.FloorNominals })
	set("skip-custom-fill", func() { dst.SkipCustomFill = flags.SkipCustomFill })
	set("allow-narrow-skid", func() { dst.AllowNarrowSkid = flags.AllowNarrowSkid })
	set("fragile", func() { dst.Fragile = flags.Fragile })
	set("special-handling", func() { dst.SpecialHandling = flags.SpecialHandling })
	set("refresh", func() { dst.Refresh = flags.Refresh })
}
