package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/autocrate/autocrate/pkg/buildinfo"
	"github.com/autocrate/autocrate/pkg/export"
	"github.com/autocrate/autocrate/pkg/layout"
	capx "github.com/autocrate/autocrate/pkg/layout/cap"
	"github.com/autocrate/autocrate/pkg/layout/decal"
	"github.com/autocrate/autocrate/pkg/layout/floor"
	"github.com/autocrate/autocrate/pkg/layout/skid"
	"github.com/autocrate/autocrate/pkg/layout/wall"
	"github.com/autocrate/autocrate/pkg/lumber"
	"github.com/autocrate/autocrate/pkg/observability"
)

// Compute runs every calculator stage and assembles the complete design.
// Stages run in dependency order; a failing stage aborts the run, so a skid
// selection error blocks the floorboard layout rather than producing a
// partial design.
func Compute(ctx context.Context, opts Options) (export.Design, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return export.Design{}, fmt.Errorf("invalid options: %w", err)
	}

	d := export.Design{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Version:   buildinfo.Version,
		Product:   opts.Product(),
	}

	table := lumber.DefaultWeightTable()
	catalog := lumber.DefaultCatalog()

	err := stage(ctx, "skid", &opts, func() error {
		spec, err := skid.Compute(skid.Params{
			ProductWeight:   opts.ProductWeight,
			ProductWidth:    opts.ProductWidth,
			ClearanceSide:   opts.ClearanceSide,
			PanelThickness:  opts.PanelThickness,
			CleatThickness:  opts.CleatThickness,
			AllowNarrowSkid: opts.AllowNarrowSkid,
		}, table)
		d.Skids = spec
		return err
	})
	if err != nil {
		return export.Design{}, err
	}

	d.Dimensions = deriveDimensions(opts, d.Skids)

	err = stage(ctx, "floor", &opts, func() error {
		fl, err := floor.Compute(floor.Params{
			ProductLength:   opts.ProductLength,
			ClearanceSide:   opts.ClearanceSide,
			BoardLength:     d.Skids.OverallSpan(),
			Nominals:        opts.FloorNominals,
			AllowCustomFill: opts.AllowCustomFill(),
		}, catalog)
		d.Floor = fl
		return err
	})
	if err != nil {
		return export.Design{}, err
	}

	err = stage(ctx, "wall", &opts, func() error {
		set, err := wall.ComputeSet(wall.SetParams{
			CrateWidth:       d.Dimensions.CrateWidth,
			CrateLength:      d.Dimensions.CrateLength,
			PanelHeight:      d.Dimensions.PanelHeight,
			PlywoodThickness: opts.PanelThickness,
			CleatThickness:   opts.CleatThickness,
			CleatWidth:       opts.CleatWidth,
			OverallHeight:    d.Dimensions.OverallHeight,
			MaxCleatSpacing:  opts.MaxCleatSpacing,
			KlimpsPerEdge:    opts.KlimpsPerEdge,
		})
		d.Walls = set
		return err
	})
	if err != nil {
		return export.Design{}, err
	}

	err = stage(ctx, "cap", &opts, func() error {
		cl, err := capx.Compute(capx.Params{
			CrateWidth:     d.Dimensions.CrateWidth,
			CrateLength:    d.Dimensions.CrateLength,
			PanelThickness: opts.PanelThickness,
			CleatThickness: opts.CapCleatThickness,
			CleatWidth:     opts.CapCleatWidth,
			MaxSpacing:     opts.CapMaxCleatSpacing,
		})
		d.Cap = cl
		return err
	})
	if err != nil {
		return export.Design{}, err
	}

	err = stage(ctx, "decal", &opts, func() error {
		rules := decal.Rules(opts.Fragile, opts.SpecialHandling)
		side, err := decal.PlanPanel(decal.PanelParams{
			PanelWidth:    d.Walls.Side.Width,
			PanelHeight:   d.Walls.Side.Height,
			OverallHeight: d.Dimensions.OverallHeight,
			Role:          wall.RoleSide,
		}, rules)
		if err != nil {
			return err
		}
		end, err := decal.PlanPanel(decal.PanelParams{
			PanelWidth:    d.Walls.End.Width,
			PanelHeight:   d.Walls.End.Height,
			OverallHeight: d.Dimensions.OverallHeight,
			Role:          wall.RoleEnd,
		}, rules)
		if err != nil {
			return err
		}
		d.Decals = export.Decals{Side: side, End: end}
		return nil
	})
	if err != nil {
		return export.Design{}, err
	}

	aggregateStatus(&d)
	return d, nil
}

// stage wraps one calculator invocation with observability hooks and timing.
func stage(ctx context.Context, name string, opts *Options, fn func() error) error {
	hooks := observability.Design()
	hooks.OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	hooks.OnStageComplete(ctx, name, elapsed, err)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	opts.Logger.Debug("stage complete", "stage", name, "duration", elapsed)
	return nil
}

// deriveDimensions computes the crate-level measurements from the inputs and
// the skid selection. The shell wraps the product with clearance plus the
// panel and cleat build-up on each side.
func deriveDimensions(opts Options, s skid.Spec) layout.Dimensions {
	wallBuild := opts.ClearanceSide + opts.PanelThickness + opts.CleatThickness
	panelHeight := opts.ProductHeight + opts.ClearanceAbove
	return layout.Dimensions{
		CrateWidth:          s.CrateWidth,
		CrateLength:         opts.ProductLength + 2*wallBuild,
		UsableWidth:         s.UsableWidth,
		PanelHeight:         panelHeight,
		OverallHeight:       s.Height + lumber.BoardThickness + panelHeight,
		SkidHeight:          s.Height,
		FloorboardThickness: lumber.BoardThickness,
	}
}

// aggregateStatus rolls the per-component statuses up to the design level and
// collects the warning messages.
func aggregateStatus(d *export.Design) {
	d.Status = layout.StatusOK
	warn := func(s layout.Status, msg string) {
		if s != layout.StatusWarning {
			return
		}
		d.Status = layout.StatusWarning
		if msg != "" {
			d.Warnings = append(d.Warnings, msg)
		}
	}
	warn(d.Skids.Status, "skid layout completed with warnings")
	warn(d.Floor.Status, d.Floor.Message)
	warn(d.Walls.Status, d.Walls.Message)
	warn(d.Cap.Status, d.Cap.Message)
}
