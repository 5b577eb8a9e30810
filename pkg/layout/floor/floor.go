// Package floor computes the floorboard deck layout across the skids.
//
// Boards are placed in symmetric pairs working inward from both ends of the
// target span, widest available nominal first. Whatever remains in the center
// is either closed exactly with a single custom-width board or left as a gap;
// a residual gap above the recommended maximum downgrades the result to a
// warning instead of failing.
package floor

import (
	"sort"

	"github.com/autocrate/autocrate/pkg/errors"
	"github.com/autocrate/autocrate/pkg/geometry"
	"github.com/autocrate/autocrate/pkg/layout"
	"github.com/autocrate/autocrate/pkg/lumber"
)

// maxBoardCount bounds the pairing loop against degenerate inputs.
const maxBoardCount = 200

// CustomNominal labels the single cut-to-width fill board.
const CustomNominal = "custom"

// Params are the inputs to the floorboard calculator. Lengths are inches.
type Params struct {
	ProductLength float64
	ClearanceSide float64

	// BoardLength is the length of every floorboard, the overall
	// outer-edge-to-outer-edge skid span from the skid calculator.
	BoardLength float64

	// Nominals are the floorboard sizes available for this crate, e.g.
	// ["2x6", "2x8"]. Every entry must exist in the catalog.
	Nominals []string

	// AllowCustomFill permits one cut-to-width board that closes the center
	// gap to zero.
	AllowCustomFill bool
}

// Board is one placed floorboard.
type Board struct {
	Nominal string `json:"nominal"`

	// Width is the dressed width along the crate length axis.
	Width float64 `json:"width"`

	// Position is the board's leading edge offset from the start of the
	// target span.
	Position float64 `json:"position"`

	Custom bool `json:"custom,omitempty"`
}

// Layout is the computed floorboard arrangement.
type Layout struct {
	TargetSpan  float64 `json:"target_span"`
	BoardLength float64 `json:"board_length"`
	Thickness   float64 `json:"thickness"`

	// Boards are ordered by position along the target span.
	Boards []Board        `json:"boards"`
	Counts map[string]int `json:"counts"`

	// CustomWidth is the width of the fill board, zero when none was used.
	CustomWidth float64 `json:"custom_width,omitempty"`

	// Gap is the residual uncovered span at the center.
	Gap             float64 `json:"gap"`
	TotalBoardWidth float64 `json:"total_board_width"`

	Status  layout.Status `json:"status"`
	Message string        `json:"message,omitempty"`
}

// stock is a catalog-resolved board choice.
type stock struct {
	nominal string
	width   float64
}

// Compute lays out floorboards over the span product length plus clearance on
// both ends. The catalog resolves nominal sizes to dressed widths; unknown
// nominals are an INVALID_LUMBER_KEY error rather than being skipped.
func Compute(p Params, cat lumber.Catalog) (Layout, error) {
	if err := errors.ValidatePositive("product length", p.ProductLength); err != nil {
		return Layout{}, err
	}
	if err := errors.ValidateNonNegative("side clearance", p.ClearanceSide); err != nil {
		return Layout{}, err
	}
	if err := errors.ValidatePositive("board length", p.BoardLength); err != nil {
		return Layout{}, err
	}
	if len(p.Nominals) == 0 && !p.AllowCustomFill {
		return Layout{}, errors.New(errors.ErrCodeInvalidInput,
			"no standard lumber selected and custom fill not allowed")
	}

	stocks := make([]stock, 0, len(p.Nominals))
	for _, n := range p.Nominals {
		w, err := cat.Width(n)
		if err != nil {
			return Layout{}, err
		}
		stocks = append(stocks, stock{nominal: n, width: w})
	}
	// Widest first so the pairing loop consumes span greedily.
	sort.Slice(stocks, func(i, j int) bool { return stocks[i].width > stocks[j].width })

	target := p.ProductLength + 2*p.ClearanceSide
	out := Layout{
		TargetSpan:  target,
		BoardLength: p.BoardLength,
		Thickness:   lumber.BoardThickness,
		Status:      layout.StatusOK,
	}

	var bottom, top []Board
	lo, hi := 0.0, target
	for {
		remaining := hi - lo
		if geometry.Negative(remaining) {
			return Layout{}, errors.New(errors.ErrCodeInternal,
				"center span went negative (%.4f) during symmetric pairing", remaining)
		}
		var pick *stock
		for i := range stocks {
			if geometry.ApproxGE(remaining, 2*stocks[i].width) {
				pick = &stocks[i]
				break
			}
		}
		if pick == nil {
			break
		}
		bottom = append(bottom, Board{Nominal: pick.nominal, Width: pick.width, Position: lo})
		lo += pick.width
		top = append([]Board{{Nominal: pick.nominal, Width: pick.width, Position: hi - pick.width}}, top...)
		hi -= pick.width
		if len(bottom)+len(top) > maxBoardCount {
			return Layout{}, errors.New(errors.ErrCodeInternal,
				"board count exceeded %d for span %.2f", maxBoardCount, target)
		}
	}

	gap := hi - lo
	if geometry.Negative(gap) {
		return Layout{}, errors.New(errors.ErrCodeInternal,
			"floorboards overlap at center (gap %.4f)", gap)
	}
	gap = max(0, gap)

	var center []Board
	switch {
	case p.AllowCustomFill && geometry.Positive(gap):
		// One custom board closes the gap exactly.
		center = append(center, Board{
			Nominal:  CustomNominal,
			Width:    geometry.Round4(gap),
			Position: geometry.Round4(lo),
			Custom:   true,
		})
		out.CustomWidth = geometry.Round4(gap)
		gap = 0
	case gap > lumber.MaxCenterGap+geometry.Epsilon:
		out.Status = layout.StatusWarning
		out.Message = "center gap exceeds recommended maximum and custom fill is not allowed"
	}

	out.Boards = append(append(bottom, center...), top...)
	if len(out.Boards) == 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidInput,
			"no floorboards could be placed over span %.2f", target)
	}

	out.Gap = geometry.Round4(gap)
	out.Counts = make(map[string]int, len(stocks)+1)
	for _, b := range out.Boards {
		out.Counts[b.Nominal]++
		out.TotalBoardWidth += b.Width
	}
	out.TotalBoardWidth = geometry.Round4(out.TotalBoardWidth)

	// Covered width plus residual gap must reproduce the target span.
	covered := out.TotalBoardWidth + out.Gap
	if !geometry.ApproxEqTol(covered, target, geometry.SpanEpsilon) {
		return Layout{}, errors.New(errors.ErrCodeSpanConservation,
			"boards plus gap cover %.4f, target span is %.4f", covered, target)
	}
	return out, nil
}
