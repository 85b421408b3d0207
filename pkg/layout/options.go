package layout

import "github.com/flowmap/flowmap/pkg/errors"

// Direction selects the primary layout axis.
type Direction string

const (
	// DirectionTB ranks top-to-bottom: ranks advance downward, siblings
	// spread horizontally.
	DirectionTB Direction = "TB"
	// DirectionLR ranks left-to-right: ranks advance rightward, siblings
	// spread vertically. The transpose of DirectionTB.
	DirectionLR Direction = "LR"
)

// Options is the immutable configuration passed into every layout call.
// There is no hidden global state: spacing and direction materially change
// the result, so the engine fails fast on a missing or invalid value rather
// than defaulting silently.
type Options struct {
	// Direction is the primary layout axis, DirectionTB or DirectionLR.
	Direction Direction

	// RankSpacing is the gap between consecutive ranks along the primary axis.
	RankSpacing float64

	// SiblingSpacing is the gap between nodes within a rank.
	SiblingSpacing float64

	// ContainerPadding is the inset between a container's border and its
	// packed children, applied on all four sides below the header.
	ContainerPadding float64

	// GridSpacing is the gap between child cards inside a container, both
	// between columns and between rows.
	GridSpacing float64
}

// Default returns the option set used by the CLI when no profile overrides
// them. Callers of the engine must still pass options explicitly; this is a
// convenience constructor, not an engine fallback.
func Default() Options {
	return Options{
		Direction:        DirectionTB,
		RankSpacing:      60,
		SiblingSpacing:   40,
		ContainerPadding: 16,
		GridSpacing:      12,
	}
}

// Validate reports whether the options are complete and usable.
// Every spacing constant must be positive and the direction must be one of
// DirectionTB or DirectionLR.
func (o Options) Validate() error {
	switch o.Direction {
	case DirectionTB, DirectionLR:
	default:
		return errors.New(errors.ErrCodeInvalidOptions, "direction must be TB or LR, got %q", o.Direction)
	}
	if o.RankSpacing <= 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "rank spacing must be positive, got %v", o.RankSpacing)
	}
	if o.SiblingSpacing <= 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "sibling spacing must be positive, got %v", o.SiblingSpacing)
	}
	if o.ContainerPadding <= 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "container padding must be positive, got %v", o.ContainerPadding)
	}
	if o.GridSpacing <= 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "grid spacing must be positive, got %v", o.GridSpacing)
	}
	return nil
}
