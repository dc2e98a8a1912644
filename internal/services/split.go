package services

import (
	"math"

	apperrors "lift/internal/errors"
	"lift/internal/models"
)

// DefaultLiftSplitPercent is the fund split applied to basic contributions
// when the system-wide setting is missing or unreadable.
const DefaultLiftSplitPercent = 50.0

// splitSumTolerance is the allowed deviation of liftPct + aaPct from 100.
const splitSumTolerance = 0.01

// Split holds the computed fund allocation of a contribution.
// LiftAmount + AAAmount equals the contribution amount exactly: the LIFT
// share is rounded half-up to whole cents and the remainder goes to the
// alumni-association side.
type Split struct {
	LiftPercentage float64
	AAPercentage   float64
	LiftAmount     int64
	AAAmount       int64
}

// ComputeSplit computes the LIFT / alumni-association allocation of a
// contribution amount (in cents).
//
// For basic contributions the split always follows defaultLiftPct (the
// system-wide setting at call time, passed in by the caller so this function
// stays pure); supplied percentages are ignored. For additional
// contributions both supplied percentages are required, each must lie
// within [0,100], and their sum must equal 100 within tolerance.
//
// Recomputing with a record's stored percentages and amount reproduces its
// stored amounts, so edits that change nothing are no-ops.
func ComputeSplit(
	amount int64,
	contributionType models.ContributionType,
	suppliedLift, suppliedAA *float64,
	defaultLiftPct float64,
) (Split, error) {
	var liftPct, aaPct float64

	switch contributionType {
	case models.ContributionTypeBasic:
		liftPct = defaultLiftPct
		aaPct = 100 - liftPct
	case models.ContributionTypeAdditional:
		if suppliedLift == nil || suppliedAA == nil {
			return Split{}, apperrors.ErrMissingSplit
		}
		liftPct = *suppliedLift
		aaPct = *suppliedAA
		if liftPct < 0 || liftPct > 100 || aaPct < 0 || aaPct > 100 {
			return Split{}, apperrors.WithMessage(apperrors.ErrInvalidSplit, "split percentages must be between 0 and 100")
		}
		if math.Abs(liftPct+aaPct-100) > splitSumTolerance {
			return Split{}, apperrors.WithMessage(apperrors.ErrInvalidSplit, "split percentages must sum to 100")
		}
	default:
		return Split{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "contribution type must be 'basic' or 'additional'")
	}

	liftAmount := int64(math.Round(float64(amount) * liftPct / 100))
	return Split{
		LiftPercentage: liftPct,
		AAPercentage:   aaPct,
		LiftAmount:     liftAmount,
		AAAmount:       amount - liftAmount,
	}, nil
}
