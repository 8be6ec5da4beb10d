package results

import "github.com/jonathan/pathgenie/internal/types"

// FitTier buckets a score for display.
type FitTier string

// Fit tiers
const (
	TierHigh   FitTier = "high"
	TierMedium FitTier = "medium"
	TierLow    FitTier = "low"
)

// Tier thresholds
const (
	HighFitThreshold   = 85
	MediumFitThreshold = 70
)

// Tier buckets a fit score: 85 and above is high, 70 and above medium.
func Tier(score int) FitTier {
	switch {
	case score >= HighFitThreshold:
		return TierHigh
	case score >= MediumFitThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// ConfidenceTier maps a confidence level onto the same display buckets.
func ConfidenceTier(level types.ConfidenceLevel) FitTier {
	switch level {
	case types.ConfidenceHigh:
		return TierHigh
	case types.ConfidenceMedium:
		return TierMedium
	default:
		return TierLow
	}
}
