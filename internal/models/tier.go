package models

import "strings"

// Tier is the closed set of subscription tiers. The zero value is Free,
// so an unrecognized or absent tier never grants elevated access.
type Tier int

const (
	TierFree Tier = iota
	TierPremium
	TierPro
)

// ParseTier maps a tier name to a Tier. Unknown names resolve to Free.
func ParseTier(s string) Tier {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "premium":
		return TierPremium
	case "pro":
		return TierPro
	default:
		return TierFree
	}
}

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierPremium:
		return "premium"
	case TierPro:
		return "pro"
	default:
		return "free"
	}
}

// Feature is a gated platform capability.
type Feature string

const (
	FeatureBasicCharts    Feature = "basic_charts"
	FeatureBasicNews      Feature = "basic_news"
	FeatureAdvancedCharts Feature = "advanced_charts"
	FeatureScanners       Feature = "scanners"
	FeatureAlerts         Feature = "alerts"
	FeatureChat           Feature = "chat"
	FeaturePremiumData    Feature = "premium_data"
	FeatureAPIAccess      Feature = "api_access"
)

// HasFeature reports whether the tier includes a feature. The mapping is
// exhaustive over the Tier enum so a new tier cannot silently inherit
// another tier's access.
func (t Tier) HasFeature(f Feature) bool {
	switch t {
	case TierPro:
		switch f {
		case FeatureBasicCharts, FeatureBasicNews, FeatureAdvancedCharts,
			FeatureScanners, FeatureAlerts, FeatureChat, FeaturePremiumData, FeatureAPIAccess:
			return true
		}
		return false
	case TierPremium:
		switch f {
		case FeatureBasicCharts, FeatureBasicNews, FeatureAdvancedCharts,
			FeatureScanners, FeatureAlerts:
			return true
		}
		return false
	default: // TierFree
		switch f {
		case FeatureBasicCharts, FeatureBasicNews:
			return true
		}
		return false
	}
}

// ScanLimit returns the maximum scanner results for a tier. A limit of
// zero means the scanner is unavailable at that tier.
func ScanLimit(t Tier, scanner ScannerType) int {
	switch scanner {
	case ScannerMomentum:
		switch t {
		case TierPro:
			return 25
		case TierPremium:
			return 15
		default:
			return 5
		}
	case ScannerGappers:
		switch t {
		case TierPro:
			return 20
		case TierPremium:
			return 10
		default:
			return 3
		}
	case ScannerLowFloat:
		switch t {
		case TierPro:
			return 20
		case TierPremium:
			return 10
		default:
			return 0 // premium feature only
		}
	}
	return 0
}
