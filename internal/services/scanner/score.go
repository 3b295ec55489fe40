package scanner

import "math"

// MomentumScore ranks momentum candidates. Percent change dominates,
// with relative volume, float tightness and price band as secondary
// components. Maximum possible score is 100.
func MomentumScore(pctChange, relVolume, floatShares, price float64) float64 {
	score := math.Min(pctChange*2, 40)
	score += math.Min(relVolume*3, 30)

	switch {
	case floatShares > 0 && floatShares <= 5_000_000:
		score += 20
	case floatShares > 0 && floatShares <= 10_000_000:
		score += 15
	case floatShares > 0 && floatShares <= 20_000_000:
		score += 10
	}

	switch {
	case price >= 2 && price <= 10:
		score += 10
	case price >= 1 && price <= 20:
		score += 5
	}

	return score
}

// GapScore ranks gap candidates. Gap size dominates, relative volume
// and low float add up to 50 more points.
func GapScore(gapPct, relVolume, floatShares float64) float64 {
	score := math.Min(gapPct*3, 50)
	score += math.Min(relVolume*2, 30)
	if floatShares > 0 && floatShares <= 10_000_000 {
		score += 20
	}
	return score
}

// ExplosiveScore ranks low-float candidates by squeeze potential:
// float tightness first, then float turnover, relative volume and
// percent change.
func ExplosiveScore(floatShares, turnover, relVolume, pctChange float64) float64 {
	var score float64
	switch {
	case floatShares > 0 && floatShares <= 2_000_000:
		score += 40
	case floatShares > 0 && floatShares <= 5_000_000:
		score += 30
	case floatShares > 0 && floatShares <= 10_000_000:
		score += 20
	}

	score += math.Min(turnover*2, 30)
	score += math.Min(relVolume*2, 20)
	score += math.Min(pctChange, 10)
	return score
}

// FloatTurnover is today's volume as a percentage of the float.
// Returns 0 when the float is unknown.
func FloatTurnover(volume int64, floatShares float64) float64 {
	if floatShares <= 0 {
		return 0
	}
	return float64(volume) / floatShares * 100
}
