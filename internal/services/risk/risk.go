// Package risk derives a portfolio risk profile from a valuation snapshot
// and observed 24-hour price changes.
package risk

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/akarpovich/cryptofolio/internal/domain"
)

const (
	// fullScaleVolatility maps weighted daily swing to the 0-100 score:
	// 15 percentage points of weighted change scores full scale.
	fullScaleVolatility = 15.0

	// zScore95 one-sided z-score for 95% confidence.
	zScore95 = 1.645

	lowLevelThreshold    = 3.0
	mediumLevelThreshold = 7.0

	lowScoreThreshold    = 30.0
	mediumScoreThreshold = 60.0

	concentrationWarnWeight = 0.60
)

// Analyze computes the risk profile for a valued portfolio. Per-asset 24h
// changes are taken from the snapshot's valuations; benchmarkChange is the
// reference asset's own 24h change.
//
// A snapshot with zero priced value yields the neutral all-zero profile
// rather than an error. Analyze is a pure function: identical inputs always
// produce identical output.
func Analyze(snapshot domain.PortfolioSnapshot, benchmarkChange float64) domain.RiskProfile {
	weights := snapshot.Weights()
	if len(weights) == 0 {
		return domain.RiskProfile{
			Level:           domain.RiskLevelNone,
			ValueAtRisk95:   decimal.Zero,
			Recommendations: recommend(snapshot, 0, 0),
		}
	}

	var (
		weightedVolatility float64
		weightedChange     float64
		hhi                float64
		assets             []domain.AssetRisk
	)
	for _, av := range snapshot.Assets {
		if av.Stale {
			continue
		}
		w := weights[av.AssetID]
		weightedVolatility += w * math.Abs(av.Change24h)
		weightedChange += w * av.Change24h
		hhi += w * w

		assets = append(assets, domain.AssetRisk{
			AssetID:   av.AssetID,
			Change24h: av.Change24h,
			Level:     ClassifyChange(av.Change24h),
		})
	}

	score := clamp(weightedVolatility / fullScaleVolatility * 100)
	diversification := clamp((1 - hhi) * 100)

	// weighted volatility enters the VaR product as a raw percentage-point
	// number, kept as-is for compatibility with historical reports
	valueAtRisk := snapshot.TotalValue.Mul(decimal.NewFromFloat(zScore95 * weightedVolatility))

	profile := domain.RiskProfile{
		WeightedVolatility:   weightedVolatility,
		RiskScore:            score,
		Level:                classifyScore(score),
		ValueAtRisk95:        valueAtRisk,
		DiversificationScore: diversification,
		BenchmarkDelta:       weightedChange - benchmarkChange,
		Assets:               assets,
	}
	profile.Recommendations = recommend(snapshot, score, diversification)

	return profile
}

// ClassifyChange maps an asset's 24h change to a coarse risk level.
func ClassifyChange(change24h float64) domain.RiskLevel {
	abs := math.Abs(change24h)
	switch {
	case abs < lowLevelThreshold:
		return domain.RiskLevelLow
	case abs < mediumLevelThreshold:
		return domain.RiskLevelMedium
	default:
		return domain.RiskLevelHigh
	}
}

func classifyScore(score float64) domain.RiskLevel {
	switch {
	case score < lowScoreThreshold:
		return domain.RiskLevelLow
	case score < mediumScoreThreshold:
		return domain.RiskLevelMedium
	default:
		return domain.RiskLevelHigh
	}
}

func recommend(snapshot domain.PortfolioSnapshot, score, diversification float64) []string {
	var recs []string

	priced := 0
	losing := 0
	for _, av := range snapshot.Assets {
		if av.Stale {
			continue
		}
		priced++
		if av.UnrealizedPL.IsNegative() {
			losing++
		}
	}

	if priced == 0 {
		return []string{"Start by adding some cryptocurrencies to your portfolio"}
	}

	switch {
	case score > 70:
		recs = append(recs, "Your portfolio has high risk. Consider adding stablecoins or lower-volatility assets.")
	case score > 40:
		recs = append(recs, "Moderate risk level. Your portfolio has a balanced risk profile.")
	default:
		recs = append(recs, "Low risk level. Your portfolio is relatively stable.")
	}

	if priced < 3 {
		recs = append(recs, "Consider adding more assets (at least 3-5) for better diversification.")
	}

	if diversification < 40 {
		weights := snapshot.Weights()
		for _, av := range snapshot.Assets {
			if av.Stale {
				continue
			}
			if w := weights[av.AssetID]; w > concentrationWarnWeight {
				name := av.Name
				if name == "" {
					name = av.AssetID
				}
				recs = append(recs, fmt.Sprintf("%s makes up %.0f%% of your portfolio. Consider rebalancing.", name, w*100))
			}
		}
	}

	if losing*2 > priced {
		recs = append(recs, "Most of your assets are currently at a loss. Consider reviewing your strategy.")
	}

	return recs
}

func clamp(v float64) float64 {
	return math.Min(math.Max(v, 0), 100)
}
