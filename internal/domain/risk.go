package domain

import "github.com/shopspring/decimal"

// RiskLevel coarse volatility classification.
type RiskLevel string

const (
	// RiskLevelLow absolute 24h change below 3 percent.
	RiskLevelLow RiskLevel = "low"
	// RiskLevelMedium absolute 24h change below 7 percent.
	RiskLevelMedium RiskLevel = "medium"
	// RiskLevelHigh absolute 24h change of 7 percent or more.
	RiskLevelHigh RiskLevel = "high"
	// RiskLevelNone no priced holdings to classify.
	RiskLevelNone RiskLevel = "none"
)

// AssetRisk per-asset volatility classification.
type AssetRisk struct {
	// AssetID identifier of the classified asset.
	AssetID string `json:"asset_id"`
	// Change24h observed 24-hour percentage change, signed.
	Change24h float64 `json:"change_24h"`
	// Level classification derived from the absolute change.
	Level RiskLevel `json:"level"`
}

// RiskProfile portfolio-level risk metrics derived from a valuation snapshot.
// A portfolio with zero priced value yields the neutral all-zero profile.
type RiskProfile struct {
	// WeightedVolatility value-weighted absolute 24h change, in
	// percentage points.
	WeightedVolatility float64 `json:"weighted_volatility"`
	// RiskScore 0-100 score, 15 percentage points of weighted daily
	// swing maps to full scale.
	RiskScore float64 `json:"risk_score"`
	// Level coarse classification of the overall score.
	Level RiskLevel `json:"level"`
	// ValueAtRisk95 estimated worst one-day loss at 95% confidence.
	ValueAtRisk95 decimal.Decimal `json:"value_at_risk_95"`
	// DiversificationScore 0-100, higher means less concentrated.
	DiversificationScore float64 `json:"diversification_score"`
	// BenchmarkDelta weighted portfolio 24h change minus the benchmark
	// asset's own change; positive means the portfolio outperformed.
	BenchmarkDelta float64 `json:"benchmark_delta"`
	// Assets per-asset classifications sorted by asset id.
	Assets []AssetRisk `json:"assets"`
	// Recommendations human-readable portfolio advice.
	Recommendations []string `json:"recommendations"`
}
