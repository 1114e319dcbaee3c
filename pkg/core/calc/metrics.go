package calc

import "math"

// ComputeMetrics resolves each canonical quantity through the synonym table
// and derives the ratio set. Missing quantities resolve to 0; every ratio is
// zero-guarded on its denominator and rounded to 2 decimal places.
func ComputeMetrics(stmt NormalizedStatement, table SynonymTable) MetricSet {
	resolve := func(metric string) int64 {
		v, _ := table.Resolve(stmt, metric)
		return v
	}

	m := MetricSet{
		TotalAssets:           resolve("total_assets"),
		TotalEquity:           resolve("total_equity"),
		TotalLiabilities:      resolve("total_liabilities"),
		CurrentAssets:         resolve("current_assets"),
		NonCurrentAssets:      resolve("non_current_assets"),
		CurrentLiabilities:    resolve("current_liabilities"),
		NonCurrentLiabilities: resolve("non_current_liabilities"),
		Revenue:               resolve("revenue"),
		OperatingProfit:       resolve("operating_profit"),
		NetIncome:             resolve("net_income"),
	}

	m.DebtRatio = ratioPct(m.TotalLiabilities, m.TotalAssets)
	m.EquityRatio = ratioPct(m.TotalEquity, m.TotalAssets)
	m.OperatingMargin = ratioPct(m.OperatingProfit, m.Revenue)
	m.NetMargin = ratioPct(m.NetIncome, m.Revenue)
	m.ROE = ratioPct(m.NetIncome, m.TotalEquity)
	m.CurrentRatio = ratio(m.CurrentAssets, m.CurrentLiabilities)

	return m
}

// ratioPct is numerator/denominator as a percentage, 0 when denominator <= 0.
func ratioPct(numerator, denominator int64) float64 {
	if denominator <= 0 {
		return 0
	}
	return round2(float64(numerator) / float64(denominator) * 100)
}

// ratio is the plain quotient, 0 when denominator <= 0.
func ratio(numerator, denominator int64) float64 {
	if denominator <= 0 {
		return 0
	}
	return round2(float64(numerator) / float64(denominator))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
