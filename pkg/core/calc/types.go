package calc

// StatementKind classifies a line item. The wire values follow the registry's
// sj_div vocabulary.
type StatementKind string

const (
	BalanceSheet    StatementKind = "BS"
	IncomeStatement StatementKind = "IS"
)

// Amounts holds the current and prior period figures for one account label.
// The formatted strings are kept verbatim for display.
type Amounts struct {
	Current           int64  `json:"current"`
	Previous          int64  `json:"previous"`
	CurrentFormatted  string `json:"current_formatted"`
	PreviousFormatted string `json:"previous_formatted"`
}

// NormalizedStatement maps statement kind -> account label -> amounts.
// One instance per (company, year, report type) query; never persisted.
type NormalizedStatement map[StatementKind]map[string]Amounts

func (n NormalizedStatement) accounts(kind StatementKind) map[string]Amounts {
	if m, ok := n[kind]; ok {
		return m
	}
	return map[string]Amounts{}
}

// MetricSet is the fixed-shape record of derived figures and ratios.
// Any ratio whose denominator is zero or missing is 0, never NaN or an error.
type MetricSet struct {
	TotalAssets           int64 `json:"total_assets"`
	TotalEquity           int64 `json:"total_equity"`
	TotalLiabilities      int64 `json:"total_liabilities"`
	CurrentAssets         int64 `json:"current_assets"`
	NonCurrentAssets      int64 `json:"non_current_assets"`
	CurrentLiabilities    int64 `json:"current_liabilities"`
	NonCurrentLiabilities int64 `json:"non_current_liabilities"`
	Revenue               int64 `json:"revenue"`
	OperatingProfit       int64 `json:"operating_profit"`
	NetIncome             int64 `json:"net_income"`

	DebtRatio       float64 `json:"debt_ratio"`
	EquityRatio     float64 `json:"equity_ratio"`
	OperatingMargin float64 `json:"operating_margin"`
	NetMargin       float64 `json:"net_margin"`
	ROE             float64 `json:"roe"`
	CurrentRatio    float64 `json:"current_ratio"`
}
