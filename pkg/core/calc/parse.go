// Package calc normalizes raw DART line items into structured statements and
// derives the fixed set of financial metrics and ratios from them.
package calc

import (
	"strconv"
	"strings"

	"dartlens/pkg/core/dart"
)

// Parse groups raw line items by statement kind and account label.
// Amounts arrive as formatted strings ("1,234,567"); anything unparseable or
// absent becomes 0 rather than failing the parse. A duplicate
// (kind, label) pair is overwritten: last occurrence wins.
func Parse(items []dart.RawLineItem) NormalizedStatement {
	parsed := NormalizedStatement{
		BalanceSheet:    map[string]Amounts{},
		IncomeStatement: map[string]Amounts{},
	}

	for _, item := range items {
		kind := StatementKind(item.StatementKind)
		if kind != BalanceSheet && kind != IncomeStatement {
			continue
		}
		if item.AccountName == "" {
			continue
		}

		parsed[kind][item.AccountName] = Amounts{
			Current:           parseAmount(item.CurrentAmount),
			Previous:          parseAmount(item.PriorAmount),
			CurrentFormatted:  item.CurrentAmount,
			PreviousFormatted: item.PriorAmount,
		}
	}

	return parsed
}

// parseAmount converts a thousands-separated amount string to an integer.
// Empty or malformed input yields 0.
func parseAmount(s string) int64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
