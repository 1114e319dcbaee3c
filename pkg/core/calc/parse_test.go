package calc

import (
	"testing"

	"dartlens/pkg/core/dart"
)

func TestParseAmountFormats(t *testing.T) {
	items := []dart.RawLineItem{
		{StatementKind: "BS", AccountName: "자산총계", CurrentAmount: "1,234,567", PriorAmount: "1,000,000"},
		{StatementKind: "IS", AccountName: "매출액", CurrentAmount: " 500 ", PriorAmount: ""},
		{StatementKind: "IS", AccountName: "영업이익", CurrentAmount: "N/A", PriorAmount: "-"},
	}

	parsed := Parse(items)

	if got := parsed[BalanceSheet]["자산총계"].Current; got != 1234567 {
		t.Errorf("comma-separated amount: got %d, want 1234567", got)
	}
	if got := parsed[BalanceSheet]["자산총계"].Previous; got != 1000000 {
		t.Errorf("prior amount: got %d, want 1000000", got)
	}
	if got := parsed[IncomeStatement]["매출액"].Current; got != 500 {
		t.Errorf("whitespace-padded amount: got %d, want 500", got)
	}
	// Unparseable amounts become 0, never an error.
	if got := parsed[IncomeStatement]["영업이익"].Current; got != 0 {
		t.Errorf("unparseable amount: got %d, want 0", got)
	}
	// The raw strings survive for display.
	if got := parsed[BalanceSheet]["자산총계"].CurrentFormatted; got != "1,234,567" {
		t.Errorf("formatted amount: got %q", got)
	}
}

func TestParseDuplicateLastWins(t *testing.T) {
	items := []dart.RawLineItem{
		{StatementKind: "BS", AccountName: "자산총계", CurrentAmount: "100"},
		{StatementKind: "BS", AccountName: "자산총계", CurrentAmount: "200"},
	}

	parsed := Parse(items)
	if got := parsed[BalanceSheet]["자산총계"].Current; got != 200 {
		t.Errorf("duplicate account: got %d, want last occurrence 200", got)
	}
}

func TestParseSkipsUnknownKindsAndEmptyNames(t *testing.T) {
	items := []dart.RawLineItem{
		{StatementKind: "CF", AccountName: "영업활동현금흐름", CurrentAmount: "100"},
		{StatementKind: "BS", AccountName: "", CurrentAmount: "100"},
		{StatementKind: "BS", AccountName: "부채총계", CurrentAmount: "300"},
	}

	parsed := Parse(items)
	if len(parsed[BalanceSheet]) != 1 {
		t.Errorf("balance sheet entries: got %d, want 1", len(parsed[BalanceSheet]))
	}
	if len(parsed[IncomeStatement]) != 0 {
		t.Errorf("income statement entries: got %d, want 0", len(parsed[IncomeStatement]))
	}
}
