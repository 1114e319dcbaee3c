package calc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// SynonymRule resolves one canonical metric from an ordered list of raw
// account labels. Matching is case-sensitive and exact; the first label
// present in the statement wins.
type SynonymRule struct {
	Metric    string   `yaml:"metric"`
	Statement string   `yaml:"statement"` // "BS" or "IS"
	Labels    []string `yaml:"labels"`
}

// SynonymTable is the full resolution table, kept as versioned data so the
// label vocabulary can evolve without code changes.
type SynonymTable struct {
	Rules []SynonymRule `yaml:"rules"`
}

// DefaultSynonyms is the compiled-in table matching the registry's key-account
// vocabulary. A YAML resource with the same shape overrides it at startup.
func DefaultSynonyms() SynonymTable {
	return SynonymTable{Rules: []SynonymRule{
		{Metric: "total_assets", Statement: "BS", Labels: []string{"자산총계", "총자산"}},
		{Metric: "total_equity", Statement: "BS", Labels: []string{"자본총계", "총자본", "자본금"}},
		{Metric: "total_liabilities", Statement: "BS", Labels: []string{"부채총계", "총부채"}},
		{Metric: "current_assets", Statement: "BS", Labels: []string{"유동자산"}},
		{Metric: "non_current_assets", Statement: "BS", Labels: []string{"비유동자산"}},
		{Metric: "current_liabilities", Statement: "BS", Labels: []string{"유동부채"}},
		{Metric: "non_current_liabilities", Statement: "BS", Labels: []string{"비유동부채"}},
		{Metric: "revenue", Statement: "IS", Labels: []string{"매출액", "영업수익", "수익(매출액)"}},
		{Metric: "operating_profit", Statement: "IS", Labels: []string{"영업이익"}},
		{Metric: "net_income", Statement: "IS", Labels: []string{"당기순이익", "순이익"}},
	}}
}

// LoadSynonyms reads a synonym table from a YAML resource file.
func LoadSynonyms(path string) (SynonymTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SynonymTable{}, fmt.Errorf("failed to read synonym table: %w", err)
	}
	var table SynonymTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return SynonymTable{}, fmt.Errorf("failed to parse synonym table: %w", err)
	}
	if len(table.Rules) == 0 {
		return SynonymTable{}, fmt.Errorf("synonym table %s has no rules", path)
	}
	return table, nil
}

// Resolve looks up the canonical metric in the statement. The bool reports
// whether any synonym matched, so defaulting to zero is an explicit branch
// at the caller, not a swallowed failure.
func (t SynonymTable) Resolve(stmt NormalizedStatement, metric string) (int64, bool) {
	for _, rule := range t.Rules {
		if rule.Metric != metric {
			continue
		}
		accounts := stmt.accounts(StatementKind(rule.Statement))
		for _, label := range rule.Labels {
			if amounts, ok := accounts[label]; ok {
				return amounts.Current, true
			}
		}
		return 0, false
	}
	return 0, false
}
