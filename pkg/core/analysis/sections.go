package analysis

import (
	"fmt"
	"strings"

	"dartlens/pkg/core/calc"
)

// Sections is the four-part narrative payload. No field is ever returned
// empty to callers; FillDefaults backstops each one.
type Sections struct {
	Summary        string `json:"summary"`
	Strengths      string `json:"strengths"`
	Concerns       string `json:"concerns"`
	Recommendation string `json:"recommendation"`
}

// Heading markers emitted by the prompt template.
const (
	headingSummary        = "### 한줄요약"
	headingStrengths      = "### 강점"
	headingConcerns       = "### 주의점"
	headingRecommendation = "### 투자의견"
)

// SplitSections scans the model's free text line by line, switching the
// active section on a recognized heading and space-joining body lines into it.
// A heading is either the exact marker, the keyword appearing in the line, or
// a short line (under 10 runes) starting with the section keyword. The
// short-line heuristic can misfire on unrelated short lines; it is kept for
// compatibility with the model's loosely formatted output.
func SplitSections(text string) Sections {
	var s Sections
	current := (*string)(nil)

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		lower := strings.ToLower(line)
		short := len([]rune(lower)) < 10

		switch {
		case strings.Contains(line, headingSummary) || strings.Contains(lower, "한줄요약"):
			current = &s.Summary
		case strings.Contains(line, headingStrengths) || (short && strings.HasPrefix(lower, "강점")):
			current = &s.Strengths
		case strings.Contains(line, headingConcerns) || (short && strings.HasPrefix(lower, "주의")):
			current = &s.Concerns
		case strings.Contains(line, headingRecommendation) || (short && strings.HasPrefix(lower, "투자")):
			current = &s.Recommendation
		case line != "" && current != nil && !strings.HasPrefix(line, "#"):
			if *current != "" {
				*current += " "
			}
			*current += line
		}
	}

	return s
}

// FillDefaults replaces any empty section with a deterministic fallback
// derived from the metric values, so the caller never sees an empty section.
func FillDefaults(s Sections, companyName string, m calc.MetricSet) Sections {
	if s.Summary == "" {
		if companyName != "" {
			s.Summary = fmt.Sprintf("%s의 재무제표 분석 결과입니다.", companyName)
		} else {
			s.Summary = "재무제표 분석 결과입니다."
		}
	}
	if s.Strengths == "" {
		s.Strengths = fmt.Sprintf("매출액 %s억원, 순이익 %s억원을 기록하여 안정적인 수익 구조를 보여주고 있습니다.",
			formatEok(m.Revenue), formatEok(m.NetIncome))
	}
	if s.Concerns == "" {
		s.Concerns = fmt.Sprintf("부채비율이 %.1f%%로 재무 구조를 지속적으로 모니터링할 필요가 있습니다.", m.DebtRatio)
	}
	if s.Recommendation == "" {
		s.Recommendation = fmt.Sprintf("자기자본이익률(ROE) %.1f%%를 바탕으로 투자 가치를 신중히 검토해보시기 바랍니다.", m.ROE)
	}
	return s
}
