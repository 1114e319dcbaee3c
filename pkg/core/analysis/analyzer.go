// Package analysis turns computed metric sets into plain-language narratives
// via a hosted generative model, and explains financial terms for the
// glossary endpoint. The model's free text is split into four named sections;
// every failure path still yields a complete four-section payload.
package analysis

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"dartlens/pkg/core/calc"
	"dartlens/pkg/core/llm"
)

// Result is one completed narrative with its trace id.
type Result struct {
	ID       string   `json:"id"`
	Sections Sections `json:"sections"`
	Failed   bool     `json:"failed"`
}

// Analyzer generates narratives through an injected provider source. The
// source is consulted on every call, so a runtime provider switch takes
// effect on the next analysis, not the next process start.
type Analyzer struct {
	provider func() llm.Provider
}

// NewAnalyzer takes a provider source such as (*agent.Manager).GetProvider.
func NewAnalyzer(provider func() llm.Provider) *Analyzer {
	return &Analyzer{provider: provider}
}

// Analyze renders the prompt for a company's metric set, calls the model, and
// splits the response into sections. A failed model call returns the uniform
// error payload, never an error to the web layer.
func (a *Analyzer) Analyze(ctx context.Context, companyName string, m calc.MetricSet) Result {
	id := uuid.NewString()
	prompt := buildPrompt(companyName, m)

	text, err := a.provider().GenerateResponse(ctx, prompt, "", nil)
	if err != nil {
		log.Printf("[ANALYSIS] %s 생성 실패 (id=%s): %v", companyName, id, err)
		return Result{
			ID: id,
			Sections: Sections{
				Summary:        "현재 AI 분석을 사용할 수 없습니다.",
				Strengths:      "데이터를 확인해주세요.",
				Concerns:       "시스템 관리자에게 문의하세요.",
				Recommendation: "수동으로 재무제표를 검토해보시기 바랍니다.",
			},
			Failed: true,
		}
	}

	sections := FillDefaults(SplitSections(text), companyName, m)
	return Result{ID: id, Sections: sections}
}

// buildPrompt embeds the metric values in 억원 units along with the four
// required section headings the splitter recognizes.
func buildPrompt(companyName string, m calc.MetricSet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "당신은 전문 재무분석가입니다. %s의 재무제표를 분석하여 일반인도 쉽게 이해할 수 있도록 설명해주세요.\n\n", companyName)

	b.WriteString("## 재무지표 정보 (억원 단위):\n")
	fmt.Fprintf(&b, "- 매출액: %s억원\n", formatEok(m.Revenue))
	fmt.Fprintf(&b, "- 영업이익: %s억원\n", formatEok(m.OperatingProfit))
	fmt.Fprintf(&b, "- 순이익: %s억원\n", formatEok(m.NetIncome))
	fmt.Fprintf(&b, "- 총자산: %s억원\n", formatEok(m.TotalAssets))
	fmt.Fprintf(&b, "- 총부채: %s억원\n", formatEok(m.TotalLiabilities))
	fmt.Fprintf(&b, "- 자본총계: %s억원\n\n", formatEok(m.TotalEquity))

	b.WriteString("## 재무비율:\n")
	fmt.Fprintf(&b, "- 부채비율: %.1f%%\n", m.DebtRatio)
	fmt.Fprintf(&b, "- 자본비율: %.1f%%\n", m.EquityRatio)
	fmt.Fprintf(&b, "- 영업이익률: %.1f%%\n", m.OperatingMargin)
	fmt.Fprintf(&b, "- 순이익률: %.1f%%\n", m.NetMargin)
	fmt.Fprintf(&b, "- 자기자본이익률(ROE): %.1f%%\n\n", m.ROE)

	b.WriteString("다음 형식을 정확히 지켜서 분석해주세요:\n\n")
	b.WriteString(headingSummary + "\n이 회사의 재무상태를 한 문장으로 요약해주세요.\n\n")
	b.WriteString(headingStrengths + "\n이 회사의 재무적 강점들을 구체적인 숫자와 함께 설명해주세요.\n\n")
	b.WriteString(headingConcerns + "\n투자자가 주의해야 할 재무적 위험요소들을 설명해주세요.\n\n")
	b.WriteString(headingRecommendation + "\n일반 투자자를 위한 구체적인 투자 조언을 제공해주세요.\n\n")
	b.WriteString("**중요**: 각 섹션 제목(### 한줄요약, ### 강점, ### 주의점, ### 투자의견)을 정확히 사용하고, 각 섹션에는 반드시 실질적인 내용을 포함해주세요.\n")

	return b.String()
}

// formatEok converts won to whole 억원 (hundred-million won) with thousands
// separators, matching the domestic reporting convention.
func formatEok(won int64) string {
	eok := won / 100000000
	s := strconv.FormatInt(eok, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}
