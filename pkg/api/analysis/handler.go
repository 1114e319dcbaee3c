// Package analysis serves the AI narrative and term-glossary endpoints.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	coreanalysis "dartlens/pkg/core/analysis"
	"dartlens/pkg/core/calc"
	"dartlens/pkg/core/dart"
	"dartlens/pkg/core/directory"
)

// Directory resolves a corp code to its registered name.
type Directory interface {
	GetByCode(ctx context.Context, corpCode string) (*directory.Company, error)
}

// StatementFetcher is the slice of the DART client used here.
type StatementFetcher interface {
	FetchStatements(ctx context.Context, corpCode string, year int, reportType string) ([]dart.RawLineItem, error)
}

// Handler serves the narrative endpoints. A nil analyzer or terms explainer
// (missing model credential) answers 503.
type Handler struct {
	dir      Directory
	client   StatementFetcher
	analyzer *coreanalysis.Analyzer
	terms    *coreanalysis.TermsExplainer
	synonyms calc.SynonymTable
}

func NewHandler(dir Directory, client StatementFetcher, analyzer *coreanalysis.Analyzer, terms *coreanalysis.TermsExplainer, synonyms calc.SynonymTable) *Handler {
	return &Handler{dir: dir, client: client, analyzer: analyzer, terms: terms, synonyms: synonyms}
}

// sectionPayload carries each narrative section as raw markdown plus rendered
// HTML for the browse page.
type sectionPayload struct {
	Summary            string `json:"summary"`
	SummaryHTML        string `json:"summary_html"`
	Strengths          string `json:"strengths"`
	StrengthsHTML      string `json:"strengths_html"`
	Concerns           string `json:"concerns"`
	ConcernsHTML       string `json:"concerns_html"`
	Recommendation     string `json:"recommendation"`
	RecommendationHTML string `json:"recommendation_html"`
}

func toPayload(s coreanalysis.Sections) sectionPayload {
	return sectionPayload{
		Summary:            s.Summary,
		SummaryHTML:        coreanalysis.RenderHTML(s.Summary),
		Strengths:          s.Strengths,
		StrengthsHTML:      coreanalysis.RenderHTML(s.Strengths),
		Concerns:           s.Concerns,
		ConcernsHTML:       coreanalysis.RenderHTML(s.Concerns),
		Recommendation:     s.Recommendation,
		RecommendationHTML: coreanalysis.RenderHTML(s.Recommendation),
	}
}

// HandleAnalyze answers GET /api/ai_analysis/{corpCode}?year=. A failed model
// call still returns 200 with the uniform error sections; only missing inputs
// produce an error status.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if h.analyzer == nil {
		writeError(w, http.StatusServiceUnavailable, "AI 분석 기능이 비활성화되어 있습니다")
		return
	}
	if h.client == nil {
		writeError(w, http.StatusServiceUnavailable, "DART API 키가 설정되지 않았습니다")
		return
	}

	corpCode := r.PathValue("corpCode")
	year := intParam(r, "year", time.Now().Year()-1)

	companyName := corpCode
	if h.dir != nil {
		company, err := h.dir.GetByCode(r.Context(), corpCode)
		switch {
		case err == nil:
			companyName = company.CorpName
		case !errors.Is(err, directory.ErrNotFound):
			log.Printf("[ANALYSIS] 회사명 조회 실패 (%s): %v", corpCode, err)
		}
	}

	items, err := h.client.FetchStatements(r.Context(), corpCode, year, dart.ReportAnnual)
	if err != nil {
		var apiErr *dart.APIError
		if errors.As(err, &apiErr) && apiErr.IsNoData() {
			writeError(w, http.StatusNotFound, "해당 연도의 재무데이터를 찾을 수 없습니다")
			return
		}
		log.Printf("[ANALYSIS] DART 조회 실패 (%s): %v", corpCode, err)
		writeError(w, http.StatusBadGateway, "DART API 호출에 실패했습니다")
		return
	}

	metrics := calc.ComputeMetrics(calc.Parse(items), h.synonyms)
	result := h.analyzer.Analyze(r.Context(), companyName, metrics)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "success",
		"analysis_id":   result.ID,
		"company_name":  companyName,
		"analysis_year": year,
		"analysis":      toPayload(result.Sections),
		"ai_available":  !result.Failed,
		"metrics": map[string]float64{
			"revenue_billions":          eok(metrics.Revenue),
			"operating_profit_billions": eok(metrics.OperatingProfit),
			"net_income_billions":       eok(metrics.NetIncome),
			"total_assets_billions":     eok(metrics.TotalAssets),
			"debt_ratio":                metrics.DebtRatio,
			"operating_margin":          metrics.OperatingMargin,
			"net_margin":                metrics.NetMargin,
			"roe":                       metrics.ROE,
		},
	})
}

// HandleTerms answers GET /api/financial_terms.
func (h *Handler) HandleTerms(w http.ResponseWriter, r *http.Request) {
	if h.terms == nil {
		writeError(w, http.StatusServiceUnavailable, "AI 분석 기능이 비활성화되어 있습니다")
		return
	}

	explanations := h.terms.ExplainTerms(r.Context(), coreanalysis.CommonTerms)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "success",
		"explanations": explanations,
	})
}

func eok(won int64) float64 { return float64(won) / 100000000 }

func intParam(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"status": "error", "message": message})
}
