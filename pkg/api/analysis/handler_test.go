package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	coreanalysis "dartlens/pkg/core/analysis"
	"dartlens/pkg/core/calc"
	"dartlens/pkg/core/dart"
	"dartlens/pkg/core/directory"
	"dartlens/pkg/core/llm"
)

type fakeDirectory struct{}

func (fakeDirectory) GetByCode(ctx context.Context, corpCode string) (*directory.Company, error) {
	if corpCode == "00126380" {
		return &directory.Company{CorpCode: corpCode, CorpName: "삼성전자"}, nil
	}
	return nil, directory.ErrNotFound
}

type fakeFetcher struct {
	items []dart.RawLineItem
	err   error
}

func (f *fakeFetcher) FetchStatements(ctx context.Context, corpCode string, year int, reportType string) ([]dart.RawLineItem, error) {
	return f.items, f.err
}

type scriptedProvider struct {
	response string
}

func (p *scriptedProvider) GenerateResponse(ctx context.Context, prompt, systemPrompt string, options map[string]interface{}) (string, error) {
	return p.response, nil
}

func fixed(p llm.Provider) func() llm.Provider {
	return func() llm.Provider { return p }
}

func analyzeRequest(t *testing.T, h *Handler, corpCode string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("GET", "/api/ai_analysis/"+corpCode+"?year=2023", nil)
	req.SetPathValue("corpCode", corpCode)
	rec := httptest.NewRecorder()
	h.HandleAnalyze(rec, req)

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	return rec, body
}

var sampleItems = []dart.RawLineItem{
	{StatementKind: "BS", AccountName: "자산총계", CurrentAmount: "1,000,000,000"},
	{StatementKind: "BS", AccountName: "부채총계", CurrentAmount: "400,000,000"},
	{StatementKind: "BS", AccountName: "자본총계", CurrentAmount: "600,000,000"},
	{StatementKind: "IS", AccountName: "매출액", CurrentAmount: "2,000,000,000"},
	{StatementKind: "IS", AccountName: "당기순이익", CurrentAmount: "200,000,000"},
}

func TestHandleAnalyze(t *testing.T) {
	analyzer := coreanalysis.NewAnalyzer(fixed(&scriptedProvider{response: `### 한줄요약
우량합니다.
### 강점
수익성.
### 주의점
부채.
### 투자의견
보유.`}))
	h := NewHandler(fakeDirectory{}, &fakeFetcher{items: sampleItems}, analyzer, nil, calc.DefaultSynonyms())

	rec, body := analyzeRequest(t, h, "00126380")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if body["company_name"] != "삼성전자" {
		t.Errorf("company_name: got %v", body["company_name"])
	}
	if body["ai_available"] != true {
		t.Error("ai_available should be true")
	}
	analysis := body["analysis"].(map[string]interface{})
	if analysis["summary"] != "우량합니다." {
		t.Errorf("summary: got %v", analysis["summary"])
	}
	if analysis["summary_html"] == "" {
		t.Error("rendered HTML missing")
	}
	metrics := body["metrics"].(map[string]interface{})
	if metrics["revenue_billions"].(float64) != 20 {
		t.Errorf("revenue_billions: got %v", metrics["revenue_billions"])
	}
	if metrics["debt_ratio"].(float64) != 40 {
		t.Errorf("debt_ratio: got %v", metrics["debt_ratio"])
	}
}

func TestHandleAnalyzeModelFailureStillAnswers(t *testing.T) {
	// A broken model yields the uniform fallback sections with HTTP 200.
	analyzer := coreanalysis.NewAnalyzer(fixed(&llm.StubProvider{}))
	h := NewHandler(fakeDirectory{}, &fakeFetcher{items: sampleItems}, analyzer, nil, calc.DefaultSynonyms())

	rec, body := analyzeRequest(t, h, "00126380")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if body["ai_available"] != false {
		t.Error("ai_available should be false")
	}
	analysis := body["analysis"].(map[string]interface{})
	if analysis["summary"] != "현재 AI 분석을 사용할 수 없습니다." {
		t.Errorf("fallback summary: got %v", analysis["summary"])
	}
}

func TestHandleAnalyzeUnknownCompanyUsesCode(t *testing.T) {
	analyzer := coreanalysis.NewAnalyzer(fixed(&scriptedProvider{response: "### 한줄요약\nok"}))
	h := NewHandler(fakeDirectory{}, &fakeFetcher{items: sampleItems}, analyzer, nil, calc.DefaultSynonyms())

	_, body := analyzeRequest(t, h, "99999999")

	if body["company_name"] != "99999999" {
		t.Errorf("company_name fallback: got %v", body["company_name"])
	}
}

func TestHandleAnalyzeNoData(t *testing.T) {
	analyzer := coreanalysis.NewAnalyzer(fixed(&scriptedProvider{response: "ok"}))
	fetcher := &fakeFetcher{err: &dart.APIError{Code: "013"}}
	h := NewHandler(fakeDirectory{}, fetcher, analyzer, nil, calc.DefaultSynonyms())

	rec, _ := analyzeRequest(t, h, "00126380")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestHandleAnalyzeDisabled(t *testing.T) {
	h := NewHandler(fakeDirectory{}, &fakeFetcher{}, nil, nil, calc.DefaultSynonyms())
	rec, _ := analyzeRequest(t, h, "00126380")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rec.Code)
	}
}

func TestHandleTermsDisabled(t *testing.T) {
	h := NewHandler(fakeDirectory{}, &fakeFetcher{}, nil, nil, calc.DefaultSynonyms())
	req := httptest.NewRequest("GET", "/api/financial_terms", nil)
	rec := httptest.NewRecorder()
	h.HandleTerms(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rec.Code)
	}
}
