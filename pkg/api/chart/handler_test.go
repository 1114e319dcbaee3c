package chart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dartlens/pkg/core/calc"
	"dartlens/pkg/core/dart"
)

type fakeFetcher struct {
	byYear map[int][]dart.RawLineItem
}

func (f *fakeFetcher) FetchStatements(ctx context.Context, corpCode string, year int, reportType string) ([]dart.RawLineItem, error) {
	items, ok := f.byYear[year]
	if !ok || len(items) == 0 {
		return nil, &dart.APIError{Code: "013", Message: "조회된 데이터가 없음"}
	}
	return items, nil
}

func (f *fakeFetcher) FetchMultiYear(ctx context.Context, corpCode string, startYear, endYear int, reportType string) (map[int][]dart.RawLineItem, error) {
	all := make(map[int][]dart.RawLineItem)
	for year := startYear; year <= endYear; year++ {
		all[year] = f.byYear[year]
	}
	return all, nil
}

func yearItems(revenue, assets string) []dart.RawLineItem {
	return []dart.RawLineItem{
		{StatementKind: "IS", AccountName: "매출액", CurrentAmount: revenue},
		{StatementKind: "IS", AccountName: "당기순이익", CurrentAmount: "100,000,000"},
		{StatementKind: "BS", AccountName: "자산총계", CurrentAmount: assets},
		{StatementKind: "BS", AccountName: "부채총계", CurrentAmount: "400,000,000"},
		{StatementKind: "BS", AccountName: "자본총계", CurrentAmount: "600,000,000"},
	}
}

func get(t *testing.T, handler http.HandlerFunc, target, corpCode string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	req.SetPathValue("corpCode", corpCode)
	rec := httptest.NewRecorder()
	handler(rec, req)

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	return rec, body
}

func TestHandleTimeSeries(t *testing.T) {
	fetcher := &fakeFetcher{byYear: map[int][]dart.RawLineItem{
		2022: yearItems("200,000,000", "1,000,000,000"),
		2023: yearItems("300,000,000", "1,100,000,000"),
	}}
	h := NewHandler(fetcher, calc.DefaultSynonyms())

	rec, body := get(t, h.HandleTimeSeries,
		"/api/financial_chart/00126380?start_year=2022&end_year=2023&chart_type=revenue", "00126380")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if body["chart"] == nil {
		t.Fatal("chart missing")
	}
	years := body["years"].([]interface{})
	values := body["values"].([]interface{})
	if len(years) != 2 || len(values) != 2 {
		t.Fatalf("series lengths: years=%d values=%d", len(years), len(values))
	}
	// 200,000,000 won = 2 억원.
	if values[0].(float64) != 2 || values[1].(float64) != 3 {
		t.Errorf("values in 억원: got %v", values)
	}
}

func TestHandleTimeSeriesSkipsEmptyYears(t *testing.T) {
	fetcher := &fakeFetcher{byYear: map[int][]dart.RawLineItem{
		2021: yearItems("200,000,000", "1,000,000,000"),
		2023: yearItems("300,000,000", "1,100,000,000"),
	}}
	h := NewHandler(fetcher, calc.DefaultSynonyms())

	_, body := get(t, h.HandleTimeSeries,
		"/api/financial_chart/00126380?start_year=2021&end_year=2023", "00126380")

	years := body["years"].([]interface{})
	if len(years) != 2 {
		t.Fatalf("years: got %v, want the empty 2022 skipped", years)
	}
	if years[0].(float64) != 2021 || years[1].(float64) != 2023 {
		t.Errorf("year order: got %v", years)
	}
}

func TestHandleTimeSeriesNoData(t *testing.T) {
	h := NewHandler(&fakeFetcher{byYear: map[int][]dart.RawLineItem{}}, calc.DefaultSynonyms())

	rec, body := get(t, h.HandleTimeSeries,
		"/api/financial_chart/00126380?start_year=2022&end_year=2023", "00126380")

	// Missing data is a degraded 200, not an error.
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if body["chart"] != nil {
		t.Error("chart should be null")
	}
	if body["message"] != noDataMessage {
		t.Errorf("message: got %q", body["message"])
	}
}

func TestHandleTimeSeriesRejectsInvertedRange(t *testing.T) {
	h := NewHandler(&fakeFetcher{}, calc.DefaultSynonyms())
	rec, _ := get(t, h.HandleTimeSeries,
		"/api/financial_chart/00126380?start_year=2023&end_year=2021", "00126380")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestHandleTimeSeriesDisabledClient(t *testing.T) {
	h := NewHandler(nil, calc.DefaultSynonyms())
	rec, _ := get(t, h.HandleTimeSeries, "/api/financial_chart/00126380", "00126380")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rec.Code)
	}
}

func TestHandlePie(t *testing.T) {
	fetcher := &fakeFetcher{byYear: map[int][]dart.RawLineItem{
		2023: yearItems("300,000,000", "1,000,000,000"),
	}}
	h := NewHandler(fetcher, calc.DefaultSynonyms())

	rec, body := get(t, h.HandlePie, "/api/financial_pie/00126380?year=2023", "00126380")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if body["chart"] == nil {
		t.Fatal("chart missing")
	}
	metrics := body["metrics"].(map[string]interface{})
	if metrics["total_liabilities"].(float64) != 4 || metrics["total_equity"].(float64) != 6 {
		t.Errorf("metrics in 억원: got %v", metrics)
	}
}

func TestHandleBatchDegradesPerSlot(t *testing.T) {
	// Balance sheet only: revenue/profit lines must degrade, assets and pie work.
	bsOnly := []dart.RawLineItem{
		{StatementKind: "BS", AccountName: "자산총계", CurrentAmount: "1,000,000,000"},
		{StatementKind: "BS", AccountName: "부채총계", CurrentAmount: "400,000,000"},
		{StatementKind: "BS", AccountName: "자본총계", CurrentAmount: "600,000,000"},
	}
	fetcher := &fakeFetcher{byYear: map[int][]dart.RawLineItem{
		2022: bsOnly,
		2023: bsOnly,
	}}
	h := NewHandler(fetcher, calc.DefaultSynonyms())

	rec, body := get(t, h.HandleBatch,
		"/api/financial_charts_batch/00126380?start_year=2022&end_year=2023&base_year=2023", "00126380")

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	lines := body["line_charts"].(map[string]interface{})
	for _, kind := range []string{"revenue", "profit"} {
		slot := lines[kind].(map[string]interface{})
		if slot["chart"] != nil {
			t.Errorf("%s chart should be null without income data", kind)
		}
		if slot["message"] != noDataMessage {
			t.Errorf("%s slot message: got %q", kind, slot["message"])
		}
	}

	assets := lines["assets"].(map[string]interface{})
	if assets["chart"] == nil {
		t.Error("assets chart missing")
	}
	if assets["message"] != "성공" {
		t.Errorf("assets slot message: got %q", assets["message"])
	}
	if len(assets["years"].([]interface{})) != 2 || len(assets["values"].([]interface{})) != 2 {
		t.Errorf("assets slot series: got %v / %v", assets["years"], assets["values"])
	}

	pie := body["pie_chart"].(map[string]interface{})
	if pie["chart"] == nil {
		t.Error("pie chart missing")
	}
	if body["message"] != "성공" {
		t.Errorf("top-level message: got %q", body["message"])
	}
}

func TestHandleBatchAllEmpty(t *testing.T) {
	h := NewHandler(&fakeFetcher{byYear: map[int][]dart.RawLineItem{}}, calc.DefaultSynonyms())

	_, body := get(t, h.HandleBatch,
		"/api/financial_charts_batch/00126380?start_year=2022&end_year=2023", "00126380")

	if body["message"] != noDataMessage {
		t.Errorf("message: got %q", body["message"])
	}
	// Every slot still answers with its own degraded envelope.
	lines := body["line_charts"].(map[string]interface{})
	for _, kind := range []string{"revenue", "profit", "assets"} {
		slot := lines[kind].(map[string]interface{})
		if slot["chart"] != nil || slot["message"] != noDataMessage {
			t.Errorf("%s slot: got %v", kind, slot)
		}
	}
	pie := body["pie_chart"].(map[string]interface{})
	if pie["chart"] != nil || pie["message"] != noDataMessage {
		t.Errorf("pie slot: got %v", pie)
	}
}
