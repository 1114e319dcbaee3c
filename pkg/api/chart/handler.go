// Package chart serves the declarative chart-figure endpoints. Every response
// embeds a renderer-ready figure; missing data degrades to a null chart with a
// user-facing message instead of an error.
package chart

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"dartlens/pkg/core/calc"
	corechart "dartlens/pkg/core/chart"
	"dartlens/pkg/core/dart"
)

const noDataMessage = "해당 기간의 재무데이터를 찾을 수 없습니다."

// StatementFetcher is the slice of the DART client the chart endpoints use.
type StatementFetcher interface {
	FetchStatements(ctx context.Context, corpCode string, year int, reportType string) ([]dart.RawLineItem, error)
	FetchMultiYear(ctx context.Context, corpCode string, startYear, endYear int, reportType string) (map[int][]dart.RawLineItem, error)
}

// Handler assembles chart figures from fetched statements.
type Handler struct {
	client   StatementFetcher
	synonyms calc.SynonymTable
}

func NewHandler(client StatementFetcher, synonyms calc.SynonymTable) *Handler {
	return &Handler{client: client, synonyms: synonyms}
}

// HandleTimeSeries answers GET /api/financial_chart/{corpCode}?start_year=&end_year=&chart_type=.
func (h *Handler) HandleTimeSeries(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		writeError(w, http.StatusServiceUnavailable, "DART API 키가 설정되지 않았습니다")
		return
	}

	corpCode := r.PathValue("corpCode")
	endYear := intParam(r, "end_year", time.Now().Year()-1)
	startYear := intParam(r, "start_year", endYear-4)
	kind := r.URL.Query().Get("chart_type")
	if kind == "" {
		kind = "revenue"
	}
	if startYear > endYear {
		writeError(w, http.StatusBadRequest, "start_year가 end_year보다 큽니다")
		return
	}

	byYear, err := h.client.FetchMultiYear(r.Context(), corpCode, startYear, endYear, dart.ReportAnnual)
	if err != nil {
		log.Printf("[CHART] 다년도 조회 실패 (%s): %v", corpCode, err)
		writeError(w, http.StatusBadGateway, "DART API 호출에 실패했습니다")
		return
	}

	years, values := h.seriesFrom(byYear, kind)
	if len(years) == 0 || allZero(values) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"chart":   nil,
			"years":   []int{},
			"values":  []float64{},
			"message": noDataMessage,
		})
		return
	}

	fig, err := corechart.BuildTimeSeries(years, values, kind)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"chart":   fig,
		"years":   years,
		"values":  values,
		"message": "성공",
	})
}

// HandlePie answers GET /api/financial_pie/{corpCode}?year=.
func (h *Handler) HandlePie(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		writeError(w, http.StatusServiceUnavailable, "DART API 키가 설정되지 않았습니다")
		return
	}

	corpCode := r.PathValue("corpCode")
	year := intParam(r, "year", time.Now().Year()-1)

	metrics, ok := h.yearMetrics(r.Context(), corpCode, year)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"chart":   nil,
			"message": noDataMessage,
			"year":    year,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"chart":  corechart.BuildCompositionChart(metrics),
		"metrics": map[string]float64{
			"total_assets":      eok(metrics.TotalAssets),
			"total_liabilities": eok(metrics.TotalLiabilities),
			"total_equity":      eok(metrics.TotalEquity),
		},
		"year": year,
	})
}

// HandleStructure answers GET /api/balance_sheet_box/{corpCode}?year=.
func (h *Handler) HandleStructure(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		writeError(w, http.StatusServiceUnavailable, "DART API 키가 설정되지 않았습니다")
		return
	}

	corpCode := r.PathValue("corpCode")
	year := intParam(r, "year", time.Now().Year()-1)

	metrics, ok := h.yearMetrics(r.Context(), corpCode, year)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"chart":   nil,
			"message": noDataMessage,
			"year":    year,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"chart":   corechart.BuildStructureChart(metrics, year),
		"metrics": metrics,
		"year":    year,
	})
}

// HandleBatch answers GET /api/financial_charts_batch/{corpCode}?start_year=&end_year=&base_year=.
// One multi-year fetch feeds the revenue/profit/assets lines and the base-year
// composition pie. Each slot degrades to null independently.
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		writeError(w, http.StatusServiceUnavailable, "DART API 키가 설정되지 않았습니다")
		return
	}

	corpCode := r.PathValue("corpCode")
	endYear := intParam(r, "end_year", time.Now().Year()-1)
	startYear := intParam(r, "start_year", endYear-4)
	baseYear := intParam(r, "base_year", endYear)
	if startYear > endYear {
		writeError(w, http.StatusBadRequest, "start_year가 end_year보다 큽니다")
		return
	}

	byYear, err := h.client.FetchMultiYear(r.Context(), corpCode, startYear, endYear, dart.ReportAnnual)
	if err != nil {
		log.Printf("[CHART] 다년도 조회 실패 (%s): %v", corpCode, err)
		writeError(w, http.StatusBadGateway, "DART API 호출에 실패했습니다")
		return
	}

	// Each slot carries its own chart + message envelope so one missing
	// series never blanks the others.
	anyChart := false
	emptyLine := map[string]interface{}{
		"chart":   nil,
		"years":   []int{},
		"values":  []float64{},
		"message": noDataMessage,
	}

	lineCharts := map[string]interface{}{}
	for _, kind := range []string{"revenue", "profit", "assets"} {
		years, values := h.seriesFrom(byYear, kind)
		if len(years) == 0 || allZero(values) {
			lineCharts[kind] = emptyLine
			continue
		}
		fig, err := corechart.BuildTimeSeries(years, values, kind)
		if err != nil {
			lineCharts[kind] = emptyLine
			continue
		}
		anyChart = true
		lineCharts[kind] = map[string]interface{}{
			"chart":   fig,
			"years":   years,
			"values":  values,
			"message": "성공",
		}
	}

	pie := map[string]interface{}{"chart": nil, "message": noDataMessage}
	baseMetrics, baseOK := calc.MetricSet{}, false
	if items, ok := byYear[baseYear]; ok {
		if len(items) > 0 {
			baseMetrics = calc.ComputeMetrics(calc.Parse(items), h.synonyms)
			baseOK = baseMetrics.TotalLiabilities > 0 || baseMetrics.TotalEquity > 0
		}
	} else if m, ok := h.yearMetrics(r.Context(), corpCode, baseYear); ok {
		baseMetrics, baseOK = m, true
	}
	if baseOK {
		anyChart = true
		pie = map[string]interface{}{
			"chart":   corechart.BuildCompositionChart(baseMetrics),
			"message": "성공",
		}
	}

	message := "성공"
	if !anyChart {
		message = noDataMessage
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"line_charts": lineCharts,
		"pie_chart":   pie,
		"message":     message,
	})
}

// seriesFrom extracts one per-year metric series in ascending year order.
// Years without line items are skipped entirely, so the series can be shorter
// than the requested range.
func (h *Handler) seriesFrom(byYear map[int][]dart.RawLineItem, kind string) ([]int, []float64) {
	years := make([]int, 0, len(byYear))
	for year, items := range byYear {
		if len(items) > 0 {
			years = append(years, year)
		}
	}
	sort.Ints(years)

	values := make([]float64, 0, len(years))
	for _, year := range years {
		metrics := calc.ComputeMetrics(calc.Parse(byYear[year]), h.synonyms)
		values = append(values, round2(eok(metricValue(metrics, kind))))
	}
	return years, values
}

// yearMetrics fetches and computes one year's metric set. Any upstream error
// (including "no data") reads as a missing year.
func (h *Handler) yearMetrics(ctx context.Context, corpCode string, year int) (calc.MetricSet, bool) {
	items, err := h.client.FetchStatements(ctx, corpCode, year, dart.ReportAnnual)
	if err != nil || len(items) == 0 {
		return calc.MetricSet{}, false
	}
	return calc.ComputeMetrics(calc.Parse(items), h.synonyms), true
}

// metricValue maps the chart_type vocabulary to its metric in won.
func metricValue(m calc.MetricSet, kind string) int64 {
	switch kind {
	case "profit":
		return m.NetIncome
	case "assets":
		return m.TotalAssets
	case "equity":
		return m.TotalEquity
	default:
		return m.Revenue
	}
}

func allZero(values []float64) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}

func eok(won int64) float64 { return float64(won) / 100000000 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

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
