// Package financial serves parsed statement data and the disclosure search.
package financial

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"dartlens/pkg/core/calc"
	"dartlens/pkg/core/dart"
)

// StatementFetcher is the slice of the DART client the handlers use.
type StatementFetcher interface {
	FetchStatements(ctx context.Context, corpCode string, year int, reportType string) ([]dart.RawLineItem, error)
	FetchAllDisclosures(ctx context.Context, q dart.DisclosureQuery) ([]dart.Disclosure, error)
}

// Handler serves the financial data endpoints. A nil fetcher means the DART
// credential is missing; endpoints answer 503.
type Handler struct {
	client   StatementFetcher
	synonyms calc.SynonymTable
}

func NewHandler(client StatementFetcher, synonyms calc.SynonymTable) *Handler {
	return &Handler{client: client, synonyms: synonyms}
}

// HandleFinancial answers GET /api/financial/{corpCode}?year=&report_type=.
// The response carries both the normalized statement and the computed metrics.
func (h *Handler) HandleFinancial(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		writeError(w, http.StatusServiceUnavailable, "DART API 키가 설정되지 않았습니다")
		return
	}

	corpCode := r.PathValue("corpCode")
	year := intParam(r, "year", time.Now().Year()-1)
	reportType := r.URL.Query().Get("report_type")
	if reportType == "" {
		reportType = dart.ReportAnnual
	}
	if !dart.ValidReportType(reportType) {
		writeError(w, http.StatusBadRequest, "report_type이 올바르지 않습니다: "+reportType)
		return
	}

	items, err := h.client.FetchStatements(r.Context(), corpCode, year, reportType)
	if err != nil {
		writeUpstreamError(w, corpCode, err)
		return
	}

	stmt := calc.Parse(items)
	metrics := calc.ComputeMetrics(stmt, h.synonyms)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "success",
		"data":        stmt,
		"metrics":     metrics,
		"year":        year,
		"report_type": reportType,
	})
}

// HandleDisclosures answers GET /api/disclosures?corp_code=&bgn_de=&end_de=&corp_cls=&last_only=.
func (h *Handler) HandleDisclosures(w http.ResponseWriter, r *http.Request) {
	if h.client == nil {
		writeError(w, http.StatusServiceUnavailable, "DART API 키가 설정되지 않았습니다")
		return
	}

	q := dart.DisclosureQuery{
		CorpCode:  r.URL.Query().Get("corp_code"),
		BeginDate: r.URL.Query().Get("bgn_de"),
		EndDate:   r.URL.Query().Get("end_de"),
		CorpClass: r.URL.Query().Get("corp_cls"),
		LastOnly:  r.URL.Query().Get("last_only") == "true",
	}
	if q.CorpCode == "" && q.BeginDate == "" {
		writeError(w, http.StatusBadRequest, "corp_code 또는 bgn_de 중 하나는 필요합니다")
		return
	}

	disclosures, err := h.client.FetchAllDisclosures(r.Context(), q)
	if err != nil {
		writeUpstreamError(w, q.CorpCode, err)
		return
	}
	if disclosures == nil {
		disclosures = []dart.Disclosure{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "success",
		"disclosures": disclosures,
		"count":       len(disclosures),
	})
}

// writeUpstreamError maps DART status codes onto user-facing HTTP categories:
// no data, credential problems, rate limiting, maintenance, everything else.
func writeUpstreamError(w http.ResponseWriter, corpCode string, err error) {
	var apiErr *dart.APIError
	if !errors.As(err, &apiErr) {
		log.Printf("[FINANCIAL] DART 조회 실패 (%s): %v", corpCode, err)
		writeError(w, http.StatusBadGateway, "DART API 호출에 실패했습니다")
		return
	}

	status := http.StatusBadRequest
	switch {
	case apiErr.IsNoData():
		status = http.StatusNotFound
	case apiErr.Code == "010" || apiErr.Code == "011":
		status = http.StatusServiceUnavailable
	case apiErr.Code == "020":
		status = http.StatusTooManyRequests
	case apiErr.Code == "800":
		status = http.StatusServiceUnavailable
	}
	writeError(w, status, apiErr.Error())
}

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
