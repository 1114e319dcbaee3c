// Package company provides the directory search/detail HTTP handlers and the
// HTML browse pages.
package company

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"dartlens/pkg/core/directory"
	"dartlens/pkg/web"
)

// Directory is the subset of the directory store the handlers read from.
type Directory interface {
	Search(ctx context.Context, term string, limit int) ([]directory.Company, error)
	GetByCode(ctx context.Context, corpCode string) (*directory.Company, error)
	PopularCompanies(ctx context.Context, names []string, limit int) ([]directory.Company, error)
	ListedCompanies(ctx context.Context, limit int) ([]directory.Company, error)
	Count(ctx context.Context) (int, error)
	ListedCount(ctx context.Context) (int, error)
}

// Handler serves company lookups. A nil Directory means the store failed to
// initialize; its endpoints answer 503 instead of crashing the process.
type Handler struct {
	dir     Directory
	curated []string
	pages   *web.Pages
}

func NewHandler(dir Directory, curated []string, pages *web.Pages) *Handler {
	return &Handler{dir: dir, curated: curated, pages: pages}
}

// HandleSearch answers GET /api/search_companies?q=&limit=.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	if h.dir == nil {
		writeError(w, http.StatusServiceUnavailable, "회사 디렉토리가 초기화되지 않았습니다")
		return
	}

	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{"companies": []directory.Company{}})
		return
	}
	limit := intParam(r, "limit", 20)

	companies, err := h.dir.Search(r.Context(), q, limit)
	if err != nil {
		log.Printf("[COMPANY] 검색 실패 (%q): %v", q, err)
		writeError(w, http.StatusInternalServerError, "검색 실패")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"companies": companies})
}

// HandleDetail answers GET /api/company/{corpCode}.
func (h *Handler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	if h.dir == nil {
		writeError(w, http.StatusServiceUnavailable, "회사 디렉토리가 초기화되지 않았습니다")
		return
	}

	corpCode := r.PathValue("corpCode")
	company, err := h.dir.GetByCode(r.Context(), corpCode)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			writeError(w, http.StatusNotFound, "회사를 찾을 수 없습니다")
			return
		}
		log.Printf("[COMPANY] 조회 실패 (%s): %v", corpCode, err)
		writeError(w, http.StatusInternalServerError, "조회 실패")
		return
	}
	writeJSON(w, http.StatusOK, company)
}

// HandlePopular answers GET /api/popular_companies. Curated names without a
// directory match are skipped, so the list can come back shorter than curated.
func (h *Handler) HandlePopular(w http.ResponseWriter, r *http.Request) {
	if h.dir == nil {
		writeError(w, http.StatusServiceUnavailable, "회사 디렉토리가 초기화되지 않았습니다")
		return
	}

	companies, err := h.dir.PopularCompanies(r.Context(), h.curated, intParam(r, "limit", 20))
	if err != nil {
		log.Printf("[COMPANY] 인기 회사 조회 실패: %v", err)
		writeError(w, http.StatusInternalServerError, "조회 실패")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"companies": companies})
}

// HandleListed answers GET /api/listed_companies?limit=.
func (h *Handler) HandleListed(w http.ResponseWriter, r *http.Request) {
	if h.dir == nil {
		writeError(w, http.StatusServiceUnavailable, "회사 디렉토리가 초기화되지 않았습니다")
		return
	}

	companies, err := h.dir.ListedCompanies(r.Context(), intParam(r, "limit", 1000))
	if err != nil {
		log.Printf("[COMPANY] 상장사 조회 실패: %v", err)
		writeError(w, http.StatusInternalServerError, "조회 실패")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"companies": companies,
		"count":     len(companies),
	})
}

// HandleHome renders the browse page with the curated popular companies and
// directory diagnostics. A missing directory renders the page with an empty
// list: degraded, not broken.
func (h *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	data := web.HomeData{}
	if h.dir != nil {
		popular, err := h.dir.PopularCompanies(r.Context(), h.curated, 20)
		if err != nil {
			log.Printf("[COMPANY] 인기 회사 조회 실패: %v", err)
		} else {
			data.Popular = popular
		}
		if n, err := h.dir.Count(r.Context()); err == nil {
			data.TotalCount = n
		}
		if n, err := h.dir.ListedCount(r.Context()); err == nil {
			data.ListedCount = n
		}
	}
	h.pages.RenderHome(w, data)
}

// HandleCompanyPage renders the company detail page.
func (h *Handler) HandleCompanyPage(w http.ResponseWriter, r *http.Request) {
	if h.dir == nil {
		http.Error(w, "회사 디렉토리가 초기화되지 않았습니다", http.StatusServiceUnavailable)
		return
	}

	corpCode := r.PathValue("corpCode")
	company, err := h.dir.GetByCode(r.Context(), corpCode)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			http.Error(w, "회사를 찾을 수 없습니다", http.StatusNotFound)
			return
		}
		http.Error(w, "조회 실패", http.StatusInternalServerError)
		return
	}
	h.pages.RenderCompany(w, web.CompanyData{Company: *company})
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
