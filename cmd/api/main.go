package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	analysisapi "dartlens/pkg/api/analysis"
	chartapi "dartlens/pkg/api/chart"
	"dartlens/pkg/api/company"
	"dartlens/pkg/api/config"
	"dartlens/pkg/api/financial"
	"dartlens/pkg/core/agent"
	coreanalysis "dartlens/pkg/core/analysis"
	"dartlens/pkg/core/calc"
	"dartlens/pkg/core/dart"
	"dartlens/pkg/core/directory"
	"dartlens/pkg/web"
)

const snapshotPath = "corpCodes.json"

func main() {
	// Load environment variables
	godotenv.Load()
	ctx := context.Background()

	// Model provider config
	var agentCfg agent.Config
	if configData, err := os.ReadFile("config/models.yaml"); err == nil {
		yaml.Unmarshal(configData, &agentCfg)
	}
	agentMgr := agent.NewManager(agentCfg)

	// DART client. Missing key leaves the financial endpoints disabled (503)
	// rather than aborting startup.
	var dartClient *dart.Client
	if key := os.Getenv("DART_API_KEY"); key != "" {
		dartClient = dart.NewClient(key)
	} else {
		log.Println("[WARNING] DART_API_KEY not set; financial endpoints disabled")
	}

	// Company directory. A failed database init likewise degrades instead of
	// crashing: search and detail endpoints answer 503.
	var store *directory.Store
	if pool, err := directory.NewPool(ctx, os.Getenv("DATABASE_URL")); err != nil {
		log.Printf("[WARNING] database unavailable, company directory disabled: %v", err)
	} else if err := directory.InitSchema(ctx, pool); err != nil {
		log.Printf("[WARNING] schema init failed, company directory disabled: %v", err)
		pool.Close()
	} else {
		store = directory.New(pool)
	}

	// Bootstrap the directory from a local snapshot if the table is empty.
	if store != nil {
		if n, err := store.Count(ctx); err == nil && n == 0 {
			if _, err := os.Stat(snapshotPath); err == nil {
				if err := store.LoadSnapshot(ctx, snapshotPath); err != nil {
					log.Printf("[WARNING] snapshot load failed: %v", err)
				}
			} else {
				log.Printf("[WARNING] company directory empty and no %s snapshot found (run corpsync)", snapshotPath)
			}
		}
	}

	// Account-synonym table, with the compiled-in default as fallback.
	synonyms, err := calc.LoadSynonyms("resources/synonyms.yaml")
	if err != nil {
		log.Printf("[WARNING] synonyms resource not loaded, using built-in table: %v", err)
		synonyms = calc.DefaultSynonyms()
	}

	// Curated popular-company list.
	curated, err := directory.LoadCuratedNames("resources/popular_companies.hjson")
	if err != nil {
		log.Printf("[WARNING] curated list not loaded, using built-in list: %v", err)
		curated = directory.DefaultCuratedNames
	}

	// Narrative analyzer. No model credential means the AI endpoints answer 503.
	var analyzer *coreanalysis.Analyzer
	var terms *coreanalysis.TermsExplainer
	if os.Getenv("GEMINI_API_KEY") != "" {
		analyzer = coreanalysis.NewAnalyzer(agentMgr.GetProvider)
		terms = coreanalysis.NewTermsExplainer(agentCfg.Model)
		log.Printf("[AGENT] active provider: %s", agentMgr.ActiveProvider())
	} else {
		log.Println("[WARNING] GEMINI_API_KEY not set; AI analysis endpoints disabled")
	}

	// A nil *dart.Client must stay a nil interface inside the handlers, so the
	// assignment is conditional per handler interface.
	var finFetcher financial.StatementFetcher
	var chartFetcher chartapi.StatementFetcher
	var analysisFetcher analysisapi.StatementFetcher
	if dartClient != nil {
		finFetcher = dartClient
		chartFetcher = dartClient
		analysisFetcher = dartClient
	}
	var companyDir company.Directory
	var analysisDir analysisapi.Directory
	if store != nil {
		companyDir = store
		analysisDir = store
	}

	pages := web.NewPages()
	companyHandler := company.NewHandler(companyDir, curated, pages)
	financialHandler := financial.NewHandler(finFetcher, synonyms)
	chartHandler := chartapi.NewHandler(chartFetcher, synonyms)
	analysisHandler := analysisapi.NewHandler(analysisDir, analysisFetcher, analyzer, terms, synonyms)
	configHandler := config.NewHandler(agentMgr)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/config", configHandler.HandleConfig)
	mux.HandleFunc("POST /api/config/switch", configHandler.HandleSwitch)
	mux.HandleFunc("GET /api/search_companies", companyHandler.HandleSearch)
	mux.HandleFunc("GET /api/company/{corpCode}", companyHandler.HandleDetail)
	mux.HandleFunc("GET /api/popular_companies", companyHandler.HandlePopular)
	mux.HandleFunc("GET /api/listed_companies", companyHandler.HandleListed)
	mux.HandleFunc("GET /api/financial/{corpCode}", financialHandler.HandleFinancial)
	mux.HandleFunc("GET /api/disclosures", financialHandler.HandleDisclosures)
	mux.HandleFunc("GET /api/financial_chart/{corpCode}", chartHandler.HandleTimeSeries)
	mux.HandleFunc("GET /api/financial_pie/{corpCode}", chartHandler.HandlePie)
	mux.HandleFunc("GET /api/balance_sheet_box/{corpCode}", chartHandler.HandleStructure)
	mux.HandleFunc("GET /api/financial_charts_batch/{corpCode}", chartHandler.HandleBatch)
	mux.HandleFunc("GET /api/ai_analysis/{corpCode}", analysisHandler.HandleAnalyze)
	mux.HandleFunc("GET /api/financial_terms", analysisHandler.HandleTerms)
	mux.HandleFunc("GET /company/{corpCode}", companyHandler.HandleCompanyPage)
	mux.HandleFunc("GET /{$}", companyHandler.HandleHome)

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	log.Printf("API server starting on %s...", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Printf("[FATAL] Server failed to start: %v", err)
		os.Exit(1)
	}
}
