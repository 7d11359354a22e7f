package main

import (
	"net/http"
	"os"

	"finscraper/agent"
	"finscraper/browser"
	"finscraper/cache"
	"finscraper/config"
	"finscraper/exchange"
	"finscraper/finance"
	"finscraper/llm"
	"finscraper/search"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/phuslu/log"
)

func main() {
	cfg := config.Load()

	log.DefaultLogger = log.Logger{
		Level:      cfg.LogLevel(),
		TimeFormat: "2006-01-02 15:04:05",
		Writer:     &log.ConsoleWriter{ColorOutput: true},
	}

	cache.Init(cfg.RedisAddr)

	fetcher := browser.NewClient(cfg.NavTimeout, cfg.Headless)
	financeSvc := finance.NewService(fetcher)
	resolver := exchange.NewResolver(fetcher)
	model := llm.New(llm.Config{
		APIKey: cfg.AnthropicAPIKey,
		Model:  cfg.AnthropicModel,
	})
	extractor := agent.New(search.NewClient(), model, fetcher)

	router := mux.NewRouter()
	router.HandleFunc("/health", healthHandler).Methods("GET")
	router.HandleFunc("/finance/overview/{id}", finance.OverviewHandler(financeSvc)).Methods("GET")
	router.HandleFunc("/finance/price/{id}", finance.PriceHandler(financeSvc)).Methods("GET")
	router.HandleFunc("/finance/financials/{id}", finance.FinancialsHandler(financeSvc)).Methods("GET")
	router.HandleFunc("/finance/{id}", finance.RecordHandler(financeSvc)).Methods("GET")
	router.HandleFunc("/exchange/{from}/{to}", exchange.RateHandler(resolver)).Methods("GET")
	router.HandleFunc("/scrape/{name}", agent.ScrapeHandler(extractor)).Methods("GET")

	handler := handlers.CORS()(handlers.LoggingHandler(os.Stdout, router))

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server is running")
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
