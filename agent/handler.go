package agent

import (
	"encoding/json"
	"net/http"
	"time"

	"finscraper/cache"

	"github.com/gorilla/mux"
)

// ScrapeHandler serves GET /scrape/{name}: the full fallback-extracted metric
// set for a named entity. Results are memoized briefly since each record
// costs seven search + inference round trips.
func ScrapeHandler(extractor *Extractor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := mux.Vars(r)["name"]

		data, err := cache.Memoize("scrape:"+name, 15*time.Minute, func() (FinancialData, error) {
			return extractor.ExtractAll(r.Context(), name), nil
		})
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(data)
	}
}
