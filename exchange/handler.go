package exchange

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"finscraper/cache"

	"github.com/gorilla/mux"
)

var errRateNotFound = errors.New("exchange rate not found")

// RateHandler serves GET /exchange/{from}/{to}. Unknown rates return 404 and
// are never cached; resolved rates are memoized for an hour.
func RateHandler(resolver *Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		from, to := vars["from"], vars["to"]

		rate, err := cache.Memoize("exchange:"+from+":"+to, time.Hour, func() (float64, error) {
			resolved := resolver.Rate(r.Context(), from, to)
			if resolved == nil {
				return 0, errRateNotFound
			}
			return *resolved, nil
		})

		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"from": from, "to": to, "rate": rate})
	}
}
