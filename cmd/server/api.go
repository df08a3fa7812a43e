package main

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strings"

	"github.com/fruitcast/dashboard/charts"
	"github.com/fruitcast/dashboard/consts"
)

// apiKeyMiddleware requires the key as a bearer token or api_key query parameter.
// An empty key leaves the route open.
func apiKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			provided := r.URL.Query().Get(consts.APIKeyQueryParam)
			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, consts.AuthHeaderPrefix) {
				provided = strings.TrimPrefix(auth, consts.AuthHeaderPrefix)
			}
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func chartsJSONHandler(src charts.Source, style charts.Style) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := charts.ParseYear(r.URL.Query().Get(consts.YearParam))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, err := charts.ChartsJSON(src, year, style)
		if err != nil {
			log.Printf("Error building charts JSON: %v", err)
			http.Error(w, "Failed to build charts", http.StatusInternalServerError)
			return
		}
		if data == nil {
			http.Error(w, "No data", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}
}
