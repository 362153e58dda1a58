package handlers

import (
	"log"
	"net/http"

	"farmroute-backend/pkg/utils"
)

// CacheStatsReporter exposes hit/miss counters of an in-process cache
type CacheStatsReporter interface {
	GetStats() map[string]interface{}
}

// GeocodeCacheStats handles GET /api/manager/diagnostics/geocode-cache.
// cache is nil when caching is disabled.
func GeocodeCacheStats(cache CacheStatsReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cache == nil {
			utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"enabled": false})
			return
		}

		stats := cache.GetStats()
		log.Printf("📊 Geocode cache: %v hits, %v misses (%v)", stats["hits"], stats["misses"], stats["hit_rate"])

		out := make(map[string]interface{}, len(stats)+1)
		for k, v := range stats {
			out[k] = v
		}
		out["enabled"] = true
		utils.RespondJSON(w, http.StatusOK, out)
	}
}
