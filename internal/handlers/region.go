package handlers

import (
	"net/http"

	"installations-bknd/internal/features"
	"installations-bknd/internal/models"
)

// GetRegions returns the region catalogue and the "no filter" selector.
func GetRegions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"regions": models.Regions,
		"count":   len(models.Regions),
		"all":     features.AllRegions,
	})
}
