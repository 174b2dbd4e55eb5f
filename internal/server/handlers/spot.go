// internal/server/handlers/spot.go

package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/BrownBean2017/SpotShare-MVP/internal/service/session"
)

// ListSpots returns the filtered spot list with recommendation reasons
func ListSpots(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, SessionFrom(r.Context()).VisibleSpots())
}

// GetSpot returns a single spot
func GetSpot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sp, ok := SessionFrom(r.Context()).Spot(id)
	if !ok {
		respondWithDomainError(w, session.ErrSpotNotFound)
		return
	}

	respondWithJSON(w, http.StatusOK, sp)
}

// GetMap returns the price markers of the simulated map
func GetMap(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, SessionFrom(r.Context()).MapMarkers())
}

// Search runs a natural-language spot search
func Search(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s := SessionFrom(r.Context())
	recs, err := s.Search(r.Context(), strings.TrimSpace(req.Query))
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": recs,
		"spots":           s.VisibleSpots(),
	})
}

// SelectSpot opens the booking modal for a spot
func SelectSpot(w http.ResponseWriter, r *http.Request) {
	s := SessionFrom(r.Context())

	sp, err := s.SelectSpot(chi.URLParam(r, "id"))
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	state := s.Snapshot()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"spot":         sp,
		"bookingHours": state.BookingHours,
		"total":        state.SelectedTotal,
	})
}

// ClearSelection closes the booking modal
func ClearSelection(w http.ResponseWriter, r *http.Request) {
	SessionFrom(r.Context()).ClearSelection()
	w.WriteHeader(http.StatusNoContent)
}
