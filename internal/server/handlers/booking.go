// internal/server/handlers/booking.go

package handlers

import (
	"net/http"
)

// ListBookings returns the session's bookings, most recent first
func ListBookings(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, SessionFrom(r.Context()).BookingViews())
}

// CreateBooking reserves a spot for the fixed booking duration
func CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SpotID string `json:"spotId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	s := SessionFrom(r.Context())
	b, err := s.ConfirmBooking(req.SpotID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"booking": b,
		"notice":  s.TakeNotice(),
	})
}
