// internal/server/handlers/respond.go

package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/spot"
	"github.com/BrownBean2017/SpotShare-MVP/internal/service/marketplace"
	"github.com/BrownBean2017/SpotShare-MVP/internal/service/session"
)

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper for error responses
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil && code >= 500 {
		log.Printf("HTTP %d: %s: %v", code, message, err)
	}

	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithDomainError maps session and validation errors to status codes
func respondWithDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrSpotNotFound):
		respondWithError(w, http.StatusNotFound, NoticeFor(err), nil)
	case errors.Is(err, session.ErrSuperseded):
		respondWithError(w, http.StatusConflict, NoticeFor(err), nil)
	case isValidationError(err):
		respondWithError(w, http.StatusBadRequest, NoticeFor(err), nil)
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, marketplace.ErrMissingTitleOrAddress) ||
		errors.Is(err, marketplace.ErrInvalidPrice) ||
		errors.Is(err, marketplace.ErrAddressRequired) ||
		errors.Is(err, session.ErrUnknownView) ||
		errors.Is(err, spot.ErrUnknownType)
}

// NoticeFor returns the message shown to the user for an error
func NoticeFor(err error) string {
	switch {
	case errors.Is(err, marketplace.ErrMissingTitleOrAddress):
		return "Please fill in the title and address."
	case errors.Is(err, marketplace.ErrAddressRequired):
		return "Enter an address first."
	case errors.Is(err, marketplace.ErrInvalidPrice):
		return "Please enter an hourly rate above zero."
	case errors.Is(err, session.ErrSpotNotFound):
		return "That spot is no longer available."
	case errors.Is(err, session.ErrUnknownView):
		return "Unknown view."
	case errors.Is(err, spot.ErrUnknownType):
		return "Unknown parking type."
	case errors.Is(err, session.ErrSuperseded):
		return "A newer request replaced this one."
	default:
		return "Something went wrong. Please try again."
	}
}

// decodeJSON reads a JSON request body into v
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
