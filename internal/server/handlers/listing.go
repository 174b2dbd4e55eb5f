// internal/server/handlers/listing.go

package handlers

import (
	"net/http"

	"github.com/BrownBean2017/SpotShare-MVP/internal/service/session"
)

// GetDraft returns the host form
func GetDraft(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, SessionFrom(r.Context()).Draft())
}

// UpdateDraft applies a partial update to the host form
func UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var patch session.DraftPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	draft, err := SessionFrom(r.Context()).UpdateDraft(patch)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, draft)
}

// SuggestPrice fills the draft's hourly rate from the assistant
func SuggestPrice(w http.ResponseWriter, r *http.Request) {
	price, err := SessionFrom(r.Context()).SuggestPrice(r.Context())
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]float64{"pricePerHour": price})
}

// GenerateDescription fills the draft's description from the assistant
func GenerateDescription(w http.ResponseWriter, r *http.Request) {
	desc, err := SessionFrom(r.Context()).GenerateDescription(r.Context())
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"description": desc})
}

// PublishListing turns the draft into a live spot
func PublishListing(w http.ResponseWriter, r *http.Request) {
	sp, err := SessionFrom(r.Context()).PublishListing()
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, sp)
}
