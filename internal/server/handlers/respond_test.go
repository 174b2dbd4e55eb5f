// internal/server/handlers/respond_test.go

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/spot"
	"github.com/BrownBean2017/SpotShare-MVP/internal/service/marketplace"
	"github.com/BrownBean2017/SpotShare-MVP/internal/service/session"
)

func TestRespondWithDomainError(t *testing.T) {
	tests := []struct {
		err     error
		code    int
		message string
	}{
		{marketplace.ErrMissingTitleOrAddress, http.StatusBadRequest, "Please fill in the title and address."},
		{marketplace.ErrAddressRequired, http.StatusBadRequest, "Enter an address first."},
		{fmt.Errorf("form: %w", marketplace.ErrInvalidPrice), http.StatusBadRequest, "Please enter an hourly rate above zero."},
		{spot.ErrUnknownType, http.StatusBadRequest, "Unknown parking type."},
		{session.ErrUnknownView, http.StatusBadRequest, "Unknown view."},
		{session.ErrSpotNotFound, http.StatusNotFound, "That spot is no longer available."},
		{session.ErrSuperseded, http.StatusConflict, "A newer request replaced this one."},
		{errors.New("disk on fire"), http.StatusInternalServerError, "Internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondWithDomainError(rec, tt.err)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body["error"])
		})
	}
}
