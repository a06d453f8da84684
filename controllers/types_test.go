package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/talash/api-go/services"
)

func TestRespondErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err  error
		code int
	}{
		{services.ErrInvalidInput, http.StatusBadRequest},
		{services.ErrInvalidTransition, http.StatusBadRequest},
		{services.ErrUnauthenticated, http.StatusUnauthorized},
		{services.ErrIdentityMismatch, http.StatusUnauthorized},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrUploadFailed, http.StatusBadGateway},
		{services.ErrUpstreamTimeout, http.StatusGatewayTimeout},
		{errors.New("database exploded"), http.StatusInternalServerError},
		// Wrapped sentinels map the same as bare ones
		{fmt.Errorf("%w: found listing 7", services.ErrNotFound), http.StatusNotFound},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondError(c, tt.err)
		assert.Equal(t, tt.code, w.Code, tt.err.Error())
	}
}
