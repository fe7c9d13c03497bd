package http_auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	service_auth "github.com/humanbelnik/kinoswap/matchclient/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	provider := service_auth.New(service_auth.NewMemory(""))
	router := gin.New()
	New(provider).RegisterRoutes(router.Group("/api/v1"))

	do := func(method, body string) int {
		req := httptest.NewRequest(method, "/api/v1/auth/token", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusBadRequest, do(http.MethodPut, `{}`))

	require.Equal(t, http.StatusNoContent, do(http.MethodPut, `{"token":"Bearer abc"}`))
	token, err := provider.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	require.Equal(t, http.StatusNoContent, do(http.MethodDelete, ""))
	token, err = provider.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}
