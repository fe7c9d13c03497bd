package http_joincode

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoincodeRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	New().RegisterRoutes(router.Group("/api/v1"))

	testCases := []struct {
		name     string
		path     string
		status   int
		expected CodeResponseDTO
	}{
		{name: "encode", path: "/api/v1/joincode/5", status: http.StatusOK, expected: CodeResponseDTO{GroupID: 5, Code: 48}},
		{name: "decode", path: "/api/v1/joincode?code=48", status: http.StatusOK, expected: CodeResponseDTO{GroupID: 5, Code: 48}},
		{name: "bad group", path: "/api/v1/joincode/x", status: http.StatusBadRequest},
		{name: "bad code", path: "/api/v1/joincode?code=49", status: http.StatusBadRequest},
		{name: "missing code", path: "/api/v1/joincode", status: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

			require.Equal(t, tc.status, w.Code)
			if tc.status != http.StatusOK {
				return
			}
			var resp CodeResponseDTO
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.expected, resp)
		})
	}
}
