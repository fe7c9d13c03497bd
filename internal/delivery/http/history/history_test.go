package http_history

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	infra_sql_history "github.com/humanbelnik/kinoswap/matchclient/internal/infra/sql/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listerFunc func(ctx context.Context, limit int) ([]infra_sql_history.Record, error)

func (f listerFunc) List(ctx context.Context, limit int) ([]infra_sql_history.Record, error) {
	return f(ctx, limit)
}

func serve(t *testing.T, l Lister, path string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	New(l).RegisterRoutes(router.Group("/api/v1"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestList(t *testing.T) {
	var gotLimit int
	l := listerFunc(func(_ context.Context, limit int) ([]infra_sql_history.Record, error) {
		gotLimit = limit
		return []infra_sql_history.Record{{ID: 1, SessionID: "42", Title: "Heat"}}, nil
	})

	w := serve(t, l, "/api/v1/history?limit=5")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, gotLimit)
	var resp ListResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "Heat", resp.Matches[0].Title)
}

func TestListErrors(t *testing.T) {
	failing := listerFunc(func(context.Context, int) ([]infra_sql_history.Record, error) {
		return nil, errors.New("disk full")
	})

	assert.Equal(t, http.StatusBadRequest, serve(t, failing, "/api/v1/history?limit=-1").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(t, failing, "/api/v1/history").Code)
}
