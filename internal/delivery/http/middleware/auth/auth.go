package http_auth_middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/kinoswap/matchclient/internal/delivery/http/common"
)

type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type Middleware struct {
	tokens TokenSource
	logger *slog.Logger
}

func New(tokens TokenSource) *Middleware {
	return &Middleware{
		tokens: tokens,
		logger: slog.Default(),
	}
}

// TokenRequired rejects requests while no bearer token is stored, before
// they reach the backend.
func (m *Middleware) TokenRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		t, err := m.tokens.Token(ctx.Request.Context())
		if err != nil {
			m.logger.Error("token lookup failed", slog.String("error", err.Error()))
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, http_common.ErrorResponse{
				Message: "internal error",
			})
			return
		}
		if t == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, http_common.ErrorResponse{
				Message: "no bearer token set, PUT /auth/token first",
				Kind:    "auth",
			})
			return
		}
		ctx.Next()
	}
}
