package http_auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/kinoswap/matchclient/internal/delivery/http/common"
)

type TokenSetter interface {
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

type Controller struct {
	tokens TokenSetter
	logger *slog.Logger
}

func New(tokens TokenSetter) *Controller {
	return &Controller{
		tokens: tokens,
		logger: slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.PUT("/token", c.setToken)
		auth.DELETE("/token", c.clearToken)
	}
}

type SetTokenRequestDTO struct {
	Token string `json:"token" binding:"required"`
}

// SetToken stores the bearer token used for every backend call
// @Summary Set bearer token
// @Tags Auth
// @Accept json
// @Param request body SetTokenRequestDTO true "Token"
// @Success 204
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /auth/token [put]
func (c *Controller) setToken(ctx *gin.Context) {
	var req SetTokenRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		http_common.BadRequest(ctx, "token is required")
		return
	}

	if err := c.tokens.SetToken(ctx.Request.Context(), req.Token); err != nil {
		http_common.Abort(ctx, c.logger, "failed to store token", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ClearToken signs the bridge out
// @Summary Clear bearer token
// @Tags Auth
// @Success 204
// @Failure 500 {object} http_common.ErrorResponse
// @Router /auth/token [delete]
func (c *Controller) clearToken(ctx *gin.Context) {
	if err := c.tokens.ClearToken(ctx.Request.Context()); err != nil {
		http_common.Abort(ctx, c.logger, "failed to clear token", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
