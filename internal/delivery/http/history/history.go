package http_history

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/kinoswap/matchclient/internal/delivery/http/common"
	infra_sql_history "github.com/humanbelnik/kinoswap/matchclient/internal/infra/sql/history"
)

type Lister interface {
	List(ctx context.Context, limit int) ([]infra_sql_history.Record, error)
}

type Controller struct {
	history Lister
	logger  *slog.Logger
}

func New(history Lister) *Controller {
	return &Controller{
		history: history,
		logger:  slog.Default(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/history", c.list)
}

type ListResponseDTO struct {
	Matches []infra_sql_history.Record `json:"matches"`
}

// List returns the matches finished on this device, newest first
// @Summary Match history
// @Tags History
// @Produce json
// @Param limit query int false "Max records"
// @Success 200 {object} ListResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 500 {object} http_common.ErrorResponse
// @Router /history [get]
func (c *Controller) list(ctx *gin.Context) {
	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http_common.BadRequest(ctx, "limit must be a positive number")
			return
		}
		limit = n
	}

	records, err := c.history.List(ctx.Request.Context(), limit)
	if err != nil {
		http_common.Abort(ctx, c.logger, "failed to list history", err)
		return
	}
	ctx.JSON(http.StatusOK, ListResponseDTO{Matches: records})
}
