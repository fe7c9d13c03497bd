package http_joincode

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/kinoswap/matchclient/internal/delivery/http/common"
	"github.com/humanbelnik/kinoswap/matchclient/internal/joincode"
)

type Controller struct{}

func New() *Controller {
	return &Controller{}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	codes := router.Group("/joincode")
	{
		codes.GET("/:group_id", c.encode)
		codes.GET("", c.decode)
	}
}

type CodeResponseDTO struct {
	GroupID int `json:"group_id"`
	Code    int `json:"code"`
}

// Encode returns the code a group owner shares with friends
// @Summary Join code for a group
// @Tags JoinCode
// @Param group_id path int true "Group id"
// @Success 200 {object} CodeResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Router /joincode/{group_id} [get]
func (c *Controller) encode(ctx *gin.Context) {
	groupID, err := strconv.Atoi(ctx.Param("group_id"))
	if err != nil {
		http_common.BadRequest(ctx, "group_id must be a number")
		return
	}
	ctx.JSON(http.StatusOK, CodeResponseDTO{GroupID: groupID, Code: joincode.Encode(groupID)})
}

// Decode resolves a shared code back to its group
// @Summary Group of a join code
// @Tags JoinCode
// @Param code query int true "Join code"
// @Success 200 {object} CodeResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Router /joincode [get]
func (c *Controller) decode(ctx *gin.Context) {
	raw := ctx.Query("code")
	groupID, err := joincode.Parse(raw)
	if err != nil {
		http_common.BadRequest(ctx, joincode.ErrInvalidCode.Error())
		return
	}
	code, _ := strconv.Atoi(strings.TrimSpace(raw))
	ctx.JSON(http.StatusOK, CodeResponseDTO{GroupID: groupID, Code: code})
}
