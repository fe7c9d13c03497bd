package http_session

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	http_common "github.com/humanbelnik/kinoswap/matchclient/internal/delivery/http/common"
	ws_session "github.com/humanbelnik/kinoswap/matchclient/internal/delivery/ws/session"
	"github.com/humanbelnik/kinoswap/matchclient/internal/joincode"
	"github.com/humanbelnik/kinoswap/matchclient/internal/model"
	usecase_match "github.com/humanbelnik/kinoswap/matchclient/internal/usecase/match"
	usecase_swipe "github.com/humanbelnik/kinoswap/matchclient/internal/usecase/swipe"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Controller struct {
	uc       *usecase_match.Usecase
	registry *usecase_swipe.Registry
	hub      *ws_session.Hub

	middlewares []gin.HandlerFunc
	logger      *slog.Logger
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithMiddleware guards the session routes; the websocket stream stays open.
func WithMiddleware(mw ...gin.HandlerFunc) ControllerOption {
	return func(c *Controller) {
		c.middlewares = append(c.middlewares, mw...)
	}
}

func New(
	uc *usecase_match.Usecase,
	registry *usecase_swipe.Registry,
	hub *ws_session.Hub,
	opts ...ControllerOption,
) *Controller {
	c := &Controller{
		uc:       uc,
		registry: registry,
		hub:      hub,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	sessions := router.Group("/sessions", c.middlewares...)
	{
		sessions.POST("/solo", c.createSolo)
		sessions.POST("", c.createGroup)
		sessions.POST("/join", c.join)
		sessions.GET("/:session_id", c.snapshot)
		sessions.POST("/:session_id/start", c.start)
		sessions.POST("/:session_id/votes", c.vote)
		sessions.POST("/:session_id/retry", c.retry)
		sessions.POST("/:session_id/refresh", c.refresh)
		sessions.POST("/:session_id/leave", c.leave)
		sessions.DELETE("/:session_id", c.end)
	}
	router.GET("/ws/sessions/:session_id", c.sessionWS)
}

type CreateSoloRequestDTO struct {
	Genres []string `json:"genres"`
}

type CreateGroupRequestDTO struct {
	GroupID int      `json:"group_id" binding:"required"`
	Genres  []string `json:"genres"`
}

type JoinRequestDTO struct {
	Code   string   `json:"code" binding:"required"`
	Genres []string `json:"genres"`
}

type VoteRequestDTO struct {
	Direction string `json:"direction" binding:"required" enums:"left,right"`
}

type SessionResponseDTO struct {
	Session  model.Session          `json:"session"`
	JoinCode *int                   `json:"join_code,omitempty"`
	Snapshot usecase_swipe.Snapshot `json:"snapshot"`
}

// CreateSolo creates, joins and starts a session for the signed in user alone
// @Summary Solo matching session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body CreateSoloRequestDTO false "Genre preferences"
// @Success 201 {object} SessionResponseDTO
// @Failure 401 {object} http_common.ErrorResponse
// @Failure 502 {object} http_common.ErrorResponse
// @Router /sessions/solo [post]
func (c *Controller) createSolo(ctx *gin.Context) {
	var req CreateSoloRequestDTO
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			http_common.BadRequest(ctx, "invalid request body")
			return
		}
	}

	session, err := c.uc.CreateSolo(ctx.Request.Context(), req.Genres)
	if err != nil {
		http_common.Abort(ctx, c.logger, "failed to create solo session", err)
		return
	}
	c.respondWatched(ctx, session, nil)
}

// CreateGroup opens a session for a group and joins it as owner
// @Summary Group matching session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body CreateGroupRequestDTO true "Group and genres"
// @Success 201 {object} SessionResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 401 {object} http_common.ErrorResponse
// @Router /sessions [post]
func (c *Controller) createGroup(ctx *gin.Context) {
	var req CreateGroupRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		http_common.BadRequest(ctx, "group_id is required")
		return
	}

	session, err := c.uc.CreateGroup(ctx.Request.Context(), req.GroupID, req.Genres)
	if err != nil {
		http_common.Abort(ctx, c.logger, "failed to create group session", err)
		return
	}
	code := joincode.Encode(req.GroupID)
	c.respondWatched(ctx, session, &code)
}

// Join enters the active session of a group by its shared code
// @Summary Join by code
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body JoinRequestDTO true "Join code and genres"
// @Success 201 {object} SessionResponseDTO
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Router /sessions/join [post]
func (c *Controller) join(ctx *gin.Context) {
	var req JoinRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		http_common.BadRequest(ctx, "code is required")
		return
	}
	code, err := joincode.Parse(req.Code)
	if err != nil {
		http_common.Abort(ctx, c.logger, "invalid join code", err)
		return
	}

	session, err := c.uc.JoinByCode(ctx.Request.Context(), code, req.Genres)
	if err != nil {
		http_common.Abort(ctx, c.logger, "failed to join session", err)
		return
	}
	c.respondWatched(ctx, session, &code)
}

func (c *Controller) respondWatched(ctx *gin.Context, session model.Session, code *int) {
	coordinator, created := c.registry.Acquire(session.ID)
	if created {
		if err := coordinator.Start(ctx.Request.Context()); err != nil {
			c.registry.Release(session.ID)
			http_common.Abort(ctx, c.logger, "failed to load session", err)
			return
		}
	}

	ctx.JSON(http.StatusCreated, SessionResponseDTO{
		Session:  session,
		JoinCode: code,
		Snapshot: coordinator.Snapshot(),
	})
}

// Snapshot returns the local voting state of a session
// @Summary Session state
// @Tags Sessions
// @Produce json
// @Param session_id path string true "Session id"
// @Success 200 {object} usecase_swipe.Snapshot
// @Failure 404 {object} http_common.ErrorResponse
// @Router /sessions/{session_id} [get]
func (c *Controller) snapshot(ctx *gin.Context) {
	coordinator, ok := c.coordinator(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, coordinator.Snapshot())
}

// Start begins matching; the server accepts it from the owner only
// @Summary Start session
// @Tags Sessions
// @Param session_id path string true "Session id"
// @Success 204
// @Failure 401 {object} http_common.ErrorResponse
// @Router /sessions/{session_id}/start [post]
func (c *Controller) start(ctx *gin.Context) {
	if err := c.uc.Start(ctx.Request.Context(), model.ID(ctx.Param("session_id"))); err != nil {
		http_common.Abort(ctx, c.logger, "failed to start session", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Vote swipes the current movie
// @Summary Vote
// @Tags Sessions
// @Accept json
// @Produce json
// @Param session_id path string true "Session id"
// @Param request body VoteRequestDTO true "Swipe direction"
// @Success 200 {object} usecase_swipe.Snapshot
// @Failure 400 {object} http_common.ErrorResponse
// @Failure 404 {object} http_common.ErrorResponse
// @Failure 409 {object} http_common.ErrorResponse
// @Router /sessions/{session_id}/votes [post]
func (c *Controller) vote(ctx *gin.Context) {
	var req VoteRequestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		http_common.BadRequest(ctx, "direction is required")
		return
	}
	direction, err := model.ParseDirection(req.Direction)
	if err != nil {
		http_common.BadRequest(ctx, err.Error())
		return
	}

	coordinator, ok := c.coordinator(ctx)
	if !ok {
		return
	}
	if err := coordinator.Vote(ctx.Request.Context(), direction); err != nil {
		http_common.Abort(ctx, c.logger, "failed to vote", err)
		return
	}
	ctx.JSON(http.StatusOK, coordinator.Snapshot())
}

// Retry resends the votes of a failed submission
// @Summary Retry submission
// @Tags Sessions
// @Produce json
// @Param session_id path string true "Session id"
// @Success 200 {object} usecase_swipe.Snapshot
// @Failure 409 {object} http_common.ErrorResponse
// @Router /sessions/{session_id}/retry [post]
func (c *Controller) retry(ctx *gin.Context) {
	coordinator, ok := c.coordinator(ctx)
	if !ok {
		return
	}
	if err := coordinator.RetrySubmit(ctx.Request.Context()); err != nil {
		http_common.Abort(ctx, c.logger, "failed to retry submission", err)
		return
	}
	ctx.JSON(http.StatusOK, coordinator.Snapshot())
}

// Refresh re-reads the session status from the server
// @Summary Refresh session status
// @Tags Sessions
// @Produce json
// @Param session_id path string true "Session id"
// @Success 200 {object} usecase_swipe.Snapshot
// @Failure 409 {object} http_common.ErrorResponse
// @Failure 504 {object} http_common.ErrorResponse
// @Router /sessions/{session_id}/refresh [post]
func (c *Controller) refresh(ctx *gin.Context) {
	coordinator, ok := c.coordinator(ctx)
	if !ok {
		return
	}
	if err := coordinator.Refresh(ctx.Request.Context()); err != nil {
		http_common.Abort(ctx, c.logger, "failed to refresh session", err)
		return
	}
	ctx.JSON(http.StatusOK, coordinator.Snapshot())
}

// Leave stops following a session locally
// @Summary Leave session
// @Tags Sessions
// @Param session_id path string true "Session id"
// @Success 204
// @Router /sessions/{session_id}/leave [post]
func (c *Controller) leave(ctx *gin.Context) {
	c.registry.Release(model.ID(ctx.Param("session_id")))
	ctx.Status(http.StatusNoContent)
}

// End terminates a session for every participant; owner only
// @Summary End session
// @Tags Sessions
// @Param session_id path string true "Session id"
// @Success 204
// @Failure 401 {object} http_common.ErrorResponse
// @Router /sessions/{session_id} [delete]
func (c *Controller) end(ctx *gin.Context) {
	if err := c.uc.End(ctx.Request.Context(), model.ID(ctx.Param("session_id"))); err != nil {
		http_common.Abort(ctx, c.logger, "failed to end session", err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (c *Controller) sessionWS(ctx *gin.Context) {
	coordinator, ok := c.coordinator(ctx)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.Error("failed to upgrade to websocket",
			slog.String("error", err.Error()),
		)
		return
	}

	client := ws_session.NewClient(conn, coordinator.SessionID())
	c.hub.RegisterClient(client)
	c.hub.Broadcast(coordinator.SessionID(), ws_session.Event{
		Type:    ws_session.EventSnapshot,
		Payload: coordinator.Snapshot(),
	})

	go c.hub.StartClientReading(client)
	go c.hub.StartClientWriting(client)
}

func (c *Controller) coordinator(ctx *gin.Context) (*usecase_swipe.Coordinator, bool) {
	id := model.ID(ctx.Param("session_id"))
	coordinator, ok := c.registry.Get(id)
	if !ok {
		http_common.Abort(ctx, c.logger, "session not watched", http_common.ErrNotFound)
		return nil, false
	}
	return coordinator, true
}
