package http_common

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/humanbelnik/kinoswap/matchclient/internal/infra/matchapi"
	"github.com/humanbelnik/kinoswap/matchclient/internal/joincode"
	usecase_match "github.com/humanbelnik/kinoswap/matchclient/internal/usecase/match"
	usecase_swipe "github.com/humanbelnik/kinoswap/matchclient/internal/usecase/swipe"
)

var ErrNotFound = errors.New("not found")

type ErrorResponse struct {
	Message string `json:"message"`
	Kind    string `json:"kind,omitempty"`
}

// StatusOf maps a domain error onto the HTTP status the bridge answers with.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, usecase_match.ErrGroupSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase_swipe.ErrSubmissionInFlight),
		errors.Is(err, usecase_swipe.ErrNotVoting),
		errors.Is(err, usecase_swipe.ErrNothingToRetry),
		errors.Is(err, usecase_swipe.ErrAlreadyStarted),
		errors.Is(err, usecase_swipe.ErrNotStarted),
		errors.Is(err, usecase_swipe.ErrClosed):
		return http.StatusConflict
	case errors.Is(err, joincode.ErrInvalidCode):
		return http.StatusBadRequest
	}

	switch matchapi.KindOf(err) {
	case matchapi.KindAuth:
		return http.StatusUnauthorized
	case matchapi.KindValidation:
		return http.StatusBadRequest
	case matchapi.KindServer:
		return http.StatusBadGateway
	case matchapi.KindNetwork, matchapi.KindTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func Abort(ctx *gin.Context, logger *slog.Logger, msg string, err error) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, slog.String("error", err.Error()))
	} else {
		logger.Warn(msg, slog.String("error", err.Error()))
	}

	resp := ErrorResponse{Message: err.Error()}
	var apiErr *matchapi.Error
	if errors.As(err, &apiErr) {
		resp.Message = apiErr.Message
		resp.Kind = apiErr.Kind.String()
	}
	ctx.AbortWithStatusJSON(status, resp)
}

func BadRequest(ctx *gin.Context, msg string) {
	ctx.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Message: msg})
}
