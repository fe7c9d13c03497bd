package matchapi

import "github.com/humanbelnik/kinoswap/matchclient/internal/model"

type createSessionRequest struct {
	GroupID *int `json:"group_id"`
}

type createSessionResponse struct {
	Msg       string         `json:"msg"`
	SessionID model.ID       `json:"session_id"`
	Session   *model.Session `json:"session"`
}

type joinSessionRequest struct {
	SessionID model.ID `json:"session_id"`
	Genres    []string `json:"genres"`
}

type sessionRequest struct {
	SessionID model.ID `json:"session_id"`
}

type submitVotesRequest struct {
	SessionID model.ID    `json:"session_id"`
	Votes     model.Votes `json:"votes"`
}

type sessionEnvelope struct {
	Msg     string         `json:"msg"`
	Session *model.Session `json:"session"`
}
