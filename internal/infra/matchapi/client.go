package matchapi

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/humanbelnik/kinoswap/matchclient/internal/model"
)

const (
	pathCreateSession = "/match/session"
	pathJoinSession   = "/match/session/join"
	pathStartSession  = "/match/session/start"
	pathSessionStatus = "/match/session/status"
	pathSubmitVotes   = "/match/session/votes"
	pathEndSession    = "/match/session/end"
	pathGroupSession  = "/match/group/session"
)

const DefaultTimeout = 60 * time.Second

type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)

	return &Client{
		http:   httpClient,
		logger: slog.Default(),
	}
}

// CreateSession with a nil groupID asks for a solo session.
// A response without a session id yields a Session with an empty ID;
// deciding whether that is fatal is up to the caller.
func (c *Client) CreateSession(ctx context.Context, groupID *int, token string) (model.Session, error) {
	var resp createSessionResponse
	if err := c.do(ctx, resty.MethodPost, pathCreateSession, token, createSessionRequest{GroupID: groupID}, &resp); err != nil {
		return model.Session{}, err
	}

	var session model.Session
	if resp.Session != nil {
		session = *resp.Session
	}
	if !resp.SessionID.IsEmpty() {
		session.ID = resp.SessionID
	}
	return session, nil
}

func (c *Client) JoinSession(ctx context.Context, sessionID model.ID, genres []string, token string) error {
	if sessionID.IsEmpty() {
		return ErrNoSessionID
	}
	if genres == nil {
		genres = []string{}
	}

	return c.do(ctx, resty.MethodPost, pathJoinSession, token, joinSessionRequest{
		SessionID: sessionID,
		Genres:    genres,
	}, &sessionEnvelope{})
}

func (c *Client) StartSession(ctx context.Context, sessionID model.ID, token string) error {
	if sessionID.IsEmpty() {
		return ErrNoSessionID
	}
	return c.do(ctx, resty.MethodPost, pathStartSession, token, sessionRequest{SessionID: sessionID}, &sessionEnvelope{})
}

func (c *Client) GetSessionStatus(ctx context.Context, sessionID model.ID, token string) (model.Session, error) {
	if sessionID.IsEmpty() {
		return model.Session{}, ErrNoSessionID
	}

	var session model.Session
	req := c.request(ctx, token).
		SetQueryParam("session_id", sessionID.String()).
		SetResult(&session)
	if err := c.send(req, resty.MethodGet, pathSessionStatus); err != nil {
		return model.Session{}, err
	}
	if session.ID.IsEmpty() {
		session.ID = sessionID
	}
	return session, nil
}

// SubmitAllVotes sends the whole vote map in one request. The server rejects
// maps that do not cover every movie of the session.
func (c *Client) SubmitAllVotes(ctx context.Context, sessionID model.ID, votes model.Votes, token string) error {
	if sessionID.IsEmpty() {
		return ErrNoSessionID
	}
	if len(votes) == 0 {
		return ErrNoVotes
	}

	return c.do(ctx, resty.MethodPost, pathSubmitVotes, token, submitVotesRequest{
		SessionID: sessionID,
		Votes:     votes,
	}, &sessionEnvelope{})
}

func (c *Client) EndSession(ctx context.Context, sessionID model.ID, token string) error {
	if sessionID.IsEmpty() {
		return ErrNoSessionID
	}
	return c.do(ctx, resty.MethodPost, pathEndSession, token, sessionRequest{SessionID: sessionID}, &sessionEnvelope{})
}

// GetGroupSession returns the active (not finished) session of a group.
func (c *Client) GetGroupSession(ctx context.Context, groupID int, token string) (model.Session, error) {
	var session model.Session
	req := c.request(ctx, token).
		SetQueryParam("group_id", strconv.Itoa(groupID)).
		SetResult(&session)
	if err := c.send(req, resty.MethodGet, pathGroupSession); err != nil {
		return model.Session{}, err
	}
	return session, nil
}

func (c *Client) request(ctx context.Context, token string) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetAuthToken(token)
}

func (c *Client) do(ctx context.Context, method, path, token string, body any, result any) error {
	req := c.request(ctx, token).
		SetBody(body).
		SetResult(result)
	return c.send(req, method, path)
}

func (c *Client) send(req *resty.Request, method, path string) error {
	resp, err := req.Execute(method, path)

	failure, failed := FailureFromResty(resp, err)
	if !failed {
		return nil
	}

	apiErr := Classify(failure)
	c.logger.Debug("match api call failed",
		"method", method,
		"path", path,
		"kind", apiErr.Kind.String(),
		"status", apiErr.Status,
		"error", apiErr.Message)
	return apiErr
}
