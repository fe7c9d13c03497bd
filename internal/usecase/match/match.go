package usecase_match

import (
	"context"
	"errors"
	"log/slog"

	"github.com/humanbelnik/kinoswap/matchclient/internal/infra/matchapi"
	"github.com/humanbelnik/kinoswap/matchclient/internal/joincode"
	"github.com/humanbelnik/kinoswap/matchclient/internal/model"
)

var (
	ErrSoloSessionNotCreated = errors.New("Failed to create solo session")
	ErrGroupSessionNotFound  = errors.New("no active session for this group")
)

//go:generate mockery --name=SessionRepository --output=./mocks/repository --filename=repository.go
type SessionRepository interface {
	CreateSession(ctx context.Context, groupID *int, token string) (model.Session, error)
	JoinSession(ctx context.Context, sessionID model.ID, genres []string, token string) error
	StartSession(ctx context.Context, sessionID model.ID, token string) error
	EndSession(ctx context.Context, sessionID model.ID, token string) error
	GetGroupSession(ctx context.Context, groupID int, token string) (model.Session, error)
}

//go:generate mockery --name=CredentialProvider --output=./mocks/credentials --filename=credentials.go
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

type Usecase struct {
	repo        SessionRepository
	credentials CredentialProvider
	logger      *slog.Logger
}

func New(repo SessionRepository, credentials CredentialProvider) *Usecase {
	return &Usecase{
		repo:        repo,
		credentials: credentials,
		logger:      slog.Default(),
	}
}

// CreateSolo creates a session without a group, joins it and starts matching
// right away. Each step runs only after the previous one succeeded.
func (u *Usecase) CreateSolo(ctx context.Context, genres []string) (model.Session, error) {
	token, err := u.token(ctx)
	if err != nil {
		return model.Session{}, err
	}

	session, err := u.repo.CreateSession(ctx, nil, token)
	if err != nil {
		u.logger.Error("create solo session", "error", err)
		return model.Session{}, err
	}
	if session.ID.IsEmpty() {
		u.logger.Error("create solo session", "error", ErrSoloSessionNotCreated)
		return model.Session{}, ErrSoloSessionNotCreated
	}

	if err := u.repo.JoinSession(ctx, session.ID, genres, token); err != nil {
		u.logger.Error("join solo session", "session_id", session.ID, "error", err)
		return model.Session{}, err
	}
	if err := u.repo.StartSession(ctx, session.ID, token); err != nil {
		u.logger.Error("start solo session", "session_id", session.ID, "error", err)
		return model.Session{}, err
	}

	u.logger.Info("solo session started", "session_id", session.ID)
	return session, nil
}

// CreateGroup opens a session for groupID and joins it as its owner.
func (u *Usecase) CreateGroup(ctx context.Context, groupID int, genres []string) (model.Session, error) {
	token, err := u.token(ctx)
	if err != nil {
		return model.Session{}, err
	}

	session, err := u.repo.CreateSession(ctx, &groupID, token)
	if err != nil {
		u.logger.Error("create group session", "group_id", groupID, "error", err)
		return model.Session{}, err
	}
	if session.ID.IsEmpty() {
		return model.Session{}, ErrGroupSessionNotFound
	}

	if err := u.repo.JoinSession(ctx, session.ID, genres, token); err != nil {
		u.logger.Error("join group session", "session_id", session.ID, "error", err)
		return model.Session{}, err
	}

	u.logger.Info("group session created", "session_id", session.ID, "group_id", groupID)
	return session, nil
}

// JoinByCode resolves a shared join code to the group's active session and
// joins it.
func (u *Usecase) JoinByCode(ctx context.Context, code int, genres []string) (model.Session, error) {
	groupID, err := joincode.Decode(code)
	if err != nil {
		return model.Session{}, err
	}

	token, err := u.token(ctx)
	if err != nil {
		return model.Session{}, err
	}

	session, err := u.repo.GetGroupSession(ctx, groupID, token)
	if err != nil {
		return model.Session{}, err
	}
	if session.ID.IsEmpty() || session.Status.PastVoting() {
		return model.Session{}, ErrGroupSessionNotFound
	}

	if err := u.repo.JoinSession(ctx, session.ID, genres, token); err != nil {
		u.logger.Error("join session by code", "session_id", session.ID, "error", err)
		return model.Session{}, err
	}
	return session, nil
}

func (u *Usecase) Join(ctx context.Context, sessionID model.ID, genres []string) error {
	token, err := u.token(ctx)
	if err != nil {
		return err
	}
	return u.repo.JoinSession(ctx, sessionID, genres, token)
}

// Start is accepted by the server from the session owner only.
func (u *Usecase) Start(ctx context.Context, sessionID model.ID) error {
	token, err := u.token(ctx)
	if err != nil {
		return err
	}
	if err := u.repo.StartSession(ctx, sessionID, token); err != nil {
		u.logger.Error("start session", "session_id", sessionID, "error", err)
		return err
	}
	return nil
}

// End is accepted by the server from the session owner only.
func (u *Usecase) End(ctx context.Context, sessionID model.ID) error {
	token, err := u.token(ctx)
	if err != nil {
		return err
	}
	if err := u.repo.EndSession(ctx, sessionID, token); err != nil {
		u.logger.Error("end session", "session_id", sessionID, "error", err)
		return err
	}
	return nil
}

func (u *Usecase) token(ctx context.Context) (string, error) {
	token, err := u.credentials.Token(ctx)
	if err != nil {
		return "", errors.Join(matchapi.ErrMissingToken, err)
	}
	if token == "" {
		return "", matchapi.ErrMissingToken
	}
	return token, nil
}
