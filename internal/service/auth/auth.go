package service_auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
)

var ErrInternal = errors.New("internal error")

// TokenStore persists the bearer token between runs.
//
//go:generate mockery --name=TokenStore --output=./mocks/store --filename=store.go
type TokenStore interface {
	Set(ctx context.Context, token string) error
	Get(ctx context.Context) (string, error)
	Delete(ctx context.Context) error
}

// Provider hands out the bearer token of the signed in user. Token returns
// an empty string, not an error, when nobody is signed in.
type Provider struct {
	store  TokenStore
	logger *slog.Logger
}

func New(store TokenStore) *Provider {
	return &Provider{
		store:  store,
		logger: slog.Default(),
	}
}

func (p *Provider) Token(ctx context.Context) (string, error) {
	t, err := p.store.Get(ctx)
	if err != nil {
		p.logger.Error("read token", "error", err)
		return "", errors.Join(ErrInternal, err)
	}
	return t, nil
}

func (p *Provider) SetToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return p.ClearToken(ctx)
	}
	if err := p.store.Set(ctx, token); err != nil {
		return errors.Join(ErrInternal, err)
	}
	p.logger.Info("token stored")
	return nil
}

func (p *Provider) ClearToken(ctx context.Context) error {
	if err := p.store.Delete(ctx); err != nil {
		return errors.Join(ErrInternal, err)
	}
	p.logger.Info("token cleared")
	return nil
}

// Memory keeps the token for the lifetime of the process.
type Memory struct {
	mu    sync.RWMutex
	token string
}

func NewMemory(initial string) *Memory {
	return &Memory{token: initial}
}

func (m *Memory) Set(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *Memory) Get(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, nil
}

func (m *Memory) Delete(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
