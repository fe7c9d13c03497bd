// Package liveness provides a token that asynchronous callbacks check before
// touching state owned by something that may already be torn down.
package liveness

import (
	"context"
	"sync"
)

type Token struct {
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func New() *Token {
	return FromContext(context.Background())
}

// FromContext derives a token that also dies with parent.
func FromContext(parent context.Context) *Token {
	ctx, cancel := context.WithCancel(parent)
	return &Token{ctx: ctx, cancel: cancel}
}

func (t *Token) Alive() bool {
	if t == nil {
		return false
	}
	return t.ctx.Err() == nil
}

// Kill is idempotent. It reports whether this call was the one that killed
// the token.
func (t *Token) Kill() bool {
	if t == nil {
		return false
	}
	killed := false
	t.once.Do(func() {
		t.cancel()
		killed = true
	})
	return killed
}

func (t *Token) Context() context.Context {
	return t.ctx
}

func (t *Token) Done() <-chan struct{} {
	return t.ctx.Done()
}

// Guard runs fn only while the token is alive.
func (t *Token) Guard(fn func()) bool {
	if !t.Alive() {
		return false
	}
	fn()
	return true
}
