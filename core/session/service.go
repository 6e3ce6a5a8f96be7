package session

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/openswad/swad/core"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrExpired  = errors.New("session expired")
)

// IDLen is the length of a session id: 32 random bytes, unpadded base64url.
const IDLen = 43

var nowFunc = time.Now

type (
	Repository interface {
		CreateSession(ctx context.Context, s Session) error
		GetSession(ctx context.Context, id string) (Session, error)
		// TouchSession stores the hierarchy of s and its LastRefresh.
		TouchSession(ctx context.Context, s Session) error
		DeleteSession(ctx context.Context, id string) error
		// DeleteExpiredSessions removes sessions not refreshed since before, returning how many.
		DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error)
	}

	Service struct {
		repo    Repository
		timeout time.Duration
	}
)

func NewService(repo Repository, conf *core.Config) *Service {
	return &Service{repo: repo, timeout: conf.Session.Timeout}
}

func newID() (string, error) {
	var raw [32]byte
	for i := 0; i < 2; i++ {
		u, err := uuid.NewRandom()
		if err != nil {
			return "", err
		}
		copy(raw[i*16:], u[:])
	}
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}

// Open starts a session for userCode with no hierarchy selected.
func (svc *Service) Open(ctx context.Context, userCode int64, role int) (Session, error) {
	id, err := newID()
	if err != nil {
		return Session{}, err
	}
	now := nowFunc().UTC()
	s := Session{
		ID:          id,
		UserCode:    userCode,
		Role:        role,
		CreatedAt:   now,
		LastRefresh: now,
	}
	s.SetHierarchy(NoHierarchy)
	if err = svc.repo.CreateSession(ctx, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Resolve returns the live session id and refreshes it. An expired session is removed.
func (svc *Service) Resolve(ctx context.Context, id string) (Session, error) {
	if len(id) != IDLen {
		return Session{}, ErrNotFound
	}
	s, err := svc.repo.GetSession(ctx, id)
	if err != nil {
		return Session{}, err
	}
	now := nowFunc().UTC()
	if s.Expired(now, svc.timeout) {
		_ = svc.repo.DeleteSession(ctx, id)
		return Session{}, ErrExpired
	}
	s.LastRefresh = now
	if err = svc.repo.TouchSession(ctx, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Move stores h as the place s is browsing.
func (svc *Service) Move(ctx context.Context, s Session, h Hierarchy) (Session, error) {
	s.SetHierarchy(h)
	s.LastRefresh = nowFunc().UTC()
	if err := svc.repo.TouchSession(ctx, s); err != nil {
		return Session{}, err
	}
	return s, nil
}

func (svc *Service) Close(ctx context.Context, id string) error {
	return svc.repo.DeleteSession(ctx, id)
}

// Purge deletes every expired session.
func (svc *Service) Purge(ctx context.Context) (int64, error) {
	if svc.timeout <= 0 {
		return 0, nil
	}
	return svc.repo.DeleteExpiredSessions(ctx, nowFunc().UTC().Add(-svc.timeout))
}
