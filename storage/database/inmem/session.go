package inmemdb

import (
	"context"
	"time"

	"github.com/openswad/swad/core/session"
)

type sessionRepository struct {
	db *sessionTable
}

func NewSessionRepository(db *DB) session.Repository {
	return &sessionRepository{db: db.session}
}

func (repo *sessionRepository) CreateSession(_ context.Context, s session.Session) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.table[s.ID] = &s
	return nil
}

func (repo *sessionRepository) GetSession(_ context.Context, id string) (session.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return session.Session{}, session.ErrNotFound
}

func (repo *sessionRepository) TouchSession(_ context.Context, s session.Session) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	old, ok := repo.db.table[s.ID]
	if !ok {
		return session.ErrNotFound
	}
	old.SetHierarchy(s.Hierarchy())
	old.LastRefresh = s.LastRefresh
	return nil
}

func (repo *sessionRepository) DeleteSession(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	delete(repo.db.table, id)
	return nil
}

func (repo *sessionRepository) DeleteExpiredSessions(_ context.Context, before time.Time) (int64, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var n int64
	for id, s := range repo.db.table {
		if s.LastRefresh.Before(before) {
			delete(repo.db.table, id)
			n++
		}
	}
	return n, nil
}
