package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/openswad/swad/core/session"
)

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) session.Repository {
	return &sessionRepository{db: db}
}

const sessionColumns = `id, user_code, role, country, institution, centre, degree, course, created_at, last_refresh`

func (repo *sessionRepository) CreateSession(ctx context.Context, s session.Session) error {
	q := `INSERT INTO session (` + sessionColumns + `)
		VALUES (:id, :user_code, :role, :country, :institution, :centre, :degree, :course, :created_at, :last_refresh)`
	if _, err := repo.db.NamedExecContext(ctx, q, s); err != nil {
		return errors.Wrap(err, "inserting session")
	}
	return nil
}

func (repo *sessionRepository) GetSession(ctx context.Context, id string) (session.Session, error) {
	var s session.Session
	err := repo.db.GetContext(ctx, &s, `SELECT `+sessionColumns+` FROM session WHERE id = $1`, id)
	switch {
	case err == sql.ErrNoRows:
		return session.Session{}, session.ErrNotFound
	case err != nil:
		return session.Session{}, errors.Wrap(err, "selecting session")
	}
	s.CreatedAt, s.LastRefresh = s.CreatedAt.UTC(), s.LastRefresh.UTC()
	return s, nil
}

func (repo *sessionRepository) TouchSession(ctx context.Context, s session.Session) error {
	q := `UPDATE session
		SET country = :country, institution = :institution, centre = :centre,
			degree = :degree, course = :course, last_refresh = :last_refresh
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, s)
	if err != nil {
		return errors.Wrap(err, "updating session")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return session.ErrNotFound
	}
	return nil
}

func (repo *sessionRepository) DeleteSession(ctx context.Context, id string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM session WHERE id = $1`, id); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return nil
}

func (repo *sessionRepository) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM session WHERE last_refresh < $1`, before)
	if err != nil {
		return 0, errors.Wrap(err, "deleting expired sessions")
	}
	return res.RowsAffected()
}
