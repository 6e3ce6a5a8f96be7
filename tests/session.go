package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openswad/swad/core/session"
)

// CheckSessionRepository checks the behaviour every session.Repository must share.
func CheckSessionRepository(t *testing.T, repo session.Repository) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	newSession := func(id string, lastRefresh time.Time) session.Session {
		s := session.Session{ID: id, UserCode: 7, Role: session.RoleStudent, CreatedAt: now, LastRefresh: lastRefresh}
		s.SetHierarchy(session.NoHierarchy)
		require.NoError(t, repo.CreateSession(ctx, s))
		return s
	}
	fresh := newSession("fresh-"+strings.Repeat("0", session.IDLen-6), now)
	stale := newSession("stale-"+strings.Repeat("0", session.IDLen-6), now.Add(-3*time.Hour))

	t.Run("get", func(t *testing.T) {
		got, err := repo.GetSession(ctx, fresh.ID)
		require.NoError(t, err)
		assert.Equal(t, fresh, got)

		_, err = repo.GetSession(ctx, "missing")
		assert.Equal(t, session.ErrNotFound, err)
	})

	t.Run("touch", func(t *testing.T) {
		moved := fresh
		moved.Country, moved.Course = 34, 19
		moved.LastRefresh = now.Add(time.Minute)
		require.NoError(t, repo.TouchSession(ctx, moved))

		got, err := repo.GetSession(ctx, fresh.ID)
		require.NoError(t, err)
		assert.Equal(t, moved, got)

		missing := moved
		missing.ID = "missing"
		assert.Equal(t, session.ErrNotFound, repo.TouchSession(ctx, missing))
	})

	t.Run("delete expired", func(t *testing.T) {
		n, err := repo.DeleteExpiredSessions(ctx, now.Add(-time.Hour))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		_, err = repo.GetSession(ctx, stale.ID)
		assert.Equal(t, session.ErrNotFound, err)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteSession(ctx, fresh.ID))
		require.NoError(t, repo.DeleteSession(ctx, fresh.ID))
		_, err := repo.GetSession(ctx, fresh.ID)
		assert.Equal(t, session.ErrNotFound, err)
	})
}
