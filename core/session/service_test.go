package session_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openswad/swad/core"
	"github.com/openswad/swad/core/session"
	inmemdb "github.com/openswad/swad/storage/database/inmem"
)

var idRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{43}$`)

func newService(timeout time.Duration) *session.Service {
	conf := &core.Config{}
	conf.Session.Timeout = timeout
	return session.NewService(inmemdb.NewSessionRepository(inmemdb.NewDB()), conf)
}

func TestService_Open(t *testing.T) {
	svc := newService(time.Hour)
	ctx := context.Background()

	s1, err := svc.Open(ctx, 7, session.RoleStudent)
	require.NoError(t, err)
	s2, err := svc.Open(ctx, 7, session.RoleStudent)
	require.NoError(t, err)

	assert.Regexp(t, idRegex, s1.ID)
	assert.Len(t, s1.ID, session.IDLen)
	assert.NotEqual(t, s1.ID, s2.ID)
	assert.Equal(t, int64(7), s1.UserCode)
	assert.Equal(t, session.NoHierarchy, s1.Hierarchy())
	assert.Equal(t, time.UTC, s1.CreatedAt.Location())
}

func TestService_Resolve(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2020, 3, 1, 10, 0, 0, 0, time.UTC)
	now := start
	defer session.SetNow(func() time.Time { return now })()

	svc := newService(time.Hour)
	s, err := svc.Open(ctx, 1, session.RoleTeacher)
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      string
		after   time.Duration
		wantErr error
	}{
		{name: "unknown", id: "nope", wantErr: session.ErrNotFound},
		{name: "unknown with valid length", id: "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", wantErr: session.ErrNotFound},
		{name: "fresh", id: s.ID, after: 30 * time.Minute},
		{name: "refreshed by the previous lookup", id: s.ID, after: 50 * time.Minute},
		{name: "idle too long", id: s.ID, after: 61 * time.Minute, wantErr: session.ErrExpired},
		{name: "removed once expired", id: s.ID, wantErr: session.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now = now.Add(tt.after)
			got, err := svc.Resolve(ctx, tt.id)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, now, got.LastRefresh)
			assert.Equal(t, start, got.CreatedAt)
		})
	}
}

func TestService_Move(t *testing.T) {
	ctx := context.Background()
	svc := newService(time.Hour)
	s, err := svc.Open(ctx, 1, session.RoleUser)
	require.NoError(t, err)

	h := session.Hierarchy{Country: 34, Institution: 2, Centre: -1, Degree: -1, Course: 9}
	_, err = svc.Move(ctx, s, h)
	require.NoError(t, err)

	got, err := svc.Resolve(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, h, got.Hierarchy())
}

func TestService_CloseAndPurge(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2020, 3, 1, 10, 0, 0, 0, time.UTC)
	defer session.SetNow(func() time.Time { return now })()

	svc := newService(time.Hour)
	old, err := svc.Open(ctx, 1, session.RoleUser)
	require.NoError(t, err)
	now = now.Add(2 * time.Hour)
	live, err := svc.Open(ctx, 2, session.RoleUser)
	require.NoError(t, err)
	closed, err := svc.Open(ctx, 3, session.RoleUser)
	require.NoError(t, err)

	require.NoError(t, svc.Close(ctx, closed.ID))
	n, err := svc.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = svc.Resolve(ctx, old.ID)
	assert.Equal(t, session.ErrNotFound, err)
	_, err = svc.Resolve(ctx, closed.ID)
	assert.Equal(t, session.ErrNotFound, err)
	_, err = svc.Resolve(ctx, live.ID)
	assert.NoError(t, err)
}

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	s := session.Session{LastRefresh: now.Add(-2 * time.Hour)}
	assert.True(t, s.Expired(now, time.Hour))
	assert.False(t, s.Expired(now, 3*time.Hour))
	assert.False(t, s.Expired(now, 0), "no timeout")
	assert.Equal(t, "teacher", session.RoleName(session.RoleTeacher))
	assert.Equal(t, "unknown", session.RoleName(42))
}
