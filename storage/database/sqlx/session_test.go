package sqlxrepos

import (
	"testing"

	testutil "github.com/openswad/swad/tests"
)

func TestSessionRepository(t *testing.T) {
	db := testutil.PrepareDB(t)
	testutil.CheckSessionRepository(t, NewSessionRepository(db))
}
