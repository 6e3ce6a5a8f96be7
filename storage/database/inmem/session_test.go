package inmemdb

import (
	"testing"

	testutil "github.com/openswad/swad/tests"
)

func TestSessionRepository(t *testing.T) {
	testutil.CheckSessionRepository(t, NewSessionRepository(NewDB()))
}
