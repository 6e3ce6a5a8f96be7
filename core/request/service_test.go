package request_test

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openswad/swad/core"
	"github.com/openswad/swad/core/param"
	"github.com/openswad/swad/core/request"
	"github.com/openswad/swad/core/session"
	"github.com/openswad/swad/services/metrics"
	inmemdb "github.com/openswad/swad/storage/database/inmem"
	testutil "github.com/openswad/swad/tests"
)

type fixture struct {
	svc      *request.Service
	sessions *session.Service
	metrics  *metrics.Metrics
	log      *testutil.Logger
}

func setup(t *testing.T) fixture {
	conf := testutil.Config(t.TempDir())
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)

	f := fixture{
		sessions: session.NewService(inmemdb.NewSessionRepository(inmemdb.NewDB()), conf),
		metrics:  metrics.New("test", prometheus.NewRegistry()),
		log:      &testutil.Logger{},
	}
	f.svc = request.NewService(conf, f.sessions, validate, translator, f.metrics, f.log)
	return f
}

func get(query string) param.Environment {
	return param.Environment{Method: "GET", QueryString: query, RemoteAddr: "127.0.0.1"}
}

func post(body string) (param.Environment, *strings.Reader) {
	env := param.Environment{
		Method:        "POST",
		ContentType:   "application/x-www-form-urlencoded",
		ContentLength: strconv.Itoa(len(body)),
	}
	return env, strings.NewReader(body)
}

func TestService_Load_guest(t *testing.T) {
	f := setup(t)
	req, err := f.svc.Load(context.Background(), get("act=12&crs=5&evil=1"), nil)
	require.NoError(t, err)
	defer req.Close()

	assert.True(t, req.IsGuest())
	assert.False(t, req.SessionExpired)
	assert.Equal(t, int64(12), req.Main.Action)
	assert.Equal(t, int64(5), req.Main.Course)
	assert.False(t, req.Has("evil"))
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.RequestsTotal.WithLabelValues("get", "success")))
}

func TestService_Load_session(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	s, err := f.sessions.Open(ctx, 42, session.RoleStudent)
	require.NoError(t, err)

	// first request selects a course
	req, err := f.svc.Load(ctx, get("act=1&ses="+s.ID+"&cty=34&crs=9"), nil)
	require.NoError(t, err)
	require.False(t, req.IsGuest())
	assert.Equal(t, int64(42), req.Session.UserCode)
	assert.Equal(t, int64(9), req.Session.Course)
	require.NoError(t, req.Close())

	// the next one carries no hierarchy and stays in the course
	env, body := post("act=2&ses=" + s.ID)
	req, err = f.svc.Load(ctx, env, body)
	require.NoError(t, err)
	defer req.Close()
	assert.Equal(t, int64(34), req.Main.Country)
	assert.Equal(t, int64(9), req.Main.Course)
	assert.Equal(t, int64(-1), req.Main.Institution)
	assert.Equal(t, 2.0, promtest.ToFloat64(f.metrics.SessionLookups.WithLabelValues("ok")))
}

func TestService_Load_staleSession(t *testing.T) {
	f := setup(t)
	ses := strings.Repeat("A", session.IDLen)

	req, err := f.svc.Load(context.Background(), get("act=1&ses="+ses+"&ins=3"), nil)
	require.NoError(t, err)
	defer req.Close()

	assert.True(t, req.IsGuest())
	assert.True(t, req.SessionExpired)
	assert.Empty(t, req.Main.Session)
	assert.Equal(t, int64(3), req.Main.Institution)
	assert.Len(t, f.log.Entries("debug"), 1)
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.SessionLookups.WithLabelValues("not_found")))
}

func TestService_Load_errors(t *testing.T) {
	f := setup(t)
	body := []byte("--x\r\nContent-Disposition: form-data; name=\"a\"\r\n\r\n1")
	multipartEnv := param.Environment{
		Method:        "POST",
		ContentType:   "multipart/form-data; boundary=x",
		ContentLength: strconv.Itoa(len(body)),
	}

	_, err := f.svc.Load(context.Background(), multipartEnv, bytes.NewReader(body))
	require.Error(t, err)
	assert.Equal(t, param.KindBoundaryNotFound, param.KindOf(err))
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.RequestErrors.WithLabelValues("multipart", "boundary_not_found")))

	_, err = f.svc.Load(context.Background(), get("ses=not/url/safe"), nil)
	require.Error(t, err)
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	require.True(t, ok, "want a validation error, got %v", err)
	assert.Equal(t, []core.FieldError{{Field: "ses", Error: "ses may only contain letters, digits, '-' and '_'"}}, vErr.Fields)
	assert.Equal(t, 1.0, promtest.ToFloat64(f.metrics.RequestErrors.WithLabelValues("get", "invalid_params")))
}
