// Package request turns an incoming request into validated navigation
// parameters and the session they belong to.
package request

import (
	"context"
	"io"
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/openswad/swad/core"
	"github.com/openswad/swad/core/param"
	"github.com/openswad/swad/core/session"
	"github.com/openswad/swad/services/metrics"
)

// Request is a parsed request. It must be closed to release its spool file.
type Request struct {
	*param.RequestContext

	Main param.MainParams
	// Session is nil for guests.
	Session *session.Session
	// SessionExpired is set when a session id was sent but is no longer valid.
	SessionExpired bool
}

func (r *Request) IsGuest() bool { return r.Session == nil }

// Service loads requests.
type Service struct {
	opts       param.Options
	sessions   *session.Service
	validate   *validator.Validate
	translator ut.Translator
	metrics    *metrics.Metrics
	log        core.Logger
}

func NewService(
	conf *core.Config,
	sessions *session.Service,
	validate *validator.Validate,
	translator ut.Translator,
	m *metrics.Metrics,
	log core.Logger,
) *Service {
	return &Service{
		opts:       param.OptionsFromConfig(conf),
		sessions:   sessions,
		validate:   validate,
		translator: translator,
		metrics:    m,
		log:        log,
	}
}

// Load reads the parameters described by env from body. Errors from
// reading the request are returned as they are, so transports can map their Kind.
// Invalid navigation parameters are reported as a *core.ValidationError.
func (svc *Service) Load(ctx context.Context, env param.Environment, body io.Reader) (*Request, error) {
	var req *Request
	err := svc.metrics.ObserveRequest(env.Transport().String(), func() (string, error) {
		var err error
		req, err = svc.load(ctx, env, body)
		if err != nil {
			if k := param.KindOf(err); k != 0 {
				return k.String(), err
			}
			if _, ok := errors.Cause(err).(*core.ValidationError); ok {
				return "invalid_params", err
			}
		}
		return "", err
	})
	return req, err
}

func (svc *Service) load(ctx context.Context, env param.Environment, body io.Reader) (*Request, error) {
	rc, err := param.NewRequestContext(env, body, svc.opts)
	if err != nil {
		return nil, err
	}
	transport := rc.Transport().String()
	if n, err := strconv.ParseInt(env.ContentLength, 10, 64); err == nil && rc.Transport() != param.TransportGET {
		svc.metrics.RequestSize.WithLabelValues(transport).Observe(float64(n))
	}
	svc.metrics.ParamsPerRequest.WithLabelValues(transport).Observe(float64(rc.Len()))

	req := &Request{RequestContext: rc}
	if req.Main, err = param.GetMainParams(rc); err != nil {
		_ = rc.Close()
		return nil, err
	}
	if err = req.Main.Validate(svc.validate); err != nil {
		_ = rc.Close()
		return nil, core.TranslateValidationErrors(err, svc.translator)
	}

	if req.Main.Session != "" {
		if err = svc.resolveSession(ctx, req); err != nil {
			_ = rc.Close()
			return nil, err
		}
	}
	return req, nil
}

func (svc *Service) resolveSession(ctx context.Context, req *Request) error {
	s, err := svc.sessions.Resolve(ctx, req.Main.Session)
	switch err {
	case nil:
	case session.ErrNotFound, session.ErrExpired:
		svc.metrics.SessionLookups.WithLabelValues(lookupResult(err)).Inc()
		svc.log.Debug("stale session", map[string]interface{}{"remote_addr": req.Environment().RemoteAddr, "reason": err.Error()})
		req.SessionExpired = true
		req.Main.Session = ""
		return nil
	default:
		svc.metrics.SessionLookups.WithLabelValues("error").Inc()
		return errors.Wrap(err, "resolving session")
	}
	svc.metrics.SessionLookups.WithLabelValues("ok").Inc()

	if req.Main.HasHierarchy() {
		h := hierarchyOf(req.Main)
		if h != s.Hierarchy() {
			if s, err = svc.sessions.Move(ctx, s, h); err != nil {
				return errors.Wrap(err, "moving session")
			}
		}
	} else {
		// keep browsing where the session was
		h := s.Hierarchy()
		req.Main.Country, req.Main.Institution, req.Main.Centre = h.Country, h.Institution, h.Centre
		req.Main.Degree, req.Main.Course = h.Degree, h.Course
	}
	req.Session = &s
	return nil
}

func lookupResult(err error) string {
	if err == session.ErrExpired {
		return "expired"
	}
	return "not_found"
}

func hierarchyOf(mp param.MainParams) session.Hierarchy {
	return session.Hierarchy{
		Country:     mp.Country,
		Institution: mp.Institution,
		Centre:      mp.Centre,
		Degree:      mp.Degree,
		Course:      mp.Course,
	}
}
