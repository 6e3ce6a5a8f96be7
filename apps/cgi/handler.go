package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/openswad/swad/core"
	"github.com/openswad/swad/core/param"
	"github.com/openswad/swad/core/request"
	"github.com/openswad/swad/core/session"
	"github.com/openswad/swad/fs"
)

const scriptName = "/swad"

type handler struct {
	conf   *core.Config
	svc    *request.Service
	logger core.Logger
	tmpl   *template.Template
}

func newHandler(conf *core.Config, svc *request.Service, logger core.Logger) (*handler, error) {
	tmpl, err := template.ParseFS(appfs.FS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &handler{conf: conf, svc: svc, logger: logger, tmpl: tmpl}, nil
}

type pageData struct {
	AppName        string
	Transport      string
	Main           param.MainParams
	Guest          bool
	SessionExpired bool
	Session        *session.Session
	Role           string
	Params         []param.Info
	Home           string
}

type errorData struct {
	AppName    string
	Status     int
	StatusText string
	Message    string
	Fields     []core.FieldError
}

// serve answers the request described by env, writing a CGI response to w.
func (h *handler) serve(ctx context.Context, w io.Writer, env param.Environment, body io.Reader) error {
	req, err := h.svc.Load(ctx, env, body)
	if err != nil {
		return h.serveError(w, err)
	}
	defer func() { _ = req.Close() }()

	data := pageData{
		AppName:        h.conf.AppName,
		Transport:      req.Transport().String(),
		Main:           req.Main,
		Guest:          req.IsGuest(),
		SessionExpired: req.SessionExpired,
		Session:        req.Session,
	}
	if req.Session != nil {
		data.Role = session.RoleName(req.Session.Role)
	}
	if data.Params, err = req.Params(); err != nil {
		return h.serveError(w, err)
	}
	if data.Home, err = param.MainLink(scriptName, req.Main.Action, req.Main); err != nil {
		return h.serveError(w, err)
	}
	return h.render(w, http.StatusOK, "page", data)
}

func (h *handler) serveError(w io.Writer, err error) error {
	data := errorData{AppName: h.conf.AppName, Status: http.StatusBadRequest, Message: err.Error()}
	switch origErr := errors.Cause(err).(type) {
	case *param.Error:
		data.Status = origErr.Kind.Status()
	case *core.ValidationError:
		data.Fields = origErr.Fields
	default:
		data.Status = http.StatusInternalServerError
		data.Message = http.StatusText(data.Status)
		h.logger.Error(data.Message, errors.Wrap(err, data.Message))
	}
	data.StatusText = http.StatusText(data.Status)
	return h.render(w, data.Status, "error", data)
}

// render writes the CGI headers then the page. The page is rendered before
// any header is written.
func (h *handler) render(w io.Writer, status int, name string, data interface{}) error {
	var page bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&page, name, data); err != nil {
		return errors.Wrapf(err, "rendering %s", name)
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Status: %d %s\r\n", status, http.StatusText(status))
	fmt.Fprint(bw, "Content-Type: text/html; charset=utf-8\r\n")
	fmt.Fprintf(bw, "Content-Length: %d\r\n\r\n", page.Len())
	if _, err := page.WriteTo(bw); err != nil {
		return err
	}
	return bw.Flush()
}
