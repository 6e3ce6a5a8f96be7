package echoapi

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/openswad/swad/core/param"
	"github.com/openswad/swad/core/session"
)

type sessionInfo struct {
	UserCode int64  `json:"usr"`
	Role     string `json:"role"`
}

type swadResponse struct {
	Transport      string           `json:"transport"`
	Main           param.MainParams `json:"main"`
	Guest          bool             `json:"guest"`
	SessionExpired bool             `json:"session_expired,omitempty"`
	Session        *sessionInfo     `json:"session,omitempty"`
	Params         []param.Info     `json:"params"`
	BodySize       int64            `json:"body_size,omitempty"` // web service calls only
}

func swad(ctx echo.Context) error {
	req, err := getContextRequest(ctx)
	if err != nil {
		return err
	}

	resp := swadResponse{
		Transport:      req.Transport().String(),
		Main:           req.Main,
		Guest:          req.IsGuest(),
		SessionExpired: req.SessionExpired,
	}
	if req.Session != nil {
		resp.Session = &sessionInfo{UserCode: req.Session.UserCode, Role: session.RoleName(req.Session.Role)}
	}
	if resp.Params, err = req.Params(); err != nil {
		return err
	}
	if req.Transport() == param.TransportWebService {
		if resp.BodySize, err = io.Copy(io.Discard, req.Body()); err != nil {
			return err
		}
	}
	return ctx.JSON(http.StatusOK, resp)
}

func health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
