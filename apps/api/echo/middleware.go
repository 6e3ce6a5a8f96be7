package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/openswad/swad/core/param"
	"github.com/openswad/swad/core/request"
)

const requestKey = "swad.request"

// loadRequest reads the request parameters before the handler runs and
// releases them once it returns.
func loadRequest(svc *request.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			r := ctx.Request()
			req, err := svc.Load(r.Context(), param.EnvironmentFromRequest(r), r.Body)
			if err != nil {
				return err
			}
			defer func() { _ = req.Close() }()

			ctx.Set(requestKey, req)
			return next(ctx)
		}
	}
}

func getContextRequest(ctx echo.Context) (*request.Request, error) {
	req, ok := ctx.Get(requestKey).(*request.Request)
	if !ok || req == nil {
		return nil, errors.New("request parameters not loaded")
	}
	return req, nil
}
