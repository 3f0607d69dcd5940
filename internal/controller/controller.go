package controller

import (
	"github.com/labstack/echo/v4"
	"github.com/mechinweb/mechinweb-service/pkg/errs"
	"github.com/mechinweb/mechinweb-service/pkg/response"
	"github.com/rs/zerolog/log"
)

// bindAndValidate binds the request body and runs the struct validation
// tags. It writes the error response itself and reports whether the handler
// should continue.
func bindAndValidate(e echo.Context, component string, payload interface{}) (bool, error) {
	if err := e.Bind(payload); err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", component).Msg("")
		return false, response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	if err := e.Validate(payload); err != nil {
		return false, response.WriteValidationErrorResponse(e, err)
	}

	return true, nil
}
