package controller

import (
	"github.com/labstack/echo/v4"
	"github.com/mechinweb/mechinweb-service/internal/dto"
	"github.com/mechinweb/mechinweb-service/internal/service"
	"github.com/mechinweb/mechinweb-service/pkg/response"
)

type EmailController struct {
	service service.EmailService
}

func CreateEmailController(e *echo.Group, service service.EmailService, rateLimit echo.MiddlewareFunc) {
	ec := EmailController{
		service: service,
	}
	e.POST("/emails", ec.SendEmail, rateLimit)
}

func (c *EmailController) SendEmail(e echo.Context) error {
	payload := dto.EmailRequest{}
	if ok, err := bindAndValidate(e, "SendEmail", &payload); !ok {
		return err
	}

	err := c.service.SendEnquiry(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "message sent", nil)
}
