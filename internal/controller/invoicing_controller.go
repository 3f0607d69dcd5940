package controller

import (
	"github.com/labstack/echo/v4"
	"github.com/mechinweb/mechinweb-service/internal/dto"
	"github.com/mechinweb/mechinweb-service/internal/service"
	"github.com/mechinweb/mechinweb-service/pkg/response"
)

type InvoicingController struct {
	service service.InvoicingService
}

func CreateInvoicingController(e *echo.Group, service service.InvoicingService, isLoggedIn echo.MiddlewareFunc) {
	ic := InvoicingController{
		service: service,
	}
	e.POST("/invoicing", ic.HandleAction, isLoggedIn)
}

func (c *InvoicingController) HandleAction(e echo.Context) error {
	payload := dto.InvoicingActionRequest{}
	if ok, err := bindAndValidate(e, "HandleAction", &payload); !ok {
		return err
	}

	resp, err := c.service.HandleAction(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}
