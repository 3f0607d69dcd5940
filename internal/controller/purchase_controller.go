package controller

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/mechinweb/mechinweb-service/internal/dto"
	"github.com/mechinweb/mechinweb-service/internal/service"
	pkgdto "github.com/mechinweb/mechinweb-service/pkg/dto"
	"github.com/mechinweb/mechinweb-service/pkg/errs"
	"github.com/mechinweb/mechinweb-service/pkg/response"
	"github.com/mechinweb/mechinweb-service/pkg/utils"
	"github.com/rs/zerolog/log"
)

const webhookTokenHeader = "X-Webhook-Token"

type PurchaseController struct {
	service service.PurchaseService
}

func CreatePurchaseController(e *echo.Group, service service.PurchaseService, isLoggedIn echo.MiddlewareFunc) {
	pc := PurchaseController{
		service: service,
	}
	e.POST("/purchases", pc.CreatePurchase, isLoggedIn)
	e.GET("/purchases", pc.GetPurchases, isLoggedIn)
	e.GET("/purchases/:id", pc.GetPurchase, isLoggedIn)
	e.POST("/invoicing/webhooks", pc.InvoiceWebhook)
}

func (c *PurchaseController) CreatePurchase(e echo.Context) error {
	userID, _ := utils.ExtractTokenUser(e)
	if userID == 0 {
		return response.WriteErrorResponse(e, errs.ErrNotLoggedIn, nil)
	}

	payload := dto.PurchaseRequest{}
	if ok, err := bindAndValidate(e, "CreatePurchase", &payload); !ok {
		return err
	}

	payload.UserID = userID
	resp, err := c.service.CreatePurchase(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "purchase created", resp)
}

func (c *PurchaseController) GetPurchases(e echo.Context) error {
	userID, _ := utils.ExtractTokenUser(e)
	if userID == 0 {
		return response.WriteErrorResponse(e, errs.ErrNotLoggedIn, nil)
	}

	filter := pkgdto.Filter{}
	err := e.Bind(&filter)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "GetPurchases").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	filter.UserID = userID
	resp, err := c.service.GetPurchases(e.Request().Context(), filter)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "successfully retrieved purchases", resp)
}

func (c *PurchaseController) GetPurchase(e echo.Context) error {
	userID, _ := utils.ExtractTokenUser(e)
	if userID == 0 {
		return response.WriteErrorResponse(e, errs.ErrNotLoggedIn, nil)
	}

	id, err := strconv.ParseInt(e.Param("id"), 10, 64)
	if err != nil {
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := c.service.GetPurchase(e.Request().Context(), userID, id)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *PurchaseController) InvoiceWebhook(e echo.Context) error {
	token := e.Request().Header.Get(webhookTokenHeader)
	if err := c.service.VerifyWebhookToken(token); err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	payload := dto.InvoiceWebhookRequest{}
	if ok, err := bindAndValidate(e, "InvoiceWebhook", &payload); !ok {
		return err
	}

	err := c.service.HandleInvoiceWebhook(e.Request().Context(), token, payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", nil)
}
