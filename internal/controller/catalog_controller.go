package controller

import (
	"github.com/labstack/echo/v4"
	"github.com/mechinweb/mechinweb-service/internal/domain"
	"github.com/mechinweb/mechinweb-service/internal/dto"
	"github.com/mechinweb/mechinweb-service/internal/service"
	"github.com/mechinweb/mechinweb-service/pkg/response"
)

type CatalogController struct {
	service service.PricingService
}

func CreateCatalogController(e *echo.Group, service service.PricingService) {
	cc := CatalogController{
		service: service,
	}
	e.GET("/services", cc.GetServices)
	e.GET("/currencies", cc.GetCurrencies)
	e.POST("/quotes", cc.Quote)
}

func (c *CatalogController) GetServices(e echo.Context) error {
	return response.WriteSuccessResponse(e, "", c.service.ListServices())
}

func (c *CatalogController) GetCurrencies(e echo.Context) error {
	return response.WriteSuccessResponse(e, "", c.service.ListCurrencies(e.Request().Context()))
}

func (c *CatalogController) Quote(e echo.Context) error {
	payload := dto.QuoteRequest{}
	if ok, err := bindAndValidate(e, "Quote", &payload); !ok {
		return err
	}

	quote, err := c.service.Quote(e.Request().Context(), payload.Currency, payload.Items)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", toQuoteResponse(quote))
}

func toQuoteResponse(quote domain.Quote) dto.QuoteResponse {
	res := dto.QuoteResponse{
		Currency:     quote.Currency,
		ExchangeRate: quote.Rate,
		Total:        quote.Total,
		Items:        make([]dto.QuoteLineResponse, 0, len(quote.Lines)),
	}

	for _, line := range quote.Lines {
		res.Items = append(res.Items, dto.QuoteLineResponse{
			ServiceID:   line.ServiceID,
			ServiceName: line.ServiceName,
			Package:     line.PackageTier,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			TotalPrice:  line.TotalPrice,
		})
	}

	return res
}
