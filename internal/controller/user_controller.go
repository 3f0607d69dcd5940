package controller

import (
	"github.com/labstack/echo/v4"
	"github.com/mechinweb/mechinweb-service/internal/dto"
	"github.com/mechinweb/mechinweb-service/internal/service"
	"github.com/mechinweb/mechinweb-service/pkg/errs"
	"github.com/mechinweb/mechinweb-service/pkg/response"
	"github.com/mechinweb/mechinweb-service/pkg/utils"
)

type UserController struct {
	service service.UserService
}

func CreateUserController(e *echo.Group, service service.UserService, isLoggedIn echo.MiddlewareFunc) {
	uc := UserController{
		service: service,
	}
	e.POST("/users/register", uc.AddUser)
	e.POST("/users/login", uc.Login)
	e.GET("/users/me", uc.GetMe, isLoggedIn)
	e.PUT("/users/me", uc.UpdateMe, isLoggedIn)
}

func (c *UserController) AddUser(e echo.Context) error {
	payload := dto.UserRequest{}
	if ok, err := bindAndValidate(e, "AddUser", &payload); !ok {
		return err
	}

	resp, err := c.service.AddUser(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "account created", resp)
}

func (c *UserController) Login(e echo.Context) error {
	payload := dto.LoginRequest{}
	if ok, err := bindAndValidate(e, "Login", &payload); !ok {
		return err
	}

	respPayload, err := c.service.Login(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", respPayload)
}

func (c *UserController) GetMe(e echo.Context) error {
	userID, _ := utils.ExtractTokenUser(e)
	if userID == 0 {
		return response.WriteErrorResponse(e, errs.ErrNotLoggedIn, nil)
	}

	resp, err := c.service.GetUser(e.Request().Context(), userID)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *UserController) UpdateMe(e echo.Context) error {
	userID, _ := utils.ExtractTokenUser(e)
	if userID == 0 {
		return response.WriteErrorResponse(e, errs.ErrNotLoggedIn, nil)
	}

	payload := dto.UpdateUserRequest{}
	if ok, err := bindAndValidate(e, "UpdateMe", &payload); !ok {
		return err
	}

	payload.ID = userID
	resp, err := c.service.UpdateUser(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}
