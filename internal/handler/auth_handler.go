package handler

import (
	"net/http"

	"evmarket/internal/middleware"
	"evmarket/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	uc    *usecase.AuthUsecase
	authn Authn
}

// DIコンストラクタ
func NewAuthHandler(uc *usecase.AuthUsecase, authn Authn) *AuthHandler {
	return &AuthHandler{uc: uc, authn: authn}
}

func (h *AuthHandler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/register", h.register)
	api.POST("/auth/login", h.login)
	api.GET("/auth/me", h.me, h.authn.Require()...)
}

// POST /auth/register
func (h *AuthHandler) register(c echo.Context) error {
	var req usecase.RegisterInput
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}

	user, err := h.uc.Register(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// POST /auth/login
func (h *AuthHandler) login(c echo.Context) error {
	var req usecase.LoginInput
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Login(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// GET /auth/me
func (h *AuthHandler) me(c echo.Context) error {
	user, err := h.uc.Me(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
