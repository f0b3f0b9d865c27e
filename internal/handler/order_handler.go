package handler

import (
	"net/http"

	"evmarket/internal/contract"
	"evmarket/internal/middleware"
	"evmarket/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 購入者の注文API
type OrderHandler struct {
	uc    *usecase.OrderUsecase
	authn Authn
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase, authn Authn) *OrderHandler {
	return &OrderHandler{uc: uc, authn: authn}
}

func (h *OrderHandler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/orders", h.authn.Require()...)

	g.POST("", h.place)
	//:id より先に登録
	g.GET("/mine", h.mine)
	g.GET("/:id", h.get)
	g.POST("/:id/cancel", h.cancel)
	g.POST("/:id/dispute", h.dispute)
}

// POST /orders
func (h *OrderHandler) place(c echo.Context) error {
	var req usecase.PlaceOrderInput
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Place(c.Request().Context(), middleware.ActorFrom(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, contract.Success(contract.MsgOrderProcessed, out))
}

func (h *OrderHandler) mine(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Mine(c.Request().Context(), middleware.ActorFrom(c), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	out, err := h.uc.Get(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) cancel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	out, err := h.uc.Cancel(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, contract.Success(contract.MsgOrderProcessed, out))
}

func (h *OrderHandler) dispute(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req usecase.DisputeInput
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Dispute(c.Request().Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, contract.Success(contract.MsgOrderProcessed, out))
}
