package handler

import (
	"context"
	"net/http"
	"time"

	"evmarket/internal/contract"
	"evmarket/internal/middleware"
	"evmarket/internal/repository"
	"evmarket/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /staff 配下（STAFF / MANAGER / ADMIN）
type StaffHandler struct {
	orders   *usecase.StaffOrderUsecase
	products *usecase.StaffProductUsecase
	authn    Authn
}

// DI
func NewStaffHandler(orders *usecase.StaffOrderUsecase, products *usecase.StaffProductUsecase, authn Authn) *StaffHandler {
	return &StaffHandler{orders: orders, products: products, authn: authn}
}

func (h *StaffHandler) RegisterRoutes(api *echo.Group) {
	staff := api.Group("/staff", h.authn.Require(staffRoles...)...)

	staff.GET("/orders", h.listOrders)
	staff.GET("/orders/status/:status", h.ordersByStatus)
	staff.POST("/orders/:id/approve", h.approveOrder)
	staff.POST("/orders/:id/deliver", h.deliverOrder)
	staff.POST("/orders/:id/complete", h.completeOrder)
	staff.POST("/orders/:id/resolve-dispute", h.resolveDispute)

	staff.GET("/products/status/:status", h.productsByStatus)
	staff.POST("/products/:id/approve-preliminary", h.approvePreliminary)
	staff.POST("/products/:id/input-inspection", h.inputInspection)
}

// GET /staff/orders?status=&buyerId=&from=&to=&page=&limit=
func (h *StaffHandler) listOrders(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return writeError(c, err)
	}
	buyerID, err := queryInt64Ptr(c, "buyerId")
	if err != nil {
		return writeError(c, err)
	}
	from, err := queryTime(c, "from")
	if err != nil {
		return writeError(c, err)
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.orders.List(c.Request().Context(), repository.OrderListFilter{
		Page:    page,
		Limit:   limit,
		Status:  c.QueryParam("status"),
		BuyerID: buyerID,
		From:    from,
		To:      to,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StaffHandler) ordersByStatus(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.orders.ListByStatus(c.Request().Context(), c.Param("status"), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// POST /staff/orders/:id/approve {approved, note}
func (h *StaffHandler) approveOrder(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req contract.ApprovalRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.orders.Decide(c.Request().Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, contract.Success(contract.MsgOrderProcessed, out))
}

func (h *StaffHandler) deliverOrder(c echo.Context) error {
	return h.orderAction(c, h.orders.Deliver)
}

func (h *StaffHandler) completeOrder(c echo.Context) error {
	return h.orderAction(c, h.orders.Complete)
}

func (h *StaffHandler) orderAction(c echo.Context, fn func(ctx context.Context, actor usecase.Actor, id int64) (contract.OrderView, error)) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	out, err := fn(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, contract.Success(contract.MsgOrderProcessed, out))
}

// POST /staff/orders/:id/resolve-dispute {outcome, note}
func (h *StaffHandler) resolveDispute(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req usecase.ResolveDisputeInput
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.orders.ResolveDispute(c.Request().Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, contract.Success(contract.MsgOrderProcessed, out))
}

func (h *StaffHandler) productsByStatus(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.products.ListByStatus(c.Request().Context(), c.Param("status"), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *StaffHandler) approvePreliminary(c echo.Context) error {
	return h.productDecision(c, h.products.ApprovePreliminary)
}

func (h *StaffHandler) inputInspection(c echo.Context) error {
	return h.productDecision(c, h.products.InputInspection)
}

func (h *StaffHandler) productDecision(c echo.Context, fn func(ctx context.Context, actor usecase.Actor, id int64, in contract.ApprovalRequest) (contract.ProductView, error)) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req contract.ApprovalRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := fn(c.Request().Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, contract.Success(contract.MsgProductProcessed, out))
}

// RFC3339 か YYYY-MM-DD
func queryTime(c echo.Context, key string) (*time.Time, error) {
	v := c.QueryParam(key)
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil, usecase.NewHTTPError(http.StatusBadRequest, "invalid "+key)
	}
	return &t, nil
}
