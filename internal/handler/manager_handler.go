package handler

import (
	"net/http"

	"evmarket/internal/contract"
	"evmarket/internal/middleware"
	"evmarket/internal/repository"
	"evmarket/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /manager 配下（MANAGER / ADMIN）
type ManagerHandler struct {
	packages  *usecase.PackageUsecase
	warehouse *usecase.WarehouseUsecase
	payments  *usecase.PaymentUsecase
	authn     Authn
}

// DI
func NewManagerHandler(
	packages *usecase.PackageUsecase,
	warehouse *usecase.WarehouseUsecase,
	payments *usecase.PaymentUsecase,
	authn Authn,
) *ManagerHandler {
	return &ManagerHandler{packages: packages, warehouse: warehouse, payments: payments, authn: authn}
}

func (h *ManagerHandler) RegisterRoutes(api *echo.Group) {
	m := api.Group("/manager", h.authn.Require(managerRoles...)...)

	//パッケージ
	m.GET("/packages", h.listPackages)
	m.POST("/packages", h.createPackage)
	m.GET("/packages/:id", h.getPackage)
	m.PUT("/packages/:id", h.updatePackage)
	m.DELETE("/packages/:id", h.deletePackage)

	//倉庫
	m.GET("/warehouse", h.listWarehouse)
	m.POST("/warehouse/products/:id", h.addToWarehouse)
	m.DELETE("/warehouse/products/:id", h.removeFromWarehouse)
	m.PUT("/products/:id/status", h.updateProductStatus)

	m.GET("/transactions", h.listTransactions)
}

func (h *ManagerHandler) listPackages(c echo.Context) error {
	out, err := h.packages.ListAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ManagerHandler) createPackage(c echo.Context) error {
	var req usecase.PackageInput
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.packages.Create(c.Request().Context(), middleware.ActorFrom(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, contract.Success(contract.MsgPackageProcessed, out))
}

func (h *ManagerHandler) getPackage(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	out, err := h.packages.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ManagerHandler) updatePackage(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req usecase.PackageInput
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.packages.Update(c.Request().Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, contract.Success(contract.MsgPackageProcessed, out))
}

func (h *ManagerHandler) deletePackage(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	if err := h.packages.Delete(c.Request().Context(), middleware.ActorFrom(c), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, contract.Success(contract.MsgPackageProcessed, nil))
}

func (h *ManagerHandler) listWarehouse(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.warehouse.List(c.Request().Context(), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ManagerHandler) addToWarehouse(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	out, err := h.warehouse.Add(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, contract.Success(contract.MsgProductProcessed, out))
}

func (h *ManagerHandler) removeFromWarehouse(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	out, err := h.warehouse.Remove(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, contract.Success(contract.MsgProductProcessed, out))
}

// PUT /manager/products/:id/status {status}
func (h *ManagerHandler) updateProductStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req usecase.UpdateProductStatusInput
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.warehouse.UpdateStatus(c.Request().Context(), middleware.ActorFrom(c), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, contract.Success(contract.MsgProductProcessed, out))
}

// GET /manager/transactions?status=&type=&orderId=&page=&limit=
func (h *ManagerHandler) listTransactions(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return writeError(c, err)
	}
	orderID, err := queryInt64Ptr(c, "orderId")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.payments.ListTransactions(c.Request().Context(), repository.TransactionListFilter{
		Page:    page,
		Limit:   limit,
		Status:  c.QueryParam("status"),
		Type:    c.QueryParam("type"),
		OrderID: orderID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
