package handler

import (
	"net/http"

	"evmarket/internal/contract"
	"evmarket/internal/domain/model"
	"evmarket/internal/middleware"
	"evmarket/internal/repository"
	"evmarket/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	uc    *usecase.AdminUserUsecase
	authn Authn
}

func NewAdminHandler(uc *usecase.AdminUserUsecase, authn Authn) *AdminHandler {
	return &AdminHandler{uc: uc, authn: authn}
}

func (h *AdminHandler) RegisterRoutes(api *echo.Group) {
	// /admin 配下は全部「JWT必須 + token_version一致 + ADMIN限定」
	admin := api.Group("/admin", h.authn.Require(adminRoles...)...)

	admin.GET("/users", h.listUsers)
	admin.PUT("/users/:id/role", h.updateRole)
	admin.PUT("/users/:id/active", h.updateActive)
	admin.POST("/users/:id/force-logout", h.forceLogout)
	admin.GET("/audit-logs", h.auditLogs)
}

func (h *AdminHandler) listUsers(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.Request().Context(), repository.UserListFilter{
		Page:  page,
		Limit: limit,
		Role:  c.QueryParam("role"),
		Q:     c.QueryParam("q"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) updateRole(c echo.Context) error {
	userID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user_id")
	}
	var req usecase.UpdateRoleInput
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	user, err := h.uc.UpdateRole(c.Request().Context(), middleware.ActorFrom(c), userID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, contract.Success(contract.MsgUserProcessed, user))
}

func (h *AdminHandler) updateActive(c echo.Context) error {
	userID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user_id")
	}
	var req usecase.UpdateActiveInput
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	user, err := h.uc.UpdateActive(c.Request().Context(), middleware.ActorFrom(c), userID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, contract.Success(contract.MsgUserProcessed, user))
}

func (h *AdminHandler) forceLogout(c echo.Context) error {
	userID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid user_id")
	}
	res, err := h.uc.ForceLogout(c.Request().Context(), middleware.ActorFrom(c), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// GET /admin/audit-logs?actorUserId=&action=&resourceType=&resourceId=&from=&to=&limit=&offset=
// resourceType+resourceIdで注文/商品のステータス履歴になる。
func (h *AdminHandler) auditLogs(c echo.Context) error {
	var f repository.AuditLogFilter
	var err error

	if f.ActorUserID, err = queryInt64Ptr(c, "actorUserId"); err != nil {
		return writeError(c, err)
	}
	if f.ResourceID, err = queryInt64Ptr(c, "resourceId"); err != nil {
		return writeError(c, err)
	}
	if v := c.QueryParam("action"); v != "" {
		a := model.AuditAction(v)
		f.Action = &a
	}
	if v := c.QueryParam("resourceType"); v != "" {
		rt := model.AuditResourceType(v)
		f.ResourceType = &rt
	}
	if f.CreatedFrom, err = queryTime(c, "from"); err != nil {
		return writeError(c, err)
	}
	if f.CreatedTo, err = queryTime(c, "to"); err != nil {
		return writeError(c, err)
	}
	if f.Limit, err = queryInt(c, "limit"); err != nil {
		return writeError(c, err)
	}
	if f.Offset, err = queryInt(c, "offset"); err != nil {
		return writeError(c, err)
	}

	logs, err := h.uc.AuditLogs(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}
