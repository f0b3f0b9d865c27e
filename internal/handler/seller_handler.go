package handler

import (
	"net/http"

	"evmarket/internal/contract"
	"evmarket/internal/middleware"
	"evmarket/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /seller 配下（出品とパッケージ購入）
type SellerHandler struct {
	listings *usecase.ListingUsecase
	packages *usecase.PackageUsecase
	authn    Authn
}

func NewSellerHandler(listings *usecase.ListingUsecase, packages *usecase.PackageUsecase, authn Authn) *SellerHandler {
	return &SellerHandler{listings: listings, packages: packages, authn: authn}
}

func (h *SellerHandler) RegisterRoutes(api *echo.Group) {
	s := api.Group("/seller", h.authn.Require()...)

	s.POST("/products", h.createListing)
	s.GET("/products", h.myListings)
	s.POST("/packages/:id/purchase", h.purchasePackage)
	s.GET("/packages", h.myPackages)
}

func (h *SellerHandler) createListing(c echo.Context) error {
	var req usecase.CreateListingInput
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.listings.Create(c.Request().Context(), middleware.ActorFrom(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, contract.Success(contract.MsgProductProcessed, out))
}

func (h *SellerHandler) myListings(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.listings.Mine(c.Request().Context(), middleware.ActorFrom(c), page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 支払いは返したIDをorderIdにして PACKAGE_PURCHASE で行う
func (h *SellerHandler) purchasePackage(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	out, err := h.packages.Purchase(c.Request().Context(), middleware.ActorFrom(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, contract.Success(contract.MsgPackageProcessed, out))
}

func (h *SellerHandler) myPackages(c echo.Context) error {
	out, err := h.packages.Mine(c.Request().Context(), middleware.ActorFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
