package handler

import (
	"net/http"

	"evmarket/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 公開API（商品・パッケージ）
type CatalogHandler struct {
	listings *usecase.ListingUsecase
	packages *usecase.PackageUsecase
}

// DI
func NewCatalogHandler(listings *usecase.ListingUsecase, packages *usecase.PackageUsecase) *CatalogHandler {
	return &CatalogHandler{listings: listings, packages: packages}
}

// 公開のルートを登録
func (h *CatalogHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/products", h.list)
	api.GET("/products/:id", h.detail)
	api.GET("/packages", h.packagesList)
}

// GET /products?q=&type=&minPrice=&maxPrice=&sort=&page=&limit=
func (h *CatalogHandler) list(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return writeError(c, err)
	}
	minPrice, err := queryInt64Ptr(c, "minPrice")
	if err != nil {
		return writeError(c, err)
	}
	maxPrice, err := queryInt64Ptr(c, "maxPrice")
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.listings.ListPublic(c.Request().Context(), usecase.PublicProductQuery{
		Page:     page,
		Limit:    limit,
		Q:        c.QueryParam("q"),
		Type:     c.QueryParam("type"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     c.QueryParam("sort"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) detail(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	p, err := h.listings.GetPublic(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) packagesList(c echo.Context) error {
	out, err := h.packages.ListActive(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
