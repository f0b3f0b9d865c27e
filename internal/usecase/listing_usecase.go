package usecase

import (
	"context"
	"net/http"
	"strings"

	"evmarket/internal/contract"
	"evmarket/internal/domain/model"
	repo "evmarket/internal/repository"
)

type CreateListingInput struct {
	Title           string  `json:"title" validate:"required,max=255"`
	Description     string  `json:"description" validate:"max=5000"`
	ProductType     string  `json:"productType" validate:"required,oneof='Car EV' Battery"`
	Brand           string  `json:"brand" validate:"max=100"`
	Model           string  `json:"model" validate:"max=100"`
	Year            int     `json:"year" validate:"omitempty,gte=1990,lte=2100"`
	BatteryCapacity float64 `json:"batteryCapacity" validate:"gte=0"`
	Price           int64   `json:"price" validate:"gt=0"`
}

// 公開一覧の検索条件
type PublicProductQuery struct {
	Page     int
	Limit    int
	Q        string
	Type     string
	MinPrice *int64
	MaxPrice *int64
	Sort     string
}

// 出品（売り手）と公開カタログ
type ListingUsecase struct {
	tx       repo.TransactionManager
	products repo.ProductRepository
	clock    Clock
}

// DI
func NewListingUsecase(tx repo.TransactionManager, products repo.ProductRepository, clock Clock) *ListingUsecase {
	return &ListingUsecase{tx: tx, products: products, clock: clock}
}

// Create は有効なパッケージの枠を1つ使って出品する（CHO_DUYETから審査）。
func (u *ListingUsecase) Create(ctx context.Context, actor Actor, in CreateListingInput) (contract.ProductView, error) {
	if !actor.valid() {
		return contract.ProductView{}, errUnauthorized
	}
	pt, ok := model.ParseProductType(strings.TrimSpace(in.ProductType))
	if !ok {
		return contract.ProductView{}, NewHTTPError(http.StatusBadRequest, "invalid productType")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return contract.ProductView{}, NewHTTPError(http.StatusBadRequest, "title is required")
	}
	if in.Price <= 0 {
		return contract.ProductView{}, NewHTTPError(http.StatusBadRequest, "price must be positive")
	}

	now := u.clock.Now()
	var created model.Product
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		ok, err := r.UserPackages().ConsumeSlot(ctx, actor.UserID, model.PackageTypeFor(pt), now)
		if err != nil {
			return err
		}
		if !ok {
			return NewHTTPError(http.StatusPaymentRequired, "no active package with free listing slots")
		}

		created, err = r.Products().Create(ctx, model.Product{
			SellerID:        actor.UserID,
			Title:           title,
			Description:     strings.TrimSpace(in.Description),
			Type:            pt,
			Brand:           strings.TrimSpace(in.Brand),
			Model:           strings.TrimSpace(in.Model),
			Year:            in.Year,
			BatteryCapacity: in.BatteryCapacity,
			Price:           in.Price,
			Status:          model.ProductStatusPendingReview,
		})
		return err
	})
	if err != nil {
		return contract.ProductView{}, toHTTPError(err, "product not found")
	}
	return toProductView(created), nil
}

// 自分の出品一覧
func (u *ListingUsecase) Mine(ctx context.Context, actor Actor, page, limit int) (contract.Page[contract.ProductView], error) {
	if !actor.valid() {
		return contract.Page[contract.ProductView]{}, errUnauthorized
	}
	seller := actor.UserID
	items, total, err := u.products.List(ctx, repo.ProductListQuery{Page: page, Limit: limit, SellerID: &seller})
	if err != nil {
		return contract.Page[contract.ProductView]{}, errDB
	}
	return pageOf(toProductViews(items), total, page, limit), nil
}

// 公開一覧（DANG_BANのみ）
func (u *ListingUsecase) ListPublic(ctx context.Context, q PublicProductQuery) (contract.Page[contract.ProductView], error) {
	if q.Type != "" {
		if _, ok := model.ParseProductType(q.Type); !ok {
			return contract.Page[contract.ProductView]{}, NewHTTPError(http.StatusBadRequest, "invalid productType")
		}
	}
	switch q.Sort {
	case "", "new", "price_asc", "price_desc":
	default:
		return contract.Page[contract.ProductView]{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return contract.Page[contract.ProductView]{}, NewHTTPError(http.StatusBadRequest, "minPrice must be <= maxPrice")
	}

	items, total, err := u.products.List(ctx, repo.ProductListQuery{
		Page:     q.Page,
		Limit:    q.Limit,
		Q:        q.Q,
		Status:   string(model.ProductStatusOnSale),
		Type:     q.Type,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Sort:     q.Sort,
	})
	if err != nil {
		return contract.Page[contract.ProductView]{}, errDB
	}
	return pageOf(toProductViews(items), total, q.Page, q.Limit), nil
}

// 公開中の商品1件。販売中でなければ404。
func (u *ListingUsecase) GetPublic(ctx context.Context, id int64) (contract.ProductView, error) {
	if id <= 0 {
		return contract.ProductView{}, errInvalidID
	}
	p, err := u.products.FindByID(ctx, id)
	if err != nil {
		return contract.ProductView{}, toHTTPError(err, "product not found")
	}
	if p.Status != model.ProductStatusOnSale {
		return contract.ProductView{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	return toProductView(p), nil
}
