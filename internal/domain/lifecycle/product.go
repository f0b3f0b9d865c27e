package lifecycle

import "evmarket/internal/domain/model"

type ProductEvent string

const (
	ProductPreliminaryApprove ProductEvent = "preliminary_approve"
	ProductPreliminaryReject  ProductEvent = "preliminary_reject"
	ProductInspectionPass     ProductEvent = "inspection_pass"
	ProductInspectionFail     ProductEvent = "inspection_fail"
	ProductPublish            ProductEvent = "publish"
	ProductSell               ProductEvent = "sell"
	ProductExpire             ProductEvent = "expire"
	ProductRemoveFromStock    ProductEvent = "remove_from_warehouse"
)

var Product = NewMachine("product", map[ProductEvent]Rule[model.ProductStatus]{
	ProductPreliminaryApprove: {
		From: []model.ProductStatus{model.ProductStatusPendingReview},
		To:   model.ProductStatusPendingInspection,
	},
	ProductPreliminaryReject: {
		From: []model.ProductStatus{model.ProductStatusPendingReview},
		To:   model.ProductStatusRejected,
	},
	ProductInspectionPass: {
		From: []model.ProductStatus{model.ProductStatusPendingInspection},
		To:   model.ProductStatusApproved,
	},
	ProductInspectionFail: {
		From: []model.ProductStatus{model.ProductStatusPendingInspection},
		To:   model.ProductStatusFailedInspection,
	},
	ProductPublish: {
		From: []model.ProductStatus{model.ProductStatusApproved, model.ProductStatusExpired},
		To:   model.ProductStatusOnSale,
	},
	ProductSell: {
		From: []model.ProductStatus{model.ProductStatusOnSale},
		To:   model.ProductStatusSold,
	},
	ProductExpire: {
		From: []model.ProductStatus{model.ProductStatusOnSale},
		To:   model.ProductStatusExpired,
	},
	ProductRemoveFromStock: {
		From: []model.ProductStatus{
			model.ProductStatusApproved,
			model.ProductStatusOnSale,
			model.ProductStatusExpired,
		},
		To: model.ProductStatusRemoved,
	},
})

// 管理者がステータス指定で更新するときの対応表
var productTargetEvents = map[model.ProductStatus]ProductEvent{
	model.ProductStatusOnSale:  ProductPublish,
	model.ProductStatusSold:    ProductSell,
	model.ProductStatusExpired: ProductExpire,
	model.ProductStatusRemoved: ProductRemoveFromStock,
}

// ProductEventTo は目標ステータスに対応するイベントを返す。
func ProductEventTo(target model.ProductStatus) (ProductEvent, bool) {
	ev, ok := productTargetEvents[target]
	return ev, ok
}

// 倉庫在庫フラグの更新。nilなら変更なし。
func WarehouseFlagAfter(ev ProductEvent) *bool {
	var v bool
	switch ev {
	case ProductInspectionPass:
		v = true
	case ProductRemoveFromStock, ProductSell:
		v = false
	default:
		return nil
	}
	return &v
}
