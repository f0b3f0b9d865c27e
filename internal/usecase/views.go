package usecase

import (
	"evmarket/internal/contract"
	"evmarket/internal/domain/lifecycle"
	"evmarket/internal/domain/model"
	"evmarket/internal/statusview"
)

func toOrderView(o model.Order) contract.OrderView {
	allowed := lifecycle.Order.Allowed(o.Status)
	actions := make([]string, 0, len(allowed))
	for _, ev := range allowed {
		actions = append(actions, string(ev))
	}
	return contract.OrderView{
		ID:              o.ID,
		BuyerID:         o.BuyerID,
		ProductID:       o.ProductID,
		ProductType:     string(o.ProductType),
		TotalAmount:     o.TotalAmount,
		DepositAmount:   o.DepositAmount,
		PaidAmount:      o.PaidAmount,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		Note:            o.Note,
		Status:          string(o.Status),
		Display:         statusview.Order(string(o.Status)),
		AllowedActions:  actions,
		CreatedAt:       o.CreatedAt,
	}
}

func toOrderViews(items []model.Order) []contract.OrderView {
	out := make([]contract.OrderView, 0, len(items))
	for _, o := range items {
		out = append(out, toOrderView(o))
	}
	return out
}

func toProductView(p model.Product) contract.ProductView {
	allowed := lifecycle.Product.Allowed(p.Status)
	actions := make([]string, 0, len(allowed))
	for _, ev := range allowed {
		actions = append(actions, string(ev))
	}
	return contract.ProductView{
		ID:              p.ID,
		SellerID:        p.SellerID,
		Title:           p.Title,
		Description:     p.Description,
		ProductType:     string(p.Type),
		Brand:           p.Brand,
		Model:           p.Model,
		Year:            p.Year,
		BatteryCapacity: p.BatteryCapacity,
		Price:           p.Price,
		Status:          string(p.Status),
		InWarehouse:     p.InWarehouse,
		RejectionNote:   p.RejectionNote,
		Display:         statusview.Product(string(p.Status)),
		AllowedActions:  actions,
		CreatedAt:       p.CreatedAt,
	}
}

func toProductViews(items []model.Product) []contract.ProductView {
	out := make([]contract.ProductView, 0, len(items))
	for _, p := range items {
		out = append(out, toProductView(p))
	}
	return out
}

func toTransactionView(t model.Transaction) contract.TransactionView {
	return contract.TransactionView{
		TransactionCode: t.Code,
		Amount:          t.Amount,
		OrderID:         t.OrderID,
		Type:            string(t.Type),
		Status:          string(t.Status),
		PaymentDate:     t.PaymentDate,
		Display:         statusview.Transaction(string(t.Status)),
	}
}

// トランザクションのステータス -> レスポンスのstatus（success/error/pending）
func resultStatus(s model.TransactionStatus) string {
	switch s {
	case model.TransactionStatusSuccess:
		return contract.StatusSuccess
	case model.TransactionStatusPending:
		return contract.StatusPending
	}
	return contract.StatusError
}

func pageOf[T any](items []T, total int64, page, limit int) contract.Page[T] {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return contract.Page[T]{Items: items, Total: total, Page: page, Limit: limit}
}
