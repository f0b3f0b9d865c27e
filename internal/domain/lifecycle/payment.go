package lifecycle

import (
	"errors"

	"evmarket/internal/domain/model"
)

// 頭金の割合（%）
const DepositPercent = 10

var (
	// 現在のステータスでは支払えない
	ErrNotPayable = errors.New("order is not payable")
	// 商品種別とトランザクション種別が合わない
	ErrPaymentTypeMismatch = errors.New("transaction type not allowed for product type")
)

// CheckoutTransactionType は商品種別ごとのチェックアウト種別。
// Car EV は頭金、Battery は全額。
func CheckoutTransactionType(pt model.ProductType) model.TransactionType {
	if pt == model.ProductTypeCar {
		return model.TransactionTypeDeposit
	}
	return model.TransactionTypeFinalPayment
}

// CheckPayable は注文がこの種別で支払えるか検証する。
func CheckPayable(o model.Order, t model.TransactionType) error {
	switch t {
	case model.TransactionTypeDeposit:
		if o.ProductType != model.ProductTypeCar {
			return ErrPaymentTypeMismatch
		}
		if o.Status != model.OrderStatusAwaitingPayment {
			return ErrNotPayable
		}
	case model.TransactionTypeFinalPayment:
		if !Order.Can(o.Status, OrderFullyPaid) {
			return ErrNotPayable
		}
	default:
		return ErrPaymentTypeMismatch
	}
	if o.Outstanding() <= 0 {
		return ErrNotPayable
	}
	return nil
}

// PaymentAmount は種別ごとの請求額（VND、切り捨て）。
func PaymentAmount(o model.Order, t model.TransactionType) int64 {
	switch t {
	case model.TransactionTypeDeposit:
		return o.TotalAmount * DepositPercent / 100
	case model.TransactionTypeFinalPayment:
		return o.Outstanding()
	}
	return 0
}

// PaymentEvent は支払い成功時の注文イベント
func PaymentEvent(t model.TransactionType) OrderEvent {
	if t == model.TransactionTypeDeposit {
		return OrderDepositPaid
	}
	return OrderFullyPaid
}
