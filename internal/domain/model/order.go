package model

import "time"

// 商品種別。支払いフロー（頭金あり/なし）を決める。
type ProductType string

const (
	ProductTypeCar     ProductType = "Car EV"
	ProductTypeBattery ProductType = "Battery"
)

func ParseProductType(s string) (ProductType, bool) {
	switch ProductType(s) {
	case ProductTypeCar, ProductTypeBattery:
		return ProductType(s), true
	}
	return "", false
}

type OrderStatus string

const (
	OrderStatusPendingApproval OrderStatus = "CHO_DUYET"
	OrderStatusAwaitingPayment OrderStatus = "CHO_THANH_TOAN"
	OrderStatusDepositPaid     OrderStatus = "DA_DAT_COC"
	OrderStatusPaid            OrderStatus = "DA_THANH_TOAN"
	OrderStatusDelivered       OrderStatus = "DA_GIAO"
	OrderStatusCompleted       OrderStatus = "DA_HOAN_TAT"
	OrderStatusRejected        OrderStatus = "BI_TU_CHOI"
	OrderStatusDisputed        OrderStatus = "TRANH_CHAP"
	OrderStatusCancelled       OrderStatus = "DA_HUY"
)

var orderStatuses = []OrderStatus{
	OrderStatusPendingApproval,
	OrderStatusAwaitingPayment,
	OrderStatusDepositPaid,
	OrderStatusPaid,
	OrderStatusDelivered,
	OrderStatusCompleted,
	OrderStatusRejected,
	OrderStatusDisputed,
	OrderStatusCancelled,
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, st := range orderStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

type Order struct {
	ID              int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	BuyerID         int64       `gorm:"not null;index" json:"buyerId"`
	ProductID       int64       `gorm:"not null;index" json:"productId"`
	ProductType     ProductType `gorm:"type:varchar(20);not null" json:"productType"`
	TotalAmount     int64       `gorm:"not null" json:"totalAmount"`
	DepositAmount   int64       `gorm:"not null;default:0" json:"depositAmount"`
	PaidAmount      int64       `gorm:"not null;default:0" json:"paidAmount"`
	ShippingAddress string      `gorm:"type:varchar(500);not null" json:"shippingAddress"`
	PaymentMethod   string      `gorm:"type:varchar(50);not null" json:"paymentMethod"`
	Note            string      `gorm:"type:text" json:"note"`
	Status          OrderStatus `gorm:"type:varchar(30);not null;index" json:"status"`
	CreatedAt       time.Time   `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time   `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// 残りの支払額
func (o Order) Outstanding() int64 {
	rest := o.TotalAmount - o.PaidAmount
	if rest < 0 {
		return 0
	}
	return rest
}
