package model

import "time"

type TransactionType string

const (
	TransactionTypeDeposit         TransactionType = "DEPOSIT"
	TransactionTypeFinalPayment    TransactionType = "FINAL_PAYMENT"
	TransactionTypePackagePurchase TransactionType = "PACKAGE_PURCHASE"
)

func ParseTransactionType(s string) (TransactionType, bool) {
	switch TransactionType(s) {
	case TransactionTypeDeposit, TransactionTypeFinalPayment, TransactionTypePackagePurchase:
		return TransactionType(s), true
	}
	return "", false
}

type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

// 1回の支払い試行。Codeが照会キー。
// PACKAGE_PURCHASEのときOrderIDはUserPackageのIDを指す。
type Transaction struct {
	ID          int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	Code        string            `gorm:"type:varchar(64);not null;uniqueIndex" json:"transactionCode"`
	OrderID     int64             `gorm:"not null;index:idx_tx_order_type" json:"orderId"`
	UserID      int64             `gorm:"not null;index" json:"userId"`
	Type        TransactionType   `gorm:"type:varchar(30);not null;index:idx_tx_order_type" json:"type"`
	Amount      int64             `gorm:"not null" json:"amount"`
	Status      TransactionStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentDate *time.Time        `json:"paymentDate"`
	CreatedAt   time.Time         `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time         `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
