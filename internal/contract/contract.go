// Package contract holds the JSON shapes shared by the HTTP handlers and the Go client.
package contract

import (
	"time"

	"evmarket/internal/statusview"
)

// 却下理由が空のときのメッセージ
const MsgRejectionNoteRequired = "Vui lòng nhập lý do từ chối!"

const (
	MsgOrderProcessed   = "Order processed"
	MsgProductProcessed = "Product processed"
	MsgPackageProcessed = "Package processed"
	MsgUserProcessed    = "User processed"
)

// 状態（status）フィールドの値
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusPending = "pending"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// Envelope は更新系APIの共通レスポンス。
type Envelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(message string, data interface{}) Envelope {
	return Envelope{Status: StatusSuccess, Message: message, Data: data}
}

type CreatePaymentURLRequest struct {
	OrderID         int64  `json:"orderId" validate:"required,gt=0"`
	TransactionType string `json:"transactionType" validate:"required,oneof=DEPOSIT FINAL_PAYMENT PACKAGE_PURCHASE"`
}

type CreatePaymentURLResponse struct {
	PaymentURL      string `json:"paymentUrl"`
	TransactionCode string `json:"transactionCode"`
}

type TransactionView struct {
	TransactionCode string             `json:"transactionCode"`
	Amount          int64              `json:"amount"`
	OrderID         int64              `json:"orderId"`
	Type            string             `json:"type"`
	Status          string             `json:"status"`
	PaymentDate     *time.Time         `json:"paymentDate"`
	Display         statusview.Display `json:"display"`
}

type TransactionStatusResponse struct {
	Status      string           `json:"status"`
	Transaction *TransactionView `json:"transaction,omitempty"`
}

type MockPaymentResponse struct {
	Status      string          `json:"status"`
	Transaction TransactionView `json:"transaction"`
	ReturnURL   string          `json:"returnUrl"`
}

// ApprovalRequest は承認/却下。approved=false のときnote必須（validatorで検証）。
type ApprovalRequest struct {
	Approved bool   `json:"approved"`
	Note     string `json:"note" validate:"max=1000"`
}

type OrderView struct {
	ID              int64              `json:"id"`
	BuyerID         int64              `json:"buyerId"`
	ProductID       int64              `json:"productId"`
	ProductType     string             `json:"productType"`
	TotalAmount     int64              `json:"totalAmount"`
	DepositAmount   int64              `json:"depositAmount"`
	PaidAmount      int64              `json:"paidAmount"`
	ShippingAddress string             `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	Note            string             `json:"note"`
	Status          string             `json:"status"`
	Display         statusview.Display `json:"display"`
	AllowedActions  []string           `json:"allowedActions"`
	CreatedAt       time.Time          `json:"createdAt"`
}

type ProductView struct {
	ID              int64              `json:"id"`
	SellerID        int64              `json:"sellerId"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	ProductType     string             `json:"productType"`
	Brand           string             `json:"brand"`
	Model           string             `json:"model"`
	Year            int                `json:"year"`
	BatteryCapacity float64            `json:"batteryCapacity"`
	Price           int64              `json:"price"`
	Status          string             `json:"status"`
	InWarehouse     bool               `json:"inWarehouse"`
	RejectionNote   string             `json:"rejectionNote,omitempty"`
	Display         statusview.Display `json:"display"`
	AllowedActions  []string           `json:"allowedActions"`
	CreatedAt       time.Time          `json:"createdAt"`
}

type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// 購入済みパッケージ。期限切れはstatus=EXPIREDとして返す。
type UserPackageView struct {
	ID             int64              `json:"id"`
	PackageID      int64              `json:"packageId"`
	Type           string             `json:"type"`
	Price          int64              `json:"price"`
	ListingQuota   int                `json:"listingQuota"`
	RemainingSlots int                `json:"remainingSlots"`
	Status         string             `json:"status"`
	PurchasedAt    *time.Time         `json:"purchasedAt,omitempty"`
	ExpiresAt      *time.Time         `json:"expiresAt,omitempty"`
	Display        statusview.Display `json:"display"`
}
