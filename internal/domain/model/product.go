package model

import "time"

type ProductStatus string

const (
	ProductStatusPendingReview     ProductStatus = "CHO_DUYET"
	ProductStatusPendingInspection ProductStatus = "CHO_KIEM_DUYET"
	ProductStatusApproved          ProductStatus = "DA_DUYET"
	ProductStatusOnSale            ProductStatus = "DANG_BAN"
	ProductStatusSold              ProductStatus = "DA_BAN"
	ProductStatusRejected          ProductStatus = "BI_TU_CHOI"
	ProductStatusFailedInspection  ProductStatus = "KHONG_DAT_KIEM_DINH"
	ProductStatusExpired           ProductStatus = "HET_HAN"
	ProductStatusRemoved           ProductStatus = "REMOVED_FROM_WAREHOUSE"
)

var productStatuses = []ProductStatus{
	ProductStatusPendingReview,
	ProductStatusPendingInspection,
	ProductStatusApproved,
	ProductStatusOnSale,
	ProductStatusSold,
	ProductStatusRejected,
	ProductStatusFailedInspection,
	ProductStatusExpired,
	ProductStatusRemoved,
}

func ParseProductStatus(s string) (ProductStatus, bool) {
	for _, st := range productStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// 出品（車両・バッテリー）
type Product struct {
	ID              int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	SellerID        int64         `gorm:"not null;index" json:"sellerId"`
	Title           string        `gorm:"type:varchar(255);not null" json:"title"`
	Description     string        `gorm:"type:text" json:"description"`
	Type            ProductType   `gorm:"type:varchar(20);not null;index" json:"productType"`
	Brand           string        `gorm:"type:varchar(100)" json:"brand"`
	Model           string        `gorm:"type:varchar(100)" json:"model"`
	Year            int           `json:"year"`
	BatteryCapacity float64       `json:"batteryCapacity"`
	Price           int64         `gorm:"not null" json:"price"`
	Status          ProductStatus `gorm:"type:varchar(30);not null;index" json:"status"`
	InWarehouse     bool          `gorm:"not null;default:false;index" json:"inWarehouse"`
	RejectionNote   string        `gorm:"type:text" json:"rejectionNote,omitempty"`
	CreatedAt       time.Time     `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time     `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
