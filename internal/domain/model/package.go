package model

import (
	"time"

	"gorm.io/gorm"
)

type PackageType string

const (
	PackageTypeCar     PackageType = "CAR"
	PackageTypeBattery PackageType = "BATTERY"
)

func ParsePackageType(s string) (PackageType, bool) {
	switch PackageType(s) {
	case PackageTypeCar, PackageTypeBattery:
		return PackageType(s), true
	}
	return "", false
}

// 出品する商品種別に対応するパッケージ種別
func PackageTypeFor(pt ProductType) PackageType {
	if pt == ProductTypeBattery {
		return PackageTypeBattery
	}
	return PackageTypeCar
}

// サービスパッケージ（出品枠）
type Package struct {
	ID           int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	Type         PackageType    `gorm:"type:varchar(20);not null;index" json:"type"`
	Price        int64          `gorm:"not null" json:"price"`
	DurationDays int            `gorm:"not null" json:"durationDays"`
	ListingQuota int            `gorm:"not null" json:"listingQuota"`
	IsActive     bool           `gorm:"not null;default:true" json:"isActive"`
	CreatedAt    time.Time      `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time      `gorm:"not null;autoUpdateTime" json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

type UserPackageStatus string

const (
	UserPackageStatusAwaitingPayment UserPackageStatus = "CHO_THANH_TOAN"
	UserPackageStatusActive          UserPackageStatus = "ACTIVE"
)

// 購入済みパッケージ。期限切れは日付比較のみで判定する。
type UserPackage struct {
	ID             int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64             `gorm:"not null;index" json:"userId"`
	PackageID      int64             `gorm:"not null;index" json:"packageId"`
	Type           PackageType       `gorm:"type:varchar(20);not null;index" json:"type"`
	Price          int64             `gorm:"not null" json:"price"`
	DurationDays   int               `gorm:"not null" json:"durationDays"`
	ListingQuota   int               `gorm:"not null" json:"listingQuota"`
	RemainingSlots int               `gorm:"not null;default:0" json:"remainingSlots"`
	Status         UserPackageStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	PurchasedAt    *time.Time        `json:"purchasedAt,omitempty"`
	ExpiresAt      *time.Time        `gorm:"index" json:"expiresAt,omitempty"`
	CreatedAt      time.Time         `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time         `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (p UserPackage) IsExpired(now time.Time) bool {
	return p.ExpiresAt == nil || !p.ExpiresAt.After(now)
}

// 出品に使えるか
func (p UserPackage) Usable(now time.Time) bool {
	return p.Status == UserPackageStatusActive && !p.IsExpired(now) && p.RemainingSlots > 0
}
