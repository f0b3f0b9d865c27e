package model

import "time"

// 注文承認、商品ステータス更新など。
type AuditAction string

const (
	//注文ステータスを更新した操作。
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	//商品ステータスを更新した操作。
	AuditActionUpdateProductStatus AuditAction = "UPDATE_PRODUCT_STATUS"
	//倉庫の出し入れ
	AuditActionUpdateWarehouse AuditAction = "UPDATE_WAREHOUSE"
	AuditActionUpdatePackage   AuditAction = "UPDATE_PACKAGE"
	AuditActionUpdateUser      AuditAction = "UPDATE_USER"
	//支払い確定
	AuditActionConfirmPayment AuditAction = "CONFIRM_PAYMENT"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceOrder       AuditResourceType = "order"
	AuditResourceProduct     AuditResourceType = "product"
	AuditResourcePackage     AuditResourceType = "package"
	AuditResourceUser        AuditResourceType = "user"
	AuditResourceTransaction AuditResourceType = "transaction"
)

// 監査ログ（スタッフ・管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したユーザーのID。システム操作（決済コールバック）は0。
	ActorUserID int64 `gorm:"not null;index" json:"actorUserId"`

	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resourceType"`

	ResourceID int64 `gorm:"not null;index" json:"resourceId"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"beforeJson"`
	AfterJSON  string `gorm:"type:text" json:"afterJson"`

	//理由（却下理由など）
	Note string `gorm:"type:text" json:"note"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}
