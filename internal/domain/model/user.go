package model

import "time"

type Role string

const (
	RoleMember  Role = "MEMBER"
	RoleStaff   Role = "STAFF"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole は文字列からRoleへ変換する。未知の値はfalse。
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleMember, RoleStaff, RoleManager, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

type User struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	FullName     string     `gorm:"type:varchar(255)" json:"fullName"`
	Phone        string     `gorm:"type:varchar(30)" json:"phone"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'MEMBER'" json:"role"`
	TokenVersion int        `gorm:"not null;default:0" json:"tokenVersion"`
	IsActive     bool       `gorm:"not null;default:true" json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
