package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID                  uint           `gorm:"primarykey" json:"id"`              // 主键
	Name                string         `gorm:"not null" json:"name"`              // 姓名
	Email               string         `gorm:"uniqueIndex;not null" json:"email"` // 邮箱（统一小写存储）
	PasswordHash        string         `gorm:"not null" json:"-"`                 // 密码哈希（不返回给前端）
	Role                string         `gorm:"default:'student'" json:"role"`     // 角色（student/admin）
	Status              string         `gorm:"default:'active'" json:"status"`    // 账号状态（active/suspended）
	VerifyCode          *string        `gorm:"type:varchar(16)" json:"-"`         // 待验证的邮箱验证码
	VerifyCodeExpiresAt *time.Time     `gorm:"index" json:"-"`                    // 验证码过期时间（与验证码同生同灭）
	EmailVerifiedAt     *time.Time     `json:"email_verified_at"`                 // 邮箱验证时间
	TokenVersion        uint64         `gorm:"not null;default:0" json:"-"`       // Token 版本（用于全量失效）
	TokenInvalidBefore  *time.Time     `gorm:"index" json:"-"`                    // 该时间点前签发的 Token 失效
	LastLoginAt         *time.Time     `json:"last_login_at"`                     // 最后登录时间
	CreatedAt           time.Time      `gorm:"index" json:"created_at"`           // 创建时间
	UpdatedAt           time.Time      `gorm:"index" json:"updated_at"`           // 更新时间
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`                    // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsVerified 邮箱是否已验证
func (u *User) IsVerified() bool {
	return u.EmailVerifiedAt != nil
}
