package models

import (
	"time"

	"gorm.io/gorm"
)

// Certificate 结业证书
// 说明：student_name 在签发时快照，后续用户改名不影响已签发证书的核验结果。
type Certificate struct {
	ID               uint           `gorm:"primarykey" json:"id"`                                       // 主键
	StudentID        uint           `gorm:"index;not null" json:"student_id"`                           // 学员用户ID
	StudentName      string         `gorm:"not null" json:"student_name"`                               // 学员姓名快照
	ProgramTitle     string         `gorm:"not null" json:"program_title"`                              // 项目/课程名称
	IssueDate        time.Time      `gorm:"index;not null" json:"issue_date"`                           // 签发日期
	VerificationCode string         `gorm:"uniqueIndex;type:varchar(64);not null" json:"verification_code"` // 核验码（签发后不可变）
	IssuedBy         uint           `gorm:"index" json:"issued_by"`                                     // 签发管理员ID
	CreatedAt        time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt        time.Time      `gorm:"index" json:"updated_at"`                                    // 更新时间
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间
}

// TableName 指定表名
func (Certificate) TableName() string {
	return "certificates"
}
