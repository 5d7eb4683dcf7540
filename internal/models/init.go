package models

import (
	"strings"
	"time"

	"github.com/edunext-academy/internal/constants"
	"github.com/edunext-academy/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultAdmin 初始化默认管理员账号
// 说明：仅在不存在任何管理员用户时创建；默认管理员视为已完成邮箱验证。
func InitDefaultAdmin(name, email, password string) error {
	var count int64
	DB.Model(&User{}).Where("role = ?", constants.UserRoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	if name == "" {
		name = "Administrator"
	}
	if email == "" {
		email = "admin@edunext.local"
	}
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	admin := User{
		Name:            name,
		Email:           strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:    string(hash),
		Role:            constants.UserRoleAdmin,
		Status:          constants.UserStatusActive,
		EmailVerifiedAt: &now,
	}

	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if password == "admin123" {
		logger.Warnw("default_admin_created_with_default_password", "email", admin.Email)
		logger.Warnw("default_admin_password_change_required", "email", admin.Email)
	} else {
		logger.Warnw("default_admin_created", "email", admin.Email, "password_hidden", true)
	}

	return nil
}
