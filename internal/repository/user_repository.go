package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/edunext-academy/internal/constants"
	"github.com/edunext-academy/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	SetVerifyCode(userID uint, code string, expiresAt time.Time) error
	ConsumeVerifyCode(userID uint, code string, verifiedAt time.Time) (bool, error)
	List(filter UserListFilter) ([]models.User, int64, error)
	BatchUpdateStatus(userIDs []uint, status string) error
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// GetByEmail 根据邮箱获取用户
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByID 根据 ID 获取用户
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update 更新用户
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// SetVerifyCode 写入待验证的验证码，覆盖此前未消费的验证码
func (r *GormUserRepository) SetVerifyCode(userID uint, code string, expiresAt time.Time) error {
	return r.db.Model(&models.User{}).
		Where("id = ? AND email_verified_at IS NULL", userID).
		Updates(map[string]interface{}{
			"verify_code":            code,
			"verify_code_expires_at": expiresAt,
			"updated_at":             time.Now(),
		}).Error
}

// ConsumeVerifyCode 原子消费验证码：仅当验证码仍匹配且邮箱未验证时生效。
// 返回 false 表示另一并发请求已抢先消费，或验证码已被覆盖。
func (r *GormUserRepository) ConsumeVerifyCode(userID uint, code string, verifiedAt time.Time) (bool, error) {
	result := r.db.Model(&models.User{}).
		Where("id = ? AND verify_code = ? AND email_verified_at IS NULL", userID, code).
		Updates(map[string]interface{}{
			"verify_code":            nil,
			"verify_code_expires_at": nil,
			"email_verified_at":      verifiedAt,
			"updated_at":             time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// List 用户列表
func (r *GormUserRepository) List(filter UserListFilter) ([]models.User, int64, error) {
	query := r.db.Model(&models.User{})

	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		condition, argCount := buildKeywordLikeCondition(r.db, []string{"email", "name"})
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Verified != nil {
		if *filter.Verified {
			query = query.Where("email_verified_at IS NOT NULL")
		} else {
			query = query.Where("email_verified_at IS NULL")
		}
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var users []models.User
	if err := query.Order("id DESC").Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// BatchUpdateStatus 批量更新用户状态
func (r *GormUserRepository) BatchUpdateStatus(userIDs []uint, status string) error {
	if len(userIDs) == 0 {
		return nil
	}
	now := time.Now()
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": now,
	}
	if strings.ToLower(strings.TrimSpace(status)) == constants.UserStatusSuspended {
		updates["token_invalid_before"] = now
		updates["token_version"] = gorm.Expr("token_version + 1")
	}
	return r.db.Model(&models.User{}).Where("id IN ?", userIDs).Updates(updates).Error
}
