package service

import (
	"context"
	"strings"

	"github.com/edunext-academy/internal/cache"
	"github.com/edunext-academy/internal/constants"
	"github.com/edunext-academy/internal/models"
	"github.com/edunext-academy/internal/repository"
)

// UserAdminService 管理端用户服务
type UserAdminService struct {
	userRepo repository.UserRepository
}

// NewUserAdminService 创建管理端用户服务
func NewUserAdminService(userRepo repository.UserRepository) *UserAdminService {
	return &UserAdminService{userRepo: userRepo}
}

// List 用户列表
func (s *UserAdminService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	return s.userRepo.List(filter)
}

// BatchUpdateStatus 批量更新用户状态
// 封禁时仓库层会提升 token_version，这里同步清掉鉴权快照让旧 Token 立即失效。
func (s *UserAdminService) BatchUpdateStatus(userIDs []uint, status string) error {
	normalized := strings.ToLower(strings.TrimSpace(status))
	switch normalized {
	case constants.UserStatusActive, constants.UserStatusSuspended:
	default:
		return ErrUserStatusInvalid
	}
	if len(userIDs) == 0 {
		return nil
	}
	if err := s.userRepo.BatchUpdateStatus(userIDs, normalized); err != nil {
		return err
	}
	for _, id := range userIDs {
		_ = cache.DelUserAuthState(context.Background(), id)
	}
	return nil
}
