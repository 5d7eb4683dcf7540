package admin

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/edunext-academy/internal/http/response"
	"github.com/edunext-academy/internal/repository"
	"github.com/edunext-academy/internal/service"

	"github.com/gin-gonic/gin"
)

// BatchUpdateUserStatusRequest 批量更新用户状态请求
type BatchUpdateUserStatusRequest struct {
	UserIDs []uint `json:"user_ids" binding:"required"`
	Status  string `json:"status" binding:"required"`
}

// GetAdminUsers 获取用户列表
func (h *Handler) GetAdminUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	keyword := strings.TrimSpace(c.Query("keyword"))
	role := strings.TrimSpace(c.Query("role"))
	status := strings.TrimSpace(c.Query("status"))

	var verified *bool
	if raw := strings.TrimSpace(c.Query("verified")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "bad request", err)
			return
		}
		verified = &parsed
	}

	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	users, total, err := h.UserAdminService.List(repository.UserListFilter{
		Page:        page,
		PageSize:    pageSize,
		Keyword:     keyword,
		Role:        role,
		Status:      status,
		Verified:    verified,
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "fetch users failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, users, pagination)
}

// GetAdminUser 获取用户详情
func (h *Handler) GetAdminUser(c *gin.Context) {
	rawID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || rawID == 0 {
		respondError(c, response.CodeBadRequest, "invalid user id", nil)
		return
	}

	user, err := h.UserRepo.GetByID(uint(rawID))
	if err != nil {
		respondError(c, response.CodeInternal, "fetch user failed", err)
		return
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "user not found", nil)
		return
	}

	response.Success(c, user)
}

// BatchUpdateUserStatus 批量更新用户状态
// 封禁会使该用户的历史令牌全部失效。
func (h *Handler) BatchUpdateUserStatus(c *gin.Context) {
	var req BatchUpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	if len(req.UserIDs) == 0 {
		respondError(c, response.CodeBadRequest, "bad request", nil)
		return
	}

	if err := h.UserAdminService.BatchUpdateStatus(req.UserIDs, req.Status); err != nil {
		if errors.Is(err, service.ErrUserStatusInvalid) {
			respondError(c, response.CodeBadRequest, "invalid user status", nil)
			return
		}
		respondError(c, response.CodeInternal, "update users failed", err)
		return
	}

	response.Success(c, gin.H{"updated": len(req.UserIDs)})
}

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
