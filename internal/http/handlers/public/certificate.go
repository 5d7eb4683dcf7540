package public

import (
	"strconv"

	"github.com/edunext-academy/internal/http/response"

	"github.com/gin-gonic/gin"
)

// VerifyCertificate 公开核验证书
// 未知核验码与格式非法的核验码返回完全一致的响应。
func (h *Handler) VerifyCertificate(c *gin.Context) {
	result, err := h.CertificateService.Verify(c.Param("code"))
	if err != nil {
		respondError(c, response.CodeInternal, "certificate lookup failed", err)
		return
	}
	response.Success(c, result)
}

// GetMyCertificates 学员查询自己的证书
func (h *Handler) GetMyCertificates(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	certs, total, err := h.CertificateService.ListByStudent(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "fetch certificates failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, certs, pagination)
}
