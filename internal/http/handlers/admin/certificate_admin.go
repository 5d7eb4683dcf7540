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

// IssueCertificateRequest 证书签发请求
type IssueCertificateRequest struct {
	StudentID    uint   `json:"student_id" binding:"required"`
	ProgramTitle string `json:"program_title" binding:"required"`
	IssueDate    string `json:"issue_date"`
	Notify       bool   `json:"notify"`
}

// IssueCertificate 签发证书
// 核验码由服务端生成，签发后不可变更。
func (h *Handler) IssueCertificate(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}

	var req IssueCertificateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	var issueDate time.Time
	if raw := strings.TrimSpace(req.IssueDate); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid issue date", err)
			return
		}
		issueDate = parsed
	}

	cert, err := h.CertificateService.Issue(service.IssueCertificateInput{
		StudentID:    req.StudentID,
		ProgramTitle: req.ProgramTitle,
		IssueDate:    issueDate,
		IssuedBy:     adminID,
		Notify:       req.Notify,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCertificateInputInvalid):
			respondError(c, response.CodeBadRequest, "invalid certificate input", nil)
		case errors.Is(err, service.ErrCertificateStudentInvalid):
			respondError(c, response.CodeBadRequest, "student not found", nil)
		default:
			respondError(c, response.CodeInternal, "issue certificate failed", err)
		}
		return
	}

	response.Success(c, cert)
}

// GetAdminCertificates 获取证书列表
func (h *Handler) GetAdminCertificates(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	var studentID uint
	if raw := strings.TrimSpace(c.Query("student_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "bad request", err)
			return
		}
		studentID = uint(parsed)
	}

	issueDateFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("issue_date_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	issueDateTo, err := parseTimeNullable(strings.TrimSpace(c.Query("issue_date_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	certs, total, err := h.CertificateService.ListForAdmin(repository.CertificateListFilter{
		Page:          page,
		PageSize:      pageSize,
		StudentID:     studentID,
		Keyword:       strings.TrimSpace(c.Query("keyword")),
		IssueDateFrom: issueDateFrom,
		IssueDateTo:   issueDateTo,
	})
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
