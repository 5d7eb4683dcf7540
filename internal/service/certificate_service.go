package service

import (
	"strings"
	"time"

	"github.com/edunext-academy/internal/logger"
	"github.com/edunext-academy/internal/models"
	"github.com/edunext-academy/internal/queue"
	"github.com/edunext-academy/internal/repository"

	"github.com/google/uuid"
)

// CertificateService 证书服务
type CertificateService struct {
	certRepo    repository.CertificateRepository
	userRepo    repository.UserRepository
	queueClient *queue.Client
}

// NewCertificateService 创建证书服务
func NewCertificateService(certRepo repository.CertificateRepository, userRepo repository.UserRepository, queueClient *queue.Client) *CertificateService {
	return &CertificateService{
		certRepo:    certRepo,
		userRepo:    userRepo,
		queueClient: queueClient,
	}
}

// CertificateVerifyResult 公开核验结果
// 未知核验码与格式非法的核验码返回完全相同的结构，不暴露任何差异。
type CertificateVerifyResult struct {
	IsValid          bool   `json:"is_valid"`
	StudentName      string `json:"student_name,omitempty"`
	ProgramTitle     string `json:"program_title,omitempty"`
	IssueDate        string `json:"issue_date,omitempty"`
	VerificationCode string `json:"verification_code,omitempty"`
}

// Verify 公开核验证书
// 纯读操作，不记录核验行为，也不修改任何状态。
func (s *CertificateService) Verify(code string) (*CertificateVerifyResult, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return &CertificateVerifyResult{IsValid: false}, nil
	}

	cert, err := s.certRepo.GetByVerificationCode(trimmed)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return &CertificateVerifyResult{IsValid: false}, nil
	}

	return &CertificateVerifyResult{
		IsValid:          true,
		StudentName:      cert.StudentName,
		ProgramTitle:     cert.ProgramTitle,
		IssueDate:        cert.IssueDate.Format("2006-01-02"),
		VerificationCode: cert.VerificationCode,
	}, nil
}

// IssueCertificateInput 证书签发输入
type IssueCertificateInput struct {
	StudentID    uint
	ProgramTitle string
	IssueDate    time.Time
	IssuedBy     uint
	Notify       bool
}

// Issue 签发证书
// 学员姓名在此刻快照；核验码随机生成且签发后不可变。
func (s *CertificateService) Issue(input IssueCertificateInput) (*models.Certificate, error) {
	title := strings.TrimSpace(input.ProgramTitle)
	if input.StudentID == 0 || title == "" {
		return nil, ErrCertificateInputInvalid
	}

	student, err := s.userRepo.GetByID(input.StudentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrCertificateStudentInvalid
	}

	issueDate := input.IssueDate
	if issueDate.IsZero() {
		issueDate = time.Now()
	}

	cert := &models.Certificate{
		StudentID:        student.ID,
		StudentName:      student.Name,
		ProgramTitle:     title,
		IssueDate:        issueDate,
		VerificationCode: newVerificationCode(),
		IssuedBy:         input.IssuedBy,
	}
	if err := s.certRepo.Create(cert); err != nil {
		return nil, err
	}

	if input.Notify && s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueCertificateIssueEmail(queue.CertificateIssueEmailPayload{CertificateID: cert.ID}); err != nil {
			logger.Warnw("certificate_issue_email_enqueue_failed", "certificate_id", cert.ID, "error", err)
		}
	}
	return cert, nil
}

// ListForAdmin 管理端证书列表
func (s *CertificateService) ListForAdmin(filter repository.CertificateListFilter) ([]models.Certificate, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	return s.certRepo.List(filter)
}

// ListByStudent 学员侧查询自己的证书
func (s *CertificateService) ListByStudent(studentID uint, page, pageSize int) ([]models.Certificate, int64, error) {
	if studentID == 0 {
		return []models.Certificate{}, 0, nil
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return s.certRepo.ListByStudent(studentID, page, pageSize)
}

func newVerificationCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
}
