package repository

import (
	"errors"

	"github.com/edunext-academy/internal/models"

	"gorm.io/gorm"
)

// CertificateRepository 证书数据访问接口
type CertificateRepository interface {
	Create(cert *models.Certificate) error
	GetByVerificationCode(code string) (*models.Certificate, error)
	GetByID(id uint) (*models.Certificate, error)
	List(filter CertificateListFilter) ([]models.Certificate, int64, error)
	ListByStudent(studentID uint, page, pageSize int) ([]models.Certificate, int64, error)
}

// GormCertificateRepository GORM 实现
type GormCertificateRepository struct {
	db *gorm.DB
}

// NewCertificateRepository 创建证书仓库
func NewCertificateRepository(db *gorm.DB) *GormCertificateRepository {
	return &GormCertificateRepository{db: db}
}

// Create 创建证书
func (r *GormCertificateRepository) Create(cert *models.Certificate) error {
	return r.db.Create(cert).Error
}

// GetByVerificationCode 根据核验码获取证书
func (r *GormCertificateRepository) GetByVerificationCode(code string) (*models.Certificate, error) {
	var cert models.Certificate
	if err := r.db.Where("verification_code = ?", code).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cert, nil
}

// GetByID 根据 ID 获取证书
func (r *GormCertificateRepository) GetByID(id uint) (*models.Certificate, error) {
	var cert models.Certificate
	if err := r.db.First(&cert, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cert, nil
}

// List 管理端证书列表
func (r *GormCertificateRepository) List(filter CertificateListFilter) ([]models.Certificate, int64, error) {
	query := r.db.Model(&models.Certificate{})

	if filter.StudentID != 0 {
		query = query.Where("student_id = ?", filter.StudentID)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		condition, argCount := buildKeywordLikeCondition(r.db, []string{"student_name", "program_title", "verification_code"})
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}
	if filter.IssueDateFrom != nil {
		query = query.Where("issue_date >= ?", *filter.IssueDateFrom)
	}
	if filter.IssueDateTo != nil {
		query = query.Where("issue_date <= ?", *filter.IssueDateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var certs []models.Certificate
	if err := query.Order("id DESC").Find(&certs).Error; err != nil {
		return nil, 0, err
	}
	return certs, total, nil
}

// ListByStudent 学员侧查询自己的证书
func (r *GormCertificateRepository) ListByStudent(studentID uint, page, pageSize int) ([]models.Certificate, int64, error) {
	query := r.db.Model(&models.Certificate{}).Where("student_id = ?", studentID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, page, pageSize)

	var certs []models.Certificate
	if err := query.Order("issue_date DESC, id DESC").Find(&certs).Error; err != nil {
		return nil, 0, err
	}
	return certs, total, nil
}
