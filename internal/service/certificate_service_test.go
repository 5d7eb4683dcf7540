package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/edunext-academy/internal/constants"
	"github.com/edunext-academy/internal/models"
	"github.com/edunext-academy/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupCertificateServiceTest(t *testing.T) (*CertificateService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:certificate_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Certificate{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	certRepo := repository.NewCertificateRepository(db)
	userRepo := repository.NewUserRepository(db)
	return NewCertificateService(certRepo, userRepo, nil), db
}

func createCertTestStudent(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()

	now := time.Now()
	user := &models.User{
		Name:            name,
		Email:           email,
		PasswordHash:    "x",
		Role:            constants.UserRoleStudent,
		Status:          constants.UserStatusActive,
		EmailVerifiedAt: &now,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create student failed: %v", err)
	}
	return user
}

func TestIssueCertificateSnapshotsStudentName(t *testing.T) {
	svc, db := setupCertificateServiceTest(t)
	student := createCertTestStudent(t, db, "Original Name", "snapshot@example.com")

	cert, err := svc.Issue(IssueCertificateInput{
		StudentID:    student.ID,
		ProgramTitle: "Go Backend Engineering",
		IssueDate:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		IssuedBy:     99,
	})
	if err != nil {
		t.Fatalf("issue certificate failed: %v", err)
	}
	if cert.StudentName != "Original Name" {
		t.Fatalf("expected name snapshot, got %s", cert.StudentName)
	}
	if cert.VerificationCode == "" {
		t.Fatalf("expected verification code generated")
	}

	// 学员改名后，已签发证书上的姓名保持签发时刻的快照
	if err := db.Model(student).Update("name", "Renamed Later").Error; err != nil {
		t.Fatalf("rename student failed: %v", err)
	}
	result, err := svc.Verify(cert.VerificationCode)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !result.IsValid {
		t.Fatalf("expected valid certificate")
	}
	if result.StudentName != "Original Name" {
		t.Fatalf("expected snapshot name on verify, got %s", result.StudentName)
	}
	if result.IssueDate != "2026-03-01" {
		t.Fatalf("expected issue date 2026-03-01, got %s", result.IssueDate)
	}
}

func TestIssueCertificateRejectsUnknownStudent(t *testing.T) {
	svc, _ := setupCertificateServiceTest(t)

	_, err := svc.Issue(IssueCertificateInput{StudentID: 12345, ProgramTitle: "Ghost Program"})
	if !errors.Is(err, ErrCertificateStudentInvalid) {
		t.Fatalf("expected ErrCertificateStudentInvalid, got %v", err)
	}
}

func TestIssueCertificateRejectsEmptyTitle(t *testing.T) {
	svc, db := setupCertificateServiceTest(t)
	student := createCertTestStudent(t, db, "Titleless", "title@example.com")

	_, err := svc.Issue(IssueCertificateInput{StudentID: student.ID, ProgramTitle: "   "})
	if !errors.Is(err, ErrCertificateInputInvalid) {
		t.Fatalf("expected ErrCertificateInputInvalid, got %v", err)
	}
}

func TestVerifyUnknownAndMalformedCodesLookIdentical(t *testing.T) {
	svc, _ := setupCertificateServiceTest(t)

	unknown, err := svc.Verify("ABCDEF0123456789ABCDEF0123456789")
	if err != nil {
		t.Fatalf("verify unknown failed: %v", err)
	}
	malformed, err := svc.Verify("not a code!!")
	if err != nil {
		t.Fatalf("verify malformed failed: %v", err)
	}
	empty, err := svc.Verify("   ")
	if err != nil {
		t.Fatalf("verify empty failed: %v", err)
	}

	for _, result := range []*CertificateVerifyResult{unknown, malformed, empty} {
		if result.IsValid {
			t.Fatalf("expected invalid result, got %+v", result)
		}
		if result.StudentName != "" || result.ProgramTitle != "" || result.IssueDate != "" || result.VerificationCode != "" {
			t.Fatalf("invalid results must not leak any detail: %+v", result)
		}
	}
	if *unknown != *malformed || *malformed != *empty {
		t.Fatalf("invalid results must be indistinguishable: %+v %+v %+v", unknown, malformed, empty)
	}
}

func TestListByStudentOnlyReturnsOwnCertificates(t *testing.T) {
	svc, db := setupCertificateServiceTest(t)
	alice := createCertTestStudent(t, db, "Alice", "alice-cert@example.com")
	bob := createCertTestStudent(t, db, "Bob", "bob-cert@example.com")

	for i := 0; i < 3; i++ {
		if _, err := svc.Issue(IssueCertificateInput{StudentID: alice.ID, ProgramTitle: fmt.Sprintf("Program %d", i)}); err != nil {
			t.Fatalf("issue failed: %v", err)
		}
	}
	if _, err := svc.Issue(IssueCertificateInput{StudentID: bob.ID, ProgramTitle: "Bob Only"}); err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	certs, total, err := svc.ListByStudent(alice.ID, 1, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(certs) != 3 {
		t.Fatalf("expected 3 certificates for alice, got total=%d len=%d", total, len(certs))
	}
	for _, cert := range certs {
		if cert.StudentID != alice.ID {
			t.Fatalf("unexpected certificate of student %d in alice's list", cert.StudentID)
		}
	}
}

func TestListForAdminFiltersByKeyword(t *testing.T) {
	svc, db := setupCertificateServiceTest(t)
	student := createCertTestStudent(t, db, "Keyword Student", "keyword@example.com")

	if _, err := svc.Issue(IssueCertificateInput{StudentID: student.ID, ProgramTitle: "Distributed Systems"}); err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := svc.Issue(IssueCertificateInput{StudentID: student.ID, ProgramTitle: "Linear Algebra"}); err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	certs, total, err := svc.ListForAdmin(repository.CertificateListFilter{Keyword: "Distributed"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(certs) != 1 {
		t.Fatalf("expected 1 match, got total=%d len=%d", total, len(certs))
	}
	if certs[0].ProgramTitle != "Distributed Systems" {
		t.Fatalf("unexpected match: %s", certs[0].ProgramTitle)
	}
}
