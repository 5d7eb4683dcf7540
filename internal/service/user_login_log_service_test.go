package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/edunext-academy/internal/constants"
	"github.com/edunext-academy/internal/models"
	"github.com/edunext-academy/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserLoginLogServiceTest(t *testing.T) (*UserLoginLogService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:user_login_log_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.UserLoginLog{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewUserLoginLogService(repository.NewUserLoginLogRepository(db)), db
}

func TestRecordNormalizesLoginLog(t *testing.T) {
	svc, db := setupUserLoginLogServiceTest(t)

	err := svc.Record(RecordUserLoginInput{
		UserID:     42,
		Email:      "  MixedCase@Example.COM ",
		Status:     "SUCCESS",
		FailReason: "should be dropped on success",
		ClientIP:   " 10.0.0.1 ",
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}

	var log models.UserLoginLog
	if err := db.First(&log).Error; err != nil {
		t.Fatalf("load log failed: %v", err)
	}
	if log.Email != "mixedcase@example.com" {
		t.Fatalf("email not normalized: %s", log.Email)
	}
	if log.Status != constants.LoginLogStatusSuccess {
		t.Fatalf("status not normalized: %s", log.Status)
	}
	if log.FailReason != "" {
		t.Fatalf("success log must drop fail reason, got %s", log.FailReason)
	}
	if log.ClientIP != "10.0.0.1" {
		t.Fatalf("client ip not trimmed: %q", log.ClientIP)
	}
	if log.LoginSource != constants.LoginLogSourceWeb {
		t.Fatalf("expected default web source, got %s", log.LoginSource)
	}
}

func TestRecordFailureDefaultsReason(t *testing.T) {
	svc, db := setupUserLoginLogServiceTest(t)

	if err := svc.Record(RecordUserLoginInput{Email: "fail@example.com", Status: "nonsense"}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	var log models.UserLoginLog
	if err := db.First(&log).Error; err != nil {
		t.Fatalf("load log failed: %v", err)
	}
	if log.Status != constants.LoginLogStatusFailed {
		t.Fatalf("unknown status must fall back to failed, got %s", log.Status)
	}
	if log.FailReason != constants.LoginLogFailReasonInternalError {
		t.Fatalf("expected default fail reason, got %s", log.FailReason)
	}
}

func TestListByUserScopesToOwner(t *testing.T) {
	svc, _ := setupUserLoginLogServiceTest(t)

	for i := 0; i < 3; i++ {
		if err := svc.Record(RecordUserLoginInput{UserID: 1, Email: "owner@example.com", Status: constants.LoginLogStatusSuccess}); err != nil {
			t.Fatalf("record failed: %v", err)
		}
	}
	if err := svc.Record(RecordUserLoginInput{UserID: 2, Email: "other@example.com", Status: constants.LoginLogStatusSuccess}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	logs, total, err := svc.ListByUser(1, 1, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(logs) != 3 {
		t.Fatalf("expected 3 logs for owner, got total=%d len=%d", total, len(logs))
	}
	for _, log := range logs {
		if log.UserID != 1 {
			t.Fatalf("foreign log leaked: %+v", log)
		}
	}
}

func TestListForAdminFilters(t *testing.T) {
	svc, _ := setupUserLoginLogServiceTest(t)

	if err := svc.Record(RecordUserLoginInput{UserID: 1, Email: "a@example.com", Status: constants.LoginLogStatusSuccess}); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := svc.Record(RecordUserLoginInput{UserID: 0, Email: "b@example.com", Status: "failed", FailReason: constants.LoginLogFailReasonInvalidCredentials}); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	logs, total, err := svc.ListForAdmin(repository.UserLoginLogListFilter{Status: constants.LoginLogStatusFailed, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(logs) != 1 {
		t.Fatalf("expected 1 failed log, got total=%d len=%d", total, len(logs))
	}
	if logs[0].FailReason != constants.LoginLogFailReasonInvalidCredentials {
		t.Fatalf("unexpected fail reason: %s", logs[0].FailReason)
	}
}
