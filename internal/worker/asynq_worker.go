package worker

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/edunext-academy/internal/logger"
	"github.com/edunext-academy/internal/provider"
	"github.com/edunext-academy/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskVerifyCodeEmail, c.handleVerifyCodeEmail)
	mux.HandleFunc(queue.TaskCertificateIssueEmail, c.handleCertificateIssueEmail)
}

func (c *Consumer) handleVerifyCodeEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_verify_code_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.VerifyCodeEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_verify_code_email_unmarshal_failed", "error", err)
		return err
	}
	email := strings.TrimSpace(payload.Email)
	code := strings.TrimSpace(payload.Code)
	if email == "" || code == "" {
		logger.Debugw("worker_verify_code_email_skip_invalid_payload", "user_id", payload.UserID)
		return nil
	}
	if payload.UserID != 0 {
		// 验证码可能已被重发覆盖，过期任务直接丢弃
		user, err := c.UserRepo.GetByID(payload.UserID)
		if err != nil {
			logger.Warnw("worker_verify_code_email_fetch_user_failed", "user_id", payload.UserID, "error", err)
			return err
		}
		if user == nil || user.IsVerified() {
			logger.Debugw("worker_verify_code_email_skip_user_state", "user_id", payload.UserID)
			return nil
		}
		if user.VerifyCode == nil || *user.VerifyCode != code {
			logger.Debugw("worker_verify_code_email_skip_superseded", "user_id", payload.UserID)
			return nil
		}
	}
	if c.EmailService == nil {
		logger.Warnw("worker_verify_code_email_skip_email_service_nil", "user_id", payload.UserID)
		return nil
	}
	if err := c.EmailService.SendVerifyCodeEmail(email, code); err != nil {
		logger.Warnw("worker_verify_code_email_send_failed",
			"user_id", payload.UserID,
			"email", email,
			"error", err,
		)
		return err
	}
	return nil
}

func (c *Consumer) handleCertificateIssueEmail(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_certificate_email_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CertificateIssueEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_certificate_email_unmarshal_failed", "error", err)
		return err
	}
	if payload.CertificateID == 0 {
		logger.Debugw("worker_certificate_email_skip_invalid_payload", "certificate_id", payload.CertificateID)
		return nil
	}
	cert, err := c.CertificateRepo.GetByID(payload.CertificateID)
	if err != nil {
		logger.Warnw("worker_certificate_email_fetch_failed", "certificate_id", payload.CertificateID, "error", err)
		return err
	}
	if cert == nil {
		logger.Debugw("worker_certificate_email_skip_not_found", "certificate_id", payload.CertificateID)
		return nil
	}
	user, err := c.UserRepo.GetByID(cert.StudentID)
	if err != nil {
		logger.Warnw("worker_certificate_email_fetch_user_failed", "certificate_id", cert.ID, "student_id", cert.StudentID, "error", err)
		return err
	}
	if user == nil || strings.TrimSpace(user.Email) == "" {
		logger.Debugw("worker_certificate_email_skip_empty_receiver", "certificate_id", cert.ID)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_certificate_email_skip_email_service_nil", "certificate_id", cert.ID)
		return nil
	}
	if err := c.EmailService.SendCertificateIssuedEmail(user.Email, cert); err != nil {
		logger.Warnw("worker_certificate_email_send_failed",
			"certificate_id", cert.ID,
			"receiver_email", user.Email,
			"error", err,
		)
		return err
	}
	return nil
}
