package queue

import (
	"encoding/json"

	"github.com/edunext-academy/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskVerifyCodeEmail 邮箱验证码发送任务
	TaskVerifyCodeEmail = constants.TaskVerifyCodeEmail
	// TaskCertificateIssueEmail 证书签发通知任务
	TaskCertificateIssueEmail = constants.TaskCertificateIssueEmail
)

// VerifyCodeEmailPayload 邮箱验证码任务载荷
type VerifyCodeEmailPayload struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Code   string `json:"code"`
}

// CertificateIssueEmailPayload 证书签发通知任务载荷
type CertificateIssueEmailPayload struct {
	CertificateID uint `json:"certificate_id"`
}

// NewVerifyCodeEmailTask 创建邮箱验证码任务
func NewVerifyCodeEmailTask(payload VerifyCodeEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskVerifyCodeEmail, body), nil
}

// NewCertificateIssueEmailTask 创建证书签发通知任务
func NewCertificateIssueEmailTask(payload CertificateIssueEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCertificateIssueEmail, body), nil
}
