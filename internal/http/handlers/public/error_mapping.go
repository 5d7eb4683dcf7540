package public

import (
	"errors"

	"github.com/edunext-academy/internal/http/response"
	"github.com/edunext-academy/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var registerErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: "invalid email address"},
	{target: service.ErrEmailExists, code: response.CodeBadRequest, msg: "email already registered"},
	{target: service.ErrVerifyCodeTooFrequent, code: response.CodeTooManyRequests, msg: "verification code requested too frequently"},
	{target: service.ErrEmailRecipientRejected, code: response.CodeBadRequest, msg: "email recipient not reachable"},
	{target: service.ErrEmailServiceDisabled, code: response.CodeInternal, msg: "email service not configured"},
	{target: service.ErrEmailServiceNotConfigured, code: response.CodeInternal, msg: "email service not configured"},
}

var verifyCodeErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: "invalid email address"},
	{target: service.ErrNotFound, code: response.CodeNotFound, msg: "user not found"},
	{target: service.ErrEmailAlreadyVerified, code: response.CodeBadRequest, msg: "email already verified"},
	{target: service.ErrVerifyCodeInvalid, code: response.CodeBadRequest, msg: "verification code invalid"},
	{target: service.ErrVerifyCodeExpired, code: response.CodeBadRequest, msg: "verification code expired"},
	{target: service.ErrVerifyCodeTooFrequent, code: response.CodeTooManyRequests, msg: "verification code requested too frequently"},
	{target: service.ErrEmailRecipientRejected, code: response.CodeBadRequest, msg: "email recipient not reachable"},
	{target: service.ErrEmailServiceDisabled, code: response.CodeInternal, msg: "email service not configured"},
	{target: service.ErrEmailServiceNotConfigured, code: response.CodeInternal, msg: "email service not configured"},
}

var loginErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: "invalid email address"},
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, msg: "email or password incorrect"},
	{target: service.ErrEmailNotVerified, code: response.CodeForbidden, msg: "email not verified"},
	{target: service.ErrUserSuspended, code: response.CodeForbidden, msg: "account suspended"},
}
