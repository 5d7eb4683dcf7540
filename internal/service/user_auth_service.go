package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/edunext-academy/internal/cache"
	"github.com/edunext-academy/internal/config"
	"github.com/edunext-academy/internal/constants"
	"github.com/edunext-academy/internal/logger"
	"github.com/edunext-academy/internal/models"
	"github.com/edunext-academy/internal/queue"
	"github.com/edunext-academy/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserAuthService 用户认证服务
type UserAuthService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	emailService *EmailService
	queueClient  *queue.Client
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository, emailService *EmailService, queueClient *queue.Client) *UserAuthService {
	return &UserAuthService{
		cfg:          cfg,
		userRepo:     userRepo,
		emailService: emailService,
		queueClient:  queueClient,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateUserJWT 生成用户 JWT Token
func (s *UserAuthService) GenerateUserJWT(user *models.User, expireHours int) (string, time.Time, error) {
	resolvedHours := expireHours
	if resolvedHours <= 0 {
		resolvedHours = resolveJWTExpireHours(s.cfg.JWT)
	}
	expiresAt := time.Now().Add(time.Duration(resolvedHours) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// Register 用户注册
// 注册后账号处于未验证状态，需通过邮箱验证码激活后才能登录。
func (s *UserAuthService) Register(name, email, password string) (*models.User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, password); err != nil {
		return nil, err
	}

	exist, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	resolvedName := strings.TrimSpace(name)
	if resolvedName == "" {
		resolvedName = resolveNameFromEmail(normalized)
	}

	now := time.Now()
	user := &models.User{
		Name:         resolvedName,
		Email:        normalized,
		PasswordHash: string(hashedPassword),
		Role:         constants.UserRoleStudent,
		Status:       constants.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	if err := s.issueVerifyCode(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ResendVerifyCode 重新发送邮箱验证码
// 新验证码覆盖旧验证码，旧验证码随即失效。
func (s *UserAuthService) ResendVerifyCode(email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if user.IsVerified() {
		return ErrEmailAlreadyVerified
	}

	if user.VerifyCodeExpiresAt != nil {
		// 验证码发送时间由过期时间反推，避免额外的时间戳字段
		expireMinutes := resolveExpireMinutes(s.cfg.Email.VerifyCode)
		sentAt := user.VerifyCodeExpiresAt.Add(-time.Duration(expireMinutes) * time.Minute)
		interval := time.Duration(resolveSendIntervalSeconds(s.cfg.Email.VerifyCode)) * time.Second
		if time.Since(sentAt) < interval {
			return ErrVerifyCodeTooFrequent
		}
	}

	return s.issueVerifyCode(user)
}

// VerifyEmail 校验邮箱验证码并激活账号
// 验证码一次性消费：并发验证只有一个请求成功，重放一律失败。
func (s *UserAuthService) VerifyEmail(email, code string) (*models.User, string, time.Time, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrNotFound
	}
	if user.IsVerified() {
		return nil, "", time.Time{}, ErrEmailAlreadyVerified
	}
	if user.VerifyCode == nil || user.VerifyCodeExpiresAt == nil {
		return nil, "", time.Time{}, ErrVerifyCodeInvalid
	}

	now := time.Now()
	if user.VerifyCodeExpiresAt.Before(now) {
		return nil, "", time.Time{}, ErrVerifyCodeExpired
	}

	submitted := strings.TrimSpace(code)
	if subtle.ConstantTimeCompare([]byte(*user.VerifyCode), []byte(submitted)) != 1 {
		return nil, "", time.Time{}, ErrVerifyCodeInvalid
	}

	consumed, err := s.userRepo.ConsumeVerifyCode(user.ID, submitted, now)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if !consumed {
		// 并发验证被抢先，或验证码刚被重发覆盖
		return nil, "", time.Time{}, ErrVerifyCodeInvalid
	}

	user.VerifyCode = nil
	user.VerifyCodeExpiresAt = nil
	user.EmailVerifiedAt = &now

	token, expiresAt, err := s.GenerateUserJWT(user, 0)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, token, expiresAt, nil
}

// Login 用户登录
func (s *UserAuthService) Login(email, password string) (*models.User, string, time.Time, error) {
	return s.LoginWithRememberMe(email, password, false)
}

// LoginWithRememberMe 用户登录（支持记住我）
func (s *UserAuthService) LoginWithRememberMe(email, password string, rememberMe bool) (*models.User, string, time.Time, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, "", time.Time{}, ErrUserSuspended
	}
	if !user.IsVerified() {
		return nil, "", time.Time{}, ErrEmailNotVerified
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	expireHours := resolveJWTExpireHours(s.cfg.JWT)
	if rememberMe {
		expireHours = resolveRememberMeExpireHours(s.cfg.JWT)
	}
	token, expiresAt, err := s.GenerateUserJWT(user, expireHours)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))

	return user, token, expiresAt, nil
}

// ChangePassword 登录态修改密码
func (s *UserAuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	if userID == 0 {
		return ErrNotFound
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidPassword
	}

	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashedPassword)
	now := time.Now()
	user.UpdatedAt = now
	user.TokenVersion++
	user.TokenInvalidBefore = &now
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	return nil
}

// GetUserByID 获取用户信息
func (s *UserAuthService) GetUserByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	return s.userRepo.GetByID(id)
}

// issueVerifyCode 生成并下发新的邮箱验证码，覆盖旧验证码
func (s *UserAuthService) issueVerifyCode(user *models.User) error {
	code, err := randomNumericCode(resolveCodeLength(s.cfg.Email.VerifyCode))
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(time.Duration(resolveExpireMinutes(s.cfg.Email.VerifyCode)) * time.Minute)
	if err := s.userRepo.SetVerifyCode(user.ID, code, expiresAt); err != nil {
		return err
	}
	user.VerifyCode = &code
	user.VerifyCodeExpiresAt = &expiresAt

	if s.queueClient.Enabled() {
		return s.queueClient.EnqueueVerifyCodeEmail(queue.VerifyCodeEmailPayload{
			UserID: user.ID,
			Email:  user.Email,
			Code:   code,
		})
	}
	if s.emailService == nil {
		return ErrEmailServiceNotConfigured
	}
	if err := s.emailService.SendVerifyCodeEmail(user.Email, code); err != nil {
		logger.Warnw("verify_code_email_send_failed", "user_id", user.ID, "error", err)
		return err
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

// NormalizeEmail 统一邮箱格式
func NormalizeEmail(email string) (string, error) {
	return normalizeEmail(email)
}

func resolveJWTExpireHours(cfg config.JWTConfig) int {
	if cfg.ExpireHours <= 0 {
		return 24
	}
	return cfg.ExpireHours
}

func resolveRememberMeExpireHours(cfg config.JWTConfig) int {
	if cfg.RememberMeExpireHours <= 0 {
		return resolveJWTExpireHours(cfg)
	}
	return cfg.RememberMeExpireHours
}

func resolveNameFromEmail(email string) string {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) == 2 && strings.TrimSpace(parts[0]) != "" {
		return strings.TrimSpace(parts[0])
	}
	return email
}

func resolveExpireMinutes(cfg config.VerifyCodeConfig) int {
	if cfg.ExpireMinutes <= 0 {
		return 15
	}
	return cfg.ExpireMinutes
}

func resolveSendIntervalSeconds(cfg config.VerifyCodeConfig) int {
	if cfg.SendIntervalSeconds <= 0 {
		return 60
	}
	return cfg.SendIntervalSeconds
}

func resolveCodeLength(cfg config.VerifyCodeConfig) int {
	if cfg.Length < 4 || cfg.Length > 10 {
		return 6
	}
	return cfg.Length
}

func randomNumericCode(length int) (string, error) {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String(), nil
}
