package main

import (
	"strings"
	"time"

	"github.com/edunext-academy/internal/config"
	"github.com/edunext-academy/internal/constants"
	"github.com/edunext-academy/internal/logger"
	"github.com/edunext-academy/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// 开发环境演示数据：一个管理员、若干学员账号与已签发的证书。
func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	now := time.Now()
	verifiedAt := now.Add(-30 * 24 * time.Hour)

	type seedUser struct {
		Name     string
		Email    string
		Password string
		Role     string
		Verified bool
	}

	seedUsers := []seedUser{
		{Name: "Academy Admin", Email: "admin@edunext.local", Password: "admin-demo-password", Role: constants.UserRoleAdmin, Verified: true},
		{Name: "Alice Zhang", Email: "alice@edunext.local", Password: "student-demo-password", Role: constants.UserRoleStudent, Verified: true},
		{Name: "Bob Liu", Email: "bob@edunext.local", Password: "student-demo-password", Role: constants.UserRoleStudent, Verified: true},
		{Name: "Carol Wang", Email: "carol@edunext.local", Password: "student-demo-password", Role: constants.UserRoleStudent, Verified: false},
	}

	userIDs := map[string]uint{}
	for _, su := range seedUsers {
		var existing models.User
		err := models.DB.Where("email = ?", su.Email).First(&existing).Error
		if err == nil {
			stdLog.Printf("User already exists: %s", su.Email)
			userIDs[su.Email] = existing.ID
			continue
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(su.Password), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Fatalf("Failed to hash password: %v", err)
		}
		user := models.User{
			Name:         su.Name,
			Email:        su.Email,
			PasswordHash: string(hashed),
			Role:         su.Role,
			Status:       constants.UserStatusActive,
		}
		if su.Verified {
			t := verifiedAt
			user.EmailVerifiedAt = &t
		}
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("Failed to create user %s: %v", su.Email, err)
			continue
		}
		stdLog.Printf("Created user: %s (%s)", su.Email, su.Role)
		userIDs[su.Email] = user.ID
	}

	adminID := userIDs["admin@edunext.local"]

	type seedCert struct {
		StudentEmail string
		StudentName  string
		ProgramTitle string
		DaysAgo      int
	}

	seedCerts := []seedCert{
		{StudentEmail: "alice@edunext.local", StudentName: "Alice Zhang", ProgramTitle: "Full-Stack Web Development", DaysAgo: 20},
		{StudentEmail: "alice@edunext.local", StudentName: "Alice Zhang", ProgramTitle: "Cloud Infrastructure Fundamentals", DaysAgo: 5},
		{StudentEmail: "bob@edunext.local", StudentName: "Bob Liu", ProgramTitle: "Data Engineering Bootcamp", DaysAgo: 12},
	}

	for _, sc := range seedCerts {
		studentID, ok := userIDs[sc.StudentEmail]
		if !ok || studentID == 0 {
			continue
		}
		var count int64
		models.DB.Model(&models.Certificate{}).
			Where("student_id = ? AND program_title = ?", studentID, sc.ProgramTitle).
			Count(&count)
		if count > 0 {
			stdLog.Printf("Certificate already exists: %s / %s", sc.StudentEmail, sc.ProgramTitle)
			continue
		}

		cert := models.Certificate{
			StudentID:        studentID,
			StudentName:      sc.StudentName,
			ProgramTitle:     sc.ProgramTitle,
			IssueDate:        now.AddDate(0, 0, -sc.DaysAgo),
			VerificationCode: strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")),
			IssuedBy:         adminID,
		}
		if err := models.DB.Create(&cert).Error; err != nil {
			stdLog.Printf("Failed to create certificate for %s: %v", sc.StudentEmail, err)
			continue
		}
		stdLog.Printf("Issued certificate: %s / %s (%s)", sc.StudentEmail, sc.ProgramTitle, cert.VerificationCode)
	}

	stdLog.Printf("Seed completed")
}
