package repository

import "time"

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page        int
	PageSize    int
	Keyword     string
	Role        string
	Status      string
	Verified    *bool
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// UserLoginLogListFilter 查询用户登录日志列表的过滤条件
type UserLoginLogListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	Email       string
	Status      string
	FailReason  string
	ClientIP    string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// CertificateListFilter 查询证书列表的过滤条件
type CertificateListFilter struct {
	Page          int
	PageSize      int
	StudentID     uint
	Keyword       string
	IssueDateFrom *time.Time
	IssueDateTo   *time.Time
}
