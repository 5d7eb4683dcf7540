package authz

import "fmt"

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
// 学员与管理员各自只拥有本侧路由；/me 下的个人接口两侧共享。
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "student",
			Policies: []Policy{
				{Object: "/student/*", Action: "*"},
				{Object: "/me", Action: "*"},
				{Object: "/me/*", Action: "*"},
			},
		},
		{
			Role: "admin",
			Policies: []Policy{
				{Object: "/admin/*", Action: "*"},
				{Object: "/me", Action: "*"},
				{Object: "/me/*", Action: "*"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			if _, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
