package authz

import "strings"

// Decision 访问判定状态
// 判定是纯函数计算结果，跳转等副作用由调用方（HTTP 中间件）执行。
type Decision int

const (
	// DecisionPending 身份解析尚未完成，禁止放行也禁止拒绝
	DecisionPending Decision = iota
	// DecisionAllowed 放行
	DecisionAllowed
	// DecisionDeniedUnauthenticated 未认证拒绝
	DecisionDeniedUnauthenticated
	// DecisionDeniedWrongRole 角色不符拒绝
	DecisionDeniedWrongRole
)

// String 判定状态名称
func (d Decision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionAllowed:
		return "allowed"
	case DecisionDeniedUnauthenticated:
		return "denied_unauthenticated"
	case DecisionDeniedWrongRole:
		return "denied_wrong_role"
	default:
		return "unknown"
	}
}

// Denied 是否为拒绝状态
func (d Decision) Denied() bool {
	return d == DecisionDeniedUnauthenticated || d == DecisionDeniedWrongRole
}

// Identity 已解析的访问者身份
type Identity struct {
	UserID uint
	Email  string
	Role   string
}

// Evaluate 计算访问判定
// resolved 为 false 表示身份解析仍在进行，此时一律返回 Pending；
// identity 为 nil 表示解析完成但未认证。
func Evaluate(identity *Identity, resolved bool, requiredRole string) Decision {
	if !resolved {
		return DecisionPending
	}
	if identity == nil || identity.UserID == 0 {
		return DecisionDeniedUnauthenticated
	}
	required := strings.ToLower(strings.TrimSpace(requiredRole))
	if required == "" {
		return DecisionAllowed
	}
	if strings.ToLower(strings.TrimSpace(identity.Role)) != required {
		return DecisionDeniedWrongRole
	}
	return DecisionAllowed
}

// RedirectTarget 计算拒绝状态对应的跳转目标
// 未认证跳登录页；角色不符跳访问者自身角色的首页，绝不渲染错误页。
// 非拒绝状态返回空串。
type RedirectPaths struct {
	Login       string
	AdminHome   string
	StudentHome string
}

// RedirectTargetFor 根据判定与访问者角色计算跳转目标
func RedirectTargetFor(decision Decision, visitorRole string, paths RedirectPaths) string {
	switch decision {
	case DecisionDeniedUnauthenticated:
		return paths.Login
	case DecisionDeniedWrongRole:
		return HomePathForRole(visitorRole, paths)
	default:
		return ""
	}
}

// HomePathForRole 角色对应的默认首页
// admin 进入管理端，其余角色一律进入学员端。
func HomePathForRole(role string, paths RedirectPaths) string {
	if strings.ToLower(strings.TrimSpace(role)) == "admin" {
		return paths.AdminHome
	}
	return paths.StudentHome
}
