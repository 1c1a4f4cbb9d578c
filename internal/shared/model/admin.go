// Package model 定义核心数据模型
//
// admin.go 包含后台管理账号的数据模型定义：
//   - Admin：后台操作员账号
//   - AdminRole：角色枚举
//   - DefaultAdmins：首次启动时的种子账号
package model

import "time"

// ============================================================================
// AdminRole - 管理员角色
// ============================================================================

// AdminRole 管理员角色
type AdminRole string

const (
	// AdminRoleAdmin 普通管理员，可管理用户和预约
	AdminRoleAdmin AdminRole = "admin"

	// AdminRoleSuperadmin 超级管理员，额外可管理管理员账号
	AdminRoleSuperadmin AdminRole = "superadmin"
)

// Valid 判断角色是否合法
func (r AdminRole) Valid() bool {
	return r == AdminRoleAdmin || r == AdminRoleSuperadmin
}

// ============================================================================
// Admin - 管理员
// ============================================================================

// Admin 表示一个后台操作员账号
//
// 与 User 的 IsAdmin 标记无关，是独立的集合。
// 管理员账号由超级管理员硬删除，不走软删除。
type Admin struct {
	ID        string    `json:"id" bson:"_id"`
	Username  string    `json:"username" bson:"username"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"` // bcrypt 哈希，不出现在 JSON
	FullName  string    `json:"full_name" bson:"full_name"`
	Role      AdminRole `json:"role" bson:"role"`
	IsActive  bool      `json:"is_active" bson:"is_active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// DefaultAdmin 种子管理员账号定义
type DefaultAdmin struct {
	Username string
	Email    string
	Password string // 明文，入库前由存储层哈希
	FullName string
	Role     AdminRole
}

// DefaultAdmins 首次启动时写入的默认管理员账号
// 仅在 admins 集合为空时写入（见 auth.EnsureDefaultAdmins）
var DefaultAdmins = []DefaultAdmin{
	{
		Username: "admin",
		Email:    "admin@typroject.com",
		Password: "admin123",
		FullName: "Admin User",
		Role:     AdminRoleAdmin,
	},
	{
		Username: "superadmin",
		Email:    "superadmin@typroject.com",
		Password: "superadmin@123",
		FullName: "Super Admin",
		Role:     AdminRoleSuperadmin,
	},
}
