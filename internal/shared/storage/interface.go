// Package storage 定义持久化存储层抽象接口
//
// 设计原则：依赖倒置 (DIP)
//   - 调用方只依赖接口，不知道具体实现
//   - 具体实现在子包中：mongostore/（生产）、memstore/（测试）
//   - 初始化时通过依赖注入传入实现
//
// Get* 契约：实体不存在时返回 (nil, nil)，不返回 error。
package storage

import (
	"context"

	"modelagency/internal/shared/model"
)

// ============================================================================
// 查询条件
// ============================================================================

// PublicUserFilter 公开用户列表的过滤条件
//
// 所有条件均为可选，零值表示不过滤。ExcludeIDs 用于排除
// 当前被已接受预约占用的模特（可用性规则，见 BookingStore.AcceptedModelIDs）。
type PublicUserFilter struct {
	Type         string   // "brand" | "model"
	Skills       []string // 任一匹配（set membership）
	Availability string   // 精确匹配
	Location     string   // 大小写不敏感子串
	Search       string   // 大小写不敏感子串，匹配 username/brand_desc/skills
	ExcludeIDs   []string // 按 ID 排除
}

// PageFilter 后台分页查询条件
type PageFilter struct {
	Query string // 模糊搜索关键字，空串表示不过滤
	Page  int    // 从 1 开始
	Limit int    // 每页条数
}

// Skip 计算分页偏移量
func (f PageFilter) Skip() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.Limit
}

// ============================================================================
// 部分更新
// ============================================================================

// UserUpdate 用户部分更新，nil 字段表示不修改
//
// Password 为明文或已哈希值，存储层写入前统一经过
// password.EnsureHashed（重复保存安全）。
type UserUpdate struct {
	Username         *string
	Email            *string
	Password         *string
	Type             *model.UserType
	Contact          *string
	Gender           *model.Gender
	BrandDesc        *string
	ModelPortfolio   *string
	ModelCertificate *string
	Skills           *[]string
	Experience       *string
	Availability     *model.Availability
	Location         *string
	PricePerDay      *float64
	IsAdmin          *bool
}

// BookingUpdate 预约部分更新，nil 字段表示不修改
type BookingUpdate struct {
	Status   *model.BookingStatus
	Archived *bool
}

// AdminUpdate 管理员部分更新，nil 字段表示不修改
type AdminUpdate struct {
	FullName *string
	Role     *model.AdminRole
	IsActive *bool
	Password *string
}

// ============================================================================
// 按领域拆分的存储接口
// ============================================================================

// UserStore 用户存储接口
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// GetUserByIdentifier 按用户名或邮箱查找（登录用）
	GetUserByIdentifier(ctx context.Context, identifier string) (*model.User, error)
	// ListPublicUsers 公开列表查询，条件合取，永远排除软删除用户
	ListPublicUsers(ctx context.Context, filter PublicUserFilter) ([]*model.User, error)
	// SearchUsers 后台分页列表，关键字匹配 username/email，返回总数
	SearchUsers(ctx context.Context, filter PageFilter) ([]*model.User, int64, error)
	UpdateUser(ctx context.Context, id string, upd UserUpdate) (*model.User, error)
	// SoftDeleteUser 标记删除，记录保留
	SoftDeleteUser(ctx context.Context, id string) (*model.User, error)
	// RestoreUser 撤销软删除，清除 deleted_at
	RestoreUser(ctx context.Context, id string) (*model.User, error)
	AppendUserPhoto(ctx context.Context, id string, photo model.ModelPhoto) (*model.User, error)
	// DistinctSkills 非删除用户的去重技能列表（过滤空值），用于前端筛选控件
	DistinctSkills(ctx context.Context) ([]string, error)
	// DistinctLocations 非删除用户的去重地区列表（过滤空值）
	DistinctLocations(ctx context.Context) ([]string, error)
	CountUsersByType(ctx context.Context, userType model.UserType) (int64, error)
	ListRecentUsers(ctx context.Context, limit int) ([]*model.User, error)
}

// BookingStore 预约存储接口
type BookingStore interface {
	CreateBooking(ctx context.Context, booking *model.Booking) error
	GetBookingByID(ctx context.Context, id string) (*model.Booking, error)
	// SearchBookings 后台分页列表，关键字匹配 brand_name/brand_email
	SearchBookings(ctx context.Context, filter PageFilter) ([]*model.Booking, int64, error)
	UpdateBooking(ctx context.Context, id string, upd BookingUpdate) (*model.Booking, error)
	// AcceptedModelIDs 返回被非归档 accepted 预约引用的模特 ID 集合
	// 可用性规则的数据源，每次列表请求重新计算，不缓存
	AcceptedModelIDs(ctx context.Context) ([]string, error)
	CountBookings(ctx context.Context) (int64, error)
	ListRecentBookings(ctx context.Context, limit int) ([]*model.Booking, error)
}

// AdminStore 管理员存储接口
type AdminStore interface {
	CreateAdmin(ctx context.Context, admin *model.Admin) error
	GetAdminByID(ctx context.Context, id string) (*model.Admin, error)
	GetAdminByUsername(ctx context.Context, username string) (*model.Admin, error)
	// FindAdminByUsernameOrEmail 创建前的重复预检查
	FindAdminByUsernameOrEmail(ctx context.Context, username, email string) (*model.Admin, error)
	ListAdmins(ctx context.Context) ([]*model.Admin, error)
	UpdateAdmin(ctx context.Context, id string, upd AdminUpdate) (*model.Admin, error)
	// DeleteAdmin 硬删除
	DeleteAdmin(ctx context.Context, id string) error
	CountAdmins(ctx context.Context) (int64, error)
}

// PersistentStore 聚合接口，驱动实现需要完整实现
type PersistentStore interface {
	UserStore
	BookingStore
	AdminStore

	Close() error
}
