// Package model 定义核心数据模型
//
// user.go 包含用户相关的数据模型定义：
//   - User：品牌方 / 模特账号（type 字段区分）
//   - UserType：账号类型枚举
//   - Gender / Availability：模特属性枚举
//   - ModelPhoto：作品集照片
package model

import "time"

// ============================================================================
// UserType - 账号类型
// ============================================================================

// UserType 账号类型
type UserType string

const (
	// UserTypeBrand 品牌方账号
	UserTypeBrand UserType = "brand"

	// UserTypeModel 模特账号
	UserTypeModel UserType = "model"
)

// Valid 判断账号类型是否合法
func (t UserType) Valid() bool {
	return t == UserTypeBrand || t == UserTypeModel
}

// ============================================================================
// Gender - 性别
// ============================================================================

// Gender 模特性别
type Gender string

const (
	GenderMale         Gender = "male"
	GenderFemale       Gender = "female"
	GenderOther        Gender = "other"
	GenderPreferNotSay Gender = "prefer_not_say"
)

// ============================================================================
// Availability - 档期类型
// ============================================================================

// Availability 模特档期类型
type Availability string

const (
	AvailabilityFullTime  Availability = "full-time"
	AvailabilityPartTime  Availability = "part-time"
	AvailabilityFreelance Availability = "freelance"
)

// ============================================================================
// User - 用户
// ============================================================================

// ModelPhoto 模特作品集照片
type ModelPhoto struct {
	URL       string    `json:"url" bson:"url"`
	Caption   string    `json:"caption,omitempty" bson:"caption,omitempty"`
	DateAdded time.Time `json:"date_added" bson:"date_added"`
}

// User 表示一个平台账号，品牌方或模特
//
// 属性按 type 区分适用范围：
//   - brand: Contact / BrandDesc
//   - model: Gender / Skills / PricePerDay / ModelPhotos 等
//
// 软删除通过 IsDeleted + DeletedAt 标记，记录从不物理删除。
type User struct {
	ID       string   `json:"id" bson:"_id"`
	Username string   `json:"username" bson:"username"`
	Email    string   `json:"email" bson:"email"`
	Password string   `json:"-" bson:"password"` // bcrypt 哈希，不出现在 JSON
	Type     UserType `json:"type" bson:"type"`
	Contact  string   `json:"contact,omitempty" bson:"contact,omitempty"`

	// brand 专属
	BrandDesc string `json:"brand_desc,omitempty" bson:"brand_desc,omitempty"`

	// model 专属
	Gender           *Gender      `json:"gender" bson:"gender"` // 未填写时为 null
	ModelPortfolio   string       `json:"model_portfolio,omitempty" bson:"model_portfolio,omitempty"`
	ModelPhotos      []ModelPhoto `json:"model_photos,omitempty" bson:"model_photos,omitempty"`
	ModelCertificate string       `json:"model_certificate,omitempty" bson:"model_certificate,omitempty"`
	Skills           []string     `json:"skills,omitempty" bson:"skills,omitempty"`
	Experience       string       `json:"experience,omitempty" bson:"experience,omitempty"`
	Availability     Availability `json:"availability,omitempty" bson:"availability,omitempty"`
	Location         string       `json:"location,omitempty" bson:"location,omitempty"`
	PricePerDay      float64      `json:"price_per_day" bson:"price_per_day"`

	// 生命周期标记
	IsAdmin   bool       `json:"is_admin" bson:"is_admin"` // 历史遗留字段，与 Admin 集合无关
	IsDeleted bool       `json:"is_deleted" bson:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" bson:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
}
