// Package model 定义核心数据模型
//
// booking.go 包含预约相关的数据模型定义：
//   - Booking：品牌方对模特的预约请求
//   - BookingStatus：预约状态枚举
package model

import "time"

// ============================================================================
// BookingStatus - 预约状态
// ============================================================================

// BookingStatus 预约状态
type BookingStatus string

const (
	// BookingStatusPending 待处理（创建时的初始状态）
	BookingStatusPending BookingStatus = "pending"

	// BookingStatusAccepted 已接受，模特从公开列表中隐藏
	BookingStatusAccepted BookingStatus = "accepted"

	// BookingStatusCompleted 已完成
	BookingStatusCompleted BookingStatus = "completed"

	// BookingStatusCancelled 已取消
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Valid 判断预约状态是否合法
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusAccepted, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// ============================================================================
// Booking - 预约
// ============================================================================

// Booking 表示品牌方对模特的一次预约请求
//
// 品牌方信息为冗余快照（非 User 引用），TotalPrice 在创建时按
// 模特当时的 PricePerDay 计算并冻结，后续改价不回溯。
// 预约从不删除，只做状态流转或归档。
type Booking struct {
	ID         string        `json:"id" bson:"_id"`
	ModelID    string        `json:"model_id" bson:"model_id"` // 必须指向存在的 User
	BrandName  string        `json:"brand_name" bson:"brand_name"`
	BrandEmail string        `json:"brand_email" bson:"brand_email"`
	Contact    string        `json:"contact,omitempty" bson:"contact,omitempty"`
	StartDate  time.Time     `json:"start_date" bson:"start_date"`
	Days       int           `json:"days" bson:"days"` // >= 1
	TotalPrice float64       `json:"total_price" bson:"total_price"`
	Status     BookingStatus `json:"status" bson:"status"`
	Archived   bool          `json:"archived" bson:"archived"`
	Message    string        `json:"message,omitempty" bson:"message,omitempty"`
	CreatedAt  time.Time     `json:"created_at" bson:"created_at"`
}
