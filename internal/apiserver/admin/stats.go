package admin

import (
	"net/http"
	"time"

	"modelagency/internal/shared/model"
)

// recentLimit 仪表盘最近活动条数
const recentLimit = 5

// recentSignup 仪表盘中的注册摘要
type recentSignup struct {
	ID        string         `json:"id"`
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	Type      model.UserType `json:"type"`
	CreatedAt time.Time      `json:"created_at"`
}

// Stats 仪表盘统计
// GET /api/admin/stats
//
// 用户计数只统计非删除账号；预约计数包含全部状态。
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	totalBrands, err := h.users.CountUsersByType(ctx, model.UserTypeBrand)
	if err != nil {
		writeServerError(w, "count brands", err)
		return
	}
	totalModels, err := h.users.CountUsersByType(ctx, model.UserTypeModel)
	if err != nil {
		writeServerError(w, "count models", err)
		return
	}
	totalBookings, err := h.bookings.CountBookings(ctx)
	if err != nil {
		writeServerError(w, "count bookings", err)
		return
	}

	recentUsers, err := h.users.ListRecentUsers(ctx, recentLimit)
	if err != nil {
		writeServerError(w, "recent users", err)
		return
	}
	signups := make([]recentSignup, 0, len(recentUsers))
	for _, u := range recentUsers {
		signups = append(signups, recentSignup{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			Type:      u.Type,
			CreatedAt: u.CreatedAt,
		})
	}

	recentBookings, err := h.bookings.ListRecentBookings(ctx, recentLimit)
	if err != nil {
		writeServerError(w, "recent bookings", err)
		return
	}
	bookingViews, err := h.attachModels(ctx, recentBookings)
	if err != nil {
		writeServerError(w, "resolve booking models", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"totalBrands":    totalBrands,
			"totalModels":    totalModels,
			"totalBookings":  totalBookings,
			"recentSignups":  signups,
			"recentBookings": bookingViews,
		},
	})
}
