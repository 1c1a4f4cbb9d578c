// Package admin 后台管理接口：统计面板、用户 / 预约 / 管理员账号管理
//
// 所有路由经过 Bearer 令牌校验；/admins 相关路由额外要求
// superadmin 角色。用户删除一律软删除，管理员账号为硬删除。
package admin

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"modelagency/internal/apiserver/auth"
	"modelagency/internal/shared/model"
	"modelagency/internal/shared/storage"
)

// PhotoUploader 照片上传抽象，由 objstore.Client 实现
type PhotoUploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
}

// Handler 后台管理接口
type Handler struct {
	users    storage.UserStore
	bookings storage.BookingStore
	admins   storage.AdminStore
	photos   PhotoUploader // 未配置对象存储时为 nil
	authn    *auth.Authenticator
}

// NewHandler 创建后台接口实例
func NewHandler(store storage.PersistentStore, photos PhotoUploader, authn *auth.Authenticator) *Handler {
	return &Handler{
		users:    store,
		bookings: store,
		admins:   store,
		photos:   photos,
		authn:    authn,
	}
}

// RegisterRoutes 注册路由，全部经过管理员令牌校验
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	requireAdmin := h.authn.RequireAdmin
	requireSuper := h.authn.RequireSuperadmin

	mux.HandleFunc("GET /api/admin/stats", requireAdmin(h.Stats))

	mux.HandleFunc("GET /api/admin/users", requireAdmin(h.ListUsers))
	mux.HandleFunc("POST /api/admin/users", requireAdmin(h.CreateUser))
	mux.HandleFunc("GET /api/admin/users/{id}", requireAdmin(h.GetUser))
	mux.HandleFunc("PUT /api/admin/users/{id}", requireAdmin(h.UpdateUser))
	mux.HandleFunc("DELETE /api/admin/users/{id}", requireAdmin(h.DeleteUser))
	mux.HandleFunc("POST /api/admin/users/{id}/restore", requireAdmin(h.RestoreUser))
	mux.HandleFunc("POST /api/admin/users/{id}/photos", requireAdmin(h.UploadUserPhoto))

	mux.HandleFunc("GET /api/admin/bookings", requireAdmin(h.ListBookings))
	mux.HandleFunc("PUT /api/admin/bookings/{id}", requireAdmin(h.UpdateBooking))

	mux.HandleFunc("GET /api/admin/admins", requireSuper(h.ListAdmins))
	mux.HandleFunc("POST /api/admin/admins", requireSuper(h.CreateAdmin))
	mux.HandleFunc("PUT /api/admin/admins/{id}", requireSuper(h.UpdateAdmin))
	mux.HandleFunc("DELETE /api/admin/admins/{id}", requireSuper(h.DeleteAdmin))
}

// ============================================================================
// 辅助函数
// ============================================================================

// pageFilter 解析分页查询参数，默认 page=1 limit=50
func pageFilter(r *http.Request) storage.PageFilter {
	q := r.URL.Query()
	filter := storage.PageFilter{
		Query: q.Get("q"),
		Page:  1,
		Limit: 50,
	}
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filter.Page = n
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			filter.Limit = n
		}
	}
	return filter
}

// writeJSON 写入 JSON 响应
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[admin] write response error: %v", err)
	}
}

// writeError 写入错误响应
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// writeServerError 记录日志并返回 500
func writeServerError(w http.ResponseWriter, op string, err error) {
	log.Printf("[admin] %s error: %v", op, err)
	writeError(w, http.StatusInternalServerError, "Server error")
}

// generateID 生成带前缀的随机 ID
func generateID(prefix string) string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s-%s", prefix, hex.EncodeToString(b))
}

// modelSummary 预约列表中内嵌的模特摘要
type modelSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// bookingView 预约 + 模特摘要（模特已删除时 model 为 null）
type bookingView struct {
	*model.Booking
	Model *modelSummary `json:"model"`
}

// attachModels 为预约批量解析模特摘要
func (h *Handler) attachModels(ctx context.Context, bookings []*model.Booking) ([]bookingView, error) {
	cache := make(map[string]*modelSummary)
	views := make([]bookingView, 0, len(bookings))
	for _, b := range bookings {
		summary, ok := cache[b.ModelID]
		if !ok {
			user, err := h.users.GetUserByID(ctx, b.ModelID)
			if err != nil {
				return nil, err
			}
			if user != nil {
				summary = &modelSummary{ID: user.ID, Username: user.Username, Email: user.Email}
			}
			cache[b.ModelID] = summary
		}
		views = append(views, bookingView{Booking: b, Model: summary})
	}
	return views, nil
}
