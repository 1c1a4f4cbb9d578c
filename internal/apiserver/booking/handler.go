// Package booking 公开预约接口
//
// 总价在创建时按模特当时的日价计算并冻结，之后模特调价
// 不影响已有预约。创建时不做档期检查：被占用的模特仍可
// 收到新的 pending 请求，由后台管理员协调重叠需求。
package booking

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"modelagency/internal/shared/model"
	"modelagency/internal/shared/storage"
)

// Handler 公开预约接口
type Handler struct {
	users    storage.UserStore
	bookings storage.BookingStore
}

// NewHandler 创建预约接口实例
func NewHandler(users storage.UserStore, bookings storage.BookingStore) *Handler {
	return &Handler{users: users, bookings: bookings}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/bookings", h.CreateBooking)
}

// createRequest 预约创建请求
type createRequest struct {
	ModelID    string    `json:"model_id"`
	BrandName  string    `json:"brand_name"`
	BrandEmail string    `json:"brand_email"`
	Contact    string    `json:"contact"`
	StartDate  time.Time `json:"start_date"`
	Days       int       `json:"days"`
	Message    string    `json:"message"`
}

// CreateBooking 创建预约请求
// POST /api/bookings
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ModelID == "" || req.BrandName == "" || req.BrandEmail == "" {
		writeError(w, http.StatusBadRequest, "Model, brand name and brand email are required")
		return
	}
	if req.StartDate.IsZero() {
		writeError(w, http.StatusBadRequest, "Start date is required")
		return
	}
	if req.Days < 1 {
		writeError(w, http.StatusBadRequest, "Days must be at least 1")
		return
	}

	modelUser, err := h.users.GetUserByID(r.Context(), req.ModelID)
	if err != nil {
		log.Printf("[booking] model lookup error: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	if modelUser == nil || modelUser.IsDeleted {
		writeError(w, http.StatusNotFound, "Model not found")
		return
	}

	// 价格冻结：按创建时刻的日价计算，之后不再重算
	booking := &model.Booking{
		ID:         generateID("bkg"),
		ModelID:    modelUser.ID,
		BrandName:  req.BrandName,
		BrandEmail: req.BrandEmail,
		Contact:    req.Contact,
		StartDate:  req.StartDate,
		Days:       req.Days,
		TotalPrice: modelUser.PricePerDay * float64(req.Days),
		Status:     model.BookingStatusPending,
		Archived:   false,
		Message:    req.Message,
		CreatedAt:  time.Now(),
	}

	if err := h.bookings.CreateBooking(r.Context(), booking); err != nil {
		log.Printf("[booking] create error: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error creating booking")
		return
	}

	log.Printf("[booking] created %s for model %s, total %.2f", booking.ID, booking.ModelID, booking.TotalPrice)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Booking request submitted",
		"booking": booking,
	})
}

// ============================================================================
// 辅助函数
// ============================================================================

// writeJSON 写入 JSON 响应
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[booking] write response error: %v", err)
	}
}

// writeError 写入错误响应
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// generateID 生成带前缀的随机 ID
func generateID(prefix string) string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s-%s", prefix, hex.EncodeToString(b))
}
