package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"modelagency/internal/shared/model"
	"modelagency/internal/shared/password"
	"modelagency/internal/shared/storage"
)

// Handler 管理员登录接口
type Handler struct {
	store storage.AdminStore
	cfg   Config
}

// NewHandler 创建登录接口实例
func NewHandler(store storage.AdminStore, cfg Config) *Handler {
	return &Handler{store: store, cfg: cfg}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/admin/login", h.Login)
}

// loginRequest 登录请求
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login 管理员登录
// POST /api/admin/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	admin, err := h.store.GetAdminByUsername(r.Context(), req.Username)
	if err != nil {
		log.Printf("[auth] admin lookup error: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error during login")
		return
	}
	if admin == nil || !admin.IsActive {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !password.Check(req.Password, admin.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := GenerateToken(h.cfg, admin)
	if err != nil {
		log.Printf("[auth] token generation error: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error during login")
		return
	}

	log.Printf("[auth] admin logged in: %s (%s)", admin.Username, admin.Role)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"admin": map[string]interface{}{
			"id":       admin.ID,
			"username": admin.Username,
			"email":    admin.Email,
			"fullName": admin.FullName,
			"role":     admin.Role,
		},
	})
}

// ============================================================================
// 默认管理员种子
// ============================================================================

// EnsureDefaultAdmins 首次启动时播种默认管理员账号
// 仅当 admins 集合为空时执行，避免覆盖线上修改过的账号
func EnsureDefaultAdmins(ctx context.Context, store storage.AdminStore) error {
	count, err := store.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	for _, seed := range model.DefaultAdmins {
		admin := &model.Admin{
			ID:        generateID("adm"),
			Username:  seed.Username,
			Email:     seed.Email,
			Password:  seed.Password,
			FullName:  seed.FullName,
			Role:      seed.Role,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := store.CreateAdmin(ctx, admin); err != nil {
			// 并发启动时另一实例可能已播种
			if errors.Is(err, storage.ErrDuplicate) {
				continue
			}
			return fmt.Errorf("seed admin %s: %w", seed.Username, err)
		}
		log.Printf("[auth] seeded default admin: %s (%s)", seed.Username, seed.Role)
	}
	return nil
}

// ============================================================================
// 辅助函数
// ============================================================================

// writeJSON 写入 JSON 响应
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[auth] write response error: %v", err)
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
