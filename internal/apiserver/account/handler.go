// Package account 公开账号接口：注册与登录
//
// 注册按账号类型做字段白名单过滤：brand 只保留固定字段，
// 防止注入 model 专属属性。邮箱重复先行检查只为给出友好错误，
// 真正的唯一性保证来自存储层唯一索引。
package account

import (
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

// Handler 公开账号接口
type Handler struct {
	store storage.UserStore
}

// NewHandler 创建账号接口实例
func NewHandler(store storage.UserStore) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/signup", h.Signup)
	mux.HandleFunc("POST /api/login", h.Login)
}

// ============================================================================
// 注册
// ============================================================================

// signupRequest 注册请求，包含两种账号类型的全部可提交字段
type signupRequest struct {
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Type     model.UserType `json:"type"`
	Contact  string         `json:"contact"`

	// brand 专属
	BrandDesc string `json:"brand_desc"`

	// model 专属
	Gender           *model.Gender      `json:"gender"`
	ModelPortfolio   string             `json:"model_portfolio"`
	ModelCertificate string             `json:"model_certificate"`
	Skills           []string           `json:"skills"`
	Experience       string             `json:"experience"`
	Availability     model.Availability `json:"availability"`
	Location         string             `json:"location"`
	PricePerDay      float64            `json:"price_per_day"`
}

// Signup 用户注册
// POST /api/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username, email and password are required")
		return
	}
	if !req.Type.Valid() {
		writeError(w, http.StatusBadRequest, "Type must be 'brand' or 'model'")
		return
	}

	// 先行检查只为友好报错，唯一索引才是正确性保证
	existing, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		log.Printf("[account] email lookup error: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error during signup")
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "User already exists with this email")
		return
	}

	user := &model.User{
		ID:        generateID("usr"),
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password, // 存储层落库前哈希
		Type:      req.Type,
		Contact:   req.Contact,
		CreatedAt: time.Now(),
	}

	switch req.Type {
	case model.UserTypeBrand:
		// 白名单：brand 只保留基础字段与品牌描述
		user.BrandDesc = req.BrandDesc
	case model.UserTypeModel:
		user.Gender = req.Gender // 未填写保持 null
		user.ModelPortfolio = req.ModelPortfolio
		user.ModelCertificate = req.ModelCertificate
		user.Skills = req.Skills
		user.Experience = req.Experience
		user.Availability = req.Availability
		user.Location = req.Location
		user.PricePerDay = req.PricePerDay
	}

	if err := h.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "Username or email already taken")
			return
		}
		log.Printf("[account] create user error: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error during signup")
		return
	}

	log.Printf("[account] user signed up: %s (%s)", user.Username, user.Type)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Signup successful",
	})
}

// ============================================================================
// 登录
// ============================================================================

// loginRequest 登录请求，identifier 可以是用户名或邮箱
type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Login 用户登录
// POST /api/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Identifier == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Identifier and password are required")
		return
	}

	user, err := h.store.GetUserByIdentifier(r.Context(), req.Identifier)
	if err != nil {
		log.Printf("[account] login lookup error: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	// 不区分"账号不存在"与"密码错误"，避免泄露账号存在性
	if user == nil || user.IsDeleted || !password.Check(req.Password, user.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Login successful",
		"user":    user,
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
		log.Printf("[account] write response error: %v", err)
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
