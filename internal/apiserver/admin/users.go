package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path"
	"time"

	"modelagency/internal/shared/model"
	"modelagency/internal/shared/storage"
)

// maxPhotoSize 单张照片大小上限
const maxPhotoSize = 10 << 20 // 10 MiB

// ListUsers 后台用户列表
// GET /api/admin/users?q=&page=&limit=
// 包含软删除用户，关键字匹配 username/email
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	filter := pageFilter(r)
	users, total, err := h.users.SearchUsers(r.Context(), filter)
	if err != nil {
		writeServerError(w, "list users", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"users":   users,
		"total":   total,
	})
}

// createUserRequest 后台创建用户请求
type createUserRequest struct {
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Type     model.UserType `json:"type"`
	IsAdmin  bool           `json:"is_admin"`
}

// CreateUser 后台创建用户
// POST /api/admin/users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" || req.Type == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if !req.Type.Valid() {
		writeError(w, http.StatusBadRequest, "Type must be 'brand' or 'model'")
		return
	}

	existing, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		writeServerError(w, "email lookup", err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "Email already in use")
		return
	}

	user := &model.User{
		ID:        generateID("usr"),
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Type:      req.Type,
		IsAdmin:   req.IsAdmin,
		CreatedAt: time.Now(),
	}
	if err := h.users.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "Username or email already taken")
			return
		}
		writeServerError(w, "create user", err)
		return
	}

	log.Printf("[admin] user created: %s (%s)", user.Username, user.Type)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// GetUser 后台用户详情
// GET /api/admin/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUserByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServerError(w, "get user", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// updateUserRequest 后台用户部分更新请求，nil 字段不修改
type updateUserRequest struct {
	Username         *string             `json:"username"`
	Email            *string             `json:"email"`
	Password         *string             `json:"password"`
	Type             *model.UserType     `json:"type"`
	Contact          *string             `json:"contact"`
	Gender           *model.Gender       `json:"gender"`
	BrandDesc        *string             `json:"brand_desc"`
	ModelPortfolio   *string             `json:"model_portfolio"`
	ModelCertificate *string             `json:"model_certificate"`
	Skills           *[]string           `json:"skills"`
	Experience       *string             `json:"experience"`
	Availability     *model.Availability `json:"availability"`
	Location         *string             `json:"location"`
	PricePerDay      *float64            `json:"price_per_day"`
	IsAdmin          *bool               `json:"is_admin"`
}

// UpdateUser 后台用户部分更新
// PUT /api/admin/users/{id}
// 重复提交已哈希密码不会二次哈希（存储层保证）
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Type != nil && !req.Type.Valid() {
		writeError(w, http.StatusBadRequest, "Type must be 'brand' or 'model'")
		return
	}

	upd := storage.UserUpdate{
		Username:         req.Username,
		Email:            req.Email,
		Password:         req.Password,
		Type:             req.Type,
		Contact:          req.Contact,
		Gender:           req.Gender,
		BrandDesc:        req.BrandDesc,
		ModelPortfolio:   req.ModelPortfolio,
		ModelCertificate: req.ModelCertificate,
		Skills:           req.Skills,
		Experience:       req.Experience,
		Availability:     req.Availability,
		Location:         req.Location,
		PricePerDay:      req.PricePerDay,
		IsAdmin:          req.IsAdmin,
	}
	user, err := h.users.UpdateUser(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		if errors.Is(err, storage.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "Username or email already taken")
			return
		}
		writeServerError(w, "update user", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// DeleteUser 软删除用户
// DELETE /api/admin/users/{id}
// 记录保留，仅标记 is_deleted 并记录时间
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.SoftDeleteUser(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeServerError(w, "delete user", err)
		return
	}
	log.Printf("[admin] user soft-deleted: %s", user.ID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// RestoreUser 撤销软删除
// POST /api/admin/users/{id}/restore
func (h *Handler) RestoreUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.RestoreUser(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeServerError(w, "restore user", err)
		return
	}
	log.Printf("[admin] user restored: %s", user.ID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// UploadUserPhoto 上传模特作品集照片
// POST /api/admin/users/{id}/photos (multipart, 字段名 photo, 可选 caption)
// 对象写入 MinIO，用户记录追加照片条目，下载走 GET /api/photos/{key}
func (h *Handler) UploadUserPhoto(w http.ResponseWriter, r *http.Request) {
	if h.photos == nil {
		writeError(w, http.StatusBadRequest, "Photo storage is not configured")
		return
	}

	id := r.PathValue("id")
	user, err := h.users.GetUserByID(r.Context(), id)
	if err != nil {
		writeServerError(w, "get user", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if user.Type != model.UserTypeModel {
		writeError(w, http.StatusBadRequest, "Photos can only be uploaded for model accounts")
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Photo file is required")
		return
	}
	defer file.Close()
	if header.Size > maxPhotoSize {
		writeError(w, http.StatusBadRequest, "Photo exceeds the 10MB limit")
		return
	}

	ext := path.Ext(header.Filename)
	key := fmt.Sprintf("%s/%s%s", user.ID, generateID("pht"), ext)
	contentType := header.Header.Get("Content-Type")
	if err := h.photos.Upload(r.Context(), key, file, header.Size, contentType); err != nil {
		writeServerError(w, "upload photo", err)
		return
	}

	photo := model.ModelPhoto{
		URL:       "/api/photos/" + key,
		Caption:   r.FormValue("caption"),
		DateAdded: time.Now(),
	}
	updated, err := h.users.AppendUserPhoto(r.Context(), id, photo)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeServerError(w, "append photo", err)
		return
	}

	log.Printf("[admin] photo uploaded for %s: %s", user.ID, key)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"photo":   photo,
		"user":    updated,
	})
}
