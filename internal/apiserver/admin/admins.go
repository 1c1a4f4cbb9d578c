package admin

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"modelagency/internal/apiserver/auth"
	"modelagency/internal/shared/model"
	"modelagency/internal/shared/storage"
)

// ListAdmins 管理员账号列表（仅 superadmin）
// GET /api/admin/admins
func (h *Handler) ListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.admins.ListAdmins(r.Context())
	if err != nil {
		writeServerError(w, "list admins", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"admins":  admins,
	})
}

// createAdminRequest 创建管理员请求
type createAdminRequest struct {
	Username string          `json:"username"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	FullName string          `json:"fullName"`
	Role     model.AdminRole `json:"role"`
}

// CreateAdmin 创建管理员账号（仅 superadmin）
// POST /api/admin/admins
func (h *Handler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req createAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Username, email, and password are required")
		return
	}
	role := req.Role
	if role == "" {
		role = model.AdminRoleAdmin
	}
	if !role.Valid() {
		writeError(w, http.StatusBadRequest, "Role must be 'admin' or 'superadmin'")
		return
	}

	existing, err := h.admins.FindAdminByUsernameOrEmail(r.Context(), req.Username, req.Email)
	if err != nil {
		writeServerError(w, "admin lookup", err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusBadRequest, "Username or email already exists")
		return
	}

	now := time.Now()
	admin := &model.Admin{
		ID:        generateID("adm"),
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FullName:  req.FullName,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.admins.CreateAdmin(r.Context(), admin); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "Username or email already exists")
			return
		}
		writeServerError(w, "create admin", err)
		return
	}

	actor := auth.GetAuthAdmin(r.Context())
	log.Printf("[admin] admin account created: %s (%s) by %s", admin.Username, admin.Role, actor.Username)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"admin":   admin,
	})
}

// updateAdminRequest 管理员更新请求，nil 字段不修改
type updateAdminRequest struct {
	FullName *string          `json:"fullName"`
	Role     *model.AdminRole `json:"role"`
	IsActive *bool            `json:"isActive"`
	Password *string          `json:"password"`
}

// UpdateAdmin 更新管理员账号（仅 superadmin）
// PUT /api/admin/admins/{id}
func (h *Handler) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	var req updateAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Role != nil && !req.Role.Valid() {
		writeError(w, http.StatusBadRequest, "Role must be 'admin' or 'superadmin'")
		return
	}

	admin, err := h.admins.UpdateAdmin(r.Context(), r.PathValue("id"), storage.AdminUpdate{
		FullName: req.FullName,
		Role:     req.Role,
		IsActive: req.IsActive,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Admin not found")
			return
		}
		writeServerError(w, "update admin", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"admin":   admin,
	})
}

// DeleteAdmin 删除管理员账号（仅 superadmin，禁止删除自己）
// DELETE /api/admin/admins/{id}
func (h *Handler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	actor := auth.GetAuthAdmin(r.Context())
	if actor != nil && actor.ID == id {
		writeError(w, http.StatusBadRequest, "Cannot delete your own admin account")
		return
	}

	if err := h.admins.DeleteAdmin(r.Context(), id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Admin not found")
			return
		}
		writeServerError(w, "delete admin", err)
		return
	}

	log.Printf("[admin] admin account deleted: %s by %s", id, actor.Username)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Admin account deleted",
	})
}
