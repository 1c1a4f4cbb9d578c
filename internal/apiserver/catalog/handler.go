// Package catalog 公开用户目录：列表查询与作品集照片下载
//
// 列表实现可用性规则：被非归档 accepted 预约占用的模特
// 不出现在公开结果中。占用集合每次请求重新计算，不做缓存。
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"modelagency/internal/shared/objstore"
	"modelagency/internal/shared/storage"
)

// PhotoDownloader 照片下载抽象，由 objstore.Client 实现
type PhotoDownloader interface {
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// Handler 公开目录接口
type Handler struct {
	users    storage.UserStore
	bookings storage.BookingStore
	photos   PhotoDownloader // 未配置对象存储时为 nil
}

// NewHandler 创建目录接口实例
func NewHandler(users storage.UserStore, bookings storage.BookingStore, photos PhotoDownloader) *Handler {
	return &Handler{users: users, bookings: bookings, photos: photos}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/users", h.ListUsers)
	mux.HandleFunc("GET /api/photos/{key...}", h.DownloadPhoto)
}

// ============================================================================
// 用户列表
// ============================================================================

// ListUsers 公开用户列表
// GET /api/users?type=&skills=&availability=&location=&search=
//
// 过滤条件为合取；skills 逗号分隔，任一匹配即可。
// 未识别的过滤值不报错，自然得到空结果。
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := storage.PublicUserFilter{
		Type:         q.Get("type"),
		Availability: q.Get("availability"),
		Location:     q.Get("location"),
		Search:       q.Get("search"),
	}
	if raw := q.Get("skills"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Skills = append(filter.Skills, s)
			}
		}
	}

	// 可用性规则：被占用的模特从公开列表排除
	occupied, err := h.bookings.AcceptedModelIDs(r.Context())
	if err != nil {
		log.Printf("[catalog] accepted model ids error: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	filter.ExcludeIDs = occupied

	users, err := h.users.ListPublicUsers(r.Context(), filter)
	if err != nil {
		log.Printf("[catalog] list users error: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	// 筛选面板元数据：从非删除全量用户统计，不受当前过滤条件影响
	skills, err := h.users.DistinctSkills(r.Context())
	if err != nil {
		log.Printf("[catalog] distinct skills error: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	locations, err := h.users.DistinctLocations(r.Context())
	if err != nil {
		log.Printf("[catalog] distinct locations error: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"users":   users,
		"metadata": map[string]interface{}{
			"totalCount":         len(users),
			"availableSkills":    skills,
			"availableLocations": locations,
		},
	})
}

// ============================================================================
// 作品集照片
// ============================================================================

// DownloadPhoto 下载模特作品集照片
// GET /api/photos/{key}
func (h *Handler) DownloadPhoto(w http.ResponseWriter, r *http.Request) {
	if h.photos == nil {
		writeError(w, http.StatusNotFound, "Photo storage is not configured")
		return
	}
	key := r.PathValue("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "Photo key is required")
		return
	}

	body, contentType, err := h.photos.Download(r.Context(), key)
	if err != nil {
		if errors.Is(err, objstore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Photo not found")
			return
		}
		log.Printf("[catalog] photo download error: %v", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, body); err != nil {
		log.Printf("[catalog] photo stream error: %v", err)
	}
}

// ============================================================================
// 辅助函数
// ============================================================================

// writeJSON 写入 JSON 响应
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[catalog] write response error: %v", err)
	}
}

// writeError 写入错误响应
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
