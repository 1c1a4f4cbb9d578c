package auth

import (
	"log"
	"net/http"
	"strings"

	"modelagency/internal/shared/model"
	"modelagency/internal/shared/storage"
)

// Authenticator 后台路由守卫
//
// 每个请求在令牌签名校验后回查管理员记录：
// 账号被删除或停用后，已签发的令牌立即失效。
type Authenticator struct {
	store storage.AdminStore
	cfg   Config
}

// NewAuthenticator 创建守卫实例
func NewAuthenticator(store storage.AdminStore, cfg Config) *Authenticator {
	return &Authenticator{store: store, cfg: cfg}
}

// RequireAdmin 管理员路由中间件
// 校验 Bearer 令牌并注入 AuthAdmin，失败返回 401
func (a *Authenticator) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized: No admin token provided")
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			writeError(w, http.StatusUnauthorized, "Unauthorized: Invalid token format")
			return
		}

		claims, err := ParseToken(a.cfg, parts[1])
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized: Invalid token")
			return
		}

		// 回查数据库：停用或删除的账号立即失效
		admin, err := a.store.GetAdminByID(r.Context(), claims.Subject)
		if err != nil {
			log.Printf("[auth] admin lookup error: %v", err)
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}
		if admin == nil || !admin.IsActive {
			writeError(w, http.StatusUnauthorized, "Unauthorized: Invalid admin credentials")
			return
		}

		authAdmin := &AuthAdmin{
			ID:       admin.ID,
			Username: admin.Username,
			Role:     admin.Role,
		}
		next(w, r.WithContext(WithAuthAdmin(r.Context(), authAdmin)))
	}
}

// RequireSuperadmin 超级管理员路由中间件
// 身份有效但角色不足时返回 403
func (a *Authenticator) RequireSuperadmin(next http.HandlerFunc) http.HandlerFunc {
	return a.RequireAdmin(func(w http.ResponseWriter, r *http.Request) {
		admin := GetAuthAdmin(r.Context())
		if admin == nil || admin.Role != model.AdminRoleSuperadmin {
			writeError(w, http.StatusForbidden, "Only superadmin can manage admin accounts")
			return
		}
		next(w, r)
	})
}
