// Package auth 后台认证：JWT 令牌管理、HTTP 中间件、管理员登录与种子账号
//
// 令牌为签名的 HS256 JWT（取代早期 base64(username:password) 方案），
// 携带管理员 ID/用户名/角色并带过期时间。为保留"停用账号立即失效"
// 的语义，中间件在签名校验后仍回查数据库确认账号存在且 is_active。
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"modelagency/internal/shared/model"
)

// contextKey context 键类型
type contextKey string

const ctxKeyAuthAdmin contextKey = "auth_admin"

// AuthAdmin 从令牌解析出的管理员身份
type AuthAdmin struct {
	ID       string
	Username string
	Role     model.AdminRole
}

// IsSuperadmin 是否为超级管理员
func (a *AuthAdmin) IsSuperadmin() bool {
	return a.Role == model.AdminRoleSuperadmin
}

// Config 认证配置
type Config struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// DefaultConfig 返回默认认证配置
func DefaultConfig() Config {
	return Config{
		JWTSecret: "",
		TokenTTL:  12 * time.Hour,
	}
}

// ============================================================================
// JWT Token
// ============================================================================

// Claims JWT 声明
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

// GenerateToken 为管理员签发访问令牌
func GenerateToken(cfg Config, admin *model.Admin) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.TokenTTL)),
		},
		Username: admin.Username,
		Role:     string(admin.Role),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseToken 解析并验证 JWT
func ParseToken(cfg Config, tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ============================================================================
// Context 辅助函数
// ============================================================================

// WithAuthAdmin 将管理员身份注入 context
func WithAuthAdmin(ctx context.Context, admin *AuthAdmin) context.Context {
	return context.WithValue(ctx, ctxKeyAuthAdmin, admin)
}

// GetAuthAdmin 从 context 获取管理员身份
func GetAuthAdmin(ctx context.Context) *AuthAdmin {
	admin, _ := ctx.Value(ctxKeyAuthAdmin).(*AuthAdmin)
	return admin
}
