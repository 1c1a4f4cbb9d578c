package server

import (
	"net/http"

	"modelagency/internal/apiserver/account"
	adminapi "modelagency/internal/apiserver/admin"
	"modelagency/internal/apiserver/auth"
	"modelagency/internal/apiserver/booking"
	"modelagency/internal/apiserver/catalog"
)

// Router 返回配置好的 HTTP 路由
//
// 路由规则：
//
// 健康检查:
//   - GET  /health  - 服务健康检查
//   - GET  /metrics - Prometheus 指标
//
// 公开接口:
//   - POST /api/signup        - 用户注册
//   - POST /api/login         - 用户登录
//   - GET  /api/users         - 用户目录（档期过滤 + 筛选面板元数据）
//   - POST /api/bookings      - 创建预约
//   - GET  /api/photos/{key}  - 下载作品集照片
//
// 后台接口（Bearer 令牌）:
//   - POST /api/admin/login                    - 管理员登录
//   - GET  /api/admin/stats                    - 仪表盘统计
//   - GET/POST /api/admin/users                - 用户列表 / 创建
//   - GET/PUT/DELETE /api/admin/users/{id}     - 详情 / 更新 / 软删除
//   - POST /api/admin/users/{id}/restore       - 恢复软删除
//   - POST /api/admin/users/{id}/photos        - 上传作品集照片
//   - GET  /api/admin/bookings                 - 预约列表
//   - PUT  /api/admin/bookings/{id}            - 更新预约状态 / 归档
//   - GET/POST /api/admin/admins               - 管理员账号（仅 superadmin）
//   - PUT/DELETE /api/admin/admins/{id}        - 更新 / 删除（仅 superadmin）
func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	// 健康检查
	mux.HandleFunc("GET /health", h.Health)

	// Prometheus 指标端点
	mux.Handle("GET /metrics", MetricsHandler())

	// 公开账号接口
	accountHandler := account.NewHandler(h.store)
	accountHandler.RegisterRoutes(mux)

	// 公开目录接口
	var downloader catalog.PhotoDownloader
	if h.photos != nil {
		downloader = h.photos
	}
	catalogHandler := catalog.NewHandler(h.store, h.store, downloader)
	catalogHandler.RegisterRoutes(mux)

	// 公开预约接口
	bookingHandler := booking.NewHandler(h.store, h.store)
	bookingHandler.RegisterRoutes(mux)

	// 管理员登录
	authHandler := auth.NewHandler(h.store, h.authCfg)
	authHandler.RegisterRoutes(mux)

	// 后台管理接口（路由内部应用令牌校验）
	authn := auth.NewAuthenticator(h.store, h.authCfg)
	var uploader adminapi.PhotoUploader
	if h.photos != nil {
		uploader = h.photos
	}
	adminHandler := adminapi.NewHandler(h.store, uploader, authn)
	adminHandler.RegisterRoutes(mux)

	// 应用指标中间件
	apiHandler := h.metrics.MetricsMiddleware(mux)

	// 应用 CORS 中间件
	return corsMiddleware(apiHandler)
}

// corsMiddleware 添加 CORS 头支持跨域请求
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
