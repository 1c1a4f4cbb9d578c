// Package server 路由配置与核心基础设施
//
// 本包将请求分发到各领域独立包：
//   - account: 公开注册 / 登录
//   - catalog: 公开用户目录与照片下载
//   - booking: 公开预约创建
//   - auth: 管理员登录与令牌校验
//   - admin: 后台管理接口
//
// 文件组织：
//   - common.go: Handler 定义与通用接口
//   - handler.go: 路由配置与 CORS
//   - metrics.go: Prometheus 指标
package server

import (
	"encoding/json"
	"net/http"

	"modelagency/internal/apiserver/auth"
	"modelagency/internal/shared/objstore"
	"modelagency/internal/shared/storage"
)

// Handler API 处理器
//
// 所有 HTTP API 的入口，负责路由请求到各领域包并持有共享依赖。
type Handler struct {
	store   storage.PersistentStore // MongoDB 存储层
	photos  *objstore.Client        // 对象存储，未配置时为 nil
	authCfg auth.Config             // 管理员令牌配置
	metrics *Metrics                // Prometheus 指标
}

// NewHandler 创建 Handler 实例
func NewHandler(store storage.PersistentStore, photos *objstore.Client, authCfg auth.Config) *Handler {
	return &Handler{
		store:   store,
		photos:  photos,
		authCfg: authCfg,
		metrics: NewMetrics("modelagency"),
	}
}

// GetMetrics 返回指标实例
func (h *Handler) GetMetrics() *Metrics {
	return h.metrics
}

// writeJSON 将数据以 JSON 格式写入 HTTP 响应
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Health 健康检查接口
//
// 路由: GET /health
//
// 用于负载均衡器和监控系统检查服务状态。
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
