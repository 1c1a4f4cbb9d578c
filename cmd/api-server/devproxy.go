package main

import (
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
)

// newDevHandler 开发模式 handler：API 路由由 Go 处理，其余反向代理到 Vite dev server
//
// 架构：
//
//	Browser → http://IP:5000 (Go)
//	          ├── /api/*   → Go handlers
//	          ├── /health  → Go
//	          ├── /metrics → Go
//	          └── /*       → reverse proxy → http://localhost:5173 (Vite dev)
func newDevHandler(apiHandler http.Handler, viteAddr string) http.Handler {
	target, err := url.Parse(viteAddr)
	if err != nil {
		log.Fatalf("Invalid Vite dev server address: %v", err)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)

	// 自定义 Director：保留原始 Host header 以支持 Vite HMR
	originalDirector := proxy.Director
	proxy.Director = func(req *http.Request) {
		originalDirector(req)
		req.Host = target.Host
	}

	log.Printf("[dev] Reverse proxy: non-API routes → %s", viteAddr)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// API 与监控端点 → Go 处理
		if isAPIPath(r.URL.Path) {
			apiHandler.ServeHTTP(w, r)
			return
		}

		// 其余所有请求（页面、静态资源、HMR WebSocket）→ Vite
		proxy.ServeHTTP(w, r)
	})
}
