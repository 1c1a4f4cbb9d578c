package main

import (
	"io/fs"
	"log"
	"net/http"
	"path"
	"strings"
)

// newSPAHandler 创建一个 SPA（单页应用）HTTP handler
//
// 优先级：
//  1. API/metrics 路由 → 委托给 apiHandler
//  2. 静态文件匹配 → 从嵌入的文件系统提供服务
//  3. 兜底 → 直接返回 index.html 内容（SPA 客户端路由接管）
//
// 注意：步骤3 不能使用 http.FileServer，因为 FileServer 对 /index.html 路径
// 会发送 301 重定向到 ./，导致非根路径（如 /admin/users）产生无限重定向循环。
func newSPAHandler(apiHandler http.Handler, staticFS fs.FS) http.Handler {
	fileServer := http.FileServer(http.FS(staticFS))

	// 预加载 index.html 内容到内存，避免每次请求都读取
	indexHTML, err := fs.ReadFile(staticFS, "index.html")
	if err != nil {
		log.Fatalf("Failed to read index.html from embedded FS: %v", err)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		urlPath := r.URL.Path

		// 1. API 与监控端点 → 交给原有路由处理
		if isAPIPath(urlPath) {
			apiHandler.ServeHTTP(w, r)
			return
		}

		// 2. 根路径 → 直接返回 index.html（避免 FileServer 的重定向行为）
		cleanPath := path.Clean(urlPath)
		if cleanPath == "/" {
			serveIndexHTML(w, indexHTML)
			return
		}

		// 3. 尝试精确匹配静态文件（JS/CSS/图片等）
		if tryServeFile(staticFS, cleanPath) {
			fileServer.ServeHTTP(w, r)
			return
		}

		// 4. SPA 兜底：直接返回 index.html 内容，由客户端路由处理
		serveIndexHTML(w, indexHTML)
	})
}

// isAPIPath 判断路径是否由后端路由处理
func isAPIPath(urlPath string) bool {
	return strings.HasPrefix(urlPath, "/api/") ||
		urlPath == "/health" ||
		urlPath == "/metrics"
}

// serveIndexHTML 直接写入预加载的 index.html 内容
func serveIndexHTML(w http.ResponseWriter, content []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

// tryServeFile 检查文件系统中是否存在指定路径的文件
// 不检查扩展名，只检查文件是否存在且不是目录
func tryServeFile(fsys fs.FS, filePath string) bool {
	cleanPath := strings.TrimPrefix(filePath, "/")
	if cleanPath == "" {
		cleanPath = "."
	}
	f, err := fsys.Open(cleanPath)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}
	return true
}
