//go:build !dev
// +build !dev

// Package web 提供前端静态文件的嵌入支持（生产模式）
//
// 使用 Go embed 将 Vite 构建产物 dist/ 目录嵌入到二进制文件中。
//
// 构建前需要先执行：cd web && npm run build
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:dist
var staticFiles embed.FS

// StaticFS 返回前端静态文件的文件系统，以 dist/ 为根目录
func StaticFS() (fs.FS, error) {
	return fs.Sub(staticFiles, "dist")
}

// IsEmbedded 返回 true 表示当前为生产模式（前端已嵌入）
func IsEmbedded() bool {
	return true
}
