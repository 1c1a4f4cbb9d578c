// Package main API Server 入口
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"modelagency/internal/apiserver/auth"
	"modelagency/internal/apiserver/server"
	"modelagency/internal/config"
	"modelagency/internal/shared/objstore"
	"modelagency/internal/shared/storage/mongostore"
	"modelagency/web"
)

func main() {
	// 加载配置（自动加载 .env，根据 APP_ENV 切换配置文件）
	cfg := config.Load()

	log.Printf("Starting API Server... [env=%s]", cfg.Env)
	log.Printf("Config: %s", cfg.String())

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required (set it in .env or the environment)")
	}

	// 初始化 MongoDB
	store, err := mongostore.NewStore(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer store.Close()
	log.Println("Connected to MongoDB")

	// 初始化对象存储（可选，用于模特作品集照片）
	var photos *objstore.Client
	if cfg.MinIO.Enabled() {
		photos, err = objstore.NewClient(cfg.MinIO)
		if err != nil {
			log.Fatalf("Failed to create MinIO client: %v", err)
		}
		if err := photos.EnsureBucket(context.Background()); err != nil {
			log.Fatalf("Failed to ensure MinIO bucket: %v", err)
		}
		log.Println("Connected to MinIO")
	} else {
		log.Println("MinIO not configured, photo upload disabled")
	}

	// 播种默认管理员账号（仅当集合为空时）
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := auth.EnsureDefaultAdmins(seedCtx, store); err != nil {
		log.Fatalf("Failed to seed default admins: %v", err)
	}
	seedCancel()

	// 初始化 Handler
	authCfg := auth.Config{
		JWTSecret: cfg.Auth.JWTSecret,
		TokenTTL:  cfg.Auth.TokenTTL,
	}
	h := server.NewHandler(store, photos, authCfg)

	// 数据库查询指标
	store.SetQueryRecorder(h.GetMetrics().RecordDBQuery)

	// 周期刷新业务指标
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.StartGaugeRefresher(ctx, 30*time.Second)

	// 前端：生产模式嵌入 Vite 构建产物，开发模式反向代理到 Vite dev server
	apiHandler := h.Router()
	var rootHandler http.Handler
	if web.IsEmbedded() {
		staticFS, err := web.StaticFS()
		if err != nil {
			log.Fatalf("Failed to load embedded frontend: %v", err)
		}
		rootHandler = newSPAHandler(apiHandler, staticFS)
	} else {
		viteAddr := os.Getenv("VITE_DEV_SERVER")
		if viteAddr == "" {
			viteAddr = "http://localhost:5173"
		}
		rootHandler = newDevHandler(apiHandler, viteAddr)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      rootHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 优雅关闭
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("API Server listening on :%s", cfg.APIPort)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	fmt.Println("Server stopped")
}
