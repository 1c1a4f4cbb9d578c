// Package server Prometheus 指标导出
package server

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"modelagency/internal/shared/model"
)

// Metrics 包含所有 API Server 指标
type Metrics struct {
	// HTTP 请求指标
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// 业务指标
	UsersTotal    *prometheus.GaugeVec
	BookingsTotal prometheus.Gauge

	// 数据库指标
	DBQueryTotal    *prometheus.CounterVec
	DBQueryDuration *prometheus.HistogramVec
}

// NewMetrics 创建指标实例
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		UsersTotal: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "users_total",
				Help:      "Total non-deleted users by type",
			},
			[]string{"type"},
		),
		BookingsTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "bookings_total",
				Help:      "Total bookings across all statuses",
			},
		),
		DBQueryTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "db_queries_total",
				Help:      "Total database queries",
			},
			[]string{"operation", "collection"},
		),
		DBQueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "db_query_duration_seconds",
				Help:      "Database query duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"operation", "collection"},
		),
	}
}

// MetricsMiddleware 创建 HTTP 指标中间件
func (m *Metrics) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		// 包装 ResponseWriter 以捕获状态码
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)
		status := strconv.Itoa(wrapped.statusCode)

		m.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// responseWriter 包装 http.ResponseWriter 以捕获状态码
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// normalizePath 规范化路径，将 ID 替换为占位符，避免高基数
func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/photos/"):
		return "/api/photos/{key}"
	case strings.HasPrefix(path, "/api/admin/users/") && strings.HasSuffix(path, "/restore"):
		return "/api/admin/users/{id}/restore"
	case strings.HasPrefix(path, "/api/admin/users/") && strings.HasSuffix(path, "/photos"):
		return "/api/admin/users/{id}/photos"
	case strings.HasPrefix(path, "/api/admin/users/"):
		return "/api/admin/users/{id}"
	case strings.HasPrefix(path, "/api/admin/bookings/"):
		return "/api/admin/bookings/{id}"
	case strings.HasPrefix(path, "/api/admin/admins/"):
		return "/api/admin/admins/{id}"
	default:
		return path
	}
}

// MetricsHandler 返回 Prometheus HTTP Handler
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// RecordDBQuery 记录数据库查询指标
func (m *Metrics) RecordDBQuery(operation, collection string, duration time.Duration) {
	m.DBQueryTotal.WithLabelValues(operation, collection).Inc()
	m.DBQueryDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())
}

// RefreshDomainGauges 从存储层刷新业务计数指标
func (h *Handler) RefreshDomainGauges(ctx context.Context) {
	for _, t := range []model.UserType{model.UserTypeBrand, model.UserTypeModel} {
		count, err := h.store.CountUsersByType(ctx, t)
		if err != nil {
			log.Printf("[metrics] count users (%s) error: %v", t, err)
			continue
		}
		h.metrics.UsersTotal.WithLabelValues(string(t)).Set(float64(count))
	}
	bookings, err := h.store.CountBookings(ctx)
	if err != nil {
		log.Printf("[metrics] count bookings error: %v", err)
		return
	}
	h.metrics.BookingsTotal.Set(float64(bookings))
}

// StartGaugeRefresher 周期性刷新业务指标，ctx 取消时退出
func (h *Handler) StartGaugeRefresher(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		h.RefreshDomainGauges(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.RefreshDomainGauges(ctx)
			}
		}
	}()
}
