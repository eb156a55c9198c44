package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// API 指标
var (
	// APIRequestsTotal API 请求总数
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toolhub_api_requests_total",
			Help: "API 请求总数",
		},
		[]string{"method", "path", "status"},
	)

	// APIRequestDuration API 请求延迟（秒）
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "toolhub_api_request_duration_seconds",
			Help:    "API 请求延迟分布",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// 数据访问层指标
var (
	// StoreOperationsTotal 数据访问层操作总数
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toolhub_store_operations_total",
			Help: "数据访问层操作总数",
		},
		[]string{"entity", "operation", "result"},
	)

	// HealthChecksRecorded 已写入的健康检查记录数
	HealthChecksRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "toolhub_health_checks_recorded_total",
			Help: "已写入的健康检查记录数",
		},
		[]string{"status"},
	)
)

// RecordHealthCheck 记录一次健康检查写入
func RecordHealthCheck(status string) {
	HealthChecksRecorded.WithLabelValues(status).Inc()
}

// RecordStoreOperation 记录一次数据访问层操作结果
func RecordStoreOperation(entity, operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	StoreOperationsTotal.WithLabelValues(entity, operation, result).Inc()
}
