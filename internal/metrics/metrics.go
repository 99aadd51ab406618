package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ============================================================
// Prometheus метрики клиента
// ============================================================
//
// Экспортируются через локальный diag listener (/metrics),
// выключенный по умолчанию. Основные группы:
// - HTTP запросы к backend (латентность, статусы, refresh токена)
// - Live-поток (переподключения, события, буфер)

// ============ Метрики HTTP API ============

// APIRequestDuration - длительность запросов к backend
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "quantumleap",
		Subsystem: "api",
		Name:      "request_duration_ms",
		Help:      "Backend API request duration in milliseconds",
		Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	},
	[]string{"endpoint", "status"},
)

// APIRequestsTotal - количество запросов по эндпоинтам и статусам
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "quantumleap",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Total number of backend API requests",
	},
	[]string{"endpoint", "status"}, // status: 2xx, 4xx, 5xx, network_error
)

// TokenRefreshTotal - попытки обновления токена после 401
var TokenRefreshTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "quantumleap",
		Subsystem: "api",
		Name:      "token_refresh_total",
		Help:      "Total number of token refresh attempts triggered by 401",
	},
	[]string{"result"}, // success, failed
)

// ============ Метрики live-потока ============

// StreamConnected - состояние live-соединения (1=connected, 0=disconnected)
var StreamConnected = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "quantumleap",
		Subsystem: "stream",
		Name:      "connected",
		Help:      "Live stream connection status (1=connected, 0=disconnected)",
	},
)

// StreamReconnectsTotal - количество переподключений live-потока
var StreamReconnectsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "quantumleap",
		Subsystem: "stream",
		Name:      "reconnects_total",
		Help:      "Total number of live stream reconnect attempts",
	},
)

// StreamEventsTotal - входящие события по типам
var StreamEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "quantumleap",
		Subsystem: "stream",
		Name:      "events_total",
		Help:      "Total number of received stream events",
	},
	[]string{"type"}, // market_update, trade_executed, error, ...
)

// StreamParseFailuresTotal - кадры, не распарсившиеся как JSON
var StreamParseFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "quantumleap",
		Subsystem: "stream",
		Name:      "parse_failures_total",
		Help:      "Total number of stream frames dropped due to parse failure",
	},
)

// StreamBufferEvictionsTotal - события, вытесненные из буфера по ёмкости
var StreamBufferEvictionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "quantumleap",
		Subsystem: "stream",
		Name:      "buffer_evictions_total",
		Help:      "Total number of events evicted from the bounded buffer",
	},
)

// StreamSendDroppedTotal - исходящие сообщения, отброшенные при закрытом сокете
var StreamSendDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: "quantumleap",
		Subsystem: "stream",
		Name:      "send_dropped_total",
		Help:      "Total number of outbound messages dropped because the socket was not open",
	},
)

// ============ Вспомогательные функции ============

// RecordAPIRequest записывает результат запроса к backend
func RecordAPIRequest(endpoint, status string, latencyMs float64) {
	APIRequestsTotal.WithLabelValues(endpoint, status).Inc()
	APIRequestDuration.WithLabelValues(endpoint, status).Observe(latencyMs)
}

// RecordTokenRefresh записывает попытку обновления токена
func RecordTokenRefresh(success bool) {
	result := "failed"
	if success {
		result = "success"
	}
	TokenRefreshTotal.WithLabelValues(result).Inc()
}

// UpdateStreamStatus обновляет gauge состояния live-соединения
func UpdateStreamStatus(connected bool) {
	if connected {
		StreamConnected.Set(1)
	} else {
		StreamConnected.Set(0)
	}
}

// RecordStreamEvent записывает входящее событие
func RecordStreamEvent(eventType string) {
	StreamEventsTotal.WithLabelValues(eventType).Inc()
}
