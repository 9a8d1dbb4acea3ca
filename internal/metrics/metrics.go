// metrics — счётчики Prometheus для HTTP-клиента.
//
// Метрики опциональны: включаются адресом metrics.addr в конфиге —
// cmd/waxipay регистрирует счётчики в собственном Registry и отдаёт их
// через promhttp. Без адреса клиент получает nil, и каждый Observe-вызов
// превращается в no-op.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics агрегирует счётчики клиента.
type Metrics struct {
	requests  *prometheus.CounterVec
	refreshes *prometheus.CounterVec
	replays   prometheus.Counter
}

// Результаты refresh-обмена для лейбла result.
const (
	RefreshOK     = "ok"
	RefreshFailed = "failed"
)

// New создаёт и регистрирует счётчики в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "waxipay",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Outbound API requests by method and HTTP status.",
		}, []string{"method", "status"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "waxipay",
			Subsystem: "client",
			Name:      "token_refresh_total",
			Help:      "Token refresh exchanges by result.",
		}, []string{"result"}),
		replays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "waxipay",
			Subsystem: "client",
			Name:      "request_replays_total",
			Help:      "Requests replayed after a successful token refresh.",
		}),
	}

	reg.MustRegister(m.requests, m.refreshes, m.replays)

	return m
}

// ObserveRequest учитывает завершённый запрос. nil-safe.
func (m *Metrics) ObserveRequest(method string, status int) {
	if m == nil {
		return
	}

	m.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// ObserveRefresh учитывает исход refresh-обмена. nil-safe.
func (m *Metrics) ObserveRefresh(result string) {
	if m == nil {
		return
	}

	m.refreshes.WithLabelValues(result).Inc()
}

// ObserveReplay учитывает повтор запроса после refresh. nil-safe.
func (m *Metrics) ObserveReplay() {
	if m == nil {
		return
	}

	m.replays.Inc()
}
