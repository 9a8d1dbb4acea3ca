// client — HTTP-конвейер к бэкенду WaxiPay с автоматическим обновлением
// access-токена.
//
// Конвейер: фиксированный базовый адрес и таймаут, JSON-кодек, подстановка
// bearer-токена из session.Manager (не из хранилища) на каждый запрос.
// Успешный ответ состояние сессии не трогает.
//
// Координатор refresh: первый 401 на запрос помечает его «уже повторён»
// (явный флаг на попытке, не более одного повтора на исходный вызов),
// затем выполняется ровно один refresh-обмен на окно перекрывающихся 401
// с одним и тем же протухшим access-токеном — опоздавшие присоединяются к
// уже идущему обмену через singleflight, а не запускают свой. Успех —
// новая пара в сессии и хранилище, запрос повторяется с новым access.
// Провал — сессия и хранилище очищаются, вызывающему уходит ErrSessionExpired.
package client

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/waxipay/go-waxipay/internal/metrics"
	"github.com/waxipay/go-waxipay/internal/session"
)

// Client — сконструированный конвейер запросов; ambient-глобалов нет.
// Экземпляр безопасен для конкурентного использования.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Manager
	metrics *metrics.Metrics
	group   singleflight.Group
}

// New создаёт клиент с фиксированным базовым адресом и таймаутом.
// Метрики опциональны (nil — не снимать).
func New(baseURL string, timeout time.Duration, sess *session.Manager, m *metrics.Metrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: sess,
		metrics: m,
	}
}
