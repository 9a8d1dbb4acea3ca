package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated — бэкенд отклонил учётные данные, и refresh-путь
	// запросу уже недоступен (повтор исчерпан либо запрос шёл без токена).
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrSessionExpired — refresh-обмен сам был отклонён; сессия и хранилище
	// уже очищены, пользователю нужно войти заново.
	ErrSessionExpired = errors.New("session expired")

	// ErrTimeout — сетевой вызов не уложился в таймаут. Никогда не ведёт
	// в refresh-путь.
	ErrTimeout = errors.New("request timed out")
)

// APIError — ошибка уровня API: бэкенд ответил не-2xx.
// Message — текст из тела `{error: "..."}`, показывается пользователю
// дословно; если тело не распарсилось — остаётся пустым, и фасад
// подставляет фиксированное сообщение.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}

	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// errorEnvelope — тело ошибки бэкенда.
type errorEnvelope struct {
	Error string `json:"error"`
}

// apiError разбирает тело ошибки в *APIError.
func apiError(status int, body []byte) *APIError {
	var env errorEnvelope
	_ = json.Unmarshal(body, &env)

	return &APIError{Status: status, Message: env.Error}
}
