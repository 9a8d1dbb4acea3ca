// store описывает контракт долговременного хранилища учётных данных:
// пара токенов + профиль пользователя, переживающие перезапуск процесса.
//
// Инварианты контракта:
//   - токены и профиль сохраняются и очищаются только парой: Load никогда
//     не наблюдает состояние «есть одно, нет другого»;
//   - хранилище — пассивное зеркало session.Manager; напрямую в него
//     не пишет никто другой.
package store

import (
	"context"
	"errors"

	"github.com/waxipay/go-waxipay/internal/models"
)

var (
	// ErrNotFound — сохранённой сессии нет (чистое состояние после logout
	// или первый запуск). Вызывающий трактует как «не залогинен».
	ErrNotFound = errors.New("session not found")

	// ErrUnavailable — носитель недоступен (нет прав на файл, Redis не
	// отвечает). Вызывающий трактует как «нет сессии», а не падает.
	ErrUnavailable = errors.New("storage unavailable")
)

// Credentials — то, что хранится: пара токенов и профиль, всегда вместе.
type Credentials struct {
	Tokens models.TokenPair `json:"tokens"`
	User   models.User      `json:"user"`
}

// Store задает контракт хранилища учётных данных.
type Store interface {
	// Save атомарно сохраняет пару токенов и профиль.
	Save(ctx context.Context, creds Credentials) error
	// Load возвращает сохранённые учётные данные или ErrNotFound.
	Load(ctx context.Context) (*Credentials, error)
	// Clear атомарно удаляет обе записи; идемпотентен.
	Clear(ctx context.Context) error
	// Close освобождает ресурсы носителя.
	Close() error
}
