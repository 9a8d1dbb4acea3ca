// redis — реализация store.Store поверх Redis.
//
// Вариант для серверных потребителей SDK (боты, шлюзы, киоски), которым
// нужно переживать перезапуск без локального диска. Учётные данные лежат
// одним JSON-значением под одним ключом, поэтому SET/DEL атомарны и
// требование «токены и профиль только вместе» выполняется конструктивно.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/waxipay/go-waxipay/internal/store"
)

const defaultKey = "waxipay:session"

// Store — Redis-хранилище учётных данных.
type Store struct {
	rdb *redis.Client
	key string
}

// New создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если key пустой — используется "waxipay:session".
// Выполняет fail-fast ping на старте.
func New(ctx context.Context, redisURL, key string) (*Store, error) {
	const op = "store/redis/New"

	if key == "" {
		key = defaultKey
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, store.ErrUnavailable, err)
	}

	return &Store{rdb: rdb, key: key}, nil
}

// Save сохраняет учётные данные одним значением без TTL:
// срок жизни сессии определяет бэкенд, а не хранилище.
func (s *Store) Save(ctx context.Context, creds store.Credentials) error {
	const op = "store/redis/Save"

	raw, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.rdb.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w: %w", op, store.ErrUnavailable, err)
	}

	return nil
}

// Load возвращает сохранённые учётные данные или store.ErrNotFound.
func (s *Store) Load(ctx context.Context) (*store.Credentials, error) {
	const op = "store/redis/Load"

	raw, err := s.rdb.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%s: %w", op, store.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w: %w", op, store.ErrUnavailable, err)
	}

	var creds store.Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, fmt.Errorf("%s: %w", op, store.ErrNotFound)
	}

	if !creds.Tokens.Valid() || creds.User.ID == "" {
		return nil, fmt.Errorf("%s: %w", op, store.ErrNotFound)
	}

	return &creds, nil
}

// Clear удаляет ключ; отсутствие ключа ошибкой не считается.
func (s *Store) Clear(ctx context.Context) error {
	const op = "store/redis/Clear"

	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("%s: %w: %w", op, store.ErrUnavailable, err)
	}

	return nil
}

// Close закрывает клиент Redis.
func (s *Store) Close() error { return s.rdb.Close() }
