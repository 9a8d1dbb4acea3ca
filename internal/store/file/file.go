// file — реализация store.Store поверх одного JSON-файла.
//
// Атомарность достигается записью во временный файл с последующим rename:
// читатель видит либо старое содержимое целиком, либо новое, но никогда —
// частичную запись. Токены и профиль лежат в одном документе, поэтому
// требование «обе записи вместе» выполняется конструктивно.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/waxipay/go-waxipay/internal/store"
)

// Store — файловое хранилище учётных данных.
type Store struct {
	mu   sync.Mutex
	path string
}

// New создаёт хранилище по пути path. Родительская директория создаётся
// с правами 0700; сам файл пишется с правами 0600 (в нём bearer-токены).
func New(path string) (*Store, error) {
	const op = "store/file/New"

	if path == "" {
		return nil, fmt.Errorf("%s: empty path", op)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, store.ErrUnavailable, err)
		}
	}

	return &Store{path: path}, nil
}

// Save сериализует учётные данные и атомарно заменяет файл.
func (s *Store) Save(_ context.Context, creds store.Credentials) error {
	const op = "store/file/Save"

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("%s: %w: %w", op, store.ErrUnavailable, err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%s: %w: %w", op, store.ErrUnavailable, err)
	}

	return nil
}

// Load читает и десериализует сохранённые учётные данные.
// Отсутствие файла, пустой или повреждённый файл — store.ErrNotFound:
// битую сессию нельзя восстановить, клиент просто логинится заново.
func (s *Store) Load(_ context.Context) (*store.Credentials, error) {
	const op = "store/file/Load"

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
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

// Clear удаляет файл; отсутствие файла ошибкой не считается.
func (s *Store) Clear(_ context.Context) error {
	const op = "store/file/Clear"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w: %w", op, store.ErrUnavailable, err)
	}

	return nil
}

// Close ничего не освобождает: файловых дескрипторов между вызовами нет.
func (s *Store) Close() error { return nil }
