// session — владелец состояния аутентификации в памяти процесса.
//
// Manager — единственный источник истины «вошёл ли пользователь» и
// единственный, кто пишет в store.Store: хранилище лишь пассивно зеркалит
// каждую мутацию и читается один раз при старте (Restore).
//
// Все мутации сериализованы мьютексом, и зеркалирование в хранилище
// выполняется под ним же: запись в store неотделима от изменения памяти,
// иначе Clear, вклинившийся между проверкой и Save, оставил бы в хранилище
// живые токены при разлогиненной памяти. Счётчик epoch инкрементируется
// при каждой смене идентичности (Establish/Clear): refresh-обмен,
// завершившийся после logout, сравнивает свой снимок epoch с текущим и
// молча отбрасывает результат — очистка всегда выигрывает гонку, устаревшие
// токены не воскресают ни в памяти, ни в хранилище.
package session

import (
	"context"
	"errors"
	"fmt"

	"sync"

	"github.com/waxipay/go-waxipay/internal/models"
	"github.com/waxipay/go-waxipay/internal/store"
)

// ErrNoSession — активной сессии нет (не залогинен).
var ErrNoSession = errors.New("no active session")

// Manager владеет сессией и зеркалит её в долговременное хранилище.
type Manager struct {
	mu     sync.Mutex
	store  store.Store
	user   *models.User
	tokens *models.TokenPair
	epoch  uint64
}

// New создаёт менеджер поверх хранилища st.
func New(st store.Store) *Manager {
	return &Manager{store: st}
}

// Establish устанавливает новую сессию (login/register) и зеркалит её
// в хранилище. Ошибка записи не откатывает состояние в памяти: сессия
// валидна до перезапуска, вызывающий логирует сбой носителя.
func (m *Manager) Establish(ctx context.Context, user models.User, tokens models.TokenPair) error {
	const op = "session/Establish"

	m.mu.Lock()
	defer m.mu.Unlock()

	u, t := user, tokens
	m.user, m.tokens = &u, &t
	m.epoch++

	if err := m.store.Save(ctx, store.Credentials{Tokens: tokens, User: user}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Restore читает хранилище и восстанавливает сессию (один раз при старте).
// Возвращает store.ErrNotFound, если сохранённой сессии нет.
func (m *Manager) Restore(ctx context.Context) error {
	const op = "session/Restore"

	m.mu.Lock()
	defer m.mu.Unlock()

	creds, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	u, t := creds.User, creds.Tokens
	m.user, m.tokens = &u, &t
	m.epoch++

	return nil
}

// Clear сбрасывает сессию и безусловно чистит хранилище (logout,
// провал refresh-обмена). Идемпотентен.
func (m *Manager) Clear(ctx context.Context) error {
	const op = "session/Clear"

	m.mu.Lock()
	defer m.mu.Unlock()

	m.user, m.tokens = nil, nil
	m.epoch++

	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Tokens возвращает копию текущей пары токенов вместе со снимком epoch
// для последующего ApplyRefresh.
func (m *Manager) Tokens() (models.TokenPair, uint64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tokens == nil {
		return models.TokenPair{}, m.epoch, false
	}

	return *m.tokens, m.epoch, true
}

// ApplyRefresh заменяет пару токенов результатом refresh-обмена.
// Если epoch уже не совпадает (сессию успели очистить или перезалогинились),
// результат отбрасывается и возвращается false — это не ошибка.
func (m *Manager) ApplyRefresh(ctx context.Context, epoch uint64, pair models.TokenPair) (bool, error) {
	const op = "session/ApplyRefresh"

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.epoch != epoch || m.user == nil {
		return false, nil
	}

	p := pair
	m.tokens = &p

	// Save под мьютексом: Clear не может вклиниться между проверкой epoch
	// и записью и обнаружить потом в хранилище воскресшие токены.
	if err := m.store.Save(ctx, store.Credentials{Tokens: pair, User: *m.user}); err != nil {
		return true, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

// SetUser обновляет профиль в активной сессии (после GET /auth/profile/)
// и зеркалит его в хранилище. Без активной сессии — ErrNoSession.
func (m *Manager) SetUser(ctx context.Context, user models.User) error {
	const op = "session/SetUser"

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tokens == nil {
		return fmt.Errorf("%s: %w", op, ErrNoSession)
	}

	u := user
	m.user = &u

	if err := m.store.Save(ctx, store.Credentials{Tokens: *m.tokens, User: user}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Snapshot возвращает копию текущего состояния сессии.
// Инвариант Authenticated == (user != nil && tokens != nil) поддерживается
// конструктивно: оба поля мутируют только вместе под мьютексом.
func (m *Manager) Snapshot() models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	var s models.Session

	if m.user != nil {
		u := *m.user
		s.User = &u
	}

	if m.tokens != nil {
		t := *m.tokens
		s.Tokens = &t
	}

	s.Authenticated = s.User != nil && s.Tokens != nil

	return s
}

// Authenticated — короткая форма Snapshot().Authenticated.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.user != nil && m.tokens != nil
}
