package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/waxipay/go-waxipay/internal/client"
	"github.com/waxipay/go-waxipay/internal/models"
	"github.com/waxipay/go-waxipay/internal/session"
	"github.com/waxipay/go-waxipay/internal/store"
	filestore "github.com/waxipay/go-waxipay/internal/store/file"
	"github.com/waxipay/go-waxipay/internal/waxitest"
)

// Тесты фасада auth: вход, регистрация, выход, восстановление сессии.

// newTestService собирает фасад поверх фейкового бэкенда и файлового
// хранилища во временном каталоге.
func newTestService(t *testing.T) (*waxitest.Backend, *Service, *filestore.Store) {
	t.Helper()

	backend := waxitest.New()
	t.Cleanup(backend.Close)

	st, err := filestore.New(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	sess := session.New(st)
	cl := client.New(backend.URL(), 5*time.Second, sess, nil)

	return backend, New(cl, sess), st
}

// deadService — фасад с недостижимым бэкендом: любой сетевой вызов упадёт.
// Доказывает, что клиентская валидация отрабатывает до сети.
func deadService(t *testing.T) *Service {
	t.Helper()

	backend := waxitest.New()
	backend.Close()

	st, err := filestore.New(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	sess := session.New(st)
	cl := client.New(backend.URL(), time.Second, sess, nil)

	return New(cl, sess)
}

func TestLogin_OK(t *testing.T) {
	t.Parallel()

	backend, svc, st := newTestService(t)
	backend.Seed("771234567", "secret1")

	sess, err := svc.Login(context.Background(), "771234567", "secret1")
	require.NoError(t, err)
	require.True(t, sess.Authenticated)
	require.Equal(t, "771234567", sess.User.PhoneNumber)
	require.True(t, sess.Tokens.Valid())

	// Сессия зеркалится в хранилище как единое целое.
	creds, err := st.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, sess.Tokens.Access, creds.Tokens.Access)
	require.Equal(t, "771234567", creds.User.PhoneNumber)
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	backend, svc, st := newTestService(t)
	backend.Seed("771234567", "secret1")

	_, err := svc.Login(context.Background(), "771234567", "wrong")
	require.Error(t, err)

	// Текст бэкенда доносится до пользователя дословно.
	require.Equal(t, "Identifiants invalides", UserMessage(err, FallbackLogin))

	// Провал входа не оставляет следов ни в памяти, ни в хранилище.
	require.False(t, svc.Session().Authenticated)

	_, err = st.Load(context.Background())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestLogin_Validation(t *testing.T) {
	t.Parallel()

	svc := deadService(t)

	_, err := svc.Login(context.Background(), "", "secret1")
	require.ErrorIs(t, err, ErrPhoneRequired)

	_, err = svc.Login(context.Background(), "771234567", "")
	require.ErrorIs(t, err, ErrPasswordRequired)
}

func TestRegister_OK(t *testing.T) {
	t.Parallel()

	_, svc, st := newTestService(t)

	sess, err := svc.Register(context.Background(), models.RegisterRequest{
		PhoneNumber:     "771234567",
		FullName:        "Awa Ndiaye",
		UserType:        models.UserTypeIndividual,
		Password:        "secret1",
		PasswordConfirm: "secret1",
	})
	require.NoError(t, err)
	require.True(t, sess.Authenticated)
	require.Equal(t, "Awa Ndiaye", sess.User.FullName)

	creds, err := st.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Awa Ndiaye", creds.User.FullName)
}

// TestRegister_Validation — валидация формы fail-fast: бэкенд мёртв,
// но ошибки валидации возвращаются без попытки сетевого вызова.
func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	svc := deadService(t)

	tests := []struct {
		name    string
		req     models.RegisterRequest
		wantErr error
	}{
		{
			name:    "пустой телефон",
			req:     models.RegisterRequest{FullName: "Awa", UserType: "client", Password: "secret1", PasswordConfirm: "secret1"},
			wantErr: ErrPhoneRequired,
		},
		{
			name:    "пустое имя",
			req:     models.RegisterRequest{PhoneNumber: "771234567", UserType: "client", Password: "secret1", PasswordConfirm: "secret1"},
			wantErr: ErrFullNameRequired,
		},
		{
			name:    "пустой тип аккаунта",
			req:     models.RegisterRequest{PhoneNumber: "771234567", FullName: "Awa", Password: "secret1", PasswordConfirm: "secret1"},
			wantErr: ErrUserTypeRequired,
		},
		{
			name:    "пустой пароль",
			req:     models.RegisterRequest{PhoneNumber: "771234567", FullName: "Awa", UserType: "client"},
			wantErr: ErrPasswordRequired,
		},
		{
			name:    "пароли не совпадают",
			req:     models.RegisterRequest{PhoneNumber: "771234567", FullName: "Awa", UserType: "client", Password: "secret1", PasswordConfirm: "secret2"},
			wantErr: ErrPasswordMismatch,
		},
		{
			name:    "короткий пароль",
			req:     models.RegisterRequest{PhoneNumber: "771234567", FullName: "Awa", UserType: "client", Password: "abc", PasswordConfirm: "abc"},
			wantErr: ErrPasswordTooShort,
		},
		{
			// Минимум считается в символах, не в байтах: "ééé" — 6 байт,
			// но лишь 3 символа.
			name:    "короткий многобайтный пароль",
			req:     models.RegisterRequest{PhoneNumber: "771234567", FullName: "Awa", UserType: "client", Password: "ééé", PasswordConfirm: "ééé"},
			wantErr: ErrPasswordTooShort,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Register(context.Background(), tc.req)
			require.ErrorIs(t, err, tc.wantErr)
			require.True(t, IsValidation(err))
			require.Equal(t, tc.wantErr.Error(), UserMessage(err, FallbackRegister))
		})
	}
}

// TestLogout_BackendDown — сетевой сбой не блокирует выход: локальная
// сессия и хранилище очищаются безусловно.
func TestLogout_BackendDown(t *testing.T) {
	t.Parallel()

	backend, svc, st := newTestService(t)
	backend.Seed("771234567", "secret1")

	_, err := svc.Login(context.Background(), "771234567", "secret1")
	require.NoError(t, err)

	backend.Close()

	require.NoError(t, svc.Logout(context.Background()))
	require.False(t, svc.Session().Authenticated)

	_, err = st.Load(context.Background())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestLogout_Idempotent(t *testing.T) {
	t.Parallel()

	_, svc, _ := newTestService(t)

	// Logout без сессии — не ошибка.
	require.NoError(t, svc.Logout(context.Background()))
	require.NoError(t, svc.Logout(context.Background()))
}

func TestLoadSession_Empty(t *testing.T) {
	t.Parallel()

	_, svc, _ := newTestService(t)

	_, err := svc.LoadSession(context.Background())
	require.ErrorIs(t, err, ErrNoSession)
	require.False(t, svc.Session().Authenticated)
}

// TestLoadSession_Roundtrip — сессия, установленная одним процессом,
// восстанавливается другим поверх того же файла.
func TestLoadSession_Roundtrip(t *testing.T) {
	t.Parallel()

	backend := waxitest.New()
	t.Cleanup(backend.Close)
	backend.Seed("771234567", "secret1")

	path := filepath.Join(t.TempDir(), "session.json")

	first, err := filestore.New(path)
	require.NoError(t, err)

	sessA := session.New(first)
	svcA := New(client.New(backend.URL(), 5*time.Second, sessA, nil), sessA)

	established, err := svcA.Login(context.Background(), "771234567", "secret1")
	require.NoError(t, err)

	// «Перезапуск»: новый стек поверх того же файла.
	second, err := filestore.New(path)
	require.NoError(t, err)

	sessB := session.New(second)
	svcB := New(client.New(backend.URL(), 5*time.Second, sessB, nil), sessB)

	restored, err := svcB.LoadSession(context.Background())
	require.NoError(t, err)
	require.True(t, restored.Authenticated)
	require.Equal(t, established.Tokens.Access, restored.Tokens.Access)
	require.Equal(t, established.User.ID, restored.User.ID)
}

func TestProfile_UpdatesSession(t *testing.T) {
	t.Parallel()

	backend, svc, st := newTestService(t)
	backend.Seed("771234567", "secret1")

	_, err := svc.Login(context.Background(), "771234567", "secret1")
	require.NoError(t, err)

	user, err := svc.Profile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "u1", user.ID)
	require.NotNil(t, user.Wallet)

	// Свежий профиль зеркалится в хранилище.
	creds, err := st.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, user.ID, creds.User.ID)
}

func TestUserMessage_Fallback(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", UserMessage(nil, FallbackGeneric))

	// Ошибка без текста бэкенда — фиксированный фолбэк.
	require.Equal(t, FallbackGeneric, UserMessage(context.DeadlineExceeded, FallbackGeneric))
}
