package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waxipay/go-waxipay/internal/models"
	"github.com/waxipay/go-waxipay/internal/store"
)

// Пакет тестов файлового хранилища учётных данных.
//
// Покрытие:
//   - round-trip Save/Load: пара токенов и профиль возвращаются как есть;
//   - Load на пустом/битом/неполном файле -> store.ErrNotFound;
//   - Clear удаляет файл и идемпотентен;
//   - Save атомарно перезаписывает прежнюю сессию;
//   - файл создаётся с правами 0600.

func testCreds() store.Credentials {
	return store.Credentials{
		Tokens: models.TokenPair{Access: "a1", Refresh: "r1"},
		User: models.User{
			ID:          "u1",
			PhoneNumber: "771234567",
			FullName:    "Awa Ndiaye",
			UserType:    models.UserTypeIndividual,
			IsVerified:  true,
		},
	}
}

func newStore(t *testing.T) *Store {
	t.Helper()

	st, err := New(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)

	return st
}

func TestNew_EmptyPath(t *testing.T) {
	t.Parallel()

	_, err := New("")
	require.Error(t, err)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	st := newStore(t)
	ctx := context.Background()

	want := testCreds()
	require.NoError(t, st.Save(ctx, want))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, want.Tokens, got.Tokens)
	require.Equal(t, want.User, got.User)
}

func TestLoad_Empty_NotFound(t *testing.T) {
	t.Parallel()

	st := newStore(t)

	_, err := st.Load(context.Background())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestLoad_Corrupted_NotFound(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	st, err := New(path)
	require.NoError(t, err)

	_, err = st.Load(context.Background())
	require.ErrorIs(t, err, store.ErrNotFound)
}

// TestLoad_Partial_NotFound — файл без токенов или без профиля
// невалиден: «есть одно, нет другого» не наблюдаемо.
func TestLoad_Partial_NotFound(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"tokens":{"access":"a1","refresh":""},"user":{"id":"u1"}}`), 0o600))

	st, err := New(path)
	require.NoError(t, err)

	_, err = st.Load(context.Background())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestClear_RemovesAndIdempotent(t *testing.T) {
	t.Parallel()

	st := newStore(t)
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, testCreds()))
	require.NoError(t, st.Clear(ctx))

	_, err := st.Load(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)

	// Повторный Clear — не ошибка.
	require.NoError(t, st.Clear(ctx))
}

func TestSave_Overwrites(t *testing.T) {
	t.Parallel()

	st := newStore(t)
	ctx := context.Background()

	first := testCreds()
	require.NoError(t, st.Save(ctx, first))

	second := first
	second.Tokens = models.TokenPair{Access: "a2", Refresh: "r2"}
	require.NoError(t, st.Save(ctx, second))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, second.Tokens, got.Tokens)
}

func TestSave_FileMode(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "session.json")
	st, err := New(path)
	require.NoError(t, err)

	require.NoError(t, st.Save(context.Background(), testCreds()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
