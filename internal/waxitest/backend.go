// waxitest — фейковый бэкенд WaxiPay для тестов клиента и фасада.
//
// Поднимает httptest-сервер с REST-контрактом бэкенда (auth, wallet,
// transactions, payments) и ручками управления: протухание access-токенов,
// задержка/провал refresh-обмена, счётчик refresh-вызовов. Токены —
// простые порядковые строки: клиент обязан работать с ними как с
// непрозрачными значениями.
package waxitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/waxipay/go-waxipay/internal/models"
)

// Backend — управляемый фейковый бэкенд.
type Backend struct {
	srv *httptest.Server

	mu           sync.Mutex
	phone        string
	password     string
	user         models.User
	wallet       models.Wallet
	transactions []models.Transaction

	seq          int
	validAccess  map[string]bool
	validRefresh map[string]bool

	refreshCalls int
	lastIdemKey  string

	// Управление поведением (выставляются тестом до запросов).
	RefreshDelay       time.Duration // подержать refresh-обмен в полёте
	FailRefresh        bool          // refresh-обмен отвечает 401
	RotateRefresh      bool          // обмен ротирует и refresh-токен
	IssueInvalidAccess bool          // обмен выдаёт access, который бэкенд не примет
}

// New поднимает сервер с маршрутами контракта.
func New() *Backend {
	b := &Backend{
		validAccess:  make(map[string]bool),
		validRefresh: make(map[string]bool),
	}

	r := chi.NewRouter()

	r.Post("/auth/register/", b.handleRegister)
	r.Post("/auth/login/", b.handleLogin)
	r.Post("/auth/logout/", b.handleLogout)
	r.Post("/auth/token/refresh/", b.handleRefresh)

	r.Group(func(r chi.Router) {
		r.Use(b.requireAuth)
		r.Get("/auth/profile/", b.handleProfile)
		r.Get("/auth/wallet/", b.handleWallet)
		r.Get("/transactions/", b.handleTransactions)
		r.Get("/transactions/stats/", b.handleStats)
		r.Get("/transactions/{id}/", b.handleTransaction)
		r.Post("/payments/initiate/", b.handleInitiate)
		r.Post("/payments/payout/", b.handlePayout)
	})

	b.srv = httptest.NewServer(r)

	return b
}

// URL — базовый адрес сервера.
func (b *Backend) URL() string { return b.srv.URL }

// Close останавливает сервер.
func (b *Backend) Close() { b.srv.Close() }

// Seed заводит пользователя-фикстуру с паролем и кошельком.
func (b *Backend) Seed(phone, password string) models.User {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.phone, b.password = phone, password
	b.wallet = models.Wallet{
		ID:               "w1",
		Balance:          "15000.00",
		BalanceFormatted: "15 000",
		Currency:         "XOF",
		IsActive:         true,
		CreatedAt:        "2026-01-10T09:00:00Z",
	}
	b.user = models.User{
		ID:          "u1",
		PhoneNumber: phone,
		FullName:    "Awa Ndiaye",
		UserType:    models.UserTypeIndividual,
		IsVerified:  true,
		CreatedAt:   "2026-01-10T09:00:00Z",
		Wallet:      &b.wallet,
	}

	return b.user
}

// AddTransaction добавляет транзакцию в историю фикстуры.
func (b *Backend) AddTransaction(tx models.Transaction) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.transactions = append(b.transactions, tx)
}

// IssueTokens выпускает валидную пару (для заранее установленных сессий).
func (b *Backend) IssueTokens() models.TokenPair {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.issueLocked()
}

func (b *Backend) issueLocked() models.TokenPair {
	b.seq++
	pair := models.TokenPair{
		Access:  fmt.Sprintf("acc-%d", b.seq),
		Refresh: fmt.Sprintf("ref-%d", b.seq),
	}
	b.validAccess[pair.Access] = true
	b.validRefresh[pair.Refresh] = true

	return pair
}

// ExpireAccess делает недействительными все выданные access-токены;
// refresh-токены остаются валидными.
func (b *Backend) ExpireAccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.validAccess = make(map[string]bool)
}

// RefreshCalls — сколько refresh-обменов реально дошло до бэкенда.
func (b *Backend) RefreshCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.refreshCalls
}

// LastIdempotencyKey — ключ идемпотентности последнего платёжного запроса.
func (b *Backend) LastIdempotencyKey() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.lastIdemKey
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// requireAuth проверяет bearer-токен по множеству валидных access.
func (b *Backend) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")

		const prefix = "Bearer "
		if !strings.HasPrefix(auth, prefix) {
			writeError(w, http.StatusUnauthorized, "Authentification requise")
			return
		}

		token := strings.TrimSpace(auth[len(prefix):])

		b.mu.Lock()
		ok := b.validAccess[token]
		b.mu.Unlock()

		if !ok {
			writeError(w, http.StatusUnauthorized, "Token invalide ou expiré")
			return
		}

		next.ServeHTTP(w, r)
	})
}
