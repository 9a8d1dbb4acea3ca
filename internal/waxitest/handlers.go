package waxitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/waxipay/go-waxipay/internal/models"
)

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide")
		return
	}

	if req.PhoneNumber == "" || req.Password == "" || req.FullName == "" {
		writeError(w, http.StatusBadRequest, "Champs requis manquants")
		return
	}

	if req.Password != req.PasswordConfirm {
		writeError(w, http.StatusBadRequest, "Les mots de passe ne correspondent pas.")
		return
	}

	b.mu.Lock()
	b.phone, b.password = req.PhoneNumber, req.Password
	b.wallet = models.Wallet{ID: "w1", Balance: "0.00", BalanceFormatted: "0", Currency: "XOF", IsActive: true}
	b.user = models.User{
		ID:          "u1",
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		FullName:    req.FullName,
		UserType:    req.UserType,
		Wallet:      &b.wallet,
	}
	user := b.user
	pair := b.issueLocked()
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, models.AuthResponse{
		Success: true,
		Message: "Inscription réussie",
		User:    &user,
		Tokens:  &pair,
	})
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide")
		return
	}

	b.mu.Lock()
	ok := b.phone != "" && req.PhoneNumber == b.phone && req.Password == b.password
	if !ok {
		b.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "Identifiants invalides")
		return
	}

	user := b.user
	pair := b.issueLocked()
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, models.AuthResponse{
		Success: true,
		Message: "Connexion réussie",
		User:    &user,
		Tokens:  &pair,
	})
}

func (b *Backend) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req models.LogoutRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	b.mu.Lock()
	delete(b.validRefresh, req.Refresh)
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Déconnexion réussie"})
}

func (b *Backend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Requête invalide")
		return
	}

	// Задержка имитирует медленный обмен: окно для конкурентных 401.
	if b.RefreshDelay > 0 {
		time.Sleep(b.RefreshDelay)
	}

	b.mu.Lock()
	b.refreshCalls++

	if b.FailRefresh || !b.validRefresh[req.Refresh] {
		b.mu.Unlock()
		writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}

	b.seq++
	access := fmt.Sprintf("acc-%d", b.seq)

	if !b.IssueInvalidAccess {
		b.validAccess[access] = true
	}

	resp := models.RefreshResponse{Access: access}

	if b.RotateRefresh {
		delete(b.validRefresh, req.Refresh)
		rotated := fmt.Sprintf("ref-%d", b.seq)
		b.validRefresh[rotated] = true
		resp.Refresh = rotated
	}
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (b *Backend) handleProfile(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	user := b.user
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, user)
}

func (b *Backend) handleWallet(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	wallet := b.wallet
	b.mu.Unlock()

	writeJSON(w, http.StatusOK, wallet)
}

func (b *Backend) handleTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	b.mu.Lock()
	list := make([]models.Transaction, 0, len(b.transactions))

	for _, tx := range b.transactions {
		if v := q.Get("type"); v != "" && tx.TransactionType != v {
			continue
		}
		if v := q.Get("status"); v != "" && tx.Status != v {
			continue
		}
		if v := q.Get("payment_method"); v != "" && tx.PaymentMethod != v {
			continue
		}

		list = append(list, tx)
	}
	b.mu.Unlock()

	// Пагинированный конверт, как у боевого бэкенда.
	writeJSON(w, http.StatusOK, map[string]any{"count": len(list), "results": list})
}

func (b *Backend) handleTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, tx := range b.transactions {
		if tx.ID == id {
			writeJSON(w, http.StatusOK, tx)
			return
		}
	}

	writeError(w, http.StatusNotFound, "Transaction introuvable")
}

func (b *Backend) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": models.TransactionStats{
			TotalReceived:     25000,
			TotalSent:         10000,
			MonthTransactions: 7,
			WeeklyData: []models.WeeklyPoint{
				{Date: "2026-08-25", Total: 5000, Count: 2},
				{Date: "2026-08-27", Total: 3000, Count: 1},
			},
			WalletBalance: 15000,
		},
	})
}

func (b *Backend) handleInitiate(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.lastIdemKey = r.Header.Get("X-Idempotency-Key")
	b.mu.Unlock()

	var req models.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount == "" {
		writeError(w, http.StatusBadRequest, "Montant requis")
		return
	}

	writeJSON(w, http.StatusOK, models.PaymentResponse{
		PaymentURL: "https://paytech.sn/payment/checkout/test-token",
		Token:      "test-token",
		Amount:     1000,
		Reference:  "WXP-TEST00000001",
	})
}

func (b *Backend) handlePayout(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.lastIdemKey = r.Header.Get("X-Idempotency-Key")
	b.mu.Unlock()

	var req models.PayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount == "" || req.RecipientPhone == "" {
		writeError(w, http.StatusBadRequest, "Montant et destinataire requis")
		return
	}

	writeJSON(w, http.StatusOK, models.PayoutResponse{
		Success:   true,
		Message:   "Retrait initié",
		Reference: "WXP-TEST00000002",
	})
}
