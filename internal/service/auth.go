package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/waxipay/go-waxipay/internal/models"
	"github.com/waxipay/go-waxipay/internal/pkg/log"
	"github.com/waxipay/go-waxipay/internal/pkg/redact"
	"github.com/waxipay/go-waxipay/internal/session"
	"github.com/waxipay/go-waxipay/internal/store"
)

// Login выполняет вход по номеру телефона и паролю.
// Успех устанавливает сессию и зеркалит её в хранилище; провал оставляет
// сессию неаутентифицированной.
func (s *Service) Login(ctx context.Context, phone, password string) (models.Session, error) {
	const op = "service/auth/Login"

	lg := log.From(ctx)

	if phone == "" {
		return models.Session{}, fmt.Errorf("%s: %w", op, ErrPhoneRequired)
	}

	if password == "" {
		return models.Session{}, fmt.Errorf("%s: %w", op, ErrPasswordRequired)
	}

	var resp models.AuthResponse
	if err := s.client.Post(ctx, "/auth/login/", models.LoginRequest{PhoneNumber: phone, Password: password}, &resp); err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	if resp.User == nil || resp.Tokens == nil || !resp.Tokens.Valid() {
		return models.Session{}, fmt.Errorf("%s: %w", op, ErrBadResponse)
	}

	if err := s.session.Establish(ctx, *resp.User, *resp.Tokens); err != nil {
		// Сессия в памяти валидна; сбой носителя означает лишь то,
		// что она не переживёт перезапуск.
		lg.Warn("session_persist_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}

	lg.Info("login_ok",
		slog.String("op", op),
		slog.String("phone", redact.Phone(phone)),
	)

	return s.session.Snapshot(), nil
}

// Register регистрирует новый аккаунт. Валидация выполняется до любого
// сетевого вызова; каждая ошибка имеет собственный sentinel.
// Контракт сессии после успеха — как у Login.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (models.Session, error) {
	const op = "service/auth/Register"

	lg := log.From(ctx)

	if err := validateRegister(req); err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	var resp models.AuthResponse
	if err := s.client.Post(ctx, "/auth/register/", req, &resp); err != nil {
		return models.Session{}, fmt.Errorf("%s: %w", op, err)
	}

	if resp.User == nil || resp.Tokens == nil || !resp.Tokens.Valid() {
		return models.Session{}, fmt.Errorf("%s: %w", op, ErrBadResponse)
	}

	if err := s.session.Establish(ctx, *resp.User, *resp.Tokens); err != nil {
		lg.Warn("session_persist_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}

	lg.Info("register_ok",
		slog.String("op", op),
		slog.String("phone", redact.Phone(req.PhoneNumber)),
		slog.String("email", redact.Email(req.Email)),
		slog.String("user_type", req.UserType),
	)

	return s.session.Snapshot(), nil
}

// validateRegister — fail-fast проверки формы регистрации.
func validateRegister(req models.RegisterRequest) error {
	switch {
	case req.PhoneNumber == "":
		return ErrPhoneRequired
	case req.FullName == "":
		return ErrFullNameRequired
	case req.UserType == "":
		return ErrUserTypeRequired
	case req.Password == "":
		return ErrPasswordRequired
	case req.Password != req.PasswordConfirm:
		return ErrPasswordMismatch
	case utf8.RuneCountInString(req.Password) < minPasswordLen:
		return ErrPasswordTooShort
	}

	return nil
}

// Logout завершает сессию. Бэкенд уведомляется best-effort (инвалидация
// refresh-токена); независимо от исхода сети локальная сессия и хранилище
// очищаются безусловно — протухшие учётные данные не остаются никогда.
func (s *Service) Logout(ctx context.Context) error {
	const op = "service/auth/Logout"

	lg := log.From(ctx)

	if tokens, _, ok := s.session.Tokens(); ok {
		if err := s.client.Post(ctx, "/auth/logout/", models.LogoutRequest{Refresh: tokens.Refresh}, nil); err != nil {
			// Логируем и продолжаем: сетевой сбой не блокирует выход.
			lg.Warn("logout_notify_failed",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}
	}

	if err := s.session.Clear(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("logout_ok", slog.String("op", op))

	return nil
}

// LoadSession восстанавливает сохранённую сессию при старте.
// Отсутствие сохранённой сессии и недоступность носителя неразличимы для
// вызывающего: оба случая — ErrNoSession, пользователь просто не залогинен.
func (s *Service) LoadSession(ctx context.Context) (models.Session, error) {
	const op = "service/auth/LoadSession"

	lg := log.From(ctx)

	if err := s.session.Restore(ctx); err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			lg.Warn("session_store_unavailable",
				slog.String("op", op),
				slog.String("err", err.Error()),
			)
		}

		return models.Session{}, fmt.Errorf("%s: %w", op, ErrNoSession)
	}

	return s.session.Snapshot(), nil
}

// Profile запрашивает профиль и обновляет его копию в сессии и хранилище.
func (s *Service) Profile(ctx context.Context) (models.User, error) {
	const op = "service/auth/Profile"

	lg := log.From(ctx)

	var user models.User
	if err := s.client.Get(ctx, "/auth/profile/", nil, &user); err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.session.SetUser(ctx, user); err != nil && !errors.Is(err, session.ErrNoSession) {
		lg.Warn("session_persist_failed",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)
	}

	return user, nil
}

// Session возвращает снимок текущего состояния сессии.
func (s *Service) Session() models.Session {
	return s.session.Snapshot()
}
