// Запросы/ответы auth-эндпоинтов, зеркалят REST-контракт бэкенда.
package models

// LoginRequest — тело POST /auth/login/.
type LoginRequest struct {
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

// RegisterRequest — тело POST /auth/register/.
type RegisterRequest struct {
	PhoneNumber     string `json:"phone_number"`
	Email           string `json:"email,omitempty"`
	FullName        string `json:"full_name"`
	UserType        string `json:"user_type"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// AuthResponse — ответ login/register: профиль + пара токенов.
type AuthResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	User    *User      `json:"user"`
	Tokens  *TokenPair `json:"tokens"`
}

// LogoutRequest — тело POST /auth/logout/ (инвалидация refresh на сервере).
type LogoutRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshRequest — тело POST /auth/token/refresh/.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse — ответ refresh-обмена.
// Refresh заполняется, только если сервер ротировал refresh-токен.
type RefreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}
