// service — фасад сессии: публичная поверхность SDK поверх конвейера
// запросов и менеджера сессии.
//
// Основные аспекты:
//   - экземпляр Service безопасен для конкурентного использования:
//     состояние сессии живёт в session.Manager и мутирует только там;
//   - клиентская валидация — fail-fast до любого сетевого вызова, каждая
//     ошибка валидации имеет свой sentinel и своё сообщение пользователю;
//   - каждая ошибка фасада отображается в одно человекочитаемое сообщение
//     через UserMessage; тихих отказов нет.
package service

import (
	"errors"

	"github.com/waxipay/go-waxipay/internal/client"
	"github.com/waxipay/go-waxipay/internal/session"
)

var (
	// ErrPhoneRequired — не указан номер телефона.
	ErrPhoneRequired = errors.New("phone number is required")

	// ErrFullNameRequired — не указано полное имя.
	ErrFullNameRequired = errors.New("full name is required")

	// ErrUserTypeRequired — не указан тип аккаунта.
	ErrUserTypeRequired = errors.New("user type is required")

	// ErrPasswordRequired — не указан пароль.
	ErrPasswordRequired = errors.New("password is required")

	// ErrPasswordMismatch — введённые пароли не совпадают.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrPasswordTooShort — пароль короче шести символов.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")

	// ErrAmountRequired — не указана сумма операции.
	ErrAmountRequired = errors.New("amount is required")

	// ErrRecipientRequired — не указан номер получателя выплаты.
	ErrRecipientRequired = errors.New("recipient phone is required")

	// ErrNoSession — сохранённой/активной сессии нет, пользователь не вошёл.
	ErrNoSession = errors.New("no active session")

	// ErrBadResponse — бэкенд ответил 2xx, но тело не соответствует контракту.
	ErrBadResponse = errors.New("malformed backend response")
)

// Минимальная длина пароля (политика бэкенда, проверяется и на клиенте).
const minPasswordLen = 6

// Service — фасад сессии и операций WaxiPay.
type Service struct {
	client  *client.Client
	session *session.Manager
}

// New создаёт фасад поверх конвейера и менеджера сессии.
func New(c *client.Client, sess *session.Manager) *Service {
	return &Service{client: c, session: sess}
}

// Фиксированные сообщения-фолбэки (фронт показывает их, когда бэкенд
// не прислал свой текст ошибки).
const (
	FallbackLogin    = "Erreur de connexion"
	FallbackRegister = "Erreur d'inscription"
	FallbackPayment  = "Erreur de paiement"
	FallbackPayout   = "Erreur de retrait"
	FallbackGeneric  = "Une erreur est survenue"
)

// validationErrs — ошибки клиентской валидации: у каждой своё сообщение,
// до сети они не доходят и как системные не логируются.
var validationErrs = []error{
	ErrPhoneRequired,
	ErrFullNameRequired,
	ErrUserTypeRequired,
	ErrPasswordRequired,
	ErrPasswordMismatch,
	ErrPasswordTooShort,
	ErrAmountRequired,
	ErrRecipientRequired,
}

// IsValidation сообщает, является ли ошибка клиентской валидацией.
func IsValidation(err error) bool {
	for _, v := range validationErrs {
		if errors.Is(err, v) {
			return true
		}
	}

	return false
}

// UserMessage отображает ошибку фасада в одно сообщение для пользователя:
// ошибка валидации — своим текстом, текст бэкенда — дословно, если он
// есть, иначе fallback.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	for _, v := range validationErrs {
		if errors.Is(err, v) {
			return v.Error()
		}
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	return fallback
}
