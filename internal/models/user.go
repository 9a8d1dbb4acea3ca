// models — типы предметной области, зеркалящие JSON-контракт бэкенда WaxiPay.
// Денежные суммы приходят десятичными строками — клиент не делает
// арифметики над деньгами и хранит их как есть.
package models

// Типы аккаунтов, известные бэкенду.
const (
	UserTypeDriver     = "driver"
	UserTypeMerchant   = "merchant"
	UserTypeDeliverer  = "deliverer"
	UserTypeIndividual = "individual"
)

// User — профиль аутентифицированного пользователя.
type User struct {
	ID          string  `json:"id"`
	PhoneNumber string  `json:"phone_number"`
	Email       string  `json:"email,omitempty"`
	FullName    string  `json:"full_name"`
	UserType    string  `json:"user_type"`
	IsVerified  bool    `json:"is_verified"`
	CreatedAt   string  `json:"created_at"`
	Wallet      *Wallet `json:"wallet,omitempty"`
}

// Wallet — кошелёк пользователя.
type Wallet struct {
	ID               string `json:"id"`
	Balance          string `json:"balance"`
	BalanceFormatted string `json:"balance_formatted"`
	Currency         string `json:"currency"`
	IsActive         bool   `json:"is_active"`
	CreatedAt        string `json:"created_at"`
}
