package models

// PaymentRequest — тело POST /payments/initiate/ (пополнение через агрегатор).
type PaymentRequest struct {
	Amount        string `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	Description   string `json:"description,omitempty"`
}

// PaymentResponse — ответ инициализации платежа.
// PaymentURL открывается во внешнем обработчике; сам редирект вне SDK.
type PaymentResponse struct {
	PaymentURL string `json:"payment_url"`
	Token      string `json:"token,omitempty"`
	Amount     int64  `json:"amount"`
	Reference  string `json:"reference"`
}

// PayoutRequest — тело POST /payments/payout/ (вывод на номер получателя).
type PayoutRequest struct {
	Amount         string `json:"amount"`
	RecipientPhone string `json:"recipient_phone"`
	PaymentMethod  string `json:"payment_method"`
	Description    string `json:"description,omitempty"`
}

// PayoutResponse — ответ инициализации вывода.
type PayoutResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Reference string `json:"reference"`
}
