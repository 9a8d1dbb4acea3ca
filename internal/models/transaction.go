package models

// Статусы транзакции на стороне бэкенда.
const (
	TxStatusPending    = "pending"
	TxStatusProcessing = "processing"
	TxStatusCompleted  = "completed"
	TxStatusFailed     = "failed"
	TxStatusCancelled  = "cancelled"
)

// Типы транзакций.
const (
	TxTypePaymentIn  = "payment_in"
	TxTypePaymentOut = "payment_out"
	TxTypeWithdrawal = "withdrawal"
	TxTypeDeposit    = "deposit"
)

// Способы оплаты, поддерживаемые агрегатором.
const (
	PayMethodWave        = "wave"
	PayMethodOrangeMoney = "orange_money"
	PayMethodFreeMoney   = "free_money"
	PayMethodBankCard    = "bank_card"
)

// Transaction — запись истории операций.
type Transaction struct {
	ID                     string `json:"id"`
	User                   string `json:"user"`
	UserName               string `json:"user_name"`
	TransactionType        string `json:"transaction_type"`
	TransactionTypeDisplay string `json:"transaction_type_display"`
	PaymentMethod          string `json:"payment_method"`
	PaymentMethodDisplay   string `json:"payment_method_display"`
	Amount                 string `json:"amount"`
	AmountFormatted        string `json:"amount_formatted"`
	Currency               string `json:"currency"`
	Fees                   string `json:"fees"`
	Status                 string `json:"status"`
	StatusDisplay          string `json:"status_display"`
	Reference              string `json:"reference"`
	ExternalReference      string `json:"external_reference,omitempty"`
	RecipientPhone         string `json:"recipient_phone,omitempty"`
	Description            string `json:"description,omitempty"`
	CreatedAt              string `json:"created_at"`
	CompletedAt            string `json:"completed_at,omitempty"`
}

// TransactionFilter — фильтры списка транзакций (query-параметры).
// Пустые значения не попадают в запрос.
type TransactionFilter struct {
	Type          string
	Status        string
	PaymentMethod string
	DateFrom      string
	DateTo        string
}

// WeeklyPoint — точка агрегации по дням за последнюю неделю.
type WeeklyPoint struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// TransactionStats — агрегированная статистика для дашборда.
type TransactionStats struct {
	TotalReceived     float64       `json:"total_received"`
	TotalSent         float64       `json:"total_sent"`
	MonthTransactions int           `json:"month_transactions"`
	WeeklyData        []WeeklyPoint `json:"weekly_data"`
	WalletBalance     float64       `json:"wallet_balance"`
}
