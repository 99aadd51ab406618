package models

import "time"

// WalletBalance представляет баланс одного актива кастодиального кошелька
type WalletBalance struct {
	Asset    string  `json:"asset"`
	Free     float64 `json:"free"`
	Locked   float64 `json:"locked"`
	UsdValue float64 `json:"usd_value"`
}

// WalletTransaction представляет операцию по кошельку
type WalletTransaction struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // deposit, withdrawal, swap
	Asset     string    `json:"asset"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	TxHash    string    `json:"tx_hash,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Типы операций по кошельку
const (
	TxTypeDeposit    = "deposit"
	TxTypeWithdrawal = "withdrawal"
	TxTypeSwap       = "swap"
)

// DepositAddress представляет адрес пополнения для актива
type DepositAddress struct {
	Asset   string `json:"asset"`
	Network string `json:"network"`
	Address string `json:"address"`
	Memo    string `json:"memo,omitempty"`
}

// SwapQuote представляет котировку обмена активов.
// ExpiresAt вычисляет сервер; после истечения котировка
// недействительна и исполнение по ней запрещено.
type SwapQuote struct {
	QuoteID    string    `json:"quote_id"`
	FromAsset  string    `json:"from_asset"`
	ToAsset    string    `json:"to_asset"`
	FromAmount float64   `json:"from_amount"`
	ToAmount   float64   `json:"to_amount"`
	Rate       float64   `json:"rate"`
	Fee        float64   `json:"fee"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// IsExpired сообщает, истекла ли котировка к моменту now
func (q *SwapQuote) IsExpired(now time.Time) bool {
	return !q.ExpiresAt.After(now)
}

// SwapQuoteRequest - параметры запроса котировки
type SwapQuoteRequest struct {
	FromAsset string  `json:"from_asset"`
	ToAsset   string  `json:"to_asset"`
	Amount    float64 `json:"amount"`
}

// SwapResult представляет результат исполнения обмена
type SwapResult struct {
	TransactionID string  `json:"transaction_id"`
	FromAsset     string  `json:"from_asset"`
	ToAsset       string  `json:"to_asset"`
	FromAmount    float64 `json:"from_amount"`
	ToAmount      float64 `json:"to_amount"`
	Status        string  `json:"status"`
}
