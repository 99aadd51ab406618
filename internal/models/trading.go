package models

import "time"

// ManualOrder представляет ручной ордер пользователя
type ManualOrder struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Exchange  string    `json:"exchange"`
	Side      string    `json:"side"` // buy, sell
	Type      string    `json:"type"` // market, limit
	Amount    float64   `json:"amount"`
	Price     float64   `json:"price,omitempty"` // только для limit
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Стороны и типы ордеров
const (
	OrderSideBuy  = "buy"
	OrderSideSell = "sell"

	OrderTypeMarket = "market"
	OrderTypeLimit  = "limit"
)

// PlaceOrderRequest - параметры размещения ручного ордера
type PlaceOrderRequest struct {
	Symbol        string  `json:"symbol"`
	Exchange      string  `json:"exchange"`
	Side          string  `json:"side"`
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	Price         float64 `json:"price,omitempty"`
	ExchangeKeyID string  `json:"exchange_key_id"`
}

// PortfolioSnapshot представляет сводку портфеля пользователя
type PortfolioSnapshot struct {
	TotalValueUSD float64            `json:"total_value_usd"`
	PnL24h        float64            `json:"pnl_24h"`
	PnL24hPct     float64            `json:"pnl_24h_pct"`
	Allocations   map[string]float64 `json:"allocations"` // актив -> доля в USD
	UpdatedAt     time.Time          `json:"updated_at"`
}
