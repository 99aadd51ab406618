package models

import "time"

// Bot представляет торгового бота пользователя.
// Жизненным циклом управляет backend, клиент только
// отображает состояние и шлёт команды start/stop.
type Bot struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Symbol       string    `json:"symbol"`
	Exchange     string    `json:"exchange"`
	StrategyName string    `json:"strategy_name"`
	Status       string    `json:"status"` // running, stopped, error
	IsPublished  bool      `json:"is_published"`
	PaperTrading bool      `json:"paper_trading"`
	TotalPnl     float64   `json:"total_pnl"`
	TradesCount  int       `json:"trades_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Статусы бота
const (
	BotStatusRunning = "running"
	BotStatusStopped = "stopped"
	BotStatusError   = "error"
)

// BotLogEntry представляет запись лога бота, отдаваемую backend
// и дублируемую в live-потоке событием bot_log
type BotLogEntry struct {
	BotID     string    `json:"bot_id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // info, warn, error
	Message   string    `json:"message"`
}

// CreateBotRequest - параметры создания бота
type CreateBotRequest struct {
	Name         string  `json:"name"`
	Symbol       string  `json:"symbol"`
	Exchange     string  `json:"exchange"`
	StrategyName string  `json:"strategy_name"`
	StrategyJSON string  `json:"strategy_json,omitempty"` // сериализованный граф из builder
	PaperTrading bool    `json:"paper_trading"`
	Allocation   float64 `json:"allocation,omitempty"`
	ExchangeKeyID string `json:"exchange_key_id,omitempty"`
}

// PublishBotRequest - параметры публикации бота в marketplace
type PublishBotRequest struct {
	Description string  `json:"description"`
	Price       float64 `json:"price,omitempty"`
}
