package models

import "time"

// PriceTick представляет текущую цену символа
type PriceTick struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Change24h float64   `json:"change_24h"` // проценты
	Volume24h float64   `json:"volume_24h"`
	Timestamp time.Time `json:"timestamp"`
}

// Sentiment представляет рыночный сентимент по символу
type Sentiment struct {
	Symbol string  `json:"symbol"`
	Score  float64 `json:"score"` // -1..1
	Label  string  `json:"label"` // bearish, neutral, bullish
}

// CopilotAnalysis представляет ответ AI co-pilot по рынку
type CopilotAnalysis struct {
	Symbol     string `json:"symbol"`
	Analysis   string `json:"analysis"`
	Confidence float64 `json:"confidence,omitempty"`
}

// CommunityStats представляет публичную статистику платформы
type CommunityStats struct {
	TotalUsers   int     `json:"total_users"`
	ActiveBots   int     `json:"active_bots"`
	TotalVolume  float64 `json:"total_volume"`
	TotalProfit  float64 `json:"total_profit"`
}

// PublicBotPerformance представляет публичную страницу производительности бота
type PublicBotPerformance struct {
	BotID        string    `json:"bot_id"`
	Name         string    `json:"name"`
	StrategyName string    `json:"strategy_name"`
	TotalPnl     float64   `json:"total_pnl"`
	WinRate      float64   `json:"win_rate"`
	TradesCount  int       `json:"trades_count"`
	PublishedAt  time.Time `json:"published_at"`
}

// ContactRequest - сообщение формы обратной связи
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
