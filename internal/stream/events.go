package stream

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Типы событий live-потока
const (
	EventMarketUpdate       = "market_update"
	EventTradeExecuted      = "trade_executed"
	EventError              = "error"
	EventSubscriptionUpdate = "subscription_update"
	EventBotLog             = "bot_log"
	EventBotStatus          = "bot_status"
)

// Event представляет одно событие live-потока.
// Форма payload определяется сервером: помимо типизированных
// полей сохраняется полная карта Data.
type Event struct {
	Type       string                 `json:"type"`
	BotID      string                 `json:"bot_id,omitempty"`
	Message    string                 `json:"message,omitempty"`
	Data       map[string]interface{} `json:"-"`
	ReceivedAt time.Time              `json:"-"`
}

// ParseEvent декодирует входящий кадр в Event.
// Кадр без поля type допустим: событие сохраняется с пустым типом.
func ParseEvent(frame []byte, now time.Time) (Event, error) {
	var data map[string]interface{}
	if err := json.Unmarshal(frame, &data); err != nil {
		return Event{}, err
	}

	evt := Event{
		Data:       data,
		ReceivedAt: now,
	}
	if t, ok := data["type"].(string); ok {
		evt.Type = t
	}
	if id, ok := data["bot_id"].(string); ok {
		evt.BotID = id
	}
	if msg, ok := data["message"].(string); ok {
		evt.Message = msg
	}

	return evt, nil
}

// ShortBotID обрезает идентификатор бота до 8 символов для уведомлений
func ShortBotID(botID string) string {
	if len(botID) > 8 {
		return botID[:8]
	}
	return botID
}
