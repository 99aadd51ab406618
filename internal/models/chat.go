package models

import "time"

// ChatMessage представляет одну реплику диалога с ассистентом.
// Транскрипт кэшируется в локальном хранилище между запусками.
type ChatMessage struct {
	Role      string    `json:"role"` // user, assistant
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Роли реплик
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatRequest - запрос к endpoint ассистента
type ChatRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history,omitempty"`
}

// ChatResponse представляет ответ ассистента
type ChatResponse struct {
	Reply string `json:"reply"`
}
