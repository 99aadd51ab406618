package models

import "time"

// ExchangeKey представляет привязанный биржевой API ключ.
// Секрет хранит и шифрует backend, клиенту возвращается
// только маскированный ключ.
type ExchangeKey struct {
	ID        string    `json:"id"`
	Exchange  string    `json:"exchange"`
	Label     string    `json:"label,omitempty"`
	MaskedKey string    `json:"masked_key"` // первые/последние символы, середина скрыта
	CreatedAt time.Time `json:"created_at"`
}

// AddExchangeKeyRequest - параметры привязки биржевого ключа
type AddExchangeKeyRequest struct {
	Exchange  string `json:"exchange"`
	Label     string `json:"label,omitempty"`
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
	Password  string `json:"password,omitempty"` // passphrase для OKX-подобных бирж
}

// PlatformKey представляет API ключ, выданный самой платформой
// для программного доступа к backend
type PlatformKey struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Prefix    string    `json:"prefix"`        // видимая часть ключа
	Key       string    `json:"key,omitempty"` // полный ключ, возвращается только при создании
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used_at,omitempty"`
}
