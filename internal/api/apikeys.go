package api

import (
	"context"
	"fmt"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/models"
)

// apikeys.go - управление биржевыми и платформенными API ключами

// ListExchangeKeys возвращает привязанные биржевые ключи
func (c *Client) ListExchangeKeys(ctx context.Context) ([]models.ExchangeKey, error) {
	var keys []models.ExchangeKey
	if err := c.get(ctx, "/api/keys/exchange", &keys, requestOptions{}); err != nil {
		return nil, err
	}
	return keys, nil
}

// AddExchangeKey привязывает биржевой API ключ.
// Секрет шифрует и хранит backend.
func (c *Client) AddExchangeKey(ctx context.Context, req models.AddExchangeKeyRequest) (*models.ExchangeKey, error) {
	var key models.ExchangeKey
	if err := c.post(ctx, "/api/keys/exchange", req, &key, requestOptions{}); err != nil {
		return nil, err
	}
	return &key, nil
}

// DeleteExchangeKey удаляет биржевой ключ
func (c *Client) DeleteExchangeKey(ctx context.Context, keyID string) error {
	return c.delete(ctx, fmt.Sprintf("/api/keys/exchange/%s", keyID), requestOptions{})
}

// ListPlatformKeys возвращает выданные платформой API ключи
func (c *Client) ListPlatformKeys(ctx context.Context) ([]models.PlatformKey, error) {
	var keys []models.PlatformKey
	if err := c.get(ctx, "/api/keys/platform", &keys, requestOptions{}); err != nil {
		return nil, err
	}
	return keys, nil
}

// CreatePlatformKey создаёт новый платформенный ключ.
// Полный ключ возвращается только в этом ответе.
func (c *Client) CreatePlatformKey(ctx context.Context, label string) (*models.PlatformKey, error) {
	body := map[string]string{"label": label}

	var key models.PlatformKey
	if err := c.post(ctx, "/api/keys/platform", body, &key, requestOptions{}); err != nil {
		return nil, err
	}
	return &key, nil
}

// DeletePlatformKey удаляет платформенный ключ
func (c *Client) DeletePlatformKey(ctx context.Context, keyID string) error {
	return c.delete(ctx, fmt.Sprintf("/api/keys/platform/%s", keyID), requestOptions{})
}
