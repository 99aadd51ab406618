package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/models"
)

// public.go - публичные эндпоинты без аутентификации

// GetPublicBotPerformance возвращает публичную страницу производительности бота
func (c *Client) GetPublicBotPerformance(ctx context.Context, botID string) (*models.PublicBotPerformance, error) {
	var perf models.PublicBotPerformance
	path := fmt.Sprintf("/api/public/bots/%s", botID)
	if err := c.get(ctx, path, &perf, requestOptions{noAuth: true}); err != nil {
		return nil, err
	}
	return &perf, nil
}

// SubmitContact отправляет сообщение формы обратной связи
func (c *Client) SubmitContact(ctx context.Context, req models.ContactRequest) error {
	return c.post(ctx, "/api/public/contact", req, nil, requestOptions{noAuth: true})
}

// GetCommunityStats возвращает публичную статистику платформы
func (c *Client) GetCommunityStats(ctx context.Context) (*models.CommunityStats, error) {
	var stats models.CommunityStats
	if err := c.get(ctx, "/api/public/community-stats", &stats, requestOptions{noAuth: true}); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetPublicTicker возвращает публичный рыночный тикер
func (c *Client) GetPublicTicker(ctx context.Context, symbol string) (*models.PriceTick, error) {
	var tick models.PriceTick
	path := fmt.Sprintf("/api/public/ticker/%s", url.PathEscape(symbol))
	if err := c.get(ctx, path, &tick, requestOptions{noAuth: true, category: categoryMarket}); err != nil {
		return nil, err
	}
	return &tick, nil
}

// Chat отправляет сообщение публичному чат-ассистенту
func (c *Client) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	var resp models.ChatResponse
	if err := c.post(ctx, "/api/public/chat", req, &resp, requestOptions{noAuth: true}); err != nil {
		return nil, err
	}
	return &resp, nil
}
