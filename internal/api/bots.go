package api

import (
	"context"
	"fmt"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/models"
)

// bots.go - эндпоинты жизненного цикла ботов

// ListBots возвращает всех ботов пользователя
func (c *Client) ListBots(ctx context.Context) ([]models.Bot, error) {
	var bots []models.Bot
	if err := c.get(ctx, "/api/bots", &bots, requestOptions{}); err != nil {
		return nil, err
	}
	return bots, nil
}

// GetBot возвращает бота по ID
func (c *Client) GetBot(ctx context.Context, botID string) (*models.Bot, error) {
	var bot models.Bot
	if err := c.get(ctx, fmt.Sprintf("/api/bots/%s", botID), &bot, requestOptions{}); err != nil {
		return nil, err
	}
	return &bot, nil
}

// CreateBot создаёт нового бота
func (c *Client) CreateBot(ctx context.Context, req models.CreateBotRequest) (*models.Bot, error) {
	var bot models.Bot
	if err := c.post(ctx, "/api/bots", req, &bot, requestOptions{}); err != nil {
		return nil, err
	}
	return &bot, nil
}

// DeleteBot удаляет бота
func (c *Client) DeleteBot(ctx context.Context, botID string) error {
	return c.delete(ctx, fmt.Sprintf("/api/bots/%s", botID), requestOptions{})
}

// StartBot запускает бота. Торговая категория rate limit.
func (c *Client) StartBot(ctx context.Context, botID string) error {
	return c.post(ctx, fmt.Sprintf("/api/bots/%s/start", botID), nil, nil,
		requestOptions{category: categoryTrading})
}

// StopBot останавливает бота
func (c *Client) StopBot(ctx context.Context, botID string) error {
	return c.post(ctx, fmt.Sprintf("/api/bots/%s/stop", botID), nil, nil,
		requestOptions{category: categoryTrading})
}

// GetBotLogs возвращает логи бота
func (c *Client) GetBotLogs(ctx context.Context, botID string, limit int) ([]models.BotLogEntry, error) {
	path := fmt.Sprintf("/api/bots/%s/logs", botID)
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}

	var logs []models.BotLogEntry
	if err := c.get(ctx, path, &logs, requestOptions{}); err != nil {
		return nil, err
	}
	return logs, nil
}

// PublishBot публикует бота в marketplace
func (c *Client) PublishBot(ctx context.Context, botID string, req models.PublishBotRequest) error {
	return c.post(ctx, fmt.Sprintf("/api/bots/%s/publish", botID), req, nil, requestOptions{})
}

// CloneBot клонирует опубликованного бота себе
func (c *Client) CloneBot(ctx context.Context, botID string) (*models.Bot, error) {
	var bot models.Bot
	if err := c.post(ctx, fmt.Sprintf("/api/bots/%s/clone", botID), nil, &bot, requestOptions{}); err != nil {
		return nil, err
	}
	return &bot, nil
}
