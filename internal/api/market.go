package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/models"
)

// market.go - рыночные данные и AI анализ

// GetPrice возвращает текущую цену символа
func (c *Client) GetPrice(ctx context.Context, symbol string) (*models.PriceTick, error) {
	var tick models.PriceTick
	path := fmt.Sprintf("/api/market/price/%s", url.PathEscape(symbol))
	if err := c.get(ctx, path, &tick, requestOptions{category: categoryMarket}); err != nil {
		return nil, err
	}
	return &tick, nil
}

// GetSentiment возвращает рыночный сентимент по символу
func (c *Client) GetSentiment(ctx context.Context, symbol string) (*models.Sentiment, error) {
	var sentiment models.Sentiment
	path := fmt.Sprintf("/api/market/sentiment/%s", url.PathEscape(symbol))
	if err := c.get(ctx, path, &sentiment, requestOptions{category: categoryMarket}); err != nil {
		return nil, err
	}
	return &sentiment, nil
}

// GetCopilotAnalysis запрашивает AI co-pilot анализ по символу
func (c *Client) GetCopilotAnalysis(ctx context.Context, symbol string) (*models.CopilotAnalysis, error) {
	body := map[string]string{"symbol": symbol}

	var analysis models.CopilotAnalysis
	if err := c.post(ctx, "/api/market/copilot", body, &analysis, requestOptions{}); err != nil {
		return nil, err
	}
	return &analysis, nil
}
