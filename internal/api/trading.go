package api

import (
	"context"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/models"
)

// trading.go - ручная торговля

// PlaceOrder размещает ручной ордер. Торговая категория rate limit.
func (c *Client) PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (*models.ManualOrder, error) {
	var order models.ManualOrder
	if err := c.post(ctx, "/api/trading/orders", req, &order,
		requestOptions{category: categoryTrading}); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOpenOrders возвращает открытые ручные ордера
func (c *Client) ListOpenOrders(ctx context.Context) ([]models.ManualOrder, error) {
	var orders []models.ManualOrder
	if err := c.get(ctx, "/api/trading/orders", &orders, requestOptions{}); err != nil {
		return nil, err
	}
	return orders, nil
}
