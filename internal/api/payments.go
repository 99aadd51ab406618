package api

import (
	"context"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/models"
)

// payments.go - платежи за подписку

// InitPayment инициализирует платёж за подписку через выбранный шлюз.
// Дальнейший checkout происходит на стороне шлюза по CheckoutURL.
func (c *Client) InitPayment(ctx context.Context, req models.PaymentInitRequest) (*models.PaymentInit, error) {
	var init models.PaymentInit
	if err := c.post(ctx, "/api/payments/initialize", req, &init, requestOptions{}); err != nil {
		return nil, err
	}
	return &init, nil
}
