package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/models"
)

// wallet.go - кастодиальный кошелёк

// GetWalletBalances возвращает балансы кошелька
func (c *Client) GetWalletBalances(ctx context.Context) ([]models.WalletBalance, error) {
	var balances []models.WalletBalance
	if err := c.get(ctx, "/api/wallet/balances", &balances, requestOptions{}); err != nil {
		return nil, err
	}
	return balances, nil
}

// GetWalletTransactions возвращает историю операций
func (c *Client) GetWalletTransactions(ctx context.Context, limit int) ([]models.WalletTransaction, error) {
	path := "/api/wallet/transactions"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}

	var txs []models.WalletTransaction
	if err := c.get(ctx, path, &txs, requestOptions{}); err != nil {
		return nil, err
	}
	return txs, nil
}

// GetDepositAddress возвращает адрес пополнения для актива
func (c *Client) GetDepositAddress(ctx context.Context, asset string) (*models.DepositAddress, error) {
	var addr models.DepositAddress
	path := fmt.Sprintf("/api/wallet/deposit-address/%s", url.PathEscape(asset))
	if err := c.get(ctx, path, &addr, requestOptions{}); err != nil {
		return nil, err
	}
	return &addr, nil
}

// GetSwapQuote запрашивает котировку обмена.
// expires_at вычисляет сервер, клиент только соблюдает его.
func (c *Client) GetSwapQuote(ctx context.Context, req models.SwapQuoteRequest) (*models.SwapQuote, error) {
	var quote models.SwapQuote
	if err := c.post(ctx, "/api/wallet/swap/quote", req, &quote, requestOptions{}); err != nil {
		return nil, err
	}
	return &quote, nil
}

// ExecuteSwap исполняет обмен по ID котировки
func (c *Client) ExecuteSwap(ctx context.Context, quoteID string) (*models.SwapResult, error) {
	body := map[string]string{"quote_id": quoteID}

	var result models.SwapResult
	if err := c.post(ctx, "/api/wallet/swap/execute", body, &result,
		requestOptions{category: categoryTrading}); err != nil {
		return nil, err
	}
	return &result, nil
}
