package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/models"
	"github.com/kayung-developer/QuantumLeap-AI-sub000/pkg/utils"
)

// Периоды фильтрации статистики
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// TradingBackend - подмножество API клиента для ручной торговли
type TradingBackend interface {
	PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (*models.ManualOrder, error)
	ListOpenOrders(ctx context.Context) ([]models.ManualOrder, error)
	GetPortfolio(ctx context.Context) (*models.PortfolioSnapshot, error)
	GetWalletTransactions(ctx context.Context, limit int) ([]models.WalletTransaction, error)
}

// TradingService - ручные ордера и сводка портфеля.
// Все расчёты (PnL, стоимость портфеля) выполняет backend,
// сервис только валидирует ввод и форматирует вывод.
type TradingService struct {
	backend TradingBackend
	logger  *zap.Logger

	// now подменяется в тестах
	now func() time.Time
}

// NewTradingService создаёт торговый сервис
func NewTradingService(backend TradingBackend, logger *zap.Logger) *TradingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TradingService{
		backend: backend,
		logger:  logger,
		now:     time.Now,
	}
}

// PlaceOrder размещает ручной ордер после базовой валидации формы
func (s *TradingService) PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (*models.ManualOrder, error) {
	if err := utils.ValidateSymbol(req.Symbol); err != nil {
		return nil, err
	}
	if err := utils.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}
	if req.Type == models.OrderTypeLimit {
		if err := utils.ValidateAmount(req.Price); err != nil {
			return nil, err
		}
	}

	order, err := s.backend.PlaceOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("manual order placed",
		zap.String("order_id", order.ID),
		zap.String("symbol", order.Symbol),
		zap.String("side", order.Side))

	return order, nil
}

// OpenOrders возвращает открытые ручные ордера
func (s *TradingService) OpenOrders(ctx context.Context) ([]models.ManualOrder, error) {
	return s.backend.ListOpenOrders(ctx)
}

// Portfolio возвращает сводку портфеля с backend
func (s *TradingService) Portfolio(ctx context.Context) (*models.PortfolioSnapshot, error) {
	return s.backend.GetPortfolio(ctx)
}

// DescribePortfolio форматирует сводку портфеля для терминала
func DescribePortfolio(snap *models.PortfolioSnapshot) string {
	return fmt.Sprintf("portfolio %s USD (%s 24h)",
		utils.FormatAmount(utils.RoundTo(snap.TotalValueUSD, 2)),
		utils.FormatPercent(snap.PnL24hPct))
}

// TransactionsSince возвращает операции кошелька за период:
// day, week или month, границы в UTC. Неизвестный период
// возвращает всё без фильтрации.
func (s *TradingService) TransactionsSince(ctx context.Context, period string, limit int) ([]models.WalletTransaction, error) {
	txs, err := s.backend.GetWalletTransactions(ctx, limit)
	if err != nil {
		return nil, err
	}

	var since time.Time
	switch period {
	case PeriodDay:
		since = utils.GetDayStartFrom(s.now())
	case PeriodWeek:
		since = utils.GetWeekStartFrom(s.now())
	case PeriodMonth:
		since = utils.GetMonthStartFrom(s.now())
	default:
		return txs, nil
	}

	filtered := txs[:0]
	for _, tx := range txs {
		if !tx.CreatedAt.Before(since) {
			filtered = append(filtered, tx)
		}
	}
	return filtered, nil
}
