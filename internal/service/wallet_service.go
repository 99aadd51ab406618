// Package service содержит доменные сервисы поверх API клиента.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/models"
	"github.com/kayung-developer/QuantumLeap-AI-sub000/pkg/utils"
)

// Ошибки кошелька
var (
	// ErrNoQuote - попытка исполнить обмен без запрошенной котировки
	ErrNoQuote = errors.New("no swap quote requested")

	// ErrQuoteExpired - котировка истекла по expires_at, нужна новая
	ErrQuoteExpired = errors.New("swap quote expired, request a new one")
)

// WalletBackend - подмножество API клиента для кошелька
type WalletBackend interface {
	GetWalletBalances(ctx context.Context) ([]models.WalletBalance, error)
	GetWalletTransactions(ctx context.Context, limit int) ([]models.WalletTransaction, error)
	GetDepositAddress(ctx context.Context, asset string) (*models.DepositAddress, error)
	GetSwapQuote(ctx context.Context, req models.SwapQuoteRequest) (*models.SwapQuote, error)
	ExecuteSwap(ctx context.Context, quoteID string) (*models.SwapResult, error)
}

// WalletService - операции кастодиального кошелька.
//
// Назначение:
// Хранит текущую котировку обмена и следит за её сроком жизни:
// expires_at вычисляет сервер, сервис лишь отказывается исполнять
// обмен по истёкшей котировке и требует запросить новую.
type WalletService struct {
	backend WalletBackend
	logger  *zap.Logger

	mu    sync.Mutex
	quote *models.SwapQuote

	// now подменяется в тестах
	now func() time.Time
}

// NewWalletService создаёт сервис кошелька
func NewWalletService(backend WalletBackend, logger *zap.Logger) *WalletService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WalletService{
		backend: backend,
		logger:  logger,
		now:     time.Now,
	}
}

// Balances возвращает балансы кошелька
func (s *WalletService) Balances(ctx context.Context) ([]models.WalletBalance, error) {
	return s.backend.GetWalletBalances(ctx)
}

// Transactions возвращает историю операций
func (s *WalletService) Transactions(ctx context.Context, limit int) ([]models.WalletTransaction, error) {
	return s.backend.GetWalletTransactions(ctx, limit)
}

// DepositAddress возвращает адрес пополнения для актива
func (s *WalletService) DepositAddress(ctx context.Context, asset string) (*models.DepositAddress, error) {
	return s.backend.GetDepositAddress(ctx, asset)
}

// RequestQuote запрашивает новую котировку обмена.
// Предыдущая котировка замещается независимо от её состояния.
func (s *WalletService) RequestQuote(ctx context.Context, req models.SwapQuoteRequest) (*models.SwapQuote, error) {
	if err := utils.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}

	quote, err := s.backend.GetSwapQuote(ctx, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.quote = quote
	s.mu.Unlock()

	s.logger.Debug("swap quote received",
		zap.String("quote_id", quote.QuoteID),
		zap.Time("expires_at", quote.ExpiresAt))

	return quote, nil
}

// CurrentQuote возвращает действующую котировку.
// Истёкшая котировка отбрасывается и не возвращается.
func (s *WalletService) CurrentQuote() (*models.SwapQuote, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quote == nil {
		return nil, false
	}
	if s.quote.IsExpired(s.now()) {
		s.quote = nil
		return nil, false
	}
	return s.quote, true
}

// QuoteTimeRemaining возвращает остаток срока жизни котировки,
// 0 если котировки нет или она истекла
func (s *WalletService) QuoteTimeRemaining() time.Duration {
	quote, ok := s.CurrentQuote()
	if !ok {
		return 0
	}
	return utils.TimeUntilFrom(quote.ExpiresAt, s.now())
}

// QuoteCountdown возвращает остаток жизни котировки как M:SS
// для отображения в терминале
func (s *WalletService) QuoteCountdown() string {
	return utils.FormatCountdown(s.QuoteTimeRemaining())
}

// ExecuteSwap исполняет обмен по текущей котировке.
// По истёкшей котировке возвращает ErrQuoteExpired: требуется
// запросить новую через RequestQuote.
func (s *WalletService) ExecuteSwap(ctx context.Context) (*models.SwapResult, error) {
	s.mu.Lock()
	quote := s.quote
	s.mu.Unlock()

	if quote == nil {
		return nil, ErrNoQuote
	}
	if quote.IsExpired(s.now()) {
		s.mu.Lock()
		s.quote = nil
		s.mu.Unlock()
		return nil, ErrQuoteExpired
	}

	result, err := s.backend.ExecuteSwap(ctx, quote.QuoteID)
	if err != nil {
		return nil, err
	}

	// котировка одноразовая
	s.mu.Lock()
	s.quote = nil
	s.mu.Unlock()

	s.logger.Info("swap executed",
		zap.String("quote_id", quote.QuoteID),
		zap.String("transaction_id", result.TransactionID))

	return result, nil
}
