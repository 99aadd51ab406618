package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/models"
)

// ============================================================
// WalletService Tests
// ============================================================

// fakeWalletBackend - программируемый backend кошелька
type fakeWalletBackend struct {
	quote        *models.SwapQuote
	quoteErr     error
	executeCalls int
	executedID   string
	executeErr   error
}

func (b *fakeWalletBackend) GetWalletBalances(ctx context.Context) ([]models.WalletBalance, error) {
	return []models.WalletBalance{{Asset: "USDT", Free: 100}}, nil
}

func (b *fakeWalletBackend) GetWalletTransactions(ctx context.Context, limit int) ([]models.WalletTransaction, error) {
	return nil, nil
}

func (b *fakeWalletBackend) GetDepositAddress(ctx context.Context, asset string) (*models.DepositAddress, error) {
	return &models.DepositAddress{Asset: asset, Address: "addr"}, nil
}

func (b *fakeWalletBackend) GetSwapQuote(ctx context.Context, req models.SwapQuoteRequest) (*models.SwapQuote, error) {
	if b.quoteErr != nil {
		return nil, b.quoteErr
	}
	return b.quote, nil
}

func (b *fakeWalletBackend) ExecuteSwap(ctx context.Context, quoteID string) (*models.SwapResult, error) {
	b.executeCalls++
	b.executedID = quoteID
	if b.executeErr != nil {
		return nil, b.executeErr
	}
	return &models.SwapResult{TransactionID: "tx-1", Status: "completed"}, nil
}

func newWalletService(t *testing.T, backend *fakeWalletBackend, now time.Time) *WalletService {
	t.Helper()
	s := NewWalletService(backend, nil)
	s.now = func() time.Time { return now }
	return s
}

// Сценарий: котировка USDT -> BTC на 100 живёт до expires_at;
// после обнуления отсчёта исполнение запрещено до новой котировки
func TestQuoteExpiryScenario(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	backend := &fakeWalletBackend{
		quote: &models.SwapQuote{
			QuoteID:    "q-1",
			FromAsset:  "USDT",
			ToAsset:    "BTC",
			FromAmount: 100,
			ToAmount:   0.0015,
			ExpiresAt:  now.Add(30 * time.Second),
		},
	}
	s := newWalletService(t, backend, now)

	quote, err := s.RequestQuote(context.Background(), models.SwapQuoteRequest{
		FromAsset: "USDT", ToAsset: "BTC", Amount: 100,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.ExpiresAt.IsZero() {
		t.Fatal("quote must carry server-computed expires_at")
	}

	// котировка действует
	if _, ok := s.CurrentQuote(); !ok {
		t.Fatal("fresh quote must be current")
	}
	if got := s.QuoteTimeRemaining(); got != 30*time.Second {
		t.Errorf("unexpected time remaining: %v", got)
	}

	// отсчёт дошёл до нуля
	s.now = func() time.Time { return now.Add(31 * time.Second) }

	if _, ok := s.CurrentQuote(); ok {
		t.Error("expired quote must be discarded")
	}
	if got := s.QuoteTimeRemaining(); got != 0 {
		t.Errorf("expired quote must have zero remaining, got %v", got)
	}

	_, err = s.ExecuteSwap(context.Background())
	if !errors.Is(err, ErrNoQuote) && !errors.Is(err, ErrQuoteExpired) {
		t.Fatalf("execution after expiry must be refused, got %v", err)
	}
	if backend.executeCalls != 0 {
		t.Error("backend must not be called for an expired quote")
	}

	// свежая котировка разблокирует исполнение
	backend.quote = &models.SwapQuote{
		QuoteID:   "q-2",
		ExpiresAt: now.Add(60 * time.Second),
	}
	if _, err := s.RequestQuote(context.Background(), models.SwapQuoteRequest{Amount: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := s.ExecuteSwap(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TransactionID != "tx-1" {
		t.Errorf("unexpected result: %+v", result)
	}
	if backend.executedID != "q-2" {
		t.Errorf("swap must execute by fresh quote id, got %q", backend.executedID)
	}
}

func TestRequestQuoteRejectsNonPositiveAmount(t *testing.T) {
	backend := &fakeWalletBackend{}
	s := newWalletService(t, backend, time.Now())

	for _, amount := range []float64{0, -5} {
		if _, err := s.RequestQuote(context.Background(), models.SwapQuoteRequest{Amount: amount}); err == nil {
			t.Errorf("amount %v must be rejected before hitting the backend", amount)
		}
	}
}

func TestQuoteCountdownFormat(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	backend := &fakeWalletBackend{
		quote: &models.SwapQuote{QuoteID: "q-1", ExpiresAt: now.Add(90 * time.Second)},
	}
	s := newWalletService(t, backend, now)

	if got := s.QuoteCountdown(); got != "00:00" {
		t.Errorf("no quote yet, expected 00:00, got %q", got)
	}

	if _, err := s.RequestQuote(context.Background(), models.SwapQuoteRequest{Amount: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.QuoteCountdown(); got != "01:30" {
		t.Errorf("expected 01:30, got %q", got)
	}
}

func TestExecuteSwapWithoutQuote(t *testing.T) {
	s := newWalletService(t, &fakeWalletBackend{}, time.Now())

	if _, err := s.ExecuteSwap(context.Background()); !errors.Is(err, ErrNoQuote) {
		t.Errorf("expected ErrNoQuote, got %v", err)
	}
}

func TestExecuteSwapExactlyAtExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	backend := &fakeWalletBackend{
		quote: &models.SwapQuote{QuoteID: "q-1", ExpiresAt: now},
	}
	s := newWalletService(t, backend, now)

	if _, err := s.RequestQuote(context.Background(), models.SwapQuoteRequest{Amount: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// expires_at == now: котировка уже недействительна
	if _, err := s.ExecuteSwap(context.Background()); !errors.Is(err, ErrQuoteExpired) {
		t.Errorf("expected ErrQuoteExpired, got %v", err)
	}
}

func TestQuoteIsSingleUse(t *testing.T) {
	now := time.Now()
	backend := &fakeWalletBackend{
		quote: &models.SwapQuote{QuoteID: "q-1", ExpiresAt: now.Add(time.Minute)},
	}
	s := newWalletService(t, backend, now)

	if _, err := s.RequestQuote(context.Background(), models.SwapQuoteRequest{Amount: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.ExecuteSwap(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// повторное исполнение без новой котировки запрещено
	if _, err := s.ExecuteSwap(context.Background()); !errors.Is(err, ErrNoQuote) {
		t.Errorf("expected ErrNoQuote after execution, got %v", err)
	}
	if backend.executeCalls != 1 {
		t.Errorf("expected exactly 1 execution, got %d", backend.executeCalls)
	}
}
