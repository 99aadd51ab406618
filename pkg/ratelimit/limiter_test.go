package ratelimit

import (
	"context"
	"testing"
	"time"
)

// ============================================================
// RateLimiter Tests
// ============================================================

func TestNewRateLimiterDefaults(t *testing.T) {
	tests := []struct {
		name      string
		rate      float64
		burst     float64
		wantRate  float64
		wantBurst float64
	}{
		{name: "explicit values", rate: 5, burst: 10, wantRate: 5, wantBurst: 10},
		{name: "zero rate uses default", rate: 0, burst: 0, wantRate: 10, wantBurst: 20},
		{name: "burst below rate is raised", rate: 10, burst: 5, wantRate: 10, wantBurst: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter(tt.rate, tt.burst)
			if rl.Rate() != tt.wantRate {
				t.Errorf("expected rate %v, got %v", tt.wantRate, rl.Rate())
			}
			if rl.Burst() != tt.wantBurst {
				t.Errorf("expected burst %v, got %v", tt.wantBurst, rl.Burst())
			}
		})
	}
}

func TestAllowConsumesBurst(t *testing.T) {
	rl := NewRateLimiter(1, 3)

	// Ведро полное: burst запросов проходят сразу
	for i := 0; i < 3; i++ {
		if !rl.Allow() {
			t.Fatalf("request %d should be allowed within burst", i+1)
		}
	}

	// Токены кончились
	if rl.Allow() {
		t.Error("request beyond burst should be denied")
	}
}

func TestTokensRefill(t *testing.T) {
	rl := NewRateLimiter(100, 1) // быстрое пополнение для теста

	if !rl.Allow() {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow() {
		t.Fatal("bucket should be empty")
	}

	time.Sleep(20 * time.Millisecond) // 100 req/sec -> ~2 токена за 20ms, cap 1

	if !rl.Allow() {
		t.Error("token should be refilled after waiting")
	}
}

func TestWaitBlocksUntilToken(t *testing.T) {
	rl := NewRateLimiter(50, 1)
	_ = rl.Allow() // опустошаем ведро

	start := time.Now()
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	elapsed := time.Since(start)

	// 50 req/sec -> следующий токен через ~20ms
	if elapsed < 10*time.Millisecond {
		t.Errorf("Wait returned too early: %v", elapsed)
	}
}

func TestWaitContextCancel(t *testing.T) {
	rl := NewRateLimiter(0.1, 1) // следующий токен через ~10 секунд
	_ = rl.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	if err != context.DeadlineExceeded {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}

func TestSetRate(t *testing.T) {
	rl := NewRateLimiter(10, 20)

	rl.SetRate(50)
	if rl.Rate() != 50 {
		t.Errorf("expected rate 50, got %v", rl.Rate())
	}

	// Невалидный rate игнорируется
	rl.SetRate(-1)
	if rl.Rate() != 50 {
		t.Errorf("negative rate must be ignored, got %v", rl.Rate())
	}
}

// ============================================================
// MultiLimiter Tests
// ============================================================

func TestMultiLimiterCategories(t *testing.T) {
	ml := NewMultiLimiter()
	ml.Add("trading", 1, 1)

	if !ml.Allow("trading") {
		t.Error("first trading request should be allowed")
	}
	if ml.Allow("trading") {
		t.Error("second trading request should be denied")
	}

	// Категория без лимита всегда проходит
	for i := 0; i < 100; i++ {
		if !ml.Allow("market") {
			t.Fatal("unlimited category must always be allowed")
		}
	}
}

func TestMultiLimiterWaitUnknownCategory(t *testing.T) {
	ml := NewMultiLimiter()

	if err := ml.Wait(context.Background(), "unknown"); err != nil {
		t.Errorf("unexpected error for unlimited category: %v", err)
	}
}

func TestMultiLimiterGet(t *testing.T) {
	ml := NewMultiLimiter()
	ml.Add("api", 10, 20)

	if ml.Get("api") == nil {
		t.Error("expected limiter for registered category")
	}
	if ml.Get("missing") != nil {
		t.Error("expected nil for missing category")
	}
}
