// Package app собирает клиент целиком: хранилище, сессию,
// API клиент, live-поток и доменные сервисы с их зависимостями.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/api"
	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/auth"
	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/config"
	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/notify"
	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/service"
	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/store"
	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/stream"
)

// App - собранный клиент платформы
type App struct {
	Auth   *auth.Manager
	Lock   *auth.AppLock
	API    *api.Client
	Stream *stream.Stream
	Store  *store.Store

	Wallet  *service.WalletService
	Lab     *service.LabService
	Bots    *service.BotService
	Chat    *service.ChatService
	Trading *service.TradingService

	logger *zap.Logger
}

// New собирает клиент по конфигурации.
//
// Сессия и API клиент связываются в две фазы: менеджеру нужен
// клиент для refresh, клиенту нужен менеджер как источник токенов.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	st, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}

	mgr := auth.NewManager(st, cfg.Security.EncryptionKey, logger)

	httpClientCfg := api.DefaultHTTPClientConfig()
	httpClientCfg.TotalTimeout = cfg.API.RequestTimeout

	client := api.NewClient(api.Config{
		BaseURL:          cfg.API.BaseURL,
		HTTPClient:       api.NewHTTPClient(httpClientCfg),
		Tokens:           mgr,
		Logger:           logger,
		OnSessionExpired: mgr.ForceLogout,
		RateLimit:        cfg.API.RateLimit,
		RateBurst:        cfg.API.RateBurst,
	})
	mgr.AttachBackend(client)

	notifier := notify.NewTerminalNotifier(logger)
	liveStream := stream.NewStream(stream.Config{
		URL: cfg.Stream.URL,
		Reconnect: stream.ReconnectConfig{
			InitialDelay:   cfg.Stream.ReconnectInitialDelay,
			MaxDelay:       cfg.Stream.ReconnectMaxDelay,
			MaxRetries:     cfg.Stream.ReconnectMaxRetries,
			ConnectTimeout: cfg.Stream.ConnectTimeout,
			PingInterval:   cfg.Stream.PingInterval,
			PongTimeout:    cfg.Stream.PongTimeout,
		},
		BufferSize: cfg.Stream.BufferSize,
	}, mgr, notifier, logger)

	return &App{
		Auth:    mgr,
		Lock:    auth.NewAppLock(st, logger),
		API:     client,
		Stream:  liveStream,
		Store:   st,
		Wallet:  service.NewWalletService(client, logger),
		Lab:     service.NewLabService(client, logger),
		Bots:    service.NewBotService(client, liveStream, logger),
		Chat:    service.NewChatService(client, st, logger),
		Trading: service.NewTradingService(client, logger),
		logger:  logger,
	}, nil
}

// Start восстанавливает сессию и поднимает live-поток,
// если сессия живая. После login/logout поток следует за сессией.
func (a *App) Start(ctx context.Context) error {
	restoreCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := a.Auth.Restore(restoreCtx); err != nil {
		a.logger.Warn("session restore failed", zap.Error(err))
	}

	a.Auth.OnChange(func(authenticated bool) {
		if authenticated {
			if err := a.Stream.Connect(); err != nil {
				a.logger.Error("failed to connect live stream", zap.Error(err))
			}
		} else {
			// logout разрывает поток, но оставляет его пригодным
			// для следующей сессии
			a.Stream.Disconnect()
		}
	})

	if a.Auth.IsAuthenticated() {
		if err := a.Stream.Connect(); err != nil {
			a.logger.Error("failed to connect live stream", zap.Error(err))
		}
	}

	return nil
}

// Close останавливает поток и закрывает хранилище
func (a *App) Close() error {
	if err := a.Stream.Close(); err != nil {
		a.logger.Warn("error closing live stream", zap.Error(err))
	}
	return a.Store.Close()
}
