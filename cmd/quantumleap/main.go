package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/app"
	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/config"
	"github.com/kayung-developer/QuantumLeap-AI-sub000/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	logger, err := utils.InitLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		zap.NewExample().Fatal("failed to init logger", zap.Error(err))
	}
	defer logger.Sync()

	// Сборка клиента
	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build client", zap.Error(err))
	}
	defer a.Close()

	// App-lock: при установленном passcode сессия недоступна без него
	if a.Lock.Enabled(context.Background()) {
		if err := promptPasscode(a); err != nil {
			logger.Fatal("app lock verification failed", zap.Error(err))
		}
	}

	if err := a.Start(context.Background()); err != nil {
		logger.Fatal("failed to start client", zap.Error(err))
	}

	// Диагностический listener
	var diagServer *http.Server
	if cfg.Diag.Enabled {
		diagServer = startDiagServer(cfg.Diag.Addr, a, logger)
	}

	logger.Info("client started",
		zap.String("api", cfg.API.BaseURL),
		zap.String("stream", cfg.Stream.URL),
		zap.Bool("authenticated", a.Auth.IsAuthenticated()))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	if diagServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := diagServer.Shutdown(ctx); err != nil {
			logger.Warn("diag server shutdown", zap.Error(err))
		}
		cancel()
	}

	logger.Info("client exited")
}

// promptPasscode читает passcode из терминала и проверяет его
func promptPasscode(a *app.App) error {
	fmt.Fprint(os.Stderr, "Passcode: ")
	reader := bufio.NewReader(os.Stdin)
	passcode, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	return a.Lock.Verify(context.Background(), strings.TrimSpace(passcode))
}

// startDiagServer поднимает локальный диагностический HTTP listener:
// /metrics для Prometheus, /healthz и /status для отладки
func startDiagServer(addr string, a *app.App, logger *zap.Logger) *http.Server {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	router.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"authenticated": a.Auth.IsAuthenticated(),
			"stream_state":  a.Stream.State().String(),
			"buffered":      len(a.Stream.Messages()),
		})
	}).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("diag listener started", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("diag listener failed", zap.Error(err))
		}
	}()

	return server
}
