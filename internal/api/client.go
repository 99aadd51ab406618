// Package api реализует клиент backend API платформы.
// Вся бизнес-логика живёт на сервере, клиент только вызывает
// HTTP endpoints и декодирует ответы.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/metrics"
	"github.com/kayung-developer/QuantumLeap-AI-sub000/pkg/ratelimit"
)

// jsoniter в режиме совместимости со стандартной библиотекой
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Категории rate limit по группам эндпоинтов
const (
	categoryTrading = "trading" // ордера, запуск/остановка ботов
	categoryMarket  = "market"  // рыночные данные
	categoryRest    = "rest"    // всё остальное
)

// TokenSource предоставляет bearer токен для запросов.
// Единственный владелец токена - менеджер сессии: клиент
// читает токен только через этот интерфейс.
type TokenSource interface {
	// AccessToken возвращает текущий токен, "" если сессии нет
	AccessToken() string

	// Refresh обновляет пару токенов по refresh токену.
	// Вызывается клиентом ровно один раз на 401.
	Refresh(ctx context.Context) error
}

// Config содержит настройки клиента backend API
type Config struct {
	BaseURL    string
	HTTPClient *http.Client // nil = NewHTTPClient(DefaultHTTPClientConfig())
	Tokens     TokenSource  // nil допустим только для публичных эндпоинтов
	Logger     *zap.Logger

	// OnSessionExpired вызывается при исчерпании refresh токена.
	// Менеджер сессии использует его для принудительного logout.
	OnSessionExpired func()

	// Rate limits (запросов в секунду); 0 = значения по умолчанию
	RateLimit float64
	RateBurst float64
}

// Client - клиент backend API.
//
// Назначение:
// Единая точка всех HTTP вызовов к backend. Добавляет bearer токен,
// применяет rate limiting по категориям, выполняет ровно одну
// попытку refresh-and-retry на 401 и приводит все ошибки
// к типам APIError / NetworkError / RequestError.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	tokens           TokenSource
	limiter          *ratelimit.MultiLimiter
	logger           *zap.Logger
	onSessionExpired func()
}

// NewClient создаёт клиент backend API
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = NewHTTPClient(DefaultHTTPClientConfig())
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	rate := cfg.RateLimit
	if rate <= 0 {
		rate = 10
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = rate * 2
	}

	limiter := ratelimit.NewMultiLimiter()
	limiter.Add(categoryTrading, rate/2, rate)
	limiter.Add(categoryMarket, rate*2, burst*2)
	limiter.Add(categoryRest, rate, burst)

	return &Client{
		baseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:       httpClient,
		tokens:           cfg.Tokens,
		limiter:          limiter,
		logger:           logger,
		onSessionExpired: cfg.OnSessionExpired,
	}
}

// requestOptions - параметры одного запроса
type requestOptions struct {
	category string // категория rate limit, "" = rest
	noAuth   bool   // публичный endpoint, токен не прикладывается
}

// do выполняет запрос к backend: rate limit, bearer токен,
// единственный refresh-and-retry на 401, декодирование ответа в out.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, opts requestOptions) error {
	category := opts.category
	if category == "" {
		category = categoryRest
	}

	if err := c.limiter.Wait(ctx, category); err != nil {
		return &RequestError{Endpoint: path, Err: err}
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return &RequestError{Endpoint: path, Err: err}
		}
	}

	start := time.Now()

	respBody, status, err := c.roundTrip(ctx, method, path, payload, opts.noAuth)
	if err != nil {
		metrics.RecordAPIRequest(path, "network_error", float64(time.Since(start).Milliseconds()))
		return err
	}

	// Ровно одна попытка refresh-and-retry на 401.
	// Повторный 401 означает исчерпанную сессию.
	if status == http.StatusUnauthorized && !opts.noAuth && c.tokens != nil {
		if err := c.tokens.Refresh(ctx); err != nil {
			metrics.RecordTokenRefresh(false)
			c.logger.Warn("token refresh failed, forcing logout", zap.String("endpoint", path), zap.Error(err))
			c.forceLogout()
			return ErrSessionExpired
		}
		metrics.RecordTokenRefresh(true)

		respBody, status, err = c.roundTrip(ctx, method, path, payload, false)
		if err != nil {
			metrics.RecordAPIRequest(path, "network_error", float64(time.Since(start).Milliseconds()))
			return err
		}

		if status == http.StatusUnauthorized {
			c.logger.Warn("request unauthorized after token refresh, forcing logout", zap.String("endpoint", path))
			c.forceLogout()
			return ErrSessionExpired
		}
	}

	metrics.RecordAPIRequest(path, statusClass(status), float64(time.Since(start).Milliseconds()))

	if status < 200 || status >= 300 {
		return &APIError{
			StatusCode: status,
			Endpoint:   path,
			Message:    extractDetail(respBody),
		}
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &RequestError{Endpoint: path, Err: fmt.Errorf("decode response: %w", err)}
		}
	}

	return nil
}

// roundTrip выполняет один HTTP запрос без retry-логики
func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte, noAuth bool) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, &RequestError{Endpoint: path, Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	// идентификатор запроса для сопоставления с логами backend
	req.Header.Set("X-Request-ID", uuid.NewString())

	if !noAuth && c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &NetworkError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &NetworkError{Endpoint: path, Err: err}
	}

	return respBody, resp.StatusCode, nil
}

// forceLogout уведомляет менеджер сессии об исчерпанной сессии
func (c *Client) forceLogout() {
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}

// extractDetail достаёт человекочитаемое сообщение из поля detail
// тела ответа; при любой другой форме тела возвращает ""
func extractDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var errResp struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		return ""
	}
	return errResp.Detail
}

// statusClass группирует статус для метрик: 2xx, 4xx, 5xx
func statusClass(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return "other"
	}
}

// get/post/put/delete - шорткаты для endpoint-методов

func (c *Client) get(ctx context.Context, path string, out interface{}, opts requestOptions) error {
	return c.do(ctx, http.MethodGet, path, nil, out, opts)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}, opts requestOptions) error {
	return c.do(ctx, http.MethodPost, path, body, out, opts)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}, opts requestOptions) error {
	return c.do(ctx, http.MethodPut, path, body, out, opts)
}

func (c *Client) delete(ctx context.Context, path string, opts requestOptions) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, opts)
}
