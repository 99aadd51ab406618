package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Ошибки клиента backend API
var (
	// ErrSessionExpired возвращается, когда refresh токена не помог:
	// повторный 401 после единственной попытки обновления
	ErrSessionExpired = errors.New("session expired, re-authentication required")

	// ErrUnauthenticated возвращается при запросе, требующем токен,
	// когда сессия отсутствует
	ErrUnauthenticated = errors.New("no active session")
)

// APIError представляет ответ сервера со статусом ошибки.
// Message берётся из поля detail тела ответа, если оно есть.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

// Error реализует интерфейс error
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d on %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("api error %d on %s", e.StatusCode, e.Endpoint)
}

// IsNotFound сообщает, является ли ошибка 404
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsRateLimited сообщает, является ли ошибка 429
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// NetworkError представляет запрос, отправленный без ответа:
// обрыв соединения, таймаут, DNS
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error on %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RequestError представляет запрос, который не удалось отправить:
// ошибка построения запроса или сериализации тела
type RequestError struct {
	Endpoint string
	Err      error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request error on %s: %v", e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
