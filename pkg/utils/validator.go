package utils

import (
	"errors"
	"regexp"
	"strings"
)

// validator.go - валидация пользовательского ввода
//
// Назначение:
// Проверка корректности данных форм перед отправкой на backend.
// Backend валидирует всё повторно: здесь только то, что UI
// обязан поймать до запроса (required fields, числовые диапазоны).

// Ошибки валидации
var (
	ErrEmptyValue      = errors.New("value is required")
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrInvalidSymbol   = errors.New("invalid trading symbol format")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidAPIKey   = errors.New("API key is too short")
	ErrInvalidBotName  = errors.New("bot name must be 1-64 characters")
	ErrInvalidPasscode = errors.New("passcode must be 4-72 characters")
)

var (
	emailRe  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	symbolRe = regexp.MustCompile(`^[A-Z0-9]{2,12}(/|-)?[A-Z0-9]{2,12}$`)
)

// ValidateEmail проверяет формат email
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmptyValue
	}
	if !emailRe.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateSymbol проверяет формат торгового символа (BTCUSDT, BTC/USDT, BTC-USDT)
func ValidateSymbol(symbol string) error {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return ErrEmptyValue
	}
	if !symbolRe.MatchString(strings.ToUpper(symbol)) {
		return ErrInvalidSymbol
	}
	return nil
}

// ValidateAmount проверяет, что сумма положительная
func ValidateAmount(amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateAPIKey - базовая проверка биржевого API ключа перед отправкой.
// Формат у каждой биржи свой, проверяем только осмысленную длину.
func ValidateAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyValue
	}
	if len(key) < 8 {
		return ErrInvalidAPIKey
	}
	return nil
}

// ValidateBotName проверяет имя бота
func ValidateBotName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 64 {
		return ErrInvalidBotName
	}
	return nil
}

// ValidatePasscode проверяет локальный passcode приложения
func ValidatePasscode(passcode string) error {
	if len(passcode) < 4 || len(passcode) > 72 {
		return ErrInvalidPasscode
	}
	return nil
}
