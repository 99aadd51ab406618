package api

import (
	"context"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/models"
)

// auth.go - эндпоинты аутентификации.
// Все вызовы публичные (noAuth): токен либо ещё не существует,
// либо передаётся в теле запроса.

// Register регистрирует нового пользователя
func (c *Client) Register(ctx context.Context, email, password, fullName string) (*models.UserProfile, error) {
	body := map[string]string{
		"email":     email,
		"password":  password,
		"full_name": fullName,
	}

	var profile models.UserProfile
	if err := c.post(ctx, "/api/auth/register", body, &profile, requestOptions{noAuth: true}); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ExchangeToken обменивает токен внешнего identity-провайдера
// на пару токенов платформы
func (c *Client) ExchangeToken(ctx context.Context, providerToken string) (*models.TokenPair, error) {
	body := map[string]string{"id_token": providerToken}

	var pair models.TokenPair
	if err := c.post(ctx, "/api/auth/token", body, &pair, requestOptions{noAuth: true}); err != nil {
		return nil, err
	}
	return &pair, nil
}

// SuperuserLoginResult - результат входа superuser:
// либо пара токенов, либо 2FA challenge
type SuperuserLoginResult struct {
	Tokens    *models.TokenPair          `json:"tokens,omitempty"`
	Challenge *models.TwoFactorChallenge `json:"challenge,omitempty"`
}

// SuperuserLogin выполняет вход superuser по логину и паролю.
// При включённом 2FA возвращает challenge вместо токенов.
func (c *Client) SuperuserLogin(ctx context.Context, email, password string) (*SuperuserLoginResult, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}

	var result SuperuserLoginResult
	if err := c.post(ctx, "/api/auth/superuser/login", body, &result, requestOptions{noAuth: true}); err != nil {
		return nil, err
	}
	return &result, nil
}

// VerifyTwoFactor завершает 2FA challenge кодом из аутентификатора
func (c *Client) VerifyTwoFactor(ctx context.Context, challengeToken, code string) (*models.TokenPair, error) {
	body := map[string]string{
		"challenge_token": challengeToken,
		"code":            code,
	}

	var pair models.TokenPair
	if err := c.post(ctx, "/api/auth/2fa/verify", body, &pair, requestOptions{noAuth: true}); err != nil {
		return nil, err
	}
	return &pair, nil
}

// RefreshToken обменивает refresh токен на новую пару токенов.
// Идёт без bearer заголовка и без retry-логики: этот вызов
// сам является refresh-шагом.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	body := map[string]string{"refresh_token": refreshToken}

	var pair models.TokenPair
	if err := c.post(ctx, "/api/auth/refresh", body, &pair, requestOptions{noAuth: true}); err != nil {
		return nil, err
	}
	return &pair, nil
}
