package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/models"
)

// user.go - эндпоинты профиля пользователя

// GetProfile возвращает профиль текущего пользователя
func (c *Client) GetProfile(ctx context.Context) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.get(ctx, "/api/users/me", &profile, requestOptions{}); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile частично обновляет профиль текущего пользователя
func (c *Client) UpdateProfile(ctx context.Context, fields map[string]interface{}) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.put(ctx, "/api/users/me", fields, &profile, requestOptions{}); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UploadAvatar загружает аватар пользователя (multipart, не JSON)
func (c *Client) UploadAvatar(ctx context.Context, filename string, data []byte) error {
	const path = "/api/users/me/avatar"

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("avatar", filename)
	if err != nil {
		return &RequestError{Endpoint: path, Err: err}
	}
	if _, err := part.Write(data); err != nil {
		return &RequestError{Endpoint: path, Err: err}
	}
	if err := writer.Close(); err != nil {
		return &RequestError{Endpoint: path, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return &RequestError{Endpoint: path, Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Endpoint: path, Message: extractDetail(body)}
	}
	return nil
}

// GetNotificationCode возвращает код привязки внешних уведомлений
func (c *Client) GetNotificationCode(ctx context.Context) (string, error) {
	var resp struct {
		Code string `json:"code"`
	}
	if err := c.get(ctx, "/api/users/me/notification-code", &resp, requestOptions{}); err != nil {
		return "", err
	}
	if resp.Code == "" {
		return "", fmt.Errorf("empty notification code in response")
	}
	return resp.Code, nil
}

// GetPortfolio возвращает сводку портфеля пользователя
func (c *Client) GetPortfolio(ctx context.Context) (*models.PortfolioSnapshot, error) {
	var snapshot models.PortfolioSnapshot
	if err := c.get(ctx, "/api/users/me/portfolio", &snapshot, requestOptions{}); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
