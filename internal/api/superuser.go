package api

import (
	"context"
	"fmt"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/models"
)

// superuser.go - административные эндпоинты.
// Backend сам проверяет роль по токену, клиент не дублирует проверку.

// GetSystemStats возвращает системную статистику платформы
func (c *Client) GetSystemStats(ctx context.Context) (*models.SystemStats, error) {
	var stats models.SystemStats
	if err := c.get(ctx, "/api/superuser/stats", &stats, requestOptions{}); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListUsers возвращает список пользователей
func (c *Client) ListUsers(ctx context.Context) ([]models.AdminUser, error) {
	var users []models.AdminUser
	if err := c.get(ctx, "/api/superuser/users", &users, requestOptions{}); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser создаёт пользователя
func (c *Client) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.AdminUser, error) {
	var user models.AdminUser
	if err := c.post(ctx, "/api/superuser/users", req, &user, requestOptions{}); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser частично обновляет пользователя
func (c *Client) UpdateUser(ctx context.Context, userID string, req models.UpdateUserRequest) (*models.AdminUser, error) {
	var user models.AdminUser
	if err := c.put(ctx, fmt.Sprintf("/api/superuser/users/%s", userID), req, &user, requestOptions{}); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser удаляет пользователя
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.delete(ctx, fmt.Sprintf("/api/superuser/users/%s", userID), requestOptions{})
}

// ImpersonateUser возвращает пару токенов для входа под пользователем
func (c *Client) ImpersonateUser(ctx context.Context, userID string) (*models.TokenPair, error) {
	var pair models.TokenPair
	if err := c.post(ctx, fmt.Sprintf("/api/superuser/users/%s/impersonate", userID), nil, &pair, requestOptions{}); err != nil {
		return nil, err
	}
	return &pair, nil
}

// EmergencyStop активирует аварийную остановку всех ботов платформы
func (c *Client) EmergencyStop(ctx context.Context) error {
	return c.post(ctx, "/api/superuser/kill-switch", nil, nil,
		requestOptions{category: categoryTrading})
}

// IssueSerial выпускает серийный номер для плана подписки
func (c *Client) IssueSerial(ctx context.Context, plan string) (*models.SerialNumber, error) {
	body := map[string]string{"plan": plan}

	var serial models.SerialNumber
	if err := c.post(ctx, "/api/superuser/serials", body, &serial, requestOptions{}); err != nil {
		return nil, err
	}
	return &serial, nil
}
