package models

import "time"

// SystemStats представляет системную статистику для superuser
type SystemStats struct {
	TotalUsers      int     `json:"total_users"`
	ActiveUsers     int     `json:"active_users"`
	RunningBots     int     `json:"running_bots"`
	TotalRevenue    float64 `json:"total_revenue"`
	KillSwitchArmed bool    `json:"kill_switch_armed"`
}

// AdminUser представляет пользователя в админском списке
type AdminUser struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Role             string    `json:"role"`
	SubscriptionPlan string    `json:"subscription_plan"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
}

// CreateUserRequest - параметры создания пользователя администратором
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
	Plan     string `json:"plan,omitempty"`
}

// UpdateUserRequest - частичное обновление пользователя администратором
type UpdateUserRequest struct {
	Role     *string `json:"role,omitempty"`
	Plan     *string `json:"plan,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// SerialNumber представляет выданный администратором серийный номер
type SerialNumber struct {
	Serial    string    `json:"serial"`
	Plan      string    `json:"plan"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}
