package models

// Session представляет активную сессию пользователя.
// Живёт только в памяти: токены персистятся отдельно
// в зашифрованном виде через internal/store.
type Session struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	Profile      *UserProfile `json:"profile,omitempty"`
}

// IsAuthenticated сообщает, есть ли действующий токен
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.AccessToken != ""
}

// IsSuperuser сообщает, имеет ли сессия роль superuser
func (s *Session) IsSuperuser() bool {
	return s.IsAuthenticated() && s.Profile != nil && s.Profile.Role == RoleSuperuser
}

// UserProfile представляет профиль пользователя с backend.
// Форма определяется сервером, клиент не валидирует её
// сверх доступа к известным полям.
type UserProfile struct {
	ID               string                 `json:"id"`
	Email            string                 `json:"email"`
	FullName         string                 `json:"full_name,omitempty"`
	Role             string                 `json:"role"`
	SubscriptionPlan string                 `json:"subscription_plan"`
	AvatarURL        string                 `json:"avatar_url,omitempty"`
	TwoFactorEnabled bool                   `json:"is_2fa_enabled"`
	Profile          map[string]interface{} `json:"profile,omitempty"` // вложенные поля произвольной формы
}

// Роли пользователей
const (
	RoleUser      = "user"
	RoleSuperuser = "superuser"
)

// TokenPair представляет пару токенов, выдаваемую backend
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type,omitempty"`
}

// TwoFactorChallenge представляет запрос второго фактора при логине
type TwoFactorChallenge struct {
	Required  bool   `json:"two_factor_required"`
	Token     string `json:"challenge_token,omitempty"` // временный токен для verify
	ExpiresIn int    `json:"expires_in,omitempty"`      // секунды
}
