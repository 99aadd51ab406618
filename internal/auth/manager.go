// Package auth реализует менеджер сессии пользователя.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/api"
	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/models"
	"github.com/kayung-developer/QuantumLeap-AI-sub000/pkg/crypto"
	"github.com/kayung-developer/QuantumLeap-AI-sub000/pkg/utils"
)

// Ошибки менеджера сессии
var (
	ErrNoSession         = errors.New("no active session")
	ErrNoRefreshToken    = errors.New("no refresh token available")
	ErrTwoFactorRequired = errors.New("two-factor verification required")
	ErrBackendNotBound   = errors.New("auth manager has no backend attached")
)

// TokenStore - подмножество локального хранилища, нужное менеджеру сессии
type TokenStore interface {
	SaveTokens(ctx context.Context, encryptedAccess, encryptedRefresh string) error
	LoadTokens(ctx context.Context) (encryptedAccess, encryptedRefresh string, err error)
	ClearTokens(ctx context.Context) error
}

// Backend - подмножество API клиента, нужное менеджеру сессии
type Backend interface {
	Register(ctx context.Context, email, password, fullName string) (*models.UserProfile, error)
	ExchangeToken(ctx context.Context, providerToken string) (*models.TokenPair, error)
	SuperuserLogin(ctx context.Context, email, password string) (*api.SuperuserLoginResult, error)
	VerifyTwoFactor(ctx context.Context, challengeToken, code string) (*models.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	ImpersonateUser(ctx context.Context, userID string) (*models.TokenPair, error)
	GetProfile(ctx context.Context) (*models.UserProfile, error)
}

// Manager - владелец сессии пользователя.
//
// Назначение:
// Единственный владелец bearer токена: HTTP клиент и live-поток
// читают токен только через Manager (api.TokenSource). Токены
// персистятся в локальное хранилище в зашифрованном виде, профиль
// живёт только в памяти.
//
// Жизненный цикл:
// - Restore при старте восстанавливает сессию из хранилища
// - Login/SuperuserLogin/Impersonate создают новую сессию
// - Logout и исчерпанный refresh уничтожают сессию и чистят хранилище
type Manager struct {
	store         TokenStore
	backend       Backend
	encryptionKey string
	logger        *zap.Logger

	mu      sync.RWMutex
	session models.Session

	// welcome-флаг живёт только в памяти процесса (аналог session storage)
	welcomeSeen bool

	// onChange уведомляет подписчика о смене состояния сессии
	onChange func(authenticated bool)
}

// NewManager создаёт менеджер сессии
func NewManager(store TokenStore, encryptionKey string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:         store,
		encryptionKey: encryptionKey,
		logger:        logger,
	}
}

// AttachBackend привязывает API клиент.
// Вызывается после создания клиента: клиент и менеджер
// ссылаются друг на друга через интерфейсы.
func (m *Manager) AttachBackend(backend Backend) {
	m.backend = backend
}

// OnChange устанавливает подписчика на смену состояния сессии
func (m *Manager) OnChange(fn func(authenticated bool)) {
	m.onChange = fn
}

// ============================================================
// api.TokenSource
// ============================================================

// AccessToken возвращает текущий bearer токен, "" если сессии нет
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.AccessToken
}

// Refresh обменивает refresh токен на новую пару.
// Вызывается HTTP клиентом ровно один раз на 401.
func (m *Manager) Refresh(ctx context.Context) error {
	if m.backend == nil {
		return ErrBackendNotBound
	}

	m.mu.RLock()
	refreshToken := m.session.RefreshToken
	m.mu.RUnlock()

	if refreshToken == "" {
		return ErrNoRefreshToken
	}

	pair, err := m.backend.RefreshToken(ctx, refreshToken)
	if err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}

	return m.setTokens(ctx, pair)
}

// ============================================================
// Восстановление сессии
// ============================================================

// Restore восстанавливает сессию из локального хранилища при старте.
//
// Детерминированный результат:
// - валидный токен: IsAuthenticated() == true и профиль загружен
//   до возврата из Restore
// - невалидный/истёкший токен: IsAuthenticated() == false и
//   хранилище очищено
// - отсутствие сохранённых токенов: IsAuthenticated() == false
//
// Ошибка возвращается только при отказе самого хранилища.
func (m *Manager) Restore(ctx context.Context) error {
	if m.backend == nil {
		return ErrBackendNotBound
	}

	encAccess, encRefresh, err := m.store.LoadTokens(ctx)
	if err != nil {
		return fmt.Errorf("load stored tokens: %w", err)
	}
	if encAccess == "" {
		return nil
	}

	access, err := crypto.DecryptWithKeyString(encAccess, m.encryptionKey)
	if err != nil {
		// повреждённая запись или сменившийся ключ: чистим и живём дальше
		m.logger.Warn("stored access token is unreadable, clearing session", zap.Error(err))
		return m.store.ClearTokens(ctx)
	}

	refresh := ""
	if encRefresh != "" {
		refresh, err = crypto.DecryptWithKeyString(encRefresh, m.encryptionKey)
		if err != nil {
			m.logger.Warn("stored refresh token is unreadable, clearing session", zap.Error(err))
			return m.store.ClearTokens(ctx)
		}
	}

	m.mu.Lock()
	m.session = models.Session{AccessToken: access, RefreshToken: refresh}
	m.mu.Unlock()

	// Валидация токена запросом профиля. При 401 клиент сам сделает
	// refresh-and-retry; исчерпанная сессия придёт как ErrSessionExpired
	// через ForceLogout.
	profile, err := m.backend.GetProfile(ctx)
	if err != nil {
		if errors.Is(err, api.ErrSessionExpired) {
			return nil // ForceLogout уже очистил состояние
		}
		// сеть или сервер: сессию не трогаем, профиль догрузится позже
		m.logger.Warn("profile fetch failed during session restore", zap.Error(err))
		return nil
	}

	m.mu.Lock()
	m.session.Profile = profile
	m.mu.Unlock()

	m.notify(true)
	m.logger.Info("session restored", zap.String("email", profile.Email))
	return nil
}

// ============================================================
// Вход и регистрация
// ============================================================

// Register регистрирует нового пользователя.
// Вход выполняется отдельно через Login с токеном identity-провайдера.
func (m *Manager) Register(ctx context.Context, email, password, fullName string) (*models.UserProfile, error) {
	if m.backend == nil {
		return nil, ErrBackendNotBound
	}
	if err := utils.ValidateEmail(email); err != nil {
		return nil, err
	}
	return m.backend.Register(ctx, email, password, fullName)
}

// Login обменивает токен identity-провайдера на сессию платформы
func (m *Manager) Login(ctx context.Context, providerToken string) (*models.UserProfile, error) {
	if m.backend == nil {
		return nil, ErrBackendNotBound
	}

	pair, err := m.backend.ExchangeToken(ctx, providerToken)
	if err != nil {
		return nil, fmt.Errorf("exchange provider token: %w", err)
	}

	return m.establishSession(ctx, pair)
}

// SuperuserLogin выполняет вход superuser по email и паролю.
// При включённом 2FA возвращает ErrTwoFactorRequired и challenge.
func (m *Manager) SuperuserLogin(ctx context.Context, email, password string) (*models.TwoFactorChallenge, error) {
	if m.backend == nil {
		return nil, ErrBackendNotBound
	}

	result, err := m.backend.SuperuserLogin(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if result.Challenge != nil && result.Challenge.Required {
		return result.Challenge, ErrTwoFactorRequired
	}
	if result.Tokens == nil {
		return nil, fmt.Errorf("superuser login returned neither tokens nor challenge")
	}

	if _, err := m.establishSession(ctx, result.Tokens); err != nil {
		return nil, err
	}
	return nil, nil
}

// CompleteTwoFactor завершает 2FA challenge кодом из аутентификатора
func (m *Manager) CompleteTwoFactor(ctx context.Context, challengeToken, code string) (*models.UserProfile, error) {
	if m.backend == nil {
		return nil, ErrBackendNotBound
	}

	pair, err := m.backend.VerifyTwoFactor(ctx, challengeToken, code)
	if err != nil {
		return nil, err
	}

	return m.establishSession(ctx, pair)
}

// Impersonate входит под другим пользователем (только superuser).
// Текущая сессия замещается целиком.
func (m *Manager) Impersonate(ctx context.Context, userID string) (*models.UserProfile, error) {
	if m.backend == nil {
		return nil, ErrBackendNotBound
	}

	pair, err := m.backend.ImpersonateUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return m.establishSession(ctx, pair)
}

// establishSession устанавливает сессию из пары токенов:
// персистит токены и загружает профиль
func (m *Manager) establishSession(ctx context.Context, pair *models.TokenPair) (*models.UserProfile, error) {
	if err := m.setTokens(ctx, pair); err != nil {
		return nil, err
	}

	profile, err := m.backend.GetProfile(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	m.mu.Lock()
	m.session.Profile = profile
	m.mu.Unlock()

	m.notify(true)
	return profile, nil
}

// setTokens обновляет токены в памяти и в хранилище (зашифрованными)
func (m *Manager) setTokens(ctx context.Context, pair *models.TokenPair) error {
	encAccess, err := crypto.EncryptWithKeyString(pair.AccessToken, m.encryptionKey)
	if err != nil {
		return fmt.Errorf("encrypt access token: %w", err)
	}
	encRefresh, err := crypto.EncryptWithKeyString(pair.RefreshToken, m.encryptionKey)
	if err != nil {
		return fmt.Errorf("encrypt refresh token: %w", err)
	}

	if err := m.store.SaveTokens(ctx, encAccess, encRefresh); err != nil {
		return fmt.Errorf("persist tokens: %w", err)
	}

	m.mu.Lock()
	m.session.AccessToken = pair.AccessToken
	m.session.RefreshToken = pair.RefreshToken
	m.mu.Unlock()

	return nil
}

// ============================================================
// Завершение сессии
// ============================================================

// Logout завершает сессию: память и хранилище очищаются
func (m *Manager) Logout(ctx context.Context) error {
	m.clearSession()
	m.notify(false)
	return m.store.ClearTokens(ctx)
}

// ForceLogout вызывается HTTP клиентом при исчерпанном refresh токене
func (m *Manager) ForceLogout() {
	m.logger.Warn("session expired, forcing logout")
	m.clearSession()
	m.notify(false)

	// лучшая попытка: хранилище чистится без контекста вызова
	if err := m.store.ClearTokens(context.Background()); err != nil {
		m.logger.Error("failed to clear stored tokens", zap.Error(err))
	}
}

func (m *Manager) clearSession() {
	m.mu.Lock()
	m.session = models.Session{}
	m.welcomeSeen = false
	m.mu.Unlock()
}

func (m *Manager) notify(authenticated bool) {
	if m.onChange != nil {
		m.onChange(authenticated)
	}
}

// ============================================================
// Чтение состояния
// ============================================================

// IsAuthenticated сообщает, есть ли действующая сессия
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.IsAuthenticated()
}

// Session возвращает копию текущей сессии
func (m *Manager) Session() models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session
}

// Profile возвращает профиль текущей сессии, nil если не загружен
func (m *Manager) Profile() *models.UserProfile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.Profile
}

// WelcomeSeen сообщает, показывалось ли приветствие в этой сессии процесса
func (m *Manager) WelcomeSeen() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.welcomeSeen
}

// MarkWelcomeSeen отмечает показ приветствия
func (m *Manager) MarkWelcomeSeen() {
	m.mu.Lock()
	m.welcomeSeen = true
	m.mu.Unlock()
}
