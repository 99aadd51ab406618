package stream

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/metrics"
)

// ReconnectConfig - явная политика переподключения live-соединения
type ReconnectConfig struct {
	// Начальная задержка перед переподключением
	InitialDelay time.Duration
	// Максимальная задержка (после exponential backoff)
	MaxDelay time.Duration
	// Максимальное количество попыток (0 = бесконечно)
	MaxRetries int
	// Таймаут подключения
	ConnectTimeout time.Duration
	// Интервал ping для проверки соединения
	PingInterval time.Duration
	// Таймаут ожидания pong
	PongTimeout time.Duration
}

// DefaultReconnectConfig возвращает политику по умолчанию: 2s, 4s, 8s, 16s
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		InitialDelay:   2 * time.Second,
		MaxDelay:       16 * time.Second,
		MaxRetries:     10,
		ConnectTimeout: 10 * time.Second,
		PingInterval:   30 * time.Second,
		PongTimeout:    10 * time.Second,
	}
}

// ConnectionState состояние live-соединения
type ConnectionState int32

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateClosed
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ReconnectManager управляет live-соединением с автоматическим переподключением
//
// Назначение:
// Держит WebSocket соединение с backend, переподключаясь при
// разрывах с exponential backoff по явной политике ReconnectConfig.
//
// Функции:
// - Автоматическое переподключение с exponential backoff
// - Аутентификация handshake-кадром после подключения
//   (токен не попадает в URL соединения)
// - Ping/Pong для проверки живости соединения
// - Callbacks для событий connect, disconnect, message, state
type ReconnectManager struct {
	wsURL  string
	config ReconnectConfig
	logger *zap.Logger

	conn   *websocket.Conn
	connMu sync.RWMutex

	state int32 // atomic ConnectionState

	// suspended отличает намеренный разрыв (logout) от аварийного:
	// при suspended=1 обрыв соединения не запускает переподключение
	suspended int32 // atomic

	retryCount int32 // atomic

	closeChan chan struct{}

	onMessage    func([]byte)
	onConnect    func()
	onDisconnect func(error)
	onState      func(ConnectionState)
	callbackMu   sync.RWMutex

	// authFunc выполняет handshake-аутентификацию на свежем соединении
	authFunc func(*websocket.Conn) error
}

// NewReconnectManager создаёт менеджер переподключений
func NewReconnectManager(wsURL string, config ReconnectConfig, logger *zap.Logger) *ReconnectManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconnectManager{
		wsURL:     wsURL,
		config:    config,
		logger:    logger,
		closeChan: make(chan struct{}),
	}
}

// SetOnMessage устанавливает callback для входящих кадров
func (m *ReconnectManager) SetOnMessage(handler func([]byte)) {
	m.callbackMu.Lock()
	m.onMessage = handler
	m.callbackMu.Unlock()
}

// SetOnConnect устанавливает callback для события подключения
func (m *ReconnectManager) SetOnConnect(handler func()) {
	m.callbackMu.Lock()
	m.onConnect = handler
	m.callbackMu.Unlock()
}

// SetOnDisconnect устанавливает callback для события отключения
func (m *ReconnectManager) SetOnDisconnect(handler func(error)) {
	m.callbackMu.Lock()
	m.onDisconnect = handler
	m.callbackMu.Unlock()
}

// SetOnStateChange устанавливает callback для смены состояния
func (m *ReconnectManager) SetOnStateChange(handler func(ConnectionState)) {
	m.callbackMu.Lock()
	m.onState = handler
	m.callbackMu.Unlock()
}

// SetAuthFunc устанавливает handshake-аутентификацию
func (m *ReconnectManager) SetAuthFunc(authFunc func(*websocket.Conn) error) {
	m.authFunc = authFunc
}

// GetState возвращает текущее состояние соединения
func (m *ReconnectManager) GetState() ConnectionState {
	return ConnectionState(atomic.LoadInt32(&m.state))
}

// IsConnected проверяет, установлено ли соединение
func (m *ReconnectManager) IsConnected() bool {
	return m.GetState() == StateConnected
}

func (m *ReconnectManager) setState(state ConnectionState) {
	atomic.StoreInt32(&m.state, int32(state))
	metrics.UpdateStreamStatus(state == StateConnected)

	m.callbackMu.RLock()
	onState := m.onState
	m.callbackMu.RUnlock()
	if onState != nil {
		onState(state)
	}
}

// Connect устанавливает соединение
func (m *ReconnectManager) Connect() error {
	select {
	case <-m.closeChan:
		return fmt.Errorf("manager is closed")
	default:
	}

	atomic.StoreInt32(&m.suspended, 0)
	m.setState(StateConnecting)

	if err := m.dial(); err != nil {
		m.setState(StateDisconnected)
		return err
	}

	m.setState(StateConnected)
	atomic.StoreInt32(&m.retryCount, 0)

	m.callbackMu.RLock()
	onConnect := m.onConnect
	m.callbackMu.RUnlock()
	if onConnect != nil {
		onConnect()
	}

	go m.readPump()
	go m.pingPump()

	m.logger.Info("live stream connected", zap.String("url", m.wsURL))
	return nil
}

// dial подключается и выполняет handshake-аутентификацию
func (m *ReconnectManager) dial() error {
	ctx, cancel := context.WithTimeout(context.Background(), m.config.ConnectTimeout)
	defer cancel()

	dialer := websocket.Dialer{
		HandshakeTimeout: m.config.ConnectTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, m.wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial error: %w", err)
	}

	m.connMu.Lock()
	m.conn = conn
	m.connMu.Unlock()

	if m.authFunc != nil {
		if err := m.authFunc(conn); err != nil {
			conn.Close()
			m.connMu.Lock()
			m.conn = nil
			m.connMu.Unlock()
			return fmt.Errorf("auth error: %w", err)
		}
	}

	return nil
}

// readPump читает кадры из соединения
func (m *ReconnectManager) readPump() {
	for {
		select {
		case <-m.closeChan:
			return
		default:
		}

		m.connMu.RLock()
		conn := m.conn
		m.connMu.RUnlock()

		if conn == nil {
			return
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			m.handleDisconnect(err)
			return
		}

		m.callbackMu.RLock()
		onMessage := m.onMessage
		m.callbackMu.RUnlock()

		if onMessage != nil {
			onMessage(message)
		}
	}
}

// pingPump отправляет ping для проверки соединения
func (m *ReconnectManager) pingPump() {
	ticker := time.NewTicker(m.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.closeChan:
			return
		case <-ticker.C:
			m.connMu.RLock()
			conn := m.conn
			m.connMu.RUnlock()

			if conn == nil {
				return
			}

			if m.GetState() != StateConnected {
				return
			}

			conn.SetWriteDeadline(time.Now().Add(m.config.PongTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				m.logger.Warn("ping failed", zap.Error(err))
				m.handleDisconnect(err)
				return
			}
		}
	}
}

// handleDisconnect обрабатывает разрыв соединения
func (m *ReconnectManager) handleDisconnect(err error) {
	select {
	case <-m.closeChan:
		return
	default:
	}

	// Избегаем повторной обработки
	state := m.GetState()
	if state == StateReconnecting || state == StateClosed {
		return
	}

	// Намеренный разрыв: соединение уже закрыто, переподключение не нужно
	if atomic.LoadInt32(&m.suspended) == 1 {
		m.setState(StateDisconnected)
		return
	}

	m.setState(StateReconnecting)

	m.connMu.Lock()
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
	m.connMu.Unlock()

	m.callbackMu.RLock()
	onDisconnect := m.onDisconnect
	m.callbackMu.RUnlock()
	if onDisconnect != nil {
		onDisconnect(err)
	}

	if err != nil {
		m.logger.Warn("live stream disconnected", zap.Error(err))
	}

	go m.reconnectLoop()
}

// reconnectLoop выполняет переподключение с exponential backoff
func (m *ReconnectManager) reconnectLoop() {
	delay := m.config.InitialDelay

	for {
		select {
		case <-m.closeChan:
			return
		default:
		}

		retryCount := atomic.AddInt32(&m.retryCount, 1)

		if m.config.MaxRetries > 0 && int(retryCount) > m.config.MaxRetries {
			m.logger.Error("max reconnect attempts reached",
				zap.Int("max_retries", m.config.MaxRetries))
			m.setState(StateDisconnected)
			return
		}

		m.logger.Info("reconnecting live stream",
			zap.Duration("delay", delay),
			zap.Int32("attempt", retryCount),
			zap.Int("max_retries", m.config.MaxRetries))

		select {
		case <-m.closeChan:
			return
		case <-time.After(delay):
		}

		metrics.StreamReconnectsTotal.Inc()

		if err := m.dial(); err != nil {
			m.logger.Warn("reconnect failed", zap.Error(err))

			delay = delay * 2
			if delay > m.config.MaxDelay {
				delay = m.config.MaxDelay
			}
			continue
		}

		m.setState(StateConnected)
		atomic.StoreInt32(&m.retryCount, 0)

		m.callbackMu.RLock()
		onConnect := m.onConnect
		m.callbackMu.RUnlock()
		if onConnect != nil {
			onConnect()
		}

		m.logger.Info("live stream reconnected")

		go m.readPump()
		go m.pingPump()

		return
	}
}

// Send отправляет сообщение, если соединение установлено
func (m *ReconnectManager) Send(msg interface{}) error {
	if m.GetState() != StateConnected {
		return fmt.Errorf("not connected (state: %s)", m.GetState())
	}

	m.connMu.RLock()
	conn := m.conn
	m.connMu.RUnlock()

	if conn == nil {
		return fmt.Errorf("no connection")
	}

	return conn.WriteJSON(msg)
}

// Disconnect намеренно разрывает соединение без переподключения.
// В отличие от Close, менеджер остаётся пригодным для Connect.
func (m *ReconnectManager) Disconnect() {
	atomic.StoreInt32(&m.suspended, 1)

	m.connMu.Lock()
	conn := m.conn
	m.conn = nil
	m.connMu.Unlock()

	if conn != nil {
		conn.Close()
	}

	m.setState(StateDisconnected)
}

// GetRetryCount возвращает текущее количество попыток переподключения
func (m *ReconnectManager) GetRetryCount() int {
	return int(atomic.LoadInt32(&m.retryCount))
}

// Close закрывает соединение и останавливает переподключение
func (m *ReconnectManager) Close() error {
	select {
	case <-m.closeChan:
		return nil
	default:
		close(m.closeChan)
	}

	m.setState(StateClosed)

	m.connMu.Lock()
	defer m.connMu.Unlock()

	if m.conn != nil {
		err := m.conn.Close()
		m.conn = nil
		return err
	}

	return nil
}
