// Package stream реализует live-поток событий backend:
// одно WebSocket соединение на сессию, ограниченный буфер
// последних событий и уведомления о значимых типах кадров.
package stream

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/metrics"
)

// DefaultBufferSize - ёмкость буфера последних событий по умолчанию
const DefaultBufferSize = 100

// Notifier получает пользовательские уведомления о значимых событиях
type Notifier interface {
	Success(title, message string)
	Error(title, message string)
	Info(title, message string)
}

// TokenSource предоставляет токен для handshake-аутентификации
type TokenSource interface {
	AccessToken() string
}

// Config - настройки live-потока
type Config struct {
	URL        string
	Reconnect  ReconnectConfig
	BufferSize int // 0 = DefaultBufferSize
}

// Stream - диспетчер live-событий.
//
// Назначение:
// Принимает кадры от ReconnectManager, декодирует их в события,
// складывает в единственный ограниченный буфер и раздаёт
// зарегистрированным view. Нераспарсившиеся кадры считаются
// и отбрасываются, а не роняют поток.
//
// Токен передаётся handshake-кадром после установки соединения,
// в URL соединения он не попадает.
type Stream struct {
	manager  *ReconnectManager
	buffer   *EventBuffer
	tokens   TokenSource
	notifier Notifier
	logger   *zap.Logger

	viewsMu sync.RWMutex
	views   map[string]*View
}

// NewStream создаёт live-поток
func NewStream(cfg Config, tokens TokenSource, notifier Notifier, logger *zap.Logger) *Stream {
	if logger == nil {
		logger = zap.NewNop()
	}

	bufSize := cfg.BufferSize
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}

	s := &Stream{
		manager:  NewReconnectManager(cfg.URL, cfg.Reconnect, logger),
		buffer:   NewEventBuffer(bufSize),
		tokens:   tokens,
		notifier: notifier,
		logger:   logger,
		views:    make(map[string]*View),
	}

	s.manager.SetOnMessage(s.handleFrame)
	s.manager.SetAuthFunc(s.authenticate)

	return s
}

// Connect устанавливает соединение
func (s *Stream) Connect() error {
	return s.manager.Connect()
}

// Disconnect разрывает соединение, не закрывая поток:
// после нового login поток можно поднять повторным Connect
func (s *Stream) Disconnect() {
	s.manager.Disconnect()
}

// Close закрывает поток
func (s *Stream) Close() error {
	return s.manager.Close()
}

// IsConnected сообщает текущее состояние соединения
func (s *Stream) IsConnected() bool {
	return s.manager.IsConnected()
}

// State возвращает состояние соединения
func (s *Stream) State() ConnectionState {
	return s.manager.GetState()
}

// OnStateChange подписывает на смену состояния соединения
func (s *Stream) OnStateChange(fn func(ConnectionState)) {
	s.manager.SetOnStateChange(fn)
}

// authenticate отправляет handshake-кадр с токеном на свежем соединении
func (s *Stream) authenticate(conn *websocket.Conn) error {
	token := ""
	if s.tokens != nil {
		token = s.tokens.AccessToken()
	}
	if token == "" {
		return fmt.Errorf("no access token for stream handshake")
	}

	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteJSON(map[string]string{
		"type":  "auth",
		"token": token,
	})
}

// Messages возвращает буфер событий, новые первыми
func (s *Stream) Messages() []Event {
	return s.buffer.Snapshot()
}

// Filter возвращает события буфера, удовлетворяющие предикату
func (s *Stream) Filter(pred func(Event) bool) []Event {
	return s.buffer.Filter(pred)
}

// Send сериализует payload и отправляет его, если соединение открыто.
// При закрытом соединении - no-op с предупреждением в логе:
// буфер событий не изменяется, ошибка не возвращается.
func (s *Stream) Send(payload interface{}) {
	if err := s.manager.Send(payload); err != nil {
		metrics.StreamSendDroppedTotal.Inc()
		s.logger.Warn("dropped outbound stream message", zap.Error(err))
	}
}

// handleFrame обрабатывает один входящий кадр
func (s *Stream) handleFrame(frame []byte) {
	evt, err := ParseEvent(frame, time.Now())
	if err != nil {
		metrics.StreamParseFailuresTotal.Inc()
		s.logger.Warn("dropped unparseable stream frame", zap.Error(err))
		return
	}

	metrics.RecordStreamEvent(evt.Type)

	if s.buffer.Add(evt) {
		metrics.StreamBufferEvictionsTotal.Inc()
	}

	s.feedViews(evt)
	s.dispatchNotification(evt)
}

// dispatchNotification показывает ровно одно уведомление на кадр
// для специальных типов событий
func (s *Stream) dispatchNotification(evt Event) {
	if s.notifier == nil {
		return
	}

	switch evt.Type {
	case EventTradeExecuted:
		msg := evt.Message
		if msg == "" {
			msg = "trade executed successfully"
		}
		s.notifier.Success("Trade Executed", msg)

	case EventError:
		title := "Error"
		if evt.BotID != "" {
			title = fmt.Sprintf("Bot %s Error", ShortBotID(evt.BotID))
		}
		s.notifier.Error(title, evt.Message)

	case EventSubscriptionUpdate:
		msg := evt.Message
		if msg == "" {
			msg = "subscription plan updated"
		}
		s.notifier.Info("Subscription Updated", msg)
	}
}

// ============================================================
// Filter views
// ============================================================

// View - ограниченное представление буфера по предикату.
// Собственная ёмкость у каждого view: неограниченных
// накопителей поверх основного буфера нет.
type View struct {
	name   string
	pred   func(Event) bool
	buffer *EventBuffer
}

// Name возвращает имя view
func (v *View) Name() string {
	return v.name
}

// Events возвращает накопленные события view, новые первыми
func (v *View) Events() []Event {
	return v.buffer.Snapshot()
}

// Len возвращает количество событий во view
func (v *View) Len() int {
	return v.buffer.Len()
}

// RegisterView регистрирует ограниченное представление буфера.
// Повторная регистрация с тем же именем возвращает существующий view.
func (s *Stream) RegisterView(name string, capacity int, pred func(Event) bool) *View {
	s.viewsMu.Lock()
	defer s.viewsMu.Unlock()

	if existing, ok := s.views[name]; ok {
		return existing
	}

	if capacity <= 0 {
		capacity = DefaultBufferSize
	}

	view := &View{
		name:   name,
		pred:   pred,
		buffer: NewEventBuffer(capacity),
	}

	// наполняем view уже накопленными подходящими событиями,
	// от старых к новым, чтобы сохранить порядок буфера
	existing := s.buffer.Filter(pred)
	for i := len(existing) - 1; i >= 0; i-- {
		view.buffer.Add(existing[i])
	}

	s.views[name] = view
	return view
}

// UnregisterView удаляет view
func (s *Stream) UnregisterView(name string) {
	s.viewsMu.Lock()
	defer s.viewsMu.Unlock()
	delete(s.views, name)
}

func (s *Stream) feedViews(evt Event) {
	s.viewsMu.RLock()
	defer s.viewsMu.RUnlock()

	for _, view := range s.views {
		if view.pred(evt) {
			view.buffer.Add(evt)
		}
	}
}
