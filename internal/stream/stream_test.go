package stream

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// ============================================================
// Stream Tests
// ============================================================

// recordingNotifier считает уведомления по типам
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
	infos     []string
}

func (n *recordingNotifier) Success(title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, title+": "+message)
}

func (n *recordingNotifier) Error(title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, title+": "+message)
}

func (n *recordingNotifier) Info(title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.infos = append(n.infos, title+": "+message)
}

func (n *recordingNotifier) counts() (int, int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.successes), len(n.errors), len(n.infos)
}

// staticTokens - фиксированный токен для handshake
type staticTokens struct{ token string }

func (s staticTokens) AccessToken() string { return s.token }

func newTestStream(notifier Notifier) *Stream {
	return NewStream(Config{
		URL:       "ws://unused",
		Reconnect: DefaultReconnectConfig(),
	}, staticTokens{token: "test-token"}, notifier, nil)
}

// Ровно одно уведомление на каждый кадр trade_executed,
// независимо от вытеснения из буфера
func TestOneToastPerTradeExecutedFrame(t *testing.T) {
	notifier := &recordingNotifier{}
	s := NewStream(Config{
		URL:        "ws://unused",
		Reconnect:  DefaultReconnectConfig(),
		BufferSize: 10, // маленький буфер: кадры вытесняются, уведомления нет
	}, nil, notifier, nil)

	for i := 0; i < 25; i++ {
		s.handleFrame([]byte(fmt.Sprintf(`{"type":"trade_executed","message":"trade %d"}`, i)))
	}

	successes, _, _ := notifier.counts()
	if successes != 25 {
		t.Errorf("expected 25 notifications (one per frame), got %d", successes)
	}
	if s.buffer.Len() != 10 {
		t.Errorf("buffer must stay bounded at 10, got %d", s.buffer.Len())
	}
}

func TestErrorToastCarriesTruncatedBotID(t *testing.T) {
	notifier := &recordingNotifier{}
	s := newTestStream(notifier)

	s.handleFrame([]byte(`{"type":"error","bot_id":"abcdef1234567890","message":"order rejected"}`))

	_, errorsCount, _ := notifier.counts()
	if errorsCount != 1 {
		t.Fatalf("expected 1 error notification, got %d", errorsCount)
	}
	if !strings.Contains(notifier.errors[0], "abcdef12") {
		t.Errorf("bot id must be truncated to 8 chars, got %q", notifier.errors[0])
	}
	if strings.Contains(notifier.errors[0], "abcdef123") {
		t.Errorf("full bot id must not appear, got %q", notifier.errors[0])
	}
}

func TestSubscriptionUpdateToast(t *testing.T) {
	notifier := &recordingNotifier{}
	s := newTestStream(notifier)

	s.handleFrame([]byte(`{"type":"subscription_update","message":"upgraded to pro"}`))
	s.handleFrame([]byte(`{"type":"market_update","symbol":"BTCUSDT"}`))

	successes, errorsCount, infos := notifier.counts()
	if infos != 1 {
		t.Errorf("expected 1 info notification, got %d", infos)
	}
	// market_update хранится, но не уведомляет
	if successes != 0 || errorsCount != 0 {
		t.Errorf("market_update must not notify, got %d/%d", successes, errorsCount)
	}
	if len(s.Messages()) != 2 {
		t.Errorf("both frames must be buffered, got %d", len(s.Messages()))
	}
}

// Отправка при закрытом соединении: без паники, без ошибки,
// буфер не изменяется
func TestSendWhenClosedIsSafeNoop(t *testing.T) {
	s := newTestStream(nil)
	s.handleFrame([]byte(`{"type":"market_update"}`))
	before := len(s.Messages())

	s.Send(map[string]string{"type": "subscribe", "channel": "bots"})

	if got := len(s.Messages()); got != before {
		t.Errorf("send on closed socket must not mutate buffer: %d -> %d", before, got)
	}
}

func TestUnparseableFrameIsDropped(t *testing.T) {
	notifier := &recordingNotifier{}
	s := newTestStream(notifier)

	s.handleFrame([]byte(`{not valid json`))

	if len(s.Messages()) != 0 {
		t.Error("unparseable frame must not enter the buffer")
	}
	successes, errorsCount, infos := notifier.counts()
	if successes+errorsCount+infos != 0 {
		t.Error("unparseable frame must not notify")
	}
}

func TestFilterViewIsBounded(t *testing.T) {
	s := newTestStream(nil)

	view := s.RegisterView("bot-1-logs", 5, func(e Event) bool {
		return e.Type == EventBotLog && e.BotID == "bot-1"
	})

	for i := 0; i < 20; i++ {
		s.handleFrame([]byte(fmt.Sprintf(`{"type":"bot_log","bot_id":"bot-1","message":"line %d"}`, i)))
		s.handleFrame([]byte(`{"type":"bot_log","bot_id":"bot-2","message":"other"}`))
	}

	if view.Len() != 5 {
		t.Errorf("view must stay bounded at 5, got %d", view.Len())
	}

	events := view.Events()
	if events[0].Message != "line 19" {
		t.Errorf("newest matching event must be first, got %s", events[0].Message)
	}
	for _, e := range events {
		if e.BotID != "bot-1" {
			t.Errorf("view leaked foreign event: %+v", e)
		}
	}
}

func TestRegisterViewBackfillsFromBuffer(t *testing.T) {
	s := newTestStream(nil)
	s.handleFrame([]byte(`{"type":"bot_status","bot_id":"bot-1","message":"running"}`))
	s.handleFrame([]byte(`{"type":"bot_status","bot_id":"bot-2","message":"stopped"}`))

	view := s.RegisterView("bot-1-status", 10, func(e Event) bool {
		return e.BotID == "bot-1"
	})

	if view.Len() != 1 {
		t.Fatalf("view must backfill matching history, got %d", view.Len())
	}
	if view.Events()[0].Message != "running" {
		t.Errorf("unexpected backfilled event: %+v", view.Events()[0])
	}
}

// ============================================================
// Интеграция с фейковым WebSocket сервером
// ============================================================

var upgrader = websocket.Upgrader{}

// fakeStreamServer принимает handshake-кадр auth и шлёт кадры из frames
func fakeStreamServer(t *testing.T, frames []string, gotToken chan<- string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		// первый кадр - handshake аутентификация
		var auth struct {
			Type  string `json:"type"`
			Token string `json:"token"`
		}
		if err := conn.ReadJSON(&auth); err != nil {
			t.Errorf("read auth frame: %v", err)
			return
		}
		if gotToken != nil {
			gotToken <- auth.Token
		}

		for _, frame := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}

		// держим соединение, пока клиент не закроет
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestConnectSendsAuthHandshake(t *testing.T) {
	gotToken := make(chan string, 1)
	server := fakeStreamServer(t, []string{
		`{"type":"market_update","symbol":"BTCUSDT","price":50000}`,
	}, gotToken)
	defer server.Close()

	s := NewStream(Config{
		URL:       wsURL(server),
		Reconnect: DefaultReconnectConfig(),
	}, staticTokens{token: "handshake-token"}, nil, nil)
	defer s.Close()

	if err := s.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}

	select {
	case token := <-gotToken:
		if token != "handshake-token" {
			t.Errorf("expected handshake token, got %q", token)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server never received auth handshake")
	}

	// ждём доставку кадра
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(s.Messages()) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	messages := s.Messages()
	if len(messages) != 1 || messages[0].Type != EventMarketUpdate {
		t.Fatalf("expected one market_update, got %+v", messages)
	}
	if !s.IsConnected() {
		t.Error("stream must report connected")
	}
}

func TestDisconnectSuppressesReconnect(t *testing.T) {
	var mu sync.Mutex
	connections := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		mu.Lock()
		connections++
		mu.Unlock()

		var auth map[string]string
		if err := conn.ReadJSON(&auth); err != nil {
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	cfg := DefaultReconnectConfig()
	cfg.InitialDelay = 20 * time.Millisecond
	cfg.MaxDelay = 50 * time.Millisecond

	s := NewStream(Config{URL: wsURL(server), Reconnect: cfg},
		staticTokens{token: "tok"}, nil, nil)
	defer s.Close()

	if err := s.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}

	s.Disconnect()

	// намеренный разрыв: переподключение не должно запуститься
	time.Sleep(200 * time.Millisecond)
	mu.Lock()
	n := connections
	mu.Unlock()
	if n != 1 {
		t.Fatalf("intentional disconnect must not reconnect, got %d connections", n)
	}
	if s.IsConnected() {
		t.Fatal("stream must report disconnected")
	}

	// поток остаётся пригодным для следующей сессии
	if err := s.Connect(); err != nil {
		t.Fatalf("reconnect after disconnect: %v", err)
	}
	if !s.IsConnected() {
		t.Error("stream must reconnect on demand")
	}
}

func TestReconnectAfterServerDrop(t *testing.T) {
	var mu sync.Mutex
	connections := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		mu.Lock()
		connections++
		n := connections
		mu.Unlock()

		var auth map[string]string
		if err := conn.ReadJSON(&auth); err != nil {
			conn.Close()
			return
		}

		if n == 1 {
			// первое соединение рвём сразу после handshake
			conn.Close()
			return
		}

		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	cfg := DefaultReconnectConfig()
	cfg.InitialDelay = 20 * time.Millisecond
	cfg.MaxDelay = 50 * time.Millisecond

	s := NewStream(Config{URL: wsURL(server), Reconnect: cfg},
		staticTokens{token: "tok"}, nil, nil)
	defer s.Close()

	if err := s.Connect(); err != nil {
		t.Fatalf("connect: %v", err)
	}

	// после разрыва менеджер должен переподключиться сам
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := connections
		mu.Unlock()
		if n >= 2 && s.IsConnected() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}

	t.Fatal("stream did not reconnect after server drop")
}
