package service

import (
	"context"
	"errors"
	"testing"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/models"
)

// ============================================================
// ChatService Tests
// ============================================================

type fakeChatBackend struct {
	reply      string
	err        error
	gotHistory []models.ChatMessage
}

func (b *fakeChatBackend) Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error) {
	b.gotHistory = req.History
	if b.err != nil {
		return nil, b.err
	}
	return &models.ChatResponse{Reply: b.reply}, nil
}

type memTranscript struct {
	messages []models.ChatMessage
	loadErr  error
}

func (s *memTranscript) AppendChatMessage(ctx context.Context, msg models.ChatMessage) error {
	s.messages = append(s.messages, msg)
	return nil
}

func (s *memTranscript) LoadChatTranscript(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.messages, nil
}

func (s *memTranscript) ClearChatTranscript(ctx context.Context) error {
	s.messages = nil
	return nil
}

func TestChatSendCachesBothMessages(t *testing.T) {
	backend := &fakeChatBackend{reply: "start with a paper-trading bot"}
	store := &memTranscript{}
	s := NewChatService(backend, store, nil)

	resp, err := s.Send(context.Background(), "how do I begin?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Reply != "start with a paper-trading bot" {
		t.Errorf("unexpected reply: %q", resp.Reply)
	}

	if len(store.messages) != 2 {
		t.Fatalf("expected user and assistant messages cached, got %d", len(store.messages))
	}
	if store.messages[0].Role != models.ChatRoleUser || store.messages[1].Role != models.ChatRoleAssistant {
		t.Errorf("unexpected roles: %+v", store.messages)
	}
}

func TestChatSendForwardsHistory(t *testing.T) {
	backend := &fakeChatBackend{reply: "ok"}
	store := &memTranscript{messages: []models.ChatMessage{
		{Role: models.ChatRoleUser, Content: "earlier question"},
		{Role: models.ChatRoleAssistant, Content: "earlier answer"},
	}}
	s := NewChatService(backend, store, nil)

	if _, err := s.Send(context.Background(), "follow-up"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(backend.gotHistory) != 2 {
		t.Errorf("history must be forwarded, got %d entries", len(backend.gotHistory))
	}
}

func TestChatSendSurvivesBrokenCache(t *testing.T) {
	backend := &fakeChatBackend{reply: "ok"}
	store := &memTranscript{loadErr: errors.New("disk I/O error")}
	s := NewChatService(backend, store, nil)

	if _, err := s.Send(context.Background(), "hello"); err != nil {
		t.Fatalf("broken cache must not fail the conversation: %v", err)
	}
	if backend.gotHistory != nil {
		t.Error("history must be empty when cache is unreadable")
	}
}

func TestChatBackendErrorNotCached(t *testing.T) {
	backend := &fakeChatBackend{err: errors.New("assistant unavailable")}
	store := &memTranscript{}
	s := NewChatService(backend, store, nil)

	if _, err := s.Send(context.Background(), "hello"); err == nil {
		t.Fatal("expected backend error")
	}
	if len(store.messages) != 0 {
		t.Error("failed exchange must not be cached")
	}
}

func TestChatClear(t *testing.T) {
	store := &memTranscript{messages: []models.ChatMessage{{Role: models.ChatRoleUser, Content: "x"}}}
	s := NewChatService(&fakeChatBackend{reply: "ok"}, store, nil)

	if err := s.Clear(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	transcript, _ := s.Transcript(context.Background(), 10)
	if len(transcript) != 0 {
		t.Error("transcript must be empty after clear")
	}
}
