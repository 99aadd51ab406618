package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/models"
)

// ChatBackend - endpoint ассистента
type ChatBackend interface {
	Chat(ctx context.Context, req models.ChatRequest) (*models.ChatResponse, error)
}

// TranscriptStore - кэш переписки в локальном хранилище
type TranscriptStore interface {
	AppendChatMessage(ctx context.Context, msg models.ChatMessage) error
	LoadChatTranscript(ctx context.Context, limit int) ([]models.ChatMessage, error)
	ClearChatTranscript(ctx context.Context) error
}

// ChatService - диалог с ассистентом.
//
// Транскрипт кэшируется локально и переживает перезапуски;
// история отправляется с каждым запросом, контекст держит backend.
type ChatService struct {
	backend ChatBackend
	store   TranscriptStore
	logger  *zap.Logger

	// historyLimit - сколько последних реплик уходит в запрос
	historyLimit int
}

// NewChatService создаёт сервис ассистента
func NewChatService(backend ChatBackend, store TranscriptStore, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		backend:      backend,
		store:        store,
		logger:       logger,
		historyLimit: 20,
	}
}

// Send отправляет сообщение ассистенту и кэширует обе реплики
func (s *ChatService) Send(ctx context.Context, message string) (*models.ChatResponse, error) {
	history, err := s.store.LoadChatTranscript(ctx, s.historyLimit)
	if err != nil {
		// без истории разговор продолжается, кэш не критичен
		s.logger.Warn("failed to load chat transcript", zap.Error(err))
		history = nil
	}

	resp, err := s.backend.Chat(ctx, models.ChatRequest{
		Message: message,
		History: history,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	userMsg := models.ChatMessage{Role: models.ChatRoleUser, Content: message, Timestamp: now}
	assistantMsg := models.ChatMessage{Role: models.ChatRoleAssistant, Content: resp.Reply, Timestamp: now}

	if err := s.store.AppendChatMessage(ctx, userMsg); err != nil {
		s.logger.Warn("failed to cache chat message", zap.Error(err))
	}
	if err := s.store.AppendChatMessage(ctx, assistantMsg); err != nil {
		s.logger.Warn("failed to cache chat message", zap.Error(err))
	}

	return resp, nil
}

// Transcript возвращает кэшированную переписку
func (s *ChatService) Transcript(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	return s.store.LoadChatTranscript(ctx, limit)
}

// Clear очищает кэш переписки
func (s *ChatService) Clear(ctx context.Context) error {
	return s.store.ClearChatTranscript(ctx)
}
