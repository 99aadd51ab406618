package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/models"
	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/stream"
	"github.com/kayung-developer/QuantumLeap-AI-sub000/pkg/utils"
)

// BotBackend - подмножество API клиента для ботов
type BotBackend interface {
	ListBots(ctx context.Context) ([]models.Bot, error)
	GetBot(ctx context.Context, botID string) (*models.Bot, error)
	CreateBot(ctx context.Context, req models.CreateBotRequest) (*models.Bot, error)
	DeleteBot(ctx context.Context, botID string) error
	StartBot(ctx context.Context, botID string) error
	StopBot(ctx context.Context, botID string) error
	GetBotLogs(ctx context.Context, botID string, limit int) ([]models.BotLogEntry, error)
	PublishBot(ctx context.Context, botID string, req models.PublishBotRequest) error
	CloneBot(ctx context.Context, botID string) (*models.Bot, error)
}

// EventSource - подмножество live-потока для bot-scoped событий
type EventSource interface {
	RegisterView(name string, capacity int, pred func(stream.Event) bool) *stream.View
	UnregisterView(name string)
}

// BotService - жизненный цикл ботов.
//
// HTTP команды (start/stop) и live-события (bot_log, bot_status)
// приходят по разным транспортам без гарантии порядка: сервис
// не согласовывает их, а лишь даёт доступ к обоим источникам.
type BotService struct {
	backend BotBackend
	events  EventSource
	logger  *zap.Logger
}

// NewBotService создаёт сервис ботов
func NewBotService(backend BotBackend, events EventSource, logger *zap.Logger) *BotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BotService{
		backend: backend,
		events:  events,
		logger:  logger,
	}
}

// List возвращает всех ботов пользователя
func (s *BotService) List(ctx context.Context) ([]models.Bot, error) {
	return s.backend.ListBots(ctx)
}

// Get возвращает бота по ID
func (s *BotService) Get(ctx context.Context, botID string) (*models.Bot, error) {
	return s.backend.GetBot(ctx, botID)
}

// Create создаёт бота
func (s *BotService) Create(ctx context.Context, req models.CreateBotRequest) (*models.Bot, error) {
	if err := utils.ValidateBotName(req.Name); err != nil {
		return nil, err
	}

	bot, err := s.backend.CreateBot(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("bot created", zap.String("bot_id", bot.ID), zap.String("name", bot.Name))
	return bot, nil
}

// Delete удаляет бота и его live-view
func (s *BotService) Delete(ctx context.Context, botID string) error {
	if err := s.backend.DeleteBot(ctx, botID); err != nil {
		return err
	}
	if s.events != nil {
		s.events.UnregisterView(botViewName(botID))
	}
	return nil
}

// Start запускает бота
func (s *BotService) Start(ctx context.Context, botID string) error {
	if err := s.backend.StartBot(ctx, botID); err != nil {
		return fmt.Errorf("start bot %s: %w", botID, err)
	}
	s.logger.Info("bot started", zap.String("bot_id", botID))
	return nil
}

// Stop останавливает бота
func (s *BotService) Stop(ctx context.Context, botID string) error {
	if err := s.backend.StopBot(ctx, botID); err != nil {
		return fmt.Errorf("stop bot %s: %w", botID, err)
	}
	s.logger.Info("bot stopped", zap.String("bot_id", botID))
	return nil
}

// Logs возвращает историю логов бота с backend
func (s *BotService) Logs(ctx context.Context, botID string, limit int) ([]models.BotLogEntry, error) {
	return s.backend.GetBotLogs(ctx, botID, limit)
}

// Publish публикует бота в marketplace
func (s *BotService) Publish(ctx context.Context, botID string, req models.PublishBotRequest) error {
	return s.backend.PublishBot(ctx, botID, req)
}

// Clone клонирует опубликованного бота
func (s *BotService) Clone(ctx context.Context, botID string) (*models.Bot, error) {
	return s.backend.CloneBot(ctx, botID)
}

// LiveEvents возвращает ограниченный view live-событий бота:
// bot_log и bot_status кадры, отфильтрованные по bot_id
func (s *BotService) LiveEvents(botID string, capacity int) *stream.View {
	if s.events == nil {
		return nil
	}
	return s.events.RegisterView(botViewName(botID), capacity, func(e stream.Event) bool {
		if e.BotID != botID {
			return false
		}
		return e.Type == stream.EventBotLog || e.Type == stream.EventBotStatus
	})
}

func botViewName(botID string) string {
	return "bot:" + botID
}
