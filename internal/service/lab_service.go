package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/models"
	"github.com/kayung-developer/QuantumLeap-AI-sub000/pkg/retry"
)

// LabBackend - подмножество API клиента для strategy lab
type LabBackend interface {
	SubmitBacktest(ctx context.Context, req models.BacktestRequest) (*models.BacktestTask, error)
	SubmitOptimize(ctx context.Context, req models.OptimizeRequest) (*models.BacktestTask, error)
	SubmitCompare(ctx context.Context, req models.CompareRequest) (*models.BacktestTask, error)
	GetTaskStatus(ctx context.Context, taskID string) (*models.BacktestTask, error)
	InterpretStrategy(ctx context.Context, prompt string) (*models.InterpretResult, error)
}

// LabService - асинхронные задачи strategy lab.
//
// Backend считает бэктест минутами: сервис отправляет задачу
// и опрашивает её статус с backoff до терминального состояния
// или отмены контекста.
type LabService struct {
	backend LabBackend
	logger  *zap.Logger

	// pollConfig подменяется в тестах на быстрый вариант
	pollConfig retry.Config
}

// NewLabService создаёт сервис strategy lab
func NewLabService(backend LabBackend, logger *zap.Logger) *LabService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LabService{
		backend:    backend,
		logger:     logger,
		pollConfig: retry.PollingConfig(),
	}
}

// RunBacktest запускает бэктест и ждёт результата
func (s *LabService) RunBacktest(ctx context.Context, req models.BacktestRequest) (*models.BacktestTask, error) {
	task, err := s.backend.SubmitBacktest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit backtest: %w", err)
	}
	return s.awaitTask(ctx, task)
}

// RunOptimize запускает оптимизацию и ждёт результата
func (s *LabService) RunOptimize(ctx context.Context, req models.OptimizeRequest) (*models.BacktestTask, error) {
	task, err := s.backend.SubmitOptimize(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit optimize: %w", err)
	}
	return s.awaitTask(ctx, task)
}

// RunCompare запускает сравнение стратегий и ждёт результата
func (s *LabService) RunCompare(ctx context.Context, req models.CompareRequest) (*models.BacktestTask, error) {
	task, err := s.backend.SubmitCompare(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit compare: %w", err)
	}
	return s.awaitTask(ctx, task)
}

// Interpret распознаёт стратегию из текста на естественном языке
func (s *LabService) Interpret(ctx context.Context, prompt string) (*models.InterpretResult, error) {
	return s.backend.InterpretStrategy(ctx, prompt)
}

// errTaskNotReady - внутренний сигнал продолжения опроса
type errTaskNotReady struct {
	status string
}

func (e *errTaskNotReady) Error() string {
	return fmt.Sprintf("task not ready: %s", e.status)
}

// awaitTask опрашивает статус задачи до терминального состояния
func (s *LabService) awaitTask(ctx context.Context, task *models.BacktestTask) (*models.BacktestTask, error) {
	if task.IsTerminal() {
		return task, nil
	}

	s.logger.Info("polling lab task", zap.String("task_id", task.TaskID))

	cfg := s.pollConfig
	cfg.RetryIf = func(err error) bool {
		var notReady *errTaskNotReady
		if errors.As(err, &notReady) {
			return true
		}
		// сетевые сбои опроса тоже переживаем, отмену контекста нет
		return retry.RetryIfNotContext(err)
	}

	result, err := retry.DoWithResult(ctx, func() (*models.BacktestTask, error) {
		current, err := s.backend.GetTaskStatus(ctx, task.TaskID)
		if err != nil {
			return nil, err
		}
		if !current.IsTerminal() {
			return nil, &errTaskNotReady{status: current.Status}
		}
		return current, nil
	}, cfg)
	if err != nil {
		return nil, fmt.Errorf("await task %s: %w", task.TaskID, err)
	}

	if result.Status == models.TaskStatusFailed {
		s.logger.Warn("lab task failed",
			zap.String("task_id", result.TaskID),
			zap.String("error", result.Error))
	}

	return result, nil
}
