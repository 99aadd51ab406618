package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/models"
	"github.com/kayung-developer/QuantumLeap-AI-sub000/pkg/retry"
)

// ============================================================
// LabService Tests
// ============================================================

// fakeLabBackend отдаёт статусы задач по заранее заданной очереди
type fakeLabBackend struct {
	submitted *models.BacktestTask
	submitErr error

	statuses  []*models.BacktestTask
	statusErr error
	polls     int32
}

func (b *fakeLabBackend) SubmitBacktest(ctx context.Context, req models.BacktestRequest) (*models.BacktestTask, error) {
	if b.submitErr != nil {
		return nil, b.submitErr
	}
	return b.submitted, nil
}

func (b *fakeLabBackend) SubmitOptimize(ctx context.Context, req models.OptimizeRequest) (*models.BacktestTask, error) {
	return b.submitted, b.submitErr
}

func (b *fakeLabBackend) SubmitCompare(ctx context.Context, req models.CompareRequest) (*models.BacktestTask, error) {
	return b.submitted, b.submitErr
}

func (b *fakeLabBackend) GetTaskStatus(ctx context.Context, taskID string) (*models.BacktestTask, error) {
	n := atomic.AddInt32(&b.polls, 1)
	if b.statusErr != nil {
		return nil, b.statusErr
	}
	idx := int(n) - 1
	if idx >= len(b.statuses) {
		idx = len(b.statuses) - 1
	}
	return b.statuses[idx], nil
}

func (b *fakeLabBackend) InterpretStrategy(ctx context.Context, prompt string) (*models.InterpretResult, error) {
	return &models.InterpretResult{StrategyJSON: "{}"}, nil
}

func fastLabService(backend *fakeLabBackend) *LabService {
	s := NewLabService(backend, nil)
	s.pollConfig = retry.Config{
		MaxRetries:   10,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   1.5,
		JitterFactor: 0,
	}
	return s
}

func TestRunBacktestPollsUntilCompleted(t *testing.T) {
	backend := &fakeLabBackend{
		submitted: &models.BacktestTask{TaskID: "t-1", Status: models.TaskStatusPending},
		statuses: []*models.BacktestTask{
			{TaskID: "t-1", Status: models.TaskStatusRunning},
			{TaskID: "t-1", Status: models.TaskStatusRunning},
			{TaskID: "t-1", Status: models.TaskStatusCompleted, Result: map[string]interface{}{"pnl": 12.5}},
		},
	}
	s := fastLabService(backend)

	task, err := s.RunBacktest(context.Background(), models.BacktestRequest{Symbol: "BTCUSDT"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if task.Status != models.TaskStatusCompleted {
		t.Errorf("expected completed task, got %s", task.Status)
	}
	if atomic.LoadInt32(&backend.polls) != 3 {
		t.Errorf("expected 3 polls, got %d", backend.polls)
	}
	if task.Result["pnl"] != 12.5 {
		t.Errorf("result not carried through: %+v", task.Result)
	}
}

func TestRunBacktestReturnsFailedTask(t *testing.T) {
	backend := &fakeLabBackend{
		submitted: &models.BacktestTask{TaskID: "t-1", Status: models.TaskStatusPending},
		statuses: []*models.BacktestTask{
			{TaskID: "t-1", Status: models.TaskStatusFailed, Error: "not enough history"},
		},
	}
	s := fastLabService(backend)

	task, err := s.RunBacktest(context.Background(), models.BacktestRequest{})
	if err != nil {
		t.Fatalf("failed task is a result, not an error: %v", err)
	}
	if task.Status != models.TaskStatusFailed || task.Error != "not enough history" {
		t.Errorf("unexpected task: %+v", task)
	}
}

func TestRunBacktestImmediateTerminalSkipsPolling(t *testing.T) {
	backend := &fakeLabBackend{
		submitted: &models.BacktestTask{TaskID: "t-1", Status: models.TaskStatusCompleted},
	}
	s := fastLabService(backend)

	if _, err := s.RunBacktest(context.Background(), models.BacktestRequest{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atomic.LoadInt32(&backend.polls) != 0 {
		t.Errorf("terminal submit response must not be polled, got %d polls", backend.polls)
	}
}

func TestRunBacktestHonorsContextCancel(t *testing.T) {
	backend := &fakeLabBackend{
		submitted: &models.BacktestTask{TaskID: "t-1", Status: models.TaskStatusPending},
		statuses: []*models.BacktestTask{
			{TaskID: "t-1", Status: models.TaskStatusRunning},
		},
	}
	s := NewLabService(backend, nil)
	s.pollConfig = retry.Config{
		MaxRetries:   0, // до отмены контекста
		InitialDelay: 5 * time.Millisecond,
		MaxDelay:     10 * time.Millisecond,
		Multiplier:   1.5,
		JitterFactor: 0,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := s.RunBacktest(ctx, models.BacktestRequest{})
	if err == nil {
		t.Fatal("expected error after context cancellation")
	}
}

func TestRunBacktestSubmitError(t *testing.T) {
	backend := &fakeLabBackend{submitErr: errors.New("quota exceeded")}
	s := fastLabService(backend)

	if _, err := s.RunBacktest(context.Background(), models.BacktestRequest{}); err == nil {
		t.Fatal("expected submit error")
	}
	if atomic.LoadInt32(&backend.polls) != 0 {
		t.Error("failed submit must not poll")
	}
}
