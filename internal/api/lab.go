package api

import (
	"context"
	"fmt"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/models"
)

// lab.go - эндпоинты strategy lab: бэктест, оптимизация, сравнение.
// Все операции асинхронные: backend возвращает task_id,
// статус опрашивается через GetTaskStatus.

// SubmitBacktest запускает бэктест стратегии
func (c *Client) SubmitBacktest(ctx context.Context, req models.BacktestRequest) (*models.BacktestTask, error) {
	var task models.BacktestTask
	if err := c.post(ctx, "/api/lab/backtest", req, &task, requestOptions{}); err != nil {
		return nil, err
	}
	return &task, nil
}

// SubmitOptimize запускает оптимизацию параметров стратегии
func (c *Client) SubmitOptimize(ctx context.Context, req models.OptimizeRequest) (*models.BacktestTask, error) {
	var task models.BacktestTask
	if err := c.post(ctx, "/api/lab/optimize", req, &task, requestOptions{}); err != nil {
		return nil, err
	}
	return &task, nil
}

// SubmitCompare запускает сравнение стратегий
func (c *Client) SubmitCompare(ctx context.Context, req models.CompareRequest) (*models.BacktestTask, error) {
	var task models.BacktestTask
	if err := c.post(ctx, "/api/lab/compare", req, &task, requestOptions{}); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTaskStatus возвращает текущий статус асинхронной задачи lab
func (c *Client) GetTaskStatus(ctx context.Context, taskID string) (*models.BacktestTask, error) {
	var task models.BacktestTask
	if err := c.get(ctx, fmt.Sprintf("/api/lab/tasks/%s", taskID), &task, requestOptions{}); err != nil {
		return nil, err
	}
	return &task, nil
}

// InterpretStrategy распознаёт стратегию из описания на естественном языке
func (c *Client) InterpretStrategy(ctx context.Context, prompt string) (*models.InterpretResult, error) {
	var result models.InterpretResult
	if err := c.post(ctx, "/api/lab/interpret", models.InterpretRequest{Prompt: prompt}, &result, requestOptions{}); err != nil {
		return nil, err
	}
	return &result, nil
}
