package models

import "time"

// BacktestRequest - параметры запуска бэктеста в strategy lab
type BacktestRequest struct {
	StrategyJSON string    `json:"strategy_json"`
	Symbol       string    `json:"symbol"`
	Exchange     string    `json:"exchange"`
	Timeframe    string    `json:"timeframe"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	InitialCapital float64 `json:"initial_capital"`
}

// OptimizeRequest - параметры запуска оптимизации параметров стратегии
type OptimizeRequest struct {
	BacktestRequest
	Parameters map[string][2]float64 `json:"parameters"` // имя -> [min, max]
	Iterations int                   `json:"iterations,omitempty"`
}

// CompareRequest - параметры сравнения нескольких стратегий
type CompareRequest struct {
	Strategies []string  `json:"strategies"` // сериализованные графы
	Symbol     string    `json:"symbol"`
	Timeframe  string    `json:"timeframe"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
}

// BacktestTask представляет асинхронную задачу lab,
// статус которой опрашивается до терминального состояния
type BacktestTask struct {
	TaskID string                 `json:"task_id"`
	Status string                 `json:"status"` // pending, running, completed, failed
	Result map[string]interface{} `json:"result,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

// Статусы задач lab
const (
	TaskStatusPending   = "pending"
	TaskStatusRunning   = "running"
	TaskStatusCompleted = "completed"
	TaskStatusFailed    = "failed"
)

// IsTerminal сообщает, достигла ли задача конечного состояния
func (t *BacktestTask) IsTerminal() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusFailed
}

// InterpretRequest - запрос интерпретации стратегии на естественном языке
type InterpretRequest struct {
	Prompt string `json:"prompt"`
}

// InterpretResult представляет распознанную из текста стратегию
type InterpretResult struct {
	StrategyJSON string `json:"strategy_json"`
	Explanation  string `json:"explanation,omitempty"`
}
