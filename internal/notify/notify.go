// Package notify выводит пользовательские уведомления в терминал.
// Реализует интерфейс stream.Notifier: уведомление - это строка
// в stderr плюс структурированная запись в логе.
package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
)

// TerminalNotifier печатает уведомления в поток вывода
type TerminalNotifier struct {
	out    io.Writer
	logger *zap.Logger
	mu     sync.Mutex
}

// NewTerminalNotifier создаёт notifier с выводом в stderr
func NewTerminalNotifier(logger *zap.Logger) *TerminalNotifier {
	return NewTerminalNotifierTo(os.Stderr, logger)
}

// NewTerminalNotifierTo создаёт notifier с заданным потоком вывода
func NewTerminalNotifierTo(out io.Writer, logger *zap.Logger) *TerminalNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TerminalNotifier{out: out, logger: logger}
}

// Success показывает уведомление об успешном событии
func (n *TerminalNotifier) Success(title, message string) {
	n.emit("OK", title, message)
	n.logger.Info("notification", zap.String("level", "success"), zap.String("title", title), zap.String("message", message))
}

// Error показывает уведомление об ошибке
func (n *TerminalNotifier) Error(title, message string) {
	n.emit("ERR", title, message)
	n.logger.Warn("notification", zap.String("level", "error"), zap.String("title", title), zap.String("message", message))
}

// Info показывает информационное уведомление
func (n *TerminalNotifier) Info(title, message string) {
	n.emit("INF", title, message)
	n.logger.Info("notification", zap.String("level", "info"), zap.String("title", title), zap.String("message", message))
}

func (n *TerminalNotifier) emit(tag, title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.out, "[%s] %s: %s\n", tag, title, message)
}
