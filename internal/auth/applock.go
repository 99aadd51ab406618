package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/pkg/crypto"
	"github.com/kayung-developer/QuantumLeap-AI-sub000/pkg/utils"
)

// PasscodeStore - подмножество локального хранилища для app-lock
type PasscodeStore interface {
	SetPasscodeHash(ctx context.Context, hash string) error
	GetPasscodeHash(ctx context.Context) (string, error)
}

// AppLock - опциональная локальная блокировка приложения.
//
// Passcode защищает доступ к локально сохранённой сессии:
// в хранилище лежит только bcrypt-хеш, сам passcode нигде
// не сохраняется. Backend об этой блокировке не знает.
type AppLock struct {
	store  PasscodeStore
	logger *zap.Logger
}

// NewAppLock создаёт app-lock поверх хранилища
func NewAppLock(store PasscodeStore, logger *zap.Logger) *AppLock {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppLock{store: store, logger: logger}
}

// Enabled сообщает, установлен ли passcode
func (l *AppLock) Enabled(ctx context.Context) bool {
	hash, err := l.store.GetPasscodeHash(ctx)
	if err != nil {
		l.logger.Warn("failed to read passcode hash", zap.Error(err))
		return false
	}
	return hash != ""
}

// Enable устанавливает passcode, замещая предыдущий
func (l *AppLock) Enable(ctx context.Context, passcode string) error {
	if err := utils.ValidatePasscode(passcode); err != nil {
		return err
	}

	hash, err := crypto.HashPasscode(passcode)
	if err != nil {
		return err
	}

	if err := l.store.SetPasscodeHash(ctx, hash); err != nil {
		return err
	}

	l.logger.Info("app lock enabled")
	return nil
}

// Verify проверяет passcode против сохранённого хеша.
// При отключённой блокировке любой passcode проходит.
func (l *AppLock) Verify(ctx context.Context, passcode string) error {
	hash, err := l.store.GetPasscodeHash(ctx)
	if err != nil {
		return err
	}
	if hash == "" {
		return nil
	}
	return crypto.CheckPasscode(passcode, hash)
}

// Disable снимает блокировку после проверки текущего passcode
func (l *AppLock) Disable(ctx context.Context, passcode string) error {
	hash, err := l.store.GetPasscodeHash(ctx)
	if err != nil {
		return err
	}
	if hash == "" {
		return nil
	}
	if err := crypto.CheckPasscode(passcode, hash); err != nil {
		return err
	}

	if err := l.store.SetPasscodeHash(ctx, ""); err != nil {
		return err
	}

	l.logger.Info("app lock disabled")
	return nil
}
