// Package store реализует локальное хранилище состояния клиента.
// Аналог browser local storage: токены сессии (зашифрованные),
// тема оформления, кэш переписки с ассистентом.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kayung-developer/QuantumLeap-AI-sub000/internal/models"
)

// Ключи таблицы settings
const (
	keyAccessToken  = "access_token"  // зашифрованный
	keyRefreshToken = "refresh_token" // зашифрованный
	keyTheme        = "theme"
	keyPasscodeHash = "passcode_hash"
)

// Store - локальное key-value и транскрипт-хранилище поверх sqlite
//
// Назначение:
// Единственное место durable-состояния клиента. Шифрование токенов
// выполняет вызывающая сторона (менеджер сессии), store хранит
// только непрозрачные строки.
type Store struct {
	db *sql.DB
}

// Open открывает хранилище по пути, создавая директорию и схему
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	// WAL для устойчивости к конкурентным чтениям
	dsn := path + "?_journal=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping storage: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return s, nil
}

// NewWithDB создаёт Store поверх готового соединения.
// Используется в тестах с sqlmock.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS chat_messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		role TEXT NOT NULL,
		content TEXT NOT NULL,
		timestamp INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_chat_timestamp ON chat_messages(timestamp);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close закрывает хранилище
func (s *Store) Close() error {
	return s.db.Close()
}

// ============================================================
// Settings (key-value)
// ============================================================

func (s *Store) setValue(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().Unix()); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *Store) getValue(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) deleteValue(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// ============================================================
// Токены сессии
// ============================================================

// SaveTokens сохраняет зашифрованную пару токенов
func (s *Store) SaveTokens(ctx context.Context, encryptedAccess, encryptedRefresh string) error {
	if err := s.setValue(ctx, keyAccessToken, encryptedAccess); err != nil {
		return err
	}
	return s.setValue(ctx, keyRefreshToken, encryptedRefresh)
}

// LoadTokens возвращает зашифрованную пару токенов.
// Пустые строки означают отсутствие сохранённой сессии.
func (s *Store) LoadTokens(ctx context.Context) (encryptedAccess, encryptedRefresh string, err error) {
	encryptedAccess, err = s.getValue(ctx, keyAccessToken)
	if err != nil {
		return "", "", err
	}
	encryptedRefresh, err = s.getValue(ctx, keyRefreshToken)
	if err != nil {
		return "", "", err
	}
	return encryptedAccess, encryptedRefresh, nil
}

// ClearTokens удаляет сохранённые токены
func (s *Store) ClearTokens(ctx context.Context) error {
	if err := s.deleteValue(ctx, keyAccessToken); err != nil {
		return err
	}
	return s.deleteValue(ctx, keyRefreshToken)
}

// ============================================================
// Тема оформления
// ============================================================

// SetTheme сохраняет тему оформления (dark, light)
func (s *Store) SetTheme(ctx context.Context, theme string) error {
	return s.setValue(ctx, keyTheme, theme)
}

// GetTheme возвращает сохранённую тему, "" если не задана
func (s *Store) GetTheme(ctx context.Context) (string, error) {
	return s.getValue(ctx, keyTheme)
}

// ============================================================
// Локальный passcode
// ============================================================

// SetPasscodeHash сохраняет bcrypt хэш локального passcode
func (s *Store) SetPasscodeHash(ctx context.Context, hash string) error {
	return s.setValue(ctx, keyPasscodeHash, hash)
}

// GetPasscodeHash возвращает хэш passcode, "" если passcode не установлен
func (s *Store) GetPasscodeHash(ctx context.Context) (string, error) {
	return s.getValue(ctx, keyPasscodeHash)
}

// ============================================================
// Транскрипт чата с ассистентом
// ============================================================

// AppendChatMessage добавляет реплику в кэш транскрипта
func (s *Store) AppendChatMessage(ctx context.Context, msg models.ChatMessage) error {
	query := `INSERT INTO chat_messages (role, content, timestamp) VALUES (?, ?, ?)`

	ts := msg.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	if _, err := s.db.ExecContext(ctx, query, msg.Role, msg.Content, ts.Unix()); err != nil {
		return fmt.Errorf("append chat message: %w", err)
	}
	return nil
}

// LoadChatTranscript возвращает последние limit реплик в хронологическом порядке
func (s *Store) LoadChatTranscript(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	// последние limit по времени, отдаём от старых к новым
	query := `
		SELECT role, content, timestamp FROM (
			SELECT id, role, content, timestamp FROM chat_messages ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("load chat transcript: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		var ts int64
		if err := rows.Scan(&msg.Role, &msg.Content, &ts); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		msg.Timestamp = time.Unix(ts, 0)
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

// ClearChatTranscript очищает кэш транскрипта
func (s *Store) ClearChatTranscript(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM chat_messages`); err != nil {
		return fmt.Errorf("clear chat transcript: %w", err)
	}
	return nil
}
