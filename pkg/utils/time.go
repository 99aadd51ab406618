package utils

import (
	"time"
)

// time.go - утилиты для работы со временем
//
// Назначение:
// Вспомогательные функции для временных операций клиента:
// - отсчёт до истечения swap-котировки (expires_at от backend)
// - границы периодов для фильтрации статистики портфеля (day/week/month)

// ============================================================
// Истечение котировок
// ============================================================

// TimeUntil возвращает время до deadline.
// Если deadline в прошлом, возвращает 0.
func TimeUntil(deadline time.Time) time.Duration {
	return TimeUntilFrom(deadline, time.Now())
}

// TimeUntilFrom возвращает время от now до deadline.
// Отрицательный остаток схлопывается в 0: истёкший дедлайн не
// должен давать отрицательный отсчёт в UI.
func TimeUntilFrom(deadline, now time.Time) time.Duration {
	remaining := deadline.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsExpired проверяет, истёк ли дедлайн
func IsExpired(deadline time.Time) bool {
	return IsExpiredAt(deadline, time.Now())
}

// IsExpiredAt проверяет, истёк ли дедлайн на момент now.
// Нулевой дедлайн считается истёкшим: backend всегда присылает
// expires_at, его отсутствие означает невалидную котировку.
func IsExpiredAt(deadline, now time.Time) bool {
	if deadline.IsZero() {
		return true
	}
	return !deadline.After(now)
}

// ============================================================
// Границы периодов (для фильтрации статистики)
// ============================================================

// GetDayStart возвращает начало текущего дня (00:00:00) в UTC
func GetDayStart() time.Time {
	return GetDayStartFrom(time.Now().UTC())
}

// GetDayStartFrom возвращает начало дня для указанного времени в UTC
func GetDayStartFrom(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GetWeekStart возвращает начало текущей недели (понедельник 00:00:00) в UTC
func GetWeekStart() time.Time {
	return GetWeekStartFrom(time.Now().UTC())
}

// GetWeekStartFrom возвращает начало недели для указанного времени в UTC
func GetWeekStartFrom(t time.Time) time.Time {
	t = GetDayStartFrom(t)

	// time.Weekday: Sunday = 0, Monday = 1
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	return t.AddDate(0, 0, -(weekday - 1))
}

// GetMonthStart возвращает начало текущего месяца (1-е число 00:00:00) в UTC
func GetMonthStart() time.Time {
	return GetMonthStartFrom(time.Now().UTC())
}

// GetMonthStartFrom возвращает начало месяца для указанного времени в UTC
func GetMonthStartFrom(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ============================================================
// Форматирование для терминала
// ============================================================

// FormatCountdown форматирует остаток времени как M:SS.
// Используется для отсчёта истечения котировки.
func FormatCountdown(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}

	total := int(remaining.Round(time.Second).Seconds())
	minutes := total / 60
	seconds := total % 60

	return pad2(minutes) + ":" + pad2(seconds)
}

func pad2(v int) string {
	if v < 0 {
		v = 0
	}
	if v < 10 {
		return "0" + string(rune('0'+v))
	}
	// Достаточно двух разрядов: отсчёт котировки не живёт часами
	if v > 99 {
		v = 99
	}
	return string(rune('0'+v/10)) + string(rune('0'+v%10))
}
