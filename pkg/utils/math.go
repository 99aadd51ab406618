package utils

import (
	"math"
	"strconv"
)

// math.go - математические утилиты для отображения данных
//
// Все функции являются чистыми (pure functions) без побочных эффектов.
// Торговые расчёты выполняет backend, здесь только презентация:
// округление сумм, проценты изменения, форматирование.

// RoundTo округляет value до указанного количества знаков после запятой
//
// Примеры:
//   - RoundTo(1.23456, 2) = 1.23
//   - RoundTo(1.005, 2) = 1.01
func RoundTo(value float64, places int) float64 {
	if places < 0 {
		return value
	}
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}

// PercentChange возвращает процент изменения от base к current.
// При base == 0 возвращает 0: деление на ноль в UI недопустимо.
//
// Примеры:
//   - PercentChange(100, 110) = 10.0
//   - PercentChange(100, 95) = -5.0
func PercentChange(base, current float64) float64 {
	if base == 0 {
		return 0
	}
	return (current - base) / base * 100
}

// FormatAmount форматирует сумму для терминала.
// До 8 знаков для крипто-величин, trailing нули обрезаются.
func FormatAmount(value float64) string {
	s := strconv.FormatFloat(RoundTo(value, 8), 'f', -1, 64)
	return s
}

// FormatPercent форматирует процент с двумя знаками и знаком +/-
func FormatPercent(value float64) string {
	s := strconv.FormatFloat(RoundTo(value, 2), 'f', 2, 64)
	if value > 0 {
		return "+" + s + "%"
	}
	return s + "%"
}
