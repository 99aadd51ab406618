package utils

import (
	"math"
	"testing"
)

// ============================================================
// Math Tests
// ============================================================

func TestRoundTo(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		places int
		want   float64
	}{
		{name: "two places", value: 1.23456, places: 2, want: 1.23},
		{name: "rounds up", value: 1.235, places: 2, want: 1.24},
		{name: "zero places", value: 1.6, places: 0, want: 2},
		{name: "negative places is noop", value: 1.2345, places: -1, want: 1.2345},
		{name: "eight places", value: 0.123456789, places: 8, want: 0.12345679},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundTo(tt.value, tt.places); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name    string
		base    float64
		current float64
		want    float64
	}{
		{name: "gain", base: 100, current: 110, want: 10},
		{name: "loss", base: 100, current: 95, want: -5},
		{name: "no change", base: 50, current: 50, want: 0},
		{name: "zero base", base: 0, current: 100, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PercentChange(tt.base, tt.current); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{value: 1.5, want: "1.5"},
		{value: 0.000012345678, want: "0.00001235"},
		{value: 100, want: "100"},
	}

	for _, tt := range tests {
		if got := FormatAmount(tt.value); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{value: 10, want: "+10.00%"},
		{value: -5.5, want: "-5.50%"},
		{value: 0, want: "0.00%"},
	}

	for _, tt := range tests {
		if got := FormatPercent(tt.value); got != tt.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
