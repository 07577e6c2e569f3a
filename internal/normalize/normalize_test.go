package normalize

import (
	"math"
	"testing"
	"time"
)

func TestParseInstalls(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"1,000,000+", 1000000},
		{"10.000+", 10000},
		{"500+", 500},
		{"", 0},
		{"free", 0},
		{"1 000 000", 1000000},
	}

	for _, tt := range tests {
		got := ParseInstalls(tt.raw)
		if got != tt.want {
			t.Errorf("ParseInstalls(%q) = %d; want %d", tt.raw, got, tt.want)
		}
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"Varies with device", 0},
		{"Bervariasi berdasarkan perangkat", 0},
		{"", 0},
		{"15M", 15},
		{"1.2G", 1228.8},
		{"3,5M", 3.5},
		{"no size here", 0},
	}

	for _, tt := range tests {
		got := ParseSize(tt.raw)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ParseSize(%q) = %v; want %v", tt.raw, got, tt.want)
		}
	}
}

func TestParseSizeKilobytes(t *testing.T) {
	got := ParseSize("500k")
	want := 500.0 / 1024.0
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("ParseSize(500k) = %v; want %v", got, want)
	}
}

func TestIsZombie(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	old := now.Add(-731 * 24 * time.Hour)
	if !IsZombie(&old, now) {
		t.Error("731 days without update should be a zombie")
	}

	boundary := now.Add(-730 * 24 * time.Hour)
	if IsZombie(&boundary, now) {
		t.Error("exactly 730 days is not a zombie (strict >)")
	}

	if IsZombie(nil, now) {
		t.Error("unknown update time should not flag a zombie")
	}
}
