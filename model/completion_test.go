package model

import (
	"testing"
	"time"
)

func TestMonthKeyOf(t *testing.T) {
	got := MonthKeyOf(time.Date(2025, time.April, 30, 23, 59, 0, 0, time.UTC))
	if got != "2025-04" {
		t.Errorf("MonthKeyOf = %q, want %q", got, "2025-04")
	}
}

func TestValidMonthKey(t *testing.T) {
	valid := []string{"2025-01", "2025-12", "1999-06"}
	for _, key := range valid {
		if !ValidMonthKey(key) {
			t.Errorf("ValidMonthKey(%q) = false, want true", key)
		}
	}

	invalid := []string{"2025-13", "2025-00", "2025-1", "25-01", "2025/01", "2025-01-15", ""}
	for _, key := range invalid {
		if ValidMonthKey(key) {
			t.Errorf("ValidMonthKey(%q) = true, want false", key)
		}
	}
}
