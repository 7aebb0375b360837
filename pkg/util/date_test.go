package util

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("2024-10-10")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseDateRejectsTimestamp(t *testing.T) {
	if _, ok := ParseDate("2024-10-10T10:10:10Z"); ok {
		t.Fatalf("expected failure for datetime input")
	}
	if _, ok := ParseDate(""); ok {
		t.Fatalf("expected failure for empty input")
	}
}

func TestDaysBetween(t *testing.T) {
	d, ok := DaysBetween("2024-01-01", "2024-01-31")
	if !ok || d != 30 {
		t.Fatalf("expected 30 days, got %d ok=%v", d, ok)
	}
	d, ok = DaysBetween("2024-01-31", "2024-01-01")
	if !ok || d != -30 {
		t.Fatalf("expected -30 days, got %d", d)
	}
	if _, ok := DaysBetween("bad", "2024-01-01"); ok {
		t.Fatalf("expected failure for malformed date")
	}
}

func TestFormatDateRoundTrip(t *testing.T) {
	in := "2023-02-28"
	parsed, ok := ParseDate(in)
	if !ok {
		t.Fatalf("parse failed")
	}
	if out := FormatDate(parsed); out != in {
		t.Fatalf("round trip mismatch: %s", out)
	}
}
