package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateOfTruncatesToUTCDay(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	got := DateOf(time.Date(2026, 3, 10, 1, 30, 0, 0, loc))
	if got.String() != "2026-03-09" {
		t.Fatalf("DateOf() = %s, want 2026-03-09", got)
	}
}

func TestDateDaysUntil(t *testing.T) {
	start := NewDate(2026, 2, 27)
	if got := start.DaysUntil(NewDate(2026, 3, 2)); got != 3 {
		t.Fatalf("DaysUntil() = %d, want 3", got)
	}
	if got := start.DaysUntil(start); got != 0 {
		t.Fatalf("DaysUntil(self) = %d, want 0", got)
	}
	if got := start.DaysUntil(NewDate(2026, 2, 25)); got != -2 {
		t.Fatalf("DaysUntil(past) = %d, want -2", got)
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan("2026-01-05 00:00:00+00:00"); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if d.String() != "2026-01-05" {
		t.Fatalf("scanned %s", d)
	}
	if err := d.Scan(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("scan time: %v", err)
	}
	if d.String() != "2026-04-01" {
		t.Fatalf("scanned %s", d)
	}
	if err := d.Scan(42); err == nil {
		t.Fatal("expected error scanning int")
	}
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Due *Date `json:"due_date"`
	}
	if err := json.Unmarshal([]byte(`{"due_date":"2026-05-17"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"due_date":"2026-05-17"}` {
		t.Fatalf("marshal = %s", out)
	}
	if err := json.Unmarshal([]byte(`{"due_date":"17/05/2026"}`), &payload); err == nil {
		t.Fatal("expected error for malformed date")
	}
}
