package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"frontdesk/internal/domain"
)

func TestParseDateRoundTrip(t *testing.T) {
	d, err := domain.ParseDate("2025-05-03")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Year != 2025 || d.Month != time.May || d.Day != 3 {
		t.Fatalf("unexpected date: %+v", d)
	}
	if d.String() != "2025-05-03" {
		t.Fatalf("string: %s", d)
	}
	if _, err := domain.ParseDate("03/05/2025"); err == nil {
		t.Fatal("expected error for wrong layout")
	}
}

func TestDateAddDaysAcrossMonth(t *testing.T) {
	d := domain.NewDate(2025, time.May, 30)
	got := d.AddDays(3)
	if got.String() != "2025-06-02" {
		t.Fatalf("AddDays: %s", got)
	}
	if back := got.AddDays(-3); !back.Equal(d) {
		t.Fatalf("round trip: %s", back)
	}
}

func TestDateOrdering(t *testing.T) {
	a := domain.NewDate(2025, time.May, 3)
	b := domain.NewDate(2025, time.May, 7)
	if !a.Before(b) || b.Before(a) || !b.After(a) {
		t.Fatal("ordering broken")
	}
	if n := domain.DaysBetween(a, b); n != 4 {
		t.Fatalf("DaysBetween: %d", n)
	}
	if n := domain.DaysBetween(b, a); n != -4 {
		t.Fatalf("DaysBetween reversed: %d", n)
	}
}

func TestStartOfWeekIsMonday(t *testing.T) {
	// 2025-05-07 is a Wednesday; its week starts Monday 2025-05-05.
	d := domain.NewDate(2025, time.May, 7)
	if got := d.StartOfWeek(); got.String() != "2025-05-05" {
		t.Fatalf("StartOfWeek: %s", got)
	}
	// A Monday is its own week start.
	mon := domain.NewDate(2025, time.May, 5)
	if got := mon.StartOfWeek(); !got.Equal(mon) {
		t.Fatalf("monday week start: %s", got)
	}
	// Sunday belongs to the week started the previous Monday.
	sun := domain.NewDate(2025, time.May, 11)
	if got := sun.StartOfWeek(); got.String() != "2025-05-05" {
		t.Fatalf("sunday week start: %s", got)
	}
}

func TestDateJSON(t *testing.T) {
	d := domain.NewDate(2025, time.May, 3)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-05-03"` {
		t.Fatalf("marshal: %s", b)
	}
	var back domain.Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Fatalf("round trip: %s", back)
	}
	if err := json.Unmarshal([]byte(`"not-a-date"`), &back); err == nil {
		t.Fatal("expected unmarshal error")
	}
}
