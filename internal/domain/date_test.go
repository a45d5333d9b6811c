package domain

import (
	"testing"
	"time"
)

func TestWeekStartIsAlwaysMonday(t *testing.T) {
	cases := map[string]string{
		"2024-03-11": "2024-03-11", // Monday maps to itself
		"2024-03-13": "2024-03-11", // Wednesday
		"2024-03-17": "2024-03-11", // Sunday stays in the Monday-start week
		"2024-03-18": "2024-03-18", // next Monday
	}
	for input, want := range cases {
		day, err := ParseDate(input)
		if err != nil {
			t.Fatalf("parse %s: %v", input, err)
		}
		got := WeekStart(day).Format(DateLayout)
		if got != want {
			t.Errorf("WeekStart(%s) = %s, want %s", input, got, want)
		}
	}
}

func TestMonthBounds(t *testing.T) {
	day, err := ParseDate("2024-02-10")
	if err != nil {
		t.Fatal(err)
	}
	if got := MonthStart(day).Format(DateLayout); got != "2024-02-01" {
		t.Errorf("MonthStart = %s", got)
	}
	if got := MonthEnd(day).Format(DateLayout); got != "2024-02-29" {
		t.Errorf("MonthEnd = %s", got)
	}
}

func TestDateOfStripsTimeAndZone(t *testing.T) {
	zone := time.FixedZone("UTC+5", 5*3600)
	instant := time.Date(2024, time.March, 15, 2, 30, 0, 0, zone) // 2024-03-14 21:30 UTC

	got := DateOf(instant)
	if got.Format(DateLayout) != "2024-03-14" {
		t.Errorf("DateOf = %s", got.Format(DateLayout))
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Error("DateOf should return midnight")
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, time.March, 15, 0, 1, 0, 0, time.UTC)
	b := time.Date(2024, time.March, 15, 23, 59, 0, 0, time.UTC)
	c := time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC)

	if !SameDay(a, b) {
		t.Error("expected same day")
	}
	if SameDay(b, c) {
		t.Error("expected different days")
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range []Category{CategoryProductive, CategoryLeisure, CategoryHealth, CategoryOther} {
		if !ValidCategory(c) {
			t.Errorf("%s should be valid", c)
		}
	}
	if ValidCategory("fun") {
		t.Error("unknown category should be invalid")
	}
}
