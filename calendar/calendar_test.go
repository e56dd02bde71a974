package calendar

import (
	"testing"
	"time"
)

func TestJalaliKnownDates(t *testing.T) {
	tests := []struct {
		in   time.Time
		want Date
	}{
		// Nowruz 1404 began on 2025-03-21
		{time.Date(2025, 3, 21, 12, 0, 0, 0, time.UTC), Date{1404, 1, 1}},
		{time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC), Date{1403, 12, 30}},
		{time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC), Date{1404, 6, 10}},
	}
	cal := Jalali{}
	for _, tt := range tests {
		if got := cal.Convert(tt.in); got != tt.want {
			t.Errorf("Convert(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGregorianConvert(t *testing.T) {
	got := Gregorian{}.Convert(time.Date(2025, 6, 5, 23, 59, 0, 0, time.UTC))
	if (got != Date{2025, 6, 5}) {
		t.Errorf("got %v", got)
	}
}

func TestSameMonth(t *testing.T) {
	a := Date{1404, 2, 1}
	b := Date{1404, 2, 31}
	c := Date{1404, 3, 1}
	if !a.SameMonth(b) {
		t.Error("same month not detected")
	}
	if a.SameMonth(c) {
		t.Error("month boundary not respected")
	}
}

func TestDateStringSortsChronologically(t *testing.T) {
	early := Date{1404, 2, 9}.String()
	late := Date{1404, 10, 1}.String()
	if !(early < late) {
		t.Errorf("zero-padded keys must sort chronologically: %q vs %q", early, late)
	}
}

func TestForName(t *testing.T) {
	if _, ok := ForName("gregorian").(Gregorian); !ok {
		t.Error("gregorian name not honored")
	}
	if _, ok := ForName("").(Jalali); !ok {
		t.Error("default calendar must be jalali")
	}
}
