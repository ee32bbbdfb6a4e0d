package util

import (
	"encoding/json"
	"math"
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeSQLLayout(t *testing.T) {
	got, ok := ParseTime("2024-03-05 14:30:00")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeRejectsGarbage(t *testing.T) {
	if _, ok := ParseTime("yesterday"); ok {
		t.Fatalf("expected failure")
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestDayKey(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	got := DayKey(time.Date(2024, 1, 2, 3, 0, 0, 0, loc))
	if got != "2024-01-01" {
		t.Fatalf("unexpected day %s", got)
	}
}

func TestToFloat(t *testing.T) {
	cases := []struct {
		in   interface{}
		want float64
		ok   bool
	}{
		{12.5, 12.5, true},
		{int64(3), 3, true},
		{json.Number("4.25"), 4.25, true},
		{" 7 ", 7, true},
		{"n/a", 0, false},
		{nil, 0, false},
		{"NaN", 0, false},
		{"+Inf", 0, false},
		{math.Inf(-1), 0, false},
		{math.NaN(), 0, false},
	}
	for _, c := range cases {
		got, ok := ToFloat(c.in)
		if ok != c.ok || got != c.want {
			t.Fatalf("ToFloat(%v) = %v,%v want %v,%v", c.in, got, ok, c.want, c.ok)
		}
	}
}
