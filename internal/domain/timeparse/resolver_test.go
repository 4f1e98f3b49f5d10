package timeparse

import (
	"errors"
	"testing"
	"time"

	"telegram-reminder-bot/internal/domain"
)

var testZone = time.FixedZone("UTC+5", 5*3600)

// Monday noon, local time.
var testNow = time.Date(2025, 9, 1, 12, 0, 0, 0, testZone)

func TestResolveRelative(t *testing.T) {
	cases := []struct {
		name string
		text string
		want time.Duration
	}{
		{"minutes with filler", "in 5 minutes", 5 * time.Minute},
		{"minutes embedded", "remind me in 45 minutes to stretch", 45 * time.Minute},
		{"after hours", "after 2 hours", 2 * time.Hour},
		{"short unit", "15 min", 15 * time.Minute},
		{"single letter hour", "3h", 3 * time.Hour},
		{"bare number defaults to minutes", "30", 30 * time.Minute},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Resolve(tc.text, testNow, testZone)
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if !res.Relative {
				t.Error("expected a relative resolution")
			}
			got := res.At.Sub(testNow.UTC())
			if got != tc.want {
				t.Errorf("expected offset %v, got %v", tc.want, got)
			}
		})
	}
}

func TestResolveAbsolute(t *testing.T) {
	t.Run("future literal resolves in the configured zone", func(t *testing.T) {
		res, err := Resolve("buy bread 2025-10-07 09:00", testNow, testZone)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		want := time.Date(2025, 10, 7, 9, 0, 0, 0, testZone).UTC()
		if !res.At.Equal(want) {
			t.Errorf("expected %v, got %v", want, res.At)
		}
		if res.Relative {
			t.Error("absolute literal must not be marked relative")
		}
	})

	t.Run("round-trips to the original wall clock", func(t *testing.T) {
		res, err := Resolve("2025-12-31 23:45", testNow, testZone)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		back := res.At.In(testZone).Format("2006-01-02 15:04")
		if back != "2025-12-31 23:45" {
			t.Errorf("round trip mismatch: %s", back)
		}
	})

	t.Run("elapsed literal is rejected", func(t *testing.T) {
		_, err := Resolve("2020-01-01 00:00", testNow, testZone)
		if !errors.Is(err, domain.ErrTimeInPast) {
			t.Fatalf("expected ErrTimeInPast, got: %v", err)
		}
	})
}

func TestResolveFreeText(t *testing.T) {
	t.Run("tomorrow with clock", func(t *testing.T) {
		res, err := Resolve("buy milk tomorrow at 10", testNow, testZone)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		want := time.Date(2025, 9, 2, 10, 0, 0, 0, testZone).UTC()
		if !res.At.Equal(want) {
			t.Errorf("expected %v, got %v", want, res.At)
		}
	})

	t.Run("bare tomorrow keeps the wall clock", func(t *testing.T) {
		res, err := Resolve("call the plumber tomorrow", testNow, testZone)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if got := testNow.Add(24 * time.Hour).UTC(); !res.At.Equal(got) {
			t.Errorf("expected %v, got %v", got, res.At)
		}
	})

	t.Run("last phrase wins", func(t *testing.T) {
		res, err := Resolve("meet at 3pm, dinner at 17:30", testNow, testZone)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		want := time.Date(2025, 9, 1, 17, 30, 0, 0, testZone).UTC()
		if !res.At.Equal(want) {
			t.Errorf("expected the trailing 17:30, got %v", res.At.In(testZone))
		}
	})

	t.Run("clock already passed biases to the next day", func(t *testing.T) {
		res, err := Resolve("stand-up at 9:00", testNow, testZone)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		want := time.Date(2025, 9, 2, 9, 0, 0, 0, testZone).UTC()
		if !res.At.Equal(want) {
			t.Errorf("expected next-day 9:00, got %v", res.At.In(testZone))
		}
	})

	t.Run("weekday resolves to the next occurrence", func(t *testing.T) {
		res, err := Resolve("report friday at 18:00", testNow, testZone)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		want := time.Date(2025, 9, 5, 18, 0, 0, 0, testZone).UTC()
		if !res.At.Equal(want) {
			t.Errorf("expected friday 18:00, got %v", res.At.In(testZone))
		}
	})

	t.Run("same weekday in the past rolls a full week", func(t *testing.T) {
		res, err := Resolve("monday at 9am", testNow, testZone)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		want := time.Date(2025, 9, 8, 9, 0, 0, 0, testZone).UTC()
		if !res.At.Equal(want) {
			t.Errorf("expected next monday, got %v", res.At.In(testZone))
		}
	})
}

func TestResolveNoMatch(t *testing.T) {
	for _, text := range []string{"hello world", "", "buy milk soon"} {
		if _, err := Resolve(text, testNow, testZone); !errors.Is(err, domain.ErrParseFailure) {
			t.Errorf("Resolve(%q): expected ErrParseFailure, got %v", text, err)
		}
	}
}

func TestRemainder(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"filler and relative span", "remind me in 5 minutes to call mom", "call mom"},
		{"please prefix", "please in 10 minutes feed the cat", "feed the cat"},
		{"trailing phrase", "buy milk tomorrow at 10", "buy milk"},
		{"time only leaves nothing", "in 5 minutes", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Resolve(tc.text, testNow, testZone)
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if got := Remainder(tc.text, res); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
