package timeutil

import (
	"testing"
	"time"
)

func TestParseSupportedFormats(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2025年01月24日 13:28:33", time.Date(2025, 1, 24, 13, 28, 33, 0, time.UTC)},
		{"2025-01-24T13:28:33", time.Date(2025, 1, 24, 13, 28, 33, 0, time.UTC)},
		{"2025-01-24 13:28:33", time.Date(2025, 1, 24, 13, 28, 33, 0, time.UTC)},
		{"2025/01/24 13:28", time.Date(2025, 1, 24, 13, 28, 0, 0, time.UTC)},
		{"20250124", time.Date(2025, 1, 24, 0, 0, 0, 0, time.UTC)},
		{"2025年01月24日", time.Date(2025, 1, 24, 0, 0, 0, 0, time.UTC)},
		{"Jan 24, 2025 13:28:33", time.Date(2025, 1, 24, 13, 28, 33, 0, time.UTC)},
		{"24 Jan 2025 01:28:33 PM", time.Date(2025, 1, 24, 13, 28, 33, 0, time.UTC)},
	}

	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", c.in, err)
		}
		if !got.Equal(c.want) {
			t.Fatalf("Parse(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseDayMonthFallback(t *testing.T) {
	// 日 > 12 时月/日写法无法匹配，应落到日/月格式
	got, err := Parse("24/01/2025 13:28:33")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := time.Date(2025, 1, 24, 13, 28, 33, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Parse = %v, want %v", got, want)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "昨天", "not a date"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("Parse(%q) should fail", in)
		}
	}
}

func TestDateCompactAndTimestamp(t *testing.T) {
	now := time.Date(2025, 1, 22, 10, 0, 0, 0, time.UTC)
	if got := DateCompact(now); got != "20250122" {
		t.Fatalf("DateCompact = %q, want 20250122", got)
	}
	if got := TimestampMillis(now); got != "1737540000000" {
		t.Fatalf("TimestampMillis = %q", got)
	}
}
