package format

import (
	"testing"
	"time"
)

func TestCount(t *testing.T) {
	tests := map[uint64]string{
		0:                    "0",
		999:                  "999",
		1000:                 "1,000",
		123456:               "123,456",
		1234567:              "1,234,567",
		18446744073709551615: "18,446,744,073,709,551,615",
	}
	for in, want := range tests {
		if got := Count(in); got != want {
			t.Errorf("Count(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestRank(t *testing.T) {
	if got := Rank(0); got != "-" {
		t.Fatalf("Rank(0) = %q, want -", got)
	}
	if got := Rank(12345); got != "#12,345" {
		t.Fatalf("Rank(12345) = %q, want #12,345", got)
	}
}

func TestMegabytes(t *testing.T) {
	tests := []struct {
		mb     uint64
		binary bool
		want   string
	}{
		{0, false, "0 MB"},
		{999, false, "999 MB"},
		{1500, false, "1.50 GB"},
		{2500000, false, "2.50 TB"},
		{1023, true, "1023 MiB"},
		{1024, true, "1.00 GiB"},
		{1536 * 1024, true, "1.50 TiB"},
	}
	for _, tt := range tests {
		if got := Megabytes(tt.mb, tt.binary); got != tt.want {
			t.Errorf("Megabytes(%d, %v) = %q, want %q", tt.mb, tt.binary, got, tt.want)
		}
	}
}

func TestUptime(t *testing.T) {
	tests := map[uint64]string{
		0:     "0s",
		59:    "59s",
		60:    "1m",
		3661:  "1h 1m",
		86400: "1d 0h 0m",
		90061: "1d 1h 1m",
	}
	for in, want := range tests {
		if got := Uptime(in); got != want {
			t.Errorf("Uptime(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestSince(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	if got := Since(time.Time{}, now); got != "" {
		t.Fatalf("Since(zero) = %q, want empty", got)
	}
	if got := Since(now.Add(-10*time.Second), now); got != "11:59:50 (now)" {
		t.Fatalf("Since(10s) = %q", got)
	}
	if got := Since(now.Add(-5*time.Minute), now); got != "11:55:00 (5m ago)" {
		t.Fatalf("Since(5m) = %q", got)
	}
	if got := Since(now.Add(-3*time.Hour), now); got != "09:00:00 (3h ago)" {
		t.Fatalf("Since(3h) = %q", got)
	}
	if got := Since(now.Add(-48*time.Hour), now); got != "12:00:00" {
		t.Fatalf("Since(48h) = %q", got)
	}
}
