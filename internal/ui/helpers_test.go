package ui

import "testing"

func TestTruncate(t *testing.T) {
	if got := truncate("  short ", 10); got != "short" {
		t.Fatalf("truncate = %q, want short", got)
	}
	if got := truncate("connection refused", 10); got != "connect..." {
		t.Fatalf("truncate = %q, want connect...", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Fatalf("truncate limit<=3 = %q, want ab", got)
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  ", 10); got != "" {
		t.Fatalf("truncateMiddle blank = %q, want empty", got)
	}
	if got := truncateMiddle("abcd", 2); got != "ab" {
		t.Fatalf("truncateMiddle limit<=5 = %q, want ab", got)
	}
	got := truncateMiddle("a/b/c/d/e", 7)
	if got != "a/.../e" {
		t.Fatalf("truncateMiddle = %q, want a/.../e", got)
	}
}

func TestPadding(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padLeft("ab", 4); got != "  ab" {
		t.Fatalf("padLeft = %q", got)
	}
	if got := padLeft("abcdef", 4); got != "abcdef" {
		t.Fatalf("padLeft overflow = %q", got)
	}
}
