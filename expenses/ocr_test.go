package expenses

import (
	"testing"
	"time"
)

func TestExtractAmount(t *testing.T) {
	cases := []struct {
		text string
		want float64
	}{
		{"TOTAL R$ 50,00", 50},
		{"Total: R$ 1.234,56 obrigado", 1234.56},
		{"amount due $ 42.90", 42.90},
		{"subtotal 19,99\ntotal 25,50", 19.99},
		{"no money here", 0},
	}
	for _, c := range cases {
		if got := ExtractAmount(c.text); got != c.want {
			t.Errorf("ExtractAmount(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}

func TestExtractDate(t *testing.T) {
	got := ExtractDate("NFC-e 12/03/2026 14:22")
	want := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExtractDate_TwoDigitYear(t *testing.T) {
	got := ExtractDate("paid on 05-07-26")
	if got.Year() != 2026 || got.Month() != 7 || got.Day() != 5 {
		t.Fatalf("got %v", got)
	}
}

func TestExtractDate_RejectsImpossible(t *testing.T) {
	if got := ExtractDate("ref 99/99/2026"); !got.IsZero() {
		t.Fatalf("expected zero time, got %v", got)
	}
	if got := ExtractDate("no date at all"); !got.IsZero() {
		t.Fatalf("expected zero time, got %v", got)
	}
}
