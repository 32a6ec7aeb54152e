package sources

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
)

type staticTitles map[int64]string

func (m staticTitles) TitleFor(_ context.Context, nmID int64) string { return m[nmID] }

func TestRub(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"1599", "1599 ₽"},
		{"1599.00", "1599 ₽"},
		{"1599.5", "1599.50 ₽"},
		{"1599.999", "1600 ₽"},
		{"-250.5", "-250.50 ₽"},
		{"0", "0 ₽"},
	}
	for _, tt := range tests {
		d, err := decimal.NewFromString(tt.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.in, err)
		}
		if got := rub(d); got != tt.want {
			t.Errorf("rub(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRubKopecks(t *testing.T) {
	t.Parallel()
	if got := rubKopecks(159900); got != "1599 ₽" {
		t.Errorf("rubKopecks(159900) = %q", got)
	}
	if got := rubKopecks(159950); got != "1599.50 ₽" {
		t.Errorf("rubKopecks(159950) = %q", got)
	}
}

func TestStars(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n    int
		want string
	}{
		{0, "☆☆☆☆☆"},
		{3, "★★★☆☆"},
		{5, "★★★★★"},
		{-1, "☆☆☆☆☆"},
		{9, "★★★★★"},
	}
	for _, tt := range tests {
		if got := stars(tt.n); got != tt.want {
			t.Errorf("stars(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatDT(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want string
	}{
		{"2024-06-15T09:30:00Z", "15.06.2024 09:30"},
		{"2024-06-15T09:30:00", "15.06.2024 09:30"},
		{"", ""},
		{"garbage", "garbage"},
	}
	for _, tt := range tests {
		if got := formatDT(tt.in); got != tt.want {
			t.Errorf("formatDT(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestItemLineFallbackChain(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	titles := staticTitles{111: "Blue Mug"}

	if got := itemLine(ctx, titles, 111, "Explicit Name", "SKU-1"); got != "Explicit Name (SKU-1)" {
		t.Errorf("explicit name: %q", got)
	}
	if got := itemLine(ctx, titles, 111, "", "SKU-1"); got != "Blue Mug (SKU-1)" {
		t.Errorf("catalog title: %q", got)
	}
	if got := itemLine(ctx, titles, 222, "", "SKU-2"); got != "Untitled item (SKU-2)" {
		t.Errorf("no title: %q", got)
	}
	if got := itemLine(ctx, titles, 222, "", ""); got != "Untitled item" {
		t.Errorf("no article: %q", got)
	}
}
