// Package sources adapts each Wildberries data source to the poll.Source
// interface: it derives identity keys and renders notification text.
package sources

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TitleResolver enriches messages with catalog titles. Display only,
// never part of identity keys.
type TitleResolver interface {
	TitleFor(ctx context.Context, nmID int64) string
}

type noTitles struct{}

func (noTitles) TitleFor(context.Context, int64) string { return "" }

// NoTitles is a resolver that always falls back to the article number.
var NoTitles TitleResolver = noTitles{}

// rub renders a ruble amount without trailing zeros for whole values.
func rub(d decimal.Decimal) string {
	d = d.Round(2)
	if d.IsInteger() {
		return d.StringFixed(0) + " ₽"
	}
	return d.StringFixed(2) + " ₽"
}

func rubFloat(v float64) string { return rub(decimal.NewFromFloat(v)) }
func rubKopecks(v int64) string { return rub(decimal.New(v, -2)) }

func stars(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

// formatDT renders an upstream ISO-8601 timestamp for the chat; malformed
// values pass through untouched.
func formatDT(iso string) string {
	if iso == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format("02.01.2006 15:04")
		}
	}
	return iso
}

// itemLine renders "Title (article)" with the title cache fallback chain.
func itemLine(ctx context.Context, titles TitleResolver, nmID int64, fallbackName, article string) string {
	name := strings.TrimSpace(fallbackName)
	if name == "" && titles != nil {
		name = strings.TrimSpace(titles.TitleFor(ctx, nmID))
	}
	if name == "" {
		name = "Untitled item"
	}
	if article = strings.TrimSpace(article); article != "" {
		return name + " (" + article + ")"
	}
	return name
}
