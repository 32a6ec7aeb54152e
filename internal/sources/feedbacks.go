package sources

import (
	"context"
	"fmt"
	"strings"

	"shopwatch/internal/poll"
	"shopwatch/internal/wb"
)

type feedbacksAPI interface {
	Feedbacks(ctx context.Context) ([]wb.Feedback, error)
}

// Feedbacks notifies on new product reviews. The API only serves "latest"
// pages, so the runner primes this source at startup and dedups by review
// id afterwards.
type Feedbacks struct {
	api  feedbacksAPI
	shop string
}

func NewFeedbacks(api feedbacksAPI, shop string) *Feedbacks {
	return &Feedbacks{api: api, shop: shop}
}

func (s *Feedbacks) Name() string { return "feedbacks" }

func (s *Feedbacks) Fetch(ctx context.Context, _ string) ([]poll.Event, error) {
	fbs, err := s.api.Feedbacks(ctx)
	if err != nil {
		return nil, err
	}
	events := make([]poll.Event, 0, len(fbs))
	for _, f := range fbs {
		id := strings.TrimSpace(f.ID)
		if id == "" {
			continue
		}
		events = append(events, poll.Event{
			Key:  "feedback:" + id,
			Text: s.format(ctx, f),
		})
	}
	return events, nil
}

func (s *Feedbacks) format(ctx context.Context, f wb.Feedback) string {
	mood := "positive"
	if f.ProductValuation < 4 {
		mood = "negative"
	}
	shop := strings.TrimSpace(f.SupplierName)
	if shop == "" {
		shop = s.shop
	}
	text := strings.TrimSpace(f.Text)
	textLine := "Review: " + text
	if text == "" {
		textLine = "Review: (rating only, no text)"
	}
	return fmt.Sprintf(
		"💬 New review · (%s)\nItem: %s\nRating: %s %d (%s)\n%s\nDate: %s",
		shop,
		itemLine(ctx, NoTitles, f.NmID, f.ProductName, f.SupplierArticle),
		stars(f.ProductValuation),
		f.ProductValuation,
		mood,
		textLine,
		formatDT(f.CreatedDate),
	)
}
