package sources

import (
	"context"
	"fmt"
	"strings"

	"shopwatch/internal/poll"
	"shopwatch/internal/wb"
)

type questionsAPI interface {
	Questions(ctx context.Context) ([]wb.Question, error)
}

// Questions notifies on new buyer questions. Same access pattern as
// Feedbacks: latest pages only, primed at startup, dedup by id.
type Questions struct {
	api  questionsAPI
	shop string
}

func NewQuestions(api questionsAPI, shop string) *Questions {
	return &Questions{api: api, shop: shop}
}

func (s *Questions) Name() string { return "questions" }

func (s *Questions) Fetch(ctx context.Context, _ string) ([]poll.Event, error) {
	qs, err := s.api.Questions(ctx)
	if err != nil {
		return nil, err
	}
	events := make([]poll.Event, 0, len(qs))
	for _, q := range qs {
		id := strings.TrimSpace(q.ID)
		if id == "" {
			continue
		}
		events = append(events, poll.Event{
			Key:  "question:" + id,
			Text: s.format(ctx, q),
		})
	}
	return events, nil
}

func (s *Questions) format(ctx context.Context, q wb.Question) string {
	return fmt.Sprintf(
		"❓ New question · (%s)\nItem: %s\nQuestion: %s\nDate: %s",
		s.shop,
		itemLine(ctx, NoTitles, q.NmID, q.ProductName, q.SupplierArticle),
		strings.TrimSpace(q.Text),
		formatDT(q.CreatedDate),
	)
}
