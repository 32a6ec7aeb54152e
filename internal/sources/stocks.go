package sources

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"shopwatch/internal/poll"
	"shopwatch/internal/wb"
)

type stocksAPI interface {
	Stocks(ctx context.Context) ([]wb.Stock, error)
}

// Stocks alerts when an item's total quantity falls to or below the
// threshold. The key includes the calendar date, so a persistently low
// item alerts at most once per day instead of once forever.
type Stocks struct {
	api       stocksAPI
	titles    TitleResolver
	shop      string
	threshold int
	now       func() time.Time
}

func NewStocks(api stocksAPI, titles TitleResolver, shop string, threshold int) *Stocks {
	if titles == nil {
		titles = NoTitles
	}
	if threshold <= 0 {
		threshold = 3
	}
	return &Stocks{api: api, titles: titles, shop: shop, threshold: threshold, now: time.Now}
}

func (s *Stocks) Name() string { return "stocks" }

func (s *Stocks) Fetch(ctx context.Context, _ string) ([]poll.Event, error) {
	stocks, err := s.api.Stocks(ctx)
	if err != nil {
		return nil, err
	}

	// The snapshot has one line per warehouse; alert on the item total.
	type item struct {
		article string
		qty     int
	}
	totals := map[int64]*item{}
	order := make([]int64, 0, len(stocks))
	for _, st := range stocks {
		if st.NmID == 0 {
			continue
		}
		it, ok := totals[st.NmID]
		if !ok {
			it = &item{article: st.SupplierArticle}
			totals[st.NmID] = it
			order = append(order, st.NmID)
		}
		it.qty += st.Quantity
	}

	date := s.now().UTC().Format("2006-01-02")
	var events []poll.Event
	for _, nmID := range order {
		it := totals[nmID]
		if it.qty > s.threshold {
			continue
		}
		events = append(events, poll.Event{
			Key:  "stock:" + strconv.FormatInt(nmID, 10) + ":" + date,
			Text: s.format(ctx, nmID, it.article, it.qty),
		})
	}
	return events, nil
}

func (s *Stocks) format(ctx context.Context, nmID int64, article string, qty int) string {
	return fmt.Sprintf(
		"📦 Low stock · (%s)\nItem: %s\nLeft: %d pcs",
		s.shop,
		itemLine(ctx, s.titles, nmID, "", article),
		qty,
	)
}
