package sources

import (
	"context"
	"fmt"
	"time"

	"shopwatch/internal/poll"
	"shopwatch/internal/wb"
)

type salesAPI interface {
	Sales(ctx context.Context, dateFrom string) ([]wb.Sale, error)
}

// Sales notifies on FBW sales and returns. The statistics API is
// incremental on lastChangeDate and inclusive on the boundary, so
// consecutive batches overlap; dedup is by saleID, and the cursor advances
// to the newest lastChangeDate seen in each batch.
type Sales struct {
	api    salesAPI
	titles TitleResolver
	shop   string
}

func NewSales(api salesAPI, titles TitleResolver, shop string) *Sales {
	if titles == nil {
		titles = NoTitles
	}
	return &Sales{api: api, titles: titles, shop: shop}
}

func (s *Sales) Name() string { return "sales" }

func (s *Sales) CursorName() string { return "sales:lastChangeDate" }

func (s *Sales) DefaultCursor(now time.Time) string {
	return now.UTC().Add(-24 * time.Hour).Format("2006-01-02T15:04:05")
}

func (s *Sales) Fetch(ctx context.Context, cursor string) ([]poll.Event, error) {
	sales, err := s.api.Sales(ctx, cursor)
	if err != nil {
		return nil, err
	}
	events := make([]poll.Event, 0, len(sales))
	for _, sale := range sales {
		if sale.SaleID == "" {
			continue
		}
		events = append(events, poll.Event{
			Key:  "sale:" + sale.SaleID,
			Text: s.format(ctx, sale),
			TS:   sale.LastChangeDate,
		})
	}
	return events, nil
}

func (s *Sales) format(ctx context.Context, sale wb.Sale) string {
	head := "💰 Sale"
	if sale.IsReturn() {
		head = "↩️ Return"
	}
	return fmt.Sprintf(
		"%s · (%s)\nItem: %s\nAmount: %s\nDate: %s",
		head,
		s.shop,
		itemLine(ctx, s.titles, sale.NmID, sale.Subject, sale.SupplierArticle),
		rubFloat(sale.ForPay),
		formatDT(sale.Date),
	)
}
