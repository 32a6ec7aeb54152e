package sources

import (
	"context"
	"fmt"
	"strconv"

	"shopwatch/internal/poll"
	"shopwatch/internal/wb"
)

type ordersAPI interface {
	NewOrders(ctx context.Context) ([]wb.Order, error)
}

// Orders notifies on new FBS orders. The upstream endpoint is a window
// query (the same order appears until accepted), so there is no cursor and
// dedup is purely by order id.
type Orders struct {
	api    ordersAPI
	titles TitleResolver
	shop   string
}

func NewOrders(api ordersAPI, titles TitleResolver, shop string) *Orders {
	if titles == nil {
		titles = NoTitles
	}
	return &Orders{api: api, titles: titles, shop: shop}
}

func (s *Orders) Name() string { return "orders" }

func (s *Orders) Fetch(ctx context.Context, _ string) ([]poll.Event, error) {
	orders, err := s.api.NewOrders(ctx)
	if err != nil {
		return nil, err
	}
	events := make([]poll.Event, 0, len(orders))
	for _, o := range orders {
		if o.ID == 0 {
			continue
		}
		events = append(events, poll.Event{
			Key:  "order:" + strconv.FormatInt(o.ID, 10),
			Text: s.format(ctx, o),
		})
	}
	return events, nil
}

func (s *Orders) format(ctx context.Context, o wb.Order) string {
	price := o.ConvertedPrice
	if price == 0 {
		price = o.Price
	}
	return fmt.Sprintf(
		"🛒 New order · (%s)\nItem: %s\nAmount: %s\nDate: %s",
		s.shop,
		itemLine(ctx, s.titles, o.NmID, "", o.Article),
		rubKopecks(price),
		formatDT(o.CreatedAt),
	)
}
