package wb

import (
	"context"
)

// Order is a new FBS order from the marketplace API.
// Prices are in kopecks.
type Order struct {
	ID             int64  `json:"id"`
	CreatedAt      string `json:"createdAt"`
	Article        string `json:"article"`
	NmID           int64  `json:"nmId"`
	Price          int64  `json:"price"`
	ConvertedPrice int64  `json:"convertedPrice"`
}

// NewOrders returns the currently open ("new") FBS orders. The endpoint is
// a broad window query, not incremental: the same order keeps appearing
// until it is accepted, so dedup is by order id.
func (c *Client) NewOrders(ctx context.Context) ([]Order, error) {
	var resp struct {
		Orders []Order `json:"orders"`
	}
	err := c.getJSON(ctx, c.cfg.MarketplaceBase, "/api/v3/orders/new", c.cfg.MarketplaceToken, nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Orders, nil
}
