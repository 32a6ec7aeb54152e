package wb

import (
	"context"
	"net/url"
	"time"
)

// Stock is a warehouse stock line from the statistics API.
type Stock struct {
	NmID            int64  `json:"nmId"`
	SupplierArticle string `json:"supplierArticle"`
	Quantity        int    `json:"quantity"`
	WarehouseName   string `json:"warehouseName"`
}

// Stocks returns the full current stock snapshot. The dateFrom parameter
// is required by the API but effectively ignored for snapshots; a wide
// window keeps the response complete.
func (c *Client) Stocks(ctx context.Context) ([]Stock, error) {
	q := url.Values{}
	q.Set("dateFrom", time.Now().AddDate(0, 0, -30).UTC().Format("2006-01-02"))
	var out []Stock
	if err := c.getJSON(ctx, c.cfg.StatisticsBase, "/api/v1/supplier/stocks", c.cfg.StatisticsToken, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
