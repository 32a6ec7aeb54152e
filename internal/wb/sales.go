package wb

import (
	"context"
	"net/url"
	"strings"
)

// Sale is an FBW sale or return from the statistics API.
//
// LastChangeDate is the incremental field the cursor tracks; the API
// returns every record whose lastChangeDate >= dateFrom, so consecutive
// fetches overlap and dedup is by saleID.
type Sale struct {
	SaleID          string  `json:"saleID"`
	Date            string  `json:"date"`
	LastChangeDate  string  `json:"lastChangeDate"`
	SupplierArticle string  `json:"supplierArticle"`
	Subject         string  `json:"subject"`
	Brand           string  `json:"brand"`
	NmID            int64   `json:"nmId"`
	ForPay          float64 `json:"forPay"`
	PriceWithDisc   float64 `json:"priceWithDisc"`
}

// IsReturn reports whether the record is a return/cancellation rather than
// a completed sale. The saleID prefix is the documented signal ("R" for
// returns); the amount sign is kept as a fallback because some historical
// payloads carry an empty saleID.
func (s Sale) IsReturn() bool {
	if id := strings.TrimSpace(s.SaleID); id != "" {
		return strings.HasPrefix(strings.ToUpper(id), "R")
	}
	return s.ForPay < 0
}

// Sales returns sales changed since dateFrom (RFC3339).
func (c *Client) Sales(ctx context.Context, dateFrom string) ([]Sale, error) {
	q := url.Values{}
	q.Set("dateFrom", dateFrom)
	var out []Sale
	if err := c.getJSON(ctx, c.cfg.StatisticsBase, "/api/v1/supplier/sales", c.cfg.StatisticsToken, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
