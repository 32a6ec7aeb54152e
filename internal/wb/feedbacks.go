package wb

import (
	"context"
	"net/url"
	"strconv"
)

// Feedback is a product review.
type Feedback struct {
	ID               string `json:"id"`
	Text             string `json:"text"`
	ProductValuation int    `json:"productValuation"`
	CreatedDate      string `json:"createdDate"`
	ProductName      string `json:"productName"`
	SupplierArticle  string `json:"supplierArticle"`
	SupplierName     string `json:"supplierName"`
	NmID             int64  `json:"nmId"`
}

// Feedbacks returns the latest reviews, newest first, both answered and
// unanswered. The API has no incremental parameter, so callers dedup by id
// and prime at startup.
func (c *Client) Feedbacks(ctx context.Context) ([]Feedback, error) {
	var out []Feedback
	for _, answered := range []bool{false, true} {
		q := url.Values{}
		q.Set("isAnswered", strconv.FormatBool(answered))
		q.Set("take", "100")
		q.Set("skip", "0")
		q.Set("order", "dateDesc")

		var resp struct {
			Data struct {
				Feedbacks []Feedback `json:"feedbacks"`
			} `json:"data"`
		}
		if err := c.getJSON(ctx, c.cfg.FeedbacksBase, "/api/v1/feedbacks", c.cfg.FeedbacksToken, q, &resp); err != nil {
			return nil, err
		}
		out = append(out, resp.Data.Feedbacks...)
	}
	return out, nil
}
