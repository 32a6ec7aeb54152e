package wb

import (
	"context"
	"net/url"
	"strconv"
)

// Question is a buyer question about a product.
type Question struct {
	ID              string `json:"id"`
	Text            string `json:"text"`
	CreatedDate     string `json:"createdDate"`
	ProductName     string `json:"productName"`
	SupplierArticle string `json:"supplierArticle"`
	NmID            int64  `json:"nmId"`
}

// Questions returns the latest buyer questions, newest first. Same shape
// as Feedbacks: no incremental parameter, dedup by id, prime at startup.
func (c *Client) Questions(ctx context.Context) ([]Question, error) {
	var out []Question
	for _, answered := range []bool{false, true} {
		q := url.Values{}
		q.Set("isAnswered", strconv.FormatBool(answered))
		q.Set("take", "100")
		q.Set("skip", "0")
		q.Set("order", "dateDesc")

		var resp struct {
			Data struct {
				Questions []Question `json:"questions"`
			} `json:"data"`
		}
		if err := c.getJSON(ctx, c.cfg.FeedbacksBase, "/api/v1/questions", c.cfg.FeedbacksToken, q, &resp); err != nil {
			return nil, err
		}
		out = append(out, resp.Data.Questions...)
	}
	return out, nil
}
