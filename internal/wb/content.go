package wb

import (
	"context"
	"strconv"
)

// CardTitle looks up the catalog title for a product. Returns "" when the
// card is not found; callers fall back to the article number for display.
func (c *Client) CardTitle(ctx context.Context, nmID int64) (string, error) {
	body := map[string]any{
		"settings": map[string]any{
			"filter": map[string]any{"textSearch": strconv.FormatInt(nmID, 10), "withPhoto": -1},
			"cursor": map[string]any{"limit": 1},
		},
	}
	var resp struct {
		Cards []struct {
			NmID  int64  `json:"nmID"`
			Title string `json:"title"`
		} `json:"cards"`
	}
	if err := c.postJSON(ctx, c.cfg.ContentBase, "/content/v2/get/cards/list", c.cfg.ContentToken, body, &resp); err != nil {
		return "", err
	}
	for _, card := range resp.Cards {
		if card.NmID == nmID {
			return card.Title, nil
		}
	}
	return "", nil
}
