package kontent

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"kontent-migrator/internal/logger"
)

// itemsPageSize is the page size used when listing items.
const itemsPageSize = 100

type itemsQuery struct {
	Type     string `url:"system.type"`
	Language string `url:"language,omitempty"`
	Depth    int    `url:"depth"`
	Skip     int    `url:"skip,omitempty"`
	Limit    int    `url:"limit"`
}

type deliverySystem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Codename     string    `json:"codename"`
	Language     string    `json:"language"`
	Type         string    `json:"type"`
	LastModified time.Time `json:"last_modified"`
}

type deliveryPage struct {
	Items []struct {
		System deliverySystem `json:"system"`
	} `json:"items"`
	Pagination struct {
		Skip     int    `json:"skip"`
		Limit    int    `json:"limit"`
		Count    int    `json:"count"`
		NextPage string `json:"next_page"`
	} `json:"pagination"`
}

// ListItems lists the items of a content type in a language.
// The Delivery API substitutes fallback languages for missing variants;
// such items are dropped so only items that exist in language are returned.
func (c *Client) ListItems(ctx context.Context, typeCodename, language string) ([]ItemSummary, error) {
	q := itemsQuery{
		Type:     typeCodename,
		Language: language,
		Limit:    itemsPageSize,
	}

	var items []ItemSummary

	for {
		var page deliveryPage

		_, err := c.do(ctx, request{
			method: http.MethodGet,
			url:    c.deliveryPath("items"),
			query:  q,
			apiKey: c.previewKey,
		}, &page)
		if err != nil {
			return nil, fmt.Errorf("failed to list items of %s: %w", typeCodename, err)
		}

		for _, it := range page.Items {
			s := it.System
			if language != "" && s.Language != language {
				c.log.WithFields(logger.Fields{"item": s.Codename, "language": s.Language}).
					Debug("skipping item served in fallback language")

				continue
			}

			items = append(items, ItemSummary(s))
		}

		if page.Pagination.NextPage == "" || len(page.Items) == 0 {
			break
		}

		q.Skip += len(page.Items)
	}

	return items, nil
}
