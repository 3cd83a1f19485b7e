// Package icons queries the remote icon service used for catalog entries.
package icons

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/theirongolddev/stackcost/internal/remote"
)

// MinQueryLen is the shortest query sent to the search service.
const MinQueryLen = 3

// ErrQueryTooShort is returned for queries under MinQueryLen characters.
var ErrQueryTooShort = errors.New("icons: query must be at least 3 characters")

// Client wraps the icon search and retrieve URL templates.
type Client struct {
	Getter      remote.Getter
	SearchURL   string // {query}
	RetrieveURL string // {icon}
}

type searchResponse struct {
	Icons []string `json:"icons"`
}

// Search returns icon ids matching query.
func (c *Client) Search(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinQueryLen {
		return nil, ErrQueryTooShort
	}
	if c.SearchURL == "" {
		return nil, errors.New("icons: no search service configured")
	}
	g := c.Getter
	if g == nil {
		g = remote.New()
	}

	u := remote.Fill(c.SearchURL, map[string]string{"query": url.QueryEscape(query)})
	var resp searchResponse
	if err := remote.DecodeJSON(ctx, g, u, &resp); err != nil {
		return nil, fmt.Errorf("icons: searching %q: %w", query, err)
	}
	if resp.Icons == nil {
		resp.Icons = []string{}
	}
	return resp.Icons, nil
}

// URL returns the retrieve URL for an icon id. Ids that are already URLs are returned as-is.
func (c *Client) URL(id string) string {
	id = strings.TrimSpace(id)
	if remote.IsURL(id) || c.RetrieveURL == "" {
		return id
	}
	return remote.Fill(c.RetrieveURL, map[string]string{"icon": id})
}
