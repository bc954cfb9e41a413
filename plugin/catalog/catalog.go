// Package catalog wraps the demo product API used by the product tools.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/shahidain/mcp-server/profile"
)

const requestTimeout = 30 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(p profile.Profile) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(p.CatalogAPIURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build catalog request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "catalog request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("catalog api returned %d", resp.StatusCode)
	}
	return body, nil
}

// Products lists products with optional pagination. Zero values are omitted
// so the API applies its own defaults.
func (c *Client) Products(ctx context.Context, skip, limit int) (json.RawMessage, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}
	if skip > 0 {
		params.Set("skip", fmt.Sprintf("%d", skip))
	}
	path := "/products"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	return c.get(ctx, path)
}

func (c *Client) ProductByID(ctx context.Context, id int) (json.RawMessage, error) {
	if id < 1 {
		return nil, errors.New("product id must be positive")
	}
	return c.get(ctx, fmt.Sprintf("/products/%d", id))
}

func (c *Client) SearchProducts(ctx context.Context, query string) (json.RawMessage, error) {
	if query == "" {
		return nil, errors.New("search query is required")
	}
	return c.get(ctx, "/products/search?q="+url.QueryEscape(query))
}

func (c *Client) ProductsByCategory(ctx context.Context, category string) (json.RawMessage, error) {
	if category == "" {
		return nil, errors.New("category is required")
	}
	return c.get(ctx, "/products/category/"+url.PathEscape(category))
}

func (c *Client) Categories(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/products/categories")
}
