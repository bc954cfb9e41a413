package catalog

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shahidain/mcp-server/profile"
)

func newTestClient(t *testing.T) (*Client, *http.Request) {
	t.Helper()
	var got http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = *r
		_, _ = io.WriteString(w, `{"products": []}`)
	}))
	t.Cleanup(ts.Close)
	return NewClient(profile.Profile{CatalogAPIURL: ts.URL}), &got
}

func TestProductsOmitsZeroPagination(t *testing.T) {
	c, got := newTestClient(t)

	body, err := c.Products(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.JSONEq(t, `{"products": []}`, string(body))
	assert.Equal(t, "/products", got.URL.Path)
	assert.Empty(t, got.URL.RawQuery)
}

func TestProductsSendsPagination(t *testing.T) {
	c, got := newTestClient(t)

	_, err := c.Products(context.Background(), 20, 5)
	require.NoError(t, err)
	assert.Equal(t, "5", got.URL.Query().Get("limit"))
	assert.Equal(t, "20", got.URL.Query().Get("skip"))
}

func TestProductByID(t *testing.T) {
	c, got := newTestClient(t)

	_, err := c.ProductByID(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, "/products/12", got.URL.Path)

	_, err = c.ProductByID(context.Background(), 0)
	assert.Error(t, err)
}

func TestSearchProductsEscapesQuery(t *testing.T) {
	c, got := newTestClient(t)

	_, err := c.SearchProducts(context.Background(), "red shoes")
	require.NoError(t, err)
	assert.Equal(t, "/products/search", got.URL.Path)
	assert.Equal(t, "red shoes", got.URL.Query().Get("q"))

	_, err = c.SearchProducts(context.Background(), "")
	assert.Error(t, err)
}

func TestProductsByCategoryAndCategories(t *testing.T) {
	c, got := newTestClient(t)

	_, err := c.ProductsByCategory(context.Background(), "home-decoration")
	require.NoError(t, err)
	assert.Equal(t, "/products/category/home-decoration", got.URL.Path)

	_, err = c.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/products/categories", got.URL.Path)
}

func TestCatalogReportsAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c := NewClient(profile.Profile{CatalogAPIURL: ts.URL})
	_, err := c.Categories(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
