// Package catalog is the read-only client for the public product endpoints.
// No credential is required; these are guest routes.
package catalog

import (
	"context"
	"net/url"
	"strconv"

	"github.com/gadgetloop/storefront/internal/api"
)

// Product is one catalog entry.
type Product struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
}

// SearchQuery filters the product search. Zero-valued fields are omitted.
type SearchQuery struct {
	Name     string
	Category string
	Brand    string
	MinPrice float64
	MaxPrice float64
	Page     int
}

// listResponse tolerates the two key names the backend has used for the
// product list and the total count.
type listResponse struct {
	Products      []Product `json:"products"`
	Data          []Product `json:"data"`
	Total         int       `json:"total"`
	TotalProducts int       `json:"totalProducts"`
}

func (r listResponse) products() []Product {
	if r.Products != nil {
		return r.Products
	}
	return r.Data
}

func (r listResponse) total() int {
	if r.Total != 0 {
		return r.Total
	}
	return r.TotalProducts
}

// detailResponse wraps a single product.
type detailResponse struct {
	Data Product `json:"data"`
}

// Client fetches products from the storefront backend.
type Client struct {
	api *api.Client
}

// NewClient creates a catalog client.
func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// List fetches the unfiltered product listing.
func (c *Client) List(ctx context.Context) ([]Product, error) {
	var resp listResponse
	if err := c.api.Get(ctx, api.PathProducts, &resp); err != nil {
		return nil, err
	}
	return resp.products(), nil
}

// Search fetches products matching the query and the total match count.
func (c *Client) Search(ctx context.Context, query SearchQuery) ([]Product, int, error) {
	params := url.Values{}
	if query.Page > 0 {
		params.Set("page", strconv.Itoa(query.Page))
	}
	if query.Name != "" {
		params.Set("name", query.Name)
	}
	if query.Category != "" {
		params.Set("category", query.Category)
	}
	if query.Brand != "" {
		params.Set("brand", query.Brand)
	}
	if query.MinPrice > 0 {
		params.Set("minPrice", strconv.FormatFloat(query.MinPrice, 'f', -1, 64))
	}
	if query.MaxPrice > 0 {
		params.Set("maxPrice", strconv.FormatFloat(query.MaxPrice, 'f', -1, 64))
	}

	path := api.PathProductSearch
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var resp listResponse
	if err := c.api.Get(ctx, path, &resp); err != nil {
		return nil, 0, err
	}
	return resp.products(), resp.total(), nil
}

// View fetches one product by ID.
func (c *Client) View(ctx context.Context, productID string) (*Product, error) {
	var resp detailResponse
	if err := c.api.Get(ctx, api.PathProductView(productID), &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}
