package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/diamondnunstraw/kartcentral/internal/domain"
)

// remoteProduct is the wire shape of the upstream store API.
type remoteProduct struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      struct {
		Rate  float64 `json:"rate"`
		Count int     `json:"count"`
	} `json:"rating"`
}

func (p remoteProduct) normalize() domain.Product {
	return domain.Product{
		ID:          strconv.FormatInt(p.ID, 10),
		Title:       p.Title,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
		ImageURL:    p.Image,
		Rating:      p.Rating.Rate,
		ReviewCount: p.Rating.Count,
	}
}

type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) ListProducts(ctx context.Context, opts ListOptions) ([]domain.Product, error) {
	query := url.Values{}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Sort != "" {
		query.Set("sort", opts.Sort)
	}

	endpoint := "/products"
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var remote []remoteProduct
	if err := c.getJSON(ctx, endpoint, &remote); err != nil {
		return nil, err
	}

	products := make([]domain.Product, len(remote))
	for i, p := range remote {
		products[i] = p.normalize()
	}
	return products, nil
}

func (c *HTTPClient) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	var remote remoteProduct
	err := c.getJSON(ctx, "/products/"+url.PathEscape(id), &remote)
	if err != nil {
		return domain.Product{}, err
	}
	// The upstream API answers an unknown id with an empty body instead
	// of a 404.
	if remote.ID == 0 {
		return domain.Product{}, ErrProductNotFound
	}
	return remote.normalize(), nil
}

func (c *HTTPClient) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var remote []remoteProduct
	if err := c.getJSON(ctx, "/products/category/"+url.PathEscape(category), &remote); err != nil {
		return nil, err
	}

	products := make([]domain.Product, len(remote))
	for i, p := range remote {
		products[i] = p.normalize()
	}
	return products, nil
}

func (c *HTTPClient) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.getJSON(ctx, "/products/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode failed: %v", ErrUnavailable, err)
	}
	return nil
}
