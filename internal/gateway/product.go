package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type Product struct {
	ID     uint    `json:"id"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Weight int     `json:"weight"`
	Stock  uint    `json:"stock"`
}

type ProductClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewProductClient(productServiceURL string) *ProductClient {
	return &ProductClient{
		baseURL:    productServiceURL,
		httpClient: newHTTPClient(),
	}
}

func (c *ProductClient) GetProduct(ctx context.Context, productID uint) (*Product, error) {
	url := fmt.Sprintf("%s/api/v1/products/%d", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, upstream("product", fmt.Errorf("create request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, upstream("product", fmt.Errorf("do request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, upstream("product", fmt.Errorf("product %d not found", productID))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, upstream("product", fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	var result Product
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, upstream("product", fmt.Errorf("decode response: %w", err))
	}

	return &result, nil
}

func (c *ProductClient) DecreaseStock(ctx context.Context, productID uint, quantity uint) error {
	body, err := json.Marshal(map[string]uint{"quantity": quantity})
	if err != nil {
		return upstream("product", fmt.Errorf("encode request: %w", err))
	}

	url := fmt.Sprintf("%s/api/v1/products/%d/decrease-stock", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return upstream("product", fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return upstream("product", fmt.Errorf("do request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return upstream("product", fmt.Errorf("decrease stock failed with status: %d", resp.StatusCode))
	}

	return nil
}
