package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type Transaction struct {
	TransactionID    string `json:"transaction_id"`
	PaymentReference string `json:"payment_reference"`
	Status           string `json:"status"`
}

type PaymentClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewPaymentClient(paymentServiceURL string) *PaymentClient {
	return &PaymentClient{
		baseURL:    paymentServiceURL,
		httpClient: newHTTPClient(),
	}
}

// CreateTransaction asks the payment collaborator for a virtual-account
// style reference tracking an outstanding charge of the given amount.
func (c *PaymentClient) CreateTransaction(ctx context.Context, amount float64) (*Transaction, error) {
	payload := map[string]any{
		"amount": amount,
		"type":   "PAYMENT",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, upstream("payment", fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/transactions", bytes.NewReader(body))
	if err != nil {
		return nil, upstream("payment", fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, upstream("payment", fmt.Errorf("do request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, upstream("payment", fmt.Errorf("create transaction failed with status: %d", resp.StatusCode))
	}

	var result Transaction
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, upstream("payment", fmt.Errorf("decode response: %w", err))
	}

	return &result, nil
}
