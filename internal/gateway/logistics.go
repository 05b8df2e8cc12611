package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type ShippingOption struct {
	Method  string  `json:"method"`
	Cost    float64 `json:"cost"`
	ETADays int     `json:"eta_days"`
}

type ShipmentRequest struct {
	OrderID         uint   `json:"order_id"`
	Address         string `json:"address"`
	PickupAddress   string `json:"pickup_address"`
	Weight          int    `json:"weight"`
	OriginCity      string `json:"origin_city"`
	DestinationCity string `json:"destination_city"`
	Method          string `json:"method"`
}

type Shipment struct {
	Receipt string `json:"receipt"`
	Status  string `json:"status"`
}

type LogisticsClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewLogisticsClient(logisticServiceURL string) *LogisticsClient {
	return &LogisticsClient{
		baseURL:    logisticServiceURL,
		httpClient: newHTTPClient(),
	}
}

func (c *LogisticsClient) GetShippingOptions(ctx context.Context, originCity, destinationCity string, weight int) ([]ShippingOption, error) {
	payload := map[string]any{
		"origin_city":      originCity,
		"destination_city": destinationCity,
		"weight":           weight,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, upstream("logistics", fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/shipping/options", bytes.NewReader(body))
	if err != nil {
		return nil, upstream("logistics", fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, upstream("logistics", fmt.Errorf("do request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstream("logistics", fmt.Errorf("shipping options failed with status: %d", resp.StatusCode))
	}

	var result struct {
		Options []ShippingOption `json:"options"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, upstream("logistics", fmt.Errorf("decode response: %w", err))
	}

	return result.Options, nil
}

func (c *LogisticsClient) CreateShipment(ctx context.Context, shipment ShipmentRequest) (*Shipment, error) {
	body, err := json.Marshal(shipment)
	if err != nil {
		return nil, upstream("logistics", fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/shipments", bytes.NewReader(body))
	if err != nil {
		return nil, upstream("logistics", fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, upstream("logistics", fmt.Errorf("do request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		var e errorBody
		if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Code == "SHIPMENT_EXISTS" {
			return nil, upstream("logistics", ErrShipmentExists)
		}
		return nil, upstream("logistics", fmt.Errorf("shipment conflict"))
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, upstream("logistics", fmt.Errorf("create shipment failed with status: %d", resp.StatusCode))
	}

	var result Shipment
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, upstream("logistics", fmt.Errorf("decode response: %w", err))
	}

	return &result, nil
}
