package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/v1/products/7", r.URL.Path)
		json.NewEncoder(w).Encode(Product{ID: 7, Name: "Kamera Mirrorless", Price: 15000000, Weight: 171, Stock: 10})
	}))
	defer srv.Close()

	c := NewProductClient(srv.URL)
	product, err := c.GetProduct(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, "Kamera Mirrorless", product.Name)
	require.Equal(t, float64(15000000), product.Price)
	require.Equal(t, 171, product.Weight)
	require.EqualValues(t, 10, product.Stock)
}

func TestGetProductNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewProductClient(srv.URL)
	_, err := c.GetProduct(context.Background(), 99)
	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	require.Equal(t, "product", upstreamErr.Service)
}

func TestDecreaseStock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/products/7/decrease-stock", r.URL.Path)
		var body map[string]uint
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.EqualValues(t, 2, body["quantity"])
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewProductClient(srv.URL)
	require.NoError(t, c.DecreaseStock(context.Background(), 7, 2))
}

func TestGetShippingOptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/shipping/options", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "1", body["origin_city"])
		require.Equal(t, "23", body["destination_city"])
		require.EqualValues(t, 171, body["weight"])
		json.NewEncoder(w).Encode(map[string]any{
			"options": []ShippingOption{{Method: "REGULER", Cost: 10855, ETADays: 3}},
		})
	}))
	defer srv.Close()

	c := NewLogisticsClient(srv.URL)
	options, err := c.GetShippingOptions(context.Background(), "1", "23", 171)
	require.NoError(t, err)
	require.Len(t, options, 1)
	require.Equal(t, "REGULER", options[0].Method)
	require.Equal(t, float64(10855), options[0].Cost)
}

func TestCreateShipment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/shipments", r.URL.Path)
		var body ShipmentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.EqualValues(t, 12, body.OrderID)
		require.Equal(t, "REGULER", body.Method)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Shipment{Receipt: "RESI-112233", Status: "PICKUP_SCHEDULED"})
	}))
	defer srv.Close()

	c := NewLogisticsClient(srv.URL)
	shipment, err := c.CreateShipment(context.Background(), ShipmentRequest{
		OrderID:         12,
		Address:         "Jl. Kenanga No. 5",
		PickupAddress:   "Gudang Pusat Jakarta",
		Weight:          171,
		OriginCity:      "1",
		DestinationCity: "23",
		Method:          "REGULER",
	})
	require.NoError(t, err)
	require.Equal(t, "RESI-112233", shipment.Receipt)
}

func TestCreateShipmentDuplicateCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    "SHIPMENT_EXISTS",
			"message": "shipment for order 12 already exists",
		})
	}))
	defer srv.Close()

	c := NewLogisticsClient(srv.URL)
	_, err := c.CreateShipment(context.Background(), ShipmentRequest{OrderID: 12})
	require.ErrorIs(t, err, ErrShipmentExists)
}

func TestCreateTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/transactions", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.EqualValues(t, 15010855, body["amount"])
		require.Equal(t, "PAYMENT", body["type"])
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Transaction{TransactionID: "trx-1", PaymentReference: "VA-889900", Status: "PENDING"})
	}))
	defer srv.Close()

	c := NewPaymentClient(srv.URL)
	trx, err := c.CreateTransaction(context.Background(), 15010855)
	require.NoError(t, err)
	require.Equal(t, "VA-889900", trx.PaymentReference)
}

func TestCreateTransactionUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewPaymentClient(srv.URL)
	_, err := c.CreateTransaction(context.Background(), 100)
	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	require.Equal(t, "payment", upstreamErr.Service)
}
