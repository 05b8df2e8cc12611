package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sawitmart/order-service/internal/gateway"
	"github.com/sawitmart/order-service/internal/models"
	"github.com/sawitmart/order-service/internal/repo"
	"github.com/sawitmart/order-service/internal/service"
)

type stubProducts struct{ product gateway.Product }

func (s *stubProducts) GetProduct(ctx context.Context, productID uint) (*gateway.Product, error) {
	p := s.product
	return &p, nil
}

func (s *stubProducts) DecreaseStock(ctx context.Context, productID uint, quantity uint) error {
	return nil
}

type stubLogistics struct{}

func (s *stubLogistics) GetShippingOptions(ctx context.Context, originCity, destinationCity string, weight int) ([]gateway.ShippingOption, error) {
	return []gateway.ShippingOption{{Method: "REGULER", Cost: 10855, ETADays: 3}}, nil
}

func (s *stubLogistics) CreateShipment(ctx context.Context, shipment gateway.ShipmentRequest) (*gateway.Shipment, error) {
	return &gateway.Shipment{Receipt: "RESI-112233", Status: "PICKUP_SCHEDULED"}, nil
}

type stubPayments struct{}

func (s *stubPayments) CreateTransaction(ctx context.Context, amount float64) (*gateway.Transaction, error) {
	return &gateway.Transaction{TransactionID: "trx-1", PaymentReference: "VA-889900", Status: "PENDING"}, nil
}

type handlerEnv struct {
	e *echo.Echo
	h *OrderHandler
}

func newHandlerEnv(t *testing.T) *handlerEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Order{}, &models.OrderItem{}))

	svc := &service.OrderService{
		Repo:          &repo.OrderRepo{DB: db},
		Products:      &stubProducts{product: gateway.Product{ID: 7, Name: "Kamera Mirrorless", Price: 15000000, Weight: 171, Stock: 10}},
		Logistics:     &stubLogistics{},
		Payments:      &stubPayments{},
		OriginCityID:  "1",
		PickupAddress: "Gudang Pusat Jakarta",
	}

	return &handlerEnv{e: echo.New(), h: &OrderHandler{Svc: svc}}
}

func (env *handlerEnv) doJSONRequest(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	return rec, c
}

func createOrderBody() map[string]any {
	return map[string]any{
		"product_id":       7,
		"quantity":         1,
		"shipping_address": "Jl. Kenanga No. 5",
		"destination_city": "23",
		"shipping_method":  "REGULER",
	}
}

func TestCreateOrderHandler(t *testing.T) {
	env := newHandlerEnv(t)

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/orders", createOrderBody())
	require.NoError(t, env.h.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, float64(15010855), resp.TotalAmount)
	require.Equal(t, "VA-889900", resp.PaymentReference)
}

func TestCreateOrderHandlerInsufficientStock(t *testing.T) {
	env := newHandlerEnv(t)

	body := createOrderBody()
	body["quantity"] = 99

	_, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/orders", body)
	err := env.h.CreateOrder(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusUnprocessableEntity, httpErr.Code)
}

func TestGetOrderByReferenceHandlerNotFound(t *testing.T) {
	env := newHandlerEnv(t)

	_, c := env.doJSONRequest(t, http.MethodGet, "/api/v1/orders/by-reference/VA-missing", nil)
	c.SetParamNames("ref")
	c.SetParamValues("VA-missing")

	err := env.h.GetOrderByReference(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestUpdatePaymentStatusHandler(t *testing.T) {
	env := newHandlerEnv(t)

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/orders", createOrderBody())
	require.NoError(t, env.h.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	callback := map[string]string{"payment_reference": "VA-889900", "status": "PAID"}
	rec, c = env.doJSONRequest(t, http.MethodPost, "/api/v1/payments/callback", callback)
	require.NoError(t, env.h.UpdatePaymentStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp["success"])
}

func TestUpdatePaymentStatusHandlerUnknownReference(t *testing.T) {
	env := newHandlerEnv(t)

	callback := map[string]string{"payment_reference": "VA-never-issued", "status": "PAID"}
	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/v1/payments/callback", callback)
	require.NoError(t, env.h.UpdatePaymentStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp["success"])
}
