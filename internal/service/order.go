package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sawitmart/order-service/internal/gateway"
	"github.com/sawitmart/order-service/internal/logging"
	"github.com/sawitmart/order-service/internal/models"
	"github.com/sawitmart/order-service/internal/repo"
	"github.com/sawitmart/order-service/internal/util"
)

var (
	ErrValidation            = errors.New("validation")              // 400
	ErrInsufficientStock     = errors.New("insufficient stock")      // 422
	ErrInvalidShippingMethod = errors.New("invalid shipping method") // 422
)

const gatewayTimeout = 5 * time.Second

type ProductGateway interface {
	GetProduct(ctx context.Context, productID uint) (*gateway.Product, error)
	DecreaseStock(ctx context.Context, productID uint, quantity uint) error
}

type LogisticsGateway interface {
	GetShippingOptions(ctx context.Context, originCity, destinationCity string, weight int) ([]gateway.ShippingOption, error)
	CreateShipment(ctx context.Context, shipment gateway.ShipmentRequest) (*gateway.Shipment, error)
}

type PaymentGateway interface {
	CreateTransaction(ctx context.Context, amount float64) (*gateway.Transaction, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, key string, event interface{}) error
}

type OrderIndexer interface {
	IndexOrder(ctx context.Context, order *models.Order) error
}

type OrderService struct {
	Repo      *repo.OrderRepo
	Products  ProductGateway
	Logistics LogisticsGateway
	Payments  PaymentGateway
	Producer  EventPublisher
	Indexer   OrderIndexer

	OriginCityID  string
	PickupAddress string
}

type CreateOrderRequest struct {
	ProductID       uint   `json:"product_id"`
	Quantity        uint   `json:"quantity"`
	ShippingAddress string `json:"shipping_address"`
	DestinationCity string `json:"destination_city"`
	ShippingMethod  string `json:"shipping_method"`
}

// CreateOrder runs one checkout pass: validate stock, price shipping with the
// quoted cost as the authoritative one, collect a payment reference, decrease
// stock best-effort and persist the order atomically.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx)

	if req.ProductID == 0 {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}
	if req.Quantity == 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}
	if req.ShippingAddress == "" || req.DestinationCity == "" {
		return nil, fmt.Errorf("%w: shipping address and destination city required", ErrValidation)
	}
	if req.ShippingMethod == "" {
		return nil, fmt.Errorf("%w: shipping method required", ErrValidation)
	}

	product, err := s.getProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product.Stock < req.Quantity {
		return nil, fmt.Errorf("%w: available %d, requested %d", ErrInsufficientStock, product.Stock, req.Quantity)
	}

	totalWeight := product.Weight * int(req.Quantity)

	optCtx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()
	options, err := s.Logistics.GetShippingOptions(optCtx, s.OriginCityID, req.DestinationCity, totalWeight)
	if err != nil {
		return nil, err
	}

	var selected *gateway.ShippingOption
	for i := range options {
		if options[i].Method == req.ShippingMethod {
			selected = &options[i]
			break
		}
	}
	if selected == nil {
		return nil, fmt.Errorf("%w: %q not offered for this destination", ErrInvalidShippingMethod, req.ShippingMethod)
	}

	grandTotal := product.Price*float64(req.Quantity) + selected.Cost

	status := models.OrderStatusPending
	payCtx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()
	reference := ""
	if trx, err := s.Payments.CreateTransaction(payCtx, grandTotal); err != nil {
		// The payment collaborator being down must not block checkout: issue
		// a local reference and park the order for manual reconciliation.
		reference = fallbackReference()
		status = models.OrderStatusManualCheck
		l.Warn("payment gateway unavailable, using fallback reference",
			"reference", reference, "error", err)
	} else {
		reference = trx.PaymentReference
	}

	stockCtx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()
	if err := s.Products.DecreaseStock(stockCtx, req.ProductID, req.Quantity); err != nil {
		// Stock was already validated above; drift is repaired out-of-band.
		l.Warn("stock decrement failed", "product_id", req.ProductID, "error", err)
	}

	order := &models.Order{
		Status:           status,
		PaymentStatus:    models.PaymentStatusUnpaid,
		TotalAmount:      grandTotal,
		ShippingAddress:  req.ShippingAddress,
		ShippingMethod:   req.ShippingMethod,
		ShippingCost:     selected.Cost,
		PaymentReference: reference,
		DestinationCity:  req.DestinationCity,
		TotalWeight:      totalWeight,
		Items: []models.OrderItem{{
			ProductID:       req.ProductID,
			ProductName:     product.Name,
			Quantity:        req.Quantity,
			PriceAtPurchase: product.Price,
			WeightPerItem:   product.Weight,
		}},
	}

	if _, err := s.Repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, order.PaymentReference, map[string]any{
		"type":              "order_created",
		"order_id":          order.ID,
		"payment_reference": order.PaymentReference,
		"total_amount":      order.TotalAmount,
		"status":            order.Status,
	})
	s.index(ctx, order)

	l.Info("order created", "order_id", order.ID, "reference", order.PaymentReference, "total", order.TotalAmount)
	return order, nil
}

// GetShippingOptions quotes delivery for a product and quantity without
// creating an order.
func (s *OrderService) GetShippingOptions(ctx context.Context, destinationCity string, productID uint, quantity uint) ([]gateway.ShippingOption, error) {
	if productID == 0 || quantity == 0 {
		return nil, fmt.Errorf("%w: product_id and quantity required", ErrValidation)
	}
	if destinationCity == "" {
		return nil, fmt.Errorf("%w: destination city required", ErrValidation)
	}

	product, err := s.getProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	optCtx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()
	return s.Logistics.GetShippingOptions(optCtx, s.OriginCityID, destinationCity, product.Weight*int(quantity))
}

func (s *OrderService) ListOrders(ctx context.Context, page, size int) ([]models.Order, error) {
	offset, limit := util.Calculate(page, size)
	return s.Repo.ListOrders(ctx, limit, offset)
}

func (s *OrderService) GetOrderByPaymentReference(ctx context.Context, reference string) (*models.Order, error) {
	if reference == "" {
		return nil, fmt.Errorf("%w: payment reference required", ErrValidation)
	}
	return s.Repo.GetByPaymentReference(ctx, reference)
}

// UpdatePaymentStatus handles the asynchronous payment callback. It reports
// false for references this service never issued and true once the order is
// marked paid, whether or not the follow-up shipment request succeeded.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, reference, status string) (bool, error) {
	l := logging.FromContext(ctx)

	order, err := s.Repo.GetByPaymentReference(ctx, reference)
	if err != nil {
		return false, err
	}
	if order == nil {
		l.Info("payment callback for unknown reference", "reference", reference)
		return false, nil
	}

	if order.PaymentStatus != models.PaymentStatusPaid {
		if err := s.Repo.MarkPaid(ctx, order.ID); err != nil {
			return false, err
		}
		s.publish(ctx, reference, map[string]any{
			"type":              "order_paid",
			"order_id":          order.ID,
			"payment_reference": reference,
			"payment_status":    status,
		})
	}

	if order.ShippingReceipt != "" {
		// Shipment was already arranged by an earlier callback.
		return true, nil
	}

	receipt, shipped := s.requestShipment(ctx, order)
	if err := s.Repo.SetShippingReceipt(ctx, order.ID, receipt, shipped); err != nil {
		// Payment state stands; the missing receipt is found via the
		// logistics collaborator during reconciliation.
		l.Error("persisting shipping receipt failed", "order_id", order.ID, "error", err)
		return true, nil
	}

	if shipped {
		s.publish(ctx, reference, map[string]any{
			"type":     "order_shipped",
			"order_id": order.ID,
			"receipt":  receipt,
		})
	}

	return true, nil
}

// requestShipment asks logistics for a pickup and degrades to a placeholder
// receipt when the collaborator is unavailable, so the order never gets stuck.
func (s *OrderService) requestShipment(ctx context.Context, order *models.Order) (receipt string, shipped bool) {
	l := logging.FromContext(ctx)

	shipCtx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()
	shipment, err := s.Logistics.CreateShipment(shipCtx, gateway.ShipmentRequest{
		OrderID:         order.ID,
		Address:         order.ShippingAddress,
		PickupAddress:   s.PickupAddress,
		Weight:          order.TotalWeight,
		OriginCity:      s.OriginCityID,
		DestinationCity: order.DestinationCity,
		Method:          order.ShippingMethod,
	})
	if errors.Is(err, gateway.ErrShipmentExists) {
		// The collaborator already holds a shipment for this order, so the
		// retry is a success; derive a reconcilable receipt for our side.
		l.Info("shipment already exists at logistics", "order_id", order.ID)
		return fmt.Sprintf("RESI-DUP-%d", order.ID), true
	}
	if err != nil || shipment.Receipt == "" {
		l.Warn("shipment request failed, using placeholder receipt", "order_id", order.ID, "error", err)
		return fmt.Sprintf("MANUAL_CHECK-%d", order.ID), false
	}

	return shipment.Receipt, true
}

func (s *OrderService) getProduct(ctx context.Context, productID uint) (*gateway.Product, error) {
	prodCtx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()
	return s.Products.GetProduct(prodCtx, productID)
}

func (s *OrderService) publish(ctx context.Context, key string, event map[string]any) {
	if s.Producer == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), gatewayTimeout)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, key, event); err != nil {
		logging.FromContext(ctx).Warn("event publish failed", "key", key, "error", err)
	}
}

func (s *OrderService) index(ctx context.Context, order *models.Order) {
	if s.Indexer == nil {
		return
	}
	idxCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), gatewayTimeout)
	defer cancel()
	if err := s.Indexer.IndexOrder(idxCtx, order); err != nil {
		logging.FromContext(ctx).Warn("order indexing failed", "order_id", order.ID, "error", err)
	}
}

// fallbackReference issues a locally-unique virtual-account style reference
// when the payment collaborator cannot be reached.
func fallbackReference() string {
	return "VA-" + uuid.NewString()
}
