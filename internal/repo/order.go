package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sawitmart/order-service/internal/models"
)

type OrderRepo struct {
	DB *gorm.DB
}

// CreateOrder writes the order together with its items in one transaction.
func (r *OrderRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.DB.WithContext(ctx).Create(order).Error; err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	return order, nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Preload("Items").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepo) GetByPaymentReference(ctx context.Context, reference string) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).Preload("Items").Where("payment_reference = ?", reference).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepo) ListOrders(ctx context.Context, limit, offset int) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).Preload("Items").
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// MarkPaid sets the payment status to PAID and moves the order to PROCESSED.
// Calling it on an already-paid order is a no-op.
func (r *OrderRepo) MarkPaid(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", id, models.PaymentStatusUnpaid).
		Updates(map[string]any{
			"payment_status": models.PaymentStatusPaid,
			"status":         models.OrderStatusProcessed,
		}).Error
}

// SetShippingReceipt stores the receipt issued by logistics. A real receipt
// also advances the order to SHIPPED; a placeholder leaves the status alone
// so an operator can reconcile it later.
func (r *OrderRepo) SetShippingReceipt(ctx context.Context, id uint, receipt string, shipped bool) error {
	updates := map[string]any{"shipping_receipt": receipt}
	if shipped {
		updates["status"] = models.OrderStatusShipped
	}
	return r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}
