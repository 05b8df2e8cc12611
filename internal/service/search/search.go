package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/sawitmart/order-service/internal/models"
)

// Index writes one order document so that operators can search orders by
// reference, address or method without hitting the relational store.
func Index(ctx context.Context, es *elasticsearch.Client, index string, order *models.Order) error {
	doc := map[string]any{
		"id":                order.ID,
		"status":            order.Status,
		"payment_status":    order.PaymentStatus,
		"payment_reference": order.PaymentReference,
		"shipping_address":  order.ShippingAddress,
		"shipping_method":   order.ShippingMethod,
		"destination_city":  order.DestinationCity,
		"total_amount":      order.TotalAmount,
		"created_at":        order.CreatedAt,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("index order: %w", err)
	}

	res, err := es.Index(
		index,
		&buf,
		es.Index.WithContext(ctx),
		es.Index.WithDocumentID(strconv.FormatUint(uint64(order.ID), 10)),
	)
	if err != nil {
		return fmt.Errorf("index order: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index order: %s", res.Status())
	}
	return nil
}

// Search runs a fuzzy multi-field query over indexed orders.
func Search(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []models.Order, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"payment_reference^2", "shipping_address", "shipping_method", "status"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search orders: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search orders: %w", err)
	}

	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search orders: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Order `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	orders := make([]models.Order, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		orders[i] = hit.Source
	}
	return r.Hits.Total.Value, orders, nil
}

// Indexer adapts the package functions to the order service's indexing hook.
type Indexer struct {
	ES        *elasticsearch.Client
	IndexName string
}

func (i *Indexer) IndexOrder(ctx context.Context, order *models.Order) error {
	return Index(ctx, i.ES, i.IndexName, order)
}
