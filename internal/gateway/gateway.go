// Package gateway holds the typed HTTP clients for the downstream
// product, logistics and payment collaborators.
package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrShipmentExists reports that the logistics collaborator already holds a
// shipment for the order, signalled by a machine-readable code in the
// response body rather than by matching error text.
var ErrShipmentExists = errors.New("shipment already exists")

// UpstreamError wraps any unexpected failure of a downstream call.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s service: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

func upstream(service string, err error) error {
	return &UpstreamError{Service: service, Err: err}
}

// errorBody is the error envelope every collaborator returns on non-2xx.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 5 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
