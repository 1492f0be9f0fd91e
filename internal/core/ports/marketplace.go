package ports

import (
	"context"
	"net/http"

	"fulfillment/internal/core/domain/model/order"
)

// ExternalResponse is the answer of a carrier or marketplace call. Failed calls are
// data, not errors.
type ExternalResponse struct {
	StatusCode int
	Message    string
}

// Succeeded reports a non-error HTTP status.
func (r ExternalResponse) Succeeded() bool {
	return r.StatusCode > 0 && r.StatusCode < http.StatusBadRequest
}

// ShipmentBooking is what the carrier returns for a booked shipment.
type ShipmentBooking struct {
	ShipmentID  string
	CarrierName string
	CarrierCode string
}

// CarrierClient books shipments.
type CarrierClient interface {
	CreateShipment(ctx context.Context, o *order.Order) (ShipmentBooking, ExternalResponse)
}

// MarketplaceClient reports fulfillment progress back to the marketplace the order came from.
// trackingNumber is empty when no shipment was booked.
type MarketplaceClient interface {
	SendTrackingNumber(ctx context.Context, o *order.Order, trackingNumber string) ExternalResponse
	MarkAsShipped(ctx context.Context, o *order.Order) ExternalResponse
}
