package order

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// ErrShipmentIsNotConstructed is returned when a zero-value Shipment is validated.
var ErrShipmentIsNotConstructed = errors.New("Shipment must be created via NewShipment constructor")

// Shipment is the carrier booking created by the shipment generation stage.
// An order has at most one shipment and the carrier shipment id is unique.
type Shipment struct {
	id          kernel.UUID
	orderID     kernel.UUID
	shipmentID  string
	carrierName string
	carrierCode string
	createdAt   time.Time
}

// NewShipment validates the carrier booking returned by the marketplace.
func NewShipment(
	id, orderID kernel.UUID,
	shipmentID, carrierName, carrierCode string,
	createdAt time.Time,
) (*Shipment, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		required("shipment_id", shipmentID),
		required("carrier_name", carrierName),
		required("carrier_code", carrierCode),
	); err != nil {
		return nil, err
	}

	return &Shipment{
		id:          id,
		orderID:     orderID,
		shipmentID:  shipmentID,
		carrierName: carrierName,
		carrierCode: carrierCode,
		createdAt:   createdAt.UTC(),
	}, nil
}

func (s *Shipment) ID() kernel.UUID      { return s.id }
func (s *Shipment) OrderID() kernel.UUID { return s.orderID }
func (s *Shipment) ShipmentID() string   { return s.shipmentID }
func (s *Shipment) CarrierName() string  { return s.carrierName }
func (s *Shipment) CarrierCode() string  { return s.carrierCode }
func (s *Shipment) CreatedAt() time.Time { return s.createdAt }

// Validate rejects nil and zero-value shipments.
func (s *Shipment) Validate() error {
	if s == nil || s.id.Validate() != nil {
		return ErrShipmentIsNotConstructed
	}
	return nil
}
