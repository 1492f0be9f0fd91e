package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/handling"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ErrShipmentExists is the failure message of a shipment stage for an order that already has one.
var ErrShipmentExists = errors.New("shipment already exists")

// Run carries the state of one orchestrator run between stages.
type Run struct {
	Order     *order.Order
	Shipment  *order.Shipment
	StartedAt time.Time
}

// NewRun starts a run for o.
func NewRun(o *order.Order, startedAt time.Time) *Run {
	return &Run{Order: o, StartedAt: startedAt}
}

// TrackingNumber returns the booked carrier shipment id, or "" when no shipment exists.
func (r *Run) TrackingNumber() string {
	if r.Shipment == nil {
		return ""
	}
	return r.Shipment.ShipmentID()
}

// Result is the outcome of a stage call. Apply, when set, is only invoked for a successful call
// and runs in the transaction that appends the handling record.
type Result struct {
	Response ports.ExternalResponse
	Apply    func(ctx context.Context, uow ports.UnitOfWork) error
}

// StageWork performs the external call of one stage. Implementations are shared by concurrent
// runs and must keep per-run state in the Run or the Result.
type StageWork interface {
	Stage() handling.Stage
	Call(ctx context.Context, run *Run) Result
}

// DefaultStages returns the fulfillment stages in execution order.
func DefaultStages(
	uowFactory ports.UnitOfWorkFactory,
	carrier ports.CarrierClient,
	marketplace ports.MarketplaceClient,
	clock func() time.Time,
) []StageWork {
	return []StageWork{
		NewGenerateShipment(uowFactory, carrier, clock),
		NewSendTracking(marketplace),
		NewMarkAsShipped(marketplace),
	}
}

// GenerateShipment books a shipment with the carrier and persists it on success.
// An order holds at most one shipment: when one is already stored the carrier is not called,
// the stage fails with ErrShipmentExists and later stages reuse the stored tracking number.
type GenerateShipment struct {
	uowFactory ports.UnitOfWorkFactory
	carrier    ports.CarrierClient
	clock      func() time.Time
}

func NewGenerateShipment(
	uowFactory ports.UnitOfWorkFactory,
	carrier ports.CarrierClient,
	clock func() time.Time,
) *GenerateShipment {
	return &GenerateShipment{uowFactory: uowFactory, carrier: carrier, clock: clock}
}

func (s *GenerateShipment) Stage() handling.Stage { return handling.GeneratingShipment }

func (s *GenerateShipment) Call(ctx context.Context, run *Run) Result {
	existing, err := s.uowFactory.Create().ShipmentRepository().GetByOrder(ctx, run.Order.ID())
	switch {
	case err == nil:
		run.Shipment = existing
		return Result{Response: ports.ExternalResponse{
			StatusCode: http.StatusConflict,
			Message:    ErrShipmentExists.Error(),
		}}
	case !errors.Is(err, errs.ErrObjectNotFound):
		return Result{Response: ports.ExternalResponse{
			StatusCode: http.StatusServiceUnavailable,
			Message:    fmt.Sprintf("look up shipment: %v", err),
		}}
	}

	booking, resp := s.carrier.CreateShipment(ctx, run.Order)
	return Result{
		Response: resp,
		Apply: func(ctx context.Context, uow ports.UnitOfWork) error {
			shipment, err := order.NewShipment(
				kernel.NewUUID(),
				run.Order.ID(),
				booking.ShipmentID,
				booking.CarrierName,
				booking.CarrierCode,
				s.clock(),
			)
			if err != nil {
				return err
			}
			if err = uow.ShipmentRepository().Add(ctx, shipment); err != nil {
				return err
			}
			run.Shipment = shipment
			return nil
		},
	}
}

// SendTracking sends the carrier tracking number back to the marketplace.
type SendTracking struct {
	marketplace ports.MarketplaceClient
}

func NewSendTracking(marketplace ports.MarketplaceClient) *SendTracking {
	return &SendTracking{marketplace: marketplace}
}

func (s *SendTracking) Stage() handling.Stage { return handling.SendingTracking }

func (s *SendTracking) Call(ctx context.Context, run *Run) Result {
	return Result{Response: s.marketplace.SendTrackingNumber(ctx, run.Order, run.TrackingNumber())}
}

// MarkAsShipped confirms the shipment on the marketplace.
type MarkAsShipped struct {
	marketplace ports.MarketplaceClient
}

func NewMarkAsShipped(marketplace ports.MarketplaceClient) *MarkAsShipped {
	return &MarkAsShipped{marketplace: marketplace}
}

func (s *MarkAsShipped) Stage() handling.Stage { return handling.MarkingAsShipped }

func (s *MarkAsShipped) Call(ctx context.Context, run *Run) Result {
	return Result{Response: s.marketplace.MarkAsShipped(ctx, run.Order)}
}
