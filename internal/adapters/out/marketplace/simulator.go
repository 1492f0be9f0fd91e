// Package marketplace simulates the carrier and marketplace APIs the fulfillment stages call.
// Every call takes a fixed latency and fails with a configurable probability.
package marketplace

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// FailureMessage is the body of a simulated failed call.
const FailureMessage = "Invalid data provided"

// Config holds the latency and the failure percentage of each simulated call.
type Config struct {
	Latency            time.Duration
	ShipmentFailurePct int
	TrackingFailurePct int
	ShippedFailurePct  int
}

// DefaultConfig returns the stage-specific defaults.
func DefaultConfig() Config {
	return Config{
		Latency:            500 * time.Millisecond,
		ShipmentFailurePct: 10,
		TrackingFailurePct: 5,
		ShippedFailurePct:  2,
	}
}

type carrier struct {
	name string
	code string
}

var carriers = []carrier{
	{name: "PostNord", code: "PN"},
	{name: "DHL Express", code: "DHL"},
	{name: "UPS", code: "UPS"},
	{name: "Bring", code: "BRING"},
}

// Simulator implements ports.CarrierClient and ports.MarketplaceClient.
type Simulator struct {
	cfg    Config
	mu     sync.Mutex
	rnd    *rand.Rand
	logger *slog.Logger
}

// Option customizes a Simulator.
type Option func(*Simulator)

// WithRand makes outcomes reproducible.
func WithRand(r *rand.Rand) Option {
	return func(s *Simulator) {
		s.rnd = r
	}
}

func NewSimulator(cfg Config, logger *slog.Logger, opts ...Option) *Simulator {
	s := &Simulator{
		cfg:    cfg,
		rnd:    rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)), //nolint:gosec // simulation only
		logger: logger.With("component", "MarketplaceSimulator"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulator) CreateShipment(ctx context.Context, o *order.Order) (ports.ShipmentBooking, ports.ExternalResponse) {
	resp := s.call(ctx, "create_shipment", o, s.cfg.ShipmentFailurePct)
	if !resp.Succeeded() {
		return ports.ShipmentBooking{}, resp
	}

	s.mu.Lock()
	c := carriers[s.rnd.IntN(len(carriers))]
	s.mu.Unlock()

	id := strings.ToUpper(strings.ReplaceAll(kernel.NewUUID().String(), "-", ""))
	return ports.ShipmentBooking{
		ShipmentID:  c.code + "-" + id[:16],
		CarrierName: c.name,
		CarrierCode: c.code,
	}, ports.ExternalResponse{StatusCode: http.StatusCreated, Message: "Shipment created"}
}

func (s *Simulator) SendTrackingNumber(ctx context.Context, o *order.Order, trackingNumber string) ports.ExternalResponse {
	s.logger.DebugContext(ctx, "sending tracking number", "order_id", o.ID().String(), "tracking_number", trackingNumber)
	return s.call(ctx, "send_tracking_number", o, s.cfg.TrackingFailurePct)
}

func (s *Simulator) MarkAsShipped(ctx context.Context, o *order.Order) ports.ExternalResponse {
	return s.call(ctx, "mark_as_shipped", o, s.cfg.ShippedFailurePct)
}

func (s *Simulator) call(ctx context.Context, operation string, o *order.Order, failurePct int) ports.ExternalResponse {
	if s.cfg.Latency > 0 {
		timer := time.NewTimer(s.cfg.Latency)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ports.ExternalResponse{StatusCode: http.StatusServiceUnavailable, Message: ctx.Err().Error()}
		}
	}

	s.mu.Lock()
	roll := s.rnd.IntN(100)
	s.mu.Unlock()

	if roll < min(max(failurePct, 0), 100) {
		s.logger.DebugContext(ctx, "simulated call failed", "operation", operation, "order_id", o.ID().String())
		return ports.ExternalResponse{StatusCode: http.StatusBadRequest, Message: FailureMessage}
	}
	return ports.ExternalResponse{StatusCode: http.StatusOK, Message: "OK"}
}
