package event

import (
	"encoding/json"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
)

// ErrUnknownKind is returned when an envelope carries a kind this package does not know.
var ErrUnknownKind = errors.New("unknown event kind")

// Kind names an event on the wire; it becomes the SSE "event:" line.
type Kind string

const (
	KindNewOrders                Kind = "newOrders"
	KindProcessingStatusChanged  Kind = "updatedOrderProcessingStatus"
	KindHandlingStatusChanged    Kind = "updatedOrderHandlingStatus"
	KindFulfillmentStatusChanged Kind = "updatedOrderFulfillmentStatus"
)

// Channel is a named FIFO queue of events.
type Channel string

const (
	ChannelNewOrders         Channel = "new-orders"
	ChannelProcessingStatus  Channel = "processing-status"
	ChannelHandlingStatus    Channel = "handling-status"
	ChannelFulfillmentStatus Channel = "fulfillment-status"
)

// Channels lists every channel in a stable order.
func Channels() []Channel {
	return []Channel{ChannelNewOrders, ChannelProcessingStatus, ChannelHandlingStatus, ChannelFulfillmentStatus}
}

// ParseChannel validates a channel name received from a client.
func ParseChannel(s string) (Channel, error) {
	for _, c := range Channels() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown channel %q", s)
}

// Event is implemented by every event variant.
type Event interface {
	Kind() Kind
	Channel() Channel
}

// ProcessingStatus is the coarse progress of an order through dispatch and handling.
type ProcessingStatus string

const (
	Queued     ProcessingStatus = "QUEUED"
	Processing ProcessingStatus = "PROCESSING"
	Processed  ProcessingStatus = "PROCESSED"
)

// Outcome is the result label of a stage as seen by viewers.
type Outcome string

const (
	Success Outcome = "SUCCESS"
	Failure Outcome = "FAILED"
)

// ProcessingStatusChanged is published when an order is queued, picked up and finished.
type ProcessingStatusChanged struct {
	OrderID kernel.UUID      `json:"order_id"`
	Status  ProcessingStatus `json:"status"`
}

func (ProcessingStatusChanged) Kind() Kind       { return KindProcessingStatusChanged }
func (ProcessingStatusChanged) Channel() Channel { return ChannelProcessingStatus }

// HandlingStatusChanged is published after every pipeline stage attempt.
type HandlingStatusChanged struct {
	OrderID kernel.UUID `json:"order_id"`
	State   string      `json:"state"`
	Status  Outcome     `json:"status"`
	Message string      `json:"message,omitempty"`
}

func (HandlingStatusChanged) Kind() Kind       { return KindHandlingStatusChanged }
func (HandlingStatusChanged) Channel() Channel { return ChannelHandlingStatus }

// FulfillmentStatusChanged is published when the fulfillment state of an order changes.
type FulfillmentStatusChanged struct {
	OrderID kernel.UUID `json:"order_id"`
	Status  string      `json:"status"`
}

func (FulfillmentStatusChanged) Kind() Kind       { return KindFulfillmentStatusChanged }
func (FulfillmentStatusChanged) Channel() Channel { return ChannelFulfillmentStatus }

// OrderPlaced is published for every order created through the bulk endpoint.
type OrderPlaced struct {
	Order OrderSnapshot
}

func (OrderPlaced) Kind() Kind       { return KindNewOrders }
func (OrderPlaced) Channel() Channel { return ChannelNewOrders }

// MarshalJSON flattens the snapshot so the data object is the order itself.
func (e OrderPlaced) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Order)
}

func (e *OrderPlaced) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &e.Order)
}

// Envelope is the queued representation of an event.
type Envelope struct {
	Kind Kind            `json:"event"`
	Data json.RawMessage `json:"data"`
}

// Encode wraps an event into its envelope bytes.
func Encode(e Event) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", e.Kind(), err)
	}
	return json.Marshal(Envelope{Kind: e.Kind(), Data: data})
}

// Decode parses envelope bytes without interpreting the data object.
func Decode(payload []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if env.Kind == "" || len(env.Data) == 0 {
		return Envelope{}, fmt.Errorf("decode envelope: missing event or data")
	}
	return env, nil
}

// Event decodes the data object into the variant named by the envelope kind.
func (env Envelope) Event() (Event, error) {
	var target Event
	switch env.Kind {
	case KindNewOrders:
		target = &OrderPlaced{}
	case KindProcessingStatusChanged:
		target = &ProcessingStatusChanged{}
	case KindHandlingStatusChanged:
		target = &HandlingStatusChanged{}
	case KindFulfillmentStatusChanged:
		target = &FulfillmentStatusChanged{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, env.Kind)
	}

	if err := json.Unmarshal(env.Data, target); err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Kind, err)
	}
	return target, nil
}
