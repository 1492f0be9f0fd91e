package handling

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Stage is one step of the fulfillment pipeline. Stages run strictly in declaration order:
//
//	WAITING -> GENERATING_SHIPMENT -> SENDING_TRACKING -> MARKING_AS_SHIPPED -> HANDLED
type Stage int

const (
	// StageUnknown catches uninitialized Stage values.
	StageUnknown Stage = iota

	// Waiting is recorded when the order is created and before it is dispatched.
	Waiting

	// GeneratingShipment books a shipment with the carrier.
	GeneratingShipment

	// SendingTracking sends the tracking number back to the marketplace.
	SendingTracking

	// MarkingAsShipped confirms the shipment on the marketplace.
	MarkingAsShipped

	// Handled closes the run.
	Handled
)

var stageNames = map[Stage]string{
	Waiting:            "WAITING",
	GeneratingShipment: "GENERATING_SHIPMENT",
	SendingTracking:    "SENDING_TRACKING",
	MarkingAsShipped:   "MARKING_AS_SHIPPED",
	Handled:            "HANDLED",
}

// PipelineStages lists the stages that call an external service, in execution order.
func PipelineStages() []Stage {
	return []Stage{GeneratingShipment, SendingTracking, MarkingAsShipped}
}

// ParseStage converts a persisted label back to a Stage.
func ParseStage(s string) (Stage, error) {
	for stage, name := range stageNames {
		if name == s {
			return stage, nil
		}
	}
	return StageUnknown, errs.NewValueIsInvalidErrorWithCause("stage", fmt.Errorf("%q is not a valid stage", s))
}

func (s Stage) Validate() error {
	if _, ok := stageNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("stage", fmt.Errorf("%d is not a valid stage", s))
	}
	return nil
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Status is the outcome of one stage attempt.
type Status int

const (
	StatusUnknown Status = iota
	Succeeded
	Failed
)

var statusNames = map[Status]string{
	Succeeded: "SUCCEEDED",
	Failed:    "FAILED",
}

// ParseStatus converts a persisted label back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if name == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}
