package handling

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrRecordIsNotConstructed is returned when a Record was not created through NewRecord or RestoreRecord.
var ErrRecordIsNotConstructed = errors.New("Record must be created via NewRecord constructor")

// Record is one immutable audit entry of the handling process: which stage ran for which order,
// how it ended and when. Records are only ever appended; a rerun of a stage produces a new record.
//
// Invariants:
//   - finished at is not before started at
//   - a FAILED record may carry a message, a SUCCEEDED one usually does not
type Record struct {
	id         kernel.UUID
	orderID    kernel.UUID
	stage      Stage
	status     Status
	message    string
	startedAt  time.Time
	finishedAt time.Time
	createdAt  time.Time

	isConstructed bool
}

// NewRecord builds a record for a finished stage attempt.
//
// Example:
//
//	started := time.Now()
//	resp := carrier.GenerateShipment(ctx, o)
//	rec, err := handling.NewRecord(kernel.NewUUID(), o.ID(), handling.GeneratingShipment,
//	    handling.Failed, resp.Message, started, time.Now())
func NewRecord(
	id, orderID kernel.UUID,
	stage Stage,
	status Status,
	message string,
	startedAt, finishedAt time.Time,
) (*Record, error) {
	return RestoreRecord(id, orderID, stage, status, message, startedAt, finishedAt, time.Now())
}

// RestoreRecord rebuilds a persisted record.
func RestoreRecord(
	id, orderID kernel.UUID,
	stage Stage,
	status Status,
	message string,
	startedAt, finishedAt, createdAt time.Time,
) (*Record, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		stage.Validate(),
		status.Validate(),
		validateInterval(startedAt, finishedAt),
	); err != nil {
		return nil, err
	}

	return &Record{
		id:            id,
		orderID:       orderID,
		stage:         stage,
		status:        status,
		message:       message,
		startedAt:     startedAt.UTC(),
		finishedAt:    finishedAt.UTC(),
		createdAt:     createdAt.UTC(),
		isConstructed: true,
	}, nil
}

func (r *Record) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRecordIsNotConstructed
	}
	return nil
}

func (r *Record) ID() kernel.UUID       { return r.id }
func (r *Record) OrderID() kernel.UUID  { return r.orderID }
func (r *Record) Stage() Stage          { return r.stage }
func (r *Record) Status() Status        { return r.status }
func (r *Record) Message() string       { return r.message }
func (r *Record) StartedAt() time.Time  { return r.startedAt }
func (r *Record) FinishedAt() time.Time { return r.finishedAt }
func (r *Record) CreatedAt() time.Time  { return r.createdAt }

// Succeeded reports whether the stage attempt succeeded.
func (r *Record) Succeeded() bool {
	return r.status == Succeeded
}

func validateInterval(startedAt, finishedAt time.Time) error {
	if startedAt.IsZero() {
		return errs.NewValueIsRequiredError("started_at")
	}
	if finishedAt.Before(startedAt) {
		return errs.NewValueIsInvalidErrorWithCause(
			"finished_at",
			fmt.Errorf("%s is before started at %s", finishedAt.Format(time.RFC3339Nano), startedAt.Format(time.RFC3339Nano)),
		)
	}
	return nil
}
