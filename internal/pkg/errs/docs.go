// Package errs provides the typed errors shared by the fulfillment domain and its adapters.
//
// Every error type wraps one sentinel so callers can branch with errors.Is:
//   - ObjectNotFoundError wraps ErrObjectNotFound (orders, shipments, records looked up by ID)
//   - ValueIsInvalidError wraps ErrValueIsInvalid (state transitions, malformed values)
//   - ValueIsRequiredError wraps ErrValueIsRequired (missing identifiers, names, currencies)
//   - ValueIsOutOfRangeError wraps ErrValueIsOutOfRange (quantities, percentages)
//
// Each type has a plain constructor and a ...WithCause variant that keeps the underlying error
// in the message.
package errs
