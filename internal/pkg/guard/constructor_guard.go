// Package guard helps value types detect whether they were built by their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in commands and queries that must only be created through a
// NewX function. The zero value reports "not constructed".
//
// Example:
//
//	type HandleOrdersCommand struct {
//	    orderIDs []string
//	    guard    guard.ConstructorGuard
//	}
//
//	func (c HandleOrdersCommand) Validate() error {
//	    return c.guard.Validate(ErrHandleOrdersCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when nil) for a zero-value guard.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
