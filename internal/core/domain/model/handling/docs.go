// Package handling models the audit trail of the order handling pipeline: the stages an order goes
// through, the outcome of each attempt and the append-only records that capture them.
package handling
