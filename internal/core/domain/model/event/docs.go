// Package event defines the notifications pushed to live viewers. Each kind is its own type;
// the queue only ever sees the JSON envelope produced by Encode:
//
//	{"event": "updatedOrderHandlingStatus", "data": {"order_id": "...", "state": "SENDING_TRACKING", "status": "SUCCESS"}}
//
// The envelope kind doubles as the SSE event name and every kind is bound to exactly one channel.
package event
