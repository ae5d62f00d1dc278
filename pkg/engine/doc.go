// Package engine implements the escrow contract state machine.
//
// The Engine is the only component that mutates contract state or moves
// custodied value. Operations are admitted one at a time; each validates all
// of its preconditions, then applies the status change, fund transfers, and
// event append inside a single store transaction. Subscribers see an event
// only after its transaction has committed.
package engine
