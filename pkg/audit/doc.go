// Package audit provides a scheduled custody invariant sweep over the store.
//
// The auditor never mutates state. A finding means the store has been
// corrupted outside the engine's transaction boundary and the deployment
// needs operator attention.
package audit
