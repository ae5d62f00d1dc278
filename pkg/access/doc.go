// Package access resolves caller identities to roles for operation guards.
//
// Everything here is a pure function over an identity and a contract record;
// no state is read or mutated. The engine consumes these guards before any
// state change or fund movement.
package access
