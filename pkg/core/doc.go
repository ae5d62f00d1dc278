// Package core provides the fundamental types and interfaces for the escrow package.
//
// This package contains:
//   - JobContract, CustodyAccount, Transfer, and PlatformConfig data models with GORM annotations
//   - Store interface defining the persistence contract
//   - Event types for the committed settlement log
//   - Sentinel errors for operation rejection
//   - Exact integer money math for fee and dispute splits
//
// Most users should import the root package github.com/gignova/escrow
// instead of this package directly.
package core
