package core

import (
	"context"
	"time"
)

// Store defines the persistence layer for the escrow core.
//
// Atomically must be all-or-nothing: every mutation made through the store
// handed to fn commits together, or none of it does when fn returns an error.
type Store interface {
	// Migrate creates the necessary database tables.
	Migrate(ctx context.Context) error

	// Atomically runs fn against a transaction-scoped store.
	Atomically(ctx context.Context, fn func(Store) error) error

	// Contracts
	CreateContract(ctx context.Context, c *JobContract) error
	GetContract(ctx context.Context, contractID string) (*JobContract, error)
	UpdateContractStatus(ctx context.Context, contractID string, status ContractStatus, settledAt *time.Time) error
	ListContracts(ctx context.Context) ([]*JobContract, error)

	// Custody ledger
	Deposit(ctx context.Context, contractID string, amount int64) error
	TransferOut(ctx context.Context, contractID, recipient string, amount int64, kind string) error
	CustodyBalance(ctx context.Context, contractID string) (int64, error)
	ListTransfers(ctx context.Context, contractID string) ([]Transfer, error)

	// Platform configuration
	GetPlatformConfig(ctx context.Context) (*PlatformConfig, error)
	SavePlatformConfig(ctx context.Context, cfg *PlatformConfig) error

	// Event log
	AppendEvent(ctx context.Context, e Event) (*EventRecord, error)
	ListEvents(ctx context.Context, contractID string, limit int) ([]EventRecord, error)
}
