// Package escrow provides an escrow contract state machine for marketplace
// job payments: funds are custodied when a job is created, released to the
// freelancer minus a platform fee on completion, and split between the two
// parties when the owner resolves a dispute.
//
// This is the main package users should import. It re-exports the public
// types from the internal pkg/ packages for a clean API surface.
//
// Basic usage:
//
//	// Create storage and engine
//	db, _ := gorm.Open(sqlite.Open("escrow.db"), &gorm.Config{})
//	store := escrow.NewGormStore(db)
//	store.Migrate(context.Background())
//	eng := escrow.New(store)
//	eng.Init(ctx, "platform-owner", "platform-treasury", 250)
//
//	// Fund, complete, and settle a job
//	id, _ := eng.CreateJob(ctx, "job-1", "freelancer-1", "bafy...", 1_000_000, "client-1")
//	eng.CompleteJob(ctx, id, "client-1")
//	eng.ReleasePayment(ctx, id, "client-1")
package escrow

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/gignova/escrow/pkg/access"
	"github.com/gignova/escrow/pkg/audit"
	"github.com/gignova/escrow/pkg/core"
	"github.com/gignova/escrow/pkg/engine"
	"github.com/gignova/escrow/storage"
)

// Type aliases for the public API surface
type (
	// JobContract is the permanent settlement record for a single job.
	JobContract = core.JobContract

	// ContractStatus represents the settlement state of a job contract.
	ContractStatus = core.ContractStatus

	// PlatformConfig is the process-wide owner and fee configuration.
	PlatformConfig = core.PlatformConfig

	// CustodyAccount holds the undisbursed balance custodied for a contract.
	CustodyAccount = core.CustodyAccount

	// Transfer is one journaled fund movement for a contract.
	Transfer = core.Transfer

	// Event is the interface for all committed settlement events.
	Event = core.Event

	// EventRecord is the persisted, totally ordered form of an event.
	EventRecord = core.EventRecord

	// JobCreated is emitted when a contract is funded.
	JobCreated = core.JobCreated

	// JobCompleted is emitted when the client marks the job completed.
	JobCompleted = core.JobCompleted

	// PaymentReleased is emitted when custody is disbursed on the happy path.
	PaymentReleased = core.PaymentReleased

	// DisputeCreated is emitted when either party opens a dispute.
	DisputeCreated = core.DisputeCreated

	// DisputeResolved is emitted when the owner splits custody between the parties.
	DisputeResolved = core.DisputeResolved

	// FeeChanged is emitted when the owner updates the platform fee.
	FeeChanged = core.FeeChanged

	// Store defines the persistence layer for the escrow core.
	Store = core.Store

	// Engine is the escrow state machine.
	Engine = engine.Engine

	// Option configures an Engine.
	Option = engine.Option

	// Role classifies a caller relative to the platform and a contract.
	Role = access.Role

	// Auditor runs the scheduled custody invariant sweep.
	Auditor = audit.Auditor

	// Finding describes one custody invariant violation.
	Finding = audit.Finding

	// GormStore implements Store using GORM.
	GormStore = storage.GormStore
)

// Status constants
const (
	StatusCreated   = core.StatusCreated
	StatusCompleted = core.StatusCompleted
	StatusDisputed  = core.StatusDisputed
	StatusPaid      = core.StatusPaid
)

// Role constants
const (
	RoleOther      = access.RoleOther
	RoleOwner      = access.RoleOwner
	RoleClient     = access.RoleClient
	RoleFreelancer = access.RoleFreelancer
)

// Basis point limits
const (
	BasisPointsDenominator = core.BasisPointsDenominator
	MaxFeeBasisPoints      = core.MaxFeeBasisPoints
	MaxShareBasisPoints    = core.MaxShareBasisPoints
)

// Error variables
var (
	ErrInvalidAmount       = core.ErrInvalidAmount
	ErrNotFound            = core.ErrNotFound
	ErrInvalidState        = core.ErrInvalidState
	ErrUnauthorized        = core.ErrUnauthorized
	ErrInvalidShare        = core.ErrInvalidShare
	ErrFeeExceedsMax       = core.ErrFeeExceedsMax
	ErrInsufficientCustody = core.ErrInsufficientCustody
)

// New creates an Engine backed by the given store.
func New(s Store, opts ...Option) *Engine {
	return engine.New(s, opts...)
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) *GormStore {
	return storage.NewGormStore(db)
}

// NewAuditor creates a custody auditor over the given store.
func NewAuditor(s Store, logger *slog.Logger) *Auditor {
	return audit.New(s, logger)
}

// WithLogger sets the logger used for operation logging.
func WithLogger(l *slog.Logger) Option {
	return engine.WithLogger(l)
}

// SplitFee divides amount into the platform fee and the freelancer share.
func SplitFee(amount, feeBasisPoints int64) (fee, freelancerShare int64) {
	return core.SplitFee(amount, feeBasisPoints)
}

// SplitShare divides amount between client and freelancer for a dispute resolution.
func SplitShare(amount, clientShareBasisPoints int64) (clientAmount, freelancerAmount int64) {
	return core.SplitShare(amount, clientShareBasisPoints)
}

// ResolveRole determines the caller's role for a contract.
func ResolveRole(identity, owner string, c *JobContract) Role {
	return access.Resolve(identity, owner, c)
}

// CanTransition reports whether a contract may move between two statuses.
func CanTransition(from, to ContractStatus) bool {
	return core.CanTransition(from, to)
}
