package core

import (
	"time"
)

// ContractStatus represents the settlement state of a job contract.
type ContractStatus string

const (
	StatusCreated   ContractStatus = "created"
	StatusCompleted ContractStatus = "completed"
	StatusDisputed  ContractStatus = "disputed"
	StatusPaid      ContractStatus = "paid" // Terminal, record becomes read-only
)

// CanTransition reports whether a contract may move between two statuses.
// The allowed paths are created -> {completed, disputed},
// completed -> {disputed, paid}, and disputed -> paid.
func CanTransition(from, to ContractStatus) bool {
	switch from {
	case StatusCreated:
		return to == StatusCompleted || to == StatusDisputed
	case StatusCompleted:
		return to == StatusDisputed || to == StatusPaid
	case StatusDisputed:
		return to == StatusPaid
	default:
		return false
	}
}

// JobContract is the permanent settlement record for a single job.
// Only Status and SettledAt change after creation; everything else is fixed
// when the contract is funded.
type JobContract struct {
	ID         string         `gorm:"primaryKey;size:36"`
	JobID      string         `gorm:"index;size:255;not null"`
	Client     string         `gorm:"size:255;not null"`
	Freelancer string         `gorm:"size:255;not null"`
	Amount     int64          `gorm:"not null"` // Smallest currency unit, always > 0
	ContentRef string         `gorm:"size:255"` // Opaque deliverable reference, never interpreted
	Status     ContractStatus `gorm:"index;size:20;default:'created'"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	SettledAt  *time.Time
}

// PlatformConfigID is the primary key of the singleton configuration row.
const PlatformConfigID = 1

// PlatformConfig is the process-wide platform configuration. Owner is fixed
// at initialization; FeeBasisPoints is mutable by the owner only.
type PlatformConfig struct {
	ID             uint      `gorm:"primaryKey"`
	Owner          string    `gorm:"size:255;not null"`
	Treasury       string    `gorm:"size:255"`
	FeeBasisPoints int64     `gorm:"default:0"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// FeeRecipient returns the identity that collects platform fees.
// It falls back to the owner when no distinct treasury is configured.
func (c *PlatformConfig) FeeRecipient() string {
	if c.Treasury != "" {
		return c.Treasury
	}
	return c.Owner
}

// CustodyAccount holds the undisbursed balance custodied for a contract.
type CustodyAccount struct {
	ContractID string    `gorm:"primaryKey;size:36"`
	Balance    int64     `gorm:"not null;default:0"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// Transfer kinds recorded in the journal.
const (
	TransferDeposit = "deposit" // Funds entering custody at creation
	TransferRelease = "release" // Freelancer payout
	TransferFee     = "fee"     // Platform fee payout
	TransferRefund  = "refund"  // Client share of a dispute resolution
)

// Transfer is one journaled fund movement for a contract. Deposits carry an
// empty recipient; every disbursement names the identity paid.
type Transfer struct {
	ID         string    `gorm:"primaryKey;size:36"`
	ContractID string    `gorm:"index;size:36;not null"`
	Recipient  string    `gorm:"size:255"`
	Amount     int64     `gorm:"not null"`
	Kind       string    `gorm:"size:20;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}
