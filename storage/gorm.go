// Package storage provides the GORM-backed store for the escrow core.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gignova/escrow/pkg/core"
)

// GormStore implements core.Store using GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates the necessary tables.
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(
		&core.JobContract{},
		&core.CustodyAccount{},
		&core.Transfer{},
		&core.PlatformConfig{},
		&core.EventRecord{},
	)
}

// Atomically runs fn against a transaction-scoped store. Any error from fn
// rolls back every mutation made through that store.
func (s *GormStore) Atomically(ctx context.Context, fn func(core.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// CreateContract inserts a new job contract.
func (s *GormStore) CreateContract(ctx context.Context, c *core.JobContract) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = core.StatusCreated
	}
	return s.db.WithContext(ctx).Create(c).Error
}

// GetContract retrieves a contract by ID.
func (s *GormStore) GetContract(ctx context.Context, contractID string) (*core.JobContract, error) {
	var c core.JobContract
	err := s.db.WithContext(ctx).First(&c, "id = ?", contractID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateContractStatus moves a contract to a new status, recording the
// settlement time for terminal transitions.
func (s *GormStore) UpdateContractStatus(ctx context.Context, contractID string, status core.ContractStatus, settledAt *time.Time) error {
	updates := map[string]interface{}{
		"status": status,
	}
	if settledAt != nil {
		updates["settled_at"] = settledAt
	}

	result := s.db.WithContext(ctx).
		Model(&core.JobContract{}).
		Where("id = ?", contractID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return core.ErrNotFound
	}
	return nil
}

// ListContracts returns all contracts, oldest first.
func (s *GormStore) ListContracts(ctx context.Context) ([]*core.JobContract, error) {
	var contracts []*core.JobContract
	err := s.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&contracts).Error
	return contracts, err
}

// Deposit credits the custody account for a contract, creating the account
// on first use, and journals the movement.
func (s *GormStore) Deposit(ctx context.Context, contractID string, amount int64) error {
	var acct core.CustodyAccount
	err := s.db.WithContext(ctx).First(&acct, "contract_id = ?", contractID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		acct = core.CustodyAccount{ContractID: contractID, Balance: amount}
		if err := s.db.WithContext(ctx).Create(&acct).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if err := s.db.WithContext(ctx).
			Model(&core.CustodyAccount{}).
			Where("contract_id = ?", contractID).
			Update("balance", acct.Balance+amount).Error; err != nil {
			return err
		}
	}
	return s.journal(ctx, contractID, "", amount, core.TransferDeposit)
}

// TransferOut debits the custody balance for a contract and journals the
// disbursement to the recipient. It fails with ErrInsufficientCustody when
// the debit exceeds the remaining balance; under correct engine use this
// never triggers.
func (s *GormStore) TransferOut(ctx context.Context, contractID, recipient string, amount int64, kind string) error {
	var acct core.CustodyAccount
	err := s.db.WithContext(ctx).First(&acct, "contract_id = ?", contractID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return core.ErrInsufficientCustody
	}
	if err != nil {
		return err
	}
	if amount > acct.Balance {
		return core.ErrInsufficientCustody
	}

	if err := s.db.WithContext(ctx).
		Model(&core.CustodyAccount{}).
		Where("contract_id = ?", contractID).
		Update("balance", acct.Balance-amount).Error; err != nil {
		return err
	}
	return s.journal(ctx, contractID, recipient, amount, kind)
}

func (s *GormStore) journal(ctx context.Context, contractID, recipient string, amount int64, kind string) error {
	return s.db.WithContext(ctx).Create(&core.Transfer{
		ID:         uuid.New().String(),
		ContractID: contractID,
		Recipient:  recipient,
		Amount:     amount,
		Kind:       kind,
	}).Error
}

// CustodyBalance returns the undisbursed balance held for a contract.
// A contract with no custody account holds zero.
func (s *GormStore) CustodyBalance(ctx context.Context, contractID string) (int64, error) {
	var acct core.CustodyAccount
	err := s.db.WithContext(ctx).First(&acct, "contract_id = ?", contractID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return acct.Balance, nil
}

// ListTransfers returns the transfer journal for a contract, oldest first.
func (s *GormStore) ListTransfers(ctx context.Context, contractID string) ([]core.Transfer, error) {
	var transfers []core.Transfer
	err := s.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at ASC").
		Find(&transfers).Error
	return transfers, err
}

// GetPlatformConfig returns the singleton platform configuration.
func (s *GormStore) GetPlatformConfig(ctx context.Context) (*core.PlatformConfig, error) {
	var cfg core.PlatformConfig
	err := s.db.WithContext(ctx).First(&cfg, "id = ?", core.PlatformConfigID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SavePlatformConfig creates or updates the singleton platform configuration.
func (s *GormStore) SavePlatformConfig(ctx context.Context, cfg *core.PlatformConfig) error {
	cfg.ID = core.PlatformConfigID

	result := s.db.WithContext(ctx).
		Model(&core.PlatformConfig{}).
		Where("id = ?", cfg.ID).
		Updates(map[string]interface{}{
			"owner":            cfg.Owner,
			"treasury":         cfg.Treasury,
			"fee_basis_points": cfg.FeeBasisPoints,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return s.db.WithContext(ctx).Create(cfg).Error
	}
	return nil
}

// AppendEvent marshals the event and appends it to the ordered log.
// Seq is assigned by the database and is strictly increasing.
func (s *GormStore) AppendEvent(ctx context.Context, e core.Event) (*core.EventRecord, error) {
	rec, err := core.NewEventRecord(e)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// ListEvents returns committed events in emission order. An empty contractID
// selects across all contracts; limit <= 0 means no limit.
func (s *GormStore) ListEvents(ctx context.Context, contractID string, limit int) ([]core.EventRecord, error) {
	q := s.db.WithContext(ctx).Order("seq ASC")
	if contractID != "" {
		q = q.Where("contract_id = ?", contractID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var records []core.EventRecord
	err := q.Find(&records).Error
	return records, err
}
