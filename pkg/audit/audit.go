package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/gignova/escrow/pkg/core"
)

// Finding describes one custody invariant violation.
type Finding struct {
	ContractID string
	Reason     string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: %s", f.ContractID, f.Reason)
}

// Auditor periodically verifies that custody balances and the transfer
// journal agree with contract state.
type Auditor struct {
	store  core.Store
	logger *slog.Logger
	cron   *cron.Cron
}

// New creates an Auditor over the given store. A nil logger falls back to
// slog.Default().
func New(store core.Store, logger *slog.Logger) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auditor{store: store, logger: logger}
}

// Check scans every contract once and returns the violations found.
//
// Invariants checked:
//   - a paid contract holds zero custody
//   - an unsettled contract holds custody exactly equal to its amount
//   - disbursements for a contract never exceed its amount
func (a *Auditor) Check(ctx context.Context) ([]Finding, error) {
	contracts, err := a.store.ListContracts(ctx)
	if err != nil {
		return nil, err
	}

	var findings []Finding
	for _, c := range contracts {
		balance, err := a.store.CustodyBalance(ctx, c.ID)
		if err != nil {
			return nil, err
		}

		switch c.Status {
		case core.StatusPaid:
			if balance != 0 {
				findings = append(findings, Finding{
					ContractID: c.ID,
					Reason:     fmt.Sprintf("paid contract holds custody %d", balance),
				})
			}
		default:
			if balance != c.Amount {
				findings = append(findings, Finding{
					ContractID: c.ID,
					Reason:     fmt.Sprintf("custody %d does not match amount %d", balance, c.Amount),
				})
			}
		}

		transfers, err := a.store.ListTransfers(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		var disbursed int64
		for _, tr := range transfers {
			if tr.Kind != core.TransferDeposit {
				disbursed += tr.Amount
			}
		}
		if disbursed > c.Amount {
			findings = append(findings, Finding{
				ContractID: c.ID,
				Reason:     fmt.Sprintf("disbursed %d exceeds amount %d", disbursed, c.Amount),
			})
		}
	}
	return findings, nil
}

// Start runs Check on the given cron schedule (e.g. "@every 10m") until
// Stop is called. Findings are logged at error level.
func (a *Auditor) Start(spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		findings, err := a.Check(context.Background())
		if err != nil {
			a.logger.Error("custody audit failed", "error", err)
			return
		}
		if len(findings) == 0 {
			a.logger.Debug("custody audit clean")
			return
		}
		for _, f := range findings {
			a.logger.Error("custody invariant violated",
				"contract_id", f.ContractID, "reason", f.Reason)
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	a.cron = c
	return nil
}

// Stop halts the audit schedule. Safe to call when not started.
func (a *Auditor) Stop() {
	if a.cron != nil {
		a.cron.Stop()
	}
}
