package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gignova/escrow/pkg/access"
	"github.com/gignova/escrow/pkg/core"
)

// CreateJob funds a new job contract. The caller becomes the client, the
// full amount is deposited into custody, and the contract starts in the
// created status. Returns the generated contract ID.
func (e *Engine) CreateJob(ctx context.Context, jobID, freelancer, contentRef string, amount int64, caller string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount <= 0 {
		return "", core.ErrInvalidAmount
	}

	contract := &core.JobContract{
		ID:         uuid.New().String(),
		JobID:      jobID,
		Client:     caller,
		Freelancer: freelancer,
		Amount:     amount,
		ContentRef: contentRef,
		Status:     core.StatusCreated,
	}
	ev := &core.JobCreated{
		ContractID: contract.ID,
		JobID:      jobID,
		Client:     caller,
		Freelancer: freelancer,
		Amount:     amount,
	}

	err := e.store.Atomically(ctx, func(tx core.Store) error {
		if err := tx.CreateContract(ctx, contract); err != nil {
			return err
		}
		if err := tx.Deposit(ctx, contract.ID, amount); err != nil {
			return err
		}
		_, err := tx.AppendEvent(ctx, ev)
		return err
	})
	if err != nil {
		return "", err
	}

	e.logger.Info("job contract created",
		"contract_id", contract.ID, "job_id", jobID, "amount", amount)
	e.broadcast(ev)
	return contract.ID, nil
}

// CompleteJob marks a created job as completed. Only the client may call it.
func (e *Engine) CompleteJob(ctx context.Context, contractID, caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ev := &core.JobCompleted{ContractID: contractID}
	err := e.store.Atomically(ctx, func(tx core.Store) error {
		c, err := tx.GetContract(ctx, contractID)
		if err != nil {
			return err
		}
		if !core.CanTransition(c.Status, core.StatusCompleted) {
			return core.ErrInvalidState
		}
		if !access.IsClient(caller, c) {
			return core.ErrUnauthorized
		}

		if err := tx.UpdateContractStatus(ctx, contractID, core.StatusCompleted, nil); err != nil {
			return err
		}
		_, err = tx.AppendEvent(ctx, ev)
		return err
	})
	if err != nil {
		return err
	}

	e.logger.Info("job completed", "contract_id", contractID)
	e.broadcast(ev)
	return nil
}

// ReleasePayment settles a completed job: the platform fee is extracted at
// the current fee rate and the remainder is paid to the freelancer. Only the
// client may call it. The fee is floored, so the freelancer share absorbs
// any rounding remainder and the two parts sum to the amount exactly.
func (e *Engine) ReleasePayment(ctx context.Context, contractID, caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var ev *core.PaymentReleased
	err := e.store.Atomically(ctx, func(tx core.Store) error {
		c, err := tx.GetContract(ctx, contractID)
		if err != nil {
			return err
		}
		// Paid is reachable from disputed too; that edge belongs to ResolveDispute
		if c.Status != core.StatusCompleted || !core.CanTransition(c.Status, core.StatusPaid) {
			return core.ErrInvalidState
		}
		if !access.IsClient(caller, c) {
			return core.ErrUnauthorized
		}

		cfg, err := tx.GetPlatformConfig(ctx)
		if err != nil {
			return err
		}

		fee, share := core.SplitFee(c.Amount, cfg.FeeBasisPoints)
		if share > 0 {
			if err := tx.TransferOut(ctx, contractID, c.Freelancer, share, core.TransferRelease); err != nil {
				return err
			}
		}
		if fee > 0 {
			if err := tx.TransferOut(ctx, contractID, cfg.FeeRecipient(), fee, core.TransferFee); err != nil {
				return err
			}
		}

		now := time.Now()
		if err := tx.UpdateContractStatus(ctx, contractID, core.StatusPaid, &now); err != nil {
			return err
		}
		ev = &core.PaymentReleased{ContractID: contractID, FreelancerShare: share, Fee: fee}
		_, err = tx.AppendEvent(ctx, ev)
		return err
	})
	if err != nil {
		if errors.Is(err, core.ErrInsufficientCustody) {
			e.logger.Error("custody invariant violated during release",
				"contract_id", contractID, "error", err)
		}
		return err
	}

	e.logger.Info("payment released",
		"contract_id", contractID, "freelancer_share", ev.FreelancerShare, "fee", ev.Fee)
	e.broadcast(ev)
	return nil
}

// CreateDispute moves a created or completed job into dispute. Either party
// may open it; the initiator is recorded on the event.
func (e *Engine) CreateDispute(ctx context.Context, contractID, caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ev := &core.DisputeCreated{ContractID: contractID, Initiator: caller}
	err := e.store.Atomically(ctx, func(tx core.Store) error {
		c, err := tx.GetContract(ctx, contractID)
		if err != nil {
			return err
		}
		if !core.CanTransition(c.Status, core.StatusDisputed) {
			return core.ErrInvalidState
		}
		if !access.IsParty(caller, c) {
			return core.ErrUnauthorized
		}

		if err := tx.UpdateContractStatus(ctx, contractID, core.StatusDisputed, nil); err != nil {
			return err
		}
		_, err = tx.AppendEvent(ctx, ev)
		return err
	})
	if err != nil {
		return err
	}

	e.logger.Info("dispute opened", "contract_id", contractID, "initiator", caller)
	e.broadcast(ev)
	return nil
}

// ResolveDispute settles a disputed job by splitting the full custodied
// amount between client and freelancer at the given client share. No
// platform fee is extracted on the disputed path: the fee compensates
// successful completion, not arbitration. Only the owner may call it.
func (e *Engine) ResolveDispute(ctx context.Context, contractID string, clientShareBasisPoints int64, caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var ev *core.DisputeResolved
	err := e.store.Atomically(ctx, func(tx core.Store) error {
		c, err := tx.GetContract(ctx, contractID)
		if err != nil {
			return err
		}
		// Paid is reachable from completed too; that edge belongs to ReleasePayment
		if c.Status != core.StatusDisputed || !core.CanTransition(c.Status, core.StatusPaid) {
			return core.ErrInvalidState
		}

		cfg, err := tx.GetPlatformConfig(ctx)
		if err != nil {
			return err
		}
		if !access.IsOwner(caller, cfg.Owner) {
			return core.ErrUnauthorized
		}
		if clientShareBasisPoints < 0 || clientShareBasisPoints > core.MaxShareBasisPoints {
			return core.ErrInvalidShare
		}

		clientAmount, freelancerAmount := core.SplitShare(c.Amount, clientShareBasisPoints)
		if clientAmount > 0 {
			if err := tx.TransferOut(ctx, contractID, c.Client, clientAmount, core.TransferRefund); err != nil {
				return err
			}
		}
		if freelancerAmount > 0 {
			if err := tx.TransferOut(ctx, contractID, c.Freelancer, freelancerAmount, core.TransferRelease); err != nil {
				return err
			}
		}

		now := time.Now()
		if err := tx.UpdateContractStatus(ctx, contractID, core.StatusPaid, &now); err != nil {
			return err
		}
		ev = &core.DisputeResolved{
			ContractID:       contractID,
			ClientAmount:     clientAmount,
			FreelancerAmount: freelancerAmount,
		}
		_, err = tx.AppendEvent(ctx, ev)
		return err
	})
	if err != nil {
		if errors.Is(err, core.ErrInsufficientCustody) {
			e.logger.Error("custody invariant violated during resolution",
				"contract_id", contractID, "error", err)
		}
		return err
	}

	e.logger.Info("dispute resolved",
		"contract_id", contractID,
		"client_amount", ev.ClientAmount, "freelancer_amount", ev.FreelancerAmount)
	e.broadcast(ev)
	return nil
}

// SetPlatformFee updates the platform fee rate. Only the owner may call it;
// the new rate applies to operations admitted afterwards, never retroactively.
func (e *Engine) SetPlatformFee(ctx context.Context, basisPoints int64, caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ev := &core.FeeChanged{BasisPoints: basisPoints}
	err := e.store.Atomically(ctx, func(tx core.Store) error {
		cfg, err := tx.GetPlatformConfig(ctx)
		if err != nil {
			return err
		}
		if !access.IsOwner(caller, cfg.Owner) {
			return core.ErrUnauthorized
		}
		if basisPoints < 0 || basisPoints > core.MaxFeeBasisPoints {
			return core.ErrFeeExceedsMax
		}

		cfg.FeeBasisPoints = basisPoints
		if err := tx.SavePlatformConfig(ctx, cfg); err != nil {
			return err
		}
		_, err = tx.AppendEvent(ctx, ev)
		return err
	})
	if err != nil {
		return err
	}

	e.logger.Info("platform fee updated", "basis_points", basisPoints)
	e.broadcast(ev)
	return nil
}
