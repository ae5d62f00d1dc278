package audit_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gignova/escrow/pkg/audit"
	"github.com/gignova/escrow/pkg/core"
	"github.com/gignova/escrow/pkg/engine"
	"github.com/gignova/escrow/storage"
)

func setupAuditor(t *testing.T) (*audit.Auditor, *engine.Engine, *storage.GormStore) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	store := storage.NewGormStore(db)
	require.NoError(t, store.Migrate(context.Background()))

	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := engine.New(store, engine.WithLogger(discard))
	require.NoError(t, eng.Init(context.Background(), "owner-1", "treasury-1", 250))

	return audit.New(store, discard), eng, store
}

func TestCheck_CleanLifecycle(t *testing.T) {
	auditor, eng, _ := setupAuditor(t)
	ctx := context.Background()

	// One contract fully settled, one still open, one resolved dispute
	paid, err := eng.CreateJob(ctx, "job-1", "freelancer-1", "", 1_000_000, "client-1")
	require.NoError(t, err)
	require.NoError(t, eng.CompleteJob(ctx, paid, "client-1"))
	require.NoError(t, eng.ReleasePayment(ctx, paid, "client-1"))

	_, err = eng.CreateJob(ctx, "job-2", "freelancer-1", "", 999, "client-1")
	require.NoError(t, err)

	disputed, err := eng.CreateJob(ctx, "job-3", "freelancer-1", "", 500, "client-1")
	require.NoError(t, err)
	require.NoError(t, eng.CreateDispute(ctx, disputed, "freelancer-1"))
	require.NoError(t, eng.ResolveDispute(ctx, disputed, 5000, "owner-1"))

	findings, err := auditor.Check(ctx)
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestCheck_OpenContractBalanceMismatch(t *testing.T) {
	auditor, eng, store := setupAuditor(t)
	ctx := context.Background()

	id, err := eng.CreateJob(ctx, "job-1", "freelancer-1", "", 1000, "client-1")
	require.NoError(t, err)

	// Drain custody behind the engine's back
	require.NoError(t, store.TransferOut(ctx, id, "freelancer-1", 600, core.TransferRelease))

	findings, err := auditor.Check(ctx)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, id, findings[0].ContractID)
	assert.Contains(t, findings[0].Reason, "does not match amount")
}

func TestCheck_PaidContractHoldsCustody(t *testing.T) {
	auditor, _, store := setupAuditor(t)
	ctx := context.Background()

	c := &core.JobContract{ID: "contract-1", JobID: "job-1", Client: "c", Freelancer: "f", Amount: 1000}
	require.NoError(t, store.CreateContract(ctx, c))
	require.NoError(t, store.Deposit(ctx, "contract-1", 1000))
	now := time.Now()
	require.NoError(t, store.UpdateContractStatus(ctx, "contract-1", core.StatusPaid, &now))

	findings, err := auditor.Check(ctx)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Reason, "paid contract holds custody")
}

func TestCheck_OverDisbursement(t *testing.T) {
	auditor, _, store := setupAuditor(t)
	ctx := context.Background()

	c := &core.JobContract{ID: "contract-1", JobID: "job-1", Client: "c", Freelancer: "f", Amount: 100}
	require.NoError(t, store.CreateContract(ctx, c))
	// Deposited more than the contract amount, then paid it all out
	require.NoError(t, store.Deposit(ctx, "contract-1", 300))
	require.NoError(t, store.TransferOut(ctx, "contract-1", "f", 200, core.TransferRelease))

	findings, err := auditor.Check(ctx)
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Reason, "disbursed 200 exceeds amount 100")
}

func TestFinding_String(t *testing.T) {
	f := audit.Finding{ContractID: "contract-1", Reason: "paid contract holds custody 5"}
	assert.Equal(t, "contract-1: paid contract holds custody 5", f.String())
}

func TestStartStop(t *testing.T) {
	auditor, _, _ := setupAuditor(t)

	require.NoError(t, auditor.Start("@every 1h"))
	auditor.Stop()

	// Stop without Start must not panic
	audit.New(nil, nil).Stop()
}

func TestStart_BadSchedule(t *testing.T) {
	auditor, _, _ := setupAuditor(t)
	assert.Error(t, auditor.Start("not a schedule"))
}
