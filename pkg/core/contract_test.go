package core_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gignova/escrow/pkg/core"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to core.ContractStatus }{
		{core.StatusCreated, core.StatusCompleted},
		{core.StatusCreated, core.StatusDisputed},
		{core.StatusCompleted, core.StatusDisputed},
		{core.StatusCompleted, core.StatusPaid},
		{core.StatusDisputed, core.StatusPaid},
	}
	for _, tr := range allowed {
		assert.True(t, core.CanTransition(tr.from, tr.to), "%s -> %s", tr.from, tr.to)
	}

	statuses := []core.ContractStatus{
		core.StatusCreated, core.StatusCompleted, core.StatusDisputed, core.StatusPaid,
	}
	// Paid is terminal and nothing moves backwards
	for _, to := range statuses {
		assert.False(t, core.CanTransition(core.StatusPaid, to), "paid -> %s", to)
	}
	assert.False(t, core.CanTransition(core.StatusCompleted, core.StatusCreated))
	assert.False(t, core.CanTransition(core.StatusDisputed, core.StatusCreated))
	assert.False(t, core.CanTransition(core.StatusDisputed, core.StatusCompleted))
	assert.False(t, core.CanTransition(core.StatusCreated, core.StatusPaid))
}

func TestPlatformConfig_FeeRecipient(t *testing.T) {
	cfg := &core.PlatformConfig{Owner: "owner-1", Treasury: "treasury-1"}
	assert.Equal(t, "treasury-1", cfg.FeeRecipient())

	cfg.Treasury = ""
	assert.Equal(t, "owner-1", cfg.FeeRecipient())
}

func TestNewEventRecord(t *testing.T) {
	ev := &core.JobCreated{
		ContractID: "contract-1",
		JobID:      "job-1",
		Client:     "client-1",
		Freelancer: "freelancer-1",
		Amount:     1_000_000,
	}

	rec, err := core.NewEventRecord(ev)
	require.NoError(t, err)

	assert.Equal(t, "job_created", rec.Type)
	assert.Equal(t, "contract-1", rec.ContractID)

	var decoded core.JobCreated
	require.NoError(t, json.Unmarshal(rec.Payload, &decoded))
	assert.Equal(t, *ev, decoded)
}

func TestNewEventRecord_FeeChangeHasNoContract(t *testing.T) {
	rec, err := core.NewEventRecord(&core.FeeChanged{BasisPoints: 300})
	require.NoError(t, err)
	assert.Equal(t, "fee_changed", rec.Type)
	assert.Empty(t, rec.ContractID)
}
