package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gignova/escrow/pkg/access"
	"github.com/gignova/escrow/pkg/core"
)

func testContract() *core.JobContract {
	return &core.JobContract{
		ID:         "contract-1",
		Client:     "client-1",
		Freelancer: "freelancer-1",
	}
}

func TestResolve(t *testing.T) {
	c := testContract()

	tests := []struct {
		name     string
		identity string
		want     access.Role
	}{
		{"owner", "owner-1", access.RoleOwner},
		{"client", "client-1", access.RoleClient},
		{"freelancer", "freelancer-1", access.RoleFreelancer},
		{"stranger", "someone-else", access.RoleOther},
		{"empty identity", "", access.RoleOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, access.Resolve(tt.identity, "owner-1", c))
		})
	}
}

func TestResolve_NilContract(t *testing.T) {
	assert.Equal(t, access.RoleOwner, access.Resolve("owner-1", "owner-1", nil))
	assert.Equal(t, access.RoleOther, access.Resolve("client-1", "owner-1", nil))
}

func TestResolve_OwnerOutranksParty(t *testing.T) {
	c := testContract()
	c.Client = "owner-1"
	assert.Equal(t, access.RoleOwner, access.Resolve("owner-1", "owner-1", c))
}

func TestResolve_EmptyOwnerNeverMatches(t *testing.T) {
	assert.Equal(t, access.RoleOther, access.Resolve("", "", testContract()))
}

func TestPredicates(t *testing.T) {
	c := testContract()

	assert.True(t, access.IsOwner("owner-1", "owner-1"))
	assert.False(t, access.IsOwner("client-1", "owner-1"))
	assert.False(t, access.IsOwner("", ""))

	assert.True(t, access.IsClient("client-1", c))
	assert.False(t, access.IsClient("freelancer-1", c))
	assert.False(t, access.IsClient("client-1", nil))

	assert.True(t, access.IsParty("client-1", c))
	assert.True(t, access.IsParty("freelancer-1", c))
	assert.False(t, access.IsParty("owner-1", c))
	assert.False(t, access.IsParty("", c))
}

func TestRole_String(t *testing.T) {
	assert.Equal(t, "owner", access.RoleOwner.String())
	assert.Equal(t, "client", access.RoleClient.String())
	assert.Equal(t, "freelancer", access.RoleFreelancer.String())
	assert.Equal(t, "other", access.RoleOther.String())
}
