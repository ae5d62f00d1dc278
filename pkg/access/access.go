package access

import (
	"github.com/gignova/escrow/pkg/core"
)

// Role classifies a caller relative to the platform and a contract.
type Role int

const (
	RoleOther Role = iota
	RoleOwner
	RoleClient
	RoleFreelancer
)

// String returns the role name for logging.
func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleClient:
		return "client"
	case RoleFreelancer:
		return "freelancer"
	default:
		return "other"
	}
}

// Resolve determines the caller's role. The owner outranks the party roles
// when one identity holds both; an empty identity never matches anything.
// A nil contract resolves platform-level callers only.
func Resolve(identity, owner string, c *core.JobContract) Role {
	if identity == "" {
		return RoleOther
	}
	if identity == owner {
		return RoleOwner
	}
	if c != nil {
		if identity == c.Client {
			return RoleClient
		}
		if identity == c.Freelancer {
			return RoleFreelancer
		}
	}
	return RoleOther
}

// IsOwner reports whether the identity is the platform owner.
func IsOwner(identity, owner string) bool {
	return identity != "" && identity == owner
}

// IsClient reports whether the identity is the contract's funding party.
func IsClient(identity string, c *core.JobContract) bool {
	return identity != "" && c != nil && identity == c.Client
}

// IsParty reports whether the identity is one of the contract's two parties.
func IsParty(identity string, c *core.JobContract) bool {
	if identity == "" || c == nil {
		return false
	}
	return identity == c.Client || identity == c.Freelancer
}
