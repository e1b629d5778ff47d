package common

import "sync"

// Role is a capability required to call an administrative operation. The
// ledgers never inspect who a caller is beyond asking the Authorizer whether
// the caller holds the required role; policy over who may call stays out of
// the accounting logic.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleEmergency  Role = "emergency"
	RoleOwner      Role = "owner"
	RoleVoteLedger Role = "vote-ledger"
)

type Authorizer interface {
	Allowed(address string, role Role) bool
}

// RoleAuthorizer is a map-backed Authorizer.
type RoleAuthorizer struct {
	sync.RWMutex

	grants map[Role]map[string]bool
}

func NewRoleAuthorizer() *RoleAuthorizer {
	return &RoleAuthorizer{
		grants: map[Role]map[string]bool{},
	}
}

func (a *RoleAuthorizer) Grant(address string, role Role) {
	a.Lock()
	defer a.Unlock()

	if _, found := a.grants[role]; !found {
		a.grants[role] = map[string]bool{}
	}
	a.grants[role][address] = true
}

func (a *RoleAuthorizer) Revoke(address string, role Role) {
	a.Lock()
	defer a.Unlock()

	if holders, found := a.grants[role]; found {
		delete(holders, address)
	}
}

func (a *RoleAuthorizer) Allowed(address string, role Role) bool {
	a.RLock()
	defer a.RUnlock()

	holders, found := a.grants[role]
	if !found {
		return false
	}

	return holders[address]
}

// AllowAllAuthorizer approves every caller; test fixtures use it where
// authorization is not what is under test.
type AllowAllAuthorizer struct{}

func (AllowAllAuthorizer) Allowed(string, Role) bool {
	return true
}
