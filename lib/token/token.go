package token

import (
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/storage"
)

// NativeToken identifies the ledger's own token in custodian records.
const NativeToken = "DVT"

// Transfer is the exact-amount, all-or-nothing transfer primitive consumed by
// the escrow ledger. Every method takes the storage handle of the calling
// operation so that transfers commit or roll back together with the ledger
// records they belong to.
//
// TransferIn moves value from a holder into custody; TransferOut moves value
// out of custody to a holder. A failed transfer returns an error and leaves
// no state behind.
type Transfer interface {
	TransferIn(st *storage.LevelDBBackend, from string, amount common.Amount) error
	TransferOut(st *storage.LevelDBBackend, to string, amount common.Amount) error
	BalanceOf(st *storage.LevelDBBackend, holder string) (common.Amount, error)
}

// Recoverer is the extra surface surplus recovery needs; a Transfer backend
// that also implements it can report and drain non-native holdings.
type Recoverer interface {
	TokenBalance(st *storage.LevelDBBackend, tokenID string) (common.Amount, error)
	DrainToken(st *storage.LevelDBBackend, tokenID, to string) (common.Amount, error)
}
