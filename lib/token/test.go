package token

import (
	"github.com/stellar/go/keypair"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/storage"
)

func TestMakeAddress() string {
	kp, _ := keypair.Random()
	return kp.Address()
}

func TestMakeCustodian(st *storage.LevelDBBackend, holders map[string]common.Amount) *Custodian {
	c := NewCustodian(TestMakeAddress())
	for holder, balance := range holders {
		if err := c.Mint(st, NativeToken, holder, balance); err != nil {
			panic(err)
		}
	}

	return c
}
