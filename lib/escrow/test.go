package escrow

import (
	"time"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/fee"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/storage"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/token"
)

var testGenesisTime = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

type testLedger struct {
	st        *storage.LevelDBBackend
	ledger    *Ledger
	custodian *token.Custodian
	clock     *common.TestClock
	conf      common.Config
	feeSink   string
}

// TestMakeLedger builds a memory-backed ledger with an all-allowing
// authorizer and the given holders funded in native tokens.
func TestMakeLedger(holders map[string]common.Amount) *testLedger {
	st, err := storage.NewTestMemoryLevelDBBackend()
	if err != nil {
		panic(err)
	}

	custodian := token.TestMakeCustodian(st, holders)

	conf := common.NewConfig([]byte("test-devoter-network"))
	conf.CustodianAddress = custodian.Address
	conf.FeeSinkAddress = token.TestMakeAddress()

	auth := common.AllowAllAuthorizer{}
	clock := common.NewTestClock(testGenesisTime)

	fees := fee.NewPolicy(conf, auth)

	return &testLedger{
		st:        st,
		ledger:    NewLedger(conf, custodian, fees, auth, clock),
		custodian: custodian,
		clock:     clock,
		conf:      conf,
		feeSink:   conf.FeeSinkAddress,
	}
}

func (t *testLedger) close() {
	t.st.Close()
}
