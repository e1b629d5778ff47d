package vote

import (
	"time"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/escrow"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/fee"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/registry"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/storage"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/token"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/voting"
)

var testGenesisTime = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

type testVoteLedger struct {
	st        *storage.LevelDBBackend
	ledger    *Ledger
	escrow    *escrow.Ledger
	period    *voting.Period
	registry  *registry.Registry
	custodian *token.Custodian
	clock     *common.TestClock
	conf      common.Config
	operator  string
}

func TestMakeVoteLedger(holders map[string]common.Amount) *testVoteLedger {
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

	esc := escrow.NewLedger(conf, custodian, fee.NewPolicy(conf, auth), auth, clock)
	period := voting.NewPeriod(clock, auth)
	operator := token.TestMakeAddress()

	return &testVoteLedger{
		st:        st,
		ledger:    NewLedger(esc, period, clock, operator),
		escrow:    esc,
		period:    period,
		registry:  registry.NewRegistry(clock, auth),
		custodian: custodian,
		clock:     clock,
		conf:      conf,
		operator:  operator,
	}
}

func (t *testVoteLedger) close() {
	t.st.Close()
}

func (t *testVoteLedger) openWindow(duration time.Duration) *voting.Window {
	w, err := t.period.Start(t.st, t.operator, duration)
	if err != nil {
		panic(err)
	}
	return w
}

func (t *testVoteLedger) addItem(itemID string) *registry.Item {
	item, err := t.registry.Add(t.st, t.operator, itemID, "item "+itemID, "https://example.com/"+itemID, t.operator)
	if err != nil {
		panic(err)
	}
	return item
}

func (t *testVoteLedger) deposit(account string, gross common.Amount) *escrow.Record {
	r, err := t.escrow.Deposit(t.st, account, gross)
	if err != nil {
		panic(err)
	}
	return r
}
