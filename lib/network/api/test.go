package api

import (
	"net/http/httptest"
	"time"

	"github.com/gorilla/mux"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/escrow"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/fee"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/registry"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/storage"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/token"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/vote"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/voting"
)

var testGenesisTime = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

type apiTest struct {
	st       *storage.LevelDBBackend
	server   *httptest.Server
	escrow   *escrow.Ledger
	vote     *vote.Ledger
	period   *voting.Period
	registry *registry.Registry
	clock    *common.TestClock
	operator string
}

func TestMakeNetworkHandlerAPI(holders map[string]common.Amount) *apiTest {
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

	apiHandler := NewNetworkHandlerAPI(st, period)
	router := mux.NewRouter()
	apiHandler.AddAPIHandlers(router)

	return &apiTest{
		st:       st,
		server:   httptest.NewServer(router),
		escrow:   esc,
		vote:     vote.NewLedger(esc, period, clock, operator),
		period:   period,
		registry: registry.NewRegistry(clock, auth),
		clock:    clock,
		operator: operator,
	}
}

func (a *apiTest) close() {
	a.server.Close()
	a.st.Close()
}
