package api

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/token"
)

func testGetJSON(t *testing.T, a *apiTest, path string, expectedStatus int) map[string]interface{} {
	t.Helper()

	resp, err := http.Get(a.server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, expectedStatus, resp.StatusCode)

	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &result))
	return result
}

func TestGetEscrowHandler(t *testing.T) {
	account := token.TestMakeAddress()
	a := TestMakeNetworkHandlerAPI(map[string]common.Amount{account: 10000})
	defer a.close()

	_, err := a.escrow.Deposit(a.st, account, common.Amount(1000))
	require.NoError(t, err)

	result := testGetJSON(t, a, "/escrows/"+account, http.StatusOK)
	require.Equal(t, account, result["address"])
	require.Equal(t, true, result["is_active"])
	require.Equal(t, "950", result["locked_amount"])
	require.Equal(t, "0", result["committed_amount"])
	require.Equal(t, "50", result["fee_paid"])
}

func TestGetEscrowHandlerNotFound(t *testing.T) {
	a := TestMakeNetworkHandlerAPI(nil)
	defer a.close()

	testGetJSON(t, a, "/escrows/"+token.TestMakeAddress(), http.StatusNotFound)
}

func TestGetItemsHandler(t *testing.T) {
	a := TestMakeNetworkHandlerAPI(nil)
	defer a.close()

	for _, itemID := range []string{"item-1", "item-2", "item-3"} {
		_, err := a.registry.Add(a.st, a.operator, itemID, "item "+itemID, "https://example.com/"+itemID, a.operator)
		require.NoError(t, err)
	}

	result := testGetJSON(t, a, "/items", http.StatusOK)
	embedded := result["_embedded"].(map[string]interface{})
	records := embedded["records"].([]interface{})
	require.Equal(t, 3, len(records))

	result = testGetJSON(t, a, "/items?limit=2", http.StatusOK)
	embedded = result["_embedded"].(map[string]interface{})
	records = embedded["records"].([]interface{})
	require.Equal(t, 2, len(records))

	testGetJSON(t, a, "/items?limit=0", http.StatusBadRequest)
}

func TestGetItemHandler(t *testing.T) {
	a := TestMakeNetworkHandlerAPI(nil)
	defer a.close()

	_, err := a.registry.Add(a.st, a.operator, "item-1", "first item", "https://example.com/item-1", a.operator)
	require.NoError(t, err)

	result := testGetJSON(t, a, "/items/item-1", http.StatusOK)
	require.Equal(t, "item-1", result["id"])
	require.Equal(t, "first item", result["name"])
	require.Equal(t, true, result["is_active"])

	testGetJSON(t, a, "/items/no-such-item", http.StatusNotFound)
}

func TestGetItemStatsHandler(t *testing.T) {
	account := token.TestMakeAddress()
	a := TestMakeNetworkHandlerAPI(map[string]common.Amount{account: 10000})
	defer a.close()

	_, err := a.escrow.Deposit(a.st, account, common.Amount(1000))
	require.NoError(t, err)
	_, err = a.registry.Add(a.st, a.operator, "item-1", "first item", "https://example.com/item-1", a.operator)
	require.NoError(t, err)
	_, err = a.period.Start(a.st, a.operator, 72*time.Hour)
	require.NoError(t, err)
	_, err = a.vote.CastVote(a.st, account, "item-1", common.Amount(400))
	require.NoError(t, err)

	result := testGetJSON(t, a, "/items/item-1/stats", http.StatusOK)
	require.Equal(t, "400", result["total_votes"])
	require.Equal(t, float64(1), result["voter_count"])
	require.Equal(t, "400", result["average_vote"])
}

func TestGetAccountVotesHandler(t *testing.T) {
	account := token.TestMakeAddress()
	a := TestMakeNetworkHandlerAPI(map[string]common.Amount{account: 10000})
	defer a.close()

	_, err := a.escrow.Deposit(a.st, account, common.Amount(1000))
	require.NoError(t, err)
	_, err = a.registry.Add(a.st, a.operator, "item-1", "first item", "https://example.com/item-1", a.operator)
	require.NoError(t, err)
	_, err = a.period.Start(a.st, a.operator, 72*time.Hour)
	require.NoError(t, err)
	_, err = a.vote.CastVote(a.st, account, "item-1", common.Amount(400))
	require.NoError(t, err)

	result := testGetJSON(t, a, "/accounts/"+account+"/votes", http.StatusOK)
	embedded := result["_embedded"].(map[string]interface{})
	records := embedded["records"].([]interface{})
	require.Equal(t, 1, len(records))

	record := records[0].(map[string]interface{})
	require.Equal(t, "item-1", record["item_id"])
	require.Equal(t, "400", record["remaining_votes"])
}

func TestGetVotingPeriodHandler(t *testing.T) {
	a := TestMakeNetworkHandlerAPI(nil)
	defer a.close()

	result := testGetJSON(t, a, "/voting-period", http.StatusOK)
	require.Equal(t, false, result["is_open"])

	_, err := a.period.Start(a.st, a.operator, 72*time.Hour)
	require.NoError(t, err)

	result = testGetJSON(t, a, "/voting-period", http.StatusOK)
	require.Equal(t, true, result["is_open"])
	require.Equal(t, float64(1), result["sequence"])

	// the stored window outlives its end; the report does not
	a.clock.Advance(73 * time.Hour)
	result = testGetJSON(t, a, "/voting-period", http.StatusOK)
	require.Equal(t, false, result["is_open"])
}
