package vote

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/errors"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/token"
)

type statsFixture struct {
	*testVoteLedger

	sequence uint64
	items    []string
	alice    string
	bob      string
	carol    string
}

func testMakeStatsFixture(t *testing.T) *statsFixture {
	alice := token.TestMakeAddress()
	bob := token.TestMakeAddress()
	carol := token.TestMakeAddress()
	tl := TestMakeVoteLedger(map[string]common.Amount{
		alice: 100000, bob: 100000, carol: 100000,
	})

	// 5% fee leaves 9500 locked for each
	tl.deposit(alice, common.Amount(10000))
	tl.deposit(bob, common.Amount(10000))
	tl.deposit(carol, common.Amount(10000))

	items := []string{"item-1", "item-2", "item-3"}
	for _, item := range items {
		tl.addItem(item)
	}
	w := tl.openWindow(72 * time.Hour)

	cast := func(account, item string, amount common.Amount) {
		_, err := tl.ledger.CastVote(tl.st, account, item, amount)
		require.NoError(t, err)
	}

	cast(alice, "item-1", 500)
	cast(bob, "item-1", 300)
	cast(carol, "item-1", 100)
	cast(alice, "item-2", 900)
	cast(bob, "item-3", 900)

	return &statsFixture{
		testVoteLedger: tl,
		sequence:       w.Sequence,
		items:          items,
		alice:          alice,
		bob:            bob,
		carol:          carol,
	}
}

func TestGetItemStats(t *testing.T) {
	f := testMakeStatsFixture(t)
	defer f.close()

	stats, err := GetItemStats(f.st, f.sequence, "item-1")
	require.NoError(t, err)
	require.Equal(t, common.Amount(900), stats.TotalVotes)
	require.Equal(t, uint64(3), stats.VoterCount)
	require.Equal(t, common.Amount(300), stats.AverageVote)

	// untouched item reports zeroes
	stats, err = GetItemStats(f.st, f.sequence, "item-9")
	require.NoError(t, err)
	require.Equal(t, common.Amount(0), stats.TotalVotes)
	require.Equal(t, uint64(0), stats.VoterCount)
	require.Equal(t, common.Amount(0), stats.AverageVote)
}

func TestGetVoteCount(t *testing.T) {
	f := testMakeStatsFixture(t)
	defer f.close()

	count, err := GetVoteCount(f.st, f.sequence, f.alice)
	require.NoError(t, err)
	require.Equal(t, uint64(2), count)

	// a fully withdrawn vote no longer counts as live
	_, err = f.ledger.WithdrawVote(f.st, f.alice, "item-2")
	require.NoError(t, err)

	count, err = GetVoteCount(f.st, f.sequence, f.alice)
	require.NoError(t, err)
	require.Equal(t, uint64(1), count)
}

func TestGetRecordsByAccountOrder(t *testing.T) {
	f := testMakeStatsFixture(t)
	defer f.close()

	records, err := GetRecordsByAccount(f.st, f.sequence, f.alice, nil)
	require.NoError(t, err)
	require.Equal(t, 2, len(records))
	require.Equal(t, "item-1", records[0].ItemID)
	require.Equal(t, "item-2", records[1].ItemID)
}

func TestRank(t *testing.T) {
	f := testMakeStatsFixture(t)
	defer f.close()

	// all three items tie on 900, so they share rank 1
	for _, item := range f.items {
		rank, err := Rank(f.st, f.sequence, item, f.items)
		require.NoError(t, err)
		require.Equal(t, uint64(1), rank)
	}

	// after a partial withdrawal item-3 falls behind the tie
	_, err := f.ledger.WithdrawPartial(f.st, f.bob, "item-3", common.Amount(100))
	require.NoError(t, err)

	rank, err := Rank(f.st, f.sequence, "item-3", f.items)
	require.NoError(t, err)
	require.Equal(t, uint64(3), rank)

	rank, err = Rank(f.st, f.sequence, "item-1", f.items)
	require.NoError(t, err)
	require.Equal(t, uint64(1), rank)
}

func TestTopN(t *testing.T) {
	f := testMakeStatsFixture(t)
	defer f.close()

	_, err := f.ledger.WithdrawPartial(f.st, f.bob, "item-3", common.Amount(100))
	require.NoError(t, err)

	top, err := TopN(f.st, f.sequence, f.items, 2)
	require.NoError(t, err)
	require.Equal(t, 2, len(top))

	// item-1 and item-2 tie on 900; the tie breaks on the item id
	require.Equal(t, "item-1", top[0].ItemID)
	require.Equal(t, "item-2", top[1].ItemID)

	top, err = TopN(f.st, f.sequence, f.items, 10)
	require.NoError(t, err)
	require.Equal(t, 3, len(top))
	require.Equal(t, "item-3", top[2].ItemID)
	require.Equal(t, common.Amount(800), top[2].TotalVotes)
}

func TestTopNBounds(t *testing.T) {
	f := testMakeStatsFixture(t)
	defer f.close()

	top, err := TopN(f.st, f.sequence, f.items, 0)
	require.NoError(t, err)
	require.Equal(t, 0, len(top))

	_, err = TopN(f.st, f.sequence, f.items, -1)
	require.True(t, errors.BadRequestParameter.Equal(err))
}
