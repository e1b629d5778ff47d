package vote

import (
	"sort"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/errors"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/storage"
)

// ItemStats is the read model for one item within one window.
type ItemStats struct {
	ItemID      string
	TotalVotes  common.Amount
	VoterCount  uint64
	AverageVote common.Amount
}

// GetItemStats derives the average from the aggregate; an item nobody voted
// on reports zeroes.
func GetItemStats(st *storage.LevelDBBackend, sequence uint64, itemID string) (*ItemStats, error) {
	agg, err := GetAggregate(st, sequence, itemID)
	if err != nil {
		return nil, err
	}

	stats := &ItemStats{
		ItemID:     itemID,
		TotalVotes: agg.TotalVotes,
		VoterCount: agg.VoterCount,
	}
	if agg.VoterCount > 0 {
		stats.AverageVote = common.Amount(uint64(agg.TotalVotes) / agg.VoterCount)
	}

	return stats, nil
}

// GetVoteCount reports how many items the account has live votes on.
func GetVoteCount(st *storage.LevelDBBackend, sequence uint64, account string) (count uint64, err error) {
	records, err := GetRecordsByAccount(st, sequence, account, nil)
	if err != nil {
		return 0, err
	}

	for _, r := range records {
		if r.RemainingVotes > 0 {
			count++
		}
	}

	return count, nil
}

// Rank returns the 1-based rank of `itemID` among `candidates`: one plus the
// number of candidates with strictly more votes. Ties share a rank.
func Rank(st *storage.LevelDBBackend, sequence uint64, itemID string, candidates []string) (uint64, error) {
	target, err := GetAggregate(st, sequence, itemID)
	if err != nil {
		return 0, err
	}

	var rank uint64 = 1
	for _, candidate := range candidates {
		if candidate == itemID {
			continue
		}

		agg, err := GetAggregate(st, sequence, candidate)
		if err != nil {
			return 0, err
		}
		if agg.TotalVotes > target.TotalVotes {
			rank++
		}
	}

	return rank, nil
}

// TopN returns up to `n` of the candidates ordered by total votes, ties
// broken by item id; `n` must not be negative.
func TopN(st *storage.LevelDBBackend, sequence uint64, candidates []string, n int) ([]*ItemStats, error) {
	if n < 0 {
		return nil, errors.BadRequestParameter.Clone().SetData("n", n)
	}

	var all []*ItemStats
	for _, candidate := range candidates {
		stats, err := GetItemStats(st, sequence, candidate)
		if err != nil {
			return nil, err
		}
		all = append(all, stats)
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].TotalVotes != all[j].TotalVotes {
			return all[i].TotalVotes > all[j].TotalVotes
		}
		return all[i].ItemID < all[j].ItemID
	})

	if n < len(all) {
		all = all[:n]
	}

	return all, nil
}
