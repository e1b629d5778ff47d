package resource

import (
	"strings"

	"github.com/nvellon/hal"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/registry"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/vote"
)

type Item struct {
	i *registry.Item
}

func NewItem(i *registry.Item) *Item {
	return &Item{i: i}
}

func (it Item) GetMap() hal.Entry {
	return hal.Entry{
		"id":         it.i.ItemID,
		"name":       it.i.Name,
		"url":        it.i.URL,
		"owner":      it.i.Owner,
		"is_active":  it.i.IsActive,
		"created_at": common.FormatISO8601(it.i.CreatedAt),
		"updated_at": common.FormatISO8601(it.i.UpdatedAt),
	}
}

func (it Item) Resource() *hal.Resource {
	r := hal.NewResource(it, it.LinkSelf())
	r.AddLink("stats", hal.NewLink(strings.Replace(URLItemStats, "{id}", it.i.ItemID, -1)))
	return r
}

func (it Item) LinkSelf() string {
	return strings.Replace(URLItem, "{id}", it.i.ItemID, -1)
}

type ItemStats struct {
	s *vote.ItemStats
}

func NewItemStats(s *vote.ItemStats) *ItemStats {
	return &ItemStats{s: s}
}

func (st ItemStats) GetMap() hal.Entry {
	return hal.Entry{
		"id":           st.s.ItemID,
		"total_votes":  st.s.TotalVotes,
		"voter_count":  st.s.VoterCount,
		"average_vote": st.s.AverageVote,
	}
}

func (st ItemStats) Resource() *hal.Resource {
	r := hal.NewResource(st, st.LinkSelf())
	r.AddLink("item", hal.NewLink(strings.Replace(URLItem, "{id}", st.s.ItemID, -1)))
	return r
}

func (st ItemStats) LinkSelf() string {
	return strings.Replace(URLItemStats, "{id}", st.s.ItemID, -1)
}
