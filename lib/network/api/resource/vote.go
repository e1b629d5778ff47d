package resource

import (
	"strings"

	"github.com/nvellon/hal"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/vote"
)

type Vote struct {
	r *vote.Record
}

func NewVote(r *vote.Record) *Vote {
	return &Vote{r: r}
}

func (v Vote) GetMap() hal.Entry {
	return hal.Entry{
		"sequence":        v.r.Sequence,
		"account":         v.r.Account,
		"item_id":         v.r.ItemID,
		"original_amount": v.r.OriginalAmount,
		"total_withdrawn": v.r.TotalWithdrawn,
		"remaining_votes": v.r.RemainingVotes,
		"cast_at":         common.FormatISO8601(v.r.CastAt),
	}
}

func (v Vote) Resource() *hal.Resource {
	r := hal.NewResource(v, v.LinkSelf())
	r.AddLink("item", hal.NewLink(strings.Replace(URLItem, "{id}", v.r.ItemID, -1)))
	r.AddLink("escrow", hal.NewLink(strings.Replace(URLEscrows, "{id}", v.r.Account, -1)))
	return r
}

func (v Vote) LinkSelf() string {
	return strings.Replace(URLAccountVotes, "{id}", v.r.Account, -1)
}

type VoteWithdrawal struct {
	w *vote.Withdrawal
}

func NewVoteWithdrawal(w *vote.Withdrawal) *VoteWithdrawal {
	return &VoteWithdrawal{w: w}
}

func (v VoteWithdrawal) GetMap() hal.Entry {
	return hal.Entry{
		"sequence":        v.w.Sequence,
		"account":         v.w.Account,
		"item_id":         v.w.ItemID,
		"amount":          v.w.Amount,
		"remaining_votes": v.w.RemainingVotes,
		"is_full":         v.w.IsFull,
		"withdrawn_at":    common.FormatISO8601(v.w.WithdrawnAt),
	}
}

func (v VoteWithdrawal) Resource() *hal.Resource {
	return hal.NewResource(v, v.LinkSelf())
}

func (v VoteWithdrawal) LinkSelf() string {
	return strings.Replace(URLAccountWithdrawals, "{id}", v.w.Account, -1)
}
