package resource

import (
	"strings"

	"github.com/nvellon/hal"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/escrow"
)

type Escrow struct {
	r *escrow.Record
}

func NewEscrow(r *escrow.Record) *Escrow {
	return &Escrow{r: r}
}

func (e Escrow) GetMap() hal.Entry {
	return hal.Entry{
		"id":               e.r.Address,
		"address":          e.r.Address,
		"is_active":        e.r.IsActive,
		"locked_amount":    e.r.LockedAmount,
		"committed_amount": e.r.CommittedAmount,
		"available_amount": e.r.Available(),
		"fee_paid":         e.r.FeePaid,
		"deposited_at":     common.FormatISO8601(e.r.DepositedAt),
		"releasable_at":    common.FormatISO8601(e.r.ReleasableAt),
	}
}

func (e Escrow) Resource() *hal.Resource {
	r := hal.NewResource(e, e.LinkSelf())
	r.AddLink("votes", hal.NewLink(strings.Replace(URLAccountVotes, "{id}", e.r.Address, -1)+"{?cursor,limit,reverse}", hal.LinkAttr{"templated": true}))
	return r
}

func (e Escrow) LinkSelf() string {
	return strings.Replace(URLEscrows, "{id}", e.r.Address, -1)
}
