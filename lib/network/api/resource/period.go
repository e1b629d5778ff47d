package resource

import (
	"time"

	"github.com/nvellon/hal"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/voting"
)

type VotingPeriod struct {
	w         *voting.Window
	isOpen    bool
	remaining time.Duration
}

func NewVotingPeriod(w *voting.Window, isOpen bool, remaining time.Duration) *VotingPeriod {
	return &VotingPeriod{w: w, isOpen: isOpen, remaining: remaining}
}

func (p VotingPeriod) GetMap() hal.Entry {
	entry := hal.Entry{
		"sequence": p.w.Sequence,
		"is_open":  p.isOpen,
	}
	if p.w.Sequence > 0 {
		entry["started_at"] = common.FormatISO8601(p.w.StartedAt)
		entry["ends_at"] = common.FormatISO8601(p.w.EndsAt)
	}
	if p.isOpen {
		entry["remaining"] = p.remaining.String()
	}

	return entry
}

func (p VotingPeriod) Resource() *hal.Resource {
	return hal.NewResource(p, p.LinkSelf())
}

func (p VotingPeriod) LinkSelf() string {
	return URLVotingPeriod
}
