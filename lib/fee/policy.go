package fee

import (
	"sync"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common/observer"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/errors"
)

// Policy computes the proportional deposit fee. It is pure with respect to
// ledger state; the only state it owns is the configured rate and the
// exemption set. A record's `FeePaid` is immutable history, so rate changes
// never touch escrows that are already open.
type Policy struct {
	sync.RWMutex

	rateBasisPoints uint64
	minBasisPoints  uint64
	exempt          map[string]bool

	auth common.Authorizer
}

func NewPolicy(conf common.Config, auth common.Authorizer) *Policy {
	return &Policy{
		rateBasisPoints: conf.FeeRateBasisPoints,
		minBasisPoints:  conf.MinFeeRateBasisPoints,
		exempt:          map[string]bool{},
		auth:            auth,
	}
}

func (p *Policy) Rate() uint64 {
	p.RLock()
	defer p.RUnlock()

	return p.rateBasisPoints
}

// Quote returns the fee and the net amount for a deposit of `amount` by
// `payer`; `fee + net == amount` always holds.
func (p *Policy) Quote(amount common.Amount, payer string) (fee common.Amount, net common.Amount) {
	p.RLock()
	defer p.RUnlock()

	if amount == 0 || p.rateBasisPoints == 0 || p.exempt[payer] {
		return common.Amount(0), amount
	}

	fee = amount.BasisPoints(p.rateBasisPoints)
	net = amount.MustSub(fee)

	return
}

func (p *Policy) SetRate(caller string, rateBasisPoints uint64) error {
	if !p.auth.Allowed(caller, common.RoleAdmin) {
		return errors.NotAuthorized
	}

	p.Lock()
	defer p.Unlock()

	if rateBasisPoints > common.MaxFeeRateBasisPoints || rateBasisPoints < p.minBasisPoints {
		return errors.FeeRateOutOfRange.Clone().
			SetData("rate", rateBasisPoints).
			SetData("min", p.minBasisPoints).
			SetData("max", common.MaxFeeRateBasisPoints)
	}

	previous := p.rateBasisPoints
	p.rateBasisPoints = rateBasisPoints

	observer.FeeObserver.Trigger(observer.EventFeeRateChanged, previous, rateBasisPoints)

	return nil
}

func (p *Policy) IsExempt(account string) bool {
	p.RLock()
	defer p.RUnlock()

	return p.exempt[account]
}

func (p *Policy) SetExemption(caller, account string, exempt bool) error {
	if !p.auth.Allowed(caller, common.RoleAdmin) {
		return errors.NotAuthorized
	}
	if len(account) < 1 {
		return errors.InvalidAddress
	}

	p.Lock()
	defer p.Unlock()

	p.setExemption(account, exempt)

	return nil
}

// SetExemptions applies a batch atomically; if any entry is invalid the
// whole batch is rejected and no entry is applied.
func (p *Policy) SetExemptions(caller string, accounts []string, exempts []bool) error {
	if !p.auth.Allowed(caller, common.RoleAdmin) {
		return errors.NotAuthorized
	}
	if len(accounts) != len(exempts) {
		return errors.ArrayLengthMismatch.Clone().
			SetData("accounts", len(accounts)).
			SetData("exempts", len(exempts))
	}
	for _, account := range accounts {
		if len(account) < 1 {
			return errors.InvalidAddress
		}
	}

	p.Lock()
	defer p.Unlock()

	for n, account := range accounts {
		p.setExemption(account, exempts[n])
	}

	return nil
}

func (p *Policy) setExemption(account string, exempt bool) {
	if exempt {
		p.exempt[account] = true
	} else {
		delete(p.exempt, account)
	}

	observer.FeeObserver.Trigger(observer.EventExemptionSet, account, exempt)
}
