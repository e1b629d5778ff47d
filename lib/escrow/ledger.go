package escrow

import (
	"sync"
	"time"

	logging "github.com/inconshreveable/log15"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common/observer"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/errors"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/metrics"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/storage"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/token"
)

const PausedKey string = "es-paused"

// Ledger owns the escrow records. Every state-changing operation runs inside
// a single storage transaction and either commits completely or leaves no
// trace; token movement happens through the same transaction handle as the
// record writes.
type Ledger struct {
	sync.Mutex

	conf  common.Config
	token token.Transfer
	fees  FeeQuoter
	auth  common.Authorizer
	clock common.Clock

	accountLocks map[string]*sync.Mutex

	log logging.Logger
}

// FeeQuoter is the slice of the fee policy the ledger consumes.
type FeeQuoter interface {
	Quote(amount common.Amount, payer string) (common.Amount, common.Amount)
}

func NewLedger(conf common.Config, tok token.Transfer, fees FeeQuoter, auth common.Authorizer, clock common.Clock) *Ledger {
	return &Ledger{
		conf:         conf,
		token:        tok,
		fees:         fees,
		auth:         auth,
		clock:        clock,
		accountLocks: map[string]*sync.Mutex{},
		log:          logging.New("module", "escrow"),
	}
}

func (l *Ledger) lockAccount(address string) func() {
	l.Lock()
	m, ok := l.accountLocks[address]
	if !ok {
		m = &sync.Mutex{}
		l.accountLocks[address] = m
	}
	l.Unlock()

	m.Lock()
	return m.Unlock
}

func (l *Ledger) IsPaused(st *storage.LevelDBBackend) (bool, error) {
	exists, err := st.Has(PausedKey)
	if err != nil || !exists {
		return false, err
	}

	var paused bool
	if err := st.Get(PausedKey, &paused); err != nil {
		return false, err
	}

	return paused, nil
}

func (l *Ledger) setPaused(st *storage.LevelDBBackend, caller string, paused bool) error {
	if !l.auth.Allowed(caller, common.RoleAdmin) {
		return errors.NotAuthorized
	}

	current, err := l.IsPaused(st)
	if err != nil {
		return err
	}
	if current == paused {
		if paused {
			return errors.LedgerPaused
		}
		return errors.LedgerNotPaused
	}

	exists, err := st.Has(PausedKey)
	if err != nil {
		return err
	}
	if exists {
		err = st.Set(PausedKey, paused)
	} else {
		err = st.New(PausedKey, paused)
	}
	if err != nil {
		return err
	}

	l.log.Info("pause state changed", "paused", paused, "caller", caller)
	return nil
}

func (l *Ledger) Pause(st *storage.LevelDBBackend, caller string) error {
	return l.setPaused(st, caller, true)
}

func (l *Ledger) Unpause(st *storage.LevelDBBackend, caller string) error {
	return l.setPaused(st, caller, false)
}

func (l *Ledger) rejectWhenPaused(st *storage.LevelDBBackend) error {
	paused, err := l.IsPaused(st)
	if err != nil {
		return err
	}
	if paused {
		return errors.LedgerPaused
	}
	return nil
}

// Deposit locks `gross` tokens for `account`. The fee quoted by the policy is
// deducted up front and forwarded to the fee sink; only the net amount is
// recorded as locked. An account can hold one active record at a time.
func (l *Ledger) Deposit(st *storage.LevelDBBackend, account string, gross common.Amount) (r *Record, err error) {
	defer l.lockAccount(account)()

	if account == "" {
		return nil, errors.InvalidAddress
	}
	if gross == 0 {
		return nil, errors.AmountUnderflow
	}
	if err = l.rejectWhenPaused(st); err != nil {
		return nil, err
	}

	if existing, active, err := GetActiveRecord(st, account); err != nil {
		return nil, err
	} else if active {
		return nil, errors.EscrowAlreadyActive.Clone().
			SetData("address", account).
			SetData("locked", existing.LockedAmount.String())
	}

	feeAmount, net := l.fees.Quote(gross, account)
	if net == 0 {
		return nil, errors.AmountUnderflow
	}

	ts, err := st.OpenTransaction()
	if err != nil {
		return nil, err
	}

	if err = l.token.TransferIn(ts, account, gross); err != nil {
		ts.Discard()
		return nil, err
	}
	if feeAmount > 0 {
		if err = l.token.TransferOut(ts, l.conf.FeeSinkAddress, feeAmount); err != nil {
			ts.Discard()
			return nil, err
		}
	}

	r = NewRecord(account, net, feeAmount, l.clock.Now(), l.conf.VotingLockDuration)
	if err = r.Save(ts); err != nil {
		ts.Discard()
		return nil, err
	}

	if err = ts.Commit(); err != nil {
		ts.Discard()
		return nil, err
	}

	metrics.Escrow.MarkDeposit(uint64(net), uint64(feeAmount))
	triggerRecordEvent(observer.EventDeposited, r)
	l.log.Info("deposited",
		"address", account,
		"gross", gross,
		"locked", net,
		"fee", feeAmount,
		"releasable_at", common.FormatISO8601(r.ReleasableAt),
	)

	return r, nil
}

// release closes the record and returns the full locked amount to the
// account. Committed votes do not survive a release; the record is
// deactivated with both balances zeroed.
func (l *Ledger) release(st *storage.LevelDBBackend, account, event string) (common.Amount, error) {
	r, active, err := GetActiveRecord(st, account)
	if err != nil {
		return 0, err
	}
	if !active {
		return 0, errors.EscrowDoesNotExist.Clone().SetData("address", account)
	}

	released := r.LockedAmount

	ts, err := st.OpenTransaction()
	if err != nil {
		return 0, err
	}

	if err = l.token.TransferOut(ts, account, released); err != nil {
		ts.Discard()
		return 0, err
	}

	r.IsActive = false
	r.LockedAmount = 0
	r.CommittedAmount = 0
	if err = r.Save(ts); err != nil {
		ts.Discard()
		return 0, err
	}

	if err = ts.Commit(); err != nil {
		ts.Discard()
		return 0, err
	}

	metrics.Escrow.MarkRelease(uint64(released))
	triggerRecordEvent(event, r)

	return released, nil
}

// Release returns the locked amount once the release time has passed.
func (l *Ledger) Release(st *storage.LevelDBBackend, account string) (common.Amount, error) {
	defer l.lockAccount(account)()

	if err := l.rejectWhenPaused(st); err != nil {
		return 0, err
	}

	r, active, err := GetActiveRecord(st, account)
	if err != nil {
		return 0, err
	}
	if !active {
		return 0, errors.EscrowDoesNotExist.Clone().SetData("address", account)
	}

	now := l.clock.Now()
	if now.Before(r.ReleasableAt) {
		return 0, errors.EscrowNotYetReleasable.Clone().
			SetData("address", account).
			SetData("releasable_at", common.FormatISO8601(r.ReleasableAt))
	}

	released, err := l.release(st, account, observer.EventReleased)
	if err != nil {
		return 0, err
	}

	l.log.Info("released", "address", account, "amount", released)
	return released, nil
}

// ForceRelease returns the locked amount regardless of the release time.
// Admin only; it works while the ledger is paused.
func (l *Ledger) ForceRelease(st *storage.LevelDBBackend, caller, account string) (common.Amount, error) {
	defer l.lockAccount(account)()

	if !l.auth.Allowed(caller, common.RoleAdmin) {
		return 0, errors.NotAuthorized
	}

	released, err := l.release(st, account, observer.EventForceReleased)
	if err != nil {
		return 0, err
	}

	l.log.Info("force released", "address", account, "amount", released, "caller", caller)
	return released, nil
}

// EmergencyWithdraw returns the locked amount to the account outside the
// normal schedule, recording the operator's reason. Emergency role only.
func (l *Ledger) EmergencyWithdraw(st *storage.LevelDBBackend, caller, account, reason string) (common.Amount, error) {
	defer l.lockAccount(account)()

	if !l.auth.Allowed(caller, common.RoleEmergency) {
		return 0, errors.NotAuthorized
	}
	if reason == "" {
		return 0, errors.EmptyReason
	}

	released, err := l.release(st, account, observer.EventEmergencyWithdrawn)
	if err != nil {
		return 0, err
	}

	l.log.Warn("emergency withdrawal",
		"address", account,
		"amount", released,
		"caller", caller,
		"reason", reason,
	)
	return released, nil
}

// SetReleaseTime overrides the release time of an active record. The new
// time must be strictly in the future. Admin only.
func (l *Ledger) SetReleaseTime(st *storage.LevelDBBackend, caller, account string, releasableAt time.Time) error {
	defer l.lockAccount(account)()

	if !l.auth.Allowed(caller, common.RoleAdmin) {
		return errors.NotAuthorized
	}

	r, active, err := GetActiveRecord(st, account)
	if err != nil {
		return err
	}
	if !active {
		return errors.EscrowDoesNotExist.Clone().SetData("address", account)
	}

	if !releasableAt.After(l.clock.Now()) {
		return errors.ReleaseTimeNotInFuture
	}

	r.ReleasableAt = releasableAt
	if err = r.Save(st); err != nil {
		return err
	}

	triggerRecordEvent(observer.EventReleaseTimeSet, r)
	l.log.Info("release time set",
		"address", account,
		"releasable_at", common.FormatISO8601(releasableAt),
		"caller", caller,
	)
	return nil
}

// DebitForVote commits part of the locked balance to a vote. No tokens move;
// the commitment only narrows what `CreditFromVoteReturn` and the next vote
// may use. The caller passes its own transaction handle so the commitment
// lands atomically with the vote records.
func (l *Ledger) DebitForVote(st *storage.LevelDBBackend, account string, amount common.Amount) error {
	defer l.lockAccount(account)()

	if amount == 0 {
		return errors.AmountUnderflow
	}
	if err := l.rejectWhenPaused(st); err != nil {
		return err
	}

	r, active, err := GetActiveRecord(st, account)
	if err != nil {
		return err
	}
	if !active {
		return errors.EscrowDoesNotExist.Clone().SetData("address", account)
	}

	committed, err := r.CommittedAmount.Add(amount)
	if err != nil {
		return err
	}
	if committed > r.LockedAmount {
		return errors.InsufficientAvailableBalance.Clone().
			SetData("address", account).
			SetData("available", r.Available().String()).
			SetData("amount", amount.String())
	}

	r.CommittedAmount = committed
	return r.Save(st)
}

// CreditFromVoteReturn pays `amount` of the locked balance back to the
// account when a vote is withdrawn. The commitment is reduced by the same
// amount but never below zero; a record whose locked balance reaches zero is
// deactivated. Restricted to the vote-ledger role.
//
// The caller passes its own transaction handle, so no event or metric is
// emitted here; the updated record is returned for the caller to signal with
// after its commit.
func (l *Ledger) CreditFromVoteReturn(st *storage.LevelDBBackend, caller, account string, amount common.Amount) (*Record, error) {
	defer l.lockAccount(account)()

	if !l.auth.Allowed(caller, common.RoleVoteLedger) {
		return nil, errors.NotAuthorized
	}
	if amount == 0 {
		return nil, errors.AmountUnderflow
	}
	if err := l.rejectWhenPaused(st); err != nil {
		return nil, err
	}

	r, active, err := GetActiveRecord(st, account)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, errors.EscrowDoesNotExist.Clone().SetData("address", account)
	}

	locked, err := r.LockedAmount.Sub(amount)
	if err != nil {
		return nil, errors.InsufficientLockedBalance.Clone().
			SetData("address", account).
			SetData("locked", r.LockedAmount.String()).
			SetData("amount", amount.String())
	}

	if err = l.token.TransferOut(st, account, amount); err != nil {
		return nil, err
	}

	r.LockedAmount = locked
	if amount >= r.CommittedAmount {
		r.CommittedAmount = 0
	} else {
		r.CommittedAmount = r.CommittedAmount.MustSub(amount)
	}
	if r.LockedAmount == 0 {
		r.IsActive = false
	}

	if err = r.Save(st); err != nil {
		return nil, err
	}

	return r, nil
}

// RecoverSurplus moves tokens the custody address holds beyond what the
// records account for. For the native token the surplus is the custodian
// balance minus the sum of active locked amounts; any other token is drained
// in full. Requires the emergency role and a paused ledger.
func (l *Ledger) RecoverSurplus(st *storage.LevelDBBackend, caller, tokenID, to string) (common.Amount, error) {
	if !l.auth.Allowed(caller, common.RoleEmergency) {
		return 0, errors.NotAuthorized
	}
	if to == "" {
		return 0, errors.InvalidAddress
	}

	paused, err := l.IsPaused(st)
	if err != nil {
		return 0, err
	}
	if !paused {
		return 0, errors.LedgerNotPaused
	}

	ts, err := st.OpenTransaction()
	if err != nil {
		return 0, err
	}

	var recovered common.Amount
	if tokenID == "" || tokenID == token.NativeToken {
		balance, err := l.token.BalanceOf(ts, l.conf.CustodianAddress)
		if err != nil {
			ts.Discard()
			return 0, err
		}

		locked, err := TotalLocked(ts)
		if err != nil {
			ts.Discard()
			return 0, err
		}

		surplus, err := balance.Sub(locked)
		if err != nil || surplus == 0 {
			ts.Discard()
			return 0, errors.NoRecoverableSurplus.Clone().
				SetData("balance", balance.String()).
				SetData("locked", locked.String())
		}

		if err = l.token.TransferOut(ts, to, surplus); err != nil {
			ts.Discard()
			return 0, err
		}
		recovered = surplus
	} else {
		recoverer, ok := l.token.(token.Recoverer)
		if !ok {
			ts.Discard()
			return 0, errors.NoRecoverableSurplus
		}
		recovered, err = recoverer.DrainToken(ts, tokenID, to)
		if err != nil {
			ts.Discard()
			return 0, err
		}
	}

	if err = ts.Commit(); err != nil {
		ts.Discard()
		return 0, err
	}

	observer.EscrowObserver.Trigger(observer.EventSurplusRecovered, recovered)
	l.log.Warn("surplus recovered",
		"token", tokenID,
		"amount", recovered,
		"to", to,
		"caller", caller,
	)

	return recovered, nil
}
