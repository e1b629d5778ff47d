package vote

import (
	"sync"

	logging "github.com/inconshreveable/log15"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common/observer"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/errors"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/escrow"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/metrics"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/storage"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/voting"
)

// Ledger owns vote records and per-item aggregates. It is the only caller of
// the escrow commitment operations; `address` is the identity it presents to
// the escrow ledger, which must hold the vote-ledger role.
//
// Casting and withdrawing both run inside one storage transaction covering
// the vote record, the item aggregate and the escrow side, so the two
// ledgers can never drift apart.
type Ledger struct {
	sync.Mutex

	escrow  *escrow.Ledger
	period  *voting.Period
	clock   common.Clock
	address string

	itemLocks map[string]*sync.Mutex

	log logging.Logger
}

func NewLedger(esc *escrow.Ledger, period *voting.Period, clock common.Clock, address string) *Ledger {
	return &Ledger{
		escrow:    esc,
		period:    period,
		clock:     clock,
		address:   address,
		itemLocks: map[string]*sync.Mutex{},
		log:       logging.New("module", "vote"),
	}
}

func (l *Ledger) lockItem(itemID string) func() {
	l.Lock()
	m, ok := l.itemLocks[itemID]
	if !ok {
		m = &sync.Mutex{}
		l.itemLocks[itemID] = m
	}
	l.Unlock()

	m.Lock()
	return m.Unlock
}

// Validate runs the cast checks without touching state.
func (l *Ledger) Validate(st *storage.LevelDBBackend, account, itemID string, amount common.Amount) error {
	checker := NewCastChecker(st, l.period, account, itemID, amount)
	return common.RunChecker(checker, nil)
}

// CastVote commits `amount` of the account's locked balance to `itemID`. One
// vote per account per item per window; the amount is fixed at cast time and
// can only shrink through withdrawal.
func (l *Ledger) CastVote(st *storage.LevelDBBackend, account, itemID string, amount common.Amount) (*Record, error) {
	defer l.lockItem(itemID)()

	checker := NewCastChecker(st, l.period, account, itemID, amount)
	if err := common.RunChecker(checker, nil); err != nil {
		return nil, err
	}

	sequence := checker.Window.Sequence

	ts, err := st.OpenTransaction()
	if err != nil {
		return nil, err
	}

	if err := l.escrow.DebitForVote(ts, account, amount); err != nil {
		ts.Discard()
		return nil, err
	}

	r := NewRecord(sequence, account, itemID, amount, l.clock.Now())
	if err := r.Save(ts); err != nil {
		ts.Discard()
		return nil, err
	}

	agg, err := GetAggregate(ts, sequence, itemID)
	if err != nil {
		ts.Discard()
		return nil, err
	}
	if agg.TotalVotes, err = agg.TotalVotes.Add(amount); err != nil {
		ts.Discard()
		return nil, err
	}
	agg.VoterCount++
	if err := agg.Save(ts); err != nil {
		ts.Discard()
		return nil, err
	}

	if err := ts.Commit(); err != nil {
		ts.Discard()
		return nil, err
	}

	metrics.Vote.MarkCast()
	observer.VoteObserver.Trigger(observer.EventVoteCast, r)
	l.log.Info("vote cast",
		"sequence", sequence,
		"account", account,
		"item", itemID,
		"amount", amount,
	)

	return r, nil
}

// CanWithdraw reports whether a withdrawal for the vote would currently be
// accepted; when it would not, the second return value carries the reason.
func (l *Ledger) CanWithdraw(st *storage.LevelDBBackend, account, itemID string) (bool, error) {
	isOpen, _, err := l.period.Status(st)
	if err != nil {
		return false, err
	}
	if !isOpen {
		return false, errors.VotingPeriodNotActive
	}

	w, err := voting.GetWindow(st)
	if err != nil {
		return false, err
	}

	exists, err := ExistsRecord(st, w.Sequence, account, itemID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, errors.NoVoteForItem.Clone().SetData("item", itemID)
	}

	r, err := GetRecord(st, w.Sequence, account, itemID)
	if err != nil {
		return false, err
	}
	if r.RemainingVotes == 0 {
		return false, errors.NoRemainingVotes.Clone().SetData("item", itemID)
	}

	restricted, err := l.period.IsWithinRestriction(st)
	if err != nil {
		return false, err
	}
	if restricted {
		return false, errors.WithdrawalRestricted
	}

	return true, nil
}

// WithdrawVote returns the vote's entire remaining amount to the account.
func (l *Ledger) WithdrawVote(st *storage.LevelDBBackend, account, itemID string) (*Withdrawal, error) {
	return l.withdraw(st, account, itemID, 0)
}

// WithdrawPartial returns part of the vote's remaining amount; the rest of
// the vote stays counted.
func (l *Ledger) WithdrawPartial(st *storage.LevelDBBackend, account, itemID string, amount common.Amount) (*Withdrawal, error) {
	if amount == 0 {
		return nil, errors.AmountUnderflow
	}
	return l.withdraw(st, account, itemID, amount)
}

// withdraw with amount == 0 means the full remaining amount.
func (l *Ledger) withdraw(st *storage.LevelDBBackend, account, itemID string, amount common.Amount) (*Withdrawal, error) {
	defer l.lockItem(itemID)()

	if ok, err := l.CanWithdraw(st, account, itemID); !ok {
		return nil, err
	}

	w, err := voting.GetWindow(st)
	if err != nil {
		return nil, err
	}

	r, err := GetRecord(st, w.Sequence, account, itemID)
	if err != nil {
		return nil, err
	}

	if amount == 0 {
		amount = r.RemainingVotes
	}
	if amount > r.RemainingVotes {
		return nil, errors.WithdrawalAmountExceedsRemaining.Clone().
			SetData("remaining", r.RemainingVotes.String()).
			SetData("amount", amount.String())
	}
	isFull := amount == r.RemainingVotes

	ts, err := st.OpenTransaction()
	if err != nil {
		return nil, err
	}

	escrowRecord, err := l.escrow.CreditFromVoteReturn(ts, l.address, account, amount)
	if err != nil {
		ts.Discard()
		return nil, err
	}

	r.RemainingVotes = r.RemainingVotes.MustSub(amount)
	if r.TotalWithdrawn, err = r.TotalWithdrawn.Add(amount); err != nil {
		ts.Discard()
		return nil, err
	}
	if err := r.Save(ts); err != nil {
		ts.Discard()
		return nil, err
	}

	agg, err := GetAggregate(ts, w.Sequence, itemID)
	if err != nil {
		ts.Discard()
		return nil, err
	}
	if agg.TotalVotes, err = agg.TotalVotes.Sub(amount); err != nil {
		ts.Discard()
		return nil, err
	}
	if isFull {
		agg.VoterCount--
	}
	if err := agg.Save(ts); err != nil {
		ts.Discard()
		return nil, err
	}

	withdrawal := &Withdrawal{
		Sequence:       w.Sequence,
		Account:        account,
		ItemID:         itemID,
		Amount:         amount,
		RemainingVotes: r.RemainingVotes,
		IsFull:         isFull,
		WithdrawnAt:    l.clock.Now(),
	}
	if err := withdrawal.Save(ts); err != nil {
		ts.Discard()
		return nil, err
	}

	if err := ts.Commit(); err != nil {
		ts.Discard()
		return nil, err
	}

	metrics.Vote.MarkWithdrawal()
	metrics.Escrow.MarkReturn(uint64(amount), !escrowRecord.IsActive)
	observer.VoteObserver.Trigger(observer.EventVoteWithdrawn, withdrawal)
	if !isFull {
		observer.VoteObserver.Trigger(observer.EventPartialWithdrawal, withdrawal)
	}
	observer.EscrowObserver.Trigger(observer.EventVoteWithdrawn, escrowRecord)
	l.log.Info("vote withdrawn",
		"sequence", w.Sequence,
		"account", account,
		"item", itemID,
		"amount", amount,
		"full", isFull,
	)

	return withdrawal, nil
}
