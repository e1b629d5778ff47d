package voting

import (
	"time"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/storage"
)

// The withdrawal gate derives the blackout from the window: withdrawals are
// rejected from `EndsAt - WithdrawalRestrictionPeriod` until the window
// closes. Both queries are read-only.

// WithdrawalDeadline returns the instant after which withdrawals are
// rejected; the zero time when no window is open.
func (p *Period) WithdrawalDeadline(st *storage.LevelDBBackend) (time.Time, error) {
	isOpen, _, err := p.Status(st)
	if err != nil || !isOpen {
		return time.Time{}, err
	}

	w, err := GetWindow(st)
	if err != nil {
		return time.Time{}, err
	}

	return w.EndsAt.Add(-common.WithdrawalRestrictionPeriod), nil
}

// IsWithinRestriction reports whether `now >= deadline`. It returns false
// when no window is open; the window-open check belongs to the caller.
func (p *Period) IsWithinRestriction(st *storage.LevelDBBackend) (bool, error) {
	deadline, err := p.WithdrawalDeadline(st)
	if err != nil || deadline.IsZero() {
		return false, err
	}

	return !p.clock.Now().Before(deadline), nil
}

// TimeUntilDeadline returns how long withdrawals remain possible; zero when
// the restriction has begun or no window is open.
func (p *Period) TimeUntilDeadline(st *storage.LevelDBBackend) (time.Duration, error) {
	deadline, err := p.WithdrawalDeadline(st)
	if err != nil || deadline.IsZero() {
		return 0, err
	}

	remaining := deadline.Sub(p.clock.Now())
	if remaining < 0 {
		return 0, nil
	}

	return remaining, nil
}
