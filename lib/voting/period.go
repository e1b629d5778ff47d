package voting

import (
	"time"

	logging "github.com/inconshreveable/log15"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common/observer"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/errors"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/metrics"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/storage"
)

// Window is the single global voting window. the storage should support,
//
// models
//  * 'window'
// 	- 'vp-window': `Window`
//
// `Sequence` increases by one every time a new window is opened; records of
// the vote ledger are keyed by it so a reopened window starts from a clean
// slate.
const WindowKey string = "vp-window"

type Window struct {
	Sequence  uint64
	IsActive  bool
	StartedAt time.Time
	EndsAt    time.Time
}

func (w *Window) String() string {
	return string(common.MustJSONMarshal(w))
}

func (w *Window) Serialize() (encoded []byte, err error) {
	return common.EncodeJSONValue(w)
}

func (w *Window) Save(st *storage.LevelDBBackend) (err error) {
	var exists bool
	if exists, err = st.Has(WindowKey); err != nil {
		return
	}

	if exists {
		err = st.Set(WindowKey, w)
	} else {
		err = st.New(WindowKey, w)
	}

	return
}

func GetWindow(st *storage.LevelDBBackend) (w *Window, err error) {
	var exists bool
	if exists, err = st.Has(WindowKey); err != nil {
		return
	}
	if !exists {
		return &Window{}, nil
	}

	if err = st.Get(WindowKey, &w); err != nil {
		return
	}

	return
}

// Period owns the window's `Closed -> Open -> Closed` cycle. The stored
// `IsActive` flag can outlive `EndsAt`; eligibility must always go through
// `Status`, which checks both.
type Period struct {
	clock common.Clock
	auth  common.Authorizer

	log logging.Logger
}

func NewPeriod(clock common.Clock, auth common.Authorizer) *Period {
	return &Period{
		clock: clock,
		auth:  auth,
		log:   logging.New("module", "voting"),
	}
}

func (p *Period) Start(st *storage.LevelDBBackend, caller string, duration time.Duration) (*Window, error) {
	if !p.auth.Allowed(caller, common.RoleOwner) {
		return nil, errors.NotAuthorized
	}
	if duration <= 0 {
		return nil, errors.InvalidVotingDuration
	}

	w, err := GetWindow(st)
	if err != nil {
		return nil, err
	}
	if w.IsActive {
		return nil, errors.VotingPeriodAlreadyActive
	}

	now := p.clock.Now()
	w = &Window{
		Sequence:  w.Sequence + 1,
		IsActive:  true,
		StartedAt: now,
		EndsAt:    now.Add(duration),
	}
	if err := w.Save(st); err != nil {
		return nil, err
	}

	metrics.Vote.SetWindowOpen(true)
	p.log.Info("voting period started", "sequence", w.Sequence, "ends-at", w.EndsAt)
	observer.VotingPeriodObserver.Trigger(observer.EventPeriodStarted, w)

	return w, nil
}

// End closes the window immediately, regardless of `EndsAt`.
func (p *Period) End(st *storage.LevelDBBackend, caller string) (*Window, error) {
	if !p.auth.Allowed(caller, common.RoleOwner) {
		return nil, errors.NotAuthorized
	}

	w, err := GetWindow(st)
	if err != nil {
		return nil, err
	}
	if !w.IsActive {
		return nil, errors.VotingPeriodNotActive
	}

	w.IsActive = false
	if err := w.Save(st); err != nil {
		return nil, err
	}

	metrics.Vote.SetWindowOpen(false)
	p.log.Info("voting period ended", "sequence", w.Sequence)
	observer.VotingPeriodObserver.Trigger(observer.EventPeriodEnded, w)

	return w, nil
}

// Status reports whether the window is logically open right now and how much
// time remains. A window whose stored flag is still set but whose `EndsAt`
// has passed reports closed.
func (p *Period) Status(st *storage.LevelDBBackend) (isOpen bool, remaining time.Duration, err error) {
	w, err := GetWindow(st)
	if err != nil {
		return false, 0, err
	}

	now := p.clock.Now()
	if !w.IsActive || now.After(w.EndsAt) {
		return false, 0, nil
	}

	return true, w.EndsAt.Sub(now), nil
}

func (p *Period) CurrentWindow(st *storage.LevelDBBackend) (*Window, error) {
	return GetWindow(st)
}
