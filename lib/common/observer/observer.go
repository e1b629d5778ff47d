package observer

import (
	observable "github.com/GianlucaGuarini/go-observable"
)

var EscrowObserver = observable.New()
var VoteObserver = observable.New()
var ItemObserver = observable.New()
var FeeObserver = observable.New()
var VotingPeriodObserver = observable.New()

const (
	EventDeposited          = "deposited"
	EventReleased           = "released"
	EventForceReleased      = "force-released"
	EventEmergencyWithdrawn = "emergency-withdrawn"
	EventReleaseTimeSet     = "release-time-set"
	EventSurplusRecovered   = "surplus-recovered"

	EventVoteCast          = "vote-cast"
	EventVoteWithdrawn     = "vote-withdrawn"
	EventPartialWithdrawal = "partial-withdrawal"

	EventItemSaved       = "saved"
	EventItemDeactivated = "deactivated"

	EventFeeRateChanged = "rate-changed"
	EventExemptionSet   = "exemption-set"

	EventPeriodStarted = "started"
	EventPeriodEnded   = "ended"
)
