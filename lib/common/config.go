package common

import (
	"time"
)

const (
	// MaxFeeRateBasisPoints is the policy ceiling for the deposit fee; 500
	// bps == 5%.
	MaxFeeRateBasisPoints uint64 = 500

	// WithdrawalRestrictionPeriod is the trailing blackout before a voting
	// period ends during which vote withdrawals are rejected. Protocol-level
	// constant, not configurable.
	WithdrawalRestrictionPeriod = 24 * time.Hour
)

//
// Config carries the ledger-wide parameters. The lock duration is read at
// deposit time only; changing it later never affects records that are
// already open.
//
type Config struct {
	VotingLockDuration time.Duration

	FeeRateBasisPoints    uint64
	MinFeeRateBasisPoints uint64

	FeeSinkAddress   string
	CustodianAddress string

	NetworkID []byte
}

func NewConfig(networkID []byte) Config {
	p := Config{}

	p.VotingLockDuration = 90 * 24 * time.Hour
	p.FeeRateBasisPoints = 500
	p.MinFeeRateBasisPoints = 0
	p.NetworkID = networkID

	return p
}
