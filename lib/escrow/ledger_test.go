package escrow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/errors"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/token"
)

func TestLedgerDeposit(t *testing.T) {
	account := token.TestMakeAddress()
	tl := TestMakeLedger(map[string]common.Amount{account: 10000})
	defer tl.close()

	r, err := tl.ledger.Deposit(tl.st, account, common.Amount(1000))
	require.NoError(t, err)

	// 5% of 1000 goes to the fee sink, the rest is locked.
	require.Equal(t, common.Amount(950), r.LockedAmount)
	require.Equal(t, common.Amount(50), r.FeePaid)
	require.Equal(t, common.Amount(0), r.CommittedAmount)
	require.True(t, r.IsActive)
	require.Equal(t, testGenesisTime, r.DepositedAt)
	require.Equal(t, testGenesisTime.Add(tl.conf.VotingLockDuration), r.ReleasableAt)

	accountBalance, err := tl.custodian.BalanceOf(tl.st, account)
	require.NoError(t, err)
	require.Equal(t, common.Amount(9000), accountBalance)

	custodyBalance, err := tl.custodian.BalanceOf(tl.st, tl.custodian.Address)
	require.NoError(t, err)
	require.Equal(t, common.Amount(950), custodyBalance)

	sinkBalance, err := tl.custodian.BalanceOf(tl.st, tl.feeSink)
	require.NoError(t, err)
	require.Equal(t, common.Amount(50), sinkBalance)
}

func TestLedgerDepositRejections(t *testing.T) {
	account := token.TestMakeAddress()
	tl := TestMakeLedger(map[string]common.Amount{account: 10000})
	defer tl.close()

	_, err := tl.ledger.Deposit(tl.st, account, common.Amount(0))
	require.True(t, errors.AmountUnderflow.Equal(err))

	_, err = tl.ledger.Deposit(tl.st, "", common.Amount(100))
	require.True(t, errors.InvalidAddress.Equal(err))

	_, err = tl.ledger.Deposit(tl.st, account, common.Amount(1000))
	require.NoError(t, err)

	_, err = tl.ledger.Deposit(tl.st, account, common.Amount(1000))
	require.True(t, errors.EscrowAlreadyActive.Equal(err))
}

func TestLedgerDepositInsufficientFunds(t *testing.T) {
	account := token.TestMakeAddress()
	tl := TestMakeLedger(map[string]common.Amount{account: 500})
	defer tl.close()

	_, err := tl.ledger.Deposit(tl.st, account, common.Amount(1000))
	require.True(t, errors.InsufficientCustodianBalance.Equal(err))

	// nothing must be left behind by the failed deposit
	exists, err := ExistsRecord(tl.st, account)
	require.NoError(t, err)
	require.False(t, exists)

	balance, err := tl.custodian.BalanceOf(tl.st, account)
	require.NoError(t, err)
	require.Equal(t, common.Amount(500), balance)
}

func TestLedgerRelease(t *testing.T) {
	account := token.TestMakeAddress()
	tl := TestMakeLedger(map[string]common.Amount{account: 10000})
	defer tl.close()

	_, err := tl.ledger.Deposit(tl.st, account, common.Amount(1000))
	require.NoError(t, err)

	_, err = tl.ledger.Release(tl.st, account)
	require.True(t, errors.EscrowNotYetReleasable.Equal(err))

	tl.clock.Advance(tl.conf.VotingLockDuration)

	released, err := tl.ledger.Release(tl.st, account)
	require.NoError(t, err)
	require.Equal(t, common.Amount(950), released)

	r, err := GetRecord(tl.st, account)
	require.NoError(t, err)
	require.False(t, r.IsActive)
	require.Equal(t, common.Amount(0), r.LockedAmount)

	balance, err := tl.custodian.BalanceOf(tl.st, account)
	require.NoError(t, err)
	require.Equal(t, common.Amount(9950), balance)

	_, err = tl.ledger.Release(tl.st, account)
	require.True(t, errors.EscrowDoesNotExist.Equal(err))
}

func TestLedgerReleaseAtExactTime(t *testing.T) {
	account := token.TestMakeAddress()
	tl := TestMakeLedger(map[string]common.Amount{account: 10000})
	defer tl.close()

	r, err := tl.ledger.Deposit(tl.st, account, common.Amount(1000))
	require.NoError(t, err)

	tl.clock.Set(r.ReleasableAt)

	_, err = tl.ledger.Release(tl.st, account)
	require.NoError(t, err)
}

func TestLedgerForceRelease(t *testing.T) {
	account := token.TestMakeAddress()
	tl := TestMakeLedger(map[string]common.Amount{account: 10000})
	defer tl.close()

	_, err := tl.ledger.Deposit(tl.st, account, common.Amount(1000))
	require.NoError(t, err)

	// no waiting required
	released, err := tl.ledger.ForceRelease(tl.st, token.TestMakeAddress(), account)
	require.NoError(t, err)
	require.Equal(t, common.Amount(950), released)
}

func TestLedgerEmergencyWithdraw(t *testing.T) {
	account := token.TestMakeAddress()
	tl := TestMakeLedger(map[string]common.Amount{account: 10000})
	defer tl.close()

	_, err := tl.ledger.Deposit(tl.st, account, common.Amount(1000))
	require.NoError(t, err)

	_, err = tl.ledger.EmergencyWithdraw(tl.st, token.TestMakeAddress(), account, "")
	require.True(t, errors.EmptyReason.Equal(err))

	released, err := tl.ledger.EmergencyWithdraw(tl.st, token.TestMakeAddress(), account, "custody incident 42")
	require.NoError(t, err)
	require.Equal(t, common.Amount(950), released)
}

func TestLedgerDebitForVote(t *testing.T) {
	account := token.TestMakeAddress()
	tl := TestMakeLedger(map[string]common.Amount{account: 10000})
	defer tl.close()

	_, err := tl.ledger.Deposit(tl.st, account, common.Amount(1000))
	require.NoError(t, err)

	require.NoError(t, tl.ledger.DebitForVote(tl.st, account, common.Amount(400)))

	r, err := GetRecord(tl.st, account)
	require.NoError(t, err)
	require.Equal(t, common.Amount(950), r.LockedAmount)
	require.Equal(t, common.Amount(400), r.CommittedAmount)
	require.Equal(t, common.Amount(550), r.Available())

	// no token moved
	balance, err := tl.custodian.BalanceOf(tl.st, account)
	require.NoError(t, err)
	require.Equal(t, common.Amount(9000), balance)

	err = tl.ledger.DebitForVote(tl.st, account, common.Amount(551))
	require.True(t, errors.InsufficientAvailableBalance.Equal(err))

	// committing exactly the remaining available balance is fine
	require.NoError(t, tl.ledger.DebitForVote(tl.st, account, common.Amount(550)))

	err = tl.ledger.DebitForVote(tl.st, account, common.Amount(1))
	require.True(t, errors.InsufficientAvailableBalance.Equal(err))
}

func TestLedgerCreditFromVoteReturn(t *testing.T) {
	account := token.TestMakeAddress()
	tl := TestMakeLedger(map[string]common.Amount{account: 10000})
	defer tl.close()

	_, err := tl.ledger.Deposit(tl.st, account, common.Amount(1000))
	require.NoError(t, err)
	require.NoError(t, tl.ledger.DebitForVote(tl.st, account, common.Amount(400)))

	r, err := tl.ledger.CreditFromVoteReturn(tl.st, token.TestMakeAddress(), account, common.Amount(400))
	require.NoError(t, err)
	require.Equal(t, common.Amount(550), r.LockedAmount)
	require.Equal(t, common.Amount(0), r.CommittedAmount)
	require.True(t, r.IsActive)

	balance, err := tl.custodian.BalanceOf(tl.st, account)
	require.NoError(t, err)
	require.Equal(t, common.Amount(9400), balance)
}

func TestLedgerCreditFromVoteReturnPartial(t *testing.T) {
	account := token.TestMakeAddress()
	tl := TestMakeLedger(map[string]common.Amount{account: 10000})
	defer tl.close()

	_, err := tl.ledger.Deposit(tl.st, account, common.Amount(1000))
	require.NoError(t, err)
	require.NoError(t, tl.ledger.DebitForVote(tl.st, account, common.Amount(400)))

	r, err := tl.ledger.CreditFromVoteReturn(tl.st, token.TestMakeAddress(), account, common.Amount(200))
	require.NoError(t, err)
	require.Equal(t, common.Amount(750), r.LockedAmount)
	require.Equal(t, common.Amount(200), r.CommittedAmount)
}

func TestLedgerCreditFromVoteReturnClampsCommitment(t *testing.T) {
	account := token.TestMakeAddress()
	tl := TestMakeLedger(map[string]common.Amount{account: 10000})
	defer tl.close()

	_, err := tl.ledger.Deposit(tl.st, account, common.Amount(1000))
	require.NoError(t, err)
	require.NoError(t, tl.ledger.DebitForVote(tl.st, account, common.Amount(100)))

	// returning more than is committed floors the commitment at zero
	r, err := tl.ledger.CreditFromVoteReturn(tl.st, token.TestMakeAddress(), account, common.Amount(400))
	require.NoError(t, err)
	require.Equal(t, common.Amount(550), r.LockedAmount)
	require.Equal(t, common.Amount(0), r.CommittedAmount)
}

func TestLedgerCreditFromVoteReturnClosesAtZero(t *testing.T) {
	account := token.TestMakeAddress()
	tl := TestMakeLedger(map[string]common.Amount{account: 10000})
	defer tl.close()

	_, err := tl.ledger.Deposit(tl.st, account, common.Amount(1000))
	require.NoError(t, err)

	r, err := tl.ledger.CreditFromVoteReturn(tl.st, token.TestMakeAddress(), account, common.Amount(950))
	require.NoError(t, err)
	require.False(t, r.IsActive)
	require.Equal(t, common.Amount(0), r.LockedAmount)

	_, err = tl.ledger.CreditFromVoteReturn(tl.st, token.TestMakeAddress(), account, common.Amount(1))
	require.True(t, errors.EscrowDoesNotExist.Equal(err))
}

func TestLedgerCreditFromVoteReturnOverLocked(t *testing.T) {
	account := token.TestMakeAddress()
	tl := TestMakeLedger(map[string]common.Amount{account: 10000})
	defer tl.close()

	_, err := tl.ledger.Deposit(tl.st, account, common.Amount(1000))
	require.NoError(t, err)

	_, err = tl.ledger.CreditFromVoteReturn(tl.st, token.TestMakeAddress(), account, common.Amount(951))
	require.True(t, errors.InsufficientLockedBalance.Equal(err))
}

func TestLedgerSetReleaseTime(t *testing.T) {
	account := token.TestMakeAddress()
	tl := TestMakeLedger(map[string]common.Amount{account: 10000})
	defer tl.close()

	_, err := tl.ledger.Deposit(tl.st, account, common.Amount(1000))
	require.NoError(t, err)

	admin := token.TestMakeAddress()

	err = tl.ledger.SetReleaseTime(tl.st, admin, account, testGenesisTime)
	require.True(t, errors.ReleaseTimeNotInFuture.Equal(err))

	newTime := testGenesisTime.Add(time.Hour)
	require.NoError(t, tl.ledger.SetReleaseTime(tl.st, admin, account, newTime))

	r, err := GetRecord(tl.st, account)
	require.NoError(t, err)
	require.Equal(t, newTime, r.ReleasableAt)

	tl.clock.Advance(time.Hour)
	_, err = tl.ledger.Release(tl.st, account)
	require.NoError(t, err)
}

func TestLedgerPause(t *testing.T) {
	account := token.TestMakeAddress()
	tl := TestMakeLedger(map[string]common.Amount{account: 10000})
	defer tl.close()

	admin := token.TestMakeAddress()

	require.NoError(t, tl.ledger.Pause(tl.st, admin))

	err := tl.ledger.Pause(tl.st, admin)
	require.True(t, errors.LedgerPaused.Equal(err))

	_, err = tl.ledger.Deposit(tl.st, account, common.Amount(1000))
	require.True(t, errors.LedgerPaused.Equal(err))

	require.NoError(t, tl.ledger.Unpause(tl.st, admin))

	_, err = tl.ledger.Deposit(tl.st, account, common.Amount(1000))
	require.NoError(t, err)
}

func TestLedgerRecoverSurplusRequiresPause(t *testing.T) {
	tl := TestMakeLedger(nil)
	defer tl.close()

	_, err := tl.ledger.RecoverSurplus(tl.st, token.TestMakeAddress(), token.NativeToken, token.TestMakeAddress())
	require.True(t, errors.LedgerNotPaused.Equal(err))
}

func TestLedgerRecoverNativeSurplus(t *testing.T) {
	account := token.TestMakeAddress()
	tl := TestMakeLedger(map[string]common.Amount{account: 10000})
	defer tl.close()

	_, err := tl.ledger.Deposit(tl.st, account, common.Amount(1000))
	require.NoError(t, err)

	admin := token.TestMakeAddress()
	recipient := token.TestMakeAddress()

	require.NoError(t, tl.ledger.Pause(tl.st, admin))

	// custody matches the records exactly, nothing to recover
	_, err = tl.ledger.RecoverSurplus(tl.st, admin, token.NativeToken, recipient)
	require.True(t, errors.NoRecoverableSurplus.Equal(err))

	// simulate tokens sent straight into custody
	require.NoError(t, tl.custodian.Mint(tl.st, token.NativeToken, tl.custodian.Address, common.Amount(77)))

	recovered, err := tl.ledger.RecoverSurplus(tl.st, admin, token.NativeToken, recipient)
	require.NoError(t, err)
	require.Equal(t, common.Amount(77), recovered)

	balance, err := tl.custodian.BalanceOf(tl.st, recipient)
	require.NoError(t, err)
	require.Equal(t, common.Amount(77), balance)

	// locked backing is untouched
	custodyBalance, err := tl.custodian.BalanceOf(tl.st, tl.custodian.Address)
	require.NoError(t, err)
	require.Equal(t, common.Amount(950), custodyBalance)
}

func TestLedgerRecoverForeignToken(t *testing.T) {
	tl := TestMakeLedger(nil)
	defer tl.close()

	admin := token.TestMakeAddress()
	recipient := token.TestMakeAddress()

	require.NoError(t, tl.ledger.Pause(tl.st, admin))
	require.NoError(t, tl.custodian.Mint(tl.st, "OTHER", tl.custodian.Address, common.Amount(500)))

	recovered, err := tl.ledger.RecoverSurplus(tl.st, admin, "OTHER", recipient)
	require.NoError(t, err)
	require.Equal(t, common.Amount(500), recovered)

	remaining, err := tl.custodian.TokenBalance(tl.st, "OTHER")
	require.NoError(t, err)
	require.Equal(t, common.Amount(0), remaining)
}

func TestRecordInvariantPanics(t *testing.T) {
	r := &Record{Address: "x", LockedAmount: 10, CommittedAmount: 11}
	require.Panics(t, func() { r.Invariant() })
}

func TestTotalLockedSkipsInactive(t *testing.T) {
	a := token.TestMakeAddress()
	b := token.TestMakeAddress()
	tl := TestMakeLedger(map[string]common.Amount{a: 10000, b: 10000})
	defer tl.close()

	_, err := tl.ledger.Deposit(tl.st, a, common.Amount(1000))
	require.NoError(t, err)
	_, err = tl.ledger.Deposit(tl.st, b, common.Amount(2000))
	require.NoError(t, err)

	total, err := TotalLocked(tl.st)
	require.NoError(t, err)
	require.Equal(t, common.Amount(950+1900), total)

	_, err = tl.ledger.ForceRelease(tl.st, token.TestMakeAddress(), a)
	require.NoError(t, err)

	total, err = TotalLocked(tl.st)
	require.NoError(t, err)
	require.Equal(t, common.Amount(1900), total)
}
