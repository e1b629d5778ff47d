package vote

import (
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/errors"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/escrow"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/registry"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/storage"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/voting"
)

// CastChecker validates a vote before any state is touched. The amount check
// against the locked balance is optimistic; the authoritative available
// balance check happens when the escrow commitment is debited.
type CastChecker struct {
	common.DefaultChecker

	st     *storage.LevelDBBackend
	period *voting.Period

	Account string
	ItemID  string
	Amount  common.Amount

	Window       *voting.Window
	EscrowRecord *escrow.Record
}

// A duplicate vote must always surface as `AlreadyVotedForItem`; the
// duplicate check therefore runs before the item and amount checks.
var handleCastCheckerFuncs = []common.CheckerFunc{
	CheckWindowOpen,
	CheckNotAlreadyVoted,
	CheckItemVotable,
	CheckEscrowActive,
	CheckAmountAboveZero,
	CheckAmountWithinLocked,
}

func NewCastChecker(st *storage.LevelDBBackend, period *voting.Period, account, itemID string, amount common.Amount) *CastChecker {
	return &CastChecker{
		DefaultChecker: common.DefaultChecker{Funcs: handleCastCheckerFuncs},
		st:             st,
		period:         period,
		Account:        account,
		ItemID:         itemID,
		Amount:         amount,
	}
}

func CheckWindowOpen(c common.Checker, args ...interface{}) error {
	checker := c.(*CastChecker)

	isOpen, _, err := checker.period.Status(checker.st)
	if err != nil {
		return err
	}
	if !isOpen {
		return errors.VotingPeriodNotActive
	}

	w, err := voting.GetWindow(checker.st)
	if err != nil {
		return err
	}
	checker.Window = w

	return nil
}

func CheckAmountAboveZero(c common.Checker, args ...interface{}) error {
	checker := c.(*CastChecker)

	if checker.Amount == 0 {
		return errors.AmountUnderflow
	}

	return nil
}

func CheckItemVotable(c common.Checker, args ...interface{}) error {
	checker := c.(*CastChecker)

	exists, err := registry.ExistsItem(checker.st, checker.ItemID)
	if err != nil {
		return err
	}
	if !exists {
		return errors.ItemDoesNotExist.Clone().SetData("item", checker.ItemID)
	}

	item, err := registry.GetItem(checker.st, checker.ItemID)
	if err != nil {
		return err
	}
	if !item.IsActive {
		return errors.ItemNotActive.Clone().SetData("item", checker.ItemID)
	}

	return nil
}

func CheckNotAlreadyVoted(c common.Checker, args ...interface{}) error {
	checker := c.(*CastChecker)

	voted, err := ExistsRecord(checker.st, checker.Window.Sequence, checker.Account, checker.ItemID)
	if err != nil {
		return err
	}
	if voted {
		return errors.AlreadyVotedForItem.Clone().SetData("item", checker.ItemID)
	}

	return nil
}

func CheckEscrowActive(c common.Checker, args ...interface{}) error {
	checker := c.(*CastChecker)

	r, active, err := escrow.GetActiveRecord(checker.st, checker.Account)
	if err != nil {
		return err
	}
	if !active {
		return errors.EscrowDoesNotExist.Clone().SetData("address", checker.Account)
	}
	checker.EscrowRecord = r

	return nil
}

func CheckAmountWithinLocked(c common.Checker, args ...interface{}) error {
	checker := c.(*CastChecker)

	if checker.Amount > checker.EscrowRecord.LockedAmount {
		return errors.InsufficientAvailableBalance.Clone().
			SetData("locked", checker.EscrowRecord.LockedAmount.String()).
			SetData("amount", checker.Amount.String())
	}

	return nil
}
