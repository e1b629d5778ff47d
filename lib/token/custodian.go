package token

import (
	"fmt"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/errors"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/storage"
)

// BalanceRecord is the per-token, per-holder balance model.
//
// models
//  * 'balance'
// 	- 'tk-balance-<token>-<holder>': `BalanceRecord`
const BalanceRecordPrefix string = "tk-balance-"

type BalanceRecord struct {
	Token   string
	Holder  string
	Balance common.Amount
}

func GetBalanceRecordKey(tokenID, holder string) string {
	return fmt.Sprintf("%s%s-%s", BalanceRecordPrefix, tokenID, holder)
}

func (b *BalanceRecord) String() string {
	return string(common.MustJSONMarshal(b))
}

func (b *BalanceRecord) Serialize() (encoded []byte, err error) {
	return common.EncodeJSONValue(b)
}

func (b *BalanceRecord) Save(st *storage.LevelDBBackend) (err error) {
	key := GetBalanceRecordKey(b.Token, b.Holder)

	var exists bool
	if exists, err = st.Has(key); err != nil {
		return
	}

	if exists {
		err = st.Set(key, b)
	} else {
		err = st.New(key, b)
	}

	return
}

func GetBalanceRecord(st *storage.LevelDBBackend, tokenID, holder string) (b *BalanceRecord, err error) {
	if err = st.Get(GetBalanceRecordKey(tokenID, holder), &b); err != nil {
		return
	}

	return
}

// Custodian is the native-token transfer primitive backed by per-holder
// balance records. The custodian address is the single account that holds
// every locked token; it is only ever mutated through `TransferIn` and
// `TransferOut`.
type Custodian struct {
	Address string
}

func NewCustodian(address string) *Custodian {
	return &Custodian{Address: address}
}

func (c *Custodian) balanceOf(st *storage.LevelDBBackend, tokenID, holder string) (common.Amount, error) {
	exists, err := st.Has(GetBalanceRecordKey(tokenID, holder))
	if err != nil {
		return 0, err
	}
	if !exists {
		return common.Amount(0), nil
	}

	b, err := GetBalanceRecord(st, tokenID, holder)
	if err != nil {
		return 0, err
	}

	return b.Balance, nil
}

func (c *Custodian) move(st *storage.LevelDBBackend, tokenID, from, to string, amount common.Amount) (err error) {
	if amount == 0 {
		return errors.AmountUnderflow
	}

	fromBalance, err := c.balanceOf(st, tokenID, from)
	if err != nil {
		return
	}

	newFrom, err := fromBalance.Sub(amount)
	if err != nil {
		return errors.InsufficientCustodianBalance.Clone().
			SetData("holder", from).
			SetData("balance", fromBalance.String()).
			SetData("amount", amount.String())
	}

	toBalance, err := c.balanceOf(st, tokenID, to)
	if err != nil {
		return
	}
	newTo, err := toBalance.Add(amount)
	if err != nil {
		return
	}

	fromRecord := &BalanceRecord{Token: tokenID, Holder: from, Balance: newFrom}
	if err = fromRecord.Save(st); err != nil {
		return
	}

	toRecord := &BalanceRecord{Token: tokenID, Holder: to, Balance: newTo}
	err = toRecord.Save(st)

	return
}

func (c *Custodian) TransferIn(st *storage.LevelDBBackend, from string, amount common.Amount) error {
	return c.move(st, NativeToken, from, c.Address, amount)
}

func (c *Custodian) TransferOut(st *storage.LevelDBBackend, to string, amount common.Amount) error {
	return c.move(st, NativeToken, c.Address, to, amount)
}

func (c *Custodian) BalanceOf(st *storage.LevelDBBackend, holder string) (common.Amount, error) {
	return c.balanceOf(st, NativeToken, holder)
}

// TokenBalance reports the custodian's holding of an arbitrary token; used by
// the surplus-recovery path for tokens accidentally sent into custody.
func (c *Custodian) TokenBalance(st *storage.LevelDBBackend, tokenID string) (common.Amount, error) {
	return c.balanceOf(st, tokenID, c.Address)
}

// DrainToken moves the custodian's entire holding of `tokenID` to `to`.
func (c *Custodian) DrainToken(st *storage.LevelDBBackend, tokenID, to string) (common.Amount, error) {
	balance, err := c.balanceOf(st, tokenID, c.Address)
	if err != nil {
		return 0, err
	}
	if balance == 0 {
		return 0, errors.NoRecoverableSurplus
	}

	if err := c.move(st, tokenID, c.Address, to, balance); err != nil {
		return 0, err
	}

	return balance, nil
}

// Mint credits a holder with new tokens. It exists for genesis setup and
// tests; ordinary operations only move existing balances.
func (c *Custodian) Mint(st *storage.LevelDBBackend, tokenID, holder string, amount common.Amount) error {
	balance, err := c.balanceOf(st, tokenID, holder)
	if err != nil {
		return err
	}

	newBalance, err := balance.Add(amount)
	if err != nil {
		return err
	}

	record := &BalanceRecord{Token: tokenID, Holder: holder, Balance: newBalance}
	return record.Save(st)
}
