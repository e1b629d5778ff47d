package vote

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/storage"
)

// Record is one account's vote on one item within one voting window. Records
// are scoped by the window sequence so a reopened window starts clean. the
// storage should support,
//  * find by `(Sequence, Account, ItemID)`
//  * get an account's votes in cast order
//
// models
//  * 'record'
// 	- 'vt-record-<Sequence>-<Account>-<ItemID>': `Record`
//  * 'account'
// 	- 'vt-account-<Sequence>-<Account>-<sequential uuid1>': `Record.ItemID`
//  * 'aggregate'
// 	- 'vt-agg-<Sequence>-<ItemID>': `Aggregate`
//  * 'withdrawal'
// 	- 'vt-withdrawal-<Account>-<sequential uuid1>': `Withdrawal`

const RecordPrefix string = "vt-record-"
const RecordPrefixAccount string = "vt-account-"
const AggregatePrefix string = "vt-agg-"
const WithdrawalPrefix string = "vt-withdrawal-"

type Record struct {
	Sequence       uint64
	Account        string
	ItemID         string
	OriginalAmount common.Amount
	TotalWithdrawn common.Amount
	RemainingVotes common.Amount
	CastAt         time.Time
}

func NewRecord(sequence uint64, account, itemID string, amount common.Amount, castAt time.Time) *Record {
	return &Record{
		Sequence:       sequence,
		Account:        account,
		ItemID:         itemID,
		OriginalAmount: amount,
		RemainingVotes: amount,
		CastAt:         castAt,
	}
}

func (r *Record) String() string {
	return string(common.MustJSONMarshal(r))
}

func (r *Record) Serialize() (encoded []byte, err error) {
	return common.EncodeJSONValue(r)
}

func GetRecordKey(sequence uint64, account, itemID string) string {
	return fmt.Sprintf("%s%d-%s-%s", RecordPrefix, sequence, account, itemID)
}

func GetRecordAccountPrefix(sequence uint64, account string) string {
	return fmt.Sprintf("%s%d-%s-", RecordPrefixAccount, sequence, account)
}

func GetRecordAccountKey(sequence uint64, account string) string {
	return fmt.Sprintf("%s%s", GetRecordAccountPrefix(sequence, account), common.GetUniqueIDFromUUID())
}

func (r *Record) Save(st *storage.LevelDBBackend) (err error) {
	key := GetRecordKey(r.Sequence, r.Account, r.ItemID)

	var exists bool
	if exists, err = st.Has(key); err != nil {
		return
	}

	if exists {
		err = st.Set(key, r)
	} else {
		err = st.New(key, r)
		if err != nil {
			return
		}
		err = st.New(GetRecordAccountKey(r.Sequence, r.Account), r.ItemID)
	}

	return
}

func ExistsRecord(st *storage.LevelDBBackend, sequence uint64, account, itemID string) (bool, error) {
	return st.Has(GetRecordKey(sequence, account, itemID))
}

func GetRecord(st *storage.LevelDBBackend, sequence uint64, account, itemID string) (r *Record, err error) {
	if err = st.Get(GetRecordKey(sequence, account, itemID), &r); err != nil {
		return
	}

	return
}

// GetRecordItemIDsByAccount walks the account's votes in cast order.
func GetRecordItemIDsByAccount(st *storage.LevelDBBackend, sequence uint64, account string, options storage.ListOptions) (func() (string, bool), func()) {
	iterFunc, closeFunc := st.GetIterator(GetRecordAccountPrefix(sequence, account), options)

	return (func() (string, bool) {
			item, hasNext := iterFunc()
			if !hasNext {
				return "", false
			}

			var itemID string
			json.Unmarshal(item.Value, &itemID)
			return itemID, hasNext
		}), (func() {
			closeFunc()
		})
}

func GetRecordsByAccount(st *storage.LevelDBBackend, sequence uint64, account string, options storage.ListOptions) (records []*Record, err error) {
	iterFunc, closeFunc := GetRecordItemIDsByAccount(st, sequence, account, options)
	defer closeFunc()

	for {
		itemID, hasNext := iterFunc()
		if !hasNext {
			break
		}

		var r *Record
		if r, err = GetRecord(st, sequence, account, itemID); err != nil {
			return
		}
		records = append(records, r)
	}

	return
}

// Aggregate is the per-item running total within one window, updated in the
// same transaction as the record it reflects.
type Aggregate struct {
	Sequence   uint64
	ItemID     string
	TotalVotes common.Amount
	VoterCount uint64
}

func (a *Aggregate) String() string {
	return string(common.MustJSONMarshal(a))
}

func (a *Aggregate) Serialize() (encoded []byte, err error) {
	return common.EncodeJSONValue(a)
}

func GetAggregateKey(sequence uint64, itemID string) string {
	return fmt.Sprintf("%s%d-%s", AggregatePrefix, sequence, itemID)
}

func (a *Aggregate) Save(st *storage.LevelDBBackend) (err error) {
	key := GetAggregateKey(a.Sequence, a.ItemID)

	var exists bool
	if exists, err = st.Has(key); err != nil {
		return
	}

	if exists {
		err = st.Set(key, a)
	} else {
		err = st.New(key, a)
	}

	return
}

// GetAggregate returns a zero-valued aggregate for items nobody voted on.
func GetAggregate(st *storage.LevelDBBackend, sequence uint64, itemID string) (a *Aggregate, err error) {
	var exists bool
	if exists, err = st.Has(GetAggregateKey(sequence, itemID)); err != nil {
		return
	}
	if !exists {
		return &Aggregate{Sequence: sequence, ItemID: itemID}, nil
	}

	if err = st.Get(GetAggregateKey(sequence, itemID), &a); err != nil {
		return
	}

	return
}

// Withdrawal is the audit trail of a vote withdrawal.
type Withdrawal struct {
	Sequence       uint64
	Account        string
	ItemID         string
	Amount         common.Amount
	RemainingVotes common.Amount
	IsFull         bool
	WithdrawnAt    time.Time
}

func (w *Withdrawal) String() string {
	return string(common.MustJSONMarshal(w))
}

func (w *Withdrawal) Serialize() (encoded []byte, err error) {
	return common.EncodeJSONValue(w)
}

func GetWithdrawalAccountPrefix(account string) string {
	return fmt.Sprintf("%s%s-", WithdrawalPrefix, account)
}

func (w *Withdrawal) Save(st *storage.LevelDBBackend) error {
	key := fmt.Sprintf("%s%s", GetWithdrawalAccountPrefix(w.Account), common.GetUniqueIDFromUUID())
	return st.New(key, w)
}

func GetWithdrawalsByAccount(st *storage.LevelDBBackend, account string, options storage.ListOptions) (withdrawals []*Withdrawal, err error) {
	iterFunc, closeFunc := st.GetIterator(GetWithdrawalAccountPrefix(account), options)
	defer closeFunc()

	for {
		item, hasNext := iterFunc()
		if !hasNext {
			break
		}

		var w Withdrawal
		if err = common.DecodeJSONValue(item.Value, &w); err != nil {
			return
		}
		withdrawals = append(withdrawals, &w)
	}

	return
}
