package escrow

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common/observer"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/storage"
)

// Record is the locked-balance model, at most one active per account. the
// storage should support,
//  * find by `Address`:
// 	- key: `Address`: value: `Record`
//  * get list by created order:
//
// models
//  * 'address'
// 	- 'es-address-<Record.Address>': `Record`
//  * 'created'
// 	- 'es-created-<sequential uuid1>': `Record.Address`

const RecordPrefixAddress string = "es-address-"
const RecordPrefixCreated string = "es-created-"

type Record struct {
	Address         string
	IsActive        bool
	LockedAmount    common.Amount
	CommittedAmount common.Amount
	FeePaid         common.Amount
	DepositedAt     time.Time
	ReleasableAt    time.Time
}

func NewRecord(address string, locked, feePaid common.Amount, depositedAt time.Time, lockDuration time.Duration) *Record {
	return &Record{
		Address:      address,
		IsActive:     true,
		LockedAmount: locked,
		FeePaid:      feePaid,
		DepositedAt:  depositedAt,
		ReleasableAt: depositedAt.Add(lockDuration),
	}
}

func (r *Record) String() string {
	return string(common.MustJSONMarshal(r))
}

func (r *Record) Serialize() (encoded []byte, err error) {
	return common.EncodeJSONValue(r)
}

// Available is the portion of the locked amount not yet committed to a vote.
func (r *Record) Available() common.Amount {
	return r.LockedAmount.MustSub(r.CommittedAmount)
}

// Invariant panics when `CommittedAmount > LockedAmount`; every mutation
// path must preserve it.
func (r *Record) Invariant() {
	if r.CommittedAmount > r.LockedAmount {
		panic(fmt.Errorf(
			"escrow record for '%s' commits %s of %s locked",
			r.Address, r.CommittedAmount, r.LockedAmount,
		))
	}
}

func GetRecordKey(address string) string {
	return fmt.Sprintf("%s%s", RecordPrefixAddress, address)
}

func GetRecordCreatedKey(created string) string {
	return fmt.Sprintf("%s%s", RecordPrefixCreated, created)
}

func (r *Record) Save(st *storage.LevelDBBackend) (err error) {
	r.Invariant()

	key := GetRecordKey(r.Address)

	var exists bool
	exists, err = st.Has(key)
	if err != nil {
		return
	}

	if exists {
		err = st.Set(key, r)
	} else {
		err = st.New(key, r)
		if err != nil {
			return
		}
		createdKey := GetRecordCreatedKey(common.GetUniqueIDFromUUID())
		err = st.New(createdKey, r.Address)
	}

	return
}

func ExistsRecord(st *storage.LevelDBBackend, address string) (bool, error) {
	return st.Has(GetRecordKey(address))
}

func GetRecord(st *storage.LevelDBBackend, address string) (r *Record, err error) {
	if err = st.Get(GetRecordKey(address), &r); err != nil {
		return
	}

	return
}

// GetActiveRecord returns the record only when one exists and is active.
func GetActiveRecord(st *storage.LevelDBBackend, address string) (*Record, bool, error) {
	exists, err := ExistsRecord(st, address)
	if err != nil {
		return nil, false, err
	}
	if !exists {
		return nil, false, nil
	}

	r, err := GetRecord(st, address)
	if err != nil {
		return nil, false, err
	}
	if !r.IsActive {
		return nil, false, nil
	}

	return r, true, nil
}

func GetRecordAddressesByCreated(st *storage.LevelDBBackend, options storage.ListOptions) (func() (string, bool), func()) {
	iterFunc, closeFunc := st.GetIterator(RecordPrefixCreated, options)

	return (func() (string, bool) {
			item, hasNext := iterFunc()
			if !hasNext {
				return "", false
			}

			var address string
			json.Unmarshal(item.Value, &address)
			return address, hasNext
		}), (func() {
			closeFunc()
		})
}

// TotalLocked sums the locked amount over every active record; the surplus
// computation compares it against the custodian balance.
func TotalLocked(st *storage.LevelDBBackend) (total common.Amount, err error) {
	iterFunc, closeFunc := st.GetIterator(RecordPrefixAddress, nil)
	defer closeFunc()

	for {
		item, hasNext := iterFunc()
		if !hasNext {
			break
		}

		var r Record
		if err = common.DecodeJSONValue(item.Value, &r); err != nil {
			return
		}
		if !r.IsActive {
			continue
		}

		if total, err = total.Add(r.LockedAmount); err != nil {
			return
		}
	}

	return
}

func triggerRecordEvent(event string, r *Record) {
	observer.EscrowObserver.Trigger(event, r)
	observer.EscrowObserver.Trigger(fmt.Sprintf("%s-%s", event, r.Address), r)
}
