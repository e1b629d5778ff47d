package registry

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common/observer"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/errors"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/storage"
)

// Item is a votable entry (a repository). the storage should support,
//  * find by `ItemID`:
// 	- key: `ItemID`: value: `Item`
//  * get list by created order:
//
// models
//  * 'id'
// 	- 'it-id-<Item.ItemID>': `Item`
//  * 'created'
// 	- 'it-created-<sequential uuid1>': `Item.ItemID`

const ItemPrefixID string = "it-id-"
const ItemPrefixCreated string = "it-created-"

type Item struct {
	ItemID      string
	Name        string
	URL         string
	Owner       string
	Description string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func NewItem(itemID, name, url, owner string, now time.Time) *Item {
	return &Item{
		ItemID:    itemID,
		Name:      name,
		URL:       url,
		Owner:     owner,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (i *Item) String() string {
	return string(common.MustJSONMarshal(i))
}

func (i *Item) Serialize() (encoded []byte, err error) {
	return common.EncodeJSONValue(i)
}

func GetItemKey(itemID string) string {
	return fmt.Sprintf("%s%s", ItemPrefixID, itemID)
}

func GetItemCreatedKey(created string) string {
	return fmt.Sprintf("%s%s", ItemPrefixCreated, created)
}

func (i *Item) Save(st *storage.LevelDBBackend) (err error) {
	key := GetItemKey(i.ItemID)

	var exists bool
	exists, err = st.Has(key)
	if err != nil {
		return
	}

	if exists {
		err = st.Set(key, i)
	} else {
		err = st.New(key, i)
		if err != nil {
			return
		}
		createdKey := GetItemCreatedKey(common.GetUniqueIDFromUUID())
		err = st.New(createdKey, i.ItemID)
	}
	if err == nil {
		observer.ItemObserver.Trigger(
			observer.EventItemSaved+" "+fmt.Sprintf("item-%s", i.ItemID),
			i,
		)
	}

	return
}

func ExistsItem(st *storage.LevelDBBackend, itemID string) (bool, error) {
	return st.Has(GetItemKey(itemID))
}

func GetItem(st *storage.LevelDBBackend, itemID string) (i *Item, err error) {
	if err = st.Get(GetItemKey(itemID), &i); err != nil {
		return
	}

	return
}

func GetItemIDsByCreated(st *storage.LevelDBBackend, options storage.ListOptions) (func() (string, bool), func()) {
	iterFunc, closeFunc := st.GetIterator(ItemPrefixCreated, options)

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

func GetItemsByCreated(st *storage.LevelDBBackend, options storage.ListOptions) (func() (*Item, bool), func()) {
	iterFunc, closeFunc := GetItemIDsByCreated(st, options)

	return (func() (*Item, bool) {
			itemID, hasNext := iterFunc()
			if !hasNext {
				return nil, false
			}

			i, err := GetItem(st, itemID)
			if err != nil {
				return nil, false
			}
			return i, hasNext
		}), (func() {
			closeFunc()
		})
}

// SearchItemsByName scans in created order and matches case-insensitively on
// the item name.
func SearchItemsByName(st *storage.LevelDBBackend, query string, limit uint64) (found []*Item, err error) {
	if limit == 0 {
		limit = storage.DefaultMaxLimitListOptions
	}
	needle := strings.ToLower(query)

	iterFunc, closeFunc := GetItemsByCreated(st, nil)
	defer closeFunc()

	for {
		i, hasNext := iterFunc()
		if !hasNext {
			break
		}
		if strings.Contains(strings.ToLower(i.Name), needle) {
			found = append(found, i)
			if uint64(len(found)) >= limit {
				break
			}
		}
	}

	return
}

// Registry exposes the lookups the vote ledger needs plus the plain CRUD
// used by operational tooling.
type Registry struct {
	clock common.Clock
	auth  common.Authorizer
}

func NewRegistry(clock common.Clock, auth common.Authorizer) *Registry {
	return &Registry{clock: clock, auth: auth}
}

func (r *Registry) Add(st *storage.LevelDBBackend, caller, itemID, name, url, owner string) (*Item, error) {
	if !r.auth.Allowed(caller, common.RoleAdmin) {
		return nil, errors.NotAuthorized
	}
	if len(itemID) < 1 || len(name) < 1 {
		return nil, errors.BadRequestParameter.Clone().SetData("item", itemID)
	}

	exists, err := ExistsItem(st, itemID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.ItemAlreadyExists.Clone().SetData("item", itemID)
	}

	i := NewItem(itemID, name, url, owner, r.clock.Now())
	if err := i.Save(st); err != nil {
		return nil, err
	}

	return i, nil
}

func (r *Registry) Update(st *storage.LevelDBBackend, caller, itemID, name, url string) (*Item, error) {
	if !r.auth.Allowed(caller, common.RoleAdmin) {
		return nil, errors.NotAuthorized
	}

	i, err := GetItem(st, itemID)
	if err != nil {
		return nil, errors.ItemDoesNotExist.Clone().SetData("item", itemID)
	}

	if len(name) > 0 {
		i.Name = name
	}
	if len(url) > 0 {
		i.URL = url
	}
	i.UpdatedAt = r.clock.Now()

	if err := i.Save(st); err != nil {
		return nil, err
	}

	return i, nil
}

func (r *Registry) Deactivate(st *storage.LevelDBBackend, caller, itemID string) error {
	if !r.auth.Allowed(caller, common.RoleAdmin) {
		return errors.NotAuthorized
	}

	i, err := GetItem(st, itemID)
	if err != nil {
		return errors.ItemDoesNotExist.Clone().SetData("item", itemID)
	}

	i.IsActive = false
	i.UpdatedAt = r.clock.Now()

	if err := i.Save(st); err != nil {
		return err
	}

	observer.ItemObserver.Trigger(
		observer.EventItemDeactivated+" "+fmt.Sprintf("item-%s", itemID),
		i,
	)

	return nil
}

// GetItemStatus is the lookup consumed by vote validation.
func (r *Registry) GetItemStatus(st *storage.LevelDBBackend, itemID string) (exists bool, isActive bool, owner string, err error) {
	if exists, err = ExistsItem(st, itemID); err != nil || !exists {
		return
	}

	var i *Item
	if i, err = GetItem(st, itemID); err != nil {
		return
	}

	isActive = i.IsActive
	owner = i.Owner

	return
}
