package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/errors"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/storage"
)

func TestSaveNewItem(t *testing.T) {
	st, _ := storage.NewTestMemoryLevelDBBackend()
	defer st.Close()

	i := TestMakeItem(st)

	exists, err := ExistsItem(st, i.ItemID)
	require.Nil(t, err)
	require.True(t, exists)

	fetched, err := GetItem(st, i.ItemID)
	require.Nil(t, err)
	require.Equal(t, i.Name, fetched.Name)
	require.True(t, fetched.IsActive)
}

func TestItemsByCreatedOrder(t *testing.T) {
	st, _ := storage.NewTestMemoryLevelDBBackend()
	defer st.Close()

	var createdOrder []string
	for i := 0; i < 20; i++ {
		item := TestMakeItem(st)
		createdOrder = append(createdOrder, item.ItemID)
	}

	var saved []string
	iterFunc, closeFunc := GetItemIDsByCreated(st, nil)
	for {
		itemID, hasNext := iterFunc()
		if !hasNext {
			break
		}
		saved = append(saved, itemID)
	}
	closeFunc()

	require.Equal(t, createdOrder, saved, "items are not saved in the order they are created")
}

func TestRegistryAddDuplicate(t *testing.T) {
	st, _ := storage.NewTestMemoryLevelDBBackend()
	defer st.Close()

	clock := common.NewTestClock(time.Now())
	r := NewRegistry(clock, common.AllowAllAuthorizer{})

	_, err := r.Add(st, "GADMIN", "item-1", "devoter", "https://example.org/devoter", "GOWNER")
	require.Nil(t, err)

	_, err = r.Add(st, "GADMIN", "item-1", "devoter", "https://example.org/devoter", "GOWNER")
	require.True(t, errors.ItemAlreadyExists.Equal(err))
}

func TestRegistryAuthorization(t *testing.T) {
	st, _ := storage.NewTestMemoryLevelDBBackend()
	defer st.Close()

	auth := common.NewRoleAuthorizer()
	auth.Grant("GADMIN", common.RoleAdmin)
	r := NewRegistry(common.NewTestClock(time.Now()), auth)

	_, err := r.Add(st, "GNOBODY", "item-1", "devoter", "", "GOWNER")
	require.True(t, errors.NotAuthorized.Equal(err))

	_, err = r.Add(st, "GADMIN", "item-1", "devoter", "", "GOWNER")
	require.Nil(t, err)
}

func TestRegistryDeactivate(t *testing.T) {
	st, _ := storage.NewTestMemoryLevelDBBackend()
	defer st.Close()

	r := NewRegistry(common.NewTestClock(time.Now()), common.AllowAllAuthorizer{})

	i, err := r.Add(st, "GADMIN", "item-1", "devoter", "", "GOWNER")
	require.Nil(t, err)

	require.Nil(t, r.Deactivate(st, "GADMIN", i.ItemID))

	exists, isActive, owner, err := r.GetItemStatus(st, i.ItemID)
	require.Nil(t, err)
	require.True(t, exists)
	require.False(t, isActive)
	require.Equal(t, "GOWNER", owner)
}

func TestRegistrySearchByName(t *testing.T) {
	st, _ := storage.NewTestMemoryLevelDBBackend()
	defer st.Close()

	r := NewRegistry(common.NewTestClock(time.Now()), common.AllowAllAuthorizer{})
	_, err := r.Add(st, "GADMIN", "item-1", "devoter-core", "", "GOWNER")
	require.Nil(t, err)
	_, err = r.Add(st, "GADMIN", "item-2", "devoter-docs", "", "GOWNER")
	require.Nil(t, err)
	_, err = r.Add(st, "GADMIN", "item-3", "unrelated", "", "GOWNER")
	require.Nil(t, err)

	found, err := SearchItemsByName(st, "DEVOTER", 0)
	require.Nil(t, err)
	require.Equal(t, 2, len(found))

	found, err = SearchItemsByName(st, "devoter", 1)
	require.Nil(t, err)
	require.Equal(t, 1, len(found))
}

func TestRegistryStatusQueryIsStable(t *testing.T) {
	st, _ := storage.NewTestMemoryLevelDBBackend()
	defer st.Close()

	r := NewRegistry(common.NewTestClock(time.Now()), common.AllowAllAuthorizer{})
	i, err := r.Add(st, "GADMIN", "item-1", "devoter", "", "GOWNER")
	require.Nil(t, err)

	for n := 0; n < 3; n++ {
		exists, isActive, owner, err := r.GetItemStatus(st, i.ItemID)
		require.Nil(t, err)
		require.True(t, exists)
		require.True(t, isActive)
		require.Equal(t, "GOWNER", owner)
	}
}
