package storage

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/errors"
)

func TestLevelDBBackendInitMemStorage(t *testing.T) {
	st := &LevelDBBackend{}
	defer st.Close()

	config, _ := NewConfigFromString("memory://")
	if err := st.Init(config); err != nil {
		t.Errorf("failed to initialize mem db: %v", err)
	}
}

func TestNewConfigFromString(t *testing.T) {
	{
		config, err := NewConfigFromString("memory://")
		require.Nil(t, err)
		require.Equal(t, "memory", config.Scheme)
	}

	{
		config, err := NewConfigFromString("file:///tmp/devoter-db")
		require.Nil(t, err)
		require.Equal(t, "file", config.Scheme)
		require.Equal(t, "/tmp/devoter-db", config.Path)
	}

	{
		_, err := NewConfigFromString("redis://localhost")
		require.NotNil(t, err)
	}
}

func TestLevelDBBackendNew(t *testing.T) {
	st, _ := NewTestMemoryLevelDBBackend()
	defer st.Close()

	key := "showme"
	input := map[int]string{
		90: "99",
		91: "91",
		92: "92",
	}
	if err := st.New(key, input); err != nil {
		t.Errorf("failed to 'New' in leveldb: %v", err)
		return
	}

	fetched := map[int]string{}
	err := st.Get(key, &fetched)
	if err != nil {
		t.Errorf("failed to 'Get' in leveldb: %v", err)
		return
	}

	if !reflect.DeepEqual(input, fetched) {
		t.Errorf("failed to 'Get' the same input in leveldb")
		return
	}

	if err := st.New(key, input); err == nil {
		t.Errorf("'New' with the same key must fail")
	} else {
		require.True(t, errors.StorageRecordAlreadyExists.Equal(err))
	}
}

func TestLevelDBBackendSetRequiresExisting(t *testing.T) {
	st, _ := NewTestMemoryLevelDBBackend()
	defer st.Close()

	err := st.Set("never-created", 10)
	require.True(t, errors.StorageRecordDoesNotExist.Equal(err))

	require.Nil(t, st.New("created", 10))
	require.Nil(t, st.Set("created", 20))

	var fetched int
	require.Nil(t, st.Get("created", &fetched))
	require.Equal(t, 20, fetched)
}

func TestLevelDBBackendRemove(t *testing.T) {
	st, _ := NewTestMemoryLevelDBBackend()
	defer st.Close()

	require.Nil(t, st.New("key", "value"))

	require.Nil(t, st.Remove("key"))

	exists, err := st.Has("key")
	require.Nil(t, err)
	require.False(t, exists)

	err = st.Remove("key")
	require.True(t, errors.StorageRecordDoesNotExist.Equal(err))
}

func TestLevelDBBackendGetIterator(t *testing.T) {
	st, _ := NewTestMemoryLevelDBBackend()
	defer st.Close()

	total := 30
	for i := 0; i < total; i++ {
		require.Nil(t, st.New(fmt.Sprintf("it-%03d", i), i))
	}
	require.Nil(t, st.New("other-000", -1))

	{ // forward, prefix bound
		var fetched []int
		iterFunc, closeFunc := st.GetIterator("it-", nil)
		for {
			item, hasNext := iterFunc()
			if !hasNext {
				break
			}
			var v int
			require.Nil(t, common.DecodeJSONValue(item.Value, &v))
			fetched = append(fetched, v)
		}
		closeFunc()

		require.Equal(t, total, len(fetched))
		for i, v := range fetched {
			require.Equal(t, i, v)
		}
	}

	{ // reverse
		iterFunc, closeFunc := st.GetIterator("it-", NewDefaultListOptions(true, nil, 0))
		item, hasNext := iterFunc()
		require.True(t, hasNext)
		require.Equal(t, []byte("it-029"), item.Key)
		closeFunc()
	}

	{ // limit
		var count int
		iterFunc, closeFunc := st.GetIterator("it-", NewDefaultListOptions(false, nil, 10))
		for {
			_, hasNext := iterFunc()
			count++
			if !hasNext {
				break
			}
		}
		closeFunc()
		require.Equal(t, 11, count)
	}
}

func TestLevelDBBackendTransaction(t *testing.T) {
	st, _ := NewTestMemoryLevelDBBackend()
	defer st.Close()

	{ // discarded writes must not be visible
		ts, err := st.OpenTransaction()
		require.Nil(t, err)
		require.Nil(t, ts.New("discarded", 1))
		require.Nil(t, ts.Discard())

		exists, err := st.Has("discarded")
		require.Nil(t, err)
		require.False(t, exists)
	}

	{ // committed writes must be visible
		ts, err := st.OpenTransaction()
		require.Nil(t, err)
		require.Nil(t, ts.New("committed", 1))
		require.Nil(t, ts.Commit())

		exists, err := st.Has("committed")
		require.Nil(t, err)
		require.True(t, exists)
	}
}
