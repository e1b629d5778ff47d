package registry

import (
	"fmt"
	"time"

	"github.com/stellar/go/keypair"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/storage"
)

var testItemSequence int

func TestMakeItem(st *storage.LevelDBBackend) *Item {
	kp, _ := keypair.Random()

	testItemSequence++
	i := NewItem(
		common.GenerateUUID(),
		fmt.Sprintf("repository-%03d", testItemSequence),
		fmt.Sprintf("https://example.org/repository-%03d", testItemSequence),
		kp.Address(),
		time.Now(),
	)
	if err := i.Save(st); err != nil {
		panic(err)
	}

	return i
}
