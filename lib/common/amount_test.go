package common

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	maximumBalance    = uint64(MaximumBalance)
	maximumBalanceStr = strconv.FormatUint(maximumBalance, 10)
)

func TestAmount_Invariant(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("exceeds max allowable amount value.")
		}
	}()

	amount := Amount(maximumBalance + 1)
	amount.Invariant()
}

func TestAmount_AddSub(t *testing.T) {
	require.Equal(t, Amount(150), Amount(100).MustAdd(50))
	require.Equal(t, Amount(50), Amount(100).MustSub(50))

	_, err := MaximumBalance.Add(1)
	require.NotNil(t, err)

	_, err = Amount(10).Sub(11)
	require.NotNil(t, err)

	// Test `MustSub` underflow failure
	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Errorf("Expected `panic` did not happen")
			}
		}()
		_ = Amount(1).MustSub(2)
		t.Error("Unreachable code")
	}()
}

func TestAmount_BasisPoints(t *testing.T) {
	// floor(1000 * 500 / 10000) == 50
	require.Equal(t, Amount(50), Amount(1000).BasisPoints(500))
	// floor semantics
	require.Equal(t, Amount(0), Amount(19).BasisPoints(500))
	require.Equal(t, Amount(0), Amount(1000).BasisPoints(0))
	require.Equal(t, Amount(0), Amount(0).BasisPoints(500))
	// no overflow near the supply cap
	require.Equal(t, MaximumBalance.BasisPoints(10000), MaximumBalance)
}

func TestAmount_Uint64OutOfRange(t *testing.T) {
	amount, err := AmountFromString(maximumBalanceStr)

	if amount.String() != maximumBalanceStr {
		t.Errorf("invalid stringified value: %s", amount.String())
	}

	if err != nil {
		t.Errorf("failed to parse number for input string: %s, %v", maximumBalanceStr, err)
	}

	if uint64(amount) != uint64(maximumBalance) {
		t.Errorf("failed to parse number for input string: %s != %s", amount, maximumBalanceStr)
	}

	if data, err := amount.MarshalJSON(); err != nil {
		t.Errorf("marshal error: %v", err)
	} else {
		if string(data)[1:len(data)-1] != maximumBalanceStr {
			t.Errorf("unexpected marshal value. expected: %s, got: %s", maximumBalanceStr, data)
		}

		if err := amount.UnmarshalJSON(data); err != nil {
			t.Errorf("unmarshal error: %v", err)
		}
	}
}
