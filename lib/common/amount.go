//
// Define the `Amount` type, which is the monetary type used across the code base
//
// One DEV token accounts for 10 million currency units.
// In addition to the `Amount` type, some member functions are defined:
// - `Add` / `Sub` do an addition / substraction and return an error object
// - `MustAdd` / `MustSub` call `Add` / `Sub` and turn any `error` into a `panic`.
//   Those are provided for testing / quick prototyping and should not be in production code.
// - Invariant `panic`s if the instance it's called on violates its invariant (see Contract programming)
//
package common

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/errors"
)

const (
	// 10,000,000 units == 1 DEV token
	AmountPerToken Amount = 10000000
	// The maximum possible supply of tokens within any network,
	// 1 billion DEV in `Amount` units
	MaximumBalance Amount = 1000000000 * AmountPerToken
	// An invalid value, used to make an instance unusable
	invalidValue = Amount(MaximumBalance + 1)
	// Denominator of fee rates expressed in basis points
	BasisPointDenominator uint64 = 10000
)

// Main monetary type used across the ledger
type Amount uint64

// Check this type's invariant, that is, its value is <= MaximumBalance
func (a Amount) Invariant() {
	if a > MaximumBalance {
		// `uint64` is necessary to avoid a recursive call to `String`
		// which would lead to an infinite recursion
		panic(fmt.Errorf("Amount '%d' is higher than the total supply of tokens (%d)", uint64(a), uint64(MaximumBalance)))
	}
}

// Stringer interface implementation
func (a Amount) String() string {
	a.Invariant()
	return strconv.FormatUint(uint64(a), 10)
}

//
// Add an `Amount` to this `Amount`
//
// If the resulting value would overflow MaximumBalance, an error is returned,
// along with the value (which would trigger a `panic` if used).
//
func (a Amount) Add(added Amount) (n Amount, err error) {
	a.Invariant()
	added.Invariant()
	if n = a + added; n > MaximumBalance {
		err = errors.MaximumBalanceReached
	}
	return
}

// Counterpart of `Add` which panic instead of returning an error
// Useful for debugging and testing, should be avoided in regular code
func (a Amount) MustAdd(added Amount) Amount {
	if v, err := a.Add(added); err != nil {
		panic(err)
	} else {
		return v
	}
}

//
// Substract an `Amount` from this `Amount`
//
// If the resulting value would underflow, an error is returned,
// along with an invalid value (which would trigger a `panic` if used).
//
func (a Amount) Sub(sub Amount) (Amount, error) {
	a.Invariant()
	sub.Invariant()
	if a < sub {
		return invalidValue, errors.AccountBalanceUnderZero
	}
	return a - sub, nil
}

// Counterpart of `Sub` which panic instead of returning an error
// Useful for debugging and testing, should be avoided in regular code
func (a Amount) MustSub(sub Amount) Amount {
	if v, err := a.Sub(sub); err != nil {
		panic(err)
	} else {
		return v
	}
}

//
// BasisPoints returns `floor(a * bps / 10000)`.
//
// The intermediate product can exceed the `uint64` range, so it is computed
// with `math/big`. The result is never higher than `a` for any rate up to
// 10000 bps, so the `Amount` invariant holds.
//
func (a Amount) BasisPoints(bps uint64) Amount {
	a.Invariant()
	if bps == 0 || a == 0 {
		return Amount(0)
	}

	product := new(big.Int).Mul(
		new(big.Int).SetUint64(uint64(a)),
		new(big.Int).SetUint64(bps),
	)
	product.Quo(product, new(big.Int).SetUint64(BasisPointDenominator))

	n := Amount(product.Uint64())
	if n > a {
		n = a
	}
	return n
}

// Implement JSON's Marshaler interface
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("\"%s\"", a.String())), nil
}

// Implement JSON's Unmarshaler interface
// If Unmarshalling errors, `a` will have an `invalidValue`
func (a *Amount) UnmarshalJSON(b []byte) (err error) {
	*a, err = AmountFromString(string(b[1 : len(b)-1]))
	return
}

// Parse an `Amount` from a string input
//
// Params:
//   str = a string consisting only of numbers, expressing an amount in units
//
// Returns:
//  A valid `Amount` and a `nil` error, or an invalid amount and an `error`
func AmountFromString(str string) (Amount, error) {
	if value, err := strconv.ParseUint(str, 10, 64); err != nil {
		return invalidValue, err
	} else {
		return Amount(value), nil
	}
}

// Same as AmountFromString, except it `panic`s if an error happens
func MustAmountFromString(str string) Amount {
	if value, err := AmountFromString(str); err != nil {
		panic(err)
	} else {
		return value
	}
}
