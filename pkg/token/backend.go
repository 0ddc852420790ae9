// Package token is the protocol's boundary to token balances. The facets
// only see the Backend interface; the surrounding environment decides
// whether that is a real chain or the in-process ledger.
package token // import "github.com/ylide/ylide-protocol-go/pkg/token"

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// NativeToken is the token address standing in for the native coin
var NativeToken = common.Address{}

// ErrInsufficientBalance is returned when a transfer exceeds the source
// balance
var ErrInsufficientBalance = errors.New("insufficient token balance")

// Backend moves token amounts on behalf of the protocol. A zero token
// address denotes the native coin.
type Backend interface {
	// BalanceOf returns the balance of an account for a token
	BalanceOf(token common.Address, account common.Address) (*big.Int, error)
	// Transfer moves amount from the protocol's own holdings to an account
	Transfer(token common.Address, to common.Address, amount *big.Int) error
	// TransferFrom moves amount between two accounts, typically from a
	// sender into the protocol's escrow
	TransferFrom(token common.Address, from common.Address, to common.Address, amount *big.Int) error
}

// Snapshotter is implemented by backends whose balances live in process and
// must be rolled back together with the protocol state when a call reverts.
type Snapshotter interface {
	// Snapshot captures the current balances
	Snapshot() interface{}
	// Restore reinstates a previously captured snapshot
	Restore(snapshot interface{})
}
