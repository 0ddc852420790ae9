package model

import (
	"github.com/ethereum/go-ethereum/common"
)

// Env is the execution context the surrounding ledger supplies for a single
// protocol call. The router passes it unchanged to the module that handles
// the call.
type Env struct {
	// Caller is the account the call is attributed to. For
	// signature-authorized entry points this is the relayer; the module
	// re-attributes the action to the recovered signer.
	Caller common.Address

	// BlockNumber is the monotonic block counter at call time.
	BlockNumber uint64

	// Timestamp is the ledger timestamp at call time, in epoch seconds.
	Timestamp int64
}
