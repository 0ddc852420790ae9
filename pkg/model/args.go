package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// RecKeySup is one recipient of a bulk send: the recipient id, the
// recipient-specific encrypted message key, and opaque supplement bytes for
// downstream facets or adapters.
type RecKeySup struct {
	Recipient  *big.Int
	Key        []byte
	Supplement []byte
}

// SendBulkMailArgs are the arguments of a direct bulk send
type SendBulkMailArgs struct {
	FeedID       *big.Int
	UniqueID     *big.Int
	RecKeySups   []RecKeySup
	PaymentToken common.Address
	Content      []byte
}

// AddMailRecipientsArgs are the arguments of a multi-part incremental send
type AddMailRecipientsArgs struct {
	FeedID       *big.Int
	UniqueID     *big.Int
	RecKeySups   []RecKeySup
	PaymentToken common.Address

	// FirstBlockNumber anchors the replay-safe window; the call is only
	// valid while the current block is within
	// [FirstBlockNumber, FirstBlockNumber+BlockCountLock]
	FirstBlockNumber uint64
	PartsCount       uint16
	BlockCountLock   uint16
}

// SignatureArgs authorize a meta-transaction on behalf of Sender
type SignatureArgs struct {
	Signature []byte
	Sender    common.Address
	Nonce     *big.Int
	Deadline  int64
}

// ContractContext names the delegating adapter a signed payload is bound to,
// so a signature cannot be replayed across adapters or message kinds.
type ContractContext struct {
	ContractAddress common.Address
	ContractType    uint8
}

// PaywallUpdate sets the paywall amount for one token. A zero amount is an
// explicit zero, distinct from unset.
type PaywallUpdate struct {
	Token  common.Address
	Amount *big.Int
}

// WhitelistUpdate toggles the paywall bypass for one sender
type WhitelistUpdate struct {
	Sender common.Address
	Status bool
}

// CancelRequest identifies one escrow entry to cancel
type CancelRequest struct {
	ContentID *big.Int
	Recipient *big.Int
}

// ClaimInterface names the referring front end for a claim and its cut of
// the escrowed amount, in basis points.
type ClaimInterface struct {
	InterfaceAddress       common.Address
	InterfaceCommissionBps uint32
}

// PaywallTokenInfo is one row of getRecipientPaywallInfo: the effective
// amount a sender must escrow for one allowed token, commission surcharges
// included.
type PaywallTokenInfo struct {
	Token  common.Address
	Amount *big.Int
}
