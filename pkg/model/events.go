package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Event is an externally observable protocol event. Events are buffered
// during a call and only released if the whole call commits.
type Event interface {
	// EventName returns the symbolic event type
	EventName() string
}

// EventSink receives committed events. Implementations persist them, publish
// them, or just hold them for inspection.
type EventSink interface {
	PublishEvent(event Event) error
}

// MailPush is emitted once per recipient of a send. Off-chain indexers
// reconstruct mailboxes from these.
type MailPush struct {
	FeedID      *big.Int
	Sender      common.Address
	Recipient   *big.Int
	Key         []byte
	Supplement  []byte
	ContentID   *big.Int
	Content     []byte
	BlockNumber uint64
	Timestamp   int64
}

// EventName returns the symbolic event type
func (e *MailPush) EventName() string { return "MailPush" }

// MailingFeedCreated is emitted when a new feed is created
type MailingFeedCreated struct {
	FeedID  *big.Int
	Creator common.Address
}

// EventName returns the symbolic event type
func (e *MailingFeedCreated) EventName() string { return "MailingFeedCreated" }

// PublicKeyAttached is emitted when an account (re)attaches its key
type PublicKeyAttached struct {
	Account    common.Address
	PublicKey  *big.Int
	KeyVersion uint16
	Registrar  common.Address
}

// EventName returns the symbolic event type
func (e *PublicKeyAttached) EventName() string { return "PublicKeyAttached" }

// StakeCreated is emitted when a paywalled send escrows funds for a recipient
type StakeCreated struct {
	ContentID         *big.Int
	Recipient         *big.Int
	Token             common.Address
	Amount            *big.Int
	StakeBlockedUntil int64
}

// EventName returns the symbolic event type
func (e *StakeCreated) EventName() string { return "StakeCreated" }

// StakeClaimed is emitted when a recipient claims an escrow entry
type StakeClaimed struct {
	ContentID       *big.Int
	Recipient       *big.Int
	Token           common.Address
	Amount          *big.Int
	InterfaceCut    *big.Int
	YlideCut        *big.Int
	RegistrarCut    *big.Int
	RecipientAmount *big.Int
}

// EventName returns the symbolic event type
func (e *StakeClaimed) EventName() string { return "StakeClaimed" }

// StakeCancelled is emitted when a sender cancels an escrow entry after
// lock-up
type StakeCancelled struct {
	ContentID *big.Int
	Recipient *big.Int
	Token     common.Address
	Amount    *big.Int
}

// EventName returns the symbolic event type
func (e *StakeCancelled) EventName() string { return "StakeCancelled" }

// WithdrawnRewards is emitted when an account drains its accumulated balance
type WithdrawnRewards struct {
	Account common.Address
	Token   common.Address
	Amount  *big.Int
}

// EventName returns the symbolic event type
func (e *WithdrawnRewards) EventName() string { return "WithdrawnRewards" }
