package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// StakeStatus is the lifecycle state of a single (contentId, recipient)
// escrow entry. An entry is claimed exactly once or canceled exactly once,
// never both.
type StakeStatus int

const (
	// StakeUntouched means the escrow is payable: neither claimed nor canceled
	StakeUntouched StakeStatus = iota

	// StakeClaimedStatus means the recipient has claimed the escrow
	StakeClaimedStatus

	// StakeCanceledStatus means the sender has canceled the escrow after lock-up
	StakeCanceledStatus
)

// StakeInfoSenderParams are the params to initialize a new StakeInfoSender
type StakeInfoSenderParams struct {
	Token             common.Address
	Sender            common.Address
	StakeBlockedUntil int64
}

// NewStakeInfoSender is a convenience method to init a StakeInfoSender struct
func NewStakeInfoSender(params *StakeInfoSenderParams) *StakeInfoSender {
	return &StakeInfoSender{
		token:             params.Token,
		sender:            params.Sender,
		stakeBlockedUntil: params.StakeBlockedUntil,
	}
}

// StakeInfoSender is the sender-side escrow record, one per contentId.
// stakeBlockedUntil is set once at creation and never changes.
type StakeInfoSender struct {
	token common.Address

	sender common.Address

	stakeBlockedUntil int64

	canceled bool
}

// Token is the escrowed payment token
func (s *StakeInfoSender) Token() common.Address {
	return s.token
}

// Sender is the account that funded the escrow
func (s *StakeInfoSender) Sender() common.Address {
	return s.sender
}

// StakeBlockedUntil is the timestamp before which the sender may not cancel
func (s *StakeInfoSender) StakeBlockedUntil() int64 {
	return s.stakeBlockedUntil
}

// Canceled reports whether the sender has canceled this escrow
func (s *StakeInfoSender) Canceled() bool {
	return s.canceled
}

// SetCanceled marks the sender-side record canceled
func (s *StakeInfoSender) SetCanceled(canceled bool) {
	s.canceled = canceled
}

// Copy returns a deep copy of the record
func (s *StakeInfoSender) Copy() *StakeInfoSender {
	return &StakeInfoSender{
		token:             s.token,
		sender:            s.sender,
		stakeBlockedUntil: s.stakeBlockedUntil,
		canceled:          s.canceled,
	}
}

// NewStakeInfoRecipient is a convenience method to init a StakeInfoRecipient
func NewStakeInfoRecipient(amount *big.Int) *StakeInfoRecipient {
	return &StakeInfoRecipient{
		amount: new(big.Int).Set(amount),
		status: StakeUntouched,
	}
}

// StakeInfoRecipient is the recipient-side escrow record, one per
// (contentId, recipient) pair.
type StakeInfoRecipient struct {
	// amount is the full escrowed amount including the commission
	// surcharges collected at send time
	amount *big.Int

	status StakeStatus
}

// Amount is the full escrowed amount
func (s *StakeInfoRecipient) Amount() *big.Int {
	return s.amount
}

// Status is the lifecycle state of the entry
func (s *StakeInfoRecipient) Status() StakeStatus {
	return s.status
}

// Payable reports whether the entry can still be claimed or canceled
func (s *StakeInfoRecipient) Payable() bool {
	return s.status == StakeUntouched
}

// MarkClaimed marks the entry claimed
func (s *StakeInfoRecipient) MarkClaimed() {
	s.status = StakeClaimedStatus
}

// MarkCanceled marks the entry canceled
func (s *StakeInfoRecipient) MarkCanceled() {
	s.status = StakeCanceledStatus
}

// Copy returns a deep copy of the record
func (s *StakeInfoRecipient) Copy() *StakeInfoRecipient {
	return &StakeInfoRecipient{
		amount: new(big.Int).Set(s.amount),
		status: s.status,
	}
}
