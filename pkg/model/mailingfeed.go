package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// MailingFeedParams are the params to initialize a new MailingFeed
type MailingFeedParams struct {
	FeedID        *big.Int
	Owner         common.Address
	Beneficiary   common.Address
	RecipientFee  *big.Int
	CreatedDateTs int64
}

// NewMailingFeed is a convenience method to init a MailingFeed struct
func NewMailingFeed(params *MailingFeedParams) *MailingFeed {
	fee := params.RecipientFee
	if fee == nil {
		fee = big.NewInt(0)
	}
	return &MailingFeed{
		feedID:        new(big.Int).Set(params.FeedID),
		owner:         params.Owner,
		beneficiary:   params.Beneficiary,
		recipientFee:  new(big.Int).Set(fee),
		createdDateTs: params.CreatedDateTs,
	}
}

// MailingFeed is a logical mailbox stream with an owner and an optional
// per-recipient fee. Feeds are never deleted; only the owner-controlled
// fields change after creation.
type MailingFeed struct {
	feedID *big.Int

	owner common.Address

	beneficiary common.Address

	// recipientFee is charged per recipient on every send to this feed,
	// denominated in the native coin, credited to the beneficiary
	recipientFee *big.Int

	createdDateTs int64
}

// FeedID returns the unique id of this feed
func (f *MailingFeed) FeedID() *big.Int {
	return f.feedID
}

// Owner is the account allowed to reassign the beneficiary and fee
func (f *MailingFeed) Owner() common.Address {
	return f.owner
}

// Beneficiary is the account credited with the feed fees
func (f *MailingFeed) Beneficiary() common.Address {
	return f.beneficiary
}

// RecipientFee is the per-recipient fee for sends to this feed
func (f *MailingFeed) RecipientFee() *big.Int {
	return f.recipientFee
}

// CreatedDateTs is the timestamp at feed creation
func (f *MailingFeed) CreatedDateTs() int64 {
	return f.createdDateTs
}

// SetOwner transfers feed ownership
func (f *MailingFeed) SetOwner(owner common.Address) {
	f.owner = owner
}

// SetBeneficiary updates the fee beneficiary
func (f *MailingFeed) SetBeneficiary(beneficiary common.Address) {
	f.beneficiary = beneficiary
}

// SetRecipientFee updates the per-recipient fee
func (f *MailingFeed) SetRecipientFee(fee *big.Int) {
	f.recipientFee = new(big.Int).Set(fee)
}

// Copy returns a deep copy of the feed
func (f *MailingFeed) Copy() *MailingFeed {
	return &MailingFeed{
		feedID:        new(big.Int).Set(f.feedID),
		owner:         f.owner,
		beneficiary:   f.beneficiary,
		recipientFee:  new(big.Int).Set(f.recipientFee),
		createdDateTs: f.createdDateTs,
	}
}
